package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pixelvide/mailflow/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testComposer(backend *stubBackend, cfg *config.Config) *Composer {
	registry := NewRegistry(nil)
	registry.Register(DefaultStrategy, stubFactory(backend))
	return NewComposer(registry, cfg)
}

func TestComposer_DefaultHeaders(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "testapp"
	cfg.Mail.SiteMail = "site@example.com"
	backend := &stubBackend{mailOK: true}
	composer := testComposer(backend, cfg)

	msg, err := composer.Compose(context.Background(), "user", "welcome",
		"to@example.com", "en", nil, "reply@example.com", false)
	assert.NoError(t, err)

	assert.Equal(t, "user_welcome", msg.ID)
	assert.Equal(t, "1.0", msg.Headers.Get("MIME-Version"))
	assert.Equal(t, "text/plain; charset=UTF-8; format=flowed; delsp=yes", msg.Headers.Get("Content-Type"))
	assert.Equal(t, "8Bit", msg.Headers.Get("Content-Transfer-Encoding"))
	assert.Equal(t, "testapp", msg.Headers.Get("X-Mailer"))
	assert.Equal(t, "site@example.com", msg.Headers.Get("From"))
	assert.Equal(t, "site@example.com", msg.Headers.Get("Sender"))
	assert.Equal(t, "site@example.com", msg.Headers.Get("Return-Path"))
	assert.Equal(t, "reply@example.com", msg.Headers.Get("Reply-To"))

	// Header lookup is case-insensitive, with the wire spelling retained.
	assert.Equal(t, "1.0", msg.Headers.Get("mime-version"))
	assert.Contains(t, msg.Headers.Keys(), "MIME-Version")

	// Formatting always runs; with send false, delivery does not.
	assert.Equal(t, 1, backend.formatted)
	assert.Empty(t, backend.mailed)
	assert.Equal(t, ResultPending, msg.Result)
}

func TestComposer_SenderFallback(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mail.FromAddress = "noreply@example.com"
	composer := testComposer(&stubBackend{}, cfg)

	msg, err := composer.Compose(context.Background(), "user", "welcome",
		"to@example.com", "en", nil, "", false)
	assert.NoError(t, err)
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, "noreply@example.com", msg.Headers.Get("From"))

	// Without any configured sender the addressing headers stay unset.
	bare := testComposer(&stubBackend{}, nil)
	msg, err = bare.Compose(context.Background(), "user", "welcome",
		"to@example.com", "en", nil, "", false)
	assert.NoError(t, err)
	assert.Equal(t, "", msg.From)
	assert.False(t, msg.Headers.Has("From"))
	assert.False(t, msg.Headers.Has("Reply-To"))
}

func TestComposer_BuilderThenAlterers(t *testing.T) {
	composer := testComposer(&stubBackend{}, nil)
	composer.RegisterBuilder("user", func(key string, msg *Message, params map[string]any) {
		msg.Subject = "Welcome, " + params["name"].(string)
		msg.Body = append(msg.Body, "built:"+key)
	})
	composer.AddAlterer(func(msg *Message) {
		msg.Body = append(msg.Body, "altered-first")
	})
	composer.AddAlterer(func(msg *Message) {
		msg.Body = append(msg.Body, "altered-second")
	})

	msg, err := composer.Compose(context.Background(), "user", "welcome",
		"to@example.com", "en", map[string]any{"name": "Ada"}, "", false)
	assert.NoError(t, err)

	assert.Equal(t, "Welcome, Ada", msg.Subject)
	assert.Equal(t, []string{"built:welcome", "altered-first", "altered-second"}, msg.Body)
}

func TestComposer_CancellationSkipsDelivery(t *testing.T) {
	backend := &stubBackend{mailOK: true}
	composer := testComposer(backend, nil)
	composer.RegisterBuilder("user", func(key string, msg *Message, params map[string]any) {
		msg.Send = false
	})

	msg, err := composer.Compose(context.Background(), "user", "welcome",
		"to@example.com", "en", nil, "", true)
	assert.NoError(t, err)

	assert.Equal(t, ResultCanceled, msg.Result)
	assert.Equal(t, 1, backend.formatted, "cancelled messages are still formatted")
	assert.Empty(t, backend.mailed, "cancelled messages must never reach the backend")
}

func TestComposer_DeliverySuccess(t *testing.T) {
	backend := &stubBackend{mailOK: true}
	composer := testComposer(backend, nil)

	msg, err := composer.Compose(context.Background(), "user", "welcome",
		"to@example.com", "en", nil, "", true)
	assert.NoError(t, err)

	assert.Equal(t, ResultSent, msg.Result)
	assert.Len(t, backend.mailed, 1)
}

func TestComposer_DeliveryFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	backend := &stubBackend{mailOK: false}
	composer := testComposer(backend, nil)
	var notices []string
	composer.SetNotifier(func(text string) {
		notices = append(notices, text)
	})

	msg, err := composer.Compose(ctx, "user", "welcome",
		"to@example.com", "en", nil, "", true)

	// Delivery failure is recorded and reported, never returned as an error.
	assert.NoError(t, err)
	assert.Equal(t, ResultFailed, msg.Result)

	logged := buf.String()
	assert.Contains(t, logged, "Error sending email")
	assert.Contains(t, logged, `"id":"user_welcome"`)
	assert.Equal(t, 1, strings.Count(logged, "\n"), "exactly one log entry per failure")

	assert.Equal(t, []string{"Unable to send email. Contact the site administrator if the problem persists."}, notices)
}

func TestComposer_UnresolvableBackend(t *testing.T) {
	registry := NewRegistry(map[string]string{"default-system": "missing"})
	composer := NewComposer(registry, nil)

	msg, err := composer.Compose(context.Background(), "user", "welcome",
		"to@example.com", "en", nil, "", true)

	assert.Nil(t, msg)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
