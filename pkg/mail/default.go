package mail

import (
	"context"

	"github.com/pixelvide/mailflow/pkg/config"
	"github.com/pixelvide/mailflow/pkg/flowed"
	"github.com/pixelvide/mailflow/pkg/htmltext"
	"github.com/rs/zerolog/log"
)

// formatPlain is the standard formatting pass shared by the built-in
// backends: body fragments are joined, any markup is rendered to plain
// text, and the result is wrapped as format=flowed. The body collapses to a
// single formatted fragment.
func formatPlain(t *htmltext.Transformer, msg *Message) {
	body := msg.BodyText()
	if t != nil {
		body = t.Transform(body)
	}
	msg.Body = []string{flowed.Wrap(body, "")}
}

// DefaultBackend renders flowed plain text and delivers over SMTP. It is
// the built-in fallback strategy.
type DefaultBackend struct {
	transformer *htmltext.Transformer
	cfg         config.MailConfig
}

// NewDefaultBackend creates the default backend with the given site and
// transport configuration.
func NewDefaultBackend(transformer *htmltext.Transformer, cfg config.MailConfig) *DefaultBackend {
	return &DefaultBackend{transformer: transformer, cfg: cfg}
}

// Format renders the body into wrapped flowed plain text.
func (b *DefaultBackend) Format(msg *Message) {
	formatPlain(b.transformer, msg)
}

// Mail delivers the message over SMTP and reports success.
func (b *DefaultBackend) Mail(ctx context.Context, msg *Message) bool {
	if err := sendSMTP(b.cfg, msg); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("id", msg.ID).Msg("SMTP delivery failed")
		return false
	}
	return true
}
