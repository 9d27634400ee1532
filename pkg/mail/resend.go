package mail

import (
	"context"

	"github.com/pixelvide/mailflow/pkg/htmltext"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// ResendBackend delivers through the Resend API. The body is sent as the
// plain-text rendering produced by the standard formatting pass.
type ResendBackend struct {
	client      *resend.Client
	transformer *htmltext.Transformer
}

// NewResendBackend creates a Resend API backend.
func NewResendBackend(apiKey string, transformer *htmltext.Transformer) *ResendBackend {
	return &ResendBackend{
		client:      resend.NewClient(apiKey),
		transformer: transformer,
	}
}

// Format renders the body into wrapped flowed plain text.
func (b *ResendBackend) Format(msg *Message) {
	formatPlain(b.transformer, msg)
}

// Mail sends the message through the Resend API and reports success.
func (b *ResendBackend) Mail(ctx context.Context, msg *Message) bool {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.BodyText(),
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	if _, err := b.client.Emails.Send(params); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("id", msg.ID).Msg("Resend delivery failed")
		return false
	}
	return true
}
