package mail

import (
	"context"

	"github.com/google/uuid"
	"github.com/pixelvide/mailflow/pkg/htmltext"
	"github.com/rs/zerolog/log"
)

// LoggerBackend formats like the default backend but "delivers" by writing
// the message to the log. Useful for development and staging environments.
type LoggerBackend struct {
	transformer *htmltext.Transformer
}

// NewLoggerBackend creates a log-based backend.
func NewLoggerBackend(transformer *htmltext.Transformer) *LoggerBackend {
	return &LoggerBackend{transformer: transformer}
}

// Format renders the body into wrapped flowed plain text.
func (b *LoggerBackend) Format(msg *Message) {
	formatPlain(b.transformer, msg)
}

// Mail logs the message details and always reports success.
func (b *LoggerBackend) Mail(ctx context.Context, msg *Message) bool {
	logger := log.Ctx(ctx).With().
		Str("backend", "logger").
		Str("delivery_id", uuid.NewString()).
		Str("id", msg.ID).
		Str("from", msg.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Logger()

	if msg.ReplyTo != "" {
		logger = logger.With().Str("reply_to", msg.ReplyTo).Logger()
	}

	logger.Info().Msg("Sending email")

	// The point of this backend is seeing the email, so the body is logged
	// in full.
	logger.Info().Msgf("Body:\n%s", msg.BodyText())

	return true
}
