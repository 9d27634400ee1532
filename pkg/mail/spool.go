package mail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pixelvide/mailflow/pkg/htmltext"
	"github.com/pixelvide/mailflow/pkg/spool"
	"github.com/rs/zerolog/log"
)

// SpoolBackend defers delivery: the message is formatted normally, then
// pushed as a JSON envelope onto a spool for a later FlushSpool run.
type SpoolBackend struct {
	spool       spool.Spool
	transformer *htmltext.Transformer
}

// NewSpoolBackend creates a spooling backend.
func NewSpoolBackend(sp spool.Spool, transformer *htmltext.Transformer) *SpoolBackend {
	return &SpoolBackend{spool: sp, transformer: transformer}
}

// Format renders the body into wrapped flowed plain text.
func (b *SpoolBackend) Format(msg *Message) {
	formatPlain(b.transformer, msg)
}

// Mail pushes the formatted message onto the spool. Success means the
// envelope was accepted for later delivery, not that it was delivered.
func (b *SpoolBackend) Mail(ctx context.Context, msg *Message) bool {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("id", msg.ID).Msg("Spool envelope marshalling failed")
		return false
	}
	if err := b.spool.Push(ctx, payload); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("id", msg.ID).Msg("Spool push failed")
		return false
	}
	return true
}

// FlushSpool drains up to max envelopes from the spool and re-delivers each
// through the target backend (the messages are already formatted, so only
// Mail runs). It returns the number delivered. Undeliverable envelopes are
// pushed back for a later flush; unparseable ones are dropped and counted
// against max but not against the result.
func FlushSpool(ctx context.Context, sp spool.Spool, target Backend, max int) (int, error) {
	delivered := 0
	for i := 0; i < max; i++ {
		payload, err := sp.Pop(ctx, time.Second)
		if err != nil {
			if err == spool.ErrEmpty {
				return delivered, nil
			}
			return delivered, err
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Dropping unparseable spool envelope")
			continue
		}

		if target.Mail(ctx, &msg) {
			delivered++
			continue
		}
		log.Ctx(ctx).Warn().Str("id", msg.ID).Msg("Spooled delivery failed; re-spooling")
		if err := sp.Push(ctx, payload); err != nil {
			return delivered, err
		}
	}
	return delivered, nil
}
