// Package spool provides byte-payload spools for deferred mail delivery.
//
// A spool only moves opaque payloads; the mail package decides what goes in
// (JSON message envelopes) and what delivery means on the way out.
package spool

import (
	"context"
	"errors"
	"time"
)

// ErrEmpty is returned by Pop when no payload became available within the
// wait window.
var ErrEmpty = errors.New("spool: empty")

// Spool is a FIFO payload store. Push must be durable before returning;
// Pop removes the payload it returns, so delivery is at-least-once only if
// the consumer re-pushes on failure.
type Spool interface {
	Push(ctx context.Context, payload []byte) error
	// Pop returns the oldest payload, blocking up to wait for one to
	// arrive. It returns ErrEmpty when the window elapses empty.
	Pop(ctx context.Context, wait time.Duration) ([]byte, error)
}
