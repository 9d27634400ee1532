package mail

import (
	"context"
	"sync"

	"github.com/pixelvide/mailflow/pkg/htmltext"
)

// CollectorBackend captures formatted messages instead of delivering them.
// Tests and previews read them back through Messages.
type CollectorBackend struct {
	transformer *htmltext.Transformer

	mu       sync.Mutex
	captured []*Message
}

// NewCollectorBackend creates a capturing backend.
func NewCollectorBackend(transformer *htmltext.Transformer) *CollectorBackend {
	return &CollectorBackend{transformer: transformer}
}

// Format renders the body into wrapped flowed plain text.
func (b *CollectorBackend) Format(msg *Message) {
	formatPlain(b.transformer, msg)
}

// Mail records a copy of the message and reports success.
func (b *CollectorBackend) Mail(ctx context.Context, msg *Message) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.captured = append(b.captured, msg.Clone())
	return true
}

// Messages returns the captured messages in delivery order.
func (b *CollectorBackend) Messages() []*Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Message(nil), b.captured...)
}

// Clear discards the captured messages.
func (b *CollectorBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.captured = nil
}
