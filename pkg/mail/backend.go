package mail

import (
	"context"
	"fmt"
)

// Backend formats and delivers messages for the categories routed to it.
// Implementations are constructed once per strategy name and cached for the
// registry's lifetime, so per-message state must not live on the backend.
type Backend interface {
	// Format renders the message body for delivery. It must be a pure
	// transformation of the message and perform no I/O.
	Format(msg *Message)
	// Mail attempts delivery and reports success. It may block on network
	// I/O; cancellation and timeouts come from the caller's context.
	Mail(ctx context.Context, msg *Message) bool
}

// Factory constructs a backend for a registered strategy name.
type Factory func() (Backend, error)

// ConfigurationError reports a routed backend strategy that cannot be
// resolved or constructed. A broken explicit override is surfaced rather
// than silently replaced with the fallback.
type ConfigurationError struct {
	Strategy string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mail: backend strategy %q: %v", e.Strategy, e.Err)
	}
	return fmt.Sprintf("mail: backend strategy %q is not registered", e.Strategy)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
