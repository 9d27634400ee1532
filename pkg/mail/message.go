// Package mail composes outbound email messages and hands them to
// configuration-selected backends for formatting and delivery.
package mail

import "strings"

// DeliveryResult records the outcome of a compose-and-send cycle.
type DeliveryResult int

const (
	// ResultPending means delivery has not been attempted.
	ResultPending DeliveryResult = iota
	// ResultCanceled means a builder or alterer flipped Send off; delivery
	// was skipped intentionally and is not an error.
	ResultCanceled
	// ResultSent means the backend reported successful delivery.
	ResultSent
	// ResultFailed means the backend reported a delivery failure.
	ResultFailed
)

func (r DeliveryResult) String() string {
	switch r {
	case ResultCanceled:
		return "canceled"
	case ResultSent:
		return "sent"
	case ResultFailed:
		return "failed"
	}
	return "pending"
}

// Message is the mutable mail record built by the Composer, mutated by
// builders and alterers, and finally handed to a backend. ID is assigned on
// construction and must not be changed afterwards; it identifies the
// logical template as "{category}_{key}" and drives backend resolution.
type Message struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Key      string `json:"key"`

	To       string `json:"to"`
	From     string `json:"from"`
	ReplyTo  string `json:"reply_to,omitempty"`
	Language string `json:"language,omitempty"`

	// Params carries caller data for the builder chain; the composer does
	// not interpret it.
	Params map[string]any `json:"params,omitempty"`

	Headers Header `json:"headers"`
	Subject string `json:"subject"`

	// Body is an ordered list of text fragments, joined with blank lines
	// when a backend formats the message. Fragments may contain markup.
	Body []string `json:"body"`

	// Send is the caller's delivery intent; any builder or alterer may flip
	// it off to cancel delivery without erroring.
	Send bool `json:"send"`

	Result DeliveryResult `json:"result"`
}

// Clone returns a deep enough copy for retention beyond the compose call:
// headers, body, and params no longer alias the original.
func (m *Message) Clone() *Message {
	clone := *m
	clone.Headers = m.Headers.clone()
	clone.Body = append([]string(nil), m.Body...)
	if m.Params != nil {
		clone.Params = make(map[string]any, len(m.Params))
		for k, v := range m.Params {
			clone.Params[k] = v
		}
	}
	return &clone
}

// BodyText joins the body fragments the way backends format them.
func (m *Message) BodyText() string {
	return strings.Join(m.Body, "\n\n")
}
