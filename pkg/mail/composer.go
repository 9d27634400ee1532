package mail

import (
	"context"

	"github.com/pixelvide/mailflow/pkg/config"
	"github.com/rs/zerolog/log"
)

// MessageBuilder populates a message for one category: subject, body
// fragments, extra headers, or a Send cancellation.
type MessageBuilder func(key string, msg *Message, params map[string]any)

// Alterer mutates a fully built message before formatting. Every registered
// alterer runs, in registration order, even if an earlier one cancels Send.
type Alterer func(msg *Message)

// NotifyFunc surfaces a user-facing notice outside the log stream.
type NotifyFunc func(text string)

// Composer builds outbound messages and drives them through the builder
// chain, the alterer chain, and the resolved backend.
type Composer struct {
	registry *Registry
	builders map[string]MessageBuilder
	alterers []Alterer
	notify   NotifyFunc

	siteMail    string
	defaultFrom string
	mailerName  string
}

// NewComposer creates a composer sending through the given registry, with
// sender defaults from the configuration.
func NewComposer(registry *Registry, cfg *config.Config) *Composer {
	c := &Composer{
		registry:   registry,
		builders:   make(map[string]MessageBuilder),
		mailerName: "mailflow",
	}
	if cfg != nil {
		c.siteMail = cfg.Mail.SiteMail
		c.defaultFrom = cfg.Mail.FromAddress
		if cfg.App.Name != "" {
			c.mailerName = cfg.App.Name
		}
	}
	return c
}

// RegisterBuilder installs the message builder for a category, replacing
// any previous one.
func (c *Composer) RegisterBuilder(category string, builder MessageBuilder) {
	c.builders[category] = builder
}

// AddAlterer appends a message alterer to the global chain.
func (c *Composer) AddAlterer(alterer Alterer) {
	c.alterers = append(c.alterers, alterer)
}

// SetNotifier installs the user-facing notice sink used on delivery
// failure.
func (c *Composer) SetNotifier(notify NotifyFunc) {
	c.notify = notify
}

// Compose builds, formats, and optionally sends a message.
//
// The message starts with default headers and the configured sender, is
// handed to the category's builder and then every alterer, and finally to
// the backend resolved for (category, key). With send true, delivery is
// attempted unless a callback cancelled it; a delivery failure is recorded
// and reported but never returned as an error. The only error condition is
// a backend strategy that cannot be resolved.
func (c *Composer) Compose(ctx context.Context, category, key, to, language string, params map[string]any, replyTo string, send bool) (*Message, error) {
	from := c.siteMail
	if from == "" {
		from = c.defaultFrom
	}

	msg := &Message{
		ID:       category + "_" + key,
		Category: category,
		Key:      key,
		To:       to,
		From:     from,
		ReplyTo:  replyTo,
		Language: language,
		Params:   params,
		Send:     true,
	}

	msg.Headers.Set("MIME-Version", "1.0")
	msg.Headers.Set("Content-Type", "text/plain; charset=UTF-8; format=flowed; delsp=yes")
	msg.Headers.Set("Content-Transfer-Encoding", "8Bit")
	msg.Headers.Set("X-Mailer", c.mailerName)
	if from != "" {
		// Sender and Return-Path should carry an address authorized for
		// the originating relay, or the mail looks like spam.
		msg.Headers.Set("From", from)
		msg.Headers.Set("Sender", from)
		msg.Headers.Set("Return-Path", from)
	}
	if replyTo != "" {
		msg.Headers.Set("Reply-To", replyTo)
	}

	if builder, ok := c.builders[category]; ok {
		builder(key, msg, params)
	}
	for _, alterer := range c.alterers {
		alterer(msg)
	}

	backend, err := c.registry.Resolve(category, key)
	if err != nil {
		return nil, err
	}

	backend.Format(msg)

	if send {
		switch {
		case !msg.Send:
			// Sending was requested but cancelled along the way; not an
			// error, nothing to report.
			msg.Result = ResultCanceled
		case backend.Mail(ctx, msg):
			msg.Result = ResultSent
		default:
			msg.Result = ResultFailed
			log.Ctx(ctx).Error().
				Str("id", msg.ID).
				Str("from", msg.From).
				Str("to", msg.To).
				Msg("Error sending email")
			if c.notify != nil {
				c.notify("Unable to send email. Contact the site administrator if the problem persists.")
			}
		}
	}

	return msg, nil
}
