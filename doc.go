// Package mailflow provides outbound email composition for content
// platforms, rendering rich markup into RFC 3676 "format=flowed" plain text
// and delegating formatting/delivery to configuration-selected backends.
//
// Key subpackages:
//
//	github.com/pixelvide/mailflow/pkg/mail      - Message model, backend registry, composer, built-in backends
//	github.com/pixelvide/mailflow/pkg/htmltext  - Restricted-HTML to flowed plain-text transformer
//	github.com/pixelvide/mailflow/pkg/flowed    - RFC 3676 format=flowed line wrapping
//	github.com/pixelvide/mailflow/pkg/spool     - Redis/SQS spools for deferred delivery
//	github.com/pixelvide/mailflow/pkg/config    - Configuration structs and .env loading
//
// Example Usage:
//
//	package main
//
//	import (
//		"context"
//		"github.com/pixelvide/mailflow/pkg/config"
//		"github.com/pixelvide/mailflow/pkg/mail"
//	)
//
//	func main() {
//		cfg, _ := config.Load()
//		registry := mail.ConfigureRegistry(cfg)
//		composer := mail.NewComposer(registry, cfg)
//		composer.RegisterBuilder("contact", func(key string, msg *mail.Message, params map[string]any) {
//			msg.Subject = "Thanks for getting in touch"
//			msg.Body = append(msg.Body, "<p>We received your <strong>message</strong>.</p>")
//		})
//		composer.Compose(context.Background(), "contact", "page_autoreply",
//			"visitor@example.com", "en", nil, "", true)
//	}
package mailflow
