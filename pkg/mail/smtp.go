package mail

import (
	"crypto/tls"
	"fmt"
	netmail "net/mail"
	"net/smtp"
	"strings"

	"github.com/pixelvide/mailflow/pkg/config"
)

// sendSMTP delivers a formatted message through the configured relay.
func sendSMTP(cfg config.MailConfig, msg *Message) error {
	if cfg.Host == "" {
		return fmt.Errorf("no SMTP host configured")
	}
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	wire := buildWireMessage(msg)

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	from, err := envelopeAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	recipients, err := envelopeRecipients(msg.To)
	if err != nil {
		return err
	}

	// Implicit TLS (usually port 465).
	if cfg.Encryption == "ssl" || cfg.Port == "465" {
		return sendWithImplicitTLS(cfg.Host, addr, auth, from, recipients, wire)
	}

	// STARTTLS or unencrypted (usually port 587 or 25).
	// smtp.SendMail handles STARTTLS automatically if the server supports it.
	return smtp.SendMail(addr, auth, from, recipients, wire)
}

func sendWithImplicitTLS(host, addr string, auth smtp.Auth, from string, to []string, wire []byte) error {
	tlsConfig := &tls.Config{
		ServerName: host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to dial TLS: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() {
		_ = client.Quit()
	}()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, t := range to {
		if err = client.Rcpt(t); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", t, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(wire); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return nil
}

// buildWireMessage serializes the composed headers, addressing, and body
// into an RFC 2822 message.
func buildWireMessage(msg *Message) []byte {
	var b strings.Builder

	writeHeader := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(sanitizeHeaderValue(value))
		b.WriteString("\r\n")
	}

	writeHeader("To", msg.To)
	writeHeader("Subject", msg.Subject)
	for _, name := range msg.Headers.Keys() {
		writeHeader(name, msg.Headers.Get(name))
	}
	b.WriteString("\r\n")
	b.WriteString(msg.BodyText())

	return []byte(b.String())
}

// sanitizeHeaderValue strips line breaks so callers cannot inject headers.
func sanitizeHeaderValue(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", ""), "\n", "")
}

// envelopeAddress extracts the bare address part using net/mail.
func envelopeAddress(input string) (string, error) {
	addr, err := netmail.ParseAddress(input)
	if err != nil {
		// Works for "foo@bar.com" and "Name <foo@bar.com>" alike; anything
		// net/mail rejects is refused here too.
		return "", err
	}
	return addr.Address, nil
}

// envelopeRecipients flattens a To address-list string into bare envelope
// addresses.
func envelopeRecipients(to string) ([]string, error) {
	addrs, err := netmail.ParseAddressList(to)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient list: %w", err)
	}
	recipients := make([]string, 0, len(addrs))
	for _, a := range addrs {
		recipients = append(recipients, a.Address)
	}
	return recipients, nil
}
