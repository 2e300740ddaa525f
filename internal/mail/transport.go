// Package mail provides outbound email delivery behind a transport strategy.
// The concrete transport is selected once at startup from configuration:
// a real SMTP transport when credentials are present, a logging transport
// otherwise. Callers never branch on configuration themselves.
package mail

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"maritime_portal_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/sync/errgroup"
)

// Message is a fully rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a single message. Implementations must not panic and
// must respect ctx cancellation during delivery.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// TransportConfig exposes the settings needed to construct a transport.
type TransportConfig interface {
	MailConfigured() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NewTransport selects the transport implementation from configuration.
// Missing SMTP credentials yield the logging transport so that business
// actions are never blocked by absent mail configuration.
func NewTransport(cfg TransportConfig, log *logger.Logger) Transport {
	if !cfg.MailConfigured() {
		log.Warn("SMTP not configured; outbound email runs in logging mode")
		return &LoggingTransport{log: log}
	}
	return &SMTPTransport{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SMTPTransport delivers messages over a direct SMTP connection via go-mail.
type SMTPTransport struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// Name identifies the transport in logs.
func (s *SMTPTransport) Name() string { return "smtp" }

// Send delivers the message, preferring the HTML body with a plain-text alternative.
func (s *SMTPTransport) Send(ctx context.Context, m Message) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Text)
	msg.AddAlternativeString(gomail.TypeTextHTML, m.HTML)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// LoggingTransport records the intended send and reports success.
// Used when SMTP is not configured so development and staging environments
// behave like production without delivering anything.
type LoggingTransport struct {
	log *logger.Logger
}

// Name identifies the transport in logs.
func (t *LoggingTransport) Name() string { return "logging" }

// Send logs the message and returns nil.
func (t *LoggingTransport) Send(_ context.Context, m Message) error {
	if t.log != nil {
		t.log.MailEvent(t.Name(), m.To, m.Subject, true, "")
	}
	return nil
}

// Broadcast sends the same rendered content to every recipient independently.
// One failed recipient never prevents attempts to the others; the broadcast
// succeeds when at least one delivery succeeded.
func Broadcast(ctx context.Context, transport Transport, log *logger.Logger, recipients []string, subject, html, text string) bool {
	if len(recipients) == 0 {
		return false
	}

	var delivered atomic.Int64
	var g errgroup.Group
	for _, recipient := range recipients {
		g.Go(func() error {
			err := transport.Send(ctx, Message{To: recipient, Subject: subject, HTML: html, Text: text})
			if err != nil {
				if log != nil {
					log.MailEvent(transport.Name(), recipient, subject, false, err.Error())
				}
				// Per-recipient failures are terminal for that recipient only.
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return delivered.Load() > 0
}
