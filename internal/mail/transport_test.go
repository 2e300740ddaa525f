package mail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"maritime_portal_backend/platform/logger"
)

type stubTransport struct {
	mu      sync.Mutex
	failFor map[string]bool
	sent    []string
}

func (s *stubTransport) Send(_ context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[m.To] {
		return errors.New("delivery refused")
	}
	s.sent = append(s.sent, m.To)
	return nil
}

func (s *stubTransport) Name() string { return "stub" }

type transportTestConfig struct {
	configured bool
}

func (c transportTestConfig) MailConfigured() bool        { return c.configured }
func (c transportTestConfig) GetSMTPHost() string         { return "smtp.example" }
func (c transportTestConfig) GetSMTPPort() int            { return 587 }
func (c transportTestConfig) GetSMTPUsername() string     { return "mailer" }
func (c transportTestConfig) GetSMTPPassword() string     { return "secret" }
func (c transportTestConfig) GetEmailFromName() string    { return "Meridian Freight" }
func (c transportTestConfig) GetEmailFromAddress() string { return "noreply@meridianfreight.example" }

func TestNewTransportFallsBackToLogging(t *testing.T) {
	log := logger.New("test")

	transport := NewTransport(transportTestConfig{configured: false}, log)
	if _, ok := transport.(*LoggingTransport); !ok {
		t.Fatalf("expected logging transport, got %T", transport)
	}

	transport = NewTransport(transportTestConfig{configured: true}, log)
	if _, ok := transport.(*SMTPTransport); !ok {
		t.Fatalf("expected smtp transport, got %T", transport)
	}
}

func TestLoggingTransportAlwaysSucceeds(t *testing.T) {
	transport := &LoggingTransport{log: logger.New("test")}
	err := transport.Send(context.Background(), Message{To: "a@example.com", Subject: "s"})
	if err != nil {
		t.Fatalf("logging transport must not fail: %v", err)
	}
}

func TestBroadcastSucceedsWithPartialFailure(t *testing.T) {
	transport := &stubTransport{failFor: map[string]bool{"b@example.com": true}}
	log := logger.New("test")

	ok := Broadcast(context.Background(), transport, log, []string{"a@example.com", "b@example.com", "c@example.com"}, "s", "<p>h</p>", "t")
	if !ok {
		t.Fatalf("broadcast must succeed when at least one delivery succeeds")
	}
	if len(transport.sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(transport.sent))
	}
}

func TestBroadcastFailsWhenAllFail(t *testing.T) {
	transport := &stubTransport{failFor: map[string]bool{"a@example.com": true, "b@example.com": true}}

	ok := Broadcast(context.Background(), transport, logger.New("test"), []string{"a@example.com", "b@example.com"}, "s", "h", "t")
	if ok {
		t.Fatalf("broadcast must fail when no delivery succeeds")
	}
}

func TestBroadcastFailsWithoutRecipients(t *testing.T) {
	if Broadcast(context.Background(), &stubTransport{}, logger.New("test"), nil, "s", "h", "t") {
		t.Fatalf("broadcast without recipients must report failure")
	}
}
