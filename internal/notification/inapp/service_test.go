package inapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"maritime_portal_backend/internal/mail"
	"maritime_portal_backend/platform/apperr"
	"maritime_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	insertErr error
	listErr   error

	inserted []CreateParams
	rows     []Notification

	outcomeID   uuid.UUID
	outcomeSent bool
	outcomeErr  error

	listedEmails []string
	markReadOK   bool
}

func (f *fakeStore) Insert(_ context.Context, p CreateParams) (Notification, error) {
	if f.insertErr != nil {
		return Notification{}, f.insertErr
	}
	f.inserted = append(f.inserted, p)
	n := Notification{
		ID:             uuid.New(),
		RecipientEmail: p.RecipientEmail,
		Type:           p.Type,
		Title:          p.Title,
		Message:        p.Message,
		Status:         StatusUnread,
		CreatedAt:      time.Now(),
	}
	f.rows = append(f.rows, n)
	return n, nil
}

func (f *fakeStore) ListByEmails(_ context.Context, emails []string, _, _ int) ([]Notification, int, error) {
	f.listedEmails = emails
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.rows, len(f.rows), nil
}

func (f *fakeStore) CountUnreadByEmails(_ context.Context, emails []string) (int, error) {
	f.listedEmails = emails
	if f.listErr != nil {
		return 0, f.listErr
	}
	return len(f.rows), nil
}

func (f *fakeStore) MarkRead(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return f.markReadOK, nil
}

func (f *fakeStore) SetEmailOutcome(_ context.Context, id uuid.UUID, sent bool, _ *time.Time) error {
	f.outcomeID = id
	f.outcomeSent = sent
	return f.outcomeErr
}

type fakeQuoteEmails struct {
	emails []string
	err    error
}

func (f *fakeQuoteEmails) DistinctEmailsByUser(context.Context, uuid.UUID) ([]string, error) {
	return f.emails, f.err
}

type fakeTransport struct {
	err  error
	sent []mail.Message
}

func (f *fakeTransport) Send(_ context.Context, m mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeTransport) Name() string { return "fake" }

type fakeConfig struct{}

func (fakeConfig) GetAppBaseURL() string { return "https://portal.example" }

func newTestService(store *fakeStore, quotes QuoteEmailReader, transport mail.Transport) *Service {
	return NewService(store, quotes, transport, fakeConfig{}, logger.New("test"))
}

func TestSendQuoteResponseRecordsBeforeDispatch(t *testing.T) {
	store := &fakeStore{}
	transport := &fakeTransport{}
	svc := newTestService(store, &fakeQuoteEmails{}, transport)

	amount := int64(125000)
	result := svc.SendQuoteResponse(context.Background(), QuoteResponseParams{
		QuoteID:           uuid.New(),
		RecipientEmail:    "Customer@Example.com",
		RecipientName:     "Dana",
		ServiceName:       "Container Shipping",
		QuoteStatus:       "responded",
		AdminResponse:     "Quote attached.",
		QuotedAmountCents: &amount,
		QuotedCurrency:    "USD",
	})

	if !result.NotificationRecorded {
		t.Fatalf("expected notification to be recorded")
	}
	if !result.EmailSent {
		t.Fatalf("expected email to be sent")
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}
	if len(transport.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(transport.sent))
	}
	if !store.outcomeSent {
		t.Fatalf("expected email outcome patched to sent")
	}
	if store.outcomeID != store.rows[0].ID {
		t.Fatalf("email outcome patched on wrong notification")
	}
}

func TestSendQuoteResponseSurvivesEmailFailure(t *testing.T) {
	store := &fakeStore{}
	transport := &fakeTransport{err: errors.New("smtp down")}
	svc := newTestService(store, &fakeQuoteEmails{}, transport)

	result := svc.SendQuoteResponse(context.Background(), QuoteResponseParams{
		QuoteID:        uuid.New(),
		RecipientEmail: "customer@example.com",
		RecipientName:  "Dana",
		ServiceName:    "Container Shipping",
		QuoteStatus:    "responded",
		AdminResponse:  "Quote attached.",
	})

	if !result.NotificationRecorded {
		t.Fatalf("notification must be recorded even when email fails")
	}
	if result.EmailSent {
		t.Fatalf("email must be reported unsent")
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected the notification row to exist, got %d inserts", len(store.inserted))
	}
	if store.outcomeSent {
		t.Fatalf("email outcome must be patched to not sent")
	}
}

func TestSendQuoteResponseSurvivesStoreFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	transport := &fakeTransport{}
	svc := newTestService(store, &fakeQuoteEmails{}, transport)

	result := svc.SendQuoteResponse(context.Background(), QuoteResponseParams{
		QuoteID:        uuid.New(),
		RecipientEmail: "customer@example.com",
		ServiceName:    "Container Shipping",
		QuoteStatus:    "responded",
		AdminResponse:  "Quote attached.",
	})

	if result.NotificationRecorded {
		t.Fatalf("notification must be reported unrecorded")
	}
	if !result.EmailSent {
		t.Fatalf("email delivery is independent of the store outcome")
	}
	if store.outcomeID != uuid.Nil {
		t.Fatalf("no outcome patch without a recorded notification")
	}
}

func TestListFansOutAcrossAddressSet(t *testing.T) {
	store := &fakeStore{}
	quotesReader := &fakeQuoteEmails{emails: []string{"Old@Example.com", "customer@example.com"}}
	svc := newTestService(store, quotesReader, &fakeTransport{})

	userID := uuid.New()
	svc.List(context.Background(), "Customer@Example.com", &userID, 20, 0)

	want := []string{"customer@example.com", "old@example.com"}
	if len(store.listedEmails) != len(want) {
		t.Fatalf("expected address set %v, got %v", want, store.listedEmails)
	}
	for i, addr := range want {
		if store.listedEmails[i] != addr {
			t.Fatalf("expected address set %v, got %v", want, store.listedEmails)
		}
	}
}

func TestListDegradesToEmptyOnStoreFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	svc := newTestService(store, &fakeQuoteEmails{}, &fakeTransport{})

	items, total := svc.List(context.Background(), "customer@example.com", nil, 20, 0)
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %v", items)
	}
	if total != 0 {
		t.Fatalf("expected zero total, got %d", total)
	}
}

func TestCountUnreadDegradesToZeroOnStoreFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	svc := newTestService(store, &fakeQuoteEmails{}, &fakeTransport{})

	if count := svc.CountUnread(context.Background(), "customer@example.com", nil); count != 0 {
		t.Fatalf("expected zero count, got %d", count)
	}
}

func TestMarkReadReportsFalseForForeignOwner(t *testing.T) {
	store := &fakeStore{markReadOK: false}
	svc := newTestService(store, &fakeQuoteEmails{}, &fakeTransport{})

	updated, err := svc.MarkRead(context.Background(), uuid.New(), "other@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Fatalf("foreign-owned notification must not be marked read")
	}
}

func TestMarkReadValidation(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeQuoteEmails{}, &fakeTransport{})

	if _, err := svc.MarkRead(context.Background(), uuid.Nil, "customer@example.com"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}
	if _, err := svc.MarkRead(context.Background(), uuid.New(), "  "); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty owner, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeQuoteEmails{}, &fakeTransport{})

	_, err := svc.Create(context.Background(), CreateParams{
		Type:    TypeQuoteResponse,
		Title:   "t",
		Message: "m",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing recipient, got %v", err)
	}
}
