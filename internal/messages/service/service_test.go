package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"maritime_portal_backend/internal/events"
	"maritime_portal_backend/internal/messages/repository"
	"maritime_portal_backend/platform/apperr"
	platformevents "maritime_portal_backend/platform/events"
	"maritime_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	rows    map[uuid.UUID]repository.Message
	listErr error

	listedEmails []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[uuid.UUID]repository.Message{}}
}

func (f *fakeStore) Insert(_ context.Context, p repository.CreateParams) (repository.Message, error) {
	m := repository.Message{
		ID:        uuid.New(),
		UserID:    p.UserID,
		Email:     strings.ToLower(p.Email),
		Sender:    p.Sender,
		Subject:   p.Subject,
		Body:      p.Body,
		ParentID:  p.ParentID,
		Status:    repository.StatusUnread,
		CreatedAt: time.Now(),
	}
	f.rows[m.ID] = m
	return m, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Message, error) {
	m, ok := f.rows[id]
	if !ok {
		return repository.Message{}, apperr.NotFound("message not found")
	}
	return m, nil
}

func (f *fakeStore) ListInbox(_ context.Context, emails []string, _, _ int) ([]repository.Message, int, error) {
	f.listedEmails = emails
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return []repository.Message{}, 0, nil
}

func (f *fakeStore) ListSent(_ context.Context, emails []string, _, _ int) ([]repository.Message, int, error) {
	return f.ListInbox(nil, emails, 0, 0)
}

func (f *fakeStore) MarkRead(_ context.Context, id uuid.UUID, ownerEmail string) (bool, error) {
	m, ok := f.rows[id]
	if !ok || m.Email != strings.ToLower(ownerEmail) {
		return false, nil
	}
	m.Status = repository.StatusRead
	f.rows[id] = m
	return true, nil
}

type fakeQuoteEmails struct {
	emails []string
}

func (f *fakeQuoteEmails) DistinctEmailsByUser(context.Context, uuid.UUID) ([]string, error) {
	return f.emails, nil
}

type fakeReplyNotifier struct {
	notices  []ReplyNotice
	recorded bool
}

func (f *fakeReplyNotifier) NotifyMessageReply(_ context.Context, n ReplyNotice) bool {
	f.notices = append(f.notices, n)
	return f.recorded
}

type fakeBus struct {
	published []platformevents.Event
}

func (f *fakeBus) Publish(_ context.Context, event platformevents.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(ctx context.Context, event platformevents.Event) error {
	f.Publish(ctx, event)
	return nil
}

func (f *fakeBus) Subscribe(string, platformevents.Handler) {}

func newTestService(store Store, quotes QuoteEmailReader, notifier ReplyNotifier, bus events.Bus) *Service {
	return New(store, quotes, notifier, bus, logger.New("test"))
}

func TestSubmitContactPublishesIntakeEvent(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, &fakeQuoteEmails{}, &fakeReplyNotifier{}, bus)

	created, err := svc.SubmitContact(context.Background(), ContactParams{
		Name:  "Guest",
		Email: "Guest@Example.com",
		Topic: "Port schedule",
		Body:  "When does the next vessel leave?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	event, ok := bus.published[0].(events.ContactMessageSubmitted)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0])
	}
	if event.MessageID != created.ID || event.Topic != "Port schedule" {
		t.Fatalf("event snapshot mismatch: %+v", event)
	}
}

func TestReplyStoresLinkedMessageAndNotifies(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	parent, err := store.Insert(context.Background(), repository.CreateParams{
		UserID:  &userID,
		Email:   "customer@example.com",
		Sender:  repository.SenderCustomer,
		Subject: "Demurrage question",
		Body:    "How is demurrage billed?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notifier := &fakeReplyNotifier{recorded: true}
	svc := newTestService(store, &fakeQuoteEmails{}, notifier, &fakeBus{})

	result, err := svc.Reply(context.Background(), ReplyParams{
		ParentID: parent.ID,
		Body:     "Demurrage is billed per day after free time.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reply.ParentID == nil || *result.Reply.ParentID != parent.ID {
		t.Fatalf("reply must link to its parent")
	}
	if result.Reply.Sender != repository.SenderStaff {
		t.Fatalf("reply must be a staff message")
	}
	if result.Reply.Subject != "Re: Demurrage question" {
		t.Fatalf("unexpected reply subject %q", result.Reply.Subject)
	}
	if !result.NotificationRecorded {
		t.Fatalf("notification outcome must pass through")
	}
	if len(notifier.notices) != 1 || notifier.notices[0].RecipientEmail != "customer@example.com" {
		t.Fatalf("notifier must be addressed to the original sender")
	}
}

func TestReplyRejectsStaffParent(t *testing.T) {
	store := newFakeStore()
	parent, _ := store.Insert(context.Background(), repository.CreateParams{
		Email:   "customer@example.com",
		Sender:  repository.SenderStaff,
		Subject: "Re: something",
		Body:    "answer",
	})
	svc := newTestService(store, &fakeQuoteEmails{}, &fakeReplyNotifier{}, &fakeBus{})

	_, err := svc.Reply(context.Background(), ReplyParams{ParentID: parent.ID, Body: "again"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReplyToUnknownParent(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeQuoteEmails{}, &fakeReplyNotifier{}, &fakeBus{})

	_, err := svc.Reply(context.Background(), ReplyParams{ParentID: uuid.New(), Body: "hello"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInboxFansOutAcrossAddressSet(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeQuoteEmails{emails: []string{"old@example.com"}}, &fakeReplyNotifier{}, &fakeBus{})

	userID := uuid.New()
	svc.Inbox(context.Background(), "Customer@Example.com", &userID, 20, 0)

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

func TestInboxDegradesToEmptyOnStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("db down")
	svc := newTestService(store, &fakeQuoteEmails{}, &fakeReplyNotifier{}, &fakeBus{})

	items, total := svc.Inbox(context.Background(), "customer@example.com", nil, 20, 0)
	if len(items) != 0 || total != 0 {
		t.Fatalf("expected empty inbox, got %d items total %d", len(items), total)
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	store := newFakeStore()
	m, _ := store.Insert(context.Background(), repository.CreateParams{
		Email:   "customer@example.com",
		Sender:  repository.SenderStaff,
		Subject: "s",
		Body:    "b",
	})
	svc := newTestService(store, &fakeQuoteEmails{}, &fakeReplyNotifier{}, &fakeBus{})

	updated, err := svc.MarkRead(context.Background(), m.ID, "other@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Fatalf("foreign-owned message must not be marked read")
	}

	updated, err = svc.MarkRead(context.Background(), m.ID, "Customer@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Fatalf("owner must be able to mark the message read")
	}
}
