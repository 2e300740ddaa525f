package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"maritime_portal_backend/internal/events"
	"maritime_portal_backend/internal/quotes/repository"
	"maritime_portal_backend/platform/apperr"
	platformevents "maritime_portal_backend/platform/events"
	"maritime_portal_backend/platform/logger"
	"maritime_portal_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]repository.QuoteRequest

	respondErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[uuid.UUID]repository.QuoteRequest{}}
}

func (f *fakeStore) addUnclaimed(email string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.rows[id] = repository.QuoteRequest{
		ID:                 id,
		Email:              strings.ToLower(email),
		Name:               "Guest",
		ServiceName:        "Container Shipping",
		ProjectDescription: "40ft container",
		Status:             repository.StatusPending,
		CreatedAt:          time.Now(),
	}
	return id
}

func (f *fakeStore) Create(_ context.Context, p repository.CreateParams) (repository.QuoteRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := repository.QuoteRequest{
		ID:                 uuid.New(),
		UserID:             p.UserID,
		Name:               p.Name,
		Email:              strings.ToLower(p.Email),
		Phone:              p.Phone,
		ServiceName:        p.ServiceName,
		Origin:             p.Origin,
		Destination:        p.Destination,
		ProjectDescription: p.ProjectDescription,
		Status:             repository.StatusPending,
		CreatedAt:          time.Now(),
	}
	f.rows[q.ID] = q
	return q, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.QuoteRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.rows[id]
	if !ok {
		return repository.QuoteRequest{}, apperr.NotFound("quote request not found")
	}
	return q, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.QuoteRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]repository.QuoteRequest, 0)
	for _, q := range f.rows {
		if q.UserID != nil && *q.UserID == userID {
			items = append(items, q)
		}
	}
	return items, nil
}

func (f *fakeStore) SearchUnclaimed(_ context.Context, email string) ([]repository.ClaimableQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]repository.ClaimableQuote, 0)
	for _, q := range f.rows {
		if q.UserID == nil && q.Email == strings.ToLower(email) {
			items = append(items, repository.ClaimableQuote{
				ID:                 q.ID,
				ServiceName:        q.ServiceName,
				Status:             q.Status,
				ProjectDescription: q.ProjectDescription,
				CreatedAt:          q.CreatedAt,
			})
		}
	}
	return items, nil
}

func (f *fakeStore) ClaimByEmail(_ context.Context, email string, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claimed := 0
	now := time.Now()
	for id, q := range f.rows {
		if q.UserID == nil && q.Email == strings.ToLower(email) {
			uid := userID
			q.UserID = &uid
			q.ClaimedAt = &now
			f.rows[id] = q
			claimed++
		}
	}
	return claimed, nil
}

func (f *fakeStore) Respond(_ context.Context, p repository.RespondParams) (repository.QuoteRequest, error) {
	if f.respondErr != nil {
		return repository.QuoteRequest{}, f.respondErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.rows[p.ID]
	if !ok {
		return repository.QuoteRequest{}, apperr.NotFound("quote request not found")
	}
	now := time.Now()
	q.Status = p.Status
	q.QuotedAmountCents = p.QuotedAmountCents
	q.QuotedCurrency = p.QuotedCurrency
	q.AdminResponse = &p.AdminResponse
	q.RespondedAt = &now
	f.rows[p.ID] = q
	return q, nil
}

type fakeNotifier struct {
	notices []ResponseNotice
	result  NotifyResult
}

func (f *fakeNotifier) NotifyQuoteResponse(_ context.Context, n ResponseNotice) NotifyResult {
	f.notices = append(f.notices, n)
	return f.result
}

type fakeBus struct {
	mu        sync.Mutex
	published []platformevents.Event
}

func (f *fakeBus) Publish(_ context.Context, event platformevents.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event platformevents.Event) error {
	f.Publish(context.Background(), event)
	return nil
}

func (f *fakeBus) Subscribe(string, platformevents.Handler) {}

func newTestService(store Store, notifier ResponseNotifier, bus events.Bus) *Service {
	return New(store, notifier, bus, validator.New(), logger.New("test"))
}

func TestSubmitPublishesIntakeEvent(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, &fakeNotifier{}, bus)

	created, err := svc.Submit(context.Background(), SubmitParams{
		Name:               "Dana",
		Email:              "dana@example.com",
		ServiceName:        "Container Shipping",
		Origin:             "Rotterdam",
		Destination:        "Singapore",
		ProjectDescription: "40ft container",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	event, ok := bus.published[0].(events.QuoteRequestSubmitted)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0])
	}
	if event.QuoteID != created.ID {
		t.Fatalf("event references wrong quote")
	}
	if event.Email != "dana@example.com" {
		t.Fatalf("expected lowercased email in event, got %q", event.Email)
	}
}

func TestSubmitRejectsInvalidEmail(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeNotifier{}, &fakeBus{})

	_, err := svc.Submit(context.Background(), SubmitParams{
		Name:               "Dana",
		Email:              "not-an-email",
		ServiceName:        "Container Shipping",
		ProjectDescription: "40ft container",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClaimIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addUnclaimed("guest@example.com")
	store.addUnclaimed("guest@example.com")
	store.addUnclaimed("other@example.com")
	svc := newTestService(store, &fakeNotifier{}, &fakeBus{})

	userID := uuid.New()
	claimed, err := svc.Claim(context.Background(), "Guest@Example.com", userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed != 2 {
		t.Fatalf("expected 2 claimed, got %d", claimed)
	}

	again, err := svc.Claim(context.Background(), "guest@example.com", userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != 0 {
		t.Fatalf("repeat claim must find nothing, got %d", again)
	}
}

func TestConcurrentClaimsSplitWithoutOverlap(t *testing.T) {
	store := newFakeStore()
	const total = 20
	for i := 0; i < total; i++ {
		store.addUnclaimed("guest@example.com")
	}
	svc := newTestService(store, &fakeNotifier{}, &fakeBus{})

	var wg sync.WaitGroup
	counts := make([]int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			claimed, err := svc.Claim(context.Background(), "guest@example.com", uuid.New())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			counts[slot] = claimed
		}(i)
	}
	wg.Wait()

	if counts[0]+counts[1] != total {
		t.Fatalf("claims must split %d rows without overlap, got %d and %d", total, counts[0], counts[1])
	}
}

func TestClaimThenSearchFindsNothing(t *testing.T) {
	store := newFakeStore()
	store.addUnclaimed("guest@example.com")
	svc := newTestService(store, &fakeNotifier{}, &fakeBus{})

	if _, err := svc.Claim(context.Background(), "guest@example.com", uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := svc.SearchClaimable(context.Background(), "guest@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("claimed quotes must be invisible to later searches, got %d", len(items))
	}
}

func TestRespondNotifiesWithSnapshot(t *testing.T) {
	store := newFakeStore()
	id := store.addUnclaimed("guest@example.com")
	notifier := &fakeNotifier{result: NotifyResult{NotificationRecorded: true, EmailSent: false}}
	svc := newTestService(store, notifier, &fakeBus{})

	amount := int64(250000)
	currency := "USD"
	result, err := svc.Respond(context.Background(), repository.RespondParams{
		ID:                id,
		Status:            repository.StatusResponded,
		QuotedAmountCents: &amount,
		QuotedCurrency:    &currency,
		AdminResponse:     "Quote attached.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notifier.notices))
	}
	notice := notifier.notices[0]
	if notice.QuoteID != id || notice.RecipientEmail != "guest@example.com" {
		t.Fatalf("notice addressed incorrectly: %+v", notice)
	}
	if notice.QuotedAmountCents == nil || *notice.QuotedAmountCents != amount {
		t.Fatalf("notice missing quoted amount")
	}
	if !result.Notify.NotificationRecorded || result.Notify.EmailSent {
		t.Fatalf("notify outcome must pass through unchanged: %+v", result.Notify)
	}
	if result.Quote.Status != repository.StatusResponded {
		t.Fatalf("expected status responded, got %s", result.Quote.Status)
	}
}

func TestGetOwnHidesForeignQuotes(t *testing.T) {
	store := newFakeStore()
	id := store.addUnclaimed("guest@example.com")
	svc := newTestService(store, &fakeNotifier{}, &fakeBus{})

	owner := uuid.New()
	if _, err := svc.Claim(context.Background(), "guest@example.com", owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetOwn(context.Background(), id, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("foreign quote must report not found, got %v", err)
	}

	q, err := svc.GetOwn(context.Background(), id, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != id {
		t.Fatalf("expected the claimed quote back")
	}
}

func TestRespondValidation(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeNotifier{}, &fakeBus{})

	_, err := svc.Respond(context.Background(), repository.RespondParams{
		ID:            uuid.New(),
		Status:        repository.StatusPending,
		AdminResponse: "x",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for pending status, got %v", err)
	}

	_, err = svc.Respond(context.Background(), repository.RespondParams{
		ID:     uuid.New(),
		Status: repository.StatusResponded,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty response, got %v", err)
	}
}
