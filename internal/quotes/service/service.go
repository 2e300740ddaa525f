// Package service holds the business logic for quote intake, staff
// responses, and claiming.
package service

import (
	"context"
	"strings"

	"maritime_portal_backend/internal/events"
	"maritime_portal_backend/internal/quotes/repository"
	"maritime_portal_backend/platform/apperr"
	platformevents "maritime_portal_backend/platform/events"
	"maritime_portal_backend/platform/logger"
	"maritime_portal_backend/platform/validator"

	"github.com/google/uuid"
)

// Store is the persistence contract the service needs. Implemented by
// repository.Repository; tests substitute fakes.
type Store interface {
	Create(ctx context.Context, p repository.CreateParams) (repository.QuoteRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.QuoteRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.QuoteRequest, error)
	SearchUnclaimed(ctx context.Context, email string) ([]repository.ClaimableQuote, error)
	ClaimByEmail(ctx context.Context, email string, userID uuid.UUID) (int, error)
	Respond(ctx context.Context, p repository.RespondParams) (repository.QuoteRequest, error)
}

// ResponseNotice is the snapshot handed to the notifier when staff respond.
type ResponseNotice struct {
	QuoteID           uuid.UUID
	RecipientEmail    string
	RecipientName     string
	ServiceName       string
	QuoteStatus       string
	AdminResponse     string
	QuotedAmountCents *int64
	QuotedCurrency    string
}

// NotifyResult reports the two independent outcomes of the store-and-notify
// step: the durable notification record and its best-effort email twin.
type NotifyResult struct {
	NotificationRecorded bool
	EmailSent            bool
}

// ResponseNotifier delivers a staff response to the customer. Implemented by
// an adapter over the notification service; wired in the composition root.
type ResponseNotifier interface {
	NotifyQuoteResponse(ctx context.Context, n ResponseNotice) NotifyResult
}

// Service orchestrates quote intake, staff responses, and claiming.
type Service struct {
	store    Store
	notifier ResponseNotifier
	bus      events.Bus
	valid    *validator.Validator
	log      *logger.Logger
}

// New creates a quotes service.
func New(store Store, notifier ResponseNotifier, bus events.Bus, valid *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		bus:      bus,
		valid:    valid,
		log:      log,
	}
}

func (s *Service) validEmail(email string) bool {
	if s.valid == nil {
		return strings.TrimSpace(email) != ""
	}
	return s.valid.Var(email, "required,email") == nil
}

// SubmitParams carries a public quote request submission.
type SubmitParams struct {
	// UserID is set when an authenticated customer submits from the portal;
	// nil for anonymous visitors.
	UserID             *uuid.UUID
	Name               string
	Email              string
	Phone              string
	ServiceName        string
	Origin             string
	Destination        string
	ProjectDescription string
}

// Submit validates and persists a quote request, then publishes the intake
// event. Intake email delivery happens downstream of the event and can never
// fail the submission.
func (s *Service) Submit(ctx context.Context, p SubmitParams) (repository.QuoteRequest, error) {
	if strings.TrimSpace(p.Name) == "" {
		return repository.QuoteRequest{}, apperr.Validation("name is required")
	}
	if !s.validEmail(p.Email) {
		return repository.QuoteRequest{}, apperr.Validation("a valid email is required")
	}
	if strings.TrimSpace(p.ServiceName) == "" {
		return repository.QuoteRequest{}, apperr.Validation("serviceName is required")
	}
	if strings.TrimSpace(p.ProjectDescription) == "" {
		return repository.QuoteRequest{}, apperr.Validation("projectDescription is required")
	}

	var phone *string
	if trimmed := strings.TrimSpace(p.Phone); trimmed != "" {
		phone = &trimmed
	}

	created, err := s.store.Create(ctx, repository.CreateParams{
		UserID:             p.UserID,
		Name:               strings.TrimSpace(p.Name),
		Email:              strings.TrimSpace(p.Email),
		Phone:              phone,
		ServiceName:        strings.TrimSpace(p.ServiceName),
		Origin:             strings.TrimSpace(p.Origin),
		Destination:        strings.TrimSpace(p.Destination),
		ProjectDescription: strings.TrimSpace(p.ProjectDescription),
	})
	if err != nil {
		return repository.QuoteRequest{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteRequestSubmitted{
			BaseEvent:   platformevents.NewBaseEvent(),
			QuoteID:     created.ID,
			Name:        created.Name,
			Email:       created.Email,
			Phone:       p.Phone,
			ServiceName: created.ServiceName,
			Origin:      created.Origin,
			Destination: created.Destination,
			Description: created.ProjectDescription,
		})
	}

	return created, nil
}

// RespondResult combines the updated quote with the notification outcome.
type RespondResult struct {
	Quote  repository.QuoteRequest
	Notify NotifyResult
}

// Respond applies a staff response and notifies the customer. Only the quote
// update can fail the call; notification and email outcomes are reported as
// independent flags so a mail failure never masks a recorded response.
func (s *Service) Respond(ctx context.Context, p repository.RespondParams) (RespondResult, error) {
	if p.ID == uuid.Nil {
		return RespondResult{}, apperr.Validation("quoteId is required")
	}
	if p.Status != repository.StatusResponded && p.Status != repository.StatusClosed {
		return RespondResult{}, apperr.Validation("status must be responded or closed")
	}
	if strings.TrimSpace(p.AdminResponse) == "" {
		return RespondResult{}, apperr.Validation("adminResponse is required")
	}
	if p.QuotedAmountCents != nil && *p.QuotedAmountCents < 0 {
		return RespondResult{}, apperr.Validation("quotedAmountCents must not be negative")
	}

	updated, err := s.store.Respond(ctx, p)
	if err != nil {
		return RespondResult{}, err
	}

	result := RespondResult{Quote: updated}
	if s.notifier != nil {
		var currency string
		if updated.QuotedCurrency != nil {
			currency = *updated.QuotedCurrency
		}
		result.Notify = s.notifier.NotifyQuoteResponse(ctx, ResponseNotice{
			QuoteID:           updated.ID,
			RecipientEmail:    updated.Email,
			RecipientName:     updated.Name,
			ServiceName:       updated.ServiceName,
			QuoteStatus:       string(updated.Status),
			AdminResponse:     p.AdminResponse,
			QuotedAmountCents: updated.QuotedAmountCents,
			QuotedCurrency:    currency,
		})
	}

	return result, nil
}

// SearchClaimable returns the unclaimed quote requests submitted under an
// email, as a reduced projection.
func (s *Service) SearchClaimable(ctx context.Context, email string) ([]repository.ClaimableQuote, error) {
	if !s.validEmail(email) {
		return nil, apperr.Validation("a valid email is required")
	}

	return s.store.SearchUnclaimed(ctx, email)
}

// Claim attaches every still-unclaimed quote request under the email to the
// user. Returns the number of requests claimed; zero when nothing matched,
// including repeat calls.
func (s *Service) Claim(ctx context.Context, email string, userID uuid.UUID) (int, error) {
	if !s.validEmail(email) {
		return 0, apperr.Validation("a valid email is required")
	}
	if userID == uuid.Nil {
		return 0, apperr.Validation("userId is required")
	}

	claimed, err := s.store.ClaimByEmail(ctx, email, userID)
	if err != nil {
		return 0, err
	}

	if claimed > 0 {
		s.log.Info("quote requests claimed", "userId", userID, "count", claimed)
	}

	return claimed, nil
}

// ListOwn returns the quote requests claimed by the caller, newest first.
func (s *Service) ListOwn(ctx context.Context, userID uuid.UUID) ([]repository.QuoteRequest, error) {
	if userID == uuid.Nil {
		return nil, apperr.Validation("userId is required")
	}

	return s.store.ListByUser(ctx, userID)
}

// GetOwn returns a single quote request owned by the caller. Foreign or
// unclaimed quotes report not found, never forbidden.
func (s *Service) GetOwn(ctx context.Context, id uuid.UUID, userID uuid.UUID) (repository.QuoteRequest, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return repository.QuoteRequest{}, apperr.Validation("quoteId and userId are required")
	}

	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return repository.QuoteRequest{}, err
	}
	if q.UserID == nil || *q.UserID != userID {
		return repository.QuoteRequest{}, apperr.NotFound("quote request not found")
	}

	return q, nil
}
