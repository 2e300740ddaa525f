package inapp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"maritime_portal_backend/internal/mail"
	"maritime_portal_backend/platform/apperr"
	"maritime_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence contract the service needs. Implemented by
// Repository; tests substitute fakes.
type Store interface {
	Insert(ctx context.Context, p CreateParams) (Notification, error)
	ListByEmails(ctx context.Context, emails []string, limit, offset int) ([]Notification, int, error)
	CountUnreadByEmails(ctx context.Context, emails []string) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID, ownerEmail string) (bool, error)
	SetEmailOutcome(ctx context.Context, id uuid.UUID, sent bool, sentAt *time.Time) error
}

// QuoteEmailReader resolves every distinct email a user has quoted under.
// Backed by the quotes repository; wired in the composition root.
type QuoteEmailReader interface {
	DistinctEmailsByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ServiceConfig exposes the configuration the service needs for deep links.
type ServiceConfig interface {
	GetAppBaseURL() string
}

// Service orchestrates notification creation, the best-effort email twin,
// and fan-out reads across every address linked to an account.
type Service struct {
	store     Store
	quotes    QuoteEmailReader
	transport mail.Transport
	cfg       ServiceConfig
	log       *logger.Logger
}

// NewService creates a notification service.
func NewService(store Store, quotes QuoteEmailReader, transport mail.Transport, cfg ServiceConfig, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		quotes:    quotes,
		transport: transport,
		cfg:       cfg,
		log:       log,
	}
}

// Create validates and persists a notification. Callers treat creation as
// best-effort infrastructure: a returned error must never fail the business
// action that triggered it.
func (s *Service) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if strings.TrimSpace(p.RecipientEmail) == "" {
		return Notification{}, apperr.Validation("recipientEmail is required")
	}
	if p.Type == "" || p.Title == "" || p.Message == "" {
		return Notification{}, apperr.Validation("type, title and message are required")
	}

	return s.store.Insert(ctx, p)
}

// QuoteResponseParams carries the snapshot of a staff response to a quote.
type QuoteResponseParams struct {
	QuoteID           uuid.UUID
	RecipientEmail    string
	RecipientName     string
	ServiceName       string
	QuoteStatus       string
	AdminResponse     string
	QuotedAmountCents *int64
	QuotedCurrency    string
}

// SendResult reports the two independent outcomes of a quote response
// notification: whether the durable record was written and whether its email
// twin went out. An email failure is never reported as a failed response.
type SendResult struct {
	NotificationRecorded bool
	EmailSent            bool
}

// SendQuoteResponse records the response as a notification, then best-effort
// mirrors it to email. Dispatch never starts before the notification row is
// durably written; a failure in any later step is logged and swallowed.
func (s *Service) SendQuoteResponse(ctx context.Context, p QuoteResponseParams) SendResult {
	var result SendResult

	data, _ := json.Marshal(QuoteResponseData{
		ServiceName:       p.ServiceName,
		QuotedAmountCents: p.QuotedAmountCents,
		QuotedCurrency:    p.QuotedCurrency,
		QuoteStatus:       p.QuoteStatus,
	})

	relatedType := "quote_request"
	var recipientName *string
	if p.RecipientName != "" {
		recipientName = &p.RecipientName
	}

	created, err := s.Create(ctx, CreateParams{
		RecipientEmail: p.RecipientEmail,
		RecipientName:  recipientName,
		Type:           TypeQuoteResponse,
		Title:          "Quote response: " + p.ServiceName,
		Message:        p.AdminResponse,
		RelatedID:      &p.QuoteID,
		RelatedType:    &relatedType,
		Data:           data,
	})
	if err != nil {
		s.log.Error("failed to record quote response notification", "error", err, "quoteId", p.QuoteID)
	} else {
		result.NotificationRecorded = true
	}

	result.EmailSent = s.dispatchQuoteResponseEmail(ctx, p)

	if result.NotificationRecorded {
		var sentAt *time.Time
		if result.EmailSent {
			now := time.Now()
			sentAt = &now
		}
		if patchErr := s.store.SetEmailOutcome(ctx, created.ID, result.EmailSent, sentAt); patchErr != nil {
			// The notification itself stands; the stale email flag is a
			// reporting gap, not a correctness problem.
			s.log.Error("failed to patch email outcome", "error", patchErr, "notificationId", created.ID)
		}
	}

	return result
}

func (s *Service) dispatchQuoteResponseEmail(ctx context.Context, p QuoteResponseParams) bool {
	var amount string
	if p.QuotedAmountCents != nil {
		amount = mail.FormatAmount(*p.QuotedAmountCents, p.QuotedCurrency)
	}

	rendered, err := mail.RenderQuoteResponse(mail.QuoteResponseEmailData{
		RecipientName:   p.RecipientName,
		ServiceName:     p.ServiceName,
		Status:          p.QuoteStatus,
		AdminResponse:   p.AdminResponse,
		AmountFormatted: amount,
		DashboardURL:    s.cfg.GetAppBaseURL() + "/dashboard/quotes",
	})
	if err != nil {
		s.log.Error("failed to render quote response email", "error", err, "quoteId", p.QuoteID)
		return false
	}

	if err := s.transport.Send(ctx, mail.Message{
		To:      p.RecipientEmail,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
	}); err != nil {
		s.log.MailEvent(s.transport.Name(), p.RecipientEmail, rendered.Subject, false, err.Error())
		return false
	}

	return true
}

// MessageReplyParams carries a staff reply to a customer message.
type MessageReplyParams struct {
	MessageID      uuid.UUID
	ParentID       uuid.UUID
	RecipientEmail string
	Subject        string
	Body           string
}

// SendMessageReply records an in-app notification for a staff reply.
func (s *Service) SendMessageReply(ctx context.Context, p MessageReplyParams) SendResult {
	data, _ := json.Marshal(MessageReplyData{Subject: p.Subject, ParentID: p.ParentID})
	relatedType := "message"

	_, err := s.Create(ctx, CreateParams{
		RecipientEmail: p.RecipientEmail,
		Type:           TypeMessageReply,
		Title:          "New reply: " + p.Subject,
		Message:        p.Body,
		RelatedID:      &p.MessageID,
		RelatedType:    &relatedType,
		Data:           data,
	})
	if err != nil {
		s.log.Error("failed to record message reply notification", "error", err, "messageId", p.MessageID)
		return SendResult{}
	}

	return SendResult{NotificationRecorded: true}
}

// List returns the caller's inbox, newest first. The address set is the login
// email plus, when a user id is known, every distinct email on quote requests
// that user owns. A store failure degrades to an empty page.
func (s *Service) List(ctx context.Context, email string, userID *uuid.UUID, limit, offset int) ([]Notification, int) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	emails := s.resolveAddressSet(ctx, email, userID)
	items, total, err := s.store.ListByEmails(ctx, emails, limit, offset)
	if err != nil {
		s.log.Error("failed to list notifications", "error", err, "email", email)
		return []Notification{}, 0
	}

	return items, total
}

// CountUnread returns the unread count over the caller's address set.
// A store failure degrades to zero.
func (s *Service) CountUnread(ctx context.Context, email string, userID *uuid.UUID) int {
	emails := s.resolveAddressSet(ctx, email, userID)
	count, err := s.store.CountUnreadByEmails(ctx, emails)
	if err != nil {
		s.log.Error("failed to count unread notifications", "error", err, "email", email)
		return 0
	}
	return count
}

// MarkRead transitions a notification to read, constrained to the owner's
// email. Returns false for both a wrong owner and an unknown id.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, ownerEmail string) (bool, error) {
	if id == uuid.Nil {
		return false, apperr.Validation("notificationId is required")
	}
	if strings.TrimSpace(ownerEmail) == "" {
		return false, apperr.Validation("ownerEmail is required")
	}

	return s.store.MarkRead(ctx, id, ownerEmail)
}

// resolveAddressSet builds the finite set of addresses a query may match:
// always the login email, plus the distinct quote emails of the account.
func (s *Service) resolveAddressSet(ctx context.Context, email string, userID *uuid.UUID) []string {
	seen := map[string]struct{}{}
	set := make([]string, 0, 2)

	add := func(addr string) {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		set = append(set, addr)
	}

	add(email)

	if userID != nil && *userID != uuid.Nil && s.quotes != nil {
		extra, err := s.quotes.DistinctEmailsByUser(ctx, *userID)
		if err != nil {
			s.log.Error("failed to resolve quote emails for fan-out", "error", err, "userId", *userID)
		} else {
			for _, addr := range extra {
				add(addr)
			}
		}
	}

	return set
}
