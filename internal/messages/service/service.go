// Package service holds the business logic for the messaging surface:
// portal sends, the public contact form, inbox/sent reads, and staff
// replies on the store-and-notify pattern.
package service

import (
	"context"
	"strings"

	"maritime_portal_backend/internal/events"
	"maritime_portal_backend/internal/messages/repository"
	"maritime_portal_backend/platform/apperr"
	platformevents "maritime_portal_backend/platform/events"
	"maritime_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence contract the service needs. Implemented by
// repository.Repository; tests substitute fakes.
type Store interface {
	Insert(ctx context.Context, p repository.CreateParams) (repository.Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Message, error)
	ListInbox(ctx context.Context, emails []string, limit, offset int) ([]repository.Message, int, error)
	ListSent(ctx context.Context, emails []string, limit, offset int) ([]repository.Message, int, error)
	MarkRead(ctx context.Context, id uuid.UUID, ownerEmail string) (bool, error)
}

// QuoteEmailReader resolves every distinct email a user has quoted under,
// widening the caller's inbox to guest-era messages.
type QuoteEmailReader interface {
	DistinctEmailsByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ReplyNotice is the snapshot handed to the notifier when staff reply.
type ReplyNotice struct {
	MessageID      uuid.UUID
	ParentID       uuid.UUID
	RecipientEmail string
	Subject        string
	Body           string
}

// ReplyNotifier records an in-app notification for a staff reply. Implemented
// by an adapter over the notification service; wired in the composition root.
type ReplyNotifier interface {
	NotifyMessageReply(ctx context.Context, n ReplyNotice) bool
}

// Service orchestrates message sends, reads and staff replies.
type Service struct {
	store    Store
	quotes   QuoteEmailReader
	notifier ReplyNotifier
	bus      events.Bus
	log      *logger.Logger
}

// New creates a messages service.
func New(store Store, quotes QuoteEmailReader, notifier ReplyNotifier, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		quotes:   quotes,
		notifier: notifier,
		bus:      bus,
		log:      log,
	}
}

// SendParams carries a portal message from an authenticated customer.
type SendParams struct {
	UserID  uuid.UUID
	Email   string
	Subject string
	Body    string
}

// Send persists a customer message from the portal.
func (s *Service) Send(ctx context.Context, p SendParams) (repository.Message, error) {
	if p.UserID == uuid.Nil || strings.TrimSpace(p.Email) == "" {
		return repository.Message{}, apperr.Validation("authenticated sender is required")
	}
	if strings.TrimSpace(p.Subject) == "" || strings.TrimSpace(p.Body) == "" {
		return repository.Message{}, apperr.Validation("subject and body are required")
	}

	userID := p.UserID
	return s.store.Insert(ctx, repository.CreateParams{
		UserID:  &userID,
		Email:   p.Email,
		Sender:  repository.SenderCustomer,
		Subject: strings.TrimSpace(p.Subject),
		Body:    p.Body,
	})
}

// ContactParams carries a public contact form submission.
type ContactParams struct {
	Name  string
	Email string
	Topic string
	Body  string
}

// SubmitContact persists an anonymous contact message and publishes the
// intake event. Intake email delivery happens downstream of the event and
// can never fail the submission.
func (s *Service) SubmitContact(ctx context.Context, p ContactParams) (repository.Message, error) {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
		return repository.Message{}, apperr.Validation("name and email are required")
	}
	if strings.TrimSpace(p.Topic) == "" || strings.TrimSpace(p.Body) == "" {
		return repository.Message{}, apperr.Validation("topic and body are required")
	}

	created, err := s.store.Insert(ctx, repository.CreateParams{
		Email:   strings.TrimSpace(p.Email),
		Sender:  repository.SenderCustomer,
		Subject: strings.TrimSpace(p.Topic),
		Body:    p.Body,
	})
	if err != nil {
		return repository.Message{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.ContactMessageSubmitted{
			BaseEvent: platformevents.NewBaseEvent(),
			MessageID: created.ID,
			Name:      strings.TrimSpace(p.Name),
			Email:     created.Email,
			Topic:     created.Subject,
			Body:      created.Body,
		})
	}

	return created, nil
}

// Inbox returns staff messages addressed to the caller's address set, newest
// first. A store failure degrades to an empty page.
func (s *Service) Inbox(ctx context.Context, email string, userID *uuid.UUID, limit, offset int) ([]repository.Message, int) {
	limit, offset = clampPage(limit, offset)
	items, total, err := s.store.ListInbox(ctx, s.resolveAddressSet(ctx, email, userID), limit, offset)
	if err != nil {
		s.log.Error("failed to list inbox messages", "error", err, "email", email)
		return []repository.Message{}, 0
	}
	return items, total
}

// Sent returns the caller's own messages, newest first. A store failure
// degrades to an empty page.
func (s *Service) Sent(ctx context.Context, email string, userID *uuid.UUID, limit, offset int) ([]repository.Message, int) {
	limit, offset = clampPage(limit, offset)
	items, total, err := s.store.ListSent(ctx, s.resolveAddressSet(ctx, email, userID), limit, offset)
	if err != nil {
		s.log.Error("failed to list sent messages", "error", err, "email", email)
		return []repository.Message{}, 0
	}
	return items, total
}

// MarkRead transitions a message to read, constrained to the owner's email.
// Returns false for both a wrong owner and an unknown id.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, ownerEmail string) (bool, error) {
	if id == uuid.Nil {
		return false, apperr.Validation("messageId is required")
	}
	if strings.TrimSpace(ownerEmail) == "" {
		return false, apperr.Validation("ownerEmail is required")
	}

	return s.store.MarkRead(ctx, id, ownerEmail)
}

// ReplyParams carries a staff reply to a customer message.
type ReplyParams struct {
	ParentID uuid.UUID
	Body     string
}

// ReplyResult combines the stored reply with the notification outcome.
type ReplyResult struct {
	Reply                repository.Message
	NotificationRecorded bool
}

// Reply stores a staff reply linked to its parent, then records an in-app
// notification for the original sender. A notification failure is reported
// as a flag, never as a failed reply.
func (s *Service) Reply(ctx context.Context, p ReplyParams) (ReplyResult, error) {
	if p.ParentID == uuid.Nil {
		return ReplyResult{}, apperr.Validation("parentId is required")
	}
	if strings.TrimSpace(p.Body) == "" {
		return ReplyResult{}, apperr.Validation("body is required")
	}

	parent, err := s.store.GetByID(ctx, p.ParentID)
	if err != nil {
		return ReplyResult{}, err
	}
	if parent.Sender != repository.SenderCustomer {
		return ReplyResult{}, apperr.Validation("replies attach to customer messages only")
	}

	subject := parent.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	reply, err := s.store.Insert(ctx, repository.CreateParams{
		UserID:   parent.UserID,
		Email:    parent.Email,
		Sender:   repository.SenderStaff,
		Subject:  subject,
		Body:     p.Body,
		ParentID: &parent.ID,
	})
	if err != nil {
		return ReplyResult{}, err
	}

	result := ReplyResult{Reply: reply}
	if s.notifier != nil {
		result.NotificationRecorded = s.notifier.NotifyMessageReply(ctx, ReplyNotice{
			MessageID:      reply.ID,
			ParentID:       parent.ID,
			RecipientEmail: parent.Email,
			Subject:        subject,
			Body:           p.Body,
		})
	}

	return result, nil
}

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
			s.log.Error("failed to resolve quote emails for inbox", "error", err, "userId", *userID)
		} else {
			for _, addr := range extra {
				add(addr)
			}
		}
	}

	return set
}

func clampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
