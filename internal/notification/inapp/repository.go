package inapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maritime_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opInsert          = "notification.repository.insert"
	opList            = "notification.repository.list"
	opCountUnread     = "notification.repository.count_unread"
	opMarkRead        = "notification.repository.mark_read"
	opSetEmailOutcome = "notification.repository.set_email_outcome"

	errRepoNotConfigured = "notification repository not configured"
)

// CreateParams holds the fields persisted for a new notification.
type CreateParams struct {
	RecipientEmail string
	RecipientName  *string
	Type           Type
	Title          string
	Message        string
	RelatedID      *uuid.UUID
	RelatedType    *string
	Data           []byte
}

// Repository provides database access for notifications.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new notification repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists a new notification with status unread and email_sent false.
// The recipient email is stored lowercased; it is the lookup key everywhere.
func (r *Repository) Insert(ctx context.Context, p CreateParams) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opInsert)
	}

	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO MLP_notifications
		(recipient_email, recipient_name, type, title, message, related_id, related_type, data)
		VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, recipient_email, recipient_name, type, title, message,
		          related_id, related_type, data, status, email_sent, email_sent_at, created_at, read_at
	`, p.RecipientEmail, p.RecipientName, string(p.Type), p.Title, p.Message, p.RelatedID, p.RelatedType, p.Data).Scan(
		&n.ID, &n.RecipientEmail, &n.RecipientName, &n.Type, &n.Title, &n.Message,
		&n.RelatedID, &n.RelatedType, &n.Data, &n.Status, &n.EmailSent, &n.EmailSentAt, &n.CreatedAt, &n.ReadAt,
	)
	if err != nil {
		return Notification{}, apperr.Internal(fmt.Sprintf("insert notification failed: %v", err)).WithOp(opInsert)
	}

	return n, nil
}

// ListByEmails returns notifications addressed to any of the given emails,
// newest first, with a total count for pagination.
func (r *Repository) ListByEmails(ctx context.Context, emails []string, limit, offset int) ([]Notification, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}
	if len(emails) == 0 {
		return []Notification{}, 0, nil
	}

	normalized := lowerAll(emails)

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM MLP_notifications WHERE recipient_email = ANY($1)
	`, normalized).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("count notifications failed: %v", err)).WithOp(opList)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_email, recipient_name, type, title, message,
		       related_id, related_type, data, status, email_sent, email_sent_at, created_at, read_at
		FROM MLP_notifications
		WHERE recipient_email = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, normalized, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("list notifications query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if scanErr := rows.Scan(
			&n.ID, &n.RecipientEmail, &n.RecipientName, &n.Type, &n.Title, &n.Message,
			&n.RelatedID, &n.RelatedType, &n.Data, &n.Status, &n.EmailSent, &n.EmailSentAt, &n.CreatedAt, &n.ReadAt,
		); scanErr != nil {
			return nil, 0, apperr.Internal(fmt.Sprintf("scan notifications failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rowsErr)).WithOp(opList)
	}

	return items, total, nil
}

// CountUnreadByEmails counts unread notifications addressed to any of the given emails.
func (r *Repository) CountUnreadByEmails(ctx context.Context, emails []string) (int, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opCountUnread)
	}
	if len(emails) == 0 {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM MLP_notifications
		WHERE recipient_email = ANY($1) AND status = 'unread'
	`, lowerAll(emails)).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("count unread notifications failed: %v", err)).WithOp(opCountUnread)
	}

	return count, nil
}

// MarkRead transitions a notification to read. Ownership is enforced in the
// query predicate, not via a prior read, so a concurrent address change can
// never widen access. Returns false when no row matched, without
// distinguishing a wrong owner from a nonexistent id.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID, ownerEmail string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, apperr.Internal(errRepoNotConfigured).WithOp(opMarkRead)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE MLP_notifications
		SET status = 'read', read_at = COALESCE(read_at, now())
		WHERE id = $1 AND recipient_email = lower($2)
	`, id, ownerEmail)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err)).WithOp(opMarkRead)
	}

	return tag.RowsAffected() > 0, nil
}

// SetEmailOutcome patches the email dispatch outcome on an existing notification.
func (r *Repository) SetEmailOutcome(ctx context.Context, id uuid.UUID, sent bool, sentAt *time.Time) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opSetEmailOutcome)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE MLP_notifications
		SET email_sent = $2, email_sent_at = $3
		WHERE id = $1
	`, id, sent, sentAt)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("set email outcome failed: %v", err)).WithOp(opSetEmailOutcome)
	}

	return nil
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
