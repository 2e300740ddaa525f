package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maritime_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opInsert    = "messages.repository.insert"
	opGetByID   = "messages.repository.get_by_id"
	opListInbox = "messages.repository.list_inbox"
	opListSent  = "messages.repository.list_sent"
	opMarkRead  = "messages.repository.mark_read"

	errRepoNotConfigured = "messages repository not configured"
)

const messageColumns = `id, user_id, email, sender, subject, body, parent_id, status, created_at, read_at`

// CreateParams holds the fields persisted for a new message.
type CreateParams struct {
	UserID   *uuid.UUID
	Email    string
	Sender   Sender
	Subject  string
	Body     string
	ParentID *uuid.UUID
}

// Repository provides database access for messages.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new messages repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists a new message with status unread. The email is stored
// lowercased; it is the ownership key for reads and mark-read.
func (r *Repository) Insert(ctx context.Context, p CreateParams) (Message, error) {
	if r == nil || r.pool == nil {
		return Message{}, apperr.Internal(errRepoNotConfigured).WithOp(opInsert)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO MLP_messages (user_id, email, sender, subject, body, parent_id)
		VALUES ($1, lower($2), $3, $4, $5, $6)
		RETURNING `+messageColumns+`
	`, p.UserID, p.Email, string(p.Sender), p.Subject, p.Body, p.ParentID)

	m, err := scanMessage(row)
	if err != nil {
		return Message{}, apperr.Internal(fmt.Sprintf("insert message failed: %v", err)).WithOp(opInsert)
	}

	return m, nil
}

// GetByID loads a single message.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Message, error) {
	if r == nil || r.pool == nil {
		return Message{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetByID)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM MLP_messages
		WHERE id = $1
	`, id)

	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, apperr.NotFound("message not found").WithOp(opGetByID)
	}
	if err != nil {
		return Message{}, apperr.Internal(fmt.Sprintf("get message failed: %v", err)).WithOp(opGetByID)
	}

	return m, nil
}

// ListInbox returns staff messages addressed to any of the given emails,
// newest first, with a total count for pagination.
func (r *Repository) ListInbox(ctx context.Context, emails []string, limit, offset int) ([]Message, int, error) {
	return r.listBySender(ctx, opListInbox, SenderStaff, emails, limit, offset)
}

// ListSent returns customer messages sent from any of the given emails,
// newest first, with a total count for pagination.
func (r *Repository) ListSent(ctx context.Context, emails []string, limit, offset int) ([]Message, int, error) {
	return r.listBySender(ctx, opListSent, SenderCustomer, emails, limit, offset)
}

func (r *Repository) listBySender(ctx context.Context, op string, sender Sender, emails []string, limit, offset int) ([]Message, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, apperr.Internal(errRepoNotConfigured).WithOp(op)
	}
	if len(emails) == 0 {
		return []Message{}, 0, nil
	}

	normalized := lowerAll(emails)

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM MLP_messages WHERE email = ANY($1) AND sender = $2
	`, normalized, string(sender)).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("count messages failed: %v", err)).WithOp(op)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM MLP_messages
		WHERE email = ANY($1) AND sender = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, normalized, string(sender), limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("list messages failed: %v", err)).WithOp(op)
	}
	defer rows.Close()

	items := make([]Message, 0, limit)
	for rows.Next() {
		m, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, 0, apperr.Internal(fmt.Sprintf("scan message failed: %v", scanErr)).WithOp(op)
		}
		items = append(items, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("iterate messages failed: %v", rowsErr)).WithOp(op)
	}

	return items, total, nil
}

// MarkRead transitions a message to read, scoped to the owner's email in the
// query predicate. Returns false when no row matched, without distinguishing
// a wrong owner from a nonexistent id.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID, ownerEmail string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, apperr.Internal(errRepoNotConfigured).WithOp(opMarkRead)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE MLP_messages
		SET status = 'read', read_at = COALESCE(read_at, now())
		WHERE id = $1 AND email = lower($2)
	`, id, ownerEmail)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("mark message read failed: %v", err)).WithOp(opMarkRead)
	}

	return tag.RowsAffected() > 0, nil
}

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(
		&m.ID, &m.UserID, &m.Email, &m.Sender, &m.Subject, &m.Body,
		&m.ParentID, &m.Status, &m.CreatedAt, &m.ReadAt,
	)
	return m, err
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
