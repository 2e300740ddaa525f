package repository

import (
	"context"
	"errors"
	"fmt"

	"maritime_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate          = "quotes.repository.create"
	opGetByID         = "quotes.repository.get_by_id"
	opListByUser      = "quotes.repository.list_by_user"
	opSearchUnclaimed = "quotes.repository.search_unclaimed"
	opClaimByEmail    = "quotes.repository.claim_by_email"
	opDistinctEmails  = "quotes.repository.distinct_emails"
	opRespond         = "quotes.repository.respond"

	errRepoNotConfigured = "quotes repository not configured"
)

const quoteColumns = `id, user_id, name, email, phone, service_name, origin, destination,
	       project_description, status, quoted_amount_cents, quoted_currency,
	       admin_response, responded_at, claimed_at, created_at`

// CreateParams holds the fields persisted for a new quote request.
type CreateParams struct {
	UserID             *uuid.UUID
	Name               string
	Email              string
	Phone              *string
	ServiceName        string
	Origin             string
	Destination        string
	ProjectDescription string
}

// RespondParams holds the staff response applied to a quote request.
type RespondParams struct {
	ID                uuid.UUID
	Status            Status
	QuotedAmountCents *int64
	QuotedCurrency    *string
	AdminResponse     string
}

// Repository provides database access for quote requests.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create persists a new quote request with status pending. The email is
// stored lowercased so claim and fan-out lookups match case-insensitively.
func (r *Repository) Create(ctx context.Context, p CreateParams) (QuoteRequest, error) {
	if r == nil || r.pool == nil {
		return QuoteRequest{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO MLP_quote_requests
		(user_id, name, email, phone, service_name, origin, destination, project_description)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8)
		RETURNING `+quoteColumns+`
	`, p.UserID, p.Name, p.Email, p.Phone, p.ServiceName, p.Origin, p.Destination, p.ProjectDescription)

	q, err := scanQuote(row)
	if err != nil {
		return QuoteRequest{}, apperr.Internal(fmt.Sprintf("insert quote request failed: %v", err)).WithOp(opCreate)
	}

	return q, nil
}

// GetByID loads a single quote request.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (QuoteRequest, error) {
	if r == nil || r.pool == nil {
		return QuoteRequest{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetByID)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+quoteColumns+`
		FROM MLP_quote_requests
		WHERE id = $1
	`, id)

	q, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return QuoteRequest{}, apperr.NotFound("quote request not found").WithOp(opGetByID)
	}
	if err != nil {
		return QuoteRequest{}, apperr.Internal(fmt.Sprintf("get quote request failed: %v", err)).WithOp(opGetByID)
	}

	return q, nil
}

// ListByUser returns the quote requests claimed by a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]QuoteRequest, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListByUser)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+quoteColumns+`
		FROM MLP_quote_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list quote requests failed: %v", err)).WithOp(opListByUser)
	}
	defer rows.Close()

	items := make([]QuoteRequest, 0)
	for rows.Next() {
		q, scanErr := scanQuote(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan quote request failed: %v", scanErr)).WithOp(opListByUser)
		}
		items = append(items, q)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate quote requests failed: %v", rowsErr)).WithOp(opListByUser)
	}

	return items, nil
}

// SearchUnclaimed returns the claimable projection of every quote request
// submitted under the given email and not yet attached to any account.
func (r *Repository) SearchUnclaimed(ctx context.Context, email string) ([]ClaimableQuote, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opSearchUnclaimed)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, service_name, status, project_description, created_at
		FROM MLP_quote_requests
		WHERE email = lower($1) AND user_id IS NULL
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("search unclaimed quotes failed: %v", err)).WithOp(opSearchUnclaimed)
	}
	defer rows.Close()

	items := make([]ClaimableQuote, 0)
	for rows.Next() {
		var c ClaimableQuote
		if scanErr := rows.Scan(&c.ID, &c.ServiceName, &c.Status, &c.ProjectDescription, &c.CreatedAt); scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan claimable quote failed: %v", scanErr)).WithOp(opSearchUnclaimed)
		}
		items = append(items, c)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate claimable quotes failed: %v", rowsErr)).WithOp(opSearchUnclaimed)
	}

	return items, nil
}

// ClaimByEmail attaches every still-unclaimed quote request under the given
// email to the user in a single conditional update. The `user_id IS NULL`
// predicate makes the operation idempotent and race-safe: rows claimed by a
// concurrent call simply stop matching. Returns the number of rows claimed.
func (r *Repository) ClaimByEmail(ctx context.Context, email string, userID uuid.UUID) (int, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opClaimByEmail)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE MLP_quote_requests
		SET user_id = $2, claimed_at = now()
		WHERE email = lower($1) AND user_id IS NULL
	`, email, userID)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("claim quote requests failed: %v", err)).WithOp(opClaimByEmail)
	}

	return int(tag.RowsAffected()), nil
}

// DistinctEmailsByUser returns every distinct email the user has quote
// requests under. Backs the notification fan-out address set.
func (r *Repository) DistinctEmailsByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opDistinctEmails)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT email FROM MLP_quote_requests WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("distinct quote emails failed: %v", err)).WithOp(opDistinctEmails)
	}
	defer rows.Close()

	emails := make([]string, 0, 2)
	for rows.Next() {
		var email string
		if scanErr := rows.Scan(&email); scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan quote email failed: %v", scanErr)).WithOp(opDistinctEmails)
		}
		emails = append(emails, email)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate quote emails failed: %v", rowsErr)).WithOp(opDistinctEmails)
	}

	return emails, nil
}

// Respond applies a staff response to a quote request and stamps responded_at.
func (r *Repository) Respond(ctx context.Context, p RespondParams) (QuoteRequest, error) {
	if r == nil || r.pool == nil {
		return QuoteRequest{}, apperr.Internal(errRepoNotConfigured).WithOp(opRespond)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE MLP_quote_requests
		SET status = $2, quoted_amount_cents = $3, quoted_currency = $4,
		    admin_response = $5, responded_at = now()
		WHERE id = $1
		RETURNING `+quoteColumns+`
	`, p.ID, string(p.Status), p.QuotedAmountCents, p.QuotedCurrency, p.AdminResponse)

	q, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return QuoteRequest{}, apperr.NotFound("quote request not found").WithOp(opRespond)
	}
	if err != nil {
		return QuoteRequest{}, apperr.Internal(fmt.Sprintf("respond to quote request failed: %v", err)).WithOp(opRespond)
	}

	return q, nil
}

func scanQuote(row pgx.Row) (QuoteRequest, error) {
	var q QuoteRequest
	err := row.Scan(
		&q.ID, &q.UserID, &q.Name, &q.Email, &q.Phone, &q.ServiceName, &q.Origin, &q.Destination,
		&q.ProjectDescription, &q.Status, &q.QuotedAmountCents, &q.QuotedCurrency,
		&q.AdminResponse, &q.RespondedAt, &q.ClaimedAt, &q.CreatedAt,
	)
	return q, err
}
