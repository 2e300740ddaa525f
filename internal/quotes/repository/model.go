// Package repository provides database access and the data model for
// quote requests.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a quote request.
type Status string

// Quote request statuses.
const (
	StatusPending   Status = "pending"
	StatusResponded Status = "responded"
	StatusClosed    Status = "closed"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusResponded, StatusClosed:
		return true
	}
	return false
}

// QuoteRequest is a freight quote request. UserID is nil for guest
// submissions until the request is claimed by an account.
type QuoteRequest struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             *uuid.UUID `json:"userId,omitempty"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone,omitempty"`
	ServiceName        string     `json:"serviceName"`
	Origin             string     `json:"origin"`
	Destination        string     `json:"destination"`
	ProjectDescription string     `json:"projectDescription"`
	Status             Status     `json:"status"`
	QuotedAmountCents  *int64     `json:"quotedAmountCents,omitempty"`
	QuotedCurrency     *string    `json:"quotedCurrency,omitempty"`
	AdminResponse      *string    `json:"adminResponse,omitempty"`
	RespondedAt        *time.Time `json:"respondedAt,omitempty"`
	ClaimedAt          *time.Time `json:"claimedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// ClaimableQuote is the reduced projection returned by the claim search.
// It deliberately omits contact details and the staff response.
type ClaimableQuote struct {
	ID                 uuid.UUID `json:"id"`
	ServiceName        string    `json:"serviceName"`
	Status             Status    `json:"status"`
	ProjectDescription string    `json:"projectDescription"`
	CreatedAt          time.Time `json:"createdAt"`
}
