// Package repository provides database access and the data model for
// customer and staff messages.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the exchange authored a message.
type Sender string

// Message senders.
const (
	SenderCustomer Sender = "customer"
	SenderStaff    Sender = "staff"
)

// Status is the read state of a message.
type Status string

// Message statuses.
const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Message is a single customer or staff message. ParentID links a staff
// reply to the message it answers; there is no deeper threading.
type Message struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Email     string     `json:"email"`
	Sender    Sender     `json:"sender"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}
