// Package inapp provides the durable in-app notification store and the
// service that orchestrates creation, the best-effort email twin, and
// fan-out reads across every address linked to an account.
package inapp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the read state of a notification.
type Status string

const (
	// StatusUnread is the initial state of every notification.
	StatusUnread Status = "unread"
	// StatusRead is set when the recipient marks the notification as read.
	StatusRead Status = "read"
)

// Type discriminates notification payloads.
type Type string

const (
	// TypeQuoteResponse is emitted when staff respond to a quote request.
	TypeQuoteResponse Type = "quote_response"
	// TypeMessageReply is emitted when staff reply to a customer message.
	TypeMessageReply Type = "message_reply"
)

// Notification is a durable record of a business event addressed to an email.
// The recipient email is the addressing key: an account may or may not exist
// for it at creation time. Rows are never deleted by this subsystem; only
// Status, ReadAt, EmailSent and EmailSentAt mutate after creation.
type Notification struct {
	ID             uuid.UUID       `json:"id"`
	RecipientEmail string          `json:"recipientEmail"`
	RecipientName  *string         `json:"recipientName,omitempty"`
	Type           Type            `json:"type"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	RelatedID      *uuid.UUID      `json:"relatedId,omitempty"`
	RelatedType    *string         `json:"relatedType,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	Status         Status          `json:"status"`
	EmailSent      bool            `json:"emailSent"`
	EmailSentAt    *time.Time      `json:"emailSentAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	ReadAt         *time.Time      `json:"readAt,omitempty"`
}

// QuoteResponseData is the payload snapshot carried by quote_response
// notifications. It is a denormalized copy taken at response time so the
// notification stays self-contained if the quote changes later.
type QuoteResponseData struct {
	ServiceName       string `json:"serviceName"`
	QuotedAmountCents *int64 `json:"quotedAmountCents,omitempty"`
	QuotedCurrency    string `json:"quotedCurrency,omitempty"`
	QuoteStatus       string `json:"quoteStatus"`
}

// MessageReplyData is the payload snapshot carried by message_reply notifications.
type MessageReplyData struct {
	Subject  string    `json:"subject"`
	ParentID uuid.UUID `json:"parentId"`
}

// QuoteResponse decodes the payload of a quote_response notification.
// The second return is false when the notification carries a different type.
func (n Notification) QuoteResponse() (QuoteResponseData, bool) {
	if n.Type != TypeQuoteResponse || len(n.Data) == 0 {
		return QuoteResponseData{}, false
	}
	var d QuoteResponseData
	if err := json.Unmarshal(n.Data, &d); err != nil {
		return QuoteResponseData{}, false
	}
	return d, true
}

// MessageReply decodes the payload of a message_reply notification.
func (n Notification) MessageReply() (MessageReplyData, bool) {
	if n.Type != TypeMessageReply || len(n.Data) == 0 {
		return MessageReplyData{}, false
	}
	var d MessageReplyData
	if err := json.Unmarshal(n.Data, &d); err != nil {
		return MessageReplyData{}, false
	}
	return d, true
}
