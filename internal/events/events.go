package events

import (
	platformevents "maritime_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Event names for subscriptions.
const (
	QuoteRequestSubmittedName   = "quote_request.submitted"
	ContactMessageSubmittedName = "contact_message.submitted"
)

// QuoteRequestSubmitted is published when a visitor submits a quote request.
type QuoteRequestSubmitted struct {
	platformevents.BaseEvent
	QuoteID     uuid.UUID
	Name        string
	Email       string
	Phone       string
	ServiceName string
	Origin      string
	Destination string
	Description string
}

// EventName identifies the event type.
func (QuoteRequestSubmitted) EventName() string { return QuoteRequestSubmittedName }

// ContactMessageSubmitted is published when a visitor submits a contact message.
type ContactMessageSubmitted struct {
	platformevents.BaseEvent
	MessageID uuid.UUID
	Name      string
	Email     string
	Topic     string
	Body      string
}

// EventName identifies the event type.
func (ContactMessageSubmitted) EventName() string { return ContactMessageSubmittedName }
