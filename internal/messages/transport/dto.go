// Package transport defines the request DTOs for the messages module.
package transport

// SendMessageRequest is the portal message payload.
type SendMessageRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body" binding:"required,max=10000"`
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email,max=320"`
	Topic string `json:"topic" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,max=10000"`
}

// ReplyRequest is the staff reply payload.
type ReplyRequest struct {
	Body string `json:"body" binding:"required,max=10000"`
}
