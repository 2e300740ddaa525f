// Package transport defines the request DTOs for the quotes module.
package transport

// SubmitQuoteRequest is the public intake payload.
type SubmitQuoteRequest struct {
	Name               string `json:"name" binding:"required,max=200"`
	Email              string `json:"email" binding:"required,email,max=320"`
	Phone              string `json:"phone" binding:"omitempty,max=50"`
	ServiceName        string `json:"serviceName" binding:"required,max=200"`
	Origin             string `json:"origin" binding:"omitempty,max=200"`
	Destination        string `json:"destination" binding:"omitempty,max=200"`
	ProjectDescription string `json:"projectDescription" binding:"required,max=5000"`
}

// RespondRequest is the staff response payload.
type RespondRequest struct {
	Status            string `json:"status" binding:"required,oneof=responded closed"`
	QuotedAmountCents *int64 `json:"quotedAmountCents" binding:"omitempty,min=0"`
	QuotedCurrency    string `json:"quotedCurrency" binding:"omitempty,len=3"`
	AdminResponse     string `json:"adminResponse" binding:"required,max=5000"`
}

// ClaimRequest is the claim payload for an authenticated customer.
type ClaimRequest struct {
	Email string `json:"email" binding:"required,email,max=320"`
}
