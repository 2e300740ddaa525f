package handler

import (
	"maritime_portal_backend/internal/messages/service"
	"maritime_portal_backend/internal/messages/transport"
	"maritime_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the anonymous contact form endpoint.
type PublicHandler struct {
	svc *service.Service
}

// NewPublicHandler creates the public messages handler.
func NewPublicHandler(svc *service.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// RegisterRoutes mounts the public contact routes.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.SubmitContact)
}

// SubmitContact accepts a contact message from an anonymous visitor.
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	var req transport.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", err.Error())
		return
	}

	created, err := h.svc.SubmitContact(c.Request.Context(), service.ContactParams{
		Name:  req.Name,
		Email: req.Email,
		Topic: req.Topic,
		Body:  req.Body,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, gin.H{"id": created.ID})
}
