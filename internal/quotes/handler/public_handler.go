package handler

import (
	"maritime_portal_backend/internal/quotes/service"
	"maritime_portal_backend/internal/quotes/transport"
	"maritime_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the anonymous quote intake endpoint.
type PublicHandler struct {
	svc *service.Service
}

// NewPublicHandler creates the public quotes handler.
func NewPublicHandler(svc *service.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// RegisterRoutes mounts the public quote routes.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.Submit)
}

// Submit accepts a quote request from an anonymous visitor.
func (h *PublicHandler) Submit(c *gin.Context) {
	var req transport.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", err.Error())
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), service.SubmitParams{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		ServiceName:        req.ServiceName,
		Origin:             req.Origin,
		Destination:        req.Destination,
		ProjectDescription: req.ProjectDescription,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, gin.H{
		"id":     created.ID,
		"status": created.Status,
	})
}
