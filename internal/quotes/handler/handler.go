// Package handler provides the HTTP handlers for the quotes module.
package handler

import (
	"strings"

	"maritime_portal_backend/internal/quotes/repository"
	"maritime_portal_backend/internal/quotes/service"
	"maritime_portal_backend/internal/quotes/transport"
	"maritime_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler serves the authenticated quote endpoints.
type Handler struct {
	svc *service.Service
}

// New creates the quotes HTTP handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPortalRoutes mounts the customer-facing quote routes.
func (h *Handler) RegisterPortalRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListOwn)
	rg.GET("/claimable", h.SearchClaimable)
	rg.GET("/:id", h.GetOwn)
	rg.POST("/claim", h.Claim)
}

// RegisterAdminRoutes mounts the staff-facing quote routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/respond", h.Respond)
}

// ListOwn returns the caller's claimed quote requests, newest first.
func (h *Handler) ListOwn(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.ListOwn(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"quotes": items})
}

// SearchClaimable returns the unclaimed quote requests under an email,
// with the match count alongside the projection.
func (h *Handler) SearchClaimable(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		email = identity.Email()
	}

	items, err := h.svc.SearchClaimable(c.Request.Context(), email)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"quotes": items,
		"count":  len(items),
	})
}

// GetOwn returns a single quote request owned by the caller.
func (h *Handler) GetOwn(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid id", nil)
		return
	}

	quote, err := h.svc.GetOwn(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, quote)
}

// Claim attaches every unclaimed quote request under an email to the caller.
func (h *Handler) Claim(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", err.Error())
		return
	}

	claimed, err := h.svc.Claim(c.Request.Context(), req.Email, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"claimedCount": claimed})
}

// Respond applies a staff response to a quote request and reports the
// response, notification and email outcomes independently.
func (h *Handler) Respond(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid id", nil)
		return
	}

	var req transport.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", err.Error())
		return
	}

	var currency *string
	if req.QuotedCurrency != "" {
		upper := strings.ToUpper(req.QuotedCurrency)
		currency = &upper
	}

	result, err := h.svc.Respond(c.Request.Context(), repository.RespondParams{
		ID:                id,
		Status:            repository.Status(req.Status),
		QuotedAmountCents: req.QuotedAmountCents,
		QuotedCurrency:    currency,
		AdminResponse:     req.AdminResponse,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"responded":            true,
		"notificationRecorded": result.Notify.NotificationRecorded,
		"emailSent":            result.Notify.EmailSent,
		"quote":                result.Quote,
	})
}
