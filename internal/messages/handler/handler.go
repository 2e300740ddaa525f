// Package handler provides the HTTP handlers for the messages module.
package handler

import (
	"context"
	"strconv"

	"maritime_portal_backend/internal/messages/repository"
	"maritime_portal_backend/internal/messages/service"
	"maritime_portal_backend/internal/messages/transport"
	"maritime_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler serves the authenticated messaging endpoints.
type Handler struct {
	svc *service.Service
}

// New creates the messages HTTP handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPortalRoutes mounts the customer-facing message routes.
func (h *Handler) RegisterPortalRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Send)
	rg.GET("/inbox", h.Inbox)
	rg.GET("/sent", h.Sent)
	rg.PATCH("/:id/read", h.MarkRead)
}

// RegisterAdminRoutes mounts the staff-facing message routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/reply", h.Reply)
}

// Send stores a message from the authenticated customer.
func (h *Handler) Send(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", err.Error())
		return
	}

	created, err := h.svc.Send(c.Request.Context(), service.SendParams{
		UserID:  identity.UserID(),
		Email:   identity.Email(),
		Subject: req.Subject,
		Body:    req.Body,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, created)
}

// Inbox returns staff messages for the caller, newest first.
func (h *Handler) Inbox(c *gin.Context) {
	h.list(c, h.svc.Inbox)
}

// Sent returns the caller's own messages, newest first.
func (h *Handler) Sent(c *gin.Context) {
	h.list(c, h.svc.Sent)
}

func (h *Handler) list(c *gin.Context, query func(ctx context.Context, email string, userID *uuid.UUID, limit, offset int) ([]repository.Message, int)) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	userID := identity.UserID()
	items, total := query(c.Request.Context(), identity.Email(), &userID, limit, offset)

	httpkit.OK(c, gin.H{
		"messages":   items,
		"totalCount": total,
	})
}

// MarkRead marks a single message as read, scoped to the caller's email.
func (h *Handler) MarkRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid id", nil)
		return
	}

	updated, err := h.svc.MarkRead(c.Request.Context(), id, identity.Email())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"updated": updated})
}

// Reply stores a staff reply and reports whether the reply notification was
// recorded.
func (h *Handler) Reply(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, 400, "invalid id", nil)
		return
	}

	var req transport.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", err.Error())
		return
	}

	result, err := h.svc.Reply(c.Request.Context(), service.ReplyParams{
		ParentID: id,
		Body:     req.Body,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, gin.H{
		"reply":                result.Reply,
		"notificationRecorded": result.NotificationRecorded,
	})
}
