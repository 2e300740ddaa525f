// Package handler provides the HTTP handlers for the notification module.
package handler

import (
	"strconv"

	"maritime_portal_backend/internal/notification/inapp"
	"maritime_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HTTPHandler serves the customer notification inbox.
type HTTPHandler struct {
	svc *inapp.Service
}

// NewHTTPHandler creates the notification HTTP handler.
func NewHTTPHandler(svc *inapp.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// RegisterRoutes mounts the notification routes on the given group.
func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.PATCH("/:id/read", h.MarkRead)
}

// List returns the caller's notifications across every address linked to
// their account, newest first.
func (h *HTTPHandler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	userID := identity.UserID()
	items, total := h.svc.List(c.Request.Context(), identity.Email(), &userID, limit, offset)

	httpkit.OK(c, gin.H{
		"notifications": items,
		"totalCount":    total,
	})
}

// UnreadCount returns the unread notification count for the caller.
func (h *HTTPHandler) UnreadCount(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	userID := identity.UserID()
	count := h.svc.CountUnread(c.Request.Context(), identity.Email(), &userID)

	httpkit.OK(c, gin.H{"unreadCount": count})
}

// MarkRead marks a single notification as read, scoped to the caller's email.
func (h *HTTPHandler) MarkRead(c *gin.Context) {
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
