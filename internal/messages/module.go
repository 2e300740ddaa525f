// Package messages provides the customer/staff messaging surface: portal
// sends, the public contact form, inbox/sent reads, and staff replies on the
// store-and-notify pattern.
package messages

import (
	"maritime_portal_backend/internal/events"
	apphttp "maritime_portal_backend/internal/http"
	"maritime_portal_backend/internal/messages/handler"
	"maritime_portal_backend/internal/messages/repository"
	"maritime_portal_backend/internal/messages/service"
	"maritime_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the messages repository, service and HTTP handlers.
type Module struct {
	service       *service.Service
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
}

// NewModule creates the messages module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, quotes service.QuoteEmailReader, notifier service.ReplyNotifier, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, quotes, notifier, bus, log)

	return &Module{
		service:       svc,
		handler:       handler.New(svc),
		publicHandler: handler.NewPublicHandler(svc),
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "messages"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.publicHandler.RegisterRoutes(ctx.Public)
	m.handler.RegisterPortalRoutes(ctx.Portal.Group("/messages"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/messages"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
