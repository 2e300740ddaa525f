// Package quotes provides the quote request domain module: public intake,
// the customer portal views, claiming, and the staff response flow.
package quotes

import (
	"maritime_portal_backend/internal/events"
	apphttp "maritime_portal_backend/internal/http"
	"maritime_portal_backend/internal/quotes/handler"
	"maritime_portal_backend/internal/quotes/repository"
	"maritime_portal_backend/internal/quotes/service"
	"maritime_portal_backend/platform/logger"
	"maritime_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the quotes repository, service and HTTP handlers.
type Module struct {
	service       *service.Service
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
}

// NewModule creates the quotes module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, notifier service.ResponseNotifier, bus events.Bus, valid *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, notifier, bus, valid, log)

	return &Module{
		service:       svc,
		handler:       handler.New(svc),
		publicHandler: handler.NewPublicHandler(svc),
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.publicHandler.RegisterRoutes(ctx.Public)
	m.handler.RegisterPortalRoutes(ctx.Portal.Group("/quotes"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/quotes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
