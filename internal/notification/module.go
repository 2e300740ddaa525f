// Package notification provides the notification domain module: durable
// in-app notifications with a best-effort email twin, plus event handlers
// that broadcast intake emails to the internal distribution list.
package notification

import (
	"context"
	"fmt"

	"maritime_portal_backend/internal/events"
	apphttp "maritime_portal_backend/internal/http"
	"maritime_portal_backend/internal/mail"
	"maritime_portal_backend/internal/notification/handler"
	"maritime_portal_backend/internal/notification/inapp"
	platformevents "maritime_portal_backend/platform/events"
	"maritime_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig combines the configuration the module needs.
type ModuleConfig interface {
	inapp.ServiceConfig
	GetAdminBaseURL() string
	GetIntakeRecipients() []string
}

// Module wires the notification repository, service and HTTP handler.
type Module struct {
	service   *inapp.Service
	handler   *handler.HTTPHandler
	transport mail.Transport
	cfg       ModuleConfig
	log       *logger.Logger
}

// NewModule creates the notification module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, quotes inapp.QuoteEmailReader, transport mail.Transport, cfg ModuleConfig, log *logger.Logger) *Module {
	repo := inapp.NewRepository(pool)
	svc := inapp.NewService(repo, quotes, transport, cfg, log)

	return &Module{
		service:   svc,
		handler:   handler.NewHTTPHandler(svc),
		transport: transport,
		cfg:       cfg,
		log:       log,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "notification"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *inapp.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Portal.Group("/notifications"))
}

// RegisterHandlers subscribes the module to intake events. Intake emails are
// fire-and-forget broadcasts; a delivery failure never reaches the submitter.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuoteRequestSubmittedName, platformevents.HandlerFunc(m.handleQuoteRequestSubmitted))
	bus.Subscribe(events.ContactMessageSubmittedName, platformevents.HandlerFunc(m.handleContactMessageSubmitted))
}

func (m *Module) handleQuoteRequestSubmitted(ctx context.Context, event platformevents.Event) error {
	e, ok := event.(events.QuoteRequestSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventName())
	}

	rendered, err := mail.RenderQuoteIntake(mail.QuoteIntakeEmailData{
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		ServiceName: e.ServiceName,
		Origin:      e.Origin,
		Destination: e.Destination,
		Description: e.Description,
		AdminURL:    m.cfg.GetAdminBaseURL() + "/quotes/" + e.QuoteID.String(),
	})
	if err != nil {
		return fmt.Errorf("render quote intake email: %w", err)
	}

	m.broadcastIntake(ctx, rendered, "quoteId", e.QuoteID.String())
	return nil
}

func (m *Module) handleContactMessageSubmitted(ctx context.Context, event platformevents.Event) error {
	e, ok := event.(events.ContactMessageSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventName())
	}

	rendered, err := mail.RenderContactIntake(mail.ContactIntakeEmailData{
		Name:     e.Name,
		Email:    e.Email,
		Topic:    e.Topic,
		Body:     e.Body,
		AdminURL: m.cfg.GetAdminBaseURL() + "/messages/" + e.MessageID.String(),
	})
	if err != nil {
		return fmt.Errorf("render contact intake email: %w", err)
	}

	m.broadcastIntake(ctx, rendered, "messageId", e.MessageID.String())
	return nil
}

func (m *Module) broadcastIntake(ctx context.Context, rendered mail.Rendered, refKey, refValue string) {
	recipients := m.cfg.GetIntakeRecipients()
	if len(recipients) == 0 {
		m.log.Warn("no intake recipients configured; skipping intake broadcast", refKey, refValue)
		return
	}

	delivered := mail.Broadcast(ctx, m.transport, m.log, recipients, rendered.Subject, rendered.HTML, rendered.Text)
	if !delivered {
		m.log.Error("intake broadcast reached no recipients", refKey, refValue, "recipients", len(recipients))
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
