// Command api runs the portal backend HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maritime_portal_backend/internal/adapters"
	"maritime_portal_backend/internal/config"
	"maritime_portal_backend/internal/events"
	apphttp "maritime_portal_backend/internal/http"
	"maritime_portal_backend/internal/http/router"
	"maritime_portal_backend/internal/mail"
	"maritime_portal_backend/internal/messages"
	"maritime_portal_backend/internal/notification"
	"maritime_portal_backend/internal/quotes"
	quotesrepository "maritime_portal_backend/internal/quotes/repository"
	"maritime_portal_backend/migrations"
	"maritime_portal_backend/platform/db"
	"maritime_portal_backend/platform/logger"
	"maritime_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	log.Info("starting api", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := withRetry(log, "migrations", 5, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	var pool *pgxpool.Pool
	if err := withRetry(log, "database pool", 5, func() error {
		var poolErr error
		pool, poolErr = db.NewPool(ctx, cfg)
		return poolErr
	}); err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	bus := events.NewInMemoryBus(log)
	transport := mail.NewTransport(cfg, log)
	valid := validator.New()

	// The quotes repository doubles as the email reader behind notification
	// and message fan-out.
	quoteEmails := quotesrepository.New(pool)

	notificationModule := notification.NewModule(pool, quoteEmails, transport, cfg, log)
	notificationModule.RegisterHandlers(bus)

	quotesModule := quotes.NewModule(
		pool,
		adapters.NewQuoteResponseNotifier(notificationModule.Service()),
		bus,
		valid,
		log,
	)
	messagesModule := messages.NewModule(
		pool,
		quoteEmails,
		adapters.NewMessageReplyNotifier(notificationModule.Service()),
		bus,
		log,
	)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			quotesModule,
			notificationModule,
			messagesModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	log.Info("server stopped")
}

// withRetry runs fn with a short backoff between attempts. Startup
// dependencies like the database may not be reachable immediately when the
// whole stack starts at once.
func withRetry(log *logger.Logger, name string, attempts int, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				log.Info("startup dependency ready", "name", name, "attempt", attempt)
			}
			return nil
		}
		if attempt < attempts {
			wait := time.Duration(attempt) * 2 * time.Second
			log.Warn("startup dependency not ready", "name", name, "attempt", attempt, "error", err, "retry_in", wait.String())
			time.Sleep(wait)
		}
	}
	return err
}
