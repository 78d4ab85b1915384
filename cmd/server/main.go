package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/vitrine/internal"
	"github.com/dukerupert/vitrine/internal/cart"
	"github.com/dukerupert/vitrine/internal/catalog"
	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/handler/api"
	"github.com/dukerupert/vitrine/internal/middleware"
	"github.com/dukerupert/vitrine/internal/notify"
	"github.com/dukerupert/vitrine/internal/router"
	"github.com/dukerupert/vitrine/internal/storage"
	"github.com/dukerupert/vitrine/internal/storefront"
	"github.com/dukerupert/vitrine/internal/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	sweepInterval   = 5 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(cfg.Sentry, logger)
	if err != nil {
		return err
	}
	defer flushSentry()

	// Metrics live on a private registry so tests and the process never
	// collide on the global one.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics("vitrine", reg)
	business := telemetry.InitBusinessMetrics("vitrine", reg)

	// ==========================================================================
	// Cart slots
	// ==========================================================================

	if cfg.Storage.Provider == "postgres" {
		if err := migrate(cfg.Storage.DatabaseURL, logger); err != nil {
			return err
		}
	}

	slots, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("cart storage initialization failed: %w", err)
	}
	defer slots.Close()
	logger.Info().Str("provider", cfg.Storage.Provider).Msg("Cart storage ready")

	// ==========================================================================
	// Catalog
	// ==========================================================================

	opts := []catalog.SourceOption{
		catalog.WithMetrics(business),
		catalog.WithHTTPClient(&http.Client{
			Timeout:   cfg.Catalog.FetchTimeout,
			Transport: &telemetry.HTTPTransport{Transport: http.DefaultTransport},
		}),
	}
	if catalog.IsObjectLocation(cfg.Catalog.Source) {
		objects, err := storage.NewObjectReader(ctx, storage.ObjectConfig{
			Region:      cfg.Catalog.S3Region,
			Endpoint:    cfg.Catalog.S3Endpoint,
			AccessKeyID: cfg.Catalog.S3AccessKey,
			SecretKey:   cfg.Catalog.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("object storage initialization failed: %w", err)
		}
		opts = append(opts, catalog.WithObjectOpener(objects))
	}
	cat := catalog.NewSource(cfg.Catalog.Source, logger, opts...).LoadOrEmpty(ctx)

	// ==========================================================================
	// Notifications
	// ==========================================================================

	notifiers := notify.Multi{notify.NewLog(logger)}
	if cfg.Notify.NATSURL != "" {
		nc, err := notify.ConnectNATS(cfg.Notify.NATSURL, cfg.Notify.Subject, business, logger)
		if err != nil {
			// cart changes still log; publishing resumes on the next restart
			logger.Error().Err(err).Str("url", cfg.Notify.NATSURL).Msg("NATS unavailable, cart events will only be logged")
			telemetry.CaptureError(err, map[string]any{"component": "notify"})
		} else {
			defer nc.Close()
			notifiers = append(notifiers, nc)
		}
	}

	// ==========================================================================
	// Sessions
	// ==========================================================================

	registry := storefront.NewRegistry(storefront.Deps{
		Catalog:      cat,
		Slot:         slots,
		Notifier:     notifiers,
		Metrics:      business,
		Logger:       logger,
		CardsPerView: cfg.Carousel.CardsPerView,
		SlotKey:      cart.SessionSlotKey,
	}, cfg.Session.IdleTimeout, storefront.WithMaxSessions(cfg.Session.MaxSessions))
	go registry.Run(ctx, sweepInterval)

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	go limiter.Run(ctx)

	// ==========================================================================
	// Routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.Session.SecureCookies)),
		middleware.Session(middleware.SessionConfig{Secure: cfg.Session.SecureCookies}),
		telemetry.SentryMiddleware(middleware.GetSessionID),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	api.RegisterRoutes(r, api.Handlers{
		Cart:     api.NewCartHandler(registry),
		Catalog:  api.NewCatalogHandler(registry, cat, business),
		Carousel: api.NewCarouselHandler(registry),
	}, middleware.MaxBodySize(), limiter.Middleware)

	// Metrics endpoint; restrict at the proxy in production
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		handler.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"products": cat.Len(),
			"sessions": registry.Len(),
		})
	})

	r.NotFound(handler.NotFoundResponse)

	// ==========================================================================
	// Serve
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("Starting storefront server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// migrate applies the cart_slots schema through database/sql, which goose
// requires; the storage itself uses a pgx pool.
func migrate(databaseURL string, logger zerolog.Logger) error {
	logger.Info().Msg("Running database migrations...")
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info().Msg("Database migrations completed successfully")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
