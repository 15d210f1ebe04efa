package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/botica-chatbot/internal/api/router"
	appconfig "github.com/wolfman30/botica-chatbot/internal/config"
	"github.com/wolfman30/botica-chatbot/internal/dialogue"
	"github.com/wolfman30/botica-chatbot/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/botica-chatbot/internal/http/middleware"
	"github.com/wolfman30/botica-chatbot/internal/observability/metrics"
	"github.com/wolfman30/botica-chatbot/internal/webchat"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

const (
	limiterEvictInterval = time.Minute
	shutdownTimeout      = 30 * time.Second
)

// App is a fully wired chatbot: engine, HTTP surface and background upkeep.
type App struct {
	Engine        *dialogue.Engine
	Handler       http.Handler
	Sessions      *SessionStore
	Collaborators *Collaborators
	RateLimiter   *httpmiddleware.RateLimiter
	Registry      *prometheus.Registry

	logger *logging.Logger
}

// BuildApp wires every component from configuration.
func BuildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatMetrics := metrics.NewChatMetrics(registry)

	sessions, err := BuildSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	collab, err := BuildCollaborators(ctx, cfg, logger, Options{Metrics: chatMetrics})
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}
	engine, err := BuildEngine(sessions, collab, logger, chatMetrics)
	if err != nil {
		_ = sessions.Close()
		_ = collab.Close()
		return nil, err
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        handlers.NewChatHandler(engine, logger),
		HealthHandler:      handlers.NewHealthHandler(collab.Availability),
		WebChat:            webchat.NewHandler(engine, cfg.CORSAllowedOrigins, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimiter:        limiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &App{
		Engine:        engine,
		Handler:       handler,
		Sessions:      sessions,
		Collaborators: collab,
		RateLimiter:   limiter,
		Registry:      registry,
		logger:        logger,
	}, nil
}

// RunBackground starts session sweeping and limiter eviction. Both stop when
// ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	go a.Sessions.Run(ctx)
	go a.RateLimiter.Run(ctx, limiterEvictInterval)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("bootstrap: server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bootstrap: server forced to shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}

// Close releases the session store and collaborator clients.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return errors.Join(a.Sessions.Close(), a.Collaborators.Close())
}
