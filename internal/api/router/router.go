package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/botica-chatbot/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/botica-chatbot/internal/http/middleware"
	"github.com/wolfman30/botica-chatbot/internal/webchat"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *handlers.ChatHandler
	HealthHandler      *handlers.HealthHandler
	WebChat            *webchat.Handler
	MetricsHandler     http.Handler
	RateLimiter        *httpmiddleware.RateLimiter
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	if cfg.HealthHandler != nil {
		r.Method(http.MethodGet, "/health", cfg.HealthHandler)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		if cfg.ChatHandler != nil {
			api.Method(http.MethodPost, "/chat", cfg.ChatHandler)
		}
	})

	if cfg.WebChat != nil {
		r.Get("/chat/ws", cfg.WebChat.HandleWebSocket)
	}

	return r
}
