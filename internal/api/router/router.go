package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/metalife/leadbot/internal/auth"
	"github.com/metalife/leadbot/internal/chat"
	httpmiddleware "github.com/metalife/leadbot/internal/http/middleware"
	"github.com/metalife/leadbot/internal/leads"
	"github.com/metalife/leadbot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	LeadsHandler       *leads.Handler
	AuthHandler        *auth.Handler
	AuthSecret         string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.ChatHandler.Health)
		public.Post("/chat", cfg.ChatHandler.Turn)
		public.Get("/chat/history", cfg.ChatHandler.History)
		if cfg.AuthHandler != nil {
			public.Post("/auth/login", cfg.AuthHandler.Login)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Authenticated endpoints
	if cfg.AuthSecret != "" {
		r.Group(func(private chi.Router) {
			private.Use(auth.RequireAuth(cfg.AuthSecret))

			if cfg.AuthHandler != nil {
				private.Post("/auth/password", cfg.AuthHandler.ChangePassword)
			}

			if cfg.LeadsHandler != nil {
				private.Route("/leads", func(r chi.Router) {
					r.Use(auth.RequireRotatedPassword)
					r.Get("/", cfg.LeadsHandler.List)
					r.Get("/{id}", cfg.LeadsHandler.Get)
					r.Patch("/{id}/status", cfg.LeadsHandler.UpdateStatus)
				})
			}
		})
	}

	return r
}
