package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/carelink/server/internal/http/handlers"
	"github.com/carelink/server/internal/middleware"
)

// authRateWindow is the window AUTH_RATE_LIMIT applies to
const authRateWindow = 10 * time.Minute

// Handlers groups the endpoint handlers the router serves
type Handlers struct {
	Accounts *handlers.AccountHandler
	Doctors  *handlers.DoctorHandler
	Messages *handlers.MessageHandler
	Health   *handlers.HealthHandler
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(h Handlers, verifier middleware.TokenVerifier, authRateLimit int, log *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.Health.ServeHTTP)
	r.Post("/doctors", h.Doctors.HandleRegister)

	// Registration and login are rate limited per client IP
	r.Group(func(r chi.Router) {
		limiter := middleware.NewRateLimiter(authRateWindow, authRateLimit)
		r.Use(middleware.RateLimitMiddleware(limiter, middleware.GetIPKey))
		r.Post("/accounts", h.Accounts.HandleRegister)
		r.Post("/login", h.Accounts.HandleLogin)
	})

	// Protected routes (require valid JWT)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(verifier))
		r.Get("/me", h.Accounts.HandleMe)
		r.Get("/doctors/nearby", h.Doctors.HandleNearby)
		r.Get("/doctors/{id}", h.Doctors.HandleGet)
		r.Post("/messages", h.Messages.HandleSend)
		r.Get("/messages/{participant}", h.Messages.HandleBetween)
		r.Get("/conversations", h.Messages.HandleConversations)
	})

	return r
}
