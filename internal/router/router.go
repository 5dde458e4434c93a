// Package router sets up all HTTP routes and middleware chains for
// polidex. It mounts the JSON API, the share-card image, and the image
// relay behind a shared middleware stack.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"polidex/internal/apperr"
	"polidex/internal/handlers"
	"polidex/internal/middleware"
	"polidex/internal/respond"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthTimeout bounds the store ping behind /health.
const healthTimeout = 3 * time.Second

// New creates and returns the configured Chi router. cardLimiter may be
// nil to leave the share-card route unthrottled.
func New(store Pinger, public *handlers.Public, share *handlers.Share, images http.Handler, cardLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, apperr.NotFound("Route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, &apperr.AppError{
			Code:       "METHOD_NOT_ALLOWED",
			Message:    "Method not allowed",
			HTTPStatus: http.StatusMethodNotAllowed,
		})
	})

	r.Get("/health", healthHandler(store))

	r.Route("/api", func(r chi.Router) {
		r.Route("/parties", func(r chi.Router) {
			r.Get("/", public.Parties)
			r.Get("/compare", public.CompareParties)
			r.Get("/{slug}", public.Party)
		})

		r.Route("/politicians", func(r chi.Router) {
			r.Get("/", public.Politicians)
			r.Get("/latest", public.LatestPoliticians)
			r.Get("/compare", public.ComparePoliticians)
			r.Get("/{slug}", public.Politician)
		})

		r.Get("/selection", public.Selection)
		r.Get("/search", public.Search)
		r.Get("/share", share.Link)
	})

	// Rendering is the expensive path, so it gets its own budget.
	r.Group(func(r chi.Router) {
		if cardLimiter != nil {
			r.Use(cardLimiter.Middleware)
		}
		r.Get("/og/card.png", share.Card)
	})

	r.Method(http.MethodGet, "/img", images)

	return r
}

// healthHandler pings the store and reports ok or unavailable.
func healthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
