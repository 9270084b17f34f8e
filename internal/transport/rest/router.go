package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/readrace/internal/config"
	"github.com/heartmarshall/readrace/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health       *HealthHandler
	Progression  *ProgressionHandler
	Notification *NotificationHandler
	Race         *RaceHandler
	Notes        *NotesHandler
	Events       *EventsHandler
}

// RouterConfig holds the router's middleware settings. A nil Limiter
// disables rate limiting.
type RouterConfig struct {
	CORS    config.CORSConfig
	Limiter *middleware.RateLimiter
	UserID  uuid.UUID
}

// NewRouter builds the local presentation API.
func NewRouter(logger *slog.Logger, cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Chain(
		middleware.RequestID,
		middleware.Session(cfg.UserID),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	))

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Limit)
		}

		r.Route("/progression", func(r chi.Router) {
			r.Get("/", h.Progression.Get)
			r.Post("/activity", h.Progression.RecordActivity)
			r.Post("/xp", h.Progression.AwardXP)
			r.Put("/title", h.Progression.SelectTitle)
			r.Delete("/title", h.Progression.ClearTitle)
		})

		r.Get("/notification", h.Notification.Toast)
		r.Post("/notification/dismiss", h.Notification.Dismiss)
		r.Get("/alert", h.Notification.Alert)
		r.Delete("/alert", h.Notification.ClearAlert)

		r.Route("/races", func(r chi.Router) {
			r.Get("/", h.Race.List)
			r.Post("/", h.Race.Create)
			r.Delete("/watch", h.Race.Unwatch)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/join", h.Race.Join)
				r.Post("/finish", h.Race.Finish)
				r.Get("/leaderboard", h.Race.Leaderboard)
				r.Post("/leaderboard/refresh", h.Race.RefreshLeaderboard)
				r.Put("/watch", h.Race.Watch)
			})
		})

		r.Get("/books/{id}/shared-notes", h.Notes.SharedNotes)
		r.Post("/books/{id}/shared-notes/refresh", h.Notes.RefreshSharedNotes)
		r.Get("/notes", h.Notes.List)
		r.Put("/notes", h.Notes.Replace)
		r.Post("/notes/{id}/toggle-shared", h.Notes.ToggleShared)

		r.Get("/events", h.Events.Stream)
	})

	return r
}
