package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the full router: system endpoints at the root, the API
// under /api/v1, uploads behind the token middleware.
func (h *Handler) Routes(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/{eventID}", h.GetEvent)

			r.Route("/{eventID}/phases/{phaseID}/uploads", func(r chi.Router) {
				r.Use(h.UploadAuthMiddleware)
				r.Post("/power", h.UploadPower)
				r.Post("/player-details", h.UploadPlayerDetails)
				r.Post("/world-ranking", h.UploadWorldRanking)
				r.Post("/combined", h.UploadCombined)
			})
		})

		r.Get("/alliances", h.ListAlliances)
		r.Get("/phases/{phaseID}/leaderboard", h.GetLeaderboard)
		r.Get("/phases/{phaseID}/existing", h.GetExistingData)
		r.Get("/players/{playerID}", h.GetPlayer)
		r.Get("/players/{playerID}/history", h.GetPlayerHistory)
		r.Get("/deltas", h.GetPowerDeltas)
	})

	return r
}
