package httpapi

import (
	"net/http"
	"time"

	"heartboard/internal/http/handlers"
	"heartboard/internal/infra"
	appmw "heartboard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires the read-model API: leaderboards, VIP status, profile
// totals, the donation feed and seasons, plus the admin rebuild and
// recompute operations behind the bearer-token gate.
func NewRouter(app *handlers.App, logger zerolog.Logger, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		appmw.Logger(logger),
	)
	if cfg.RateLimitPerMin > 0 {
		r.Use(appmw.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(appmw.CORS(cfg.CORSOrigins))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/rankings", func(r chi.Router) {
		r.Get("/seasons/{seasonID}", app.SeasonRankings)
		r.Get("/lifetime", app.LifetimeRankings)
	})

	r.Get("/v1/vip/{donorName}", app.VIPStatus)
	r.Get("/v1/profiles/{nickname}", app.ProfileTotal)
	r.Get("/v1/donations/recent", app.RecentDonations)

	r.Route("/v1/seasons", func(r chi.Router) {
		r.Get("/", app.SeasonsList)
		r.Get("/active", app.ActiveSeason)
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(appmw.AdminToken(cfg.AdminToken))
		r.Post("/rebuild/seasons/{seasonID}", app.RebuildSeason)
		r.Post("/rebuild/lifetime", app.RebuildLifetime)
		r.Post("/seasons/{seasonID}/activate", app.ActivateSeason)
		r.Post("/profiles/{profileID}/recompute", app.RecomputeProfile)
	})

	return r
}
