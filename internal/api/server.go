package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/modukick/matchledger/internal/api/handler"
	"github.com/modukick/matchledger/internal/api/identity"
	"github.com/modukick/matchledger/internal/cache"
	"github.com/modukick/matchledger/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *pgxpool.Pool, appCache *cache.Cache, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control", "X-User-ID"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, appCache, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes. All of them require a resolved caller identity.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identity.Middleware)

		// Teams and membership
		r.Post("/teams", h.CreateTeam)
		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", h.GetTeam)
			r.Get("/record", h.GetTeamRecord)
			r.Post("/members", h.JoinTeam)
			r.Get("/members", h.ListMembers)
			r.Put("/members/{memberID}/accept", h.ApproveMember)
			r.Get("/matches", h.ListTeamMatches)
			r.Get("/rankings/solo", h.SoloRanking)
			r.Get("/rankings/duo", h.DuoRanking)
		})

		// Matches, quarters, and what happened inside them
		r.Post("/matches", h.CreateMatch)
		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.GetMatch)
			r.Post("/quarters", h.CreateQuarter)
			r.Get("/quarters", h.ListQuarters)
			r.Route("/quarters/{quarterID}", func(r chi.Router) {
				r.Get("/", h.GetQuarter)
				r.Delete("/", h.DeleteQuarter)
				r.Post("/goals", h.AddGoal)
				r.Get("/goals", h.ListGoals)
				r.Post("/participations", h.InsertParticipations)
				r.Put("/participations", h.EditParticipation)
				r.Get("/participations", h.ListParticipations)
				r.Get("/on-pitch", h.OnPitch)
			})
		})
	})

	return r
}
