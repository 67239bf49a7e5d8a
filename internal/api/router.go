package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shamoevthomas/CloseOS-sub001/internal/availability"
)

type RouterConfig struct {
	Pages    availability.Repository
	Bookings BookingService
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public booking flow, keyed by the page slug
	r.Route("/pages/{slug}", func(r chi.Router) {
		r.Get("/", getPageHandler(cfg.Pages))
		r.Get("/dates", listDatesHandler(cfg.Pages))
		r.Get("/slots", listSlotsHandler(cfg.Pages))
		r.Post("/bookings", createBookingHandler(cfg.Pages, cfg.Bookings))
	})

	return r
}
