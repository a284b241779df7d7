// Package httpapi exposes the overview document over HTTP: conditional GET
// and PUT with entity tags, bearer token auth and per-client rate limits.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vaultacks/internal/logging"
	"github.com/dmitrijs2005/vaultacks/internal/server/config"
	"github.com/dmitrijs2005/vaultacks/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// OverviewPath is where the overview document is served.
const OverviewPath = "/overview"

// NewRouter wires the handlers and middleware of the overview server.
func NewRouter(svc *services.OverviewService, cfg *config.Config, log logging.Logger) http.Handler {
	h := NewOverviewHandler(svc, log, cfg.MaxBodyBytes)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", HandleHealth)
	r.Get(OverviewPath, h.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(Auth(cfg.TokenMaxAge))
		r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Put(OverviewPath, h.HandlePut)
	})

	return r
}
