// Package httpapi assembles the HTTP surface: public registry routes, the
// token-gated admin subtree, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tns/internal/platform/middleware"
	"tns/internal/registry/handler"
	"tns/pkg/platform/httputil"
)

// NewRouter wires every endpoint. The admin subtree is mounted only when a
// token is configured; with no token there is no way to authenticate, so the
// routes do not exist at all.
func NewRouter(logger *slog.Logger, registry *handler.Handler, admin *handler.AdminHandler, adminToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	registry.Register(r)

	if adminToken != "" {
		r.Group(func(g chi.Router) {
			g.Use(middleware.RequireAdminToken(adminToken, logger))
			admin.Register(g)
		})
	} else {
		logger.Warn("admin token not configured, admin endpoints disabled")
	}

	return r
}
