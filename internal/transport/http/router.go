// Package httptransport assembles the HTTP surface: middleware chain, public
// endpoints, and the authenticated v1 API.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mhandler "ouvidoria/internal/manifestation/handler"
	"ouvidoria/internal/platform/metrics"
	"ouvidoria/internal/platform/middleware"
	rhandler "ouvidoria/internal/response/handler"
	shandler "ouvidoria/internal/submission/handler"
	"ouvidoria/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// HealthChecker reports readiness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	JWT            middleware.JWTValidator
	Manifestations *mhandler.Handler
	Responses      *rhandler.Handler
	Submissions    *shandler.Handler
	Checks         map[string]HealthChecker
}

// NewRouter wires the middleware chain and mounts all endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", handleHealth(d.Checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		d.Manifestations.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.JWT, d.Logger))
			r.Use(middleware.ContentTypeJSON)

			d.Manifestations.Register(r)
			d.Responses.Register(r)
			d.Submissions.Register(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(d.Logger))
				d.Manifestations.RegisterStaff(r)
				d.Responses.RegisterStaff(r)
			})
		})
	})

	return r
}

// handleHealth pings every registered dependency. Any failure turns the
// whole endpoint 503 with the failing components named.
func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		components := map[string]string{}
		for name, check := range checks {
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				components[name] = "unhealthy"
				continue
			}
			components[name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(components) > 0 {
			body["components"] = components
		}
		httputil.WriteJSON(w, status, body)
	}
}
