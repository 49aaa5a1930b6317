// Package httpapi is pplme's admin HTTP surface: health and metrics,
// kept deliberately separate from the bespoke TCP matching protocol
// (internal/netserver). Routing uses gorilla/mux with a JSON /health
// handler.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/shiva/pplme/internal/middleware"
	"github.com/shiva/pplme/pkg/cache"
	"github.com/shiva/pplme/pkg/db"
)

// Dependencies are the optional backing services /health reports on.
// Either may be nil when pplmed is run with the CSV source (no
// Postgres) or without a result cache configured.
type Dependencies struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
}

// NewRouter builds the admin router: /health, /metrics, wrapped with
// request logging and panic recovery.
func NewRouter(deps Dependencies) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler(deps)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = middleware.RequestLogger(handler)
	handler = middleware.Recoverer(handler)
	return handler
}

// HealthResponse is the /health endpoint's JSON body.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Services: map[string]string{}}

		if deps.Postgres != nil {
			if err := db.HealthCheck(r.Context(), deps.Postgres); err != nil {
				resp.Status = "degraded"
				resp.Services["postgres"] = "unhealthy: " + err.Error()
			} else {
				resp.Services["postgres"] = "healthy"
			}
		}

		if deps.Redis != nil {
			if err := cache.HealthCheck(r.Context(), deps.Redis); err != nil {
				resp.Status = "degraded"
				resp.Services["redis"] = "unhealthy: " + err.Error()
			} else {
				resp.Services["redis"] = "healthy"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
