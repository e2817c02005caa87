package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/Ravikant96/AllSpark/internal/accounts"
	"github.com/Ravikant96/AllSpark/internal/auth"
	"github.com/Ravikant96/AllSpark/internal/connections"
	"github.com/Ravikant96/AllSpark/internal/dashboards"
	"github.com/Ravikant96/AllSpark/internal/docs"
	"github.com/Ravikant96/AllSpark/internal/observability"
	"github.com/Ravikant96/AllSpark/internal/reports"
	"github.com/Ravikant96/AllSpark/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	TokenStore         *auth.TokenStore
	AuthHandler        *auth.Handler
	AccountsHandler    *accounts.Handler
	ConnectionsHandler *connections.Handler
	ReportsHandler     *reports.Handler
	DashboardsHandler  *dashboards.Handler
	DocsHandler        *docs.Handler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with AllSpark defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(Identity(params.TokenStore, params.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Credential endpoints carry a tighter rate limit than the rest of the
	// API to slow password guessing.
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		params.AuthHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		params.AccountsHandler.MountRoutes(r)
		params.ConnectionsHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)
		params.DashboardsHandler.MountRoutes(r)
		params.DocsHandler.MountRoutes(r)
		if params.JobsHandler != nil {
			params.JobsHandler.MountRoutes(r)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
