package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminhandler "pulsemarket/internal/admin/handler"
	businesshandler "pulsemarket/internal/business/handler"
	interesthandler "pulsemarket/internal/interest/handler"
	marketplacehandler "pulsemarket/internal/marketplace/handler"
	"pulsemarket/internal/platform/metrics"
	"pulsemarket/internal/ratelimit"
	scoringhandler "pulsemarket/internal/scoring/handler"
	adminmw "pulsemarket/pkg/platform/middleware/admin"
	authmw "pulsemarket/pkg/platform/middleware/auth"
	"pulsemarket/pkg/platform/middleware/metadata"
	"pulsemarket/pkg/platform/middleware/request"
	"pulsemarket/pkg/platform/middleware/requesttime"
	"pulsemarket/pkg/requestcontext"
)

// RouterConfig carries everything the router needs: the per-module
// handlers, boundary auth, and the health probes.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TokenValidator authmw.TokenValidator
	AdminTokenHash string
	RateLimit      *ratelimit.Middleware

	Business    *businesshandler.Handler
	Scoring     *scoringhandler.Handler
	Marketplace *marketplacehandler.Handler
	Interest    *interesthandler.Handler
	Admin       *adminhandler.Handler

	// HealthChecks are probed by /healthz; any failure reports 503.
	HealthChecks map[string]func(ctx context.Context) error
}

// NewRouter assembles the HTTP surface: SME endpoints behind SME JWT
// auth, lender endpoints behind lender JWT auth, admin endpoints
// behind the admin token, and unauthenticated health and metrics.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(cfg.HealthChecks))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(cfg.TokenValidator, requestcontext.RoleSME, cfg.Logger))
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.Limit(ratelimit.ClassWrite))
		}
		cfg.Business.Register(r)
		cfg.Scoring.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(cfg.TokenValidator, requestcontext.RoleLender, cfg.Logger))
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.Limit(ratelimit.ClassRead))
		}
		cfg.Marketplace.Register(r)
		cfg.Interest.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.AdminTokenHash, cfg.Logger))
		cfg.Admin.Register(r)
	})

	return r
}

func healthHandler(checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				http.Error(w, name+" unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
