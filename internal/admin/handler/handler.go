package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pulsemarket/internal/admin"
	"pulsemarket/pkg/platform/audit"
	"pulsemarket/pkg/platform/httputil"
	"pulsemarket/pkg/requestcontext"
)

// Service defines the interface for admin analytics operations.
type Service interface {
	GetOverview(ctx context.Context) (*admin.Overview, error)
	RecentAuditEvents(ctx context.Context, limit int) ([]audit.Event, error)
}

// Handler wires admin endpoints to the admin service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts admin endpoints on the router. The router is
// expected to already carry admin token authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/analytics", h.HandleOverview)
	r.Get("/admin/audit-events", h.HandleAuditEvents)
}

// HandleOverview handles GET /admin/analytics requests.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	overview, err := h.service.GetOverview(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "analytics overview failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "analytics overview served",
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromOverview(overview))
}

// HandleAuditEvents handles GET /admin/audit-events requests.
func (h *Handler) HandleAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	events, err := h.service.RecentAuditEvents(ctx, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEvents(events))
}
