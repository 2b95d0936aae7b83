package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pulsemarket/internal/scoring"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/httputil"
	"pulsemarket/pkg/requestcontext"
)

// Service defines the interface for scoring operations.
type Service interface {
	RequestScoring(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*scoring.ScoreRecord, error)
	GetScore(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*scoring.ScoreRecord, error)
}

// Handler wires scoring endpoints to the scoring service.
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

// Register mounts scoring endpoints on the router. The router is
// expected to already carry SME authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/businesses/{businessID}/score", h.HandleRequestScoring)
	r.Get("/businesses/{businessID}/score", h.HandleGetScore)
}

// HandleRequestScoring handles POST /businesses/{businessID}/score.
func (h *Handler) HandleRequestScoring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	ownerID, ok := h.requireOwner(ctx, w)
	if !ok {
		return
	}

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.RequestScoring(ctx, ownerID, businessID)
	if err != nil {
		h.logger.ErrorContext(ctx, "scoring run failed",
			"request_id", requestID,
			"business_id", businessID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "scoring run completed",
		"request_id", requestID,
		"business_id", businessID,
		"pulse_score", record.PulseScore,
		"status", record.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleGetScore handles GET /businesses/{businessID}/score.
func (h *Handler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.requireOwner(ctx, w)
	if !ok {
		return
	}

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.GetScore(ctx, ownerID, businessID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

func (h *Handler) requireOwner(ctx context.Context, w http.ResponseWriter) (id.OwnerID, bool) {
	ownerID := requestcontext.OwnerID(ctx)
	if ownerID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.OwnerID{}, false
	}
	return ownerID, true
}
