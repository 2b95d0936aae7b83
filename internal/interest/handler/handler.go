package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pulsemarket/internal/interest"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/httputil"
	"pulsemarket/pkg/requestcontext"
)

// Service defines the interface for interest lifecycle operations.
type Service interface {
	RecordAction(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID, target interest.Status) (*interest.Edge, error)
	ListInterests(ctx context.Context, lenderID id.LenderID, filter interest.ListFilter) ([]interest.Edge, int, error)
	GetDashboard(ctx context.Context, lenderID id.LenderID) (*interest.Dashboard, error)
}

// Handler wires interest endpoints to the interest service.
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

// Register mounts interest endpoints on the router. The router is
// expected to already carry lender authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/interests/{businessID}", h.HandleRecordAction)
	r.Get("/interests", h.HandleListInterests)
	r.Get("/lenders/dashboard", h.HandleDashboard)
}

// HandleRecordAction handles POST /interests/{businessID} requests.
func (h *Handler) HandleRecordAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	lenderID, ok := h.requireLender(ctx, w)
	if !ok {
		return
	}

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[RecordActionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	edge, err := h.service.RecordAction(ctx, lenderID, businessID, req.ParsedStatus())
	if err != nil {
		h.logger.ErrorContext(ctx, "interest action failed",
			"request_id", requestID,
			"lender_id", lenderID,
			"business_id", businessID,
			"target", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "interest action recorded",
		"request_id", requestID,
		"lender_id", lenderID,
		"business_id", businessID,
		"status", edge.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, FromEdge(*edge))
}

// HandleListInterests handles GET /interests requests.
func (h *Handler) HandleListInterests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lenderID, ok := h.requireLender(ctx, w)
	if !ok {
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	edges, total, err := h.service.ListInterests(ctx, lenderID, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEdges(edges, total))
}

// HandleDashboard handles GET /lenders/dashboard requests.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lenderID, ok := h.requireLender(ctx, w)
	if !ok {
		return
	}

	dashboard, err := h.service.GetDashboard(ctx, lenderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDashboard(dashboard))
}

func parseListFilter(r *http.Request) (interest.ListFilter, error) {
	values := r.URL.Query()
	filter := interest.ListFilter{}

	if raw := values.Get("status"); raw != "" {
		status, err := interest.ParseStatus(raw)
		if err != nil {
			return interest.ListFilter{}, err
		}
		filter.Status = status
	}
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"page", &filter.Page},
		{"page_size", &filter.PageSize},
	} {
		raw := values.Get(field.name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return interest.ListFilter{}, dErrors.Newf(dErrors.CodeValidation, "%s must be a non-negative integer", field.name)
		}
		*field.dst = parsed
	}
	return filter, nil
}

func (h *Handler) requireLender(ctx context.Context, w http.ResponseWriter) (id.LenderID, bool) {
	lenderID := requestcontext.LenderID(ctx)
	if lenderID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.LenderID{}, false
	}
	return lenderID, true
}
