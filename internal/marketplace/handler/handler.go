package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pulsemarket/internal/marketplace"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/httputil"
	"pulsemarket/pkg/requestcontext"
)

// Service defines the interface for marketplace browsing.
type Service interface {
	Browse(ctx context.Context, lenderID id.LenderID, query marketplace.Query) (*marketplace.Page, error)
	Detail(ctx context.Context, lenderID id.LenderID, businessID id.BusinessID) (*marketplace.Listing, error)
}

// Handler wires marketplace endpoints to the marketplace service.
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

// Register mounts marketplace endpoints on the router. The router is
// expected to already carry lender authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/marketplace/listings", h.HandleBrowse)
	r.Get("/marketplace/listings/{businessID}", h.HandleDetail)
}

// HandleBrowse handles GET /marketplace/listings requests.
func (h *Handler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	lenderID, ok := h.requireLender(ctx, w)
	if !ok {
		return
	}

	query, err := parseQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.Browse(ctx, lenderID, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "marketplace browse failed",
			"request_id", requestID,
			"lender_id", lenderID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "marketplace browsed",
		"request_id", requestID,
		"lender_id", lenderID,
		"page", page.PageNumber,
		"total", page.Total,
	)
	httputil.WriteJSON(w, http.StatusOK, FromPage(page))
}

// HandleDetail handles GET /marketplace/listings/{businessID} requests.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lenderID, ok := h.requireLender(ctx, w)
	if !ok {
		return
	}

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	listing, err := h.service.Detail(ctx, lenderID, businessID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromListing(*listing))
}

func parseQuery(r *http.Request) (marketplace.Query, error) {
	values := r.URL.Query()
	query := marketplace.Query{
		Industry:      values.Get("industry"),
		SnapshotToken: values.Get("snapshot_token"),
	}

	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"min_pulse_score", &query.MinPulseScore},
		{"min_profit_score", &query.MinProfitScore},
		{"page", &query.Page},
		{"page_size", &query.PageSize},
	} {
		raw := values.Get(field.name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return marketplace.Query{}, dErrors.Newf(dErrors.CodeValidation, "%s must be a non-negative integer", field.name)
		}
		*field.dst = parsed
	}
	return query, nil
}

func (h *Handler) requireLender(ctx context.Context, w http.ResponseWriter) (id.LenderID, bool) {
	lenderID := requestcontext.LenderID(ctx)
	if lenderID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.LenderID{}, false
	}
	return lenderID, true
}
