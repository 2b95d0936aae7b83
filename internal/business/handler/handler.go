package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pulsemarket/internal/business"
	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
	"pulsemarket/pkg/platform/httputil"
	"pulsemarket/pkg/requestcontext"
)

// Service defines the interface for business pipeline operations.
type Service interface {
	SubmitProfile(ctx context.Context, businessID id.BusinessID, ownerID id.OwnerID, fields business.ProfileFields) (*business.BusinessIdentity, error)
	UploadEvidence(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID, channel business.EvidenceChannel, artifactRef string) (business.EvidenceRecord, error)
	ConfirmBusinessType(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID, rcNumber id.RCNumber) (*business.BusinessIdentity, error)
	GetProfile(ctx context.Context, businessID id.BusinessID) (*business.BusinessIdentity, error)
	GetDashboard(ctx context.Context, ownerID id.OwnerID, businessID id.BusinessID) (*business.Dashboard, error)
}

// Handler wires business pipeline endpoints to the business service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a business handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts business endpoints on the router. The router is
// expected to already carry SME authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/businesses/profile", h.HandleSubmitProfile)
	r.Get("/businesses/{businessID}", h.HandleGetProfile)
	r.Post("/businesses/{businessID}/evidence", h.HandleUploadEvidence)
	r.Post("/businesses/{businessID}/business-type", h.HandleConfirmBusinessType)
	r.Get("/businesses/{businessID}/dashboard", h.HandleDashboard)
}

// HandleSubmitProfile handles POST /businesses/profile requests.
func (h *Handler) HandleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	ownerID, ok := h.requireOwner(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	identity, err := h.service.SubmitProfile(ctx, req.ParsedBusinessID(), ownerID, req.Fields())
	if err != nil {
		h.logger.ErrorContext(ctx, "profile submission failed",
			"request_id", requestID,
			"owner_id", ownerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "profile submitted",
		"request_id", requestID,
		"business_id", identity.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromIdentity(identity))
}

// HandleGetProfile handles GET /businesses/{businessID} requests.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	identity, err := h.service.GetProfile(ctx, businessID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIdentity(identity))
}

// HandleUploadEvidence handles POST /businesses/{businessID}/evidence requests.
func (h *Handler) HandleUploadEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ownerID, ok := h.requireOwner(ctx, w)
	if !ok {
		return
	}

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[UploadEvidenceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.UploadEvidence(ctx, ownerID, businessID, req.ParsedChannel(), req.ArtifactRef)
	if err != nil {
		h.logger.ErrorContext(ctx, "evidence upload failed",
			"request_id", requestID,
			"business_id", businessID,
			"channel", req.Channel,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "evidence uploaded",
		"request_id", requestID,
		"business_id", businessID,
		"channel", record.Channel,
	)
	httputil.WriteJSON(w, http.StatusOK, FromEvidence(record))
}

// HandleConfirmBusinessType handles POST /businesses/{businessID}/business-type.
func (h *Handler) HandleConfirmBusinessType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ownerID, ok := h.requireOwner(ctx, w)
	if !ok {
		return
	}

	businessID, err := id.ParseBusinessID(chi.URLParam(r, "businessID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ConfirmBusinessTypeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	identity, err := h.service.ConfirmBusinessType(ctx, ownerID, businessID, req.ParsedRCNumber())
	if err != nil {
		h.logger.ErrorContext(ctx, "business type confirmation failed",
			"request_id", requestID,
			"business_id", businessID,
			"rc_number", req.RCNumber,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "business type confirmed",
		"request_id", requestID,
		"business_id", businessID,
		"business_type", identity.BusinessType,
	)
	httputil.WriteJSON(w, http.StatusOK, FromIdentity(identity))
}

// HandleDashboard handles GET /businesses/{businessID}/dashboard requests.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
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

	dashboard, err := h.service.GetDashboard(ctx, ownerID, businessID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDashboard(dashboard))
}

func (h *Handler) requireOwner(ctx context.Context, w http.ResponseWriter) (id.OwnerID, bool) {
	ownerID := requestcontext.OwnerID(ctx)
	if ownerID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.OwnerID{}, false
	}
	return ownerID, true
}
