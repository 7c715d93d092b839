package handlers

import (
	"errors"
	"net/http"
	"strings"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/http/authctx"
	"parcelbee/internal/logx"
)

// DeliveryHandler handles HTTP requests for delivery resources.
// Every route is expected to sit behind the authentication middleware.
type DeliveryHandler struct {
	usecase deliveryUsecase
	logger  logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase) *DeliveryHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DeliveryHandler{usecase: uc, logger: logger}
}

func (h *DeliveryHandler) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := authctx.PrincipalFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "No token provided")
	}
	return p, ok
}

// Create handles POST /delivery/create.
// @Summary Create a delivery request
// @Tags deliveries
// @Accept json
// @Produce json
// @Success 201 {object} createDeliveryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Access denied"
// @Router /delivery/create [post]
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req createDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if field := req.missingField(); field != "" {
		writeError(h.logger, w, r, http.StatusBadRequest, field+" is required")
		return
	}

	d, err := h.usecase.Create(r.Context(), p, req.toModel())
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusCreated, createdToResponse(d))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, apperr.Reason(err))
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "Access denied")
	default:
		internalError(h.logger, w, r, err)
	}
}

// List handles GET /delivery/list.
// Partners may narrow the result with ?status=available or ?status=my.
// @Summary List visible deliveries
// @Tags deliveries
// @Produce json
// @Param status query string false "available | my"
// @Success 200 {object} deliveryListResponse
// @Router /delivery/list [get]
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	filter := domain.ParsePartnerFilter(r.URL.Query().Get("status"))

	list, err := h.usecase.ListFor(r.Context(), p, filter)
	if err != nil {
		internalError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, viewsToResponse(list))
}

// Detail handles GET /delivery/{id}.
// @Summary Delivery detail
// @Tags deliveries
// @Produce json
// @Success 200 {object} deliveryDetailResponse
// @Failure 403 {object} ErrorResponse "Access denied"
// @Failure 404 {object} ErrorResponse "Delivery not found"
// @Router /delivery/{id} [get]
func (h *DeliveryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusNotFound, "Delivery not found")
		return
	}

	v, err := h.usecase.Detail(r.Context(), p, id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, viewToDetail(v))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "Delivery not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "Access denied")
	default:
		internalError(h.logger, w, r, err)
	}
}

// Accept handles POST /delivery/{id}/accept.
// @Summary Accept a pending delivery
// @Tags deliveries
// @Produce json
// @Success 200 {object} acceptDeliveryResponse
// @Failure 400 {object} ErrorResponse "not available or already accepted"
// @Failure 404 {object} ErrorResponse "Delivery not found"
// @Router /delivery/{id}/accept [post]
func (h *DeliveryHandler) Accept(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusNotFound, "Delivery not found")
		return
	}

	d, err := h.usecase.Accept(r.Context(), p, id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, acceptDeliveryResponse{
			Message: "Delivery accepted successfully",
			Delivery: acceptedDeliveryDTO{
				ID:         d.ID,
				Status:     string(d.Status),
				AcceptedAt: d.AcceptedAt,
			},
		})
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "Delivery not found")
	case errors.Is(err, domain.ErrDeliveryNotAvailable):
		writeError(h.logger, w, r, http.StatusBadRequest, "Delivery is not available")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusBadRequest, "Delivery already accepted by another partner")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "Access denied")
	default:
		internalError(h.logger, w, r, err)
	}
}

// UpdateStatus handles PUT and PATCH /delivery/{id}/update-status.
// @Summary Move an assigned delivery to a new status
// @Tags deliveries
// @Accept json
// @Produce json
// @Success 200 {object} updateStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Access denied"
// @Failure 404 {object} ErrorResponse "Delivery not found"
// @Router /delivery/{id}/update-status [put]
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusNotFound, "Delivery not found")
		return
	}
	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Status == nil || strings.TrimSpace(*req.Status) == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "Status is required")
		return
	}

	next := domain.DeliveryStatus(strings.TrimSpace(*req.Status))
	d, err := h.usecase.UpdateStatus(r.Context(), p, id, next)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, updateStatusResponse{
			Message: "Status updated successfully",
			Delivery: statusDeliveryDTO{
				ID:        d.ID,
				Status:    string(d.Status),
				UpdatedAt: d.UpdatedAt,
			},
		})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, apperr.Reason(err))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "Delivery not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "Access denied")
	case errors.Is(err, domain.ErrDeliveryTransitionDenied):
		writeError(h.logger, w, r, http.StatusBadRequest, "Status transition not allowed")
	default:
		internalError(h.logger, w, r, err)
	}
}
