package handlers

import (
	"errors"
	"net/http"

	"parcelbee/internal/apperr"
	"parcelbee/internal/logx"
	"parcelbee/internal/service/pricing"
)

// PriceHandler serves anonymous price estimates.
type PriceHandler struct {
	estimator priceEstimator
	logger    logx.Logger
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(logger logx.Logger, e priceEstimator) *PriceHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &PriceHandler{estimator: e, logger: logger}
}

// Estimate handles POST /price/estimate.
// Geocoding failures never fail the request; the fallback distance is used instead.
// @Summary Estimate a delivery price
// @Tags pricing
// @Accept json
// @Produce json
// @Success 200 {object} estimateResponse
// @Failure 400 {object} ErrorResponse
// @Router /price/estimate [post]
func (h *PriceHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Weight == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "weight is required")
		return
	}

	est, err := h.estimator.Estimate(r.Context(), pricing.Request{
		PickupAddress: req.PickupAddress,
		DropAddress:   req.DropAddress,
		WeightKg:      float64(*req.Weight),
	})
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, estimateToResponse(est))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, apperr.Reason(err))
	default:
		internalError(h.logger, w, r, err)
	}
}
