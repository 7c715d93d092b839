package handlers

import (
	"net/http"

	"parcelbee/internal/logx"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	usecase adminUsecase
	logger  logx.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(logger logx.Logger, uc adminUsecase) *AdminHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AdminHandler{usecase: uc, logger: logger}
}

// Overview handles GET /admin/overview.
// @Summary User and delivery counts
// @Tags admin
// @Produce json
// @Success 200 {object} overviewResponse
// @Failure 403 {object} ErrorResponse "Access denied"
// @Router /admin/overview [get]
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := h.usecase.Overview(r.Context())
	if err != nil {
		internalError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, overviewToResponse(o))
}
