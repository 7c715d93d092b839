package handlers

import (
	"errors"
	"net/http"

	"parcelbee/internal/apperr"
	"parcelbee/internal/logx"
)

// AuthHandler serves sign-up and sign-in.
type AuthHandler struct {
	usecase authUsecase
	logger  logx.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger logx.Logger, uc authUsecase) *AuthHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AuthHandler{usecase: uc, logger: logger}
}

// Register handles POST /register.
// @Summary Register a customer or partner
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} sessionResponse
// @Failure 400 {object} ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	s, err := h.usecase.Register(r.Context(), req.toInput())
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusCreated, sessionToResponse("Registration successful", s))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, apperr.Reason(err))
	default:
		internalError(h.logger, w, r, err)
	}
}

// Login handles POST /login.
// @Summary Exchange credentials for a token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} sessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	s, err := h.usecase.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, sessionToResponse("Login successful", s))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, apperr.Reason(err))
	case errors.Is(err, apperr.ErrUnauthorized):
		writeError(h.logger, w, r, http.StatusUnauthorized, "Invalid credentials")
	default:
		internalError(h.logger, w, r, err)
	}
}
