package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"parcelbee/internal/domain"
	"parcelbee/internal/http/authctx"
	"parcelbee/internal/logx"
	"parcelbee/internal/service/auth"
)

// Authenticator resolves a bearer token into the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// Authenticate requires "Authorization: Bearer <token>" and stores the
// resolved principal in the request context.
func Authenticate(logger logx.Logger, a Authenticator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(logger, w, http.StatusUnauthorized, "No token provided")
				return
			}

			p, err := a.Authenticate(r.Context(), token)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(authctx.WithPrincipal(r.Context(), p)))
			case errors.Is(err, auth.ErrUserNotFound):
				writeError(logger, w, http.StatusUnauthorized, "User not found")
			case errors.Is(err, auth.ErrInvalidToken):
				writeError(logger, w, http.StatusUnauthorized, "Invalid or expired token")
			default:
				logger.Error("authentication failed",
					logx.String("path", r.URL.Path),
					logx.Err(err),
				)
				writeError(logger, w, http.StatusInternalServerError, "internal error")
			}
		})
	}
}

// RequireRole lets through only principals holding one of roles.
// It must run after Authenticate.
func RequireRole(logger logx.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := authctx.PrincipalFrom(r.Context())
			if !ok {
				writeError(logger, w, http.StatusUnauthorized, "No token provided")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logger.Info("role denied",
				logx.Int64("user_id", p.UserID),
				logx.String("role", p.Role.String()),
				logx.String("path", r.URL.Path),
			)
			writeError(logger, w, http.StatusForbidden, "Access denied")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(logger logx.Logger, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		logger.Debug("error response write failed", logx.Err(err))
	}
}
