package ratelimit

import (
	"io"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"parcelbee/internal/logx"
)

// Middleware rejects callers that exceed their token bucket with 429.
type Middleware struct {
	logger   logx.Logger
	rejected *prometheus.CounterVec // labelled by scope
	limiter  Limiter
}

// New creates a Middleware. rejected may be nil.
func New(logger logx.Logger, rejected *prometheus.CounterVec, limiter Limiter) *Middleware {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Middleware{
		logger:   logger,
		rejected: rejected,
		limiter:  limiter,
	}
}

// Handler returns chi-style middleware for the given scope. Each scope has
// its own bucket per client, so a burst on /login does not starve /register.
func (m *Middleware) Handler(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if m.limiter.Allow(scope + "|" + ip) {
				next.ServeHTTP(w, r)
				return
			}

			if m.rejected != nil {
				m.rejected.WithLabelValues(scope).Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("scope", scope),
				logx.String("ip", ip),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
				m.logger.Debug("rate limit response write failed",
					logx.String("ip", ip),
					logx.Err(err),
				)
			}
		})
	}
}

// clientIP expects chi's RealIP to have rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
