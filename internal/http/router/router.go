package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parcelbee/internal/domain"
	"parcelbee/internal/http/handlers"
	mw "parcelbee/internal/http/middleware"
	"parcelbee/internal/http/middleware/ratelimit"
	"parcelbee/internal/logx"
)

// Rate limit scopes of the anonymous endpoints.
const (
	ScopeRegister = "register"
	ScopeLogin    = "login"
	ScopeEstimate = "estimate"
)

// Deps are the handlers and middleware the router mounts.
type Deps struct {
	Logger        logx.Logger
	Base          *handlers.Handlers
	Auth          *handlers.AuthHandler
	Delivery      *handlers.DeliveryHandler
	Admin         *handlers.AdminHandler
	Price         *handlers.PriceHandler
	Authenticator mw.Authenticator
	// RateLimit may be nil, in which case anonymous endpoints are unlimited.
	RateLimit *ratelimit.Middleware
	// Metrics defaults to promhttp.Handler().
	Metrics        http.Handler
	RequestTimeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = promhttp.Handler()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 15 * time.Second
	}
	limit := func(scope string) func(http.Handler) http.Handler {
		if d.RateLimit == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return d.RateLimit.Handler(scope)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(d.RequestTimeout))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", d.Metrics)

	r.With(limit(ScopeRegister)).Post("/register", d.Auth.Register)
	r.With(limit(ScopeLogin)).Post("/login", d.Auth.Login)
	r.With(limit(ScopeEstimate)).Post("/price/estimate", d.Price.Estimate)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(d.Logger, d.Authenticator))

		r.Route("/delivery", func(r chi.Router) {
			r.With(mw.RequireRole(d.Logger, domain.RoleCustomer)).Post("/create", d.Delivery.Create)
			r.Get("/list", d.Delivery.List)
			r.Get("/{id}", d.Delivery.Detail)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(d.Logger, domain.RolePartner))
				r.Post("/{id}/accept", d.Delivery.Accept)
				r.Put("/{id}/update-status", d.Delivery.UpdateStatus)
				r.Patch("/{id}/update-status", d.Delivery.UpdateStatus)
			})
		})

		r.With(mw.RequireRole(d.Logger, domain.RoleAdmin)).Get("/admin/overview", d.Admin.Overview)
	})

	r.NotFound(http.HandlerFunc(d.Base.NotFound))
	r.MethodNotAllowed(http.HandlerFunc(d.Base.MethodNotAllowed))

	return r
}
