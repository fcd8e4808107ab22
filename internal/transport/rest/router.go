package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/audit"
	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/internal/transport/middleware"
	"github.com/frahmantamala/rbac-admin/internal/transport/swagger"
	"github.com/frahmantamala/rbac-admin/internal/user"
)

// APIPrefix is where the route table is mounted over HTTP.
const APIPrefix = "/api"

type Handlers struct {
	Users *user.Handler
	Roles *role.Handler
	Audit *audit.Handler
}

// NewAPIRouter builds the route table shared by HTTP and in-process calls.
func NewAPIRouter(h Handlers, logger *slog.Logger) *transport.Router {
	router := transport.NewRouter(logger)

	if h.Users != nil {
		h.Users.Register(router)
	}
	if h.Roles != nil {
		h.Roles.Register(router)
	}
	if h.Audit != nil {
		h.Audit.Register(router)
	}

	return router
}

func RegisterAllRoutes(router *chi.Mux, api *transport.Router, healthHandler *HealthHandler, limits internal.RateLimitConfig, logger *slog.Logger) {
	// Apply global middleware
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Method(http.MethodGet, swagger.DocPath, swagger.DocHandler())
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route(APIPrefix, func(r chi.Router) {
		if limits.Enabled {
			r.Use(middleware.RateLimit(limits.RPS, limits.Burst, logger))
		}

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		api.Mount(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteResponse(w, api.Fail(internal.NewNotFoundError("No route for "+r.Method+" "+r.URL.Path, internal.ErrCodeRouteNotFound)))
	})
}
