package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/handler/http/middleware"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/jwt"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/metrics"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, outshiftHandler OutshiftHandler, businessUnitHandler BusinessUnitHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{
		Registry: metrics.Registry,
	}))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/reports/outshift", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionOutshiftView))
				r.Get("/agent/{agentID}", outshiftHandler.GetAgentReport)
				r.Get("/global", outshiftHandler.GetGlobalReport)
			})

			r.Route("/business-units/{id}/working-hours", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionBusinessUnitView)).
					Get("/", businessUnitHandler.GetWorkingHours)

				// Super admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireSuperAdmin)
					r.Use(middleware.RequirePermission(user.PermissionBusinessUnitManageHours))
					r.Put("/", businessUnitHandler.UpdateWorkingHours)
				})
			})
		})
	})
	return r
}
