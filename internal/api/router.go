package api

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/colonydesk/backoffice/docs"
	"github.com/colonydesk/backoffice/internal/api/handler"
	"github.com/colonydesk/backoffice/internal/api/middleware"
	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Session    ports.SessionController
	Authorizer ports.RoleAuthorizer
	Store      ports.CredentialStore
	Navigator  *Navigator

	// Backend is the API base URL; Transport carries proxied calls to it.
	Backend   *url.URL
	Transport http.RoundTripper

	Checks map[string]handler.Check
	Log    zerolog.Logger

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "backoffice_gateway",
		Registerer: registerer,
	}))

	sessionHandler := handler.NewSessionHandler(deps.Session, deps.Store, deps.Navigator)
	navigationHandler := handler.NewNavigationHandler(deps.Session, deps.Authorizer)
	requireSession := middleware.RequireSession(deps.Session)

	// --- Session routes ---
	e.GET("/session", sessionHandler.Get)
	e.POST("/session/register", sessionHandler.Register)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.DELETE("/session/error", sessionHandler.ClearError)
	e.PATCH("/session/profile", sessionHandler.UpdateProfile, requireSession)
	e.GET("/session/menu", navigationHandler.Menu, requireSession)
	e.GET("/session/routes", navigationHandler.Routes, requireSession, middleware.RequireRoles(domain.RoleSuperAdmin))

	// --- Navigation ---
	e.GET("/navigate", navigationHandler.Navigate)

	// --- Backend proxy ---
	backend := e.Group("/backend", requireSession)
	backend.Use(echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
		Balancer: echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{
			{Name: "backend", URL: deps.Backend},
		}),
		Rewrite: map[string]string{
			"/backend/*": "/$1",
		},
		Transport: deps.Transport,
	}))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
