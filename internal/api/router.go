package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-service/docs"
	"github.com/99minutos/user-service/internal/api/handler"
	"github.com/99minutos/user-service/internal/api/middleware"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs. Construction of the services
// and adapters happens in the composition root.
type Dependencies struct {
	Users       ports.UserService
	Credentials ports.CredentialValidator
	AuthClient  ports.AuthClient
	Token       middleware.TokenConfig
	AdminRole   string
	CORSOrigins []string
	Checks      []handlers.Check
	Swagger     bool
	// Registerer and Gatherer back the HTTP metrics and /metrics. They default
	// to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger.With().Str("component", "http").Logger()))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "users",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/health")
		},
	}))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(deps.Users, deps.Logger)
	authHandler := handler.NewAuthHandler(deps.Credentials, deps.AuthClient)
	adminOnly := []echo.MiddlewareFunc{
		middleware.Auth(deps.Token),
		middleware.RBAC(deps.AdminRole),
	}

	// --- User routes ---
	e.GET("/users", userHandler.List)
	e.GET("/users/:id", userHandler.Get)
	e.POST("/users", userHandler.Create, adminOnly...)
	e.PUT("/users/:id", userHandler.Update, adminOnly...)
	e.DELETE("/users/:id", userHandler.Delete, adminOnly...)

	// --- Credential routes ---
	e.POST("/users/validate", authHandler.Validate)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))

	if deps.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}
