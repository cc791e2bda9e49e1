package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/usergate/userauth/docs"
	"github.com/usergate/userauth/internal/api/handler"
	"github.com/usergate/userauth/internal/api/middleware"
	"github.com/usergate/userauth/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth   ports.AuthService
	Users  ports.UserService
	Tokens ports.TokenIssuer
	// Dependencies are pinged by GET /health/ready, keyed by name.
	Dependencies map[string]handler.Pinger
	Logger       zerolog.Logger
	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the global prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	routes := routeTable(routeHandlers{
		auth:    handler.NewAuthHandler(d.Auth),
		users:   handler.NewUserHandler(d.Users),
		health:  handler.NewHealthHandler(d.Dependencies),
		metrics: echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}),
	})

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.CommitErrors())

	table := register(e, routes)
	e.Use(middleware.Authorize(table, d.Tokens))

	return e
}
