package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/usergate/userauth/internal/api/handler"
	"github.com/usergate/userauth/internal/api/middleware"
	"github.com/usergate/userauth/internal/core/domain"
	"github.com/usergate/userauth/internal/core/policy"
)

// DocsPath is where the swagger UI is served; GET / redirects here.
const DocsPath = "/api/index.html"

// route binds a handler to a path together with its access tier. The
// same table feeds echo registration and middleware.Authorize, so a route
// cannot be registered without a protection decision being recorded.
type route struct {
	method  string
	path    string
	access  policy.Access
	handler echo.HandlerFunc
}

type routeHandlers struct {
	auth    *handler.AuthHandler
	users   *handler.UserHandler
	health  *handler.HealthHandler
	metrics echo.HandlerFunc
}

func routeTable(h routeHandlers) []route {
	return []route{
		{http.MethodGet, "/", policy.Public(), redirectToDocs},
		{http.MethodGet, "/api/*", policy.Public(), echoSwagger.WrapHandler},
		{http.MethodGet, "/health", policy.Public(), h.health.Liveness},
		{http.MethodGet, "/health/ready", policy.Public(), h.health.Readiness},
		{http.MethodGet, "/metrics", policy.Public(), h.metrics},

		{http.MethodPost, "/auth/register", policy.Public(), h.auth.Register},
		{http.MethodPost, "/auth/login", policy.Public(), h.auth.Login},
		{http.MethodPost, "/auth/refresh-token", policy.Public(), h.auth.RefreshToken},

		{http.MethodGet, "/users", policy.Authenticated(), h.users.List},
		{http.MethodGet, "/users/:id", policy.Authenticated(), h.users.Get},
		{http.MethodPost, "/users", policy.RequireRoles(domain.RoleAdmin), h.users.Create},
		{http.MethodPut, "/users/:id", policy.Authenticated(), h.users.Update},
		{http.MethodDelete, "/users/:id", policy.RequireRoles(domain.RoleAdmin), h.users.Delete},
	}
}

// register adds every route to e and returns the matching access table.
func register(e *echo.Echo, routes []route) middleware.AccessTable {
	table := make(middleware.AccessTable, len(routes))
	for _, r := range routes {
		e.Add(r.method, r.path, r.handler)
		table.Set(r.method, r.path, r.access)
	}
	return table
}

func redirectToDocs(c echo.Context) error {
	return c.Redirect(http.StatusFound, DocsPath)
}
