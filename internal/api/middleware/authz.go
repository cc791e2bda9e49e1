package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/usergate/userauth/internal/api/metrics"
	"github.com/usergate/userauth/internal/core/domain"
	"github.com/usergate/userauth/internal/core/policy"
	"github.com/usergate/userauth/internal/core/ports"
)

// PrincipalKey is the echo context key holding the verified
// domain.Principal.
const PrincipalKey = "principal"

// AccessTable maps a registered route (method and path pattern) to its
// protection. Routes missing from the table require authentication.
type AccessTable map[string]policy.Access

// Set records the protection for a route.
func (t AccessTable) Set(method, path string, access policy.Access) {
	t[routeKey(method, path)] = access
}

// Lookup returns the protection for a route.
func (t AccessTable) Lookup(method, path string) policy.Access {
	return t[routeKey(method, path)]
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Authorize is the single access gate for every route. Public routes pass
// straight through. Other routes need a valid bearer token, and
// role-restricted routes additionally need one of the listed roles.
//
// A missing or unverifiable token is reported as domain.ErrUnauthenticated,
// a role mismatch as domain.ErrForbidden.
func Authorize(table AccessTable, tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access := table.Lookup(c.Request().Method, c.Path())
			tier := access.Tier.String()

			if access.IsPublic() {
				metrics.AccessDecisionsTotal.WithLabelValues(tier, metrics.DecisionAllow).Inc()
				return next(c)
			}

			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AccessDecisionsTotal.WithLabelValues(tier, metrics.DecisionUnauthenticated).Inc()
				return err
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				metrics.AccessDecisionsTotal.WithLabelValues(tier, metrics.DecisionUnauthenticated).Inc()
				return fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthenticated)
			}

			if !access.Allows(claims.Roles) {
				metrics.AccessDecisionsTotal.WithLabelValues(tier, metrics.DecisionForbidden).Inc()
				return domain.ErrForbidden
			}

			metrics.AccessDecisionsTotal.WithLabelValues(tier, metrics.DecisionAllow).Inc()
			c.Set(PrincipalKey, domain.PrincipalFromClaims(claims))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthenticated)
	}
	return token, nil
}
