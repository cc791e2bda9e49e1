package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/usergate/userauth/internal/api/middleware"
	"github.com/usergate/userauth/internal/core/domain"
)

// principal returns the caller verified by middleware.Authorize. A route
// that reaches a handler without one was registered as public by mistake,
// so the request is refused rather than treated as anonymous.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || p.Subject == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// bindAndValidate decodes the body into req and runs the struct tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalidPayload()
	}
	return c.Validate(req)
}

func invalidPayload() error {
	return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
}
