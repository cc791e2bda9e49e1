package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/usergate/userauth/internal/core/domain"
	"github.com/usergate/userauth/internal/core/policy"
)

type stubTokens struct {
	claims map[string]domain.Claims
}

func (s *stubTokens) Issue(domain.Claims) (string, error) {
	return "", errors.New("not used")
}

func (s *stubTokens) Verify(token string) (domain.Claims, error) {
	c, ok := s.claims[token]
	if !ok {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	return c, nil
}

func testTable() AccessTable {
	t := AccessTable{}
	t.Set(http.MethodPost, "/auth/login", policy.Public())
	t.Set(http.MethodGet, "/users", policy.Authenticated())
	t.Set(http.MethodDelete, "/users/:id", policy.RequireRoles(domain.RoleAdmin))
	return t
}

func testTokens() *stubTokens {
	return &stubTokens{claims: map[string]domain.Claims{
		"admin-token": {Subject: "1", Email: "admin@x.com", Roles: []string{"admin"}},
		"user-token":  {Subject: "2", Email: "u@x.com", Roles: []string{"user"}},
	}}
}

// run executes the middleware for method/path with the given Authorization
// header and reports whether the wrapped handler was reached.
func run(t *testing.T, method, path, authHeader string) (bool, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)

	called := false
	h := Authorize(testTable(), testTokens())(func(c echo.Context) error {
		called = true
		return nil
	})
	err := h(c)
	return called, c, err
}

func TestAuthorize_PublicRouteSkipsAuthentication(t *testing.T) {
	called, c, err := run(t, http.MethodPost, "/auth/login", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	if c.Get(PrincipalKey) != nil {
		t.Fatal("public route should not carry a principal")
	}
}

func TestAuthorize_PublicRouteIgnoresGarbageToken(t *testing.T) {
	called, _, err := run(t, http.MethodPost, "/auth/login", "Bearer garbage")
	if err != nil || !called {
		t.Fatalf("expected pass-through, got called=%v err=%v", called, err)
	}
}

func TestAuthorize_AuthenticatedRoute(t *testing.T) {
	called, c, err := run(t, http.MethodGet, "/users", "Bearer user-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	if !ok {
		t.Fatal("principal not set")
	}
	if p.Subject != "2" || p.Email != "u@x.com" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthorize_UnlistedRouteRequiresAuthentication(t *testing.T) {
	called, _, err := run(t, http.MethodGet, "/somewhere/else", "")
	if called {
		t.Fatal("next should not be called")
	}
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	called, _, err = run(t, http.MethodGet, "/somewhere/else", "Bearer user-token")
	if err != nil || !called {
		t.Fatalf("expected any principal to pass, got called=%v err=%v", called, err)
	}
}

func TestAuthorize_RejectsMissingOrMalformedHeader(t *testing.T) {
	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Token user-token",
		"no token":     "Bearer ",
		"bare token":   "user-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			called, _, err := run(t, http.MethodGet, "/users", header)
			if called {
				t.Fatal("next should not be called")
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthorize_RejectsInvalidToken(t *testing.T) {
	called, _, err := run(t, http.MethodGet, "/users", "Bearer forged")
	if called {
		t.Fatal("next should not be called")
	}
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorize_SchemeIsCaseInsensitive(t *testing.T) {
	called, _, err := run(t, http.MethodGet, "/users", "bearer user-token")
	if err != nil || !called {
		t.Fatalf("expected pass, got called=%v err=%v", called, err)
	}
}

func TestAuthorize_RoleRestrictedRoute(t *testing.T) {
	called, _, err := run(t, http.MethodDelete, "/users/:id", "Bearer user-token")
	if called {
		t.Fatal("non-admin reached admin route")
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	called, _, err = run(t, http.MethodDelete, "/users/:id", "Bearer admin-token")
	if err != nil || !called {
		t.Fatalf("admin should pass, got called=%v err=%v", called, err)
	}
}

func TestAccessTable_DefaultsToAuthenticated(t *testing.T) {
	table := AccessTable{}
	if got := table.Lookup(http.MethodGet, "/nope"); got.Tier != policy.TierAuthenticated {
		t.Fatalf("expected authenticated tier, got %s", got)
	}
}
