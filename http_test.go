package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	auth "github.com/Rajesh-Alachandra/jobportal-auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPortalApp(t *testing.T) (*fiber.App, *auth.AuthService) {
	t.Helper()

	svc, _ := newDemoService(t)
	guard := auth.NewHTTPGuard(auth.NewGuard(svc, auth.DefaultRouteTable(), auth.DefaultRouteConfig()))

	app := fiber.New()
	app.Use(guard.Middleware())

	auth.RegisterAuthRoutes(app,
		auth.WithAuthService(svc),
		auth.WithHTTPGuard(guard),
	)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("home")
	})
	app.Get("/employer/dashboard", func(c *fiber.Ctx) error {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).SendString("no identity")
		}
		return c.SendString("dashboard for " + identity.Email)
	})
	app.Get("/jobseeker/search-jobs", func(c *fiber.Ctx) error {
		return c.SendString("search jobs")
	})

	return app, svc
}

func doGet(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func doPostJSON(t *testing.T, app *fiber.App, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func responseMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	return body.Message
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestMiddlewareWaitsWhileInitializing(t *testing.T) {
	svc := auth.NewAuthService(newDemoBroker(), newMemStore())
	guard := auth.NewHTTPGuard(auth.NewGuard(svc, auth.DefaultRouteTable(), auth.DefaultRouteConfig()))

	app := fiber.New()
	app.Use(guard.Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("home") })

	resp := doGet(t, app, "/")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))

	svc.Initialize(context.Background())

	resp = doGet(t, app, "/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddlewareRedirectsProtectedRoute(t *testing.T) {
	app, _ := newPortalApp(t)

	resp := doGet(t, app, "/employer/dashboard")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/employer/login", resp.Header.Get("Location"))

	cookie := findCookie(resp, auth.RejectedRouteCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "/employer/dashboard", cookie.Value)
}

func TestLoginResumeFlow(t *testing.T) {
	app, _ := newPortalApp(t)

	// The protected page rejects the visit and remembers where we were going.
	resp := doGet(t, app, "/employer/dashboard")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	cookie := findCookie(resp, auth.RejectedRouteCookie)
	require.NotNil(t, cookie)

	// Signing in resumes the rejected route.
	resp = doPostJSON(t, app, "/employer/login",
		`{"email":"employer@example.com","password":"employer123"}`, cookie)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/employer/dashboard", resp.Header.Get("Location"))

	// And the page now renders with the identity attached.
	resp = doGet(t, app, "/employer/dashboard")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginWithoutRejectedRouteLandsOnDashboard(t *testing.T) {
	app, _ := newPortalApp(t)

	resp := doPostJSON(t, app, "/employer/login",
		`{"email":"employer@example.com","password":"employer123"}`)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/employer/dashboard", resp.Header.Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, svc := newPortalApp(t)

	resp := doPostJSON(t, app, "/employer/login",
		`{"email":"employer@example.com","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", responseMessage(t, resp))
	assert.False(t, svc.IsAuthenticated())
}

func TestLoginValidatesPayload(t *testing.T) {
	app, _ := newPortalApp(t)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing email",
			body: `{"password":"employer123"}`,
		},
		{
			name: "missing password",
			body: `{"email":"employer@example.com"}`,
		},
		{
			name: "invalid email",
			body: `{"email":"not-an-email","password":"employer123"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doPostJSON(t, app, "/employer/login", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLoginRoleMismatch(t *testing.T) {
	t.Run("jobseeker on the employer form", func(t *testing.T) {
		app, _ := newPortalApp(t)

		resp := doPostJSON(t, app, "/employer/login",
			`{"email":"jobseeker@example.com","password":"Password123"}`)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Access denied. This login is for employers only.", responseMessage(t, resp))
	})

	t.Run("employer on the jobseeker form", func(t *testing.T) {
		app, _ := newPortalApp(t)

		resp := doPostJSON(t, app, "/jobseeker/login",
			`{"email":"employer@example.com","password":"employer123"}`)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Access denied. This login is for job seekers only.", responseMessage(t, resp))
	})
}

func TestAuthPagesBounceSignedInUsers(t *testing.T) {
	app, svc := newPortalApp(t)
	loginAs(t, svc, auth.RoleEmployer)

	resp := doGet(t, app, "/employer/login")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/employer/dashboard", resp.Header.Get("Location"))

	// No rejected-route cookie: there is nothing to resume.
	assert.Nil(t, findCookie(resp, auth.RejectedRouteCookie))
}

func TestEmployerRegisterFlow(t *testing.T) {
	app, svc := newPortalApp(t)

	resp := doPostJSON(t, app, "/employer/register", `{
		"company_name": "Initech LLC",
		"email": "talent@initech.test",
		"website": "https://initech.test",
		"password": "Password123",
		"confirm_password": "Password123"
	}`)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/employer/dashboard", resp.Header.Get("Location"))

	require.True(t, svc.IsAuthenticated())
	role, _ := svc.Role()
	assert.Equal(t, auth.RoleEmployer, role)
}

func TestJobseekerRegisterValidation(t *testing.T) {
	app, _ := newPortalApp(t)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "password mismatch",
			body: `{
				"first_name": "Jane", "last_name": "Doe",
				"email": "jane@example.com",
				"password": "Password123", "confirm_password": "Different123"
			}`,
		},
		{
			name: "short password",
			body: `{
				"first_name": "Jane", "last_name": "Doe",
				"email": "jane@example.com",
				"password": "short", "confirm_password": "short"
			}`,
		},
		{
			name: "invalid phone",
			body: `{
				"first_name": "Jane", "last_name": "Doe",
				"email": "jane@example.com", "phone_number": "not-a-phone",
				"password": "Password123", "confirm_password": "Password123"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doPostJSON(t, app, "/jobseeker/register", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := newPortalApp(t)

	resp := doPostJSON(t, app, "/jobseeker/register", `{
		"first_name": "Jane", "last_name": "Doe",
		"email": "jobseeker@example.com",
		"password": "Password123", "confirm_password": "Password123"
	}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "An account with this email already exists", responseMessage(t, resp))
}

func TestSignOut(t *testing.T) {
	app, svc := newPortalApp(t)
	loginAs(t, svc, auth.RoleEmployer)
	require.True(t, svc.IsAuthenticated())

	resp := doGet(t, app, "/signout")
	assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.False(t, svc.IsAuthenticated())

	// The protected page rejects again.
	resp = doGet(t, app, "/employer/dashboard")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/employer/login", resp.Header.Get("Location"))
}

func TestNewAuthControllerRequiresDependencies(t *testing.T) {
	assert.Panics(t, func() {
		auth.NewAuthController()
	})

	svc, _ := newDemoService(t)
	assert.Panics(t, func() {
		auth.NewAuthController(auth.WithAuthService(svc))
	})
}

func TestIdentityContext(t *testing.T) {
	identity := &auth.Identity{ID: "u-1", Role: auth.RoleEmployer}

	ctx := auth.WithContext(context.Background(), identity)
	got, ok := auth.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, identity, got)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}
