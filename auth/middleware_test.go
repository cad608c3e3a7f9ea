package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp(t *testing.T, verifier auth.TokenVerifier) (*fiber.App, *bool) {
	t.Helper()

	reached := false

	app := fiber.New()
	app.Use(auth.NewSessionMiddleware(auth.MiddlewareConfig{
		Verifier: verifier,
	}))
	app.All("/protected", func(c *fiber.Ctx) error {
		reached = true

		claims, ok := auth.ClaimsFromLocals(c, auth.DefaultContextKey)
		require.True(t, ok)

		ctxClaims, ok := auth.GetClaims(c.UserContext())
		require.True(t, ok)
		require.Equal(t, claims.UserID(), ctxClaims.UserID())

		return c.JSON(fiber.Map{"user_id": claims.UserID()})
	})

	return app, &reached
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestSessionMiddleware_TokenSources(t *testing.T) {
	ts := auth.NewTokenService(signingKey, 0, nil)
	user := testUser()

	token, err := ts.Generate(auth.NewIdentityFromUser(user))
	require.NoError(t, err)

	tests := []struct {
		name    string
		request func() *http.Request
	}{
		{
			name: "JSON body field",
			request: func() *http.Request {
				req := httptest.NewRequest(fiber.MethodPost, "/protected", strings.NewReader(`{"token":"`+token+`"}`))
				req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return req
			},
		},
		{
			name: "query parameter",
			request: func() *http.Request {
				return httptest.NewRequest(fiber.MethodGet, "/protected?token="+token, nil)
			},
		},
		{
			name: "Authorization bearer header",
			request: func() *http.Request {
				req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
				return req
			},
		},
		{
			name: "Authorization bare header",
			request: func() *http.Request {
				req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
				req.Header.Set(fiber.HeaderAuthorization, token)
				return req
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, reached := protectedApp(t, ts)

			resp, err := app.Test(tt.request())
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.True(t, *reached)

			body := decodeBody(t, resp)
			assert.Equal(t, user.ID.String(), body["user_id"])
		})
	}
}

func TestSessionMiddleware_Rejections(t *testing.T) {
	ts := auth.NewTokenService(signingKey, 0, nil)

	t.Run("no token short-circuits", func(t *testing.T) {
		app, reached := protectedApp(t, ts)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.False(t, *reached)

		body := decodeBody(t, resp)
		assert.Equal(t, "No token provided", body["error"])
	})

	t.Run("invalid token short-circuits", func(t *testing.T) {
		app, reached := protectedApp(t, ts)

		req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.False(t, *reached)

		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid or expired token", body["error"])
	})

	t.Run("missing verifier panics", func(t *testing.T) {
		assert.Panics(t, func() {
			auth.NewSessionMiddleware(auth.MiddlewareConfig{})
		})
	})
}

func TestAdminOnly(t *testing.T) {
	ts := auth.NewTokenService(signingKey, 0, nil)

	adminApp := func(reached *bool) *fiber.App {
		app := fiber.New()
		app.Get("/admin",
			auth.NewSessionMiddleware(auth.MiddlewareConfig{Verifier: ts}),
			auth.AdminOnly(auth.DefaultContextKey),
			func(c *fiber.Ctx) error {
				*reached = true
				return c.SendStatus(fiber.StatusOK)
			})
		return app
	}

	issue := func(role auth.UserRole) string {
		user := testUser()
		user.Role = role
		token, err := ts.Generate(auth.NewIdentityFromUser(user))
		require.NoError(t, err)
		return token
	}

	t.Run("admin passes", func(t *testing.T) {
		reached := false
		req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issue(auth.RoleAdmin))

		resp, err := adminApp(&reached).Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, reached)
	})

	t.Run("regular user is denied", func(t *testing.T) {
		reached := false
		req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issue(auth.RoleUser))

		resp, err := adminApp(&reached).Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.False(t, reached)

		body := decodeBody(t, resp)
		assert.Equal(t, "Access denied. Admins only.", body["message"])
	})

	t.Run("guard without claims denies instead of crashing", func(t *testing.T) {
		reached := false
		app := fiber.New()
		app.Get("/admin", auth.AdminOnly(""), func(c *fiber.Ctx) error {
			reached = true
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/admin", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.False(t, reached)
	})
}
