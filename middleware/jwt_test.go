package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betcore/config"
)

func init() {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"userId": c.Locals("userId"),
			"role":   c.Locals("role"),
		})
	})
	app.Get("/admin", JWTMiddleware, AdminOnly, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	return app
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	app := newProtectedApp()

	token, err := GenerateJWT(42, "player42", "USER")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decode(t, resp.Body)
	assert.True(t, env.Status)

	var data struct {
		UserID uint   `json:"userId"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, uint(42), data.UserID)
	assert.Equal(t, "USER", data.Role)
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	app := newProtectedApp()

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"garbage token":  "Bearer not.a.jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest("GET", "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err, name)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)

		env := decode(t, resp.Body)
		assert.False(t, env.Status, name)
	}
}

func TestAdminOnlyGuard(t *testing.T) {
	app := newProtectedApp()

	userToken, err := GenerateJWT(1, "player1", "USER")
	require.NoError(t, err)
	adminToken, err := GenerateJWT(2, "ops", "ADMIN")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
