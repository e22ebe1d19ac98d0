package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": "11111111-1111-1111-1111-111111111111",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAdminApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()
	app.Get("/admin/payments", Protected(), AdminRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func TestAdminRequiredAllowsAdmin(t *testing.T) {
	app := newAdminApp(t)

	req := httptest.NewRequest("GET", "/admin/payments", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "test-secret", "admin"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminRequiredForbidsNonAdmin(t *testing.T) {
	app := newAdminApp(t)

	req := httptest.NewRequest("GET", "/admin/payments", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "test-secret", "seller"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProtectedRejectsMissingToken(t *testing.T) {
	app := newAdminApp(t)

	req := httptest.NewRequest("GET", "/admin/payments", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRejectsBadSignature(t *testing.T) {
	app := newAdminApp(t)

	req := httptest.NewRequest("GET", "/admin/payments", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "wrong-secret", "admin"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
