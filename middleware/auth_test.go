package middleware

import (
	"net/http/httptest"
	"testing"

	"container-tracker/models/user"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testUser() *user.User {
	return &user.User{
		ID:       7,
		Username: "manager1",
		Role:     user.RoleManager,
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 7, claims["user_id"])
	require.Equal(t, "manager1", claims["username"])
	require.Equal(t, user.RoleManager, claims["role"])
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := IssueToken(testUser())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = VerifyToken(token)
	require.Error(t, err)
}

func protectedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		id, _ := CurrentUserID(c)
		return c.JSON(fiber.Map{"id": id, "role": CurrentRole(c)})
	})
	app.Get("/protected", chain...)
	return app
}

func TestIsAuthenticatedWithBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := protectedApp(IsAuthenticated())

	token, err := IssueToken(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIsAuthenticatedWithCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := protectedApp(IsAuthenticated())

	token, err := IssueToken(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Cookie", "access="+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIsAuthenticatedRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := protectedApp(IsAuthenticated())

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIsAuthenticatedRejectsMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := protectedApp(IsAuthenticated())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := protectedApp(IsAuthenticated(), RequireRole(user.RoleAdmin))

	token, err := IssueToken(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	admin := testUser()
	admin.Role = user.RoleAdmin
	adminToken, err := IssueToken(admin)
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
