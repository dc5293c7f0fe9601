package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bazaar/internal/identity"
	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
)

const guardSecret = "guard-test-secret"

func seedUser(t *testing.T, store *identity.MemoryStore, email, role string, verified bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test",
		Email:    email,
		Role:     role,
		Verified: verified,
	}
	require.NoError(t, store.Create(user))
	return user
}

func bearerFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := identity.GenerateToken(guardSecret, user, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

// buildGuardApp mounts one protected route per policy plus an echo of
// the stashed claims.
func buildGuardApp(store *identity.MemoryStore) *fiber.App {
	guard := middleware.NewGuard(guardSecret, store)
	app := fiber.New()

	ok := func(c *fiber.Ctx) error {
		claims, _ := middleware.CurrentClaims(c)
		role := ""
		if claims != nil {
			role = claims.Role
		}
		return c.JSON(fiber.Map{"ok": true, "role": role})
	}

	app.Get("/store", guard.StoreAdmin(), ok)
	app.Get("/platform", guard.PlatformAdmin(), ok)
	app.Get("/either", guard.StoreOrPlatformAdmin(), ok)
	return app
}

func request(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGuardStoreAdminAllowed(t *testing.T) {
	store := identity.NewMemoryStore()
	storeAdmin := seedUser(t, store, "sa@x.com", models.RoleStoreAdmin, true)
	app := buildGuardApp(store)

	resp := request(t, app, "/store", bearerFor(t, storeAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardWrongRoleForbidden(t *testing.T) {
	store := identity.NewMemoryStore()
	admin := seedUser(t, store, "admin@x.com", models.RoleAdmin, true)
	plain := seedUser(t, store, "user@x.com", models.RoleUser, true)
	app := buildGuardApp(store)

	resp := request(t, app, "/store", bearerFor(t, admin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"platform admin must not pass the store-scope check")

	resp = request(t, app, "/platform", bearerFor(t, plain))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGuardMissingOrMalformedHeader(t *testing.T) {
	store := identity.NewMemoryStore()
	app := buildGuardApp(store)

	resp := request(t, app, "/store", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, "/store", "Token abc")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, "/store", "Bearer not.a.token")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGuardForeignSignatureRejected(t *testing.T) {
	store := identity.NewMemoryStore()
	storeAdmin := seedUser(t, store, "sa@x.com", models.RoleStoreAdmin, true)
	app := buildGuardApp(store)

	foreign, err := identity.GenerateToken("other-secret", storeAdmin, time.Hour)
	require.NoError(t, err)

	resp := request(t, app, "/store", "Bearer "+foreign)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGuardUnverifiedAccountForbidden(t *testing.T) {
	store := identity.NewMemoryStore()
	unverified := seedUser(t, store, "new@x.com", models.RoleStoreAdmin, false)
	app := buildGuardApp(store)

	// The token alone is not trusted for verification status.
	resp := request(t, app, "/store", bearerFor(t, unverified))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGuardMissingAccountNotFound(t *testing.T) {
	store := identity.NewMemoryStore()
	ghost := &models.User{Email: "ghost@x.com", Role: models.RoleStoreAdmin}
	app := buildGuardApp(store)

	resp := request(t, app, "/store", bearerFor(t, ghost))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuardCombinedFallback(t *testing.T) {
	store := identity.NewMemoryStore()
	storeAdmin := seedUser(t, store, "sa@x.com", models.RoleStoreAdmin, true)
	admin := seedUser(t, store, "admin@x.com", models.RoleAdmin, true)
	plain := seedUser(t, store, "user@x.com", models.RoleUser, true)
	app := buildGuardApp(store)

	// Either admin role passes the combined gate.
	resp := request(t, app, "/either", bearerFor(t, storeAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, app, "/either", bearerFor(t, admin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A standard user fails both policies and gets the combined 403.
	resp = request(t, app, "/either", bearerFor(t, plain))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Even an authentication failure surfaces as the combined 403 once
	// every policy has been exhausted.
	resp = request(t, app, "/either", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
