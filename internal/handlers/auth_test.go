package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bazaar/internal/handlers"
	"github.com/example/bazaar/internal/identity"
)

type captureSender struct {
	codes []string
}

func (s *captureSender) SendOTP(email, code string) error {
	s.codes = append(s.codes, code)
	return nil
}

func (s *captureSender) lastCode() string {
	if len(s.codes) == 0 {
		return ""
	}
	return s.codes[len(s.codes)-1]
}

func buildAuthApp(t *testing.T) (*fiber.App, *captureSender) {
	t.Helper()
	store := identity.NewMemoryStore()
	sender := &captureSender{}
	svc := identity.NewService(store, sender, "handler-test-secret", time.Hour, zerolog.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	h := handlers.NewAuthHandler(svc)
	users := app.Group("/api/users")
	users.Post("/register", h.Register)
	users.Post("/verify-otp", h.VerifyOTP)
	users.Post("/resend-otp", h.ResendOTP)
	users.Post("/login", h.Login)
	users.Post("/forgot-password", h.ForgotPassword)
	users.Post("/reset-password", h.ResetPassword)
	return app, sender
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	return resp, body
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	app, sender := buildAuthApp(t)

	resp, body := postJSON(t, app, "/api/users/register", fiber.Map{
		"name": "Ann", "email": "ann@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "OTP sent to email for verification", body["message"])
	code := sender.lastCode()
	require.Len(t, code, 6)

	// Wrong code first.
	resp, _ = postJSON(t, app, "/api/users/verify-otp", fiber.Map{
		"email": "ann@x.com", "otp": "000000",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, app, "/api/users/verify-otp", fiber.Map{
		"email": "ann@x.com", "otp": code,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Second verification of the same account conflicts.
	resp, _ = postJSON(t, app, "/api/users/verify-otp", fiber.Map{
		"email": "ann@x.com", "otp": code,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = postJSON(t, app, "/api/users/login", fiber.Map{
		"email": "ann@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ann@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	resp, _ = postJSON(t, app, "/api/users/login", fiber.Map{
		"email": "ann@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterStatusCodes(t *testing.T) {
	app, _ := buildAuthApp(t)

	resp, _ := postJSON(t, app, "/api/users/register", fiber.Map{"email": "ann@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing fields")

	resp, _ = postJSON(t, app, "/api/users/register", fiber.Map{
		"name": "Ann", "email": "ann@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = postJSON(t, app, "/api/users/register", fiber.Map{
		"name": "Ann", "email": "ann@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "duplicate email")
}

func TestResendOTPStatusCodes(t *testing.T) {
	app, sender := buildAuthApp(t)

	resp, _ := postJSON(t, app, "/api/users/resend-otp", fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing email")

	resp, _ = postJSON(t, app, "/api/users/resend-otp", fiber.Map{"email": "ghost@x.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, _ = postJSON(t, app, "/api/users/register", fiber.Map{
		"name": "Ann", "email": "ann@x.com", "password": "pw1",
	})
	first := sender.lastCode()

	resp, body := postJSON(t, app, "/api/users/resend-otp", fiber.Map{"email": "ann@x.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OTP resent to email", body["message"])

	// The first code is dead once the resent one is issued.
	if sender.lastCode() != first {
		resp, _ = postJSON(t, app, "/api/users/verify-otp", fiber.Map{
			"email": "ann@x.com", "otp": first,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	resp, _ = postJSON(t, app, "/api/users/verify-otp", fiber.Map{
		"email": "ann@x.com", "otp": sender.lastCode(),
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	app, sender := buildAuthApp(t)

	resp, _ := postJSON(t, app, "/api/users/forgot-password", fiber.Map{"email": "ghost@x.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, _ = postJSON(t, app, "/api/users/register", fiber.Map{
		"name": "Ann", "email": "ann@x.com", "password": "pw1",
	})

	resp, body := postJSON(t, app, "/api/users/forgot-password", fiber.Map{"email": "ann@x.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.Len(t, token, 64)
	code := sender.lastCode()

	resp, _ = postJSON(t, app, "/api/users/reset-password", fiber.Map{
		"token": token, "otp": "000000", "newPassword": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "wrong otp")

	resp, _ = postJSON(t, app, "/api/users/reset-password", fiber.Map{
		"token": "bogus", "otp": code, "newPassword": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown token")

	resp, body = postJSON(t, app, "/api/users/reset-password", fiber.Map{
		"token": token, "otp": code, "newPassword": "pw2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password reset successfully", body["message"])
}

func TestVerifyOTPUnknownEmail(t *testing.T) {
	app, _ := buildAuthApp(t)

	resp, _ := postJSON(t, app, "/api/users/verify-otp", fiber.Map{
		"email": "ghost@x.com", "otp": "123456",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
