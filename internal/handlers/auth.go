package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/bazaar/internal/identity"
)

// AuthHandler exposes the identity lifecycle over HTTP. Every failure
// comes back as *identity.Error and is mapped by the app error handler.
type AuthHandler struct {
	svc *identity.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *identity.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an unverified account and emails a verification code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.Register(req.Name, req.Email, req.Password); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "OTP sent to email for verification",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP activates an account with a pending verification code.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.VerifyOTP(req.Email, req.OTP); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "OTP verified successfully, user activated",
	})
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

// ResendOTP reissues a verification code.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req resendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.ResendOTP(req.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "OTP resent to email"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword starts a reset cycle and returns the reset token.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	token, err := h.svc.ForgotPassword(req.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Password reset token sent",
		"token":   token,
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword completes a reset cycle with the token and OTP.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.ResetPassword(req.Token, req.OTP, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
