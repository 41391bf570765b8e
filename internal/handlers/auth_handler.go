package handlers

import (
	"log"

	"catalog/internal/middleware"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes. Logout and the account changes require a
// valid token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/signup/confirm", h.HandleConfirmSignup)
	authRoutes.Post("/signin", h.HandleSignin)
	authRoutes.Post("/password-reset", h.HandleRequestPasswordReset)
	authRoutes.Post("/password-reset/confirm", h.HandleConfirmPasswordReset)

	requireAuth := middleware.AuthRequired(h.authService)
	authRoutes.Post("/logout", requireAuth, h.HandleLogout)
	authRoutes.Post("/change-password", requireAuth, h.HandleChangePassword)
	authRoutes.Post("/change-email", requireAuth, h.HandleChangeEmail)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ConfirmOTPRequest carries a one-time code sent to an email.
type ConfirmOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,numeric"`
}

// SigninRequest represents the request body for signin.
type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest starts a password reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmPasswordResetRequest finishes a password reset.
type ConfirmPasswordResetRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required,numeric"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ChangePasswordRequest changes the password of the signed-in user.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ChangeEmailRequest changes the email of the signed-in user.
type ChangeEmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleSignup registers an account and sends a confirmation code.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid signup request", err)
	}

	user, err := h.authService.Signup(c.UserContext(), services.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully. A confirmation code has been sent.",
		"user":    user,
	})
}

// HandleConfirmSignup activates an account.
func (h *AuthHandler) HandleConfirmSignup(c *fiber.Ctx) error {
	var req ConfirmOTPRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid confirmation request", err)
	}

	if err := h.authService.ConfirmSignup(c.UserContext(), req.Email, req.Code); err != nil {
		return respondError(c, "Confirmation failed", err)
	}
	return c.JSON(fiber.Map{"message": "Account confirmed"})
}

// HandleSignin authenticates a user and issues a JWT token.
func (h *AuthHandler) HandleSignin(c *fiber.Ctx) error {
	var req SigninRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid signin request", err)
	}

	token, err := h.authService.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Printf("Error during signin for %s: %v", req.Email, err)
		return respondError(c, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleLogout revokes the caller's session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.SessionID(c)); err != nil {
		return respondError(c, "Logout failed", err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleRequestPasswordReset sends a reset code. The response does not reveal whether the email
// is registered.
func (h *AuthHandler) HandleRequestPasswordReset(c *fiber.Ctx) error {
	var req PasswordResetRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid password reset request", err)
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return respondError(c, "Password reset failed", err)
	}
	return c.JSON(fiber.Map{"message": "If the account exists, a reset code has been sent."})
}

// HandleConfirmPasswordReset sets a new password with a reset code.
func (h *AuthHandler) HandleConfirmPasswordReset(c *fiber.Ctx) error {
	var req ConfirmPasswordResetRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid password reset request", err)
	}

	err := h.authService.ConfirmPasswordReset(c.UserContext(), services.PasswordResetInput{
		Email:           req.Email,
		Code:            req.Code,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondError(c, "Password reset failed", err)
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}

// HandleChangePassword changes the caller's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid change password request", err)
	}

	err := h.authService.ChangePassword(c.UserContext(), middleware.UserID(c), services.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondError(c, "Could not change password", err)
	}
	return c.JSON(fiber.Map{"message": "Password changed"})
}

// HandleChangeEmail changes the caller's email.
func (h *AuthHandler) HandleChangeEmail(c *fiber.Ctx) error {
	var req ChangeEmailRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, "Invalid change email request", err)
	}

	user, err := h.authService.ChangeEmail(c.UserContext(), middleware.UserID(c), req.Email, req.Password)
	if err != nil {
		return respondError(c, "Could not change email", err)
	}
	return c.JSON(fiber.Map{
		"message": "Email changed",
		"user":    user,
	})
}
