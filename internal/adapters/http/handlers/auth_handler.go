package handlers

import (
	"errors"
	"time"

	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/config"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles session sign-in and password flows
type AuthHandler struct {
	client   *upstream.Client
	sessions *services.SessionService
	authz    *services.AuthzService
	views    *services.ViewService
	cfg      *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *upstream.Client, sessions *services.SessionService, authz *services.AuthzService, views *services.ViewService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		client:   client,
		sessions: sessions,
		authz:    authz,
		views:    views,
		cfg:      cfg,
	}
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionPayload is what the panel needs to boot after sign-in
type SessionPayload struct {
	User         *domain.Identity `json:"user"`
	AllowedViews []domain.View    `json:"allowedViews"`
	CurrentView  domain.View      `json:"currentView"`
	SessionID    string           `json:"sessionID"`
}

// Login authenticates against the affiliate backend and opens a session
// @Summary Sign in
// @Description Exchange username and password for a panel session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req := LoginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	cred, err := h.client.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialRejected) {
			return response.Unauthorized(c, "Invalid username or password")
		}
		return response.BadGateway(c, "Sign-in is temporarily unavailable")
	}

	// Reuse the browser's session id when it already has one, so a second
	// sign-in replaces the credential instead of orphaning it.
	sessionID := middleware.ExtractSessionID(c)
	if sessionID == "" {
		sessionID = h.sessions.NewSessionID()
	}

	if err := h.sessions.SetCredential(c.Context(), sessionID, cred.AccessToken); err != nil {
		return response.InternalServerError(c, "Failed to open session")
	}

	identity, err := h.sessions.Identity(c.Context(), sessionID)
	if err != nil {
		return response.BadGateway(c, "Signed in but the account could not be loaded")
	}

	h.setSessionCookie(c, sessionID)
	return response.Success(c, "Signed in successfully", SessionPayload{
		User:         identity,
		AllowedViews: h.authz.AllowedViews(identity.Role),
		CurrentView:  h.views.Current(identity, sessionID),
		SessionID:    sessionID,
	})
}

// Logout closes the session
// @Summary Sign out
// @Description Drop the session's credential and clear the cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sessionID := middleware.ExtractSessionID(c); sessionID != "" {
		if err := h.sessions.ClearCredential(c.Context(), sessionID); err != nil {
			return response.InternalServerError(c, "Failed to close session")
		}
	}
	h.clearSessionCookie(c)
	return response.Success(c, "Signed out", nil)
}

// Me returns the signed-in identity
// @Summary Current session
// @Description Identity, allowed views and current view of the session
// @Tags Auth
// @Produce json
// @Security SessionAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	sessionID := middleware.SessionID(c)

	return response.Success(c, "", SessionPayload{
		User:         identity,
		AllowedViews: h.authz.AllowedViews(identity.Role),
		CurrentView:  h.views.Current(identity, sessionID),
		SessionID:    sessionID,
	})
}

// ForgotPasswordRequest asks for a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword requests a password reset email
// @Summary Forgot password
// @Description Send a password reset link to the given email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	req := ForgotPasswordRequest{}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	detail, err := h.client.ForgotPassword(c.Context(), req.Email)
	if err != nil {
		return response.BadGateway(c, "Password reset is temporarily unavailable")
	}
	return response.Success(c, detail, nil)
}

// ResetPasswordRequest completes a reset with the emailed token
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword completes a password reset
// @Summary Reset password
// @Description Set a new password using the token from the reset email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset payload"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	req := ResetPasswordRequest{}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Token == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Token and new password are required")
	}
	if req.NewPassword != req.ConfirmPassword {
		return response.BadRequest(c, "Passwords do not match")
	}

	if err := h.client.ResetPassword(c.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return response.BadRequest(c, apiErr.Message)
		}
		return response.BadGateway(c, "Password reset is temporarily unavailable")
	}
	return response.Success(c, "Password updated", nil)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(h.cfg.Session.TTL),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Path:     "/",
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Path:     "/",
	})
}
