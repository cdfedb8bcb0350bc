package handlers

import (
	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the settings view
type ProfileHandler struct {
	client *upstream.Client
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(client *upstream.Client) *ProfileHandler {
	return &ProfileHandler{client: client}
}

// Profile is the settings view model
type Profile struct {
	ID          int                       `json:"id"`
	Username    string                    `json:"username"`
	DisplayName string                    `json:"displayName"`
	Role        domain.Role               `json:"role"`
	Company     *domain.CompanyProfile    `json:"company,omitempty"`
	Influencer  *domain.InfluencerProfile `json:"influencer,omitempty"`
}

// GetProfile returns the signed-in user's profile
// @Summary Profile
// @Description Account details shown on the settings view
// @Tags Profile
// @Produce json
// @Security SessionAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	return response.Success(c, "", Profile{
		ID:          identity.ID,
		Username:    identity.Username,
		DisplayName: identity.DisplayName(),
		Role:        identity.Role,
		Company:     identity.Company,
		Influencer:  identity.Influencer,
	})
}

// UpdateProfileRequest is the settings form payload
type UpdateProfileRequest struct {
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateProfile saves the signed-in user's own profile
// @Summary Update profile
// @Description Saves display name, email and phone, and optionally a new password
// @Tags Profile
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [post]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	req := UpdateProfileRequest{}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Password != "" && req.Password != req.ConfirmPassword {
		return response.BadRequest(c, "Passwords do not match")
	}

	update := upstream.ProfileUpdate{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
	}
	if err := h.client.UpdateProfile(c.Context(), middleware.Token(c), update); err != nil {
		return upstreamError(c, err, "Failed to update profile")
	}
	return response.Success(c, "Profile updated successfully", nil)
}
