package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"qube-panel/internal/core/domain"
)

// Login exchanges username and password for an upstream credential.
// Bad credentials surface as domain.ErrCredentialRejected.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Credential, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	cred := domain.Credential{}
	err := c.doEnvelope(ctx, http.MethodPost, "/login", nil, "", body, &cred)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, domain.ErrCredentialRejected
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if cred.AccessToken == "" {
		return nil, fmt.Errorf("login succeeded but no token was issued")
	}
	return &cred, nil
}

// userOut is the user half of the /users/me payload
type userOut struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CompanyID *int   `json:"company_id"`
}

// ResolveIdentity fetches the identity behind a bearer token. The endpoint
// returns the payload bare, and the info half changes shape with the role:
// the literal string "admin", a company record, or an influencer record.
func (c *Client) ResolveIdentity(ctx context.Context, bearerToken string) (*domain.Identity, error) {
	payload := struct {
		User userOut         `json:"user"`
		Info json.RawMessage `json:"info"`
	}{}

	err := c.do(ctx, http.MethodGet, "/users/me", nil, bearerToken, nil, &payload)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, domain.ErrCredentialRejected
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	role := domain.Role(payload.User.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("upstream returned unknown role %q", payload.User.Role)
	}

	identity := &domain.Identity{
		ID:       payload.User.ID,
		Username: payload.User.Username,
		Role:     role,
	}

	switch role {
	case domain.RoleCompany:
		if len(payload.Info) > 0 && string(payload.Info) != "null" {
			profile := domain.CompanyProfile{}
			if err := json.Unmarshal(payload.Info, &profile); err != nil {
				return nil, fmt.Errorf("failed to decode company profile: %w", err)
			}
			identity.Company = &profile
		}
	case domain.RoleInfluencer:
		if len(payload.Info) > 0 && string(payload.Info) != "null" {
			profile := domain.InfluencerProfile{}
			if err := json.Unmarshal(payload.Info, &profile); err != nil {
				return nil, fmt.Errorf("failed to decode influencer profile: %w", err)
			}
			identity.Influencer = &profile
		}
	}
	return identity, nil
}

// ProfileUpdate carries the fields a user can change on the settings view.
// Password is transmitted only when set.
type ProfileUpdate struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password,omitempty"`
}

// UpdateProfile saves the signed-in user's own profile.
func (c *Client) UpdateProfile(ctx context.Context, bearerToken string, update ProfileUpdate) error {
	err := c.doEnvelope(ctx, http.MethodPost, "/users/update-profile", nil, bearerToken, update, nil)
	if err != nil {
		if IsUnauthorized(err) {
			return domain.ErrCredentialRejected
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ForgotPassword asks the backend to send a reset link. The backend answers
// the same way whether or not the email exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	payload := struct {
		Detail string `json:"detail"`
	}{}

	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/forgot-password", nil, "", body, &payload); err != nil {
		return "", fmt.Errorf("forgot-password request failed: %w", err)
	}
	return payload.Detail, nil
}

// ResetPassword completes a password reset using the emailed token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword, confirmPassword string) error {
	body := map[string]string{
		"token":            resetToken,
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	}
	if err := c.do(ctx, http.MethodPost, "/reset-password", nil, "", body, nil); err != nil {
		return fmt.Errorf("reset-password request failed: %w", err)
	}
	return nil
}
