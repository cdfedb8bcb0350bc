package handlers

import (
	"errors"

	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ViewHandler handles view navigation endpoints
type ViewHandler struct {
	authz *services.AuthzService
	views *services.ViewService
}

// NewViewHandler creates a new view handler
func NewViewHandler(authz *services.AuthzService, views *services.ViewService) *ViewHandler {
	return &ViewHandler{authz: authz, views: views}
}

// ViewState is the navigation state of a session. State is always viewing
// here: requests that reach these handlers carry a resolved identity, and
// the earlier lifecycle states answer with a 401 instead.
type ViewState struct {
	State        domain.SessionState `json:"state"`
	AllowedViews []domain.View       `json:"allowedViews"`
	CurrentView  domain.View         `json:"currentView"`
	DefaultView  domain.View         `json:"defaultView"`
}

// GetViews returns the session's navigation state
// @Summary Navigation state
// @Description Allowed views, current view and landing view for the session
// @Tags Views
// @Produce json
// @Security SessionAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /views [get]
func (h *ViewHandler) GetViews(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	sessionID := middleware.SessionID(c)

	return response.Success(c, "", ViewState{
		State:        domain.StateViewing,
		AllowedViews: h.authz.AllowedViews(identity.Role),
		CurrentView:  h.views.Current(identity, sessionID),
		DefaultView:  h.authz.DefaultView(identity.Role),
	})
}

// NavigateRequest names the view to move to
type NavigateRequest struct {
	View domain.View `json:"view"`
}

// Navigate moves the session to another view
// @Summary Navigate
// @Description Move the session to the named view, if the role allows it
// @Tags Views
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body NavigateRequest true "Target view"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /views/navigate [post]
func (h *ViewHandler) Navigate(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	sessionID := middleware.SessionID(c)

	req := NavigateRequest{}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	view, err := h.views.Navigate(identity, sessionID, req.View)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownView) {
			return response.BadRequest(c, "Unknown view")
		}
		if errors.Is(err, domain.ErrViewNotAuthorized) {
			return response.Forbidden(c, "You are not authorized to access this view")
		}
		return response.InternalServerError(c, "Navigation failed")
	}

	return response.Success(c, "", ViewState{
		State:        domain.StateViewing,
		AllowedViews: h.authz.AllowedViews(identity.Role),
		CurrentView:  view,
		DefaultView:  h.authz.DefaultView(identity.Role),
	})
}
