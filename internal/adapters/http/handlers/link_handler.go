package handlers

import (
	"errors"

	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LinkHandler handles tracking-link generation
type LinkHandler struct {
	links *services.LinkService
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(links *services.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

// GenerateLink composes a tracking link
// @Summary Generate tracking link
// @Description Mint a tracking link for an influencer-campaign pair.
// @Description Influencer sessions always link for themselves.
// @Tags Links
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body services.LinkRequest true "Link request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /links/generate [post]
func (h *LinkHandler) GenerateLink(c *fiber.Ctx) error {
	req := services.LinkRequest{}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	link, err := h.links.Compose(c.Context(), middleware.Token(c), middleware.Identity(c), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCampaignRequired):
			return response.BadRequest(c, "Please select a campaign")
		case errors.Is(err, domain.ErrInfluencerRequired):
			return response.BadRequest(c, "Please select an influencer")
		case errors.Is(err, domain.ErrLinkUnavailable):
			return response.BadGateway(c, "Link generation did not return a link")
		default:
			return upstreamError(c, err, "Failed to generate link")
		}
	}
	return response.Success(c, "Tracking link ready", link)
}
