package handlers

import (
	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/pkg/pagination"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CampaignHandler handles campaign listing
type CampaignHandler struct {
	client *upstream.Client
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(client *upstream.Client) *CampaignHandler {
	return &CampaignHandler{client: client}
}

// CampaignList is a page of campaigns
type CampaignList struct {
	Campaigns []domain.Campaign `json:"campaigns"`
	Meta      *pagination.Meta  `json:"meta"`
}

// GetCampaigns lists campaigns visible to the session
// @Summary List campaigns
// @Description Campaigns the signed-in role may see, with optional filters
// @Tags Campaigns
// @Produce json
// @Security SessionAuth
// @Param name query string false "Name filter"
// @Param startDate query string false "Earliest end date, ISO date"
// @Param endDate query string false "Latest end date, ISO date"
// @Param company_id query int false "Company filter (admin only)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /campaigns [get]
func (h *CampaignHandler) GetCampaigns(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	filter := upstream.CampaignFilter{
		Name:      c.Query("name"),
		CompanyID: companyScope(c),
	}
	if d, ok := domain.ParseDay(c.Query("startDate")); ok {
		filter.StartDate = d
	}
	if d, ok := domain.ParseDay(c.Query("endDate")); ok {
		filter.EndDate = d
	}

	var campaigns []domain.Campaign
	var err error
	if identity.Role == domain.RoleInfluencer {
		// influencers are not admitted to the panel-scoped listing
		campaigns, err = h.client.NetworkCampaigns(c.Context(), middleware.Token(c), filter)
	} else {
		campaigns, err = h.client.Campaigns(c.Context(), middleware.Token(c), filter)
	}
	if err != nil {
		return upstreamError(c, err, "Failed to load campaigns")
	}

	page, meta := pagination.Page(campaigns, pagination.GetParams(c))
	return response.Success(c, "", CampaignList{Campaigns: page, Meta: meta})
}
