package handlers

import (
	"errors"
	"strconv"

	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/pkg/pagination"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles company and influencer management
type AdminHandler struct {
	client *upstream.Client
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(client *upstream.Client) *AdminHandler {
	return &AdminHandler{client: client}
}

// CompanyList is a page of companies
type CompanyList struct {
	Companies []domain.Company `json:"companies"`
	Meta      *pagination.Meta `json:"meta"`
}

// GetCompanies lists companies
// @Summary List companies
// @Description Companies matching the optional filters
// @Tags Admin
// @Produce json
// @Security SessionAuth
// @Param name query string false "Name filter"
// @Param email query string false "Email filter"
// @Param telefon query string false "Phone filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/companies [get]
func (h *AdminHandler) GetCompanies(c *fiber.Ctx) error {
	companies, err := h.client.ListCompanies(c.Context(), middleware.Token(c), upstream.CompanyListFilter{
		Name:    c.Query("name"),
		Email:   c.Query("email"),
		Telefon: c.Query("telefon"),
	})
	if err != nil {
		return response.BadGateway(c, "Failed to load companies")
	}

	page, meta := pagination.Page(companies, pagination.GetParams(c))
	return response.Success(c, "", CompanyList{Companies: page, Meta: meta})
}

// CreateCompany creates a company with its first login user
// @Summary Create company
// @Description Create a company record and its initial panel user
// @Tags Admin
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body upstream.CompanyInput true "Company payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/companies [post]
func (h *AdminHandler) CreateCompany(c *fiber.Ctx) error {
	input := upstream.CompanyInput{}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Username == "" || input.Password == "" {
		return response.BadRequest(c, "Name, username and password are required")
	}

	company, err := h.client.CreateCompany(c.Context(), middleware.Token(c), input)
	if err != nil {
		return upstreamError(c, err, "Failed to create company")
	}
	return response.Created(c, "Company created", company)
}

// GetCompany returns one company
// @Summary Company detail
// @Tags Admin
// @Produce json
// @Security SessionAuth
// @Param id path int true "Company id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/companies/{id} [get]
func (h *AdminHandler) GetCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid company id")
	}

	company, err := h.client.CompanyByID(c.Context(), middleware.Token(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Company not found")
		}
		return response.BadGateway(c, "Failed to load company")
	}
	return response.Success(c, "", company)
}

// UpdateCompany updates a company
// @Summary Update company
// @Tags Admin
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path int true "Company id"
// @Param request body upstream.CompanyUpdate true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/companies/{id} [put]
func (h *AdminHandler) UpdateCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid company id")
	}

	update := upstream.CompanyUpdate{}
	if err := c.BodyParser(&update); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	company, err := h.client.UpdateCompany(c.Context(), middleware.Token(c), id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Company not found")
		}
		return upstreamError(c, err, "Failed to update company")
	}
	return response.Success(c, "Company updated", company)
}

// CompanyUserRequest creates an extra login for a company
type CompanyUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddCompanyUser creates an additional login user for a company
// @Summary Add company user
// @Tags Admin
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path int true "Company id"
// @Param request body CompanyUserRequest true "User payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/companies/{id}/users [post]
func (h *AdminHandler) AddCompanyUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid company id")
	}

	req := CompanyUserRequest{}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	if err := h.client.AddCompanyUser(c.Context(), middleware.Token(c), id, req.Username, req.Password); err != nil {
		return upstreamError(c, err, "Failed to add company user")
	}
	return response.Created(c, "User added", nil)
}

// InfluencerList is a page of influencers
type InfluencerList struct {
	Influencers []domain.Influencer `json:"influencers"`
	Meta        *pagination.Meta    `json:"meta"`
}

// GetInfluencers lists influencers
// @Summary List influencers
// @Tags Admin
// @Produce json
// @Security SessionAuth
// @Param name query string false "Username filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/influencers [get]
func (h *AdminHandler) GetInfluencers(c *fiber.Ctx) error {
	influencers, err := h.client.ListInfluencers(c.Context(), middleware.Token(c), c.Query("name"))
	if err != nil {
		return response.BadGateway(c, "Failed to load influencers")
	}

	page, meta := pagination.Page(influencers, pagination.GetParams(c))
	return response.Success(c, "", InfluencerList{Influencers: page, Meta: meta})
}

// CreateInfluencer creates an influencer
// @Summary Add influencer
// @Tags Admin
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body upstream.InfluencerInput true "Influencer payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/influencers [post]
func (h *AdminHandler) CreateInfluencer(c *fiber.Ctx) error {
	input := upstream.InfluencerInput{}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Username == "" || input.DisplayName == "" || input.Email == "" {
		return response.BadRequest(c, "Username, display name and email are required")
	}

	influencer, err := h.client.AddInfluencer(c.Context(), middleware.Token(c), input)
	if err != nil {
		return upstreamError(c, err, "Failed to add influencer")
	}
	return response.Created(c, "Influencer added", influencer)
}

// GetInfluencer returns one influencer
// @Summary Influencer detail
// @Tags Admin
// @Produce json
// @Security SessionAuth
// @Param id path int true "Influencer id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/influencers/{id} [get]
func (h *AdminHandler) GetInfluencer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid influencer id")
	}

	influencer, err := h.client.InfluencerByID(c.Context(), middleware.Token(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Influencer not found")
		}
		return response.BadGateway(c, "Failed to load influencer")
	}
	return response.Success(c, "", influencer)
}

// UpdateInfluencer updates an influencer, optionally minting a reset link
// @Summary Update influencer
// @Tags Admin
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path int true "Influencer id"
// @Param request body upstream.InfluencerUpdate true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/influencers/{id} [put]
func (h *AdminHandler) UpdateInfluencer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid influencer id")
	}

	update := upstream.InfluencerUpdate{}
	if err := c.BodyParser(&update); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	influencer, err := h.client.UpdateInfluencer(c.Context(), middleware.Token(c), id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Influencer not found")
		}
		return upstreamError(c, err, "Failed to update influencer")
	}
	return response.Success(c, "Influencer updated", influencer)
}

// CreateCampaign creates a campaign
// @Summary Add campaign
// @Tags Admin
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body upstream.CampaignInput true "Campaign payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/campaigns [post]
func (h *AdminHandler) CreateCampaign(c *fiber.Ctx) error {
	input := upstream.CampaignInput{}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.EndDate == "" {
		return response.BadRequest(c, "Name and end date are required")
	}

	if err := h.client.AddCampaign(c.Context(), middleware.Token(c), input); err != nil {
		return upstreamError(c, err, "Failed to add campaign")
	}
	return response.Created(c, "Campaign created", nil)
}

// SyncNetworkCampaigns pulls campaigns from the partner network and imports
// them for a company. The network fetch runs under the service account; the
// import is attributed to the signed-in admin.
// @Summary Sync network campaigns
// @Tags Admin
// @Produce json
// @Security SessionAuth
// @Param company_id query int true "Target company"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /admin/network/sync [post]
func (h *AdminHandler) SyncNetworkCampaigns(c *fiber.Ctx) error {
	companyID, _ := strconv.Atoi(c.Query("company_id"))
	if companyID < 1 {
		return response.BadRequest(c, "company_id is required")
	}

	serviceToken, err := h.client.ServiceToken(c.Context())
	if err != nil {
		return response.BadGateway(c, "Partner network is unavailable")
	}

	campaigns, err := h.client.NetworkCampaigns(c.Context(), serviceToken, upstream.CampaignFilter{})
	if err != nil {
		return response.BadGateway(c, "Failed to fetch network campaigns")
	}

	if err := h.client.ImportNetworkCampaigns(c.Context(), middleware.Token(c), companyID, campaigns); err != nil {
		return upstreamError(c, err, "Failed to import network campaigns")
	}
	return response.Success(c, "Campaigns imported", fiber.Map{"imported": len(campaigns)})
}
