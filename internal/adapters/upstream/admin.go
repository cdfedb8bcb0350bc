package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"qube-panel/internal/core/domain"
)

// CompanyInput creates a company together with its first login user
type CompanyInput struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Adres         string `json:"adres,omitempty"`
	Telefon       string `json:"telefon,omitempty"`
	Gsm           string `json:"gsm,omitempty"`
	Faks          string `json:"faks,omitempty"`
	VergiDairesi  string `json:"vergi_dairesi,omitempty"`
	VergiNumarasi string `json:"vergi_numarasi,omitempty"`
	Email         string `json:"email,omitempty"`
	YetkiliAdi    string `json:"yetkili_adi,omitempty"`
	YetkiliSoyadi string `json:"yetkili_soyadi,omitempty"`
	YetkiliGsm    string `json:"yetkili_gsm,omitempty"`
}

// CompanyUpdate carries the editable company fields
type CompanyUpdate struct {
	Name          *string `json:"name,omitempty"`
	Adres         *string `json:"adres,omitempty"`
	Telefon       *string `json:"telefon,omitempty"`
	Gsm           *string `json:"gsm,omitempty"`
	Faks          *string `json:"faks,omitempty"`
	VergiDairesi  *string `json:"vergi_dairesi,omitempty"`
	VergiNumarasi *string `json:"vergi_numarasi,omitempty"`
	Email         *string `json:"email,omitempty"`
	YetkiliAdi    *string `json:"yetkili_adi,omitempty"`
	YetkiliSoyadi *string `json:"yetkili_soyadi,omitempty"`
	YetkiliGsm    *string `json:"yetkili_gsm,omitempty"`
}

// InfluencerInput creates an influencer record
type InfluencerInput struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Active       bool   `json:"active"`
}

// InfluencerUpdate carries the editable influencer fields. ResetPassword
// asks the backend to mint a password-reset link for the influencer's user.
type InfluencerUpdate struct {
	DisplayName   *string `json:"display_name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	ProfileImage  *string `json:"profile_image,omitempty"`
	Active        *bool   `json:"active,omitempty"`
	ResetPassword bool    `json:"resetPassword,omitempty"`
}

// UpdatedInfluencer is the influencer record after an update, with the reset
// link when one was requested.
type UpdatedInfluencer struct {
	domain.Influencer
	ResetURL string `json:"resetUrl,omitempty"`
}

// CampaignInput creates a campaign for a company
type CampaignInput struct {
	Name                     string  `json:"name"`
	Brief                    string  `json:"brief,omitempty"`
	BrandCommissionRate      float64 `json:"brandCommissionRate"`
	InfluencerCommissionRate float64 `json:"influencerCommissionRate"`
	OtherCostsRate           float64 `json:"otherCostsRate"`
	EndDate                  string  `json:"endDate"`
	BrandingImage            string  `json:"brandingImage,omitempty"`
	CompanyID                int     `json:"company_id,omitempty"`
}

// CompanyListFilter narrows the company listing
type CompanyListFilter struct {
	Name    string
	Email   string
	Telefon string
}

// CreateCompany creates a company plus its login user. The endpoint answers
// with the bare company record.
func (c *Client) CreateCompany(ctx context.Context, bearerToken string, input CompanyInput) (*domain.Company, error) {
	company := domain.Company{}
	err := c.do(ctx, http.MethodPost, "/admin/create_company", nil, bearerToken, input, &company)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &company, nil
}

// ListCompanies lists companies matching the filter.
func (c *Client) ListCompanies(ctx context.Context, bearerToken string, filter CompanyListFilter) ([]domain.Company, error) {
	q := url.Values{}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Email != "" {
		q.Set("email", filter.Email)
	}
	if filter.Telefon != "" {
		q.Set("telefon", filter.Telefon)
	}

	companies := []domain.Company{}
	err := c.doEnvelope(ctx, http.MethodGet, "/admin/list_companies", q, bearerToken, nil, &companies)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// CompanyByID fetches one company. Bare payload.
func (c *Client) CompanyByID(ctx context.Context, bearerToken string, companyID int) (*domain.Company, error) {
	company := domain.Company{}
	err := c.do(ctx, http.MethodGet, "/admin/companies/"+strconv.Itoa(companyID), nil, bearerToken, nil, &company)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	return &company, nil
}

// UpdateCompany updates a company and returns the new record.
func (c *Client) UpdateCompany(ctx context.Context, bearerToken string, companyID int, update CompanyUpdate) (*domain.Company, error) {
	company := domain.Company{}
	err := c.doEnvelope(ctx, http.MethodPut, "/admin/companies/"+strconv.Itoa(companyID), nil, bearerToken, update, &company)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return &company, nil
}

// AddCompanyUser creates an extra login user for an existing company.
func (c *Client) AddCompanyUser(ctx context.Context, bearerToken string, companyID int, username, password string) error {
	q := url.Values{}
	q.Set("company_id", strconv.Itoa(companyID))

	body := map[string]string{
		"username": username,
		"password": password,
	}
	if err := c.doEnvelope(ctx, http.MethodPost, "/admin/add-company-user", q, bearerToken, body, nil); err != nil {
		return fmt.Errorf("failed to add company user: %w", err)
	}
	return nil
}

// AddInfluencer creates an influencer record and its login user.
func (c *Client) AddInfluencer(ctx context.Context, bearerToken string, input InfluencerInput) (*domain.Influencer, error) {
	influencer := domain.Influencer{}
	err := c.doEnvelope(ctx, http.MethodPost, "/admin/add-influencer", nil, bearerToken, input, &influencer)
	if err != nil {
		return nil, fmt.Errorf("failed to add influencer: %w", err)
	}
	return &influencer, nil
}

// ListInfluencers lists influencers, optionally filtered by username.
func (c *Client) ListInfluencers(ctx context.Context, bearerToken, name string) ([]domain.Influencer, error) {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}

	influencers := []domain.Influencer{}
	err := c.doEnvelope(ctx, http.MethodGet, "/admin/list_influencers", q, bearerToken, nil, &influencers)
	if err != nil {
		return nil, fmt.Errorf("failed to list influencers: %w", err)
	}
	return influencers, nil
}

// InfluencerByID fetches one influencer record.
func (c *Client) InfluencerByID(ctx context.Context, bearerToken string, influencerID int) (*domain.Influencer, error) {
	influencer := domain.Influencer{}
	err := c.doEnvelope(ctx, http.MethodGet, "/admin/influencers/"+strconv.Itoa(influencerID), nil, bearerToken, nil, &influencer)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch influencer: %w", err)
	}
	return &influencer, nil
}

// UpdateInfluencer updates an influencer record.
func (c *Client) UpdateInfluencer(ctx context.Context, bearerToken string, influencerID int, update InfluencerUpdate) (*UpdatedInfluencer, error) {
	influencer := UpdatedInfluencer{}
	err := c.doEnvelope(ctx, http.MethodPut, "/admin/influencers/"+strconv.Itoa(influencerID), nil, bearerToken, update, &influencer)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update influencer: %w", err)
	}
	return &influencer, nil
}

// AddCampaign creates a campaign.
func (c *Client) AddCampaign(ctx context.Context, bearerToken string, input CampaignInput) error {
	if err := c.doEnvelope(ctx, http.MethodPost, "/admin/add-campaign", nil, bearerToken, input, nil); err != nil {
		return fmt.Errorf("failed to add campaign: %w", err)
	}
	return nil
}

// ImportNetworkCampaigns pushes a batch of partner-network campaigns into the
// backend for the given company.
func (c *Client) ImportNetworkCampaigns(ctx context.Context, bearerToken string, companyID int, campaigns []domain.Campaign) error {
	body := map[string]any{"data": campaigns}
	if err := c.doEnvelope(ctx, http.MethodPost, "/admin/import_mlink_campaigns", companyQuery(companyID), bearerToken, body, nil); err != nil {
		return fmt.Errorf("failed to import network campaigns: %w", err)
	}
	return nil
}
