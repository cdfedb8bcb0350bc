package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"qube-panel/internal/core/domain"
)

// wireDateFormat is the DD.MM.YYYY format the affiliate endpoints expect in
// query parameters. The backend rejects anything else with a type=1 envelope.
const wireDateFormat = "02.01.2006"

// CampaignFilter narrows a campaign listing
type CampaignFilter struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CompanyID int
}

func (f CampaignFilter) query() url.Values {
	q := url.Values{}
	if f.Name != "" {
		q.Set("Name", f.Name)
	}
	if !f.StartDate.IsZero() {
		q.Set("StartDate", f.StartDate.Format(wireDateFormat))
	}
	if !f.EndDate.IsZero() {
		q.Set("EndDate", f.EndDate.Format(wireDateFormat))
	}
	if f.CompanyID > 0 {
		q.Set("company_id", strconv.Itoa(f.CompanyID))
	}
	return q
}

// Campaigns lists the campaigns the credential may see.
func (c *Client) Campaigns(ctx context.Context, bearerToken string, filter CampaignFilter) ([]domain.Campaign, error) {
	campaigns := []domain.Campaign{}
	err := c.doEnvelope(ctx, http.MethodGet, "/Affiliate/GetCampaigns", filter.query(), bearerToken, nil, &campaigns)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	return campaigns, nil
}

// ReportFilter narrows a report query. InfluencerID is a string on the wire:
// numeric ids address panel records, anything else is treated as a partner
// network id.
type ReportFilter struct {
	InfluencerID string
	StartDate    time.Time
	EndDate      time.Time
	CompanyID    int
}

func (f ReportFilter) query() url.Values {
	q := url.Values{}
	if f.InfluencerID != "" {
		q.Set("InfluencerID", f.InfluencerID)
	}
	if !f.StartDate.IsZero() {
		q.Set("StartDate", f.StartDate.Format(wireDateFormat))
	}
	if !f.EndDate.IsZero() {
		q.Set("EndDate", f.EndDate.Format(wireDateFormat))
	}
	if f.CompanyID > 0 {
		q.Set("company_id", strconv.Itoa(f.CompanyID))
	}
	return q
}

// ReportSet is a report listing together with the aggregates the backend
// computes server-side for influencer views.
type ReportSet struct {
	Rows                      []domain.ReportRow
	ActiveInfluencers         int
	TotalInfluencerCommission float64
}

// reportOut is a report row as the backend serializes it. Older rows use
// snake_case influencer ids, newer ones camelCase; both are honored.
type reportOut struct {
	ID                int           `json:"id"`
	InfluencerIDSnake int           `json:"influencer_id"`
	InfluencerIDCamel int           `json:"influencerID"`
	InfluencerName    string        `json:"influencerName"`
	CampaignID        int           `json:"campaignId"`
	CampaignName      string        `json:"campaignName"`
	TotalClicks       domain.Amount `json:"totalClicks"`
	TotalSales        domain.Amount `json:"totalSales"`
	CreatedAt         string        `json:"createdAt"`
	EndDate           string        `json:"endDate"`

	BrandCommissionRate        domain.Amount `json:"brandCommissionRate"`
	BrandCommissionAmount      domain.Amount `json:"brandCommissionAmount"`
	InfluencerCommissionRate   domain.Amount `json:"influencerCommissionRate"`
	InfluencerCommissionAmount domain.Amount `json:"influencerCommissionAmount"`
	OtherCostsRate             domain.Amount `json:"otherCostsRate"`
	MimedaCommissionRate       domain.Amount `json:"mimedaCommissionRate"`
	MimedaCommissionAmount     domain.Amount `json:"mimedaCommissionAmount"`
	AgencyCommissionRate       domain.Amount `json:"agencyCommissionRate"`
	AgencyCommissionAmount     domain.Amount `json:"agencyCommissionAmount"`
}

func (r reportOut) toDomain() domain.ReportRow {
	influencerID := r.InfluencerIDSnake
	if influencerID == 0 {
		influencerID = r.InfluencerIDCamel
	}
	return domain.ReportRow{
		InfluencerID:               influencerID,
		InfluencerName:             r.InfluencerName,
		CampaignID:                 r.CampaignID,
		Name:                       r.CampaignName,
		TotalClicks:                r.TotalClicks,
		TotalSales:                 r.TotalSales,
		CreatedAt:                  r.CreatedAt,
		EndDate:                    r.EndDate,
		BrandCommissionRate:        r.BrandCommissionRate,
		BrandCommissionAmount:      r.BrandCommissionAmount,
		InfluencerCommissionRate:   r.InfluencerCommissionRate,
		InfluencerCommissionAmount: r.InfluencerCommissionAmount,
		OtherCostsRate:             r.OtherCostsRate,
		MimedaCommissionRate:       r.MimedaCommissionRate,
		MimedaCommissionAmount:     r.MimedaCommissionAmount,
		AgencyCommissionRate:       r.AgencyCommissionRate,
		AgencyCommissionAmount:     r.AgencyCommissionAmount,
	}
}

// Reports fetches report rows. The report envelope carries two extra
// top-level fields next to the usual four, so it is decoded by hand here.
func (c *Client) Reports(ctx context.Context, bearerToken string, filter ReportFilter) (*ReportSet, error) {
	payload := struct {
		Data                      []reportOut   `json:"data"`
		IsSuccess                 bool          `json:"isSuccess"`
		Message                   *string       `json:"message"`
		Type                      int           `json:"type"`
		ActiveInfluencers         int           `json:"activeInfluencers"`
		TotalInfluencerCommission domain.Amount `json:"totalInfluencerCommission"`
	}{}

	err := c.do(ctx, http.MethodGet, "/Affiliate/GetReport", filter.query(), bearerToken, nil, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	if !payload.IsSuccess || payload.Type != 0 {
		msg := "request was not successful"
		if payload.Message != nil && *payload.Message != "" {
			msg = *payload.Message
		}
		return nil, &RejectionError{Message: msg}
	}

	set := &ReportSet{
		Rows:                      make([]domain.ReportRow, 0, len(payload.Data)),
		ActiveInfluencers:         payload.ActiveInfluencers,
		TotalInfluencerCommission: float64(payload.TotalInfluencerCommission),
	}
	for _, row := range payload.Data {
		set.Rows = append(set.Rows, row.toDomain())
	}
	return set, nil
}

// GenerateLink mints a tracking link for an influencer-campaign pair. The
// backend dedupes: asking again for an existing pair returns the same link.
func (c *Client) GenerateLink(ctx context.Context, bearerToken string, campaignID, influencerID int, influencerName string) (*domain.GeneratedLink, error) {
	body := struct {
		InfluencerID   string `json:"influencerID"`
		InfluencerName string `json:"influencerName"`
		CampaignID     int    `json:"campaignID"`
	}{
		InfluencerID:   strconv.Itoa(influencerID),
		InfluencerName: influencerName,
		CampaignID:     campaignID,
	}

	link := domain.GeneratedLink{}
	err := c.doEnvelope(ctx, http.MethodPut, "/Affiliate/GenerateLink", nil, bearerToken, body, &link)
	if err != nil {
		return nil, fmt.Errorf("failed to generate link: %w", err)
	}
	return &link, nil
}

// NetworkCampaigns lists campaigns straight from the partner network through
// the backend's proxy. The proxy admits influencer credentials, unlike the
// panel-scoped campaign listing.
func (c *Client) NetworkCampaigns(ctx context.Context, bearerToken string, filter CampaignFilter) ([]domain.Campaign, error) {
	campaigns := []domain.Campaign{}
	err := c.doEnvelope(ctx, http.MethodGet, "/mlink/campaigns", filter.query(), bearerToken, nil, &campaigns)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch network campaigns: %w", err)
	}
	return campaigns, nil
}

// NetworkReports fetches report rows straight from the partner network proxy.
func (c *Client) NetworkReports(ctx context.Context, bearerToken string, filter ReportFilter) ([]domain.ReportRow, error) {
	rows := []reportOut{}
	err := c.doEnvelope(ctx, http.MethodGet, "/mlink/reports", filter.query(), bearerToken, nil, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch network reports: %w", err)
	}

	out := make([]domain.ReportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
