package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Role represents user role in the system
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCompany    Role = "company"
	RoleInfluencer Role = "influencer"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCompany || r == RoleInfluencer
}

// View represents a navigable panel view
type View string

const (
	ViewDashboard    View = "dashboard"
	ViewCampaigns    View = "campaigns"
	ViewReports      View = "reports"
	ViewGenerateLink View = "generate-link"
	ViewCompanies    View = "companies"
	ViewInfluencers  View = "influencers"
	ViewSettings     View = "settings"
)

// SessionState is where a session stands in its lifecycle. A session is
// unauthenticated until a credential is set, loading while its identity
// resolves, and viewing once the identity is known.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateLoadingIdentity SessionState = "loading-identity"
	StateViewing         SessionState = "viewing"
)

// Amount is a numeric wire value that the upstream serializes inconsistently:
// some fields arrive as JSON numbers, commission amounts/rates arrive as
// strings, and older rows omit them entirely. Any unparseable value decodes
// to zero, never NaN.
type Amount float64

// UnmarshalJSON implements safe-parse-or-zero decoding.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// MarshalJSON emits a plain number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}

// Identity is the resolved user record behind a credential. Role determines
// which of the two profile branches is populated; admins carry neither.
type Identity struct {
	ID         int                `json:"id"`
	Username   string             `json:"username"`
	Role       Role               `json:"role"`
	Company    *CompanyProfile    `json:"company,omitempty"`
	Influencer *InfluencerProfile `json:"influencer,omitempty"`
}

// DisplayName returns the name shown in the panel and embedded in tracking
// links: the influencer display name when present, else the username.
func (id *Identity) DisplayName() string {
	if id.Influencer != nil && id.Influencer.DisplayName != "" {
		return id.Influencer.DisplayName
	}
	return id.Username
}

// InfluencerRef returns the influencer id used on the wire for this identity.
// Influencer users reference their profile record, not their login user.
func (id *Identity) InfluencerRef() int {
	if id.Influencer != nil && id.Influencer.ID != 0 {
		return id.Influencer.ID
	}
	return id.ID
}

// CompanyProfile is the company branch of an identity payload
type CompanyProfile struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// InfluencerProfile is the influencer branch of an identity payload
type InfluencerProfile struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Active       bool   `json:"active"`
	UserID       int    `json:"user_id,omitempty"`
	MlinkID      string `json:"mlink_id,omitempty"`
}

// Product is a campaign product entry
type Product struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Campaign represents a campaign as delivered by the upstream. Rates are
// percentages on a 0-100 scale.
type Campaign struct {
	ID                       int       `json:"id"`
	Name                     string    `json:"name"`
	Brief                    string    `json:"brief,omitempty"`
	Products                 []Product `json:"products"`
	BrandCommissionRate      Amount    `json:"brandCommissionRate"`
	InfluencerCommissionRate Amount    `json:"influencerCommissionRate"`
	OtherCostsRate           Amount    `json:"otherCostsRate"`
	EndDate                  string    `json:"endDate"`
	BrandingImage            string    `json:"brandingImage,omitempty"`
}

// ReportRow is one influencer x campaign x period performance record
type ReportRow struct {
	InfluencerID               int    `json:"influencerID"`
	InfluencerName             string `json:"influencerName,omitempty"`
	CampaignID                 int    `json:"campaignID"`
	Name                       string `json:"name,omitempty"`
	TotalClicks                Amount `json:"totalClicks"`
	TotalSales                 Amount `json:"totalSales"`
	CreatedAt                  string `json:"createdAt,omitempty"`
	EndDate                    string `json:"endDate,omitempty"`
	BrandCommissionRate        Amount `json:"brandCommissionRate"`
	BrandCommissionAmount      Amount `json:"brandCommissionAmount"`
	InfluencerCommissionRate   Amount `json:"influencerCommissionRate"`
	InfluencerCommissionAmount Amount `json:"influencerCommissionAmount"`
	OtherCostsRate             Amount `json:"otherCostsRate"`
	MimedaCommissionRate       Amount `json:"mimedaCommissionRate"`
	MimedaCommissionAmount     Amount `json:"mimedaCommissionAmount"`
	AgencyCommissionRate       Amount `json:"agencyCommissionRate"`
	AgencyCommissionAmount     Amount `json:"agencyCommissionAmount"`
}

// ConversionRate returns sales/clicks as a 0-100 percentage. Zero clicks
// means zero conversion, never a division.
func (r *ReportRow) ConversionRate() float64 {
	if r.TotalClicks <= 0 {
		return 0
	}
	return float64(r.TotalSales) / float64(r.TotalClicks) * 100
}

// Day returns the calendar day this row is bucketed under for charting:
// endDate when present, else createdAt.
func (r *ReportRow) Day() (time.Time, bool) {
	if d, ok := ParseDay(r.EndDate); ok {
		return d, true
	}
	return ParseDay(r.CreatedAt)
}

// ParseDay extracts a calendar day (UTC midnight) from a wire date string.
// Accepts ISO timestamps/dates and the legacy DD.MM.YYYY range format.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		if d, err := time.ParseInLocation("2006-01-02", s[:10], time.UTC); err == nil {
			return d, true
		}
	}
	if d, err := time.ParseInLocation("02.01.2006", s, time.UTC); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// ChartPoint is one calendar day of the performance chart
type ChartPoint struct {
	Day    string  `json:"day"`
	Sales  float64 `json:"sales"`
	Clicks float64 `json:"clicks"`
}

// ChartTotals summarizes a chart series
type ChartTotals struct {
	Sales  float64 `json:"sales"`
	Clicks float64 `json:"clicks"`
	Conv   float64 `json:"conv"`
}

// DashboardSummary mirrors the upstream /dashboard/summary payload
type DashboardSummary struct {
	ActiveCampaigns int     `json:"activeCampaigns"`
	TotalClicks     float64 `json:"totalClicks"`
	TotalSales      float64 `json:"totalSales"`
	TotalCommission float64 `json:"totalCommission"`
}

// Activity is one recent-activity feed entry
type Activity struct {
	Type      string `json:"type"`
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
}

// Influencer is the admin-managed influencer record
type Influencer struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Active       bool   `json:"active"`
	UserID       int    `json:"user_id,omitempty"`
	MlinkID      string `json:"mlink_id,omitempty"`
}

// Company is the admin-managed company record. Business field names follow
// the upstream contract verbatim.
type Company struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	CreatedAt      string `json:"created_at,omitempty"`
	Adres          string `json:"adres,omitempty"`
	Telefon        string `json:"telefon,omitempty"`
	Gsm            string `json:"gsm,omitempty"`
	Faks           string `json:"faks,omitempty"`
	VergiDairesi   string `json:"vergi_dairesi,omitempty"`
	VergiNumarasi  string `json:"vergi_numarasi,omitempty"`
	Email          string `json:"email,omitempty"`
	AktiflikDurumu bool   `json:"aktiflik_durumu"`
	YetkiliAdi     string `json:"yetkili_adi,omitempty"`
	YetkiliSoyadi  string `json:"yetkili_soyadi,omitempty"`
	YetkiliGsm     string `json:"yetkili_gsm,omitempty"`
}

// GeneratedLink is the payload of a successful link generation
type GeneratedLink struct {
	CampaignID int    `json:"campaignID"`
	Name       string `json:"name,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	URL        string `json:"url"`
}

// Credential is an upstream-issued bearer token with its advertised expiry
type Credential struct {
	AccessToken string `json:"accessToken"`
	Expiration  string `json:"expiration,omitempty"`
}
