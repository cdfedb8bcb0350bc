package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/config"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"
	"qube-panel/internal/pkg/pagination"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	client  *upstream.Client
	reports *services.ReportService
	cfg     *config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(client *upstream.Client, reports *services.ReportService, cfg *config.Config) *ReportHandler {
	return &ReportHandler{client: client, reports: reports, cfg: cfg}
}

// Leaderboards are the two insight panels next to the report table
type Leaderboards struct {
	TopByConversion []domain.ReportRow `json:"topByConversion"`
	TopByCommission []domain.ReportRow `json:"topByCommission"`
}

// ReportsOverview is everything the reports view renders
type ReportsOverview struct {
	Rows                      []domain.ReportRow      `json:"rows"`
	Meta                      *pagination.Meta        `json:"meta"`
	Chart                     ChartPayload            `json:"chart"`
	Summary                   domain.DashboardSummary `json:"summary"`
	Leaderboards              Leaderboards            `json:"leaderboards"`
	ActiveInfluencers         int                     `json:"activeInfluencers"`
	TotalInfluencerCommission float64                 `json:"totalInfluencerCommission"`
}

func (h *ReportHandler) filter(c *fiber.Ctx) upstream.ReportFilter {
	filter := upstream.ReportFilter{
		InfluencerID: c.Query("influencerID"),
		CompanyID:    companyScope(c),
	}
	if d, ok := domain.ParseDay(c.Query("startDate")); ok {
		filter.StartDate = d
	}
	if d, ok := domain.ParseDay(c.Query("endDate")); ok {
		filter.EndDate = d
	}
	return filter
}

// fetchRows loads the report rows for the current request. The default
// source is the panel's own report data; company and admin sessions can ask
// for ?source=network to read the partner network proxy instead, which has
// no influencer access upstream.
func (h *ReportHandler) fetchRows(c *fiber.Ctx, identity *domain.Identity, filter upstream.ReportFilter) (*upstream.ReportSet, error) {
	if c.Query("source") != "network" {
		return h.client.Reports(c.Context(), middleware.Token(c), filter)
	}
	if identity.Role == domain.RoleInfluencer {
		return nil, domain.ErrViewNotAuthorized
	}
	rows, err := h.client.NetworkReports(c.Context(), middleware.Token(c), filter)
	if err != nil {
		return nil, err
	}
	return &upstream.ReportSet{Rows: rows}, nil
}

// GetReports returns the full reports view model
// @Summary Reports overview
// @Description Report rows with chart, summary and leaderboards
// @Tags Reports
// @Produce json
// @Security SessionAuth
// @Param influencerID query string false "Influencer filter"
// @Param startDate query string false "Range start, ISO date"
// @Param endDate query string false "Range end, ISO date"
// @Param company_id query int false "Company filter (admin only)"
// @Param source query string false "Row source, local (default) or network"
// @Param days query int false "Chart window size in days (default 7)"
// @Param page query int false "Page number"
// @Param limit query int false "Rows per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /reports [get]
func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	filter := h.filter(c)

	set, err := h.fetchRows(c, identity, filter)
	if err != nil {
		if errors.Is(err, domain.ErrViewNotAuthorized) {
			return response.Forbidden(c, "Network reports are not available for influencer accounts")
		}
		return upstreamError(c, err, "Failed to load reports")
	}

	end, days := h.chartWindow(c, filter.EndDate)
	series := h.reports.BuildSeries(set.Rows, end, days)

	activeInfluencers := set.ActiveInfluencers
	totalCommission := set.TotalInfluencerCommission
	if identity.Role != domain.RoleInfluencer {
		// the backend only computes these aggregates for influencer queries
		activeInfluencers = h.reports.ActiveInfluencers(set.Rows)
		totalCommission = h.reports.TotalInfluencerCommission(set.Rows)
	}

	rows, meta := pagination.Page(set.Rows, pagination.GetParams(c))
	return response.Success(c, "", ReportsOverview{
		Rows:    rows,
		Meta:    meta,
		Chart:   ChartPayload{Series: series, Totals: h.reports.BuildTotals(series)},
		Summary: h.reports.Summarize(set.Rows, identity.Role),
		Leaderboards: Leaderboards{
			TopByConversion: h.leaderboardRows(identity.Role, set.Rows, true),
			TopByCommission: h.leaderboardRows(identity.Role, set.Rows, false),
		},
		ActiveInfluencers:         activeInfluencers,
		TotalInfluencerCommission: totalCommission,
	})
}

// leaderboardRows ranks rows for one insight panel. Admin and company views
// rank influencer aggregates, influencers see their own campaign rows.
func (h *ReportHandler) leaderboardRows(role domain.Role, rows []domain.ReportRow, byConversion bool) []domain.ReportRow {
	if role != domain.RoleInfluencer {
		rows = h.reports.GroupByInfluencer(rows)
	}
	if byConversion {
		return h.reports.TopByConversion(rows, services.DefaultLeaderboardSize)
	}
	return h.reports.TopByCommission(rows, services.DefaultLeaderboardSize)
}

func (h *ReportHandler) chartWindow(c *fiber.Ctx, filterEnd time.Time) (time.Time, int) {
	days, _ := strconv.Atoi(c.Query("days", strconv.Itoa(defaultChartDays)))
	if days < 1 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}
	if h.cfg.Chart.CompatFixedWindow {
		days = defaultChartDays
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if !filterEnd.IsZero() {
		end = filterEnd
	}
	return end, days
}

// ExportReports streams the current report rows as CSV
// @Summary Export reports
// @Description Download the filtered report rows as a CSV file
// @Tags Reports
// @Produce text/csv
// @Security SessionAuth
// @Param influencerID query string false "Influencer filter"
// @Param startDate query string false "Range start, ISO date"
// @Param endDate query string false "Range end, ISO date"
// @Param company_id query int false "Company filter (admin only)"
// @Param source query string false "Row source, local (default) or network"
// @Success 200 {string} string "CSV payload"
// @Failure 401 {object} response.Response
// @Router /reports/export [get]
func (h *ReportHandler) ExportReports(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	set, err := h.fetchRows(c, identity, h.filter(c))
	if err != nil {
		if errors.Is(err, domain.ErrViewNotAuthorized) {
			return response.Forbidden(c, "Network reports are not available for influencer accounts")
		}
		return upstreamError(c, err, "Failed to load reports")
	}

	buf := bytes.Buffer{}
	w := csv.NewWriter(&buf)

	commissionHeader := "Brand Commission"
	if identity.Role == domain.RoleInfluencer {
		commissionHeader = "Commission"
	}
	_ = w.Write([]string{"Influencer", "Campaign", "Clicks", "Sales", "Conversion %", commissionHeader, "Date"})

	for i := range set.Rows {
		row := &set.Rows[i]
		commission := float64(row.BrandCommissionAmount)
		if identity.Role == domain.RoleInfluencer {
			commission = float64(row.InfluencerCommissionAmount)
		}

		date := row.EndDate
		if date == "" {
			date = row.CreatedAt
		}
		_ = w.Write([]string{
			row.InfluencerName,
			row.Name,
			strconv.FormatFloat(float64(row.TotalClicks), 'f', 0, 64),
			strconv.FormatFloat(float64(row.TotalSales), 'f', 0, 64),
			strconv.FormatFloat(row.ConversionRate(), 'f', 1, 64),
			strconv.FormatFloat(commission, 'f', 2, 64),
			date,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return response.InternalServerError(c, "Failed to build CSV export")
	}

	filename := fmt.Sprintf("reports-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
