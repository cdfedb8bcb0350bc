package handlers

import (
	"strconv"
	"time"

	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/config"
	"qube-panel/internal/core/domain"
	"qube-panel/internal/core/services"
	"qube-panel/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// defaultChartDays is the performance chart window when none is requested
const defaultChartDays = 7

// maxChartDays caps the selectable chart window
const maxChartDays = 90

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	client  *upstream.Client
	reports *services.ReportService
	cfg     *config.Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(client *upstream.Client, reports *services.ReportService, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{client: client, reports: reports, cfg: cfg}
}

// chartWindow resolves the requested chart window. The compat switch pins
// the window to the legacy 7 points no matter what was asked for.
func (h *DashboardHandler) chartWindow(c *fiber.Ctx) (time.Time, int) {
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
	if raw := c.Query("endDate"); raw != "" {
		if d, ok := domain.ParseDay(raw); ok {
			end = d
		}
	}
	return end, days
}

// companyScope extracts the optional admin-only company filter
func companyScope(c *fiber.Ctx) int {
	identity := middleware.Identity(c)
	if identity == nil || identity.Role != domain.RoleAdmin {
		return 0
	}
	companyID, _ := strconv.Atoi(c.Query("company_id"))
	return companyID
}

// GetSummary returns the dashboard headline numbers
// @Summary Dashboard summary
// @Description Active campaigns, clicks, sales and commission totals
// @Tags Dashboard
// @Produce json
// @Security SessionAuth
// @Param company_id query int false "Company filter (admin only)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.client.DashboardSummary(c.Context(), middleware.Token(c), companyScope(c))
	if err != nil {
		return upstreamError(c, err, "Failed to load dashboard summary")
	}
	return response.Success(c, "", summary)
}

// GetActivity returns the recent-activity feed
// @Summary Recent activity
// @Description Latest link generations and campaign events
// @Tags Dashboard
// @Produce json
// @Security SessionAuth
// @Param company_id query int false "Company filter (admin only)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard/activity [get]
func (h *DashboardHandler) GetActivity(c *fiber.Ctx) error {
	activity, err := h.client.DashboardActivity(c.Context(), middleware.Token(c), companyScope(c))
	if err != nil {
		return upstreamError(c, err, "Failed to load activity feed")
	}
	return response.Success(c, "", activity)
}

// ChartPayload is the performance chart with its totals
type ChartPayload struct {
	Series []domain.ChartPoint `json:"series"`
	Totals domain.ChartTotals  `json:"totals"`
}

// GetChart returns the day-bucketed performance chart
// @Summary Performance chart
// @Description Clicks and sales per day over the selected window
// @Tags Dashboard
// @Produce json
// @Security SessionAuth
// @Param days query int false "Window size in days (default 7)"
// @Param endDate query string false "Window end, ISO date (default today)"
// @Param company_id query int false "Company filter (admin only)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard/chart [get]
func (h *DashboardHandler) GetChart(c *fiber.Ctx) error {
	end, days := h.chartWindow(c)

	set, err := h.client.Reports(c.Context(), middleware.Token(c), upstream.ReportFilter{
		StartDate: end.AddDate(0, 0, -(days - 1)),
		EndDate:   end,
		CompanyID: companyScope(c),
	})
	if err != nil {
		return upstreamError(c, err, "Failed to load chart data")
	}

	series := h.reports.BuildSeries(set.Rows, end, days)
	return response.Success(c, "", ChartPayload{
		Series: series,
		Totals: h.reports.BuildTotals(series),
	})
}
