package services

import (
	"math"
	"sort"
	"time"

	"qube-panel/internal/core/domain"
)

// ReportService turns raw report rows into the derived views the panel
// renders: the day-bucketed chart series, summary totals and leaderboards.
// Every method is pure and deterministic for identical input.
type ReportService struct{}

// NewReportService creates a new report service
func NewReportService() *ReportService {
	return &ReportService{}
}

// DefaultLeaderboardSize is how many entries the insight panels show
const DefaultLeaderboardSize = 3

// BuildSeries buckets rows by calendar day and emits exactly windowDays
// chart points, oldest first, ending at windowEnd inclusive. Days without
// rows emit zeros. Each point is labeled with the weekday abbreviation.
func (s *ReportService) BuildSeries(rows []domain.ReportRow, windowEnd time.Time, windowDays int) []domain.ChartPoint {
	if windowDays <= 0 {
		return []domain.ChartPoint{}
	}

	type bucket struct {
		sales  float64
		clicks float64
	}
	byDay := make(map[string]bucket)
	for i := range rows {
		day, ok := rows[i].Day()
		if !ok {
			continue
		}
		key := day.Format("2006-01-02")
		b := byDay[key]
		b.sales += float64(rows[i].TotalSales)
		b.clicks += float64(rows[i].TotalClicks)
		byDay[key] = b
	}

	end := windowEnd.UTC().Truncate(24 * time.Hour)
	series := make([]domain.ChartPoint, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		b := byDay[day.Format("2006-01-02")]
		series = append(series, domain.ChartPoint{
			Day:    day.Format("Mon"),
			Sales:  b.sales,
			Clicks: b.clicks,
		})
	}
	return series
}

// BuildTotals sums a chart series. Conversion is (sales/clicks)*100 rounded
// to one decimal; zero clicks yields exactly zero.
func (s *ReportService) BuildTotals(series []domain.ChartPoint) domain.ChartTotals {
	totals := domain.ChartTotals{}
	for _, p := range series {
		totals.Sales += p.Sales
		totals.Clicks += p.Clicks
	}
	if totals.Clicks > 0 {
		totals.Conv = math.Round(totals.Sales/totals.Clicks*1000) / 10
	}
	return totals
}

// Summarize computes the dashboard summary from report rows. The commission
// column depends on the viewing role: influencers see their own commission,
// company and admin views see the brand commission.
func (s *ReportService) Summarize(rows []domain.ReportRow, role domain.Role) domain.DashboardSummary {
	summary := domain.DashboardSummary{}
	campaigns := make(map[int]struct{})
	for i := range rows {
		campaigns[rows[i].CampaignID] = struct{}{}
		summary.TotalClicks += float64(rows[i].TotalClicks)
		summary.TotalSales += float64(rows[i].TotalSales)
		if role == domain.RoleInfluencer {
			summary.TotalCommission += float64(rows[i].InfluencerCommissionAmount)
		} else {
			summary.TotalCommission += float64(rows[i].BrandCommissionAmount)
		}
	}
	summary.ActiveCampaigns = len(campaigns)
	return summary
}

// TopByConversion returns the n rows with the highest conversion rate.
// Rows without clicks are excluded. Ties keep their original order; the
// upstream defines no secondary key.
func (s *ReportService) TopByConversion(rows []domain.ReportRow, n int) []domain.ReportRow {
	ranked := make([]domain.ReportRow, 0, len(rows))
	for i := range rows {
		if rows[i].TotalClicks > 0 {
			ranked = append(ranked, rows[i])
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConversionRate() > ranked[j].ConversionRate()
	})
	return clip(ranked, n)
}

// TopByCommission returns the n rows with the highest influencer commission.
func (s *ReportService) TopByCommission(rows []domain.ReportRow, n int) []domain.ReportRow {
	ranked := make([]domain.ReportRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].InfluencerCommissionAmount > ranked[j].InfluencerCommissionAmount
	})
	return clip(ranked, n)
}

// GroupByInfluencer collapses rows to one aggregate row per influencer,
// summing clicks, sales and commissions. Admin and company leaderboards rank
// these aggregates so an influencer with many campaign rows does not win by
// row count alone. Output order follows first appearance in the input.
func (s *ReportService) GroupByInfluencer(rows []domain.ReportRow) []domain.ReportRow {
	index := make(map[int]int)
	grouped := make([]domain.ReportRow, 0, len(rows))
	for i := range rows {
		id := rows[i].InfluencerID
		at, seen := index[id]
		if !seen {
			index[id] = len(grouped)
			grouped = append(grouped, domain.ReportRow{
				InfluencerID:   id,
				InfluencerName: rows[i].InfluencerName,
			})
			at = index[id]
		}
		if grouped[at].InfluencerName == "" {
			grouped[at].InfluencerName = rows[i].InfluencerName
		}
		grouped[at].TotalClicks += rows[i].TotalClicks
		grouped[at].TotalSales += rows[i].TotalSales
		grouped[at].BrandCommissionAmount += rows[i].BrandCommissionAmount
		grouped[at].InfluencerCommissionAmount += rows[i].InfluencerCommissionAmount
		grouped[at].MimedaCommissionAmount += rows[i].MimedaCommissionAmount
		grouped[at].AgencyCommissionAmount += rows[i].AgencyCommissionAmount
	}
	return grouped
}

// ActiveInfluencers counts distinct influencer ids across rows
func (s *ReportService) ActiveInfluencers(rows []domain.ReportRow) int {
	ids := make(map[int]struct{})
	for i := range rows {
		ids[rows[i].InfluencerID] = struct{}{}
	}
	return len(ids)
}

// TotalInfluencerCommission sums the influencer commission across rows
func (s *ReportService) TotalInfluencerCommission(rows []domain.ReportRow) float64 {
	var total float64
	for i := range rows {
		total += float64(rows[i].InfluencerCommissionAmount)
	}
	return total
}

func clip(rows []domain.ReportRow, n int) []domain.ReportRow {
	if n < 0 {
		n = 0
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
