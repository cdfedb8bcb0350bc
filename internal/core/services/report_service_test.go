package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"qube-panel/internal/core/domain"
)

func day(s string) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return d
}

func TestBuildSeriesBucketsByDay(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{CampaignID: 1, EndDate: "2025-01-05", TotalSales: 100, TotalClicks: 10},
		{CampaignID: 2, EndDate: "2025-01-05", TotalSales: 50, TotalClicks: 5},
		{CampaignID: 3, CreatedAt: "2025-01-07T09:30:00", TotalSales: 20, TotalClicks: 2},
	}

	series := svc.BuildSeries(rows, day("2025-01-07"), 7)

	assert.Len(t, series, 7)
	// window runs 2025-01-01 .. 2025-01-07
	assert.Equal(t, domain.ChartPoint{Day: "Sun", Sales: 150, Clicks: 15}, series[4])
	assert.Equal(t, domain.ChartPoint{Day: "Tue", Sales: 20, Clicks: 2}, series[6])
	for _, i := range []int{0, 1, 2, 3, 5} {
		assert.Zero(t, series[i].Sales)
		assert.Zero(t, series[i].Clicks)
	}
}

func TestBuildSeriesPrefersEndDateOverCreatedAt(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{EndDate: "2025-01-03", CreatedAt: "2025-01-01T00:00:00", TotalSales: 7, TotalClicks: 1},
	}

	series := svc.BuildSeries(rows, day("2025-01-03"), 3)

	assert.Zero(t, series[0].Sales)
	assert.Equal(t, float64(7), series[2].Sales)
}

func TestBuildSeriesLegacyDateFormat(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{EndDate: "05.01.2025", TotalSales: 3, TotalClicks: 1},
	}

	series := svc.BuildSeries(rows, day("2025-01-05"), 1)

	assert.Equal(t, float64(3), series[0].Sales)
}

func TestBuildSeriesDropsUndatedRows(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{TotalSales: 99, TotalClicks: 9},
		{EndDate: "not a date", TotalSales: 99, TotalClicks: 9},
	}

	series := svc.BuildSeries(rows, day("2025-01-07"), 7)

	for _, p := range series {
		assert.Zero(t, p.Sales)
		assert.Zero(t, p.Clicks)
	}
}

func TestBuildSeriesEmptyWindow(t *testing.T) {
	svc := NewReportService()

	assert.Empty(t, svc.BuildSeries(nil, day("2025-01-07"), 0))
	assert.Empty(t, svc.BuildSeries(nil, day("2025-01-07"), -3))
}

func TestBuildTotals(t *testing.T) {
	svc := NewReportService()

	series := []domain.ChartPoint{
		{Sales: 100, Clicks: 40},
		{Sales: 50, Clicks: 20},
	}

	totals := svc.BuildTotals(series)

	assert.Equal(t, float64(150), totals.Sales)
	assert.Equal(t, float64(60), totals.Clicks)
	assert.Equal(t, 250.0, totals.Conv)
}

func TestBuildTotalsRoundsConversion(t *testing.T) {
	svc := NewReportService()

	totals := svc.BuildTotals([]domain.ChartPoint{{Sales: 1, Clicks: 3}})

	assert.Equal(t, 33.3, totals.Conv)
}

func TestBuildTotalsZeroClicks(t *testing.T) {
	svc := NewReportService()

	totals := svc.BuildTotals([]domain.ChartPoint{{Sales: 10, Clicks: 0}})

	assert.Equal(t, float64(0), totals.Conv)
}

func TestSummarizeCountsDistinctCampaigns(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{CampaignID: 1, TotalClicks: 10, TotalSales: 100, BrandCommissionAmount: 12, InfluencerCommissionAmount: 5},
		{CampaignID: 1, TotalClicks: 5, TotalSales: 50, BrandCommissionAmount: 6, InfluencerCommissionAmount: 2},
		{CampaignID: 2, TotalClicks: 20, TotalSales: 200, BrandCommissionAmount: 24, InfluencerCommissionAmount: 10},
	}

	summary := svc.Summarize(rows, domain.RoleAdmin)

	assert.Equal(t, 2, summary.ActiveCampaigns)
	assert.Equal(t, float64(35), summary.TotalClicks)
	assert.Equal(t, float64(350), summary.TotalSales)
	assert.Equal(t, float64(42), summary.TotalCommission)
}

func TestSummarizeCommissionByRole(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{CampaignID: 1, BrandCommissionAmount: 100, InfluencerCommissionAmount: 40},
	}

	assert.Equal(t, float64(100), svc.Summarize(rows, domain.RoleAdmin).TotalCommission)
	assert.Equal(t, float64(100), svc.Summarize(rows, domain.RoleCompany).TotalCommission)
	assert.Equal(t, float64(40), svc.Summarize(rows, domain.RoleInfluencer).TotalCommission)
}

func TestTopByConversionExcludesZeroClicks(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{InfluencerID: 1, InfluencerName: "A", TotalClicks: 100, TotalSales: 50},
		{InfluencerID: 2, InfluencerName: "B", TotalClicks: 10, TotalSales: 9},
		{InfluencerID: 3, InfluencerName: "C", TotalClicks: 0, TotalSales: 999},
	}

	top := svc.TopByConversion(rows, 3)

	assert.Len(t, top, 2)
	assert.Equal(t, "B", top[0].InfluencerName) // 90% beats 50%
	assert.Equal(t, "A", top[1].InfluencerName)
}

func TestTopByConversionStableTies(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{InfluencerID: 1, InfluencerName: "first", TotalClicks: 10, TotalSales: 5},
		{InfluencerID: 2, InfluencerName: "second", TotalClicks: 20, TotalSales: 10},
	}

	top := svc.TopByConversion(rows, 2)

	assert.Equal(t, "first", top[0].InfluencerName)
	assert.Equal(t, "second", top[1].InfluencerName)
}

func TestTopByCommission(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{InfluencerID: 1, InfluencerCommissionAmount: 10},
		{InfluencerID: 2, InfluencerCommissionAmount: 30},
		{InfluencerID: 3, InfluencerCommissionAmount: 20},
		{InfluencerID: 4, InfluencerCommissionAmount: 5},
	}

	top := svc.TopByCommission(rows, 3)

	assert.Len(t, top, 3)
	assert.Equal(t, 2, top[0].InfluencerID)
	assert.Equal(t, 3, top[1].InfluencerID)
	assert.Equal(t, 1, top[2].InfluencerID)
	// input order untouched
	assert.Equal(t, 1, rows[0].InfluencerID)
}

func TestGroupByInfluencerAggregates(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{InfluencerID: 7, InfluencerName: "seven", TotalClicks: 10, TotalSales: 5, InfluencerCommissionAmount: 2},
		{InfluencerID: 8, InfluencerName: "eight", TotalClicks: 1, TotalSales: 1, InfluencerCommissionAmount: 1},
		{InfluencerID: 7, TotalClicks: 30, TotalSales: 15, InfluencerCommissionAmount: 4},
	}

	grouped := svc.GroupByInfluencer(rows)

	assert.Len(t, grouped, 2)
	assert.Equal(t, 7, grouped[0].InfluencerID)
	assert.Equal(t, "seven", grouped[0].InfluencerName)
	assert.Equal(t, domain.Amount(40), grouped[0].TotalClicks)
	assert.Equal(t, domain.Amount(20), grouped[0].TotalSales)
	assert.Equal(t, domain.Amount(6), grouped[0].InfluencerCommissionAmount)
	assert.Equal(t, 8, grouped[1].InfluencerID)
}

func TestGroupByInfluencerBackfillsName(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{InfluencerID: 7, TotalClicks: 1},
		{InfluencerID: 7, InfluencerName: "seven", TotalClicks: 1},
	}

	grouped := svc.GroupByInfluencer(rows)

	assert.Equal(t, "seven", grouped[0].InfluencerName)
}

func TestActiveInfluencers(t *testing.T) {
	svc := NewReportService()

	rows := []domain.ReportRow{
		{InfluencerID: 1}, {InfluencerID: 2}, {InfluencerID: 1},
	}

	assert.Equal(t, 2, svc.ActiveInfluencers(rows))
	assert.Equal(t, 0, svc.ActiveInfluencers(nil))
}
