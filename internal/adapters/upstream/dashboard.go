package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"qube-panel/internal/core/domain"
)

func companyQuery(companyID int) url.Values {
	q := url.Values{}
	if companyID > 0 {
		q.Set("company_id", strconv.Itoa(companyID))
	}
	return q
}

// DashboardSummary fetches the company-scoped headline numbers. The endpoint
// returns the payload bare, not wrapped in an envelope.
func (c *Client) DashboardSummary(ctx context.Context, bearerToken string, companyID int) (*domain.DashboardSummary, error) {
	summary := domain.DashboardSummary{}
	err := c.do(ctx, http.MethodGet, "/dashboard/summary", companyQuery(companyID), bearerToken, nil, &summary)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard summary: %w", err)
	}
	return &summary, nil
}

// DashboardActivity fetches the recent-activity feed, newest first.
// Bare payload, like the summary.
func (c *Client) DashboardActivity(ctx context.Context, bearerToken string, companyID int) ([]domain.Activity, error) {
	activity := []domain.Activity{}
	err := c.do(ctx, http.MethodGet, "/dashboard/activity", companyQuery(companyID), bearerToken, nil, &activity)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity feed: %w", err)
	}
	return activity, nil
}
