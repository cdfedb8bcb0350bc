package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qube-panel/internal/config"
	"qube-panel/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.UpstreamConfig{
		BaseURL:         srv.URL,
		Timeout:         5 * time.Second,
		ServiceUsername: "svc",
		ServicePassword: "svc-pass",
	})
	return client, srv
}

func TestLoginSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])

		json.NewEncoder(w).Encode(map[string]any{
			"data":      map[string]string{"accessToken": "tok-123"},
			"isSuccess": true,
			"message":   nil,
			"type":      0,
		})
	}))

	cred, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cred.AccessToken)
}

func TestLoginRejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid username or password"})
	}))

	_, err := client.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrCredentialRejected)
}

func TestEnvelopeFailureIsError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":      nil,
			"isSuccess": false,
			"message":   "Invalid StartDate",
			"type":      1,
		})
	}))

	_, err := client.Campaigns(context.Background(), "tok", CampaignFilter{})
	require.Error(t, err)

	// The rejection stays typed through the wrapping so callers can pull
	// out the backend's message.
	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "Invalid StartDate", rejection.Message)
}

func TestReportRejectionIsTyped(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":      nil,
			"isSuccess": false,
			"message":   "Invalid EndDate",
			"type":      1,
		})
	}))

	_, err := client.Reports(context.Background(), "tok", ReportFilter{})
	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "Invalid EndDate", rejection.Message)
}

func TestResolveIdentityAdmin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/me", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 1, "username": "root", "role": "admin", "company_id": nil},
			"info": "admin",
		})
	}))

	ident, err := client.ResolveIdentity(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, ident.Role)
	assert.Nil(t, ident.Company)
	assert.Nil(t, ident.Influencer)
}

func TestResolveIdentityInfluencer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 10, "username": "mira", "role": "influencer"},
			"info": map[string]any{"id": 77, "username": "mira", "display_name": "Mira", "active": true},
		})
	}))

	ident, err := client.ResolveIdentity(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, ident.Influencer)
	assert.Equal(t, 77, ident.Influencer.ID)
	assert.Equal(t, "Mira", ident.DisplayName())
	assert.Equal(t, 77, ident.InfluencerRef())
}

func TestResolveIdentityCompanyWithNullInfo(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 4, "username": "acme", "role": "company"},
			"info": nil,
		})
	}))

	ident, err := client.ResolveIdentity(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCompany, ident.Role)
	assert.Nil(t, ident.Company)
}

func TestResolveIdentityRejectedToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))

	_, err := client.ResolveIdentity(context.Background(), "expired")
	assert.ErrorIs(t, err, domain.ErrCredentialRejected)
}

func TestResolveIdentityUnknownRole(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 4, "username": "x", "role": "auditor"},
			"info": nil,
		})
	}))

	_, err := client.ResolveIdentity(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestUpdateProfileOmitsEmptyPassword(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/update-profile", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Mira", body["display_name"])
		assert.NotContains(t, body, "password")

		json.NewEncoder(w).Encode(map[string]any{
			"data":      nil,
			"isSuccess": true,
			"message":   nil,
			"type":      0,
		})
	}))

	err := client.UpdateProfile(context.Background(), "tok-1", ProfileUpdate{
		DisplayName: "Mira",
		Email:       "mira@example.com",
		Phone:       "5550001",
	})
	require.NoError(t, err)
}

func TestReportsDecoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Affiliate/GetReport", r.URL.Path)
		assert.Equal(t, "05.01.2025", r.URL.Query().Get("StartDate"))

		// commission amounts arrive as strings, ids switch casing per row
		w.Write([]byte(`{
			"data": [
				{"id": 1, "influencer_id": 7, "campaignId": 3, "totalClicks": 10, "totalSales": 4,
				 "influencerCommissionAmount": "12.50", "createdAt": "2025-01-05T10:00:00"},
				{"id": 2, "influencerID": 8, "campaignId": 3, "totalClicks": "20", "totalSales": 6,
				 "influencerCommissionAmount": null}
			],
			"isSuccess": true, "message": null, "type": 0,
			"activeInfluencers": 2, "totalInfluencerCommission": "12.50"
		}`))
	}))

	set, err := client.Reports(context.Background(), "tok", ReportFilter{
		StartDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, set.Rows, 2)
	assert.Equal(t, 7, set.Rows[0].InfluencerID)
	assert.Equal(t, 8, set.Rows[1].InfluencerID)
	assert.Equal(t, domain.Amount(12.5), set.Rows[0].InfluencerCommissionAmount)
	assert.Equal(t, domain.Amount(0), set.Rows[1].InfluencerCommissionAmount)
	assert.Equal(t, domain.Amount(20), set.Rows[1].TotalClicks)
	assert.Equal(t, 2, set.ActiveInfluencers)
	assert.Equal(t, 12.5, set.TotalInfluencerCommission)
}

func TestGenerateLinkSendsStringInfluencerID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/Affiliate/GenerateLink", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body["influencerID"])
		assert.Equal(t, "Mira", body["influencerName"])
		assert.Equal(t, float64(3), body["campaignID"])

		json.NewEncoder(w).Encode(map[string]any{
			"data":      map[string]any{"campaignID": 3, "url": "https://t.example/abc"},
			"isSuccess": true,
			"message":   "Tracking link already exists.",
			"type":      0,
		})
	}))

	link, err := client.GenerateLink(context.Background(), "tok", 3, 42, "Mira")
	require.NoError(t, err)
	assert.Equal(t, "https://t.example/abc", link.URL)
}

func TestServiceTokenCached(t *testing.T) {
	var logins atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		logins.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"accessToken": "svc-tok",
				"expiration":  time.Now().Add(time.Hour).Format(time.RFC3339),
			},
			"isSuccess": true,
			"type":      0,
		})
	}))

	for i := 0; i < 3; i++ {
		tok, err := client.ServiceToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "svc-tok", tok)
	}
	assert.Equal(t, int32(1), logins.Load())
}

func TestServiceTokenRefreshedNearExpiry(t *testing.T) {
	var logins atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"accessToken": "svc-tok",
				// inside the refresh slack, never considered valid
				"expiration": time.Now().Add(30 * time.Second).Format(time.RFC3339),
			},
			"isSuccess": true,
			"type":      0,
		})
	}))

	_, err := client.ServiceToken(context.Background())
	require.NoError(t, err)
	_, err = client.ServiceToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), logins.Load())
}

func TestDashboardSummaryBarePayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dashboard/summary", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"activeCampaigns": 4,
			"totalClicks":     1200,
			"totalSales":      90,
			"totalCommission": 450.5,
		})
	}))

	summary, err := client.DashboardSummary(context.Background(), "tok", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ActiveCampaigns)
	assert.Equal(t, 450.5, summary.TotalCommission)
}

func TestAPIErrorDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Access denied"})
	}))

	_, err := client.Campaigns(context.Background(), "tok", CampaignFilter{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Access denied", apiErr.Message)
}
