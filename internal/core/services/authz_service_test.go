package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qube-panel/internal/core/domain"
)

func TestAllowedViewsPerRole(t *testing.T) {
	svc := NewAuthzService()

	tests := []struct {
		role  domain.Role
		views []domain.View
	}{
		{
			role: domain.RoleAdmin,
			views: []domain.View{
				domain.ViewDashboard, domain.ViewCampaigns, domain.ViewReports,
				domain.ViewGenerateLink, domain.ViewCompanies, domain.ViewInfluencers,
				domain.ViewSettings,
			},
		},
		{
			role: domain.RoleCompany,
			views: []domain.View{
				domain.ViewDashboard, domain.ViewCampaigns, domain.ViewReports,
				domain.ViewGenerateLink, domain.ViewSettings,
			},
		},
		{
			role: domain.RoleInfluencer,
			views: []domain.View{
				domain.ViewCampaigns, domain.ViewReports, domain.ViewSettings,
			},
		},
		{role: domain.Role("auditor"), views: []domain.View{}},
		{role: domain.Role(""), views: []domain.View{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.views, svc.AllowedViews(tt.role), "role %q", tt.role)
	}
}

func TestCanView(t *testing.T) {
	svc := NewAuthzService()

	assert.True(t, svc.CanView(domain.RoleAdmin, domain.ViewCompanies))
	assert.True(t, svc.CanView(domain.RoleInfluencer, domain.ViewReports))
	assert.False(t, svc.CanView(domain.RoleInfluencer, domain.ViewDashboard))
	assert.False(t, svc.CanView(domain.RoleCompany, domain.ViewInfluencers))
	assert.False(t, svc.CanView(domain.Role("auditor"), domain.ViewSettings))
	assert.False(t, svc.CanView(domain.RoleAdmin, domain.View("billing")))
}

func TestDefaultView(t *testing.T) {
	svc := NewAuthzService()

	assert.Equal(t, domain.ViewDashboard, svc.DefaultView(domain.RoleAdmin))
	assert.Equal(t, domain.ViewDashboard, svc.DefaultView(domain.RoleCompany))
	assert.Equal(t, domain.ViewReports, svc.DefaultView(domain.RoleInfluencer))
}

func TestAllowedViewsReturnsCopy(t *testing.T) {
	svc := NewAuthzService()

	views := svc.AllowedViews(domain.RoleAdmin)
	views[0] = domain.View("tampered")

	assert.Equal(t, domain.ViewDashboard, svc.AllowedViews(domain.RoleAdmin)[0])
}
