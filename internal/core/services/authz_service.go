package services

import "qube-panel/internal/core/domain"

// AuthzService answers which panel views a role may open. The allow-list is
// a fixed table; anything not listed is denied, including every view for a
// role the table does not know.
type AuthzService struct {
	policy map[domain.Role][]domain.View
}

// NewAuthzService creates a new authorization service
func NewAuthzService() *AuthzService {
	return &AuthzService{
		policy: map[domain.Role][]domain.View{
			domain.RoleAdmin: {
				domain.ViewDashboard,
				domain.ViewCampaigns,
				domain.ViewReports,
				domain.ViewGenerateLink,
				domain.ViewCompanies,
				domain.ViewInfluencers,
				domain.ViewSettings,
			},
			domain.RoleCompany: {
				domain.ViewDashboard,
				domain.ViewCampaigns,
				domain.ViewReports,
				domain.ViewGenerateLink,
				domain.ViewSettings,
			},
			domain.RoleInfluencer: {
				domain.ViewCampaigns,
				domain.ViewReports,
				domain.ViewSettings,
			},
		},
	}
}

// AllowedViews returns the views the role may open, in menu order. The
// returned slice is a copy.
func (s *AuthzService) AllowedViews(role domain.Role) []domain.View {
	views := s.policy[role]
	out := make([]domain.View, len(views))
	copy(out, views)
	return out
}

// CanView reports whether the role may open the view.
func (s *AuthzService) CanView(role domain.Role, view domain.View) bool {
	for _, v := range s.policy[role] {
		if v == view {
			return true
		}
	}
	return false
}

// DefaultView returns the view a freshly signed-in user lands on.
// Influencers have no dashboard, so they land on reports.
func (s *AuthzService) DefaultView(role domain.Role) domain.View {
	if role == domain.RoleInfluencer {
		return domain.ViewReports
	}
	return domain.ViewDashboard
}
