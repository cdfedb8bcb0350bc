package services

import (
	"sync"

	"qube-panel/internal/core/domain"
)

// ViewService tracks which panel view each session is on. Navigation only
// moves between views the session's role is allowed to open; when the
// identity behind a session changes, the session snaps back to that
// identity's landing view.
type ViewService struct {
	authz *AuthzService

	mu      sync.Mutex
	current map[string]domain.View
}

// NewViewService creates a new view service
func NewViewService(authz *AuthzService) *ViewService {
	return &ViewService{
		authz:   authz,
		current: make(map[string]domain.View),
	}
}

// knownViews is the closed set of navigable views
var knownViews = map[domain.View]struct{}{
	domain.ViewDashboard:    {},
	domain.ViewCampaigns:    {},
	domain.ViewReports:      {},
	domain.ViewGenerateLink: {},
	domain.ViewCompanies:    {},
	domain.ViewInfluencers:  {},
	domain.ViewSettings:     {},
}

// Navigate moves the session to the requested view. Unknown views and views
// outside the identity's allow-list leave the current view untouched.
func (s *ViewService) Navigate(identity *domain.Identity, sessionID string, view domain.View) (domain.View, error) {
	if _, ok := knownViews[view]; !ok {
		return "", domain.ErrUnknownView
	}
	if !s.authz.CanView(identity.Role, view) {
		return "", domain.ErrViewNotAuthorized
	}

	s.mu.Lock()
	s.current[sessionID] = view
	s.mu.Unlock()
	return view, nil
}

// Current returns the session's current view. Sessions that never navigated,
// and sessions whose stored view the role may no longer open, get the role's
// landing view.
func (s *ViewService) Current(identity *domain.Identity, sessionID string) domain.View {
	s.mu.Lock()
	view, ok := s.current[sessionID]
	s.mu.Unlock()

	if ok && s.authz.CanView(identity.Role, view) {
		return view
	}
	return s.authz.DefaultView(identity.Role)
}

// OnIdentityChange implements IdentityListener. Any identity change, sign-in
// or sign-out, resets the session to the landing view of the new identity.
func (s *ViewService) OnIdentityChange(sessionID string, identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity == nil {
		delete(s.current, sessionID)
		return
	}
	s.current[sessionID] = s.authz.DefaultView(identity.Role)
}
