package services

import (
	"context"
	"fmt"

	"qube-panel/internal/core/domain"
)

// LinkGenerator asks the upstream to mint a tracking link for an
// influencer-campaign pair, on behalf of the given credential.
type LinkGenerator interface {
	GenerateLink(ctx context.Context, token string, campaignID, influencerID int, influencerName string) (*domain.GeneratedLink, error)
}

// LinkRequest is a tracking-link composition request as received from the
// panel. The influencer fields are advisory: influencers always link for
// themselves.
type LinkRequest struct {
	CampaignID     int    `json:"campaignID"`
	InfluencerID   int    `json:"influencerID"`
	InfluencerName string `json:"influencerName"`
}

// LinkService validates and composes tracking-link requests. Influencer users
// can only generate links pointing at their own traffic, whatever influencer
// id the request names.
type LinkService struct {
	generator LinkGenerator
}

// NewLinkService creates a new link service
func NewLinkService(generator LinkGenerator) *LinkService {
	return &LinkService{generator: generator}
}

// Compose generates a tracking link for the request. Admin and company users
// must name the influencer the link belongs to; influencer users are pinned
// to their own influencer record.
func (s *LinkService) Compose(ctx context.Context, token string, identity *domain.Identity, req LinkRequest) (*domain.GeneratedLink, error) {
	if req.CampaignID <= 0 {
		return nil, domain.ErrCampaignRequired
	}

	influencerID := req.InfluencerID
	influencerName := req.InfluencerName
	if identity.Role == domain.RoleInfluencer {
		influencerID = identity.InfluencerRef()
		influencerName = identity.DisplayName()
	}
	if influencerID <= 0 {
		return nil, domain.ErrInfluencerRequired
	}

	link, err := s.generator.GenerateLink(ctx, token, req.CampaignID, influencerID, influencerName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate link: %w", err)
	}
	if link == nil || link.URL == "" {
		return nil, domain.ErrLinkUnavailable
	}
	return link, nil
}
