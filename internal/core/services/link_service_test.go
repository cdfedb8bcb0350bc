package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qube-panel/internal/core/domain"
)

type fakeLinkGenerator struct {
	lastCampaignID     int
	lastInfluencerID   int
	lastInfluencerName string
	link               *domain.GeneratedLink
	err                error
}

func (f *fakeLinkGenerator) GenerateLink(_ context.Context, _ string, campaignID, influencerID int, influencerName string) (*domain.GeneratedLink, error) {
	f.lastCampaignID = campaignID
	f.lastInfluencerID = influencerID
	f.lastInfluencerName = influencerName
	if f.err != nil {
		return nil, f.err
	}
	return f.link, nil
}

func TestComposeRequiresCampaign(t *testing.T) {
	svc := NewLinkService(&fakeLinkGenerator{})
	admin := &domain.Identity{ID: 1, Role: domain.RoleAdmin}

	_, err := svc.Compose(context.Background(), "tok", admin, LinkRequest{InfluencerID: 5})
	assert.ErrorIs(t, err, domain.ErrCampaignRequired)
}

func TestComposeRequiresInfluencerForAdmin(t *testing.T) {
	svc := NewLinkService(&fakeLinkGenerator{})
	admin := &domain.Identity{ID: 1, Role: domain.RoleAdmin}

	_, err := svc.Compose(context.Background(), "tok", admin, LinkRequest{CampaignID: 3})
	assert.ErrorIs(t, err, domain.ErrInfluencerRequired)
}

func TestComposeInfluencerPinnedToSelf(t *testing.T) {
	gen := &fakeLinkGenerator{link: &domain.GeneratedLink{CampaignID: 3, URL: "https://t.example/abc"}}
	svc := NewLinkService(gen)
	inf := &domain.Identity{
		ID:         10,
		Role:       domain.RoleInfluencer,
		Influencer: &domain.InfluencerProfile{ID: 77, DisplayName: "seven-seven"},
	}

	// request names somebody else's influencer id
	link, err := svc.Compose(context.Background(), "tok", inf, LinkRequest{CampaignID: 3, InfluencerID: 42, InfluencerName: "somebody else"})
	require.NoError(t, err)
	assert.Equal(t, 77, gen.lastInfluencerID)
	assert.Equal(t, "seven-seven", gen.lastInfluencerName)
	assert.Equal(t, "https://t.example/abc", link.URL)
}

func TestComposeInfluencerWithoutProfileUsesUserID(t *testing.T) {
	gen := &fakeLinkGenerator{link: &domain.GeneratedLink{URL: "https://t.example/x"}}
	svc := NewLinkService(gen)
	inf := &domain.Identity{ID: 10, Role: domain.RoleInfluencer}

	_, err := svc.Compose(context.Background(), "tok", inf, LinkRequest{CampaignID: 3})
	require.NoError(t, err)
	assert.Equal(t, 10, gen.lastInfluencerID)
}

func TestComposeAdminForNamedInfluencer(t *testing.T) {
	gen := &fakeLinkGenerator{link: &domain.GeneratedLink{URL: "https://t.example/y"}}
	svc := NewLinkService(gen)
	admin := &domain.Identity{ID: 1, Role: domain.RoleAdmin}

	_, err := svc.Compose(context.Background(), "tok", admin, LinkRequest{CampaignID: 3, InfluencerID: 42})
	require.NoError(t, err)
	assert.Equal(t, 3, gen.lastCampaignID)
	assert.Equal(t, 42, gen.lastInfluencerID)
}

func TestComposeEmptyURLFromUpstream(t *testing.T) {
	svc := NewLinkService(&fakeLinkGenerator{link: &domain.GeneratedLink{CampaignID: 3}})
	admin := &domain.Identity{ID: 1, Role: domain.RoleAdmin}

	_, err := svc.Compose(context.Background(), "tok", admin, LinkRequest{CampaignID: 3, InfluencerID: 42})
	assert.ErrorIs(t, err, domain.ErrLinkUnavailable)
}

func TestComposeUpstreamFailure(t *testing.T) {
	svc := NewLinkService(&fakeLinkGenerator{err: errors.New("upstream down")})
	admin := &domain.Identity{ID: 1, Role: domain.RoleAdmin}

	_, err := svc.Compose(context.Background(), "tok", admin, LinkRequest{CampaignID: 3, InfluencerID: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate link")
}
