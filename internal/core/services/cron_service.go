package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"qube-panel/internal/adapters/upstream"
)

// CronService runs the scheduled background jobs. The only job today is the
// partner-network campaign sync, which keeps the backend's campaign list in
// step with the network without an admin pressing the sync button.
type CronService struct {
	client   *upstream.Client
	schedule string
	cron     *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(client *upstream.Client, schedule string) *CronService {
	return &CronService{
		client:   client,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the jobs and launches the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runNetworkSync); err != nil {
		return fmt.Errorf("invalid sync schedule '%s': %w", s.schedule, err)
	}
	s.cron.Start()
	log.Printf("🚀 Cron service started (network sync: %s)", s.schedule)
	return nil
}

// Stop halts the scheduler. A job already running finishes on its own.
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) runNetworkSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	imported, err := s.SyncNetworkCampaigns(ctx)
	if err != nil {
		log.Printf("❌ Network campaign sync failed: %v", err)
		return
	}
	log.Printf("✅ Network campaign sync imported %d campaigns", imported)
}

// SyncNetworkCampaigns pulls the partner network's campaign list through the
// backend proxy and imports it, authenticated as the service account. It
// returns how many campaigns were imported.
func (s *CronService) SyncNetworkCampaigns(ctx context.Context) (int, error) {
	tok, err := s.client.ServiceToken(ctx)
	if err != nil {
		return 0, err
	}

	campaigns, err := s.client.NetworkCampaigns(ctx, tok, upstream.CampaignFilter{})
	if err != nil {
		return 0, err
	}
	if len(campaigns) == 0 {
		return 0, nil
	}

	if err := s.client.ImportNetworkCampaigns(ctx, tok, 0, campaigns); err != nil {
		return 0, err
	}
	return len(campaigns), nil
}
