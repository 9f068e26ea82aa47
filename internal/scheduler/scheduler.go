package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/services"
)

// Scheduler runs periodic processing sessions for brands with a cron
// expression configured
type Scheduler struct {
	brands   db.BrandStore
	sessions *services.SessionService
	cron     *cron.Cron
	running  bool
	mu       sync.RWMutex
}

// New creates a new scheduler
func New(brands db.BrandStore, sessions *services.SessionService) *Scheduler {
	return &Scheduler{
		brands:   brands,
		sessions: sessions,
		cron:     cron.New(),
	}
}

// Start registers all enabled brands with a cron expression and starts the
// cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	brands, err := s.brands.ListBrands(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to load brands: %w", err)
	}

	registered := 0
	for _, brand := range brands {
		if brand.CronExpr == "" {
			continue
		}
		if err := s.registerBrand(brand); err != nil {
			logger.Error("Failed to register brand %s: %v", brand.ID, err)
			continue
		}
		registered++
	}

	s.cron.Start()
	s.running = true

	logger.Info("Scheduler started with %d scheduled brands", registered)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false

	logger.Info("Scheduler stopped")
}

// Reload reloads all brand schedules
func (s *Scheduler) Reload(ctx context.Context) error {
	s.Stop()
	time.Sleep(100 * time.Millisecond) // Give it time to stop
	s.mu.Lock()
	s.cron = cron.New()
	s.mu.Unlock()
	return s.Start(ctx)
}

// registerBrand registers a brand's session schedule with cron
func (s *Scheduler) registerBrand(brand *models.Brand) error {
	brandID := brand.ID
	_, err := s.cron.AddFunc(brand.CronExpr, func() {
		if err := s.executeBrand(context.Background(), brandID); err != nil {
			logger.Error("Scheduled session failed for brand %s: %v", brandID, err)
		}
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	logger.Info("Registered brand %s with cron expression: %s", brand.ID, brand.CronExpr)
	return nil
}

// executeBrand runs one processing session for the brand
func (s *Scheduler) executeBrand(ctx context.Context, brandID string) error {
	logger.Info("Executing scheduled session for brand: %s", brandID)

	analytics, err := s.sessions.Run(ctx, brandID)
	if err != nil {
		return err
	}

	logger.Info("Scheduled session %s completed for brand %s: %d queries, visibility %.2f%%",
		analytics.SessionID, brandID, analytics.QueriesTotal, analytics.VisibilityScore)
	return nil
}

// ExecuteNow runs a brand's session immediately, outside its schedule
func (s *Scheduler) ExecuteNow(ctx context.Context, brandID string) error {
	return s.executeBrand(ctx, brandID)
}

func boolPtr(b bool) *bool {
	return &b
}
