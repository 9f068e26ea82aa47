package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brandlens/brandlens/internal/aggregate"
	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/overflow"
)

// LifetimeService recomputes a brand's cumulative analytics from its full
// history (retained records plus the legacy archive) and stores the result as
// a timestamped snapshot. Snapshots are never overwritten; each recomputation
// appends a new one.
type LifetimeService struct {
	brands     db.BrandStore
	history    *overflow.Store
	snapshots  *overflow.Store
	index      LifetimeIndex
	aggregator *aggregate.LifetimeAggregator
}

// LifetimeIndex locates stored snapshots and the legacy archive
type LifetimeIndex interface {
	LatestLifetimeKey(ctx context.Context, brandID string) (string, error)
	LegacyDocuments(ctx context.Context, brandID string) ([]map[string]interface{}, error)
}

// NewLifetimeService creates a lifetime service
func NewLifetimeService(brands db.BrandStore, history, snapshots *overflow.Store, index LifetimeIndex) *LifetimeService {
	return &LifetimeService{
		brands:     brands,
		history:    history,
		snapshots:  snapshots,
		index:      index,
		aggregator: aggregate.NewLifetime(nil),
	}
}

// Recompute rolls up the brand's entire history and persists a new snapshot.
// Legacy records that fail conversion are skipped, never fatal.
func (s *LifetimeService) Recompute(ctx context.Context, brandID string) (*models.LifetimeAnalytics, error) {
	brand, err := s.brands.GetBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	history, err := s.loadHistory(ctx, brandID)
	if err != nil {
		return nil, err
	}

	legacy, err := s.index.LegacyDocuments(ctx, brandID)
	if err != nil {
		logger.Warning("Failed to read legacy archive for brand %s: %v", brandID, err)
	}
	converted := 0
	for _, doc := range legacy {
		qr, err := ConvertLegacyRecord(doc)
		if err != nil {
			logger.Warning("Skipping legacy record for brand %s: %v", brandID, err)
			continue
		}
		history = append(history, qr)
		converted++
	}
	if len(legacy) > 0 {
		logger.Info("Converted %d/%d legacy records for brand %s", converted, len(legacy), brandID)
	}

	lifetime := s.aggregator.Aggregate(brand, history, time.Now().UTC())

	doc, err := overflow.ToDocument(lifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize lifetime analytics: %w", err)
	}
	if err := s.snapshots.Put(ctx, lifetime.ID, doc); err != nil {
		return nil, fmt.Errorf("could not save lifetime analytics: %w", err)
	}

	logger.Info("Stored lifetime snapshot %s for brand %s (%d queries, %d citations)", lifetime.ID, brandID, lifetime.QueriesTotal, len(lifetime.AllCitations))
	return lifetime, nil
}

// Latest returns the newest stored snapshot, computing one if the brand has
// none yet
func (s *LifetimeService) Latest(ctx context.Context, brandID string) (*models.LifetimeAnalytics, error) {
	key, err := s.index.LatestLifetimeKey(ctx, brandID)
	if errors.Is(err, db.ErrNotFound) {
		return s.Recompute(ctx, brandID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to locate lifetime snapshot: %w", err)
	}

	doc, err := s.snapshots.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read lifetime snapshot: %w", err)
	}

	var lifetime models.LifetimeAnalytics
	if err := overflow.FromDocument(doc, &lifetime); err != nil {
		return nil, fmt.Errorf("failed to decode lifetime snapshot: %w", err)
	}
	return &lifetime, nil
}

func (s *LifetimeService) loadHistory(ctx context.Context, brandID string) ([]*models.QueryResult, error) {
	doc, err := s.history.Get(ctx, brandID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read brand history: %w", err)
	}

	var hist models.BrandHistory
	if err := overflow.FromDocument(doc, &hist); err != nil {
		return nil, fmt.Errorf("failed to decode brand history: %w", err)
	}
	return hist.QueryResults, nil
}
