package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/brandlens/brandlens/internal/aggregate"
	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/overflow"
	"github.com/brandlens/brandlens/internal/providers"
	"github.com/brandlens/brandlens/internal/shared"
)

// SessionService runs one processing session for a brand: every enabled
// tracked query is dispatched to every registered provider, results are
// appended to the brand's history incrementally, and a write-once analytics
// record closes the session.
type SessionService struct {
	brands     db.BrandStore
	history    *overflow.Store
	sessions   *overflow.Store
	index      SessionIndex
	registry   *providers.Registry
	aggregator *aggregate.SessionAggregator
	limiter    *rate.Limiter
}

// SessionIndex lists stored session analytics keys for a brand, newest first
type SessionIndex interface {
	SessionKeys(ctx context.Context, brandID string) ([]string, error)
}

// NewSessionService creates a session service. ratePerSecond throttles
// outbound provider calls; zero or negative means one call per second.
func NewSessionService(brands db.BrandStore, history, sessions *overflow.Store, index SessionIndex, registry *providers.Registry, ratePerSecond float64) *SessionService {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	return &SessionService{
		brands:     brands,
		history:    history,
		sessions:   sessions,
		index:      index,
		registry:   registry,
		aggregator: aggregate.NewSession(nil),
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

// Run executes a full processing session for the brand and returns the
// session analytics. Queries run sequentially; a provider failure on one
// query excludes that provider from the query's results, not from the session.
func (s *SessionService) Run(ctx context.Context, brandID string) (*models.SessionAnalytics, error) {
	brand, err := s.brands.GetBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	queries, err := s.brands.ListQueries(ctx, brandID, boolPtr(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("brand %s has no enabled queries", brand.Name)
	}

	clients := s.registry.List()
	if len(clients) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}

	sessionID := uuid.NewString()
	sessionDate := time.Now().UTC()
	logger.Info("Starting session %s for brand %s (%d queries, %d providers)", sessionID, brand.Name, len(queries), len(clients))

	var results []*models.QueryResult
	for _, query := range queries {
		qr := &models.QueryResult{
			Query:               query.Text,
			Keyword:             query.Keyword,
			Category:            query.Category,
			Date:                time.Now().UTC(),
			ProcessingSessionID: sessionID,
		}

		for _, client := range clients {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}

			if err := client.Fetch(ctx, query.Text, &qr.Results); err != nil {
				logger.Warning("Provider %s failed for query %q: %v", client.Provider(), query.Text, err)
			}
		}

		s.aggregator.AnalyzeQuery(brand, qr)
		results = append(results, qr)

		// Incremental append: the session's partial entry is replaced after
		// every query so an interrupted session loses at most one query.
		if err := s.appendHistory(ctx, brand.ID, sessionID, results); err != nil {
			logger.Error("Failed to persist history for brand %s: %v", brand.ID, err)
		}
	}

	analytics := s.aggregator.Aggregate(brand, sessionID, sessionDate, results)

	doc, err := overflow.ToDocument(analytics)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session analytics: %w", err)
	}
	if err := s.sessions.Put(ctx, analytics.ID, doc); err != nil {
		return nil, fmt.Errorf("could not save session analytics: %w", err)
	}

	logger.Info("Completed session %s: visibility %.2f%%, top provider %s", sessionID, analytics.VisibilityScore, analytics.Insights.TopPerformingProvider)
	return analytics, nil
}

// appendHistory merges the session's results into the brand history document,
// replacing only this session's prior partial entry
func (s *SessionService) appendHistory(ctx context.Context, brandID, sessionID string, sessionResults []*models.QueryResult) error {
	var hist models.BrandHistory

	doc, err := s.history.Get(ctx, brandID)
	switch {
	case err == nil:
		if err := overflow.FromDocument(doc, &hist); err != nil {
			return fmt.Errorf("failed to decode brand history: %w", err)
		}
	case errors.Is(err, db.ErrNotFound):
		// First session for this brand
	default:
		return fmt.Errorf("failed to read brand history: %w", err)
	}

	kept := make([]*models.QueryResult, 0, len(hist.QueryResults)+len(sessionResults))
	for _, qr := range hist.QueryResults {
		if qr.ProcessingSessionID != sessionID {
			kept = append(kept, qr)
		}
	}
	kept = append(kept, sessionResults...)

	hist.BrandID = brandID
	hist.QueryResults = kept
	hist.UpdatedAt = time.Now().UTC()

	out, err := overflow.ToDocument(&hist)
	if err != nil {
		return fmt.Errorf("failed to serialize brand history: %w", err)
	}
	return s.history.Put(ctx, brandID, out)
}

// History returns the brand's retained query results
func (s *SessionService) History(ctx context.Context, brandID string) ([]*models.QueryResult, error) {
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

// Session returns one stored session analytics record by id
func (s *SessionService) Session(ctx context.Context, sessionID string) (*models.SessionAnalytics, error) {
	doc, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var analytics models.SessionAnalytics
	if err := overflow.FromDocument(doc, &analytics); err != nil {
		return nil, fmt.Errorf("failed to decode session analytics: %w", err)
	}
	return &analytics, nil
}

// ListSessions returns a brand's stored session analytics, newest first,
// narrowed by the filter. A record that fails to load is logged and skipped.
func (s *SessionService) ListSessions(ctx context.Context, filter shared.SessionFilter) ([]*models.SessionAnalytics, error) {
	keys, err := s.index.SessionKeys(ctx, filter.BrandID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []*models.SessionAnalytics
	for _, key := range keys {
		analytics, err := s.Session(ctx, key)
		if err != nil {
			logger.Warning("Skipping unreadable session record %s: %v", key, err)
			continue
		}
		if !matchesFilter(analytics, filter) {
			continue
		}
		sessions = append(sessions, analytics)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(sessions) {
			return nil, nil
		}
		sessions = sessions[filter.Offset:]
	}
	if filter.Limit > 0 && len(sessions) > filter.Limit {
		sessions = sessions[:filter.Limit]
	}
	return sessions, nil
}

func matchesFilter(analytics *models.SessionAnalytics, filter shared.SessionFilter) bool {
	if filter.SessionID != "" && analytics.SessionID != filter.SessionID {
		return false
	}
	if filter.StartTime != nil && analytics.SessionDate.Before(*filter.StartTime) {
		return false
	}
	if filter.EndTime != nil && analytics.SessionDate.After(*filter.EndTime) {
		return false
	}
	return true
}

func boolPtr(b bool) *bool {
	return &b
}
