package aggregate

import (
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/analyze"
	"github.com/brandlens/brandlens/internal/models"
)

// LifetimeSessionID is the synthetic session id used when the whole history is
// rolled up as one batch.
const LifetimeSessionID = "lifetime"

// LifetimeAggregator folds a brand's entire query history into one cumulative
// analytics record. It recomputes wholesale on every invocation rather than
// updating incrementally: historical sources can be appended to independently
// and out of order, and recomputation guarantees consistency at the cost of
// O(history) work per call.
type LifetimeAggregator struct {
	session *SessionAggregator
}

// NewLifetime creates a lifetime aggregator sharing the session roll-up logic
func NewLifetime(session *SessionAggregator) *LifetimeAggregator {
	if session == nil {
		session = NewSession(nil)
	}
	return &LifetimeAggregator{session: session}
}

// Aggregate rolls up the full history. A brand with zero historical records
// gets an explicit all-zero record rather than an error.
func (g *LifetimeAggregator) Aggregate(brand *models.Brand, history []*models.QueryResult, now time.Time) *models.LifetimeAnalytics {
	lifetime := &models.LifetimeAnalytics{
		ID:            uuid.NewString(),
		BrandID:       brand.ID,
		QueriesTotal:  len(history),
		ProviderStats: make(map[models.Provider]*models.ProviderSessionStats),
		Insights: models.SessionInsights{
			TopPerformingProvider: models.TopProviderNone,
			TopProviders:          []string{},
		},
		AllCitations: []models.CitationRecord{},
		ComputedAt:   now,
	}

	if len(history) == 0 {
		return lifetime
	}

	rollup := g.session.Aggregate(brand, LifetimeSessionID, now, history)
	lifetime.Totals = rollup.Totals
	lifetime.VisibilityScore = rollup.VisibilityScore
	lifetime.ProviderStats = rollup.ProviderStats
	lifetime.Insights = rollup.Insights

	sessions := make(map[string]bool)
	var first, last time.Time

	for _, qr := range history {
		if qr.ProcessingSessionID != "" {
			sessions[qr.ProcessingSessionID] = true
		}

		if !qr.Date.IsZero() {
			if first.IsZero() || qr.Date.Before(first) {
				first = qr.Date
			}
			if last.IsZero() || qr.Date.After(last) {
				last = qr.Date
			}
		}

		lifetime.AllCitations = append(lifetime.AllCitations, citationRecords(brand, qr)...)
	}

	lifetime.SessionsTotal = len(sessions)
	if !first.IsZero() {
		lifetime.FirstProcessedAt = &first
	}
	if !last.IsZero() {
		lifetime.LastProcessedAt = &last
	}

	return lifetime
}

// citationRecords flattens one query's citations with full provenance. The
// query's analysis has been recomputed by the session roll-up before this runs.
func citationRecords(brand *models.Brand, qr *models.QueryResult) []models.CitationRecord {
	if qr.Analysis == nil {
		return nil
	}

	var records []models.CitationRecord
	for _, result := range qr.Analysis.Providers {
		for _, citation := range result.Citations {
			records = append(records, models.CitationRecord{
				URL:            citation.URL,
				Text:           citation.Text,
				Source:         citation.Source,
				Type:           citation.Type,
				Provider:       result.Provider,
				Query:          qr.Query,
				Keyword:        qr.Keyword,
				SessionID:      qr.ProcessingSessionID,
				Date:           qr.Date,
				IsBrandDomain:  analyze.CitationMatchesDomain(citation.URL, brand.Domain),
				CompetitorName: analyze.CitationMatchesCompetitor(citation, brand.Competitors),
			})
		}
	}
	return records
}
