package aggregate

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/analyze"
	"github.com/brandlens/brandlens/internal/extract"
	"github.com/brandlens/brandlens/internal/models"
)

// SessionAggregator folds a batch of per-query results into one session-level
// analytics record. Synchronous and store-free; the caller persists the result.
type SessionAggregator struct {
	analyzer *analyze.Analyzer
}

// NewSession creates a session aggregator. A nil analyzer gets the default
// matcher.
func NewSession(analyzer *analyze.Analyzer) *SessionAggregator {
	if analyzer == nil {
		analyzer = analyze.New(nil)
	}
	return &SessionAggregator{analyzer: analyzer}
}

// Aggregate extracts citations and runs brand analysis for every query result,
// then accumulates session totals, per-provider stats, the visibility score and
// the top-provider determination. Each query's analysis is recomputed from its
// answers and attached to the QueryResult.
func (g *SessionAggregator) Aggregate(brand *models.Brand, sessionID string, sessionDate time.Time, results []*models.QueryResult) *models.SessionAnalytics {
	analytics := &models.SessionAnalytics{
		ID:            uuid.NewString(),
		BrandID:       brand.ID,
		SessionID:     sessionID,
		SessionDate:   sessionDate,
		QueriesTotal:  len(results),
		ProviderStats: make(map[models.Provider]*models.ProviderSessionStats),
		CreatedAt:     time.Now().UTC(),
	}

	// The visibility numerator/denominator accumulate per query, not per
	// session-as-a-whole.
	mentionSlots := 0
	consideredSlots := 0

	responseTimeSums := make(map[models.Provider]float64)
	responseTimeCounts := make(map[models.Provider]int)

	for _, qr := range results {
		analysis := g.AnalyzeQuery(brand, qr)
		analytics.Totals.Add(analysis.Totals)

		mentionSlots += analysis.Totals.ProvidersWithBrandMention
		consideredSlots += analysis.Totals.ProvidersConsidered

		for _, result := range analysis.Providers {
			stats := analytics.ProviderStats[result.Provider]
			if stats == nil {
				stats = &models.ProviderSessionStats{Provider: result.Provider}
				analytics.ProviderStats[result.Provider] = stats
			}
			stats.QueriesProcessed++
			stats.BrandMentions += result.BrandMentionCount
			stats.DomainCitations += result.DomainCitationCount
			stats.Citations += result.CitationCount
			stats.CompetitorMentions += result.CompetitorMentionCount
			stats.CompetitorCitations += result.CompetitorCitationCount

			if rt := qr.Results.ResponseTime(result.Provider); rt != nil {
				responseTimeSums[result.Provider] += *rt
				responseTimeCounts[result.Provider]++
			}
		}
	}

	if consideredSlots > 0 {
		analytics.VisibilityScore = round2(float64(mentionSlots) / float64(consideredSlots) * 100)
	}

	// Providers that never reported a response time omit the average entirely.
	for provider, stats := range analytics.ProviderStats {
		if count := responseTimeCounts[provider]; count > 0 {
			avg := responseTimeSums[provider] / float64(count)
			stats.AvgResponseTimeMs = &avg
		}
	}

	analytics.Insights = computeInsights(analytics.ProviderStats)

	return analytics
}

// AnalyzeQuery recomputes one query's brand analysis from its raw answers and
// attaches it to the QueryResult.
func (g *SessionAggregator) AnalyzeQuery(brand *models.Brand, qr *models.QueryResult) *models.BrandMentionAnalysis {
	citations := extract.All(&qr.Results)

	inputs := make([]analyze.ProviderInput, 0, len(citations))
	for _, provider := range models.AllProviders {
		if !qr.Results.Has(provider) {
			continue
		}
		inputs = append(inputs, analyze.ProviderInput{
			Provider:  provider,
			Text:      qr.Results.Body(provider),
			Citations: citations[provider],
		})
	}

	analysis := g.analyzer.Analyze(brand.Name, brand.Domain, inputs, brand.Competitors)
	qr.Analysis = analysis
	return analysis
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
