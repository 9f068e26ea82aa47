package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/brandlens/brandlens/internal/models"
)

// Near-equal domain-citation ratios are treated as tied.
const ratioTolerance = 0.001

// computeInsights ranks providers that processed at least one query by
// (1) total brand mentions, (2) domain-citations-to-citations ratio,
// (3) total citations, all descending. The rank-1 group becomes topProviders;
// on an exact tie across all three keys it holds more than one provider.
// A provider with zero brand mentions and zero domain citations is never top,
// even if it is the only provider processed.
func computeInsights(stats map[models.Provider]*models.ProviderSessionStats) models.SessionInsights {
	insights := models.SessionInsights{
		TopPerformingProvider: models.TopProviderNone,
		TopProviders:          []string{},
	}

	var rows []models.ProviderRanking
	for _, provider := range models.AllProviders {
		s := stats[provider]
		if s == nil || s.QueriesProcessed == 0 {
			continue
		}
		ratio := 0.0
		if s.Citations > 0 {
			ratio = float64(s.DomainCitations) / float64(s.Citations)
		}
		rows = append(rows, models.ProviderRanking{
			Provider:            provider,
			BrandMentions:       s.BrandMentions,
			DomainCitationRatio: ratio,
			Citations:           s.Citations,
		})
	}

	if !hasAnyActivity(stats) {
		return insights
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rankLess(rows[i], rows[j])
	})
	insights.Ranking = rows

	var top *models.ProviderRanking
	for i := range rows {
		if eligible(stats[rows[i].Provider]) {
			top = &rows[i]
			break
		}
	}
	if top == nil {
		return insights
	}

	for _, row := range rows {
		if eligible(stats[row.Provider]) && tied(row, *top) {
			insights.TopProviders = append(insights.TopProviders, string(row.Provider))
		}
	}
	insights.TopPerformingProvider = strings.Join(insights.TopProviders, " & ")

	return insights
}

// hasAnyActivity reports whether the session saw any brand mention or domain
// citation at all; without one the ranking stays at the "none" sentinel.
func hasAnyActivity(stats map[models.Provider]*models.ProviderSessionStats) bool {
	for _, s := range stats {
		if eligible(s) {
			return true
		}
	}
	return false
}

func eligible(s *models.ProviderSessionStats) bool {
	return s != nil && (s.BrandMentions > 0 || s.DomainCitations > 0)
}

func rankLess(a, b models.ProviderRanking) bool {
	if a.BrandMentions != b.BrandMentions {
		return a.BrandMentions > b.BrandMentions
	}
	if !ratiosTied(a.DomainCitationRatio, b.DomainCitationRatio) {
		return a.DomainCitationRatio > b.DomainCitationRatio
	}
	return a.Citations > b.Citations
}

func tied(a, b models.ProviderRanking) bool {
	return a.BrandMentions == b.BrandMentions &&
		ratiosTied(a.DomainCitationRatio, b.DomainCitationRatio) &&
		a.Citations == b.Citations
}

func ratiosTied(a, b float64) bool {
	return math.Abs(a-b) <= ratioTolerance
}
