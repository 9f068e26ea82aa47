package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandlens/brandlens/internal/models"
)

func TestComputeInsightsSingleWinner(t *testing.T) {
	stats := map[models.Provider]*models.ProviderSessionStats{
		models.ProviderChatGPT: {
			Provider: models.ProviderChatGPT, QueriesProcessed: 3,
			BrandMentions: 5, DomainCitations: 2, Citations: 4,
		},
		models.ProviderGoogleAI: {
			Provider: models.ProviderGoogleAI, QueriesProcessed: 3,
			BrandMentions: 2, DomainCitations: 2, Citations: 2,
		},
	}

	insights := computeInsights(stats)
	assert.Equal(t, "chatgpt", insights.TopPerformingProvider)
	assert.Equal(t, []string{"chatgpt"}, insights.TopProviders)
	assert.Len(t, insights.Ranking, 2)
	assert.Equal(t, models.ProviderChatGPT, insights.Ranking[0].Provider)
}

func TestComputeInsightsExactTieJoinsProviders(t *testing.T) {
	stats := map[models.Provider]*models.ProviderSessionStats{
		models.ProviderChatGPT: {
			Provider: models.ProviderChatGPT, QueriesProcessed: 2,
			BrandMentions: 3, DomainCitations: 1, Citations: 2,
		},
		models.ProviderGoogleAI: {
			Provider: models.ProviderGoogleAI, QueriesProcessed: 2,
			BrandMentions: 3, DomainCitations: 1, Citations: 2,
		},
		models.ProviderPerplexity: {
			Provider: models.ProviderPerplexity, QueriesProcessed: 2,
			BrandMentions: 1, DomainCitations: 0, Citations: 5,
		},
	}

	insights := computeInsights(stats)
	assert.Equal(t, "chatgpt & googleAI", insights.TopPerformingProvider)
	assert.Equal(t, []string{"chatgpt", "googleAI"}, insights.TopProviders)
}

func TestComputeInsightsThreeWayTieJoinsAllProviders(t *testing.T) {
	stats := map[models.Provider]*models.ProviderSessionStats{}
	for _, provider := range models.AllProviders {
		stats[provider] = &models.ProviderSessionStats{
			Provider: provider, QueriesProcessed: 2,
			BrandMentions: 3, DomainCitations: 1, Citations: 2,
		}
	}

	insights := computeInsights(stats)
	assert.Equal(t, "chatgpt & googleAI & perplexity", insights.TopPerformingProvider)
	assert.Equal(t, []string{"chatgpt", "googleAI", "perplexity"}, insights.TopProviders)
	assert.Len(t, insights.Ranking, 3)
}

func TestComputeInsightsRatioTolerance(t *testing.T) {
	// 9995/10000 vs 10000/10000 differ by less than the tolerance and count as tied
	stats := map[models.Provider]*models.ProviderSessionStats{
		models.ProviderChatGPT: {
			Provider: models.ProviderChatGPT, QueriesProcessed: 1,
			BrandMentions: 1, DomainCitations: 10000, Citations: 10000,
		},
		models.ProviderPerplexity: {
			Provider: models.ProviderPerplexity, QueriesProcessed: 1,
			BrandMentions: 1, DomainCitations: 9995, Citations: 10000,
		},
	}

	insights := computeInsights(stats)
	assert.Equal(t, "chatgpt & perplexity", insights.TopPerformingProvider)
}

func TestComputeInsightsNoActivity(t *testing.T) {
	stats := map[models.Provider]*models.ProviderSessionStats{
		models.ProviderChatGPT: {
			Provider: models.ProviderChatGPT, QueriesProcessed: 4,
			BrandMentions: 0, DomainCitations: 0, Citations: 12,
		},
	}

	insights := computeInsights(stats)
	assert.Equal(t, models.TopProviderNone, insights.TopPerformingProvider)
	assert.Empty(t, insights.TopProviders)
}

func TestComputeInsightsEmptyStats(t *testing.T) {
	insights := computeInsights(nil)
	assert.Equal(t, models.TopProviderNone, insights.TopPerformingProvider)
	assert.Empty(t, insights.TopProviders)
	assert.Empty(t, insights.Ranking)
}

func TestComputeInsightsIneligibleProviderNeverTops(t *testing.T) {
	// chatgpt has the most citations but zero mentions and zero domain
	// citations; googleAI wins despite smaller volume
	stats := map[models.Provider]*models.ProviderSessionStats{
		models.ProviderChatGPT: {
			Provider: models.ProviderChatGPT, QueriesProcessed: 5,
			BrandMentions: 0, DomainCitations: 0, Citations: 40,
		},
		models.ProviderGoogleAI: {
			Provider: models.ProviderGoogleAI, QueriesProcessed: 5,
			BrandMentions: 1, DomainCitations: 0, Citations: 1,
		},
	}

	insights := computeInsights(stats)
	assert.Equal(t, "googleAI", insights.TopPerformingProvider)
	assert.Equal(t, []string{"googleAI"}, insights.TopProviders)
}
