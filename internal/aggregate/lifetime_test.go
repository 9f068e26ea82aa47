package aggregate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/aggregate"
	"github.com/brandlens/brandlens/internal/models"
)

func TestLifetimeAggregateEmptyHistory(t *testing.T) {
	aggregator := aggregate.NewLifetime(nil)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	lifetime := aggregator.Aggregate(acmeBrand(), nil, now)

	assert.NotEmpty(t, lifetime.ID)
	assert.Equal(t, "brand-1", lifetime.BrandID)
	assert.Equal(t, 0, lifetime.QueriesTotal)
	assert.Equal(t, 0, lifetime.SessionsTotal)
	assert.Zero(t, lifetime.VisibilityScore)
	assert.Equal(t, models.TopProviderNone, lifetime.Insights.TopPerformingProvider)
	assert.NotNil(t, lifetime.AllCitations)
	assert.Empty(t, lifetime.AllCitations)
	assert.Nil(t, lifetime.FirstProcessedAt)
	assert.Nil(t, lifetime.LastProcessedAt)
	assert.Equal(t, now, lifetime.ComputedAt)
}

func TestLifetimeAggregateRollsUpHistory(t *testing.T) {
	aggregator := aggregate.NewLifetime(nil)
	brand := acmeBrand()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	history := []*models.QueryResult{
		{
			Query:               "best widgets",
			Keyword:             "widgets",
			ProcessingSessionID: "s1",
			Date:                earlier,
			Results: models.ProviderAnswerSet{
				ChatGPT: &models.ChatGPTAnswer{
					Response: "Acme leads. See https://acme.com/products and https://widgetco.com/rival.",
				},
			},
		},
		{
			Query:               "widget pricing",
			ProcessingSessionID: "s2",
			Date:                later,
			Results: models.ProviderAnswerSet{
				Perplexity: &models.PerplexityAnswer{
					Response: "Acme pricing is public.",
				},
			},
		},
	}

	lifetime := aggregator.Aggregate(brand, history, now)

	assert.Equal(t, 2, lifetime.QueriesTotal)
	assert.Equal(t, 2, lifetime.SessionsTotal)
	require.NotNil(t, lifetime.FirstProcessedAt)
	require.NotNil(t, lifetime.LastProcessedAt)
	assert.Equal(t, earlier, *lifetime.FirstProcessedAt)
	assert.Equal(t, later, *lifetime.LastProcessedAt)

	// Both providers answered their one query and mentioned the brand
	assert.InDelta(t, 100.0, lifetime.VisibilityScore, 0.0001)

	require.Len(t, lifetime.AllCitations, 2)

	first := lifetime.AllCitations[0]
	assert.Equal(t, "https://acme.com/products", first.URL)
	assert.Equal(t, models.ProviderChatGPT, first.Provider)
	assert.Equal(t, "best widgets", first.Query)
	assert.Equal(t, "widgets", first.Keyword)
	assert.Equal(t, "s1", first.SessionID)
	assert.Equal(t, earlier, first.Date)
	assert.True(t, first.IsBrandDomain)
	assert.Empty(t, first.CompetitorName)

	second := lifetime.AllCitations[1]
	assert.Equal(t, "https://widgetco.com/rival", second.URL)
	assert.False(t, second.IsBrandDomain)
	assert.Equal(t, "WidgetCo", second.CompetitorName)
}

func TestLifetimeAggregateTotalsGrowWithHistory(t *testing.T) {
	aggregator := aggregate.NewLifetime(nil)
	brand := acmeBrand()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	history := []*models.QueryResult{
		{
			Query:               "best widgets",
			ProcessingSessionID: "s1",
			Date:                time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC),
			Results: models.ProviderAnswerSet{
				ChatGPT: &models.ChatGPTAnswer{
					Response: "Acme leads. See https://acme.com/products and https://widgetco.com/rival.",
				},
			},
		},
	}
	appended := append(history, &models.QueryResult{
		Query:               "widget pricing",
		ProcessingSessionID: "s2",
		Date:                time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Results: models.ProviderAnswerSet{
			Perplexity: &models.PerplexityAnswer{
				Response: "Acme pricing is public, unlike WidgetCo. See https://widgetco.com/pricing.",
			},
		},
	})

	before := aggregator.Aggregate(brand, history, now)
	after := aggregator.Aggregate(brand, appended, now)

	// Appending records never shrinks any counter
	assert.GreaterOrEqual(t, after.QueriesTotal, before.QueriesTotal)
	assert.GreaterOrEqual(t, after.SessionsTotal, before.SessionsTotal)
	assert.GreaterOrEqual(t, after.Totals.BrandMentions, before.Totals.BrandMentions)
	assert.GreaterOrEqual(t, after.Totals.DomainCitations, before.Totals.DomainCitations)
	assert.GreaterOrEqual(t, after.Totals.Citations, before.Totals.Citations)
	assert.GreaterOrEqual(t, after.Totals.CompetitorMentions, before.Totals.CompetitorMentions)
	assert.GreaterOrEqual(t, after.Totals.CompetitorCitations, before.Totals.CompetitorCitations)
	assert.GreaterOrEqual(t, after.Totals.ProvidersWithBrandMention, before.Totals.ProvidersWithBrandMention)
	assert.GreaterOrEqual(t, after.Totals.ProvidersConsidered, before.Totals.ProvidersConsidered)
	assert.GreaterOrEqual(t, len(after.AllCitations), len(before.AllCitations))

	assert.Equal(t, 2, after.QueriesTotal)
	assert.Equal(t, 2, after.SessionsTotal)
}

func TestLifetimeAggregateSessionlessRecords(t *testing.T) {
	aggregator := aggregate.NewLifetime(nil)
	now := time.Now().UTC()

	history := []*models.QueryResult{
		{
			Query:   "q1",
			Results: models.ProviderAnswerSet{ChatGPT: &models.ChatGPTAnswer{Response: "Acme."}},
		},
	}

	lifetime := aggregator.Aggregate(acmeBrand(), history, now)
	assert.Equal(t, 1, lifetime.QueriesTotal)
	assert.Equal(t, 0, lifetime.SessionsTotal, "records without a session id do not invent one")
	assert.Nil(t, lifetime.FirstProcessedAt, "zero dates stay unset")
}
