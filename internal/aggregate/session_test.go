package aggregate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/aggregate"
	"github.com/brandlens/brandlens/internal/models"
)

func acmeBrand() *models.Brand {
	return &models.Brand{
		ID:     "brand-1",
		Name:   "Acme",
		Domain: "acme.com",
		Competitors: []models.Competitor{
			{Name: "WidgetCo"},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestSessionAggregateVisibilityScore(t *testing.T) {
	aggregator := aggregate.NewSession(nil)
	brand := acmeBrand()
	sessionDate := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	results := []*models.QueryResult{
		{
			Query:               "best widgets",
			ProcessingSessionID: "s1",
			Date:                sessionDate,
			Results: models.ProviderAnswerSet{
				ChatGPT: &models.ChatGPTAnswer{
					Response: "Acme makes the best widgets. See https://acme.com/products for details.",
				},
				GoogleAI: &models.GoogleAIAnswer{
					AIOverview: "Widgets are made by many companies.",
				},
			},
		},
		{
			Query:               "widget pricing",
			ProcessingSessionID: "s1",
			Date:                sessionDate,
			Results: models.ProviderAnswerSet{
				ChatGPT:  &models.ChatGPTAnswer{Response: "There are many options on the market."},
				GoogleAI: &models.GoogleAIAnswer{AIOverview: "Prices vary widely."},
			},
		},
	}

	analytics := aggregator.Aggregate(brand, "s1", sessionDate, results)

	assert.NotEmpty(t, analytics.ID)
	assert.Equal(t, "brand-1", analytics.BrandID)
	assert.Equal(t, "s1", analytics.SessionID)
	assert.Equal(t, 2, analytics.QueriesTotal)

	// One brand mention across four provider slots
	assert.InDelta(t, 25.0, analytics.VisibilityScore, 0.0001)

	chatgpt := analytics.ProviderStats[models.ProviderChatGPT]
	require.NotNil(t, chatgpt)
	assert.Equal(t, 2, chatgpt.QueriesProcessed)
	// "Acme" in the text plus "acme" inside the cited URL
	assert.Equal(t, 2, chatgpt.BrandMentions)
	assert.Equal(t, 1, chatgpt.DomainCitations)
	assert.Equal(t, 1, chatgpt.Citations)

	googleAI := analytics.ProviderStats[models.ProviderGoogleAI]
	require.NotNil(t, googleAI)
	assert.Equal(t, 2, googleAI.QueriesProcessed)
	assert.Equal(t, 0, googleAI.BrandMentions)

	assert.Equal(t, "chatgpt", analytics.Insights.TopPerformingProvider)

	// Each query's analysis is recomputed and attached
	require.NotNil(t, results[0].Analysis)
	assert.True(t, results[0].Analysis.Result(models.ProviderChatGPT).BrandMentioned)
}

func TestSessionAggregateResponseTimes(t *testing.T) {
	aggregator := aggregate.NewSession(nil)
	brand := acmeBrand()
	now := time.Now().UTC()

	results := []*models.QueryResult{
		{
			Query: "q1",
			Results: models.ProviderAnswerSet{
				ChatGPT:  &models.ChatGPTAnswer{Response: "Acme wins.", ResponseTimeMs: floatPtr(100)},
				GoogleAI: &models.GoogleAIAnswer{AIOverview: "Acme again."},
			},
		},
		{
			Query: "q2",
			Results: models.ProviderAnswerSet{
				ChatGPT: &models.ChatGPTAnswer{Response: "Acme still wins.", ResponseTimeMs: floatPtr(200)},
			},
		},
	}

	analytics := aggregator.Aggregate(brand, "s1", now, results)

	chatgpt := analytics.ProviderStats[models.ProviderChatGPT]
	require.NotNil(t, chatgpt)
	require.NotNil(t, chatgpt.AvgResponseTimeMs)
	assert.InDelta(t, 150.0, *chatgpt.AvgResponseTimeMs, 0.0001)

	googleAI := analytics.ProviderStats[models.ProviderGoogleAI]
	require.NotNil(t, googleAI)
	assert.Nil(t, googleAI.AvgResponseTimeMs, "providers without reported times omit the average")
}

func TestSessionAggregateTopProviderTie(t *testing.T) {
	aggregator := aggregate.NewSession(nil)
	brand := acmeBrand()
	now := time.Now().UTC()

	body := "Acme is great. Visit https://acme.com/pricing today."
	results := []*models.QueryResult{
		{
			Query: "q1",
			Results: models.ProviderAnswerSet{
				ChatGPT:  &models.ChatGPTAnswer{Response: body},
				GoogleAI: &models.GoogleAIAnswer{AIOverview: body},
			},
		},
	}

	analytics := aggregator.Aggregate(brand, "s1", now, results)
	assert.Equal(t, "chatgpt & googleAI", analytics.Insights.TopPerformingProvider)
	assert.Equal(t, []string{"chatgpt", "googleAI"}, analytics.Insights.TopProviders)
}

func TestSessionAggregateNoResults(t *testing.T) {
	aggregator := aggregate.NewSession(nil)
	analytics := aggregator.Aggregate(acmeBrand(), "s1", time.Now().UTC(), nil)

	assert.Equal(t, 0, analytics.QueriesTotal)
	assert.Zero(t, analytics.VisibilityScore)
	assert.Equal(t, models.TopProviderNone, analytics.Insights.TopPerformingProvider)
	assert.Empty(t, analytics.ProviderStats)
}

func TestSessionAggregateDeterministic(t *testing.T) {
	aggregator := aggregate.NewSession(nil)
	brand := acmeBrand()
	date := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	build := func() []*models.QueryResult {
		return []*models.QueryResult{
			{
				Query: "q1",
				Results: models.ProviderAnswerSet{
					ChatGPT:    &models.ChatGPTAnswer{Response: "Acme leads, see https://acme.com/a."},
					Perplexity: &models.PerplexityAnswer{Response: "WidgetCo competes with Acme."},
				},
			},
		}
	}

	a := aggregator.Aggregate(brand, "s1", date, build())
	b := aggregator.Aggregate(brand, "s1", date, build())

	assert.Equal(t, a.Totals, b.Totals)
	assert.Equal(t, a.VisibilityScore, b.VisibilityScore)
	assert.Equal(t, a.Insights, b.Insights)
}
