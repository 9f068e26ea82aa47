package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/extract"
	"github.com/brandlens/brandlens/internal/models"
)

func TestExtractNilAnswers(t *testing.T) {
	for _, provider := range models.AllProviders {
		assert.Empty(t, extract.Extract(provider, nil), "provider %s", provider)
		assert.Empty(t, extract.Extract(provider, &models.ProviderAnswerSet{}), "provider %s", provider)
	}
}

func TestExtractChatGPT(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		ChatGPT: &models.ChatGPTAnswer{
			Response: "Acme leads the market ([Acme pricing](https://acme.com/pricing)). " +
				"More details at https://acme.com/pricing?utm_source=chat and https://widgetco.com/compare.",
		},
	}

	citations := extract.Extract(models.ProviderChatGPT, answers)
	require.Len(t, citations, 2)

	assert.Equal(t, "https://acme.com/pricing", citations[0].URL)
	assert.Equal(t, "Acme pricing", citations[0].Text)
	assert.Equal(t, extract.TypeInline, citations[0].Type)
	assert.Equal(t, 1, citations[0].Index)

	assert.Equal(t, "https://widgetco.com/compare", citations[1].URL)
	assert.Equal(t, 2, citations[1].Index)
}

func TestExtractChatGPTSearchEngineLinks(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		ChatGPT: &models.ChatGPTAnswer{
			Response: "I searched https://www.bing.com/search?q=best+widgets and found https://acme.com/products.",
		},
	}

	citations := extract.Extract(models.ProviderChatGPT, answers)
	require.Len(t, citations, 2)

	assert.Equal(t, extract.TypeSearchEngine, citations[0].Type)
	assert.Equal(t, "Bing", citations[0].Source)
	assert.Equal(t, "https://www.bing.com/search?q=best+widgets", citations[0].URL)
	assert.Equal(t, extract.TypeInline, citations[1].Type)
}

func TestExtractChatGPTParenDomains(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		ChatGPT: &models.ChatGPTAnswer{
			Response: "Top vendors include Acme (acme.com) and WidgetCo (widgetco.io).",
		},
	}

	citations := extract.Extract(models.ProviderChatGPT, answers)
	require.Len(t, citations, 2)
	assert.Equal(t, "https://acme.com", citations[0].URL)
	assert.Equal(t, "acme.com", citations[0].Text)
	assert.Equal(t, "https://widgetco.io", citations[1].URL)
}

func TestExtractChatGPTNumberedCitations(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		ChatGPT: &models.ChatGPTAnswer{
			Response: "Acme is rated highest [[1]](https://reviews.example.com/acme) in 2025 surveys.",
		},
	}

	citations := extract.Extract(models.ProviderChatGPT, answers)
	require.Len(t, citations, 1)
	assert.Equal(t, "https://reviews.example.com/acme", citations[0].URL)
	assert.Equal(t, "reviews.example.com", citations[0].Text)
}

func TestExtractGoogleAIReferencesWinDedup(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		GoogleAI: &models.GoogleAIAnswer{
			HasAIOverview: true,
			AIOverview:    "Acme offers widgets, see [shop](https://acme.com/shop) and https://other.example.org/page.",
			AIOverviewReferences: []models.AIOverviewReference{
				{Domain: "acme.com", URL: "https://acme.com/shop", Title: "Acme Shop"},
				{Domain: "", URL: "  "},
			},
		},
	}

	citations := extract.Extract(models.ProviderGoogleAI, answers)
	require.Len(t, citations, 2)

	// The structured reference ran first, so its title wins over the
	// markdown link text for the same URL.
	assert.Equal(t, "https://acme.com/shop", citations[0].URL)
	assert.Equal(t, "Acme Shop", citations[0].Text)
	assert.Equal(t, extract.TypeReference, citations[0].Type)
	assert.Equal(t, "acme.com", citations[0].Source)

	assert.Equal(t, "https://other.example.org/page", citations[1].URL)
	assert.Equal(t, extract.TypeInline, citations[1].Type)
}

func TestExtractGoogleAINoOverview(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		GoogleAI: &models.GoogleAIAnswer{
			HasAIOverview: false,
			AIOverviewReferences: []models.AIOverviewReference{
				{Domain: "acme.com", URL: "https://acme.com/shop"},
			},
		},
	}

	// Without an overview the reference list is not trusted
	assert.Empty(t, extract.Extract(models.ProviderGoogleAI, answers))
}

func TestExtractPerplexityDropsFirstCitation(t *testing.T) {
	tests := []struct {
		name     string
		answer   *models.PerplexityAnswer
		wantURLs []string
	}{
		{
			name: "citation list loses its head",
			answer: &models.PerplexityAnswer{
				CitationsData: "https://a.example.com|||https://b.example.com|||https://c.example.com",
			},
			wantURLs: []string{"https://b.example.com", "https://c.example.com"},
		},
		{
			name: "single citation yields nothing",
			answer: &models.PerplexityAnswer{
				CitationsData: "https://only.example.com",
			},
			wantURLs: []string{},
		},
		{
			name:     "no citations at all",
			answer:   &models.PerplexityAnswer{Response: "Nothing sourced here."},
			wantURLs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			citations := extract.Extract(models.ProviderPerplexity, &models.ProviderAnswerSet{Perplexity: tt.answer})
			urls := make([]string, 0, len(citations))
			for i, c := range citations {
				assert.Equal(t, i+1, c.Index, "indexes renumber after the drop")
				urls = append(urls, c.URL)
			}
			assert.Equal(t, tt.wantURLs, urls)
		})
	}
}

func TestExtractPerplexitySearchResultsAndStructured(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		Perplexity: &models.PerplexityAnswer{
			SearchResultsData:       "Acme Review|||https://reviews.example.com/acme###Widget Guide|||https://guide.example.com/widgets",
			StructuredCitationsData: `[{"title":"Acme Docs","url":"https://docs.acme.com/start"}]`,
		},
	}

	citations := extract.Extract(models.ProviderPerplexity, answers)
	require.Len(t, citations, 2)

	// reviews.example.com was first assembled and got dropped
	assert.Equal(t, "https://guide.example.com/widgets", citations[0].URL)
	assert.Equal(t, "Widget Guide", citations[0].Text)
	assert.Equal(t, "https://docs.acme.com/start", citations[1].URL)
	assert.Equal(t, "Acme Docs", citations[1].Text)
}

func TestExtractAll(t *testing.T) {
	answers := &models.ProviderAnswerSet{
		ChatGPT:  &models.ChatGPTAnswer{Response: "Visit https://acme.com/home today."},
		GoogleAI: &models.GoogleAIAnswer{AIOverview: "Nothing cited."},
	}

	byProvider := extract.All(answers)
	require.Len(t, byProvider, 2)
	assert.Len(t, byProvider[models.ProviderChatGPT], 1)
	assert.Empty(t, byProvider[models.ProviderGoogleAI])
	_, ok := byProvider[models.ProviderPerplexity]
	assert.False(t, ok, "absent providers are excluded, not zeroed")
}
