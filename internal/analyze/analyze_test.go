package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/analyze"
	"github.com/brandlens/brandlens/internal/models"
)

func TestDomainCitedInText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		domain string
		want   bool
	}{
		{
			name:   "www form cited",
			text:   "Details at https://www.acme.com/about today",
			domain: "acme.com",
			want:   true,
		},
		{
			name:   "bare form cited",
			text:   "Details at https://acme.com/about today",
			domain: "acme.com",
			want:   true,
		},
		{
			name:   "case insensitive",
			text:   "Details at HTTPS://WWW.ACME.COM/about",
			domain: "Acme.com",
			want:   true,
		},
		{
			name:   "http scheme does not count",
			text:   "Details at http://acme.com/about",
			domain: "acme.com",
			want:   false,
		},
		{
			name:   "brand name without link does not count",
			text:   "Acme makes widgets",
			domain: "acme.com",
			want:   false,
		},
		{
			name:   "substring form accepts longer hosts sharing the prefix",
			text:   "See https://acme.com.partners.example for details",
			domain: "acme.com",
			want:   true,
		},
		{
			name:   "empty domain never cited",
			text:   "See https://acme.com/",
			domain: "  ",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyze.DomainCitedInText(tt.text, tt.domain))
		})
	}
}

func TestCitationMatchesDomain(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "bare domain with path", url: "https://acme.com/pricing", want: true},
		{name: "www domain with path", url: "https://www.acme.com/pricing", want: true},
		{name: "no trailing slash is rejected", url: "https://acme.com", want: false},
		{name: "longer host sharing the prefix is rejected", url: "https://acme.com.evil.example/", want: false},
		{name: "subdomain is rejected", url: "https://blog.acme.com/post", want: false},
		{name: "http scheme is rejected", url: "http://acme.com/pricing", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyze.CitationMatchesDomain(tt.url, "acme.com"))
		})
	}
}

func TestAnalyzerCounts(t *testing.T) {
	analyzer := analyze.New(nil)

	inputs := []analyze.ProviderInput{
		{
			Provider: models.ProviderChatGPT,
			Text:     "Acme and ACME again. WidgetCo also competes. See https://acme.com/pricing.",
			Citations: []models.Citation{
				{URL: "https://acme.com/pricing", Text: "Acme pricing"},
				{URL: "https://widgetco.com/compare", Text: "comparison"},
			},
		},
		{
			Provider:  models.ProviderGoogleAI,
			Text:      "Nothing about the brand here.",
			Citations: []models.Citation{},
		},
	}
	competitors := []models.Competitor{
		{Name: "WidgetCo", Aliases: []string{"Widget Company"}},
	}

	analysis := analyzer.Analyze("Acme", "acme.com", inputs, competitors)
	require.Len(t, analysis.Providers, 2)

	chatgpt := analysis.Providers[0]
	assert.Equal(t, models.ProviderChatGPT, chatgpt.Provider)
	assert.True(t, chatgpt.BrandMentioned)
	// "Acme", "ACME" and the "acme" inside the URL all count
	assert.Equal(t, 3, chatgpt.BrandMentionCount)
	assert.True(t, chatgpt.DomainCited)
	assert.Equal(t, 1, chatgpt.DomainCitationCount)
	assert.Equal(t, 2, chatgpt.CitationCount)
	assert.True(t, chatgpt.CompetitorMentioned)
	assert.Equal(t, 1, chatgpt.CompetitorMentionCount)
	assert.True(t, chatgpt.CompetitorCited)
	assert.Equal(t, 1, chatgpt.CompetitorCitationCount)

	googleAI := analysis.Providers[1]
	assert.False(t, googleAI.BrandMentioned)
	assert.Equal(t, 0, googleAI.CitationCount)

	assert.Equal(t, 3, analysis.Totals.BrandMentions)
	assert.Equal(t, 1, analysis.Totals.DomainCitations)
	assert.Equal(t, 2, analysis.Totals.Citations)
	assert.Equal(t, 1, analysis.Totals.CompetitorMentions)
	assert.Equal(t, 1, analysis.Totals.CompetitorCitations)
	assert.Equal(t, 2, analysis.Totals.ProvidersConsidered)
	assert.Equal(t, 1, analysis.Totals.ProvidersWithBrandMention)
}

func TestAnalyzerDomainCitedViaCitationOnly(t *testing.T) {
	analyzer := analyze.New(nil)

	// The answer body never spells out the URL, but the extracted citation
	// starts with the brand domain.
	inputs := []analyze.ProviderInput{
		{
			Provider:  models.ProviderPerplexity,
			Text:      "The market leader publishes benchmarks.",
			Citations: []models.Citation{{URL: "https://acme.com/benchmarks", Text: "benchmarks"}},
		},
	}

	analysis := analyzer.Analyze("Acme", "acme.com", inputs, nil)
	require.Len(t, analysis.Providers, 1)
	assert.True(t, analysis.Providers[0].DomainCited)
	assert.False(t, analysis.Providers[0].BrandMentioned)
}

func TestCitationMatchesCompetitor(t *testing.T) {
	competitors := []models.Competitor{
		{Name: "WidgetCo", Aliases: []string{"WC Industries"}},
		{Name: "Globex"},
	}

	tests := []struct {
		name     string
		citation models.Citation
		want     string
	}{
		{
			name:     "match in url",
			citation: models.Citation{URL: "https://widgetco.com/about", Text: "about"},
			want:     "WidgetCo",
		},
		{
			name:     "alias match in text",
			citation: models.Citation{URL: "https://news.example.com/1", Text: "WC Industries earnings"},
			want:     "WidgetCo",
		},
		{
			name:     "second competitor",
			citation: models.Citation{URL: "https://globex.example.com/", Text: ""},
			want:     "Globex",
		},
		{
			name:     "no match",
			citation: models.Citation{URL: "https://neutral.example.com/", Text: "industry report"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyze.CitationMatchesCompetitor(tt.citation, competitors))
		})
	}
}

func TestMatcherCountEscapesMetacharacters(t *testing.T) {
	matcher := analyze.NewMatcher()
	assert.Equal(t, 2, matcher.Count("C++ tools and c++ compilers", "C++", nil))
	assert.Equal(t, 0, matcher.Count("anything", "   ", nil))
}
