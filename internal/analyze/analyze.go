package analyze

import (
	"strings"

	"github.com/brandlens/brandlens/internal/models"
)

// ProviderInput is one provider's answer prepared for analysis: the free-text
// body plus the citations extracted from it.
type ProviderInput struct {
	Provider  models.Provider
	Text      string
	Citations []models.Citation
}

// Analyzer computes brand and competitor presence inside provider answers.
// Pure and stateless; safe to call repeatedly and in any order.
type Analyzer struct {
	matcher NameMatcher
}

// New creates an analyzer. A nil matcher falls back to the default
// substring matcher.
func New(matcher NameMatcher) *Analyzer {
	if matcher == nil {
		matcher = NewMatcher()
	}
	return &Analyzer{matcher: matcher}
}

// Analyze computes per-provider and cumulative mention/citation counts for the
// brand and its competitors. Providers absent from inputs are simply excluded,
// never treated as zero results.
func (a *Analyzer) Analyze(brandName, brandDomain string, inputs []ProviderInput, competitors []models.Competitor) *models.BrandMentionAnalysis {
	analysis := &models.BrandMentionAnalysis{
		Providers: make([]*models.BrandAnalysisResult, 0, len(inputs)),
	}

	for _, input := range inputs {
		result := a.analyzeProvider(brandName, brandDomain, input, competitors)
		analysis.Providers = append(analysis.Providers, result)

		analysis.Totals.BrandMentions += result.BrandMentionCount
		analysis.Totals.DomainCitations += result.DomainCitationCount
		analysis.Totals.Citations += result.CitationCount
		analysis.Totals.CompetitorMentions += result.CompetitorMentionCount
		analysis.Totals.CompetitorCitations += result.CompetitorCitationCount
		analysis.Totals.ProvidersConsidered++
		if result.BrandMentioned {
			analysis.Totals.ProvidersWithBrandMention++
		}
	}

	return analysis
}

func (a *Analyzer) analyzeProvider(brandName, brandDomain string, input ProviderInput, competitors []models.Competitor) *models.BrandAnalysisResult {
	result := &models.BrandAnalysisResult{
		Provider:      input.Provider,
		Citations:     input.Citations,
		CitationCount: len(input.Citations),
	}

	result.BrandMentioned = a.matcher.Matches(input.Text, brandName, nil)
	result.BrandMentionCount = a.matcher.Count(input.Text, brandName, nil)

	result.DomainCited = DomainCitedInText(input.Text, brandDomain) ||
		anyCitationWithDomainPrefix(input.Citations, brandDomain)
	result.DomainCitationCount = countDomainCitations(input.Citations, brandDomain)

	for _, competitor := range competitors {
		if a.matcher.Matches(input.Text, competitor.Name, competitor.Aliases) {
			result.CompetitorMentioned = true
		}
		result.CompetitorMentionCount += a.matcher.Count(input.Text, competitor.Name, competitor.Aliases)
	}
	result.CompetitorCitationCount = countCompetitorCitations(input.Citations, competitors)
	result.CompetitorCited = result.CompetitorCitationCount > 0

	return result
}

// DomainCitedInText checks for the brand domain inside the answer body. The
// "www." form is checked first and short-circuits; the bare form is only
// consulted when it is absent. Keep this asymmetry exactly as-is.
func DomainCitedInText(text, domain string) bool {
	if strings.TrimSpace(domain) == "" {
		return false
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "https://www."+strings.ToLower(domain)) {
		return true
	}
	return strings.Contains(lower, "https://"+strings.ToLower(domain))
}

// CitationMatchesDomain is the stricter citation-membership variant: the
// citation URL must start with https://www.<domain>/ or https://<domain>/.
// Intentionally stricter than the substring form used for counting.
func CitationMatchesDomain(citationURL, domain string) bool {
	if strings.TrimSpace(domain) == "" {
		return false
	}
	lower := strings.ToLower(citationURL)
	domain = strings.ToLower(domain)
	return strings.HasPrefix(lower, "https://www."+domain+"/") ||
		strings.HasPrefix(lower, "https://"+domain+"/")
}

// citationCountsDomain is the looser substring form used for counting
func citationCountsDomain(citationURL, domain string) bool {
	if strings.TrimSpace(domain) == "" {
		return false
	}
	lower := strings.ToLower(citationURL)
	domain = strings.ToLower(domain)
	return strings.Contains(lower, "https://www."+domain) ||
		strings.Contains(lower, "https://"+domain)
}

func anyCitationWithDomainPrefix(citations []models.Citation, domain string) bool {
	for _, citation := range citations {
		if CitationMatchesDomain(citation.URL, domain) {
			return true
		}
	}
	return false
}

func countDomainCitations(citations []models.Citation, domain string) int {
	count := 0
	for _, citation := range citations {
		if citationCountsDomain(citation.URL, domain) {
			count++
		}
	}
	return count
}

// CitationMatchesCompetitor returns the name of the first competitor whose name
// or alias is contained in either the citation URL or its text, or ""
func CitationMatchesCompetitor(citation models.Citation, competitors []models.Competitor) string {
	urlLower := strings.ToLower(citation.URL)
	textLower := strings.ToLower(citation.Text)
	for _, competitor := range competitors {
		for _, candidate := range namesOf(competitor.Name, competitor.Aliases) {
			needle := strings.ToLower(candidate)
			if needle == "" {
				continue
			}
			if strings.Contains(urlLower, needle) || strings.Contains(textLower, needle) {
				return competitor.Name
			}
		}
	}
	return ""
}

func countCompetitorCitations(citations []models.Citation, competitors []models.Competitor) int {
	count := 0
	for _, citation := range citations {
		if CitationMatchesCompetitor(citation, competitors) != "" {
			count++
		}
	}
	return count
}
