package extract

import (
	"fmt"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/brandlens/brandlens/internal/models"
)

// A pass is one pattern-matching strategy applied over an answer body. Passes
// are pure; each returns the citations it found and nothing else. Precedence
// between passes is handled by the collector's running dedup.
type pass func(body string) []models.Citation

var (
	// [text](source=https://...) and bare source=https://... fragments that
	// models sometimes emit instead of well-formed links
	sourceAttrLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(source=(https?://[^\s)]+)\)`)
	sourceAttrBareRe = regexp.MustCompile(`source=["']?(https?://[^\s"'<>)\]]+)`)

	// [[n]](https://...) numbered citation markers
	numberedCitationRe = regexp.MustCompile(`\[\[(\d+)\]\]\((https?://[^)\s]+)\)`)

	// [text](https://...) standard markdown links, optional title ignored
	markdownLinkRe = regexp.MustCompile(`\[([^\[\]]+)\]\((https?://[^)\s]+?)(?:\s+"[^"]*")?\)`)

	// (example.com) parenthesized bare-domain references
	parenDomainRe = regexp.MustCompile(`\(\s*([a-zA-Z0-9][a-zA-Z0-9-]*(?:\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,})\s*\)`)

	// bare domain starting a clause right after a sentence-ending period
	afterPeriodDomainRe = regexp.MustCompile(`[.!?]\s+([a-zA-Z0-9][a-zA-Z0-9-]*(?:\.[a-zA-Z0-9-]+)*\.(?:com|org|net|io|ai|co|dev|app|edu|gov))\b`)

	bareURLFinder = xurls.Strict()
)

// searchEngineLinks builds the pass that pulls a provider's own search-engine
// links out first, so they are labeled as that engine's citation kind and never
// mislabeled as a site citation.
func searchEngineLinks(hostPattern *regexp.Regexp, source string) pass {
	return func(body string) []models.Citation {
		var citations []models.Citation
		for _, match := range hostPattern.FindAllString(body, -1) {
			u := strings.TrimRight(match, ".,;:)]")
			citations = append(citations, models.Citation{
				URL:    u,
				Text:   source,
				Source: source,
				Type:   TypeSearchEngine,
			})
		}
		return citations
	}
}

// repairSourceAttrs recovers (text, url) pairs from garbled "source=" fragments
func repairSourceAttrs(body string) []models.Citation {
	var citations []models.Citation

	for _, m := range sourceAttrLinkRe.FindAllStringSubmatch(body, -1) {
		text := strings.TrimSpace(m[1])
		if text == "" {
			text = DomainOf(m[2])
		}
		citations = append(citations, models.Citation{
			URL:  m[2],
			Text: text,
			Type: TypeInline,
		})
	}

	for _, m := range sourceAttrBareRe.FindAllStringSubmatch(body, -1) {
		citations = append(citations, models.Citation{
			URL:  m[1],
			Text: DomainOf(m[1]),
			Type: TypeInline,
		})
	}

	return citations
}

// numberedCitations resolves [[n]](url) markers
func numberedCitations(body string) []models.Citation {
	var citations []models.Citation
	for _, m := range numberedCitationRe.FindAllStringSubmatch(body, -1) {
		text := DomainOf(m[2])
		if text == "" {
			text = fmt.Sprintf("Citation %s", m[1])
		}
		citations = append(citations, models.Citation{
			URL:  m[2],
			Text: text,
			Type: TypeInline,
		})
	}
	return citations
}

// markdownLinks extracts standard [text](url) links
func markdownLinks(body string) []models.Citation {
	var citations []models.Citation
	for _, m := range markdownLinkRe.FindAllStringSubmatch(body, -1) {
		citations = append(citations, models.Citation{
			URL:  m[2],
			Text: strings.TrimSpace(m[1]),
			Type: TypeInline,
		})
	}
	return citations
}

// bareURLs finds URLs appearing in running text, with known noisy
// query-string fragments stripped before normalization
func bareURLs(body string) []models.Citation {
	var citations []models.Citation
	for _, match := range bareURLFinder.FindAllString(body, -1) {
		u := StripNoisyQuery(strings.TrimRight(match, ".,;:)]"))
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		citations = append(citations, models.Citation{
			URL:  u,
			Text: DomainOf(u),
			Type: TypeInline,
		})
	}
	return citations
}

// parenDomains extracts parenthesized bare-domain references like
// "(example.com)", plus the special case of a domain immediately following a
// sentence-ending period
func parenDomains(body string) []models.Citation {
	var citations []models.Citation

	for _, m := range parenDomainRe.FindAllStringSubmatch(body, -1) {
		citations = append(citations, domainCitation(m[1]))
	}

	for _, m := range afterPeriodDomainRe.FindAllStringSubmatch(body, -1) {
		citations = append(citations, domainCitation(m[1]))
	}

	return citations
}

func domainCitation(domain string) models.Citation {
	domain = strings.ToLower(domain)
	return models.Citation{
		URL:  "https://" + domain,
		Text: domain,
		Type: TypeInline,
	}
}
