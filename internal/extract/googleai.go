package extract

import (
	"regexp"
	"strings"

	"github.com/brandlens/brandlens/internal/models"
)

var googleSearchRe = regexp.MustCompile(`https?://(?:www\.)?google\.com/search\?[^\s)\]]+`)

var googleAIPasses = []pass{
	searchEngineLinks(googleSearchRe, "Google Search"),
	repairSourceAttrs,
	numberedCitations,
	markdownLinks,
	bareURLs,
	parenDomains,
}

// extractGoogleAI merges the structured AI Overview reference list with text
// mining over the overview body. For overview answers the reference list runs
// first: it is higher-confidence than text mining, so its entries win the dedup.
func extractGoogleAI(answer *models.GoogleAIAnswer) []models.Citation {
	c := newCollector()
	if answer == nil {
		return c.result()
	}

	if answer.HasAIOverview {
		for _, ref := range answer.AIOverviewReferences {
			if strings.TrimSpace(ref.URL) == "" {
				continue
			}
			text := ref.Title
			if text == "" {
				text = ref.Text
			}
			if text == "" {
				text = ref.Domain
			}
			c.add(models.Citation{
				URL:    ref.URL,
				Text:   text,
				Source: ref.Domain,
				Type:   TypeReference,
			})
		}
	}

	c.run(answer.AIOverview, googleAIPasses)
	return c.result()
}
