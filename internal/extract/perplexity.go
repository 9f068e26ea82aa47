package extract

import (
	"encoding/json"
	"strings"

	"github.com/brandlens/brandlens/internal/models"
)

const (
	perplexityItemSep = "|||"
	perplexityListSep = "###"
)

var perplexityPasses = []pass{
	repairSourceAttrs,
	numberedCitations,
	markdownLinks,
	bareURLs,
	parenDomains,
}

// extractPerplexity mines the response text, then merges the provider-supplied
// citation strings. The first citation extracted via any method is always
// discarded after the full list is assembled; this mirrors observed upstream
// behavior around a spurious leading citation and is kept as-is pending product
// confirmation. Do not generalize it to other providers.
func extractPerplexity(answer *models.PerplexityAnswer) []models.Citation {
	c := newCollector()
	if answer == nil {
		return c.result()
	}

	c.run(answer.Response, perplexityPasses)

	for _, item := range splitList(answer.CitationsData, perplexityItemSep) {
		c.add(models.Citation{
			URL:  item,
			Text: DomainOf(item),
			Type: TypeReference,
		})
	}

	for _, entry := range splitList(answer.SearchResultsData, perplexityListSep) {
		title, u, ok := strings.Cut(entry, perplexityItemSep)
		if !ok {
			continue
		}
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		text := strings.TrimSpace(title)
		if text == "" {
			text = DomainOf(u)
		}
		c.add(models.Citation{
			URL:  u,
			Text: text,
			Type: TypeReference,
		})
	}

	for _, citation := range parseStructuredCitations(answer.StructuredCitationsData) {
		c.add(citation)
	}

	assembled := c.result()
	if len(assembled) == 0 {
		return assembled
	}

	public := assembled[1:]
	for i := range public {
		public[i].Index = i + 1
	}
	return public
}

// parseStructuredCitations accepts either a JSON array of {title, url} objects
// or a plain "|||"-joined URL list
func parseStructuredCitations(data string) []models.Citation {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}

	var structured []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal([]byte(data), &structured); err == nil {
		var citations []models.Citation
		for _, item := range structured {
			if strings.TrimSpace(item.URL) == "" {
				continue
			}
			text := item.Title
			if text == "" {
				text = DomainOf(item.URL)
			}
			citations = append(citations, models.Citation{
				URL:  item.URL,
				Text: text,
				Type: TypeReference,
			})
		}
		return citations
	}

	var citations []models.Citation
	for _, item := range splitList(data, perplexityItemSep) {
		citations = append(citations, models.Citation{
			URL:  item,
			Text: DomainOf(item),
			Type: TypeReference,
		})
	}
	return citations
}

func splitList(data, sep string) []string {
	if strings.TrimSpace(data) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(data, sep) {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
