package extract

import (
	"github.com/brandlens/brandlens/internal/models"
)

// Citation type labels
const (
	TypeSearchEngine = "search_engine"
	TypeReference    = "reference"
	TypeInline       = "inline"
)

// Extract turns a raw provider payload into a deduplicated list of citations.
// It is pure and total: unparsable input yields an empty list, never an error.
// Order reflects discovery order and is non-authoritative beyond display.
func Extract(provider models.Provider, answers *models.ProviderAnswerSet) []models.Citation {
	if answers == nil {
		return []models.Citation{}
	}

	switch provider {
	case models.ProviderChatGPT:
		return extractChatGPT(answers.ChatGPT)
	case models.ProviderGoogleAI:
		return extractGoogleAI(answers.GoogleAI)
	case models.ProviderPerplexity:
		return extractPerplexity(answers.Perplexity)
	}
	return []models.Citation{}
}

// All extracts citations for every provider present in the answer set
func All(answers *models.ProviderAnswerSet) map[models.Provider][]models.Citation {
	out := make(map[models.Provider][]models.Citation)
	for _, provider := range models.AllProviders {
		if answers != nil && answers.Has(provider) {
			out[provider] = Extract(provider, answers)
		}
	}
	return out
}

// collector accumulates citations across pattern passes, deduplicating by
// normalized URL as each pass runs so earlier passes take precedence.
type collector struct {
	citations []models.Citation
	seen      map[string]bool
}

func newCollector() *collector {
	return &collector{
		citations: make([]models.Citation, 0),
		seen:      make(map[string]bool),
	}
}

// add records a citation unless its normalized URL has already been seen
func (c *collector) add(citation models.Citation) {
	key := NormalizeURL(citation.URL)
	if key == "" || c.seen[key] {
		return
	}
	c.seen[key] = true
	c.citations = append(c.citations, citation)
}

// run applies an ordered list of passes over the answer body
func (c *collector) run(body string, passes []pass) {
	for _, p := range passes {
		for _, citation := range p(body) {
			c.add(citation)
		}
	}
}

// result numbers the collected citations in discovery order and returns them
func (c *collector) result() []models.Citation {
	for i := range c.citations {
		c.citations[i].Index = i + 1
	}
	return c.citations
}
