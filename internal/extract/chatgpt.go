package extract

import (
	"regexp"

	"github.com/brandlens/brandlens/internal/models"
)

// ChatGPT answers cite Bing results when browsing; those links are pulled out
// first and always labeled as Bing's own citations.
var bingSearchRe = regexp.MustCompile(`https?://(?:www\.)?bing\.com/search\?[^\s)\]]+`)

var chatGPTPasses = []pass{
	searchEngineLinks(bingSearchRe, "Bing"),
	repairSourceAttrs,
	numberedCitations,
	markdownLinks,
	bareURLs,
	parenDomains,
}

// extractChatGPT mines the response text only: the payload's citation field,
// when present, is a count reported by the dispatcher, not a list.
func extractChatGPT(answer *models.ChatGPTAnswer) []models.Citation {
	c := newCollector()
	if answer == nil {
		return c.result()
	}

	c.run(answer.Response, chatGPTPasses)
	return c.result()
}
