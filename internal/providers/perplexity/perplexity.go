package perplexity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pplx "github.com/sgaunet/perplexity-go/v2"

	"github.com/brandlens/brandlens/internal/models"
)

// Delimiters used to pack list-shaped payload fields into flat strings. The
// downstream extractor splits on the same delimiters.
const (
	itemSep = "|||"
	listSep = "###"
)

// Client implements the answer-engine client for Perplexity
type Client struct {
	apiKey string
	model  string
	client *pplx.Client
}

// New creates a new Perplexity client
func New(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		client: pplx.NewClient(apiKey),
	}
}

// Provider returns the provider identifier
func (c *Client) Provider() models.Provider {
	return models.ProviderPerplexity
}

// Validate validates the client configuration
func (c *Client) Validate() error {
	if c.apiKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// Fetch sends the query to Perplexity and fills the perplexity slot of the
// answer set
func (c *Client) Fetch(ctx context.Context, query string, out *models.ProviderAnswerSet) error {
	startTime := time.Now()

	req := &pplx.CompletionRequest{
		Model: c.model,
		Messages: []pplx.Message{
			{Role: "user", Content: query},
		},
	}

	res, err := c.client.SendCompletionRequest(req)
	if err != nil {
		return fmt.Errorf("perplexity request failed: %w", err)
	}

	elapsed := float64(time.Since(startTime).Milliseconds())
	answer := &models.PerplexityAnswer{
		Response:       res.GetLastContent(),
		CitationsData:  strings.Join(res.GetCitations(), itemSep),
		ResponseTimeMs: &elapsed,
	}

	var searchEntries []string
	type structuredCitation struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	var structured []structuredCitation

	for _, result := range res.GetSearchResults() {
		searchEntries = append(searchEntries, result.Title+itemSep+result.URL)
		structured = append(structured, structuredCitation{Title: result.Title, URL: result.URL})
	}
	answer.SearchResultsData = strings.Join(searchEntries, listSep)

	if len(structured) > 0 {
		if data, err := json.Marshal(structured); err == nil {
			answer.StructuredCitationsData = string(data)
		}
	}

	out.Perplexity = answer
	return nil
}
