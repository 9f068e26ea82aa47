package googleai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/brandlens/brandlens/internal/models"
)

// Client implements the answer-engine client for Google AI Overview, backed by
// Gemini with search grounding
type Client struct {
	apiKey string
	model  string
	client *genai.Client
}

// New creates a new Google AI client
func New(apiKey, model string) *Client {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		client = nil
	}

	return &Client{
		apiKey: apiKey,
		model:  model,
		client: client,
	}
}

// Provider returns the provider identifier
func (c *Client) Provider() models.Provider {
	return models.ProviderGoogleAI
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

// Fetch runs the query with search grounding and fills the googleAI slot of
// the answer set
func (c *Client) Fetch(ctx context.Context, query string, out *models.ProviderAnswerSet) error {
	startTime := time.Now()

	client := c.client
	if client == nil {
		var err error
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("failed to create Google client: %w", err)
		}
	}

	content := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: query},
			},
		},
	}

	generationConfig := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	result, err := client.Models.GenerateContent(ctx, c.model, content, generationConfig)
	if err != nil {
		return fmt.Errorf("google AI request failed: %w", err)
	}

	var overview string
	var references []models.AIOverviewReference

	if len(result.Candidates) > 0 {
		candidate := result.Candidates[0]

		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					overview += part.Text
				}
			}
		}

		if candidate.GroundingMetadata != nil {
			for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
				if chunk.Web == nil || chunk.Web.URI == "" {
					continue
				}
				references = append(references, models.AIOverviewReference{
					Domain: chunk.Web.Domain,
					URL:    chunk.Web.URI,
					Title:  chunk.Web.Title,
				})
			}
		}
	}

	elapsed := float64(time.Since(startTime).Milliseconds())
	out.GoogleAI = &models.GoogleAIAnswer{
		AIOverview:           overview,
		AIOverviewReferences: references,
		HasAIOverview:        overview != "",
		ResponseTimeMs:       &elapsed,
	}

	return nil
}
