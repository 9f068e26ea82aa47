package chatgpt

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/brandlens/brandlens/internal/models"
)

// Client implements the answer-engine client for ChatGPT
type Client struct {
	apiKey string
	model  string
	client openai.Client
}

// New creates a new ChatGPT client
func New(apiKey, model, baseURL string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(opts...),
	}
}

// Provider returns the provider identifier
func (c *Client) Provider() models.Provider {
	return models.ProviderChatGPT
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

// Fetch sends the query to ChatGPT and fills the chatgpt slot of the answer set
func (c *Client) Fetch(ctx context.Context, query string, out *models.ProviderAnswerSet) error {
	startTime := time.Now()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(query),
		},
	})
	if err != nil {
		return fmt.Errorf("chatgpt request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("no choices returned from API")
	}

	elapsed := float64(time.Since(startTime).Milliseconds())
	out.ChatGPT = &models.ChatGPTAnswer{
		Response:       resp.Choices[0].Message.Content,
		ResponseTimeMs: &elapsed,
	}

	return nil
}
