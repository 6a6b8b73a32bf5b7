package gemini

import (
	"context"
	"fmt"

	"github.com/mfilipek/codechat"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ codechat.Backend = (*Client)(nil)

// Client implements [codechat.Backend] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-3.1-pro-preview.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Stream sends a streaming request to the Gemini API and returns a
// [codechat.Stream] that emits content deltas.
func (c *Client) Stream(ctx context.Context, req codechat.ChatRequest) (codechat.Stream, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Message}},
	}}

	iter := c.client.Models.GenerateContentStream(ctx, c.model, contents, nil)
	return newStream(iter), nil
}
