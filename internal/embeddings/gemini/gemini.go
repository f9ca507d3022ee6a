// Package gemini provides embeddings backed by the Gemini API.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Provider embeds text with a Gemini embedding model. The underlying client
// is built once at startup and safe for concurrent use.
type Provider struct {
	client *genai.Client
	model  string
}

// New creates a Provider bound to the given embedding model.
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Provider{client: client, model: model}, nil
}

// NewWithClient wraps an existing genai client; used when the generative
// answerer and the embedder share one process-lifetime client.
func NewWithClient(client *genai.Client, model string) *Provider {
	return &Provider{client: client, model: model}
}

// Embed returns the embedding vector for text. A response without a numeric
// vector is an error; callers treat it as an upstream failure.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}
	resp, err := p.client.Models.EmbedContent(ctx, p.model,
		genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embed: response contained no embedding values")
	}
	return resp.Embeddings[0].Values, nil
}
