// Package ollama provides embeddings via a local Ollama instance. It is the
// default provider for development environments without a Gemini key.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Provider calls the Ollama embeddings HTTP API.
type Provider struct {
	client *resty.Client
	model  string
}

// New creates a Provider for the given base URL and model.
func New(baseURL, model string) *Provider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)
	return &Provider{client: c, model: model}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse tolerates both known provider shapes: a flat numeric array
// and a nested {"values":[...]} object. Decoding happens once here so
// downstream code sees one canonical vector type.
type embedResponse struct {
	Embedding embeddingField `json:"embedding"`
	Error     string         `json:"error"`
}

type embeddingField struct {
	Values []float64
}

func (f *embeddingField) UnmarshalJSON(data []byte) error {
	var flat []float64
	if err := json.Unmarshal(data, &flat); err == nil {
		f.Values = flat
		return nil
	}
	var nested struct {
		Values []float64 `json:"values"`
	}
	if err := json.Unmarshal(data, &nested); err == nil {
		f.Values = nested.Values
		return nil
	}
	return fmt.Errorf("embedding is neither a numeric array nor a values object")
}

// Embed generates a dense vector for the given text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&embedRequest{Model: p.model, Prompt: text}).
		Post("/api/embeddings")
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode(), resp.String())
	}

	var out embedResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("ollama decode: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama embeddings error: %s", out.Error)
	}
	if len(out.Embedding.Values) == 0 {
		return nil, fmt.Errorf("ollama embeddings: response contained no vector")
	}

	vec := make([]float32, len(out.Embedding.Values))
	for i, v := range out.Embedding.Values {
		vec[i] = float32(v)
	}
	return vec, nil
}
