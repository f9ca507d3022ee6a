package answer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// chunkSize is the fixed character window for chunked summarization.
const chunkSize = 2000

// Gemini generates text with a Gemini model. The client is built once at
// startup and safe for concurrent use.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator bound to the given model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
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
	return &Gemini{client: client, model: model}, nil
}

// NewGeminiWithClient wraps an existing genai client.
func NewGeminiWithClient(client *genai.Client, model string) *Gemini {
	return &Gemini{client: client, model: model}
}

// Client exposes the underlying genai client so the embedding provider can
// share it.
func (g *Gemini) Client() *genai.Client { return g.client }

// Answer runs one completion over the prompt and returns the response text.
// An empty response is returned as an empty string, not an error; callers
// substitute their own fallback wording.
func (g *Gemini) Answer(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// SummarizeChunks summarizes text in fixed 2000-character chunks and joins
// the chunk summaries with newlines, preserving order.
func (g *Gemini) SummarizeChunks(ctx context.Context, text string) (string, error) {
	chunks := SplitChunks(text, chunkSize)
	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt := "Summarize the following text concisely, keeping key facts and names:\n\n" + chunk
		s, err := g.Answer(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, s)
	}
	return strings.Join(summaries, "\n"), nil
}

// SplitChunks splits text into size-character chunks without breaking UTF-8
// sequences. The final chunk carries the remainder.
func SplitChunks(text string, size int) []string {
	if size <= 0 || text == "" {
		return []string{text}
	}
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	return chunks
}
