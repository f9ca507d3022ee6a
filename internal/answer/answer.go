// Package answer wraps the generative-text provider used to answer search
// queries and to summarize long documents before embedding.
package answer

import "context"

// Generator produces natural-language text from prompts.
type Generator interface {
	// Answer runs a single-shot completion over the full prompt.
	Answer(ctx context.Context, prompt string) (string, error)
	// SummarizeChunks splits text into fixed-size chunks, summarizes each
	// independently, and concatenates the summaries in order.
	SummarizeChunks(ctx context.Context, text string) (string, error)
}
