package factory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/brainvault/brainvault/internal/answer"
	"github.com/brainvault/brainvault/internal/config"
	emb "github.com/brainvault/brainvault/internal/embeddings"
	embgemini "github.com/brainvault/brainvault/internal/embeddings/gemini"
	"github.com/brainvault/brainvault/internal/embeddings/ollama"
)

// NewModelProviders builds the embedding provider and the answer generator.
// With the gemini provider both share one API client. The generator may be
// nil when no Gemini key is configured; retrieval then returns ranked
// content with a fallback answer instead of generated text.
func NewModelProviders(ctx context.Context, cfg *config.Config, log zerolog.Logger) (emb.EmbeddingProvider, answer.Generator, error) {
	var (
		provider emb.EmbeddingProvider
		gen      answer.Generator
	)

	switch cfg.EmbedProvider {
	case "gemini":
		g, err := answer.NewGemini(ctx, cfg.GeminiAPIKey, cfg.AnswerModel)
		if err != nil {
			return nil, nil, err
		}
		gen = g
		provider = embgemini.NewWithClient(g.Client(), cfg.EmbedModel)
	default:
		provider = ollama.New(cfg.OllamaURL, cfg.EmbedModel)
		if cfg.GeminiAPIKey != "" {
			g, err := answer.NewGemini(ctx, cfg.GeminiAPIKey, cfg.AnswerModel)
			if err != nil {
				return nil, nil, err
			}
			gen = g
		} else {
			log.Warn().Msg("no Gemini API key configured; search answers will use the fallback text")
		}
	}

	// Async warmup; a cold provider shows up in logs, not as a slow first
	// request.
	go func() {
		warmupTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
		warmupCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
		defer cancel()

		if vec, err := provider.Embed(warmupCtx, "warmup-check"); err != nil || len(vec) == 0 {
			log.Warn().Err(err).Int("vec_len", len(vec)).
				Str("provider", cfg.EmbedProvider).Str("model", cfg.EmbedModel).
				Msg("embedding provider warmup failed")
		} else {
			log.Debug().Str("provider", cfg.EmbedProvider).Str("model", cfg.EmbedModel).
				Msg("embedding provider warmup completed")
		}
	}()

	return provider, gen, nil
}
