package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/brainvault/brainvault/internal/config"
	"github.com/brainvault/brainvault/internal/searchindex"
)

// NewSearchIndex creates the vector index adapter and kicks off schema
// bootstrap in the background.
func NewSearchIndex(ctx context.Context, cfg *config.Config, log zerolog.Logger) (searchindex.Index, error) {
	if cfg.SearchIndexURL == "" {
		return nil, fmt.Errorf("search index URL not configured")
	}

	idx, err := searchindex.NewWeaviateIndex(cfg.SearchIndexURL)
	if err != nil {
		return nil, err
	}

	go func() {
		bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
		bootstrapCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
		defer cancel()

		if err := searchindex.Bootstrap(bootstrapCtx, cfg.SearchIndexURL); err != nil {
			log.Warn().Err(err).Str("url", cfg.SearchIndexURL).Msg("search index bootstrap failed")
		} else {
			log.Debug().Str("url", cfg.SearchIndexURL).Msg("search index bootstrap completed")
		}
	}()

	return idx, nil
}
