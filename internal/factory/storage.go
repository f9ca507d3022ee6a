// Package factory builds concrete dependencies from configuration. Each
// constructor returns immediately and runs its bootstrap or warmup check on
// a background goroutine so startup stays fast; the health checkers catch
// anything that never comes up.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/brainvault/brainvault/internal/config"
	storepkg "github.com/brainvault/brainvault/internal/store"
	storepg "github.com/brainvault/brainvault/internal/store/postgres"
	storelite "github.com/brainvault/brainvault/internal/store/sqlite"
)

// NewStore returns a store.Store for the configured driver.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return newPostgresStore(ctx, cfg, log)
	case "sqlite":
		db, err := storelite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return storelite.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

func newPostgresStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	dsn := cfg.PostgresDSN
	if dsn == "" {
		return nil, fmt.Errorf("BRAINVAULT_POSTGRES_DSN is required when DB_DRIVER=postgres")
	}

	db, err := storepg.Open(dsn)
	if err != nil {
		return nil, err
	}

	go func() {
		bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
		bootstrapCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
		defer cancel()

		if err := storepg.Bootstrap(bootstrapCtx, dsn); err != nil {
			log.Warn().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap failed")
		} else {
			log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap completed")
		}
	}()

	return storepg.NewWithDB(db), nil
}
