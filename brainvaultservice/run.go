// Package brainvaultservice assembles configuration, dependencies, and the
// HTTP server into a runnable service.
package brainvaultservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/brainvault/brainvault/internal/answer"
	"github.com/brainvault/brainvault/internal/api"
	"github.com/brainvault/brainvault/internal/auth"
	"github.com/brainvault/brainvault/internal/config"
	emb "github.com/brainvault/brainvault/internal/embeddings"
	"github.com/brainvault/brainvault/internal/factory"
	"github.com/brainvault/brainvault/internal/health"
	"github.com/brainvault/brainvault/internal/logger"
	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/scraper"
	"github.com/brainvault/brainvault/internal/searchindex"
	"github.com/brainvault/brainvault/internal/services"
	"github.com/brainvault/brainvault/internal/store"
)

const (
	healthInterval     = 15 * time.Second
	healthProbeTimeout = 5 * time.Second

	devUserID   = "dev-user"
	devUsername = "dev"
)

// Run starts the brainvault HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("brainvault")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("search_index_url", cfg.SearchIndexURL).
		Str("embed_provider", cfg.EmbedProvider).
		Str("embed_model", cfg.EmbedModel).
		Msg("brainvault starting")

	ctx, stop := newServerContext()
	defer stop()

	st, idx, embProvider, gen, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	authorizer, err := newAuthorizer(ctx, cfg, st, log)
	if err != nil {
		return err
	}

	router := buildRouter(cfg, st, idx, embProvider, gen, authorizer)

	svcHealth := startHealthCheckers(ctx, log, st, idx)
	api.BindServiceHealth(svcHealth.IsHealthy)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, searchindex.Index, emb.EmbeddingProvider, answer.Generator, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, nil, nil, err
	}

	idx, err := factory.NewSearchIndex(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Search index adapter unavailable")
		return nil, nil, nil, nil, err
	}

	embProvider, gen, err := factory.NewModelProviders(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Model providers unavailable")
		return nil, nil, nil, nil, err
	}
	return st, idx, embProvider, gen, nil
}

// newAuthorizer wires the static dev authorizer. A production deployment
// replaces this with the external identity provider's verifier.
func newAuthorizer(ctx context.Context, cfg *config.Config, st store.Store, log zerolog.Logger) (auth.Authorizer, error) {
	az := auth.NewStaticAuthorizer()
	if cfg.DevAPIKey == "" {
		log.Warn().Msg("no BRAINVAULT_DEV_API_KEY configured; all authenticated routes will reject")
		return az, nil
	}

	if _, err := st.Users().Create(ctx, &model.User{UserID: devUserID, Username: devUsername}); err != nil && !errors.Is(err, model.ErrConflict) {
		return nil, err
	}
	az.Register(cfg.DevAPIKey, auth.UserInfo{UserID: devUserID, Username: devUsername})
	return az, nil
}

func buildRouter(cfg *config.Config, st store.Store, idx searchindex.Index, embProvider emb.EmbeddingProvider, gen answer.Generator, authorizer auth.Authorizer) http.Handler {
	scr := scraper.New(time.Duration(cfg.ScrapeTimeoutSeconds) * time.Second)
	return api.NewRouter(api.Deps{
		Authorizer: authorizer,
		Users:      services.NewUserService(st),
		Content:    services.NewContentService(st, idx, embProvider, gen, scr, cfg.SummarizeThresholdChars),
		Search:     services.NewSearchService(st, idx, embProvider, gen, cfg.SearchTopK),
		Share:      services.NewShareService(st),
	})
}

func startHealthCheckers(ctx context.Context, log zerolog.Logger, st store.Store, idx searchindex.Index) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker

	if pinger, ok := st.(health.HealthPinger); ok {
		c := health.NewPingChecker("store", pinger, log, healthProbeTimeout)
		go c.Start(ctx, healthInterval)
		checkers = append(checkers, c)
	}
	if pinger, ok := idx.(health.HealthPinger); ok {
		c := health.NewPingChecker("searchindex", pinger, log, healthProbeTimeout)
		go c.Start(ctx, healthInterval)
		checkers = append(checkers, c)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, healthInterval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context bound to SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
