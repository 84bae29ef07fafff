package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/career-roadmap/ai-gateway/internal/api"
	"github.com/career-roadmap/ai-gateway/internal/config"
	"github.com/career-roadmap/ai-gateway/internal/core"
	"github.com/career-roadmap/ai-gateway/internal/logx"
	"github.com/career-roadmap/ai-gateway/internal/notify"
	"github.com/career-roadmap/ai-gateway/internal/provider"
	"github.com/career-roadmap/ai-gateway/internal/resources"
	"github.com/career-roadmap/ai-gateway/internal/roadmap"
	"github.com/career-roadmap/ai-gateway/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Career guidance API backed by several AI engines",
		// serve is the default so the binary can run bare in a container
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCmd(), newSeedCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log := logx.L()
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	logx.Init(logx.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "career-gateway"})
	return cfg, logx.L(), nil
}

func serve(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info().Str("env", cfg.Environment).Msg("service starting")

	db, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	registry, err := provider.Build(ctx, cfg.Providers, log)
	if err != nil {
		return err
	}
	defer registry.Close()

	var enricher core.Enricher
	if cfg.Resources.Enabled {
		finder, closeFinder := buildFinder(ctx, cfg.Resources, log)
		defer closeFinder()
		enricher = finder
	}

	renderer, err := roadmap.NewRenderer(cfg.Roadmap.ImageDir, cfg.Roadmap.FontPath)
	if err != nil {
		return err
	}

	mailer := notify.NewMailer(cfg.SMTP)
	if !mailer.Enabled() {
		log.Warn().Msg("SMTP credentials missing, notifications disabled")
	}

	dispatcher := core.NewDispatcher(registry, core.RetryPolicyFromConfig(cfg.Dispatch))
	apiHandler := api.NewAPIHandler(
		core.NewChatService(dispatcher, db, enricher),
		core.NewRoadmapService(db, renderer),
		core.NewSuggestionService(db),
		mailer,
		db,
		dispatcher.Engines,
	)
	router := api.NewRouter(apiHandler, api.RouterOptions{
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
		ImageDir:    renderer.Dir(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // dispatch budget plus rendering
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}

// buildFinder wires the optional YouTube search and its Redis cache. Either may be
// missing; the static resource list is always available.
func buildFinder(ctx context.Context, cfg config.ResourcesConfig, log zerolog.Logger) (*resources.Finder, func()) {
	var (
		searcher resources.Searcher
		cache    resources.Cache
		closers  []func() error
	)

	if cfg.YouTubeAPIKey != "" {
		yt, err := resources.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Warn().Err(err).Msg("video search disabled")
		} else {
			searcher = yt
		}
	}
	if searcher != nil && cfg.RedisURL != "" {
		rc, err := resources.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("resource cache disabled")
		} else {
			cache = rc
			closers = append(closers, rc.Close)
		}
	}

	log.Info().Bool("video_search", searcher != nil).Bool("cache", cache != nil).Msg("learning resources enabled")
	return resources.NewFinder(searcher, cache, cfg.SearchTimeout), func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn().Err(err).Msg("close failed")
			}
		}
	}
}
