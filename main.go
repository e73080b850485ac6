package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cruisescanner/config"
	"cruisescanner/internal/extractor"
	"cruisescanner/internal/listing"
	"cruisescanner/internal/loader"
	"cruisescanner/logger"
	"cruisescanner/services/cache"
	"cruisescanner/services/history"
	"cruisescanner/services/notifier"
	"cruisescanner/services/pipeline"
	"cruisescanner/services/publisher"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("url", cfg.TargetURL).
		Int("price_min", cfg.PriceMin).
		Int("price_max", cfg.PriceMax).
		Msg("Starting scan run")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the run on shutdown signals so the browser exits cleanly
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// History store
	store, closeStore := buildHistoryStore(cfg)
	defer closeStore()

	historySet := store.Load()
	log.Info().Int("seen", historySet.Len()).Msg("Loaded history")

	// Notifier
	var note notifier.Notifier
	if cfg.DiscordWebhookURL != "" {
		note = notifier.NewDiscord(cfg.DiscordWebhookURL)
	} else {
		note = notifier.Disabled()
	}

	// Optional Redis stream mirror
	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		defer redisPub.Close()
		pub = redisPub
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Mirroring listings to Redis")
	}

	// Page loader
	var ld loader.Loader
	if cfg.UseChrome {
		ld = loader.NewChromeLoader(cfg.TargetURL, cfg.ScrollRounds, cfg.PageWait)
	} else {
		var cacheSvc cache.CacheService
		if cfg.MemcacheAddr != "" {
			cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
			log.Info().Str("addr", cfg.MemcacheAddr).Msg("Using memcache fetch cooldown")
		}
		ld = loader.NewHTTPLoader(cfg.TargetURL, cacheSvc, cfg.FetchBlockTime)
	}

	// Run the pipeline
	p := pipeline.New(
		ld,
		extractor.New(cfg.CurrencySymbol),
		listing.PriceBand{Min: cfg.PriceMin, Max: cfg.PriceMax},
		historySet,
		note,
		pub,
		cfg.NotifyDelay,
		cfg.TargetURL,
	)

	start := time.Now()
	newCount, err := p.Run(ctx)
	if err != nil {
		// A loader failure ends the run with zero new items; the process
		// still exits normally so the scheduler simply tries again later.
		log.Error().Err(err).Msg("Run aborted")
	}

	// Persist history only when it grew
	if err := history.SaveIfGrown(store, historySet, newCount); err != nil {
		log.Error().Err(err).Msg("Failed to save history, next run will re-notify")
	} else if newCount > 0 {
		log.Info().Int("new", newCount).Msg("History saved")
	} else {
		log.Info().Msg("No new listings this run")
	}

	log.Info().
		Int("new", newCount).
		Dur("elapsed", time.Since(start)).
		Msg("Run finished")
}

// buildHistoryStore picks the Postgres store when a DSN is configured and
// falls back to the file store otherwise (including when Postgres is
// unreachable, so a database outage cannot take the scanner down).
func buildHistoryStore(cfg config.Config) (history.Store, func()) {
	log := logger.ForHistory()

	if cfg.HistoryDSN != "" {
		pg, err := history.NewPostgresStore(cfg.HistoryDSN)
		if err == nil {
			log.Info().Msg("Using Postgres history store")
			return pg, func() { pg.Close() }
		}
		log.Warn().Err(err).Msg("Postgres history store unavailable, falling back to file")
	}

	return history.NewFileStore(cfg.HistoryFile), func() {}
}
