package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/classifiedcrawler/config"
	"sjsage522/classifiedcrawler/internal"
	"sjsage522/classifiedcrawler/internal/crawler"
	"sjsage522/classifiedcrawler/logger"
	"sjsage522/classifiedcrawler/services/cache"
	"sjsage522/classifiedcrawler/services/export"
	"sjsage522/classifiedcrawler/services/publisher"
	"sjsage522/classifiedcrawler/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 2
	}

	keywords := flag.String("keywords", "", "comma separated keywords that must all appear in the title")
	priceLow := flag.Int("price-low", 200, "lowest price sent to the search")
	priceHigh := flag.Int("price-high", 2000, "highest price sent to the search")
	exclude := flag.String("exclude", "", "skip ads whose title contains this text")
	output := flag.String("output", cfg.OutputPath, "output spreadsheet (.xlsx or .csv)")
	flag.Parse()

	criteria, err := crawler.NewSearchCriteria(crawler.ParseKeywords(*keywords), *priceLow, *priceHigh, *exclude)
	if err != nil {
		log.Error().Err(err).Msg("Invalid search criteria")
		flag.Usage()
		return 2
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("fetcher", cfg.Fetcher).
		Strs("keywords", criteria.Keywords).
		Int("price_low", criteria.PriceLow).
		Int("price_high", criteria.PriceHigh).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	deps := initializeServices(ctx, cfg, log)
	defer deps.Cleanup()

	opts := crawler.Options{
		Template: crawler.SearchTemplate{
			BaseURL:  cfg.SearchBaseURL,
			Type:     cfg.SearchType,
			Category: cfg.SearchCategory,
			SortBy:   cfg.SearchSort,
		},
		Selectors:         crawler.DefaultSelectors(),
		EnforcePriceRange: cfg.EnforcePriceRange,
	}
	if deps.Cache != nil {
		opts.History = crawler.NewHistory(deps.Cache, cfg.RunSummaryTTL)
	}
	if deps.Publisher != nil {
		opts.Publisher = deps.Publisher
	}

	c := crawler.New(newFetcher(cfg, opts.Selectors, log), export.NewFileExporter(log), log, opts)
	w := worker.NewWorker(ctx, c, log, cfg.Environment)

	outcome := w.Submit(crawler.Request{
		Criteria:   criteria,
		OutputPath: *output,
		Progress: crawler.ProgressFunc(func(page int) error {
			fmt.Fprintf(os.Stderr, "page %d done\n", page)
			return nil
		}),
	})

	// Wait for shutdown signal or the crawl to finish
	var result worker.Outcome
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		result = <-outcome
	case result = <-outcome:
	}

	if result.Err != nil {
		log.Error().Err(result.Err).Msg("Crawl did not complete")
		return 1
	}

	fmt.Printf("%d listings from %d pages written to %s\n", len(result.Result.Records), result.Result.Pages, *output)
	return 0
}

func newFetcher(cfg *config.Config, selectors crawler.Selectors, log *logger.Logger) crawler.Fetcher {
	if cfg.Fetcher == config.FetcherHTTP {
		return crawler.NewHTTPFetcher(cfg.PageLoadTimeout)
	}
	return crawler.NewChromeFetcher(crawler.ChromeOptions{
		RemoteURL:     cfg.ChromeWSURL,
		Headless:      cfg.Headless,
		ReadySelector: selectors.Ready,
		Timeout:       cfg.PageLoadTimeout,
	}, log)
}

// initializeServices connects the optional services. A service that is not
// configured or not reachable is left out and the run continues without it.
func initializeServices(ctx context.Context, cfg *config.Config, log *logger.Logger) *internal.Dependencies {
	deps := &internal.Dependencies{}

	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := mc.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, run history disabled")
		} else {
			deps.Cache = mc
			log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
		}
	}

	if cfg.RedisAddr != "" {
		rp := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		if err := rp.Ping(); err != nil {
			rp.Close()
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, publishing disabled")
		} else {
			deps.Publisher = rp
			log.Info().
				Str("addr", cfg.RedisAddr).
				Int("db", cfg.RedisDB).
				Str("stream", cfg.RedisStream).
				Msg("Connected to Redis")
		}
	}

	return deps
}
