package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/seenimoa/entitylens/internal/aggregator"
	"github.com/seenimoa/entitylens/internal/cache"
	"github.com/seenimoa/entitylens/internal/composer"
	"github.com/seenimoa/entitylens/internal/config"
	"github.com/seenimoa/entitylens/internal/feeds"
	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/internal/resolver"
	"github.com/seenimoa/entitylens/internal/source"
)

// janitorInterval is how often expired in-memory entries are swept.
const janitorInterval = time.Minute

// pipeline holds the wired components shared by every command.
type pipeline struct {
	logger     *slog.Logger
	aggregator *aggregator.Aggregator
	resolver   *resolver.Resolver
	news       *feeds.News
	opinions   *feeds.Opinions
	composer   *composer.Composer
	close      func()
}

// newLogger builds the process logger, honouring a --log-level override.
func newLogger(c *config.Config, levelOverride string) *slog.Logger {
	level := c.Logging.Level
	if levelOverride != "" {
		level = levelOverride
	}
	return infra.NewLogger(os.Stderr, level, c.Logging.Format)
}

// newStore selects the cache backend. The in-memory store gets a janitor
// bound to ctx.
func newStore(ctx context.Context, c *config.Config, logger *slog.Logger) (cache.Store, func(), error) {
	switch c.Cache.Backend {
	case config.CacheRedis:
		r, err := cache.NewRedis(ctx, c.Cache.RedisURL, logger.With("component", "cache"))
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	default:
		m := cache.NewMemory()
		go m.RunJanitor(ctx, janitorInterval)
		return m, func() {}, nil
	}
}

// buildPipeline wires adapters, resolver, aggregator, feeds, and composer
// from configuration.
func buildPipeline(ctx context.Context, c *config.Config, logger *slog.Logger) (*pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ua := c.HTTP.UserAgent

	fmp := source.NewFMP(source.FMPConfig{
		APIKey:  c.Sources.FMP.APIKey,
		BaseURL: c.Sources.FMP.BaseURL,
		Client:  infra.NewHTTPClient(c.Sources.FMP.Timeout),
		Logger:  logger,
	})
	finnhub := source.NewFinnhub(source.FinnhubConfig{
		APIKey:     c.Sources.Finnhub.APIKey,
		BaseURL:    c.Sources.Finnhub.BaseURL,
		HTTPClient: infra.NewHTTPClient(c.Sources.Finnhub.Timeout),
		Logger:     logger,
	})
	yahoo := source.NewYahoo(source.YahooConfig{
		BaseURL:   c.Sources.Yahoo.BaseURL,
		UserAgent: ua,
		Client:    infra.NewHTTPClient(c.Sources.Yahoo.Timeout),
		Logger:    logger,
	})

	store, closeStore, err := newStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("cache setup failed: %w", err)
	}

	res := resolver.New(fmp, yahoo, logger)
	agg := aggregator.New(
		[]aggregator.Fetcher{fmp, finnhub, yahoo},
		res,
		store,
		aggregator.WithTTL(c.Cache.TTL),
		aggregator.WithLogger(logger),
	)

	news := feeds.NewNews(feeds.NewsConfig{
		BaseURL:    c.Feeds.News.BaseURL,
		Limit:      c.Feeds.News.Limit,
		UserAgent:  ua,
		HTTPClient: infra.NewHTTPClient(c.Feeds.News.Timeout),
		Logger:     logger,
	})
	opinions := feeds.NewOpinions(feeds.OpinionsConfig{
		BaseURL:   c.Feeds.Reddit.BaseURL,
		Limit:     c.Feeds.Reddit.Limit,
		UserAgent: ua,
		Client:    infra.NewHTTPClient(c.Feeds.Reddit.Timeout),
		Logger:    logger,
	})

	comp := composer.New(composer.Config{
		Financials: agg,
		Resolver:   res,
		News:       news,
		Opinions:   opinions,
		Logger:     logger,
	})

	return &pipeline{
		logger:     logger,
		aggregator: agg,
		resolver:   res,
		news:       news,
		opinions:   opinions,
		composer:   comp,
		close:      closeStore,
	}, nil
}
