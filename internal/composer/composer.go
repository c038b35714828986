// Package composer builds the composite EntityInfo record: financials first,
// then news and opinions under the resulting display name.
package composer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/entitylens/internal/feeds"
	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
	"github.com/seenimoa/entitylens/pkg/utils"
)

//go:generate mockgen -source=composer.go -destination=mocks/mocks.go -package=mocks

// fallbackSourceLabel is recorded when a financial record carries no label.
const fallbackSourceLabel = "Financial Data"

// Financials returns the financial record for a symbol.
type Financials interface {
	Get(ctx context.Context, identifier string) models.FinancialRecord
}

// SymbolResolver maps a company name to a symbol.
type SymbolResolver interface {
	ResolveSymbol(ctx context.Context, name string) (string, bool)
}

// NewsFeed returns news items for a query; failures yield an empty list.
type NewsFeed interface {
	Fetch(ctx context.Context, query string) []models.NewsItem
}

// OpinionFeed returns opinion items for a query; failures yield an empty list.
type OpinionFeed interface {
	Fetch(ctx context.Context, query string) []models.OpinionItem
}

// Composer is the single entry point used by the web layer.
type Composer struct {
	financials Financials
	resolver   SymbolResolver
	news       NewsFeed
	opinions   OpinionFeed
	logger     *slog.Logger
	now        func() time.Time
}

// Config wires a Composer. Logger and Now are optional.
type Config struct {
	Financials Financials
	Resolver   SymbolResolver
	News       NewsFeed
	Opinions   OpinionFeed
	Logger     *slog.Logger
	Now        func() time.Time
}

// New creates a composer.
func New(cfg Config) *Composer {
	c := &Composer{
		financials: cfg.Financials,
		resolver:   cfg.Resolver,
		news:       cfg.News,
		opinions:   cfg.Opinions,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if c.logger == nil {
		c.logger = infra.NopLogger()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// ScrapeEntityInfo gathers everything known about name. It always succeeds;
// parts that could not be fetched are empty. name is used as given; callers
// trim user input.
func (c *Composer) ScrapeEntityInfo(ctx context.Context, name string, typ models.EntityType) models.EntityInfo {
	info := models.NewEntityInfo(name, typ, c.now())

	if typ == models.EntityCompany {
		if rec := c.companyFinancials(ctx, name); rec.HasData() {
			info.Financials = rec
			label := rec.Source
			if label == "" {
				label = fallbackSourceLabel
			}
			info.Sources = append(info.Sources, label)
			if company, ok := rec.CompanyName(); ok {
				info.Name = company
			}
		}
	}

	// Feeds run after financials so they search under the display name.
	var (
		news     []models.NewsItem
		opinions []models.OpinionItem
	)
	g, gctx := errgroup.WithContext(ctx)
	if c.news != nil {
		g.Go(func() error {
			news = c.news.Fetch(gctx, info.Name)
			return nil
		})
	}
	if c.opinions != nil {
		g.Go(func() error {
			opinions = c.opinions.Fetch(gctx, info.Name)
			return nil
		})
	}
	_ = g.Wait()

	if len(news) > 0 {
		info.News = news
		info.Sources = append(info.Sources, feeds.LabelNews)
	}
	if len(opinions) > 0 {
		info.Opinions = opinions
		info.Sources = append(info.Sources, feeds.LabelReddit)
	}

	c.logger.Info("entity composed",
		"input", name, "name", info.Name, "type", string(typ),
		"financial_fields", info.Financials.Len(), "news", len(info.News),
		"opinions", len(info.Opinions), "sources", info.Sources)
	return info
}

// companyFinancials fetches directly for ticker-like input, otherwise
// resolves a symbol first. An unresolved name yields the empty record.
func (c *Composer) companyFinancials(ctx context.Context, name string) models.FinancialRecord {
	if c.financials == nil {
		return models.FinancialRecord{}
	}
	if utils.LooksLikeTicker(name) {
		return c.financials.Get(ctx, name)
	}
	if c.resolver == nil {
		return models.FinancialRecord{}
	}
	symbol, ok := c.resolver.ResolveSymbol(ctx, name)
	if !ok {
		c.logger.Info("no symbol for company name", "name", name)
		return models.FinancialRecord{}
	}
	return c.financials.Get(ctx, symbol)
}
