// Package aggregator returns one financial record per identifier by trying
// the source adapters in priority order behind a TTL cache.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/seenimoa/entitylens/internal/cache"
	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
)

//go:generate mockgen -source=aggregator.go -destination=mocks/mocks.go -package=mocks

// Fetcher is one financial source. Fetch never fails; no data is the empty
// record.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, symbol string) models.FinancialRecord
}

// NameResolver supplies a display name for a symbol.
type NameResolver interface {
	ResolveName(ctx context.Context, symbol string) string
}

// Aggregator tries each source in order and keeps the first record with
// data. Records from different sources are never merged.
type Aggregator struct {
	sources  []Fetcher
	resolver NameResolver
	store    cache.Store
	ttl      time.Duration
	logger   *slog.Logger
	flight   singleflight.Group
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTTL overrides cache.DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(a *Aggregator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an aggregator over sources, highest priority first. A nil
// store gets a fresh in-memory cache.
func New(sources []Fetcher, resolver NameResolver, store cache.Store, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources:  sources,
		resolver: resolver,
		store:    store,
		ttl:      cache.DefaultTTL,
		logger:   infra.NopLogger(),
	}
	if a.store == nil {
		a.store = cache.NewMemory()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Get returns the financial record for identifier, or the empty record when
// no source has data. The empty record is a normal result, not an error.
//
// Concurrent misses for the same identifier share one source chain. The
// chain runs detached from the caller's cancellation so one caller leaving
// does not empty the result for the rest; adapter timeouts still bound it.
func (a *Aggregator) Get(ctx context.Context, identifier string) models.FinancialRecord {
	key := cache.Key(identifier)
	if rec, ok := a.store.Get(ctx, key); ok {
		a.logger.Debug("financial cache hit", "identifier", identifier, "source", rec.Source)
		return rec
	}

	v, _, shared := a.flight.Do(key, func() (any, error) {
		return a.load(context.WithoutCancel(ctx), identifier, key), nil
	})
	rec := v.(models.FinancialRecord)
	if shared {
		rec = rec.Clone()
	}
	return rec
}

func (a *Aggregator) load(ctx context.Context, identifier, key string) models.FinancialRecord {
	var rec models.FinancialRecord
	for _, src := range a.sources {
		rec = src.Fetch(ctx, identifier)
		if rec.HasData() {
			a.logger.Debug("financial source answered", "identifier", identifier, "source", src.Name(), "fields", rec.Len())
			break
		}
	}

	if !rec.HasData() {
		a.logger.Info("no financial data", "identifier", identifier)
		return models.FinancialRecord{}
	}

	// Only records with a quote are named and cached; partial profiles are
	// returned as they are.
	if !rec.HasQuote() {
		return rec
	}
	if _, ok := rec.CompanyName(); !ok && a.resolver != nil {
		rec.Set(models.FieldCompanyName, models.Text(a.resolver.ResolveName(ctx, identifier)))
	}
	a.store.Set(ctx, key, rec, a.ttl)
	return rec
}
