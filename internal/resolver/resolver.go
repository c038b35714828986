// Package resolver maps between ticker symbols and company names, trying the
// keyed API first and the Yahoo pages second.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/internal/source"
)

//go:generate mockgen -source=resolver.go -destination=mocks/mocks.go -package=mocks

// searchLimit is how many candidates are requested from the search API.
const searchLimit = 5

// Directory is the keyed API side of resolution.
type Directory interface {
	HasCredentials() bool
	CompanyName(ctx context.Context, symbol string) (string, error)
	Search(ctx context.Context, query string, limit int) ([]source.SearchMatch, error)
}

// Pages is the page-scrape side of resolution.
type Pages interface {
	PageTitle(ctx context.Context, symbol string) (string, error)
	LookupSymbol(ctx context.Context, name string) (string, error)
}

var (
	_ Directory = (*source.FMP)(nil)
	_ Pages     = (*source.Yahoo)(nil)
)

// Resolver resolves names and symbols. It never returns an error: every
// failed step is logged and the next one tried.
type Resolver struct {
	dir    Directory
	pages  Pages
	logger *slog.Logger
}

// New creates a resolver. dir may be nil.
func New(dir Directory, pages Pages, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Resolver{dir: dir, pages: pages, logger: logger}
}

// ResolveName returns a display name for symbol, or symbol itself when no
// step yields one.
func (r *Resolver) ResolveName(ctx context.Context, symbol string) string {
	if r.hasDirectory() {
		name, err := r.dir.CompanyName(ctx, symbol)
		if err == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
		r.logger.Debug("directory name lookup failed", "symbol", symbol, "error", err)
	}

	if r.pages != nil {
		name, err := r.pages.PageTitle(ctx, symbol)
		if err == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
		r.logger.Debug("page title lookup failed", "symbol", symbol, "error", err)
	}

	return symbol
}

// ResolveSymbol returns the best symbol for a free-text company name.
func (r *Resolver) ResolveSymbol(ctx context.Context, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	if r.hasDirectory() {
		matches, err := r.dir.Search(ctx, name, searchLimit)
		if err == nil && len(matches) > 0 && matches[0].Symbol != "" {
			return matches[0].Symbol, true
		}
		r.logger.Debug("directory symbol search failed", "name", name, "matches", len(matches), "error", err)
	}

	if r.pages != nil {
		symbol, err := r.pages.LookupSymbol(ctx, name)
		if err == nil && strings.TrimSpace(symbol) != "" {
			return strings.TrimSpace(symbol), true
		}
		r.logger.Debug("page symbol lookup failed", "name", name, "error", err)
	}

	r.logger.Info("no symbol found", "name", name)
	return "", false
}

func (r *Resolver) hasDirectory() bool {
	return r.dir != nil && r.dir.HasCredentials()
}
