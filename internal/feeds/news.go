// Package feeds fetches the auxiliary news and opinion items shown next to an
// entity's financials. Each feed is independent; a failure is logged and
// yields an empty list.
package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
)

// Feed labels, as recorded in item sources and EntityInfo.Sources.
const (
	LabelNews   = "Google News"
	LabelReddit = "Reddit"
)

// GoogleNewsURL is the RSS search endpoint.
const GoogleNewsURL = "https://news.google.com/rss/search"

// DefaultNewsLimit is how many news items are kept.
const DefaultNewsLimit = 5

// publisherSuffix matches the " - Publisher" tail Google appends to titles.
var publisherSuffix = regexp.MustCompile(` - [^-]+$`)

// NewsConfig configures the news feed. Zero values take defaults.
type NewsConfig struct {
	BaseURL    string
	Limit      int
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *infra.RateLimiter
	Logger     *slog.Logger
}

// News fetches recent headlines from Google News RSS search.
type News struct {
	baseURL string
	limit   int
	limiter *infra.RateLimiter
	logger  *slog.Logger
	parser  *gofeed.Parser
}

// NewNews creates the news feed.
func NewNews(cfg NewsConfig) *News {
	n := &News{
		baseURL: cfg.BaseURL,
		limit:   cfg.Limit,
		limiter: cfg.Limiter,
		logger:  cfg.Logger,
		parser:  gofeed.NewParser(),
	}
	if n.baseURL == "" {
		n.baseURL = GoogleNewsURL
	}
	if n.limit <= 0 {
		n.limit = DefaultNewsLimit
	}
	if n.limiter == nil {
		n.limiter = infra.NewRateLimiter(2, time.Second)
	}
	if n.logger == nil {
		n.logger = infra.NopLogger()
	}

	n.parser.Client = cfg.HTTPClient
	if n.parser.Client == nil {
		n.parser.Client = infra.NewHTTPClient(infra.APITimeout)
	}
	n.parser.UserAgent = cfg.UserAgent
	if n.parser.UserAgent == "" {
		n.parser.UserAgent = infra.DefaultUserAgent
	}
	return n
}

// Name returns the feed label.
func (n *News) Name() string { return LabelNews }

// Fetch returns up to the configured number of items for query, or an empty
// list on any failure.
func (n *News) Fetch(ctx context.Context, query string) []models.NewsItem {
	items, err := n.Search(ctx, query)
	if err != nil {
		n.logger.Warn("news feed failed", "query", query, "error", err)
		return []models.NewsItem{}
	}
	return items
}

// Search queries the RSS endpoint and reports failures.
func (n *News) Search(ctx context.Context, query string) ([]models.NewsItem, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feedURL := n.baseURL + "?q=" + url.QueryEscape(query)
	feed, err := n.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse news RSS %q: %w", query, err)
	}

	items := make([]models.NewsItem, 0, min(len(feed.Items), n.limit))
	for _, it := range feed.Items {
		if len(items) == n.limit {
			break
		}
		items = append(items, models.NewsItem{
			Title:  stripPublisher(it.Title),
			Link:   it.Link,
			Date:   it.Published,
			Source: LabelNews,
		})
	}
	return items, nil
}

// stripPublisher turns "Apple beats estimates - Reuters" into
// "Apple beats estimates".
func stripPublisher(title string) string {
	return strings.TrimSpace(publisherSuffix.ReplaceAllString(title, ""))
}
