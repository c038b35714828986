package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
)

// RedditSearchURL is the public JSON search endpoint.
const RedditSearchURL = "https://www.reddit.com/search.json"

// redditPermalinkBase prefixes post permalinks.
const redditPermalinkBase = "https://reddit.com"

// DefaultOpinionLimit is how many posts are requested.
const DefaultOpinionLimit = 8

// redditListing is the subset of a Reddit search listing that is read. Each
// post is kept raw and read field by field, so one oddly typed post value
// ("score": "1.2k") only loses that field.
type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost map[string]json.RawMessage

func (p redditPost) text(key string) string {
	var s string
	if err := json.Unmarshal(p[key], &s); err != nil {
		return ""
	}
	return s
}

func (p redditPost) number(key string) float64 {
	var f float64
	if err := json.Unmarshal(p[key], &f); err != nil {
		return 0
	}
	return f
}

// OpinionsConfig configures the opinion feed. Zero values take defaults.
type OpinionsConfig struct {
	BaseURL   string
	Limit     int
	UserAgent string
	Client    infra.Doer
	Limiter   *infra.RateLimiter
	Logger    *slog.Logger
}

// Opinions fetches discussion posts from Reddit search.
type Opinions struct {
	baseURL   string
	limit     int
	userAgent string
	client    infra.Doer
	limiter   *infra.RateLimiter
	logger    *slog.Logger
}

// NewOpinions creates the opinion feed.
func NewOpinions(cfg OpinionsConfig) *Opinions {
	o := &Opinions{
		baseURL:   cfg.BaseURL,
		limit:     cfg.Limit,
		userAgent: cfg.UserAgent,
		client:    cfg.Client,
		limiter:   cfg.Limiter,
		logger:    cfg.Logger,
	}
	if o.baseURL == "" {
		o.baseURL = RedditSearchURL
	}
	if o.limit <= 0 {
		o.limit = DefaultOpinionLimit
	}
	if o.userAgent == "" {
		o.userAgent = infra.DefaultUserAgent
	}
	if o.client == nil {
		o.client = infra.NewHTTPClient(infra.APITimeout)
	}
	if o.limiter == nil {
		o.limiter = infra.NewRateLimiter(1, time.Second)
	}
	if o.logger == nil {
		o.logger = infra.NopLogger()
	}
	return o
}

// Name returns the feed label.
func (o *Opinions) Name() string { return LabelReddit }

// Fetch returns discussion items for query, or an empty list on any failure.
func (o *Opinions) Fetch(ctx context.Context, query string) []models.OpinionItem {
	items, err := o.Search(ctx, query)
	if err != nil {
		o.logger.Warn("opinion feed failed", "query", query, "error", err)
		return []models.OpinionItem{}
	}
	return items
}

// Search queries Reddit and reports failures.
func (o *Opinions) Search(ctx context.Context, query string) ([]models.OpinionItem, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := o.baseURL + "?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(o.limit)
	var listing redditListing
	if err := infra.GetJSON(ctx, o.client, u, map[string]string{
		"User-Agent": o.userAgent,
		"Accept":     "application/json",
	}, &listing); err != nil {
		return nil, fmt.Errorf("reddit search %q: %w", query, err)
	}

	items := make([]models.OpinionItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		title := post.text("title")
		if title == "" || isTickerChatter(title) {
			continue
		}
		items = append(items, models.OpinionItem{
			Text:      title,
			Score:     int(post.number("score")),
			URL:       redditPermalinkBase + post.text("permalink"),
			Date:      time.Unix(int64(post.number("created_utc")), 0).UTC().Format("2006-01-02"),
			Subreddit: post.text("subreddit"),
			Source:    LabelReddit,
		})
		if len(items) == o.limit {
			break
		}
	}
	return items, nil
}

// isTickerChatter reports short titles with digits, like "$AAPL 200c" or
// "TSLA 2024", which carry no opinion.
func isTickerChatter(title string) bool {
	if len(strings.Fields(title)) > 2 {
		return false
	}
	return strings.IndexFunc(title, unicode.IsDigit) >= 0
}
