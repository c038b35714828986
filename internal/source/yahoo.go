package source

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
)

// Yahoo Finance has no keyed API here; the quote page is scraped. The markup
// changes often, so every extraction is an ordered list of alternatives and
// all Yahoo selectors live in this file.

// YahooBaseURL is the production site root.
const YahooBaseURL = "https://finance.yahoo.com"

// priceSelectors returns the price extraction strategies, most specific first.
func priceSelectors(symbol string) []string {
	return []string{
		`fin-streamer[data-field="regularMarketPrice"]`,
		`[data-test="qsp-price"]`,
		`.Fw\(b\).Fz\(36px\)`,
		fmt.Sprintf(`[data-symbol=%q][data-field="regularMarketPrice"]`, symbol),
	}
}

var marketCapSelectors = []string{
	`[data-test="MARKET_CAP-value"]`,
	`td[data-test="MARKET_CAP-value"]`,
	`[data-field="marketCap"]`,
}

// yahooMetricFields maps the quote-summary table's data-test labels to
// canonical fields. Later entries win, so metrics overwrite the headline
// price and market cap.
var yahooMetricFields = []struct {
	label string
	field models.Field
}{
	{"PREV_CLOSE-value", models.FieldPreviousClose},
	{"OPEN-value", models.FieldOpen},
	{"BID-value", models.FieldBid},
	{"ASK-value", models.FieldAsk},
	{"DAYS_RANGE-value", models.FieldDayRange},
	{"FIFTY_TWO_WK_RANGE-value", models.FieldFiftyTwoWeekRange},
	{"VOLUME-value", models.FieldVolume},
	{"AVG_VOLUME_3MONTH-value", models.FieldAvgVolume},
	{"MARKET_CAP-value", models.FieldMarketCap},
	{"BETA_5Y-value", models.FieldBeta},
	{"PE_RATIO-value", models.FieldPERatio},
	{"EPS_RATIO-value", models.FieldEPS},
	{"EARNINGS_DATE-value", models.FieldEarningsDate},
	{"DIVIDEND_AND_YIELD-value", models.FieldDividendYield},
	{"EX_DIVIDEND_DATE-value", models.FieldExDividendDate},
	{"ONE_YEAR_TARGET_PRICE-value", models.FieldTargetPrice},
}

// titleSelectors are tried after the document title when resolving a name.
var titleSelectors = []string{
	`h1[data-test="qsp-page-title"]`,
	`section[data-testid="quote-hdr"] h1`,
}

// YahooConfig configures the Yahoo adapter. Zero values take defaults.
type YahooConfig struct {
	BaseURL   string
	UserAgent string
	Client    infra.Doer
	Limiter   *infra.RateLimiter
	Logger    *slog.Logger
	Now       func() time.Time
}

// Yahoo is the last-resort page-scrape adapter. It also serves the
// resolver's page-title and symbol lookup scrapes.
type Yahoo struct {
	baseURL   string
	userAgent string
	client    infra.Doer
	limiter   *infra.RateLimiter
	logger    *slog.Logger
	now       func() time.Time
}

// NewYahoo creates the Yahoo adapter.
func NewYahoo(cfg YahooConfig) *Yahoo {
	y := &Yahoo{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    cfg.Client,
		limiter:   cfg.Limiter,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if y.baseURL == "" {
		y.baseURL = YahooBaseURL
	}
	if y.userAgent == "" {
		y.userAgent = infra.DefaultUserAgent
	}
	if y.client == nil {
		y.client = infra.NewHTTPClient(infra.PageTimeout)
	}
	if y.limiter == nil {
		y.limiter = infra.NewRateLimiter(2, time.Second)
	}
	if y.logger == nil {
		y.logger = infra.NopLogger()
	}
	if y.now == nil {
		y.now = time.Now
	}
	return y
}

// Name returns the source label.
func (y *Yahoo) Name() string { return LabelYahoo }

// Fetch returns the scraped record, or the empty record on failure.
func (y *Yahoo) Fetch(ctx context.Context, symbol string) models.FinancialRecord {
	return collapse(y.logger, y.Name(), symbol, y.Lookup(ctx, symbol))
}

// Lookup scrapes the quote page for price, market cap, and the summary table.
func (y *Yahoo) Lookup(ctx context.Context, symbol string) Result {
	doc, err := y.fetchPage(ctx, "/quote/"+url.PathEscape(symbol))
	if err != nil {
		return Failure(fmt.Errorf("yahoo quote %s: %w", symbol, err))
	}

	rec := models.NewFinancialRecord(y.Name(), y.now())
	if v, ok := firstMatch(doc, priceSelectors(symbol)); ok {
		rec.Set(models.FieldCurrentPrice, scrapedValue(v))
	}
	if v, ok := firstMatch(doc, marketCapSelectors); ok {
		rec.Set(models.FieldMarketCap, scrapedValue(v))
	}
	for _, m := range yahooMetricFields {
		v := strings.TrimSpace(doc.Find(fmt.Sprintf(`[data-test=%q]`, m.label)).First().Text())
		if v != "" {
			rec.Set(m.field, scrapedValue(v))
		}
	}

	if !rec.HasData() {
		return Failure(fmt.Errorf("yahoo quote %s: %w", symbol, ErrNoData))
	}
	return Ok(rec)
}

// PageTitle returns the company name shown on the quote page: the document
// title up to the first "(", then the page heading.
func (y *Yahoo) PageTitle(ctx context.Context, symbol string) (string, error) {
	doc, err := y.fetchPage(ctx, "/quote/"+url.PathEscape(symbol))
	if err != nil {
		return "", fmt.Errorf("yahoo title %s: %w", symbol, err)
	}

	if title := beforeParen(doc.Find("title").First().Text()); title != "" && title != "Quote" {
		return title, nil
	}
	for _, sel := range titleSelectors {
		if h := beforeParen(doc.Find(sel).First().Text()); h != "" {
			return h, nil
		}
	}
	return "", fmt.Errorf("yahoo title %s: %w", symbol, ErrNoData)
}

// beforeParen trims "Apple Inc. (AAPL) Stock Price" to "Apple Inc.".
func beforeParen(s string) string {
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// LookupSymbol returns the first symbol in the lookup results for name.
func (y *Yahoo) LookupSymbol(ctx context.Context, name string) (string, error) {
	doc, err := y.fetchPage(ctx, "/lookup?s="+url.QueryEscape(name))
	if err != nil {
		return "", fmt.Errorf("yahoo lookup %q: %w", name, err)
	}

	var symbol string
	doc.Find("tr.react-data-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		symbol = strings.TrimSpace(row.Find(`td[aria-label="Symbol"]`).First().Text())
		return symbol == ""
	})
	if symbol == "" {
		return "", fmt.Errorf("yahoo lookup %q: %w", name, ErrNoData)
	}
	return symbol, nil
}

// --- Internal helpers ---

// fetchPage downloads and parses a Yahoo Finance page.
func (y *Yahoo) fetchPage(ctx context.Context, path string) (*goquery.Document, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := infra.DoGet(ctx, y.client, y.baseURL+path, map[string]string{
		"User-Agent": y.userAgent,
		"Accept":     "text/html",
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse yahoo HTML: %w", err)
	}
	return doc, nil
}

// firstMatch tries each selector in order and returns the first non-empty
// value, preferring the value attribute over the element text.
func firstMatch(doc *goquery.Document, selectors []string) (string, bool) {
	for _, sel := range selectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if v, ok := el.Attr("value"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
		if v := strings.TrimSpace(el.Text()); v != "" {
			return v, true
		}
	}
	return "", false
}

// scrapedValue keeps plain numbers numeric ("1,234.5" becomes 1234.5) and
// everything else ("2.87T", "Oct 30, 2024") as text.
func scrapedValue(s string) models.Value {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return models.Number(f)
	}
	return models.Text(s)
}
