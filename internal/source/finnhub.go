package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
)

// FinnhubBaseURL is the production API root.
const FinnhubBaseURL = "https://finnhub.io/api/v1"

// --- Field mapping ---

var finnhubQuoteFields = []struct {
	field models.Field
	get   func(q *finnhub.Quote) *float32
}{
	{models.FieldCurrentPrice, func(q *finnhub.Quote) *float32 { return q.C }},
	{models.FieldPriceChange, func(q *finnhub.Quote) *float32 { return q.D }},
	{models.FieldPriceChangePercentage, func(q *finnhub.Quote) *float32 { return q.Dp }},
	{models.FieldDayHigh, func(q *finnhub.Quote) *float32 { return q.H }},
	{models.FieldDayLow, func(q *finnhub.Quote) *float32 { return q.L }},
	{models.FieldOpen, func(q *finnhub.Quote) *float32 { return q.O }},
	{models.FieldPreviousClose, func(q *finnhub.Quote) *float32 { return q.Pc }},
}

var finnhubProfileFields = []struct {
	field models.Field
	get   func(p *finnhub.CompanyProfile2) *string
}{
	{models.FieldCompanyName, func(p *finnhub.CompanyProfile2) *string { return p.Name }},
	{models.FieldCurrency, func(p *finnhub.CompanyProfile2) *string { return p.Currency }},
	{models.FieldExchange, func(p *finnhub.CompanyProfile2) *string { return p.Exchange }},
	{models.FieldIndustry, func(p *finnhub.CompanyProfile2) *string { return p.FinnhubIndustry }},
	{models.FieldWebsite, func(p *finnhub.CompanyProfile2) *string { return p.Weburl }},
	{models.FieldLogo, func(p *finnhub.CompanyProfile2) *string { return p.Logo }},
}

var finnhubMetricFields = []fieldMapping{
	{"marketCapitalization", models.FieldMarketCap, numeric},
	{"peNormalizedAnnual", models.FieldPERatio, numeric},
	{"pegRatio", models.FieldPEGRatio, numeric},
	{"dividendYieldIndicatedAnnual", models.FieldDividendYield, numeric},
	{"52WeekHigh", models.FieldYearHigh, numeric},
	{"52WeekLow", models.FieldYearLow, numeric},
	{"epsNormalizedAnnual", models.FieldEPS, numeric},
}

// FinnhubConfig configures the Finnhub adapter. Zero values take defaults.
type FinnhubConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *infra.RateLimiter
	Logger     *slog.Logger
	Now        func() time.Time
}

// Finnhub is the secondary structured-API adapter, backed by the official
// Finnhub SDK.
type Finnhub struct {
	apiKey  string
	api     *finnhub.DefaultApiService
	limiter *infra.RateLimiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewFinnhub creates the Finnhub adapter.
func NewFinnhub(cfg FinnhubConfig) *Finnhub {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = FinnhubBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = infra.NewHTTPClient(infra.APITimeout)
	}

	sdkCfg := finnhub.NewConfiguration()
	sdkCfg.AddDefaultHeader("X-Finnhub-Token", cfg.APIKey)
	sdkCfg.Servers = finnhub.ServerConfigurations{{URL: base}}
	sdkCfg.HTTPClient = httpClient

	f := &Finnhub{
		apiKey:  cfg.APIKey,
		api:     finnhub.NewAPIClient(sdkCfg).DefaultApi,
		limiter: cfg.Limiter,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if f.limiter == nil {
		// Free tier: 60 calls/minute. Burst of 30, then one call every 2s.
		f.limiter = infra.NewRateLimiter(30, 2*time.Second)
	}
	if f.logger == nil {
		f.logger = infra.NopLogger()
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Name returns the source label.
func (f *Finnhub) Name() string { return LabelFinnhub }

// Fetch returns the merged record, or the empty record on failure.
func (f *Finnhub) Fetch(ctx context.Context, symbol string) models.FinancialRecord {
	return collapse(f.logger, f.Name(), symbol, f.Lookup(ctx, symbol))
}

// Lookup issues the quote, profile, and metric calls and merges whatever
// succeeds, in that order.
func (f *Finnhub) Lookup(ctx context.Context, symbol string) Result {
	if f.apiKey == "" {
		return Failure(fmt.Errorf("finnhub: %w", ErrMissingCredential))
	}

	rec := models.NewFinancialRecord(f.Name(), f.now())
	calls := []struct {
		name string
		run  func(context.Context, string, *models.FinancialRecord) error
	}{
		{"quote", f.quote},
		{"profile", f.profile},
		{"metric", f.metric},
	}

	var errs []error
	for _, call := range calls {
		if err := f.limiter.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("finnhub %s %s: %w", call.name, symbol, err))
			continue
		}
		if err := call.run(ctx, symbol, &rec); err != nil {
			f.logger.Debug("finnhub call failed", "call", call.name, "symbol", symbol, "error", err)
			errs = append(errs, fmt.Errorf("finnhub %s %s: %w", call.name, symbol, err))
		}
	}

	if len(errs) == len(calls) {
		return Failure(errors.Join(errs...))
	}
	return Ok(rec)
}

func (f *Finnhub) quote(ctx context.Context, symbol string, rec *models.FinancialRecord) error {
	q, _, err := f.api.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return err
	}
	if isEmptyQuote(&q) {
		return ErrNoData
	}
	for _, m := range finnhubQuoteFields {
		rec.SetNumber(m.field, widen(m.get(&q)))
	}
	return nil
}

func (f *Finnhub) profile(ctx context.Context, symbol string, rec *models.FinancialRecord) error {
	p, _, err := f.api.CompanyProfile2(ctx).Symbol(symbol).Execute()
	if err != nil {
		return err
	}
	if p.Name == nil {
		return ErrNoData
	}
	for _, m := range finnhubProfileFields {
		rec.SetText(m.field, m.get(&p))
	}
	return nil
}

func (f *Finnhub) metric(ctx context.Context, symbol string, rec *models.FinancialRecord) error {
	bf, _, err := f.api.CompanyBasicFinancials(ctx).Symbol(symbol).Metric("all").Execute()
	if err != nil {
		return err
	}
	metrics := bf.GetMetric()
	if len(metrics) == 0 {
		return ErrNoData
	}

	// Re-read the loosely typed metric map through the lenient accessors.
	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	obj.apply(rec, finnhubMetricFields)
	return nil
}

// isEmptyQuote reports the shape Finnhub returns for an unknown symbol:
// current, previous close, high, and low all zero or missing.
func isEmptyQuote(q *finnhub.Quote) bool {
	for _, p := range []*float32{q.C, q.Pc, q.H, q.L} {
		if p != nil && *p != 0 {
			return false
		}
	}
	return true
}

// widen converts an SDK float32 to float64 through its shortest decimal form,
// so 187.3 stays 187.3 rather than 187.3000030517578.
func widen(p *float32) *float64 {
	if p == nil {
		return nil
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(*p), 'g', -1, 32), 64)
	if err != nil {
		return nil
	}
	return &f
}
