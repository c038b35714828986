package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
)

// Financial Modeling Prep offers quotes, profiles, and TTM ratios via a REST
// API with API key authentication.
//
// Free tier: 250 requests/day.
// Docs: https://financialmodelingprep.com/developer/docs

// FMPBaseURL is the production API root.
const FMPBaseURL = "https://financialmodelingprep.com/api/v3"

// fmpErrorKey marks an error payload: {"Error Message": "..."}.
const fmpErrorKey = "Error Message"

// --- Field mapping ---

var fmpQuoteFields = []fieldMapping{
	{"price", models.FieldCurrentPrice, numeric},
	{"change", models.FieldPriceChange, numeric},
	{"changesPercentage", models.FieldPriceChangePercentage, numeric},
	{"dayHigh", models.FieldDayHigh, numeric},
	{"dayLow", models.FieldDayLow, numeric},
	{"yearHigh", models.FieldYearHigh, numeric},
	{"yearLow", models.FieldYearLow, numeric},
	{"volume", models.FieldVolume, numeric},
	{"avgVolume", models.FieldAvgVolume, numeric},
	{"marketCap", models.FieldMarketCap, numeric},
	{"open", models.FieldOpen, numeric},
	{"previousClose", models.FieldPreviousClose, numeric},
	{"eps", models.FieldEPS, numeric},
	{"pe", models.FieldPERatio, numeric},
}

var fmpProfileFields = []fieldMapping{
	{"companyName", models.FieldCompanyName, textual},
	{"currency", models.FieldCurrency, textual},
	{"exchange", models.FieldExchange, textual},
	{"industry", models.FieldIndustry, textual},
	{"sector", models.FieldSector, textual},
	{"description", models.FieldDescription, textual},
	{"ceo", models.FieldCEO, textual},
	{"website", models.FieldWebsite, textual},
	{"image", models.FieldImage, textual},
}

var fmpRatioFields = []fieldMapping{
	// FMP spells this key without the second "d".
	{"dividendYielTTM", models.FieldDividendYield, numeric},
	{"peRatioTTM", models.FieldPERatioTTM, numeric},
	{"pegRatioTTM", models.FieldPEGRatio, numeric},
	{"payoutRatioTTM", models.FieldPayoutRatio, numeric},
	{"currentRatioTTM", models.FieldCurrentRatio, numeric},
	{"quickRatioTTM", models.FieldQuickRatio, numeric},
	{"grossProfitMarginTTM", models.FieldGrossProfitMargin, numeric},
	{"operatingProfitMarginTTM", models.FieldOperatingProfitMargin, numeric},
	{"netProfitMarginTTM", models.FieldNetProfitMargin, numeric},
	{"returnOnAssetsTTM", models.FieldReturnOnAssets, numeric},
	{"returnOnEquityTTM", models.FieldReturnOnEquity, numeric},
}

// fmpCall is one of the dependent lookups merged into a record. Order
// matters: later calls overwrite fields set by earlier ones.
type fmpCall struct {
	name   string
	path   string
	fields []fieldMapping
}

var fmpCalls = []fmpCall{
	{"quote", "/quote/", fmpQuoteFields},
	{"profile", "/profile/", fmpProfileFields},
	{"ratios", "/ratios-ttm/", fmpRatioFields},
}

// FMPConfig configures the FMP adapter. Zero values take defaults.
type FMPConfig struct {
	APIKey  string
	BaseURL string
	Client  infra.Doer
	Limiter *infra.RateLimiter
	Logger  *slog.Logger
	Now     func() time.Time
}

// FMP is the primary structured-API adapter.
type FMP struct {
	apiKey  string
	baseURL string
	client  infra.Doer
	limiter *infra.RateLimiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewFMP creates the FMP adapter.
func NewFMP(cfg FMPConfig) *FMP {
	f := &FMP{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  cfg.Client,
		limiter: cfg.Limiter,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if f.baseURL == "" {
		f.baseURL = FMPBaseURL
	}
	if f.client == nil {
		f.client = infra.NewHTTPClient(infra.APITimeout)
	}
	if f.limiter == nil {
		f.limiter = infra.NewRateLimiter(5, time.Second)
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
func (f *FMP) Name() string { return LabelFMP }

// HasCredentials reports whether an API key is configured.
func (f *FMP) HasCredentials() bool { return f.apiKey != "" }

// Fetch returns the merged record, or the empty record on failure.
func (f *FMP) Fetch(ctx context.Context, symbol string) models.FinancialRecord {
	return collapse(f.logger, f.Name(), symbol, f.Lookup(ctx, symbol))
}

// Lookup issues the quote, profile, and TTM ratio calls and merges whatever
// succeeds. A failed call only loses its own fields; the lookup fails when
// all three do.
func (f *FMP) Lookup(ctx context.Context, symbol string) Result {
	if f.apiKey == "" {
		return Failure(fmt.Errorf("fmp: %w", ErrMissingCredential))
	}

	rec := models.NewFinancialRecord(f.Name(), f.now())
	var errs []error
	for _, call := range fmpCalls {
		obj, err := f.first(ctx, call.path+url.PathEscape(symbol))
		if err != nil {
			f.logger.Debug("fmp call failed", "call", call.name, "symbol", symbol, "error", err)
			errs = append(errs, fmt.Errorf("fmp %s %s: %w", call.name, symbol, err))
			continue
		}
		obj.apply(&rec, call.fields)
	}

	if len(errs) == len(fmpCalls) {
		return Failure(errors.Join(errs...))
	}
	return Ok(rec)
}

// CompanyName returns the profile's company name for symbol.
func (f *FMP) CompanyName(ctx context.Context, symbol string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("fmp: %w", ErrMissingCredential)
	}
	obj, err := f.first(ctx, "/profile/"+url.PathEscape(symbol))
	if err != nil {
		return "", fmt.Errorf("fmp profile %s: %w", symbol, err)
	}
	name := obj.String("companyName")
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", fmt.Errorf("fmp profile %s: %w", symbol, ErrNoData)
	}
	return strings.TrimSpace(*name), nil
}

// SearchMatch is one symbol search hit.
type SearchMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
}

// Search queries the symbol search endpoint, best match first.
func (f *FMP) Search(ctx context.Context, query string, limit int) ([]SearchMatch, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("fmp: %w", ErrMissingCredential)
	}
	if limit <= 0 {
		limit = 5
	}

	path := "/search?query=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)
	items, err := f.list(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fmp search %q: %w", query, err)
	}

	out := make([]SearchMatch, 0, len(items))
	for _, raw := range items {
		obj, err := decodeObject(raw)
		if err != nil {
			continue
		}
		sym := obj.String("symbol")
		if sym == nil || *sym == "" {
			continue
		}
		m := SearchMatch{Symbol: *sym}
		if name := obj.String("name"); name != nil {
			m.Name = *name
		}
		if ex := obj.String("exchangeShortName"); ex != nil {
			m.Exchange = *ex
		}
		out = append(out, m)
	}
	return out, nil
}

// --- Internal helpers ---

// fmpURL builds a full FMP API URL with the API key appended.
func (f *FMP) fmpURL(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return f.baseURL + path + sep + "apikey=" + url.QueryEscape(f.apiKey)
}

// list fetches an endpoint that answers with a JSON array. An object
// carrying the error key is reported as ErrVendorError.
func (f *FMP) list(ctx context.Context, path string) ([]json.RawMessage, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	data, err := infra.GetBytes(ctx, f.client, f.fmpURL(path), map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		obj, err := decodeObject(data)
		if err != nil {
			return nil, err
		}
		if msg := obj.String(fmpErrorKey); msg != nil {
			return nil, fmt.Errorf("%w: %s", ErrVendorError, *msg)
		}
		if obj.Has(fmpErrorKey) {
			return nil, ErrVendorError
		}
		// A bare object is treated as a one-element list.
		return []json.RawMessage{json.RawMessage(data)}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse FMP JSON: %w", err)
	}
	return items, nil
}

// first fetches a list endpoint and returns its first object.
func (f *FMP) first(ctx context.Context, path string) (jsonObject, error) {
	items, err := f.list(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoData
	}
	return decodeObject(items[0])
}
