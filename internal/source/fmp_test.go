package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
)

var testTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func fixedNow() time.Time { return testTime }

func fastLimiter() *infra.RateLimiter { return infra.NewRateLimiter(100, time.Millisecond) }

func newTestFMP(srv *httptest.Server, key string) *FMP {
	return NewFMP(FMPConfig{
		APIKey:  key,
		BaseURL: srv.URL,
		Client:  srv.Client(),
		Limiter: fastLimiter(),
		Now:     fixedNow,
	})
}

func fmpMux(quote, profile, ratios string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote/", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(quote)) })
	mux.HandleFunc("/profile/", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(profile)) })
	mux.HandleFunc("/ratios-ttm/", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(ratios)) })
	return mux
}

func TestFMPLookupMergesAllCalls(t *testing.T) {
	srv := httptest.NewServer(fmpMux(
		`[{"symbol":"AAPL","price":187.3,"change":0,"changesPercentage":-0.5,"marketCap":2.9e12,"pe":29.1}]`,
		`[{"companyName":"Apple Inc.","currency":"USD","sector":"Technology","ceo":"Tim Cook"}]`,
		`[{"dividendYielTTM":0.0051,"peRatioTTM":29.4,"returnOnEquityTTM":1.47}]`,
	))
	defer srv.Close()

	res := newTestFMP(srv, "k").Lookup(context.Background(), "AAPL")
	if res.Err != nil {
		t.Fatalf("Lookup: unexpected error %v", res.Err)
	}
	rec := res.Record

	tests := []struct {
		field models.Field
		want  float64
	}{
		{models.FieldCurrentPrice, 187.3},
		{models.FieldPriceChange, 0},
		{models.FieldPriceChangePercentage, -0.5},
		{models.FieldMarketCap, 2.9e12},
		{models.FieldPERatio, 29.1},
		{models.FieldDividendYield, 0.0051},
		{models.FieldPERatioTTM, 29.4},
		{models.FieldReturnOnEquity, 1.47},
	}
	for _, tt := range tests {
		got, ok := rec.Number(tt.field)
		if !ok {
			t.Errorf("%s: missing", tt.field)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.field, got, tt.want)
		}
	}

	if name, _ := rec.CompanyName(); name != "Apple Inc." {
		t.Errorf("company_name: got %q", name)
	}
	if ceo, _ := rec.Text(models.FieldCEO); ceo != "Tim Cook" {
		t.Errorf("ceo: got %q", ceo)
	}
	if rec.Source != LabelFMP {
		t.Errorf("source: got %q, want %q", rec.Source, LabelFMP)
	}
	if !rec.LastUpdated.Equal(testTime) {
		t.Errorf("last_updated: got %v", rec.LastUpdated)
	}
	if rec.Has(models.FieldVolume) {
		t.Error("volume was not in the payload and should be absent")
	}
}

func TestFMPVendorErrorFailsOnlyThatCall(t *testing.T) {
	srv := httptest.NewServer(fmpMux(
		`[{"price":10.5}]`,
		`{"Error Message":"Limit Reach"}`,
		`[]`,
	))
	defer srv.Close()

	res := newTestFMP(srv, "k").Lookup(context.Background(), "XYZ")
	if res.Err != nil {
		t.Fatalf("Lookup: unexpected error %v", res.Err)
	}
	if v, _ := res.Record.Number(models.FieldCurrentPrice); v != 10.5 {
		t.Errorf("current_price: got %v, want 10.5", v)
	}
	if res.Record.Has(models.FieldCompanyName) {
		t.Error("company_name should be absent after profile error payload")
	}
}

func TestFMPAllCallsFail(t *testing.T) {
	srv := httptest.NewServer(fmpMux(
		`{"Error Message":"Invalid API KEY."}`,
		`{"Error Message":"Invalid API KEY."}`,
		`[]`,
	))
	defer srv.Close()

	f := newTestFMP(srv, "bad")
	res := f.Lookup(context.Background(), "AAPL")
	if res.Err == nil {
		t.Fatal("expected failure when every call fails")
	}
	if !errors.Is(res.Err, ErrVendorError) {
		t.Errorf("expected ErrVendorError in %v", res.Err)
	}
	if !errors.Is(res.Err, ErrNoData) {
		t.Errorf("expected ErrNoData in %v", res.Err)
	}

	if rec := f.Fetch(context.Background(), "AAPL"); rec.HasData() {
		t.Errorf("Fetch: expected empty record, got %d fields", rec.Len())
	}
}

func TestFMPMissingKeyMakesNoCalls(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	res := newTestFMP(srv, "").Lookup(context.Background(), "AAPL")
	if !errors.Is(res.Err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", res.Err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("HTTP calls: got %d, want 0", n)
	}
}

func TestFMPLenientFields(t *testing.T) {
	srv := httptest.NewServer(fmpMux(
		`[{"price":null,"marketCap":"n/a","volume":1200}]`,
		`[{"companyName":42,"currency":"USD"}]`,
		`[{}]`,
	))
	defer srv.Close()

	res := newTestFMP(srv, "k").Lookup(context.Background(), "AAPL")
	if res.Err != nil {
		t.Fatalf("Lookup: unexpected error %v", res.Err)
	}
	rec := res.Record
	if rec.Has(models.FieldCurrentPrice) {
		t.Error("null price should be absent")
	}
	if rec.Has(models.FieldMarketCap) {
		t.Error("string market cap should be absent")
	}
	if rec.Has(models.FieldCompanyName) {
		t.Error("numeric company name should be absent")
	}
	if v, _ := rec.Number(models.FieldVolume); v != 1200 {
		t.Errorf("volume: got %v", v)
	}
}

func TestFMPSendsAPIKey(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quote/MSFT" {
			gotKey = r.URL.Query().Get("apikey")
			gotPath = r.URL.Path
		}
		w.Write([]byte(`[{"price":1}]`))
	}))
	defer srv.Close()

	newTestFMP(srv, "secret").Lookup(context.Background(), "MSFT")
	if gotPath != "/quote/MSFT" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("apikey: got %q, want secret", gotKey)
	}
}

func TestFMPSearch(t *testing.T) {
	var gotQuery, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`[
			{"symbol":"AAPL","name":"Apple Inc.","exchangeShortName":"NASDAQ"},
			{"symbol":"","name":"blank"},
			{"symbol":"APLE","name":"Apple Hospitality REIT"}
		]`))
	}))
	defer srv.Close()

	matches, err := newTestFMP(srv, "k").Search(context.Background(), "Apple Inc", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "Apple Inc" || gotLimit != "5" {
		t.Errorf("query params: got query=%q limit=%q", gotQuery, gotLimit)
	}
	if len(matches) != 2 {
		t.Fatalf("matches: got %d, want 2", len(matches))
	}
	if matches[0] != (SearchMatch{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"}) {
		t.Errorf("first match: got %+v", matches[0])
	}
}

func TestFMPSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFMP(srv, "k").Search(context.Background(), "Apple", 5)
	var httpErr *infra.ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *infra.ErrHTTP, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status: got %d", httpErr.StatusCode)
	}
}

func TestFMPCompanyName(t *testing.T) {
	srv := httptest.NewServer(fmpMux(`[]`, `[{"companyName":"  Microsoft Corporation "}]`, `[]`))
	defer srv.Close()

	got, err := newTestFMP(srv, "k").CompanyName(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("CompanyName: %v", err)
	}
	if got != "Microsoft Corporation" {
		t.Errorf("CompanyName: got %q", got)
	}

	empty := httptest.NewServer(fmpMux(`[]`, `[{"companyName":""}]`, `[]`))
	defer empty.Close()
	if _, err := newTestFMP(empty, "k").CompanyName(context.Background(), "MSFT"); !errors.Is(err, ErrNoData) {
		t.Errorf("blank name: expected ErrNoData, got %v", err)
	}
}
