// Package source implements the financial-data adapters: Financial Modeling
// Prep (primary), Finnhub (secondary), and a Yahoo Finance page scrape
// (last resort). Each adapter normalizes its vendor schema into the canonical
// models.FinancialRecord through one explicit mapping table.
//
// Adapters report failures internally as a Result; Fetch is the boundary
// where a failure is logged and collapsed to the empty record, so no error
// ever escapes to the aggregator.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/seenimoa/entitylens/pkg/models"
)

// Source labels, as recorded in FinancialRecord.Source.
const (
	LabelFMP     = "Financial Modeling Prep"
	LabelFinnhub = "Finnhub"
	LabelYahoo   = "Yahoo Finance"
)

// --- Sentinel errors ---

// ErrMissingCredential is returned when an adapter has no API key configured.
var ErrMissingCredential = errors.New("api credential not configured")

// ErrVendorError is returned when a vendor answers with an explicit error payload.
var ErrVendorError = errors.New("vendor error payload")

// ErrNoData is returned when a response parses but carries nothing usable.
var ErrNoData = errors.New("no data in response")

// Result is the outcome of one adapter lookup: a record, or the reason there
// is none.
type Result struct {
	Record models.FinancialRecord
	Err    error
}

// Ok wraps a successful lookup.
func Ok(rec models.FinancialRecord) Result { return Result{Record: rec} }

// Failure wraps a failed lookup.
func Failure(err error) Result { return Result{Err: err} }

// Adapter is implemented by every financial source.
type Adapter interface {
	// Name returns the source label.
	Name() string

	// Lookup queries the upstream and reports failures explicitly.
	Lookup(ctx context.Context, symbol string) Result

	// Fetch is Lookup collapsed at the boundary: failures are logged and
	// become the empty record.
	Fetch(ctx context.Context, symbol string) models.FinancialRecord
}

// collapse converts a Result into a record, logging the failure reason.
func collapse(logger *slog.Logger, source, symbol string, res Result) models.FinancialRecord {
	if res.Err != nil {
		level := slog.LevelWarn
		if errors.Is(res.Err, ErrMissingCredential) {
			level = slog.LevelDebug
		}
		logger.Log(context.Background(), level, "financial source failed",
			"source", source, "symbol", symbol, "error", res.Err)
		return models.FinancialRecord{}
	}
	return res.Record
}

// --- Lenient vendor payloads ---

// jsonObject is a vendor JSON object read field by field. A missing key, a
// null, or a value of the wrong JSON type reads as absent instead of failing
// the whole payload.
type jsonObject map[string]json.RawMessage

func decodeObject(data []byte) (jsonObject, error) {
	var obj jsonObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse object: %w", err)
	}
	return obj, nil
}

// Float returns the numeric value of key, or nil.
func (o jsonObject) Float(key string) *float64 {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// String returns the string value of key, or nil.
func (o jsonObject) String(key string) *string {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// Has reports whether key is present and non-null.
func (o jsonObject) Has(key string) bool {
	raw, ok := o[key]
	return ok && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// valueKind says how a vendor field is read.
type valueKind int

const (
	numeric valueKind = iota
	textual
)

// fieldMapping maps one vendor key to one canonical field.
type fieldMapping struct {
	vendor string
	field  models.Field
	kind   valueKind
}

// apply copies every mapped vendor field that is present into rec.
func (o jsonObject) apply(rec *models.FinancialRecord, table []fieldMapping) {
	for _, m := range table {
		switch m.kind {
		case numeric:
			rec.SetNumber(m.field, o.Float(m.vendor))
		case textual:
			rec.SetText(m.field, o.String(m.vendor))
		}
	}
}
