// Package models defines the data structures shared by the entitylens
// pipeline: the canonical financial record, feed items, and the composite
// entity record handed to the web layer.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Field is a canonical financial field name. Every source adapter
// normalizes its vendor-specific names into this set.
type Field string

// Canonical fields.
const (
	FieldCurrentPrice          Field = "current_price"
	FieldPriceChange           Field = "price_change"
	FieldPriceChangePercentage Field = "price_change_percentage"
	FieldDayHigh               Field = "day_high"
	FieldDayLow                Field = "day_low"
	FieldYearHigh              Field = "year_high"
	FieldYearLow               Field = "year_low"
	FieldDayRange              Field = "day_range"
	FieldFiftyTwoWeekRange     Field = "fifty_two_week_range"
	FieldOpen                  Field = "open"
	FieldPreviousClose         Field = "previous_close"
	FieldBid                   Field = "bid"
	FieldAsk                   Field = "ask"
	FieldVolume                Field = "volume"
	FieldAvgVolume             Field = "avg_volume"
	FieldMarketCap             Field = "market_cap"
	FieldEPS                   Field = "eps"
	FieldPERatio               Field = "pe_ratio"
	FieldPERatioTTM            Field = "pe_ratio_ttm"
	FieldPEGRatio              Field = "peg_ratio"
	FieldPayoutRatio           Field = "payout_ratio"
	FieldDividendYield         Field = "dividend_yield"
	FieldBeta                  Field = "beta"
	FieldCurrentRatio          Field = "current_ratio"
	FieldQuickRatio            Field = "quick_ratio"
	FieldGrossProfitMargin     Field = "gross_profit_margin"
	FieldOperatingProfitMargin Field = "operating_profit_margin"
	FieldNetProfitMargin       Field = "net_profit_margin"
	FieldReturnOnAssets        Field = "return_on_assets"
	FieldReturnOnEquity        Field = "return_on_equity"
	FieldTargetPrice           Field = "target_price"
	FieldEarningsDate          Field = "earnings_date"
	FieldExDividendDate        Field = "ex_dividend_date"
	FieldCompanyName           Field = "company_name"
	FieldCurrency              Field = "currency"
	FieldExchange              Field = "exchange"
	FieldSector                Field = "sector"
	FieldIndustry              Field = "industry"
	FieldDescription           Field = "description"
	FieldCEO                   Field = "ceo"
	FieldWebsite               Field = "website"
	FieldImage                 Field = "image"
	FieldLogo                  Field = "logo"
)

// Reserved JSON keys carrying provenance rather than data.
const (
	keySource      = "source"
	keyLastUpdated = "last_updated"
)

// Value is a scalar field value: either a number or a string. There is no
// null Value; an absent field is simply not in the record.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{num: f} }

// Text returns a string Value.
func Text(s string) Value { return Value{text: s, isText: true} }

// IsText reports whether v holds a string.
func (v Value) IsText() bool { return v.isText }

// Float returns the numeric value and true, or 0 and false for text values.
func (v Value) Float() (float64, bool) {
	if v.isText {
		return 0, false
	}
	return v.num, true
}

// String formats the value for display.
func (v Value) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	return json.Marshal(v.num)
}

// FinancialRecord maps canonical fields to values and records which adapter
// produced them. The zero value is the empty record.
type FinancialRecord struct {
	Source      string
	LastUpdated time.Time
	fields      map[Field]Value
}

// NewFinancialRecord creates an empty record stamped with its provenance.
func NewFinancialRecord(source string, at time.Time) FinancialRecord {
	return FinancialRecord{
		Source:      source,
		LastUpdated: at,
		fields:      make(map[Field]Value),
	}
}

// Set stores a value, overwriting any earlier value for the field.
func (r *FinancialRecord) Set(f Field, v Value) {
	if r.fields == nil {
		r.fields = make(map[Field]Value)
	}
	r.fields[f] = v
}

// SetNumber stores *p when p is non-nil.
func (r *FinancialRecord) SetNumber(f Field, p *float64) {
	if p != nil {
		r.Set(f, Number(*p))
	}
}

// SetText stores *p when p is non-nil.
func (r *FinancialRecord) SetText(f Field, p *string) {
	if p != nil {
		r.Set(f, Text(*p))
	}
}

// Merge copies every field of other into r. Fields present in both take
// other's value.
func (r *FinancialRecord) Merge(other FinancialRecord) {
	for f, v := range other.fields {
		r.Set(f, v)
	}
}

// Get returns the value of f and whether it is present.
func (r FinancialRecord) Get(f Field) (Value, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Has reports whether f is present.
func (r FinancialRecord) Has(f Field) bool {
	_, ok := r.fields[f]
	return ok
}

// Number returns the numeric value of f. It reports false when f is absent
// or holds text.
func (r FinancialRecord) Number(f Field) (float64, bool) {
	v, ok := r.fields[f]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Text returns the string value of f. It reports false when f is absent or
// holds a number.
func (r FinancialRecord) Text(f Field) (string, bool) {
	v, ok := r.fields[f]
	if !ok || !v.isText {
		return "", false
	}
	return v.text, true
}

// CompanyName returns the non-empty company name, if any.
func (r FinancialRecord) CompanyName() (string, bool) {
	name, ok := r.Text(FieldCompanyName)
	return name, ok && name != ""
}

// Len returns the number of present fields.
func (r FinancialRecord) Len() int { return len(r.fields) }

// HasData is the presence test: at least one field besides provenance.
func (r FinancialRecord) HasData() bool { return len(r.fields) > 0 }

// HasQuote reports whether a price or a market cap is present, which is what
// makes a record worth caching and naming.
func (r FinancialRecord) HasQuote() bool {
	return r.Has(FieldCurrentPrice) || r.Has(FieldMarketCap)
}

// Fields returns the present fields in sorted order.
func (r FinancialRecord) Fields() []Field {
	out := make([]Field, 0, len(r.fields))
	for f := range r.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a deep copy.
func (r FinancialRecord) Clone() FinancialRecord {
	c := FinancialRecord{Source: r.Source, LastUpdated: r.LastUpdated}
	if r.fields != nil {
		c.fields = make(map[Field]Value, len(r.fields))
		for f, v := range r.fields {
			c.fields[f] = v
		}
	}
	return c
}

// MarshalJSON renders the record as one flat object: the present fields plus
// source and last_updated. The empty record renders as {}.
func (r FinancialRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}

	for _, f := range r.Fields() {
		if err := write(string(f), r.fields[f]); err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", f, err)
		}
	}
	if r.Source != "" {
		if err := write(keySource, r.Source); err != nil {
			return nil, err
		}
	}
	if !r.LastUpdated.IsZero() {
		if err := write(keyLastUpdated, r.LastUpdated.Format(time.RFC3339Nano)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON is the inverse of MarshalJSON. Nulls and non-scalar values
// are dropped rather than rejected.
func (r *FinancialRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = FinancialRecord{}
	for key, msg := range raw {
		switch key {
		case keySource:
			_ = json.Unmarshal(msg, &r.Source)
		case keyLastUpdated:
			var s string
			if err := json.Unmarshal(msg, &s); err == nil {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					r.LastUpdated = t
				}
			}
		default:
			if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
				continue
			}
			var f float64
			if err := json.Unmarshal(msg, &f); err == nil {
				r.Set(Field(key), Number(f))
				continue
			}
			var s string
			if err := json.Unmarshal(msg, &s); err == nil {
				r.Set(Field(key), Text(s))
			}
		}
	}
	return nil
}
