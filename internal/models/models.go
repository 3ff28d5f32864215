package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is an open-ended transaction row as delivered by the transport
// layer. It is guaranteed to carry date-like, amount-like, and vendor-like
// fields by name, but values may be strings, numbers, or missing. Extra
// fields pass through untouched.
type RawRecord map[string]interface{}

// Field name patterns used to resolve the semantic columns when the exact
// canonical key is absent. Matching is case-insensitive substring, first hit
// wins, mirroring common ledger export headers.
var (
	amountAliases = []string{"amount", "amt", "sum", "total"}
	vendorAliases = []string{"vendor", "payee", "merchant", "supplier"}
)

// DateValue returns the raw date-like value of the record.
func (r RawRecord) DateValue() (interface{}, bool) {
	return r.lookup("date", []string{"date"})
}

// AmountValue returns the raw amount-like value of the record.
func (r RawRecord) AmountValue() (interface{}, bool) {
	return r.lookup("amount", amountAliases)
}

// VendorValue returns the raw vendor-like value of the record.
func (r RawRecord) VendorValue() (interface{}, bool) {
	return r.lookup("vendor", vendorAliases)
}

func (r RawRecord) lookup(canonical string, aliases []string) (interface{}, bool) {
	if v, ok := r[canonical]; ok {
		return v, true
	}
	for key, v := range r {
		folded := strings.ToLower(key)
		for _, alias := range aliases {
			if strings.Contains(folded, alias) {
				return v, true
			}
		}
	}
	return nil, false
}

// NormalizedTransaction is the canonical internal shape of a row that parsed
// successfully. Amount is always finite and non-negative; Date carries no
// time-of-day; VendorFolded is the case-folded comparison copy of Vendor.
type NormalizedTransaction struct {
	Amount       decimal.Decimal
	Date         time.Time
	Vendor       string
	VendorFolded string
	SourceIndex  int
}

// DateKey returns the calendar-date key used for grouping and indexing.
func (t *NormalizedTransaction) DateKey() string {
	return t.Date.Format("2006-01-02")
}

// String returns a string representation of the transaction
func (t *NormalizedTransaction) String() string {
	return fmt.Sprintf("Transaction{Index: %d, Amount: %s, Date: %s, Vendor: %q}",
		t.SourceIndex, t.Amount.String(), t.DateKey(), t.Vendor)
}

// SkippedRow records a row excluded during normalization, so data-quality
// loss is visible in the final report without aborting the batch.
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Category identifies the kind of anomaly a Finding describes.
type Category string

const (
	CategoryDuplicate      Category = "duplicate"
	CategoryFuzzyDuplicate Category = "fuzzy_duplicate"
	CategoryUnusualTiming  Category = "unusual_timing"
	CategoryRoundNumber    Category = "round_number"
	CategoryThresholdFlag  Category = "threshold_flag"
	CategoryBenfordDigit   Category = "benford_digit"
)

// Finding is one flagged anomaly. Common fields are always populated; the
// remaining fields are category-specific payload and omitted when unused.
type Finding struct {
	Category      Category `json:"category"`
	SourceIndexes []int    `json:"source_indexes"`
	Reason        string   `json:"reason"`

	Amount string `json:"amount,omitempty"`
	Date   string `json:"date,omitempty"`
	Vendor string `json:"vendor,omitempty"`

	// Duplicate payload
	GroupSize int `json:"group_size,omitempty"`

	// Fuzzy duplicate payload
	Similarity float64  `json:"similarity,omitempty"`
	Vendors    []string `json:"vendors,omitempty"`

	// Threshold payload
	DeltaToThreshold string `json:"delta_to_threshold,omitempty"`

	// Benford payload
	Benford *BenfordStats `json:"benford,omitempty"`
}

// BenfordStats carries the full observed-vs-expected leading-digit table so
// reviewers can see the distribution behind the deviation statistic.
type BenfordStats struct {
	SampleSize int            `json:"sample_size"`
	ChiSquare  float64        `json:"chi_square"`
	Flagged    bool           `json:"flagged"`
	Digits     []BenfordDigit `json:"digits,omitempty"`
}

// BenfordDigit is one row of the leading-digit distribution table.
type BenfordDigit struct {
	Digit    int     `json:"digit"`
	Count    int     `json:"count"`
	Observed float64 `json:"observed"`
	Expected float64 `json:"expected"`
}

// BenfordExpected returns the theoretical Benford frequency for digit d.
func BenfordExpected(d int) float64 {
	return math.Log10(1 + 1/float64(d))
}

// Summary holds the fixed-shape per-category counts. Field names are part of
// the external contract and must not change.
type Summary struct {
	TotalTransactions int `json:"total_transactions"`
	Duplicates        int `json:"duplicates"`
	UnusualTiming     int `json:"unusual_timing"`
	RoundNumbers      int `json:"round_numbers"`
	ThresholdFlags    int `json:"threshold_flags"`
}

// Details holds the per-category finding lists. Every list is present even
// when empty; consumers never special-case missing keys.
type Details struct {
	Duplicates      []Finding `json:"duplicates"`
	UnusualTiming   []Finding `json:"unusual_timing"`
	RoundNumbers    []Finding `json:"round_numbers"`
	ThresholdFlags  []Finding `json:"threshold_flags"`
	Benford         []Finding `json:"benford"`
	FuzzyDuplicates []Finding `json:"fuzzy_duplicates"`
}

// Diagnostics reports data-quality information alongside the findings.
type Diagnostics struct {
	SkippedRows []SkippedRow `json:"skipped_rows"`
	Notes       []string     `json:"notes"`
}

// AnalysisResult is the engine's sole output.
type AnalysisResult struct {
	ReportID    string      `json:"report_id"`
	Summary     Summary     `json:"summary"`
	Details     Details     `json:"details"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Parsing helpers shared by the normalizer and the CSV loader.

// Currency symbols stripped before decimal parsing. Matches the display
// symbols the report renderer supports.
var currencySymbols = []string{"$", "€", "£", "₦", "¥", "Br", "R"}

// ParseAmount parses a decimal amount from an untyped value. String values
// may carry currency symbols and thousands separators; negative signs are
// dropped because the detectors analyze magnitude, not direction.
func ParseAmount(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v.Abs(), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("amount is not a finite number: %v", v)
		}
		return decimal.NewFromFloat(v).Abs(), nil
	case float32:
		return ParseAmount(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)).Abs(), nil
	case int64:
		return decimal.NewFromInt(v).Abs(), nil
	case json.Number:
		return ParseAmountString(v.String())
	case string:
		return ParseAmountString(v)
	case nil:
		return decimal.Zero, fmt.Errorf("amount is missing")
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", value)
	}
}

// ParseAmountString parses a decimal amount from its string form, stripping
// currency symbols and thousands separators first.
func ParseAmountString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	for _, symbol := range currencySymbols {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d.Abs(), nil
}

// Date formats accepted for transaction rows, ISO first. Only the calendar
// date is kept; time-of-day components are discarded.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a calendar date from an untyped value and truncates it to
// midnight UTC so day-of-week classification has no timezone ambiguity.
func ParseDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return truncateToDate(v), nil
	case string:
		return ParseDateString(v)
	case nil:
		return time.Time{}, fmt.Errorf("date is missing")
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", value)
	}
}

// ParseDateString attempts the accepted date formats in order.
func ParseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	var lastErr error
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return truncateToDate(t), nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseVendor extracts the vendor string. Missing vendors become the empty
// string sentinel rather than an error; vendor-dependent detectors simply
// produce no finding for such rows.
func ParseVendor(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// FoldVendor produces the case-folded comparison copy of a vendor name.
func FoldVendor(vendor string) string {
	return strings.ToLower(strings.TrimSpace(vendor))
}

// LeadingDigit returns the first significant decimal digit (1-9) of a
// positive amount, or 0 when the amount has no significant digit.
func LeadingDigit(amount decimal.Decimal) int {
	if amount.Sign() <= 0 {
		return 0
	}
	for _, c := range amount.Abs().String() {
		if c >= '1' && c <= '9' {
			return int(c - '0')
		}
	}
	return 0
}
