package normalizer

import (
	"testing"

	"golang-anomaly-detection-service/internal/models"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	rows := []models.RawRecord{
		{"date": "2024-01-15", "amount": "$1,500.00", "vendor": "  ABC Supplies  "},
		{"date": "2024-01-16", "amount": 250.75, "vendor": "XYZ Traders"},
	}

	txns, skipped := Normalize(rows)
	if len(skipped) != 0 {
		t.Fatalf("expected no skipped rows, got %v", skipped)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	first := txns[0]
	if first.Amount.Cmp(decimal.NewFromInt(1500)) != 0 {
		t.Errorf("expected amount 1500, got %s", first.Amount)
	}
	if first.DateKey() != "2024-01-15" {
		t.Errorf("expected date 2024-01-15, got %s", first.DateKey())
	}
	if first.Vendor != "ABC Supplies" {
		t.Errorf("expected trimmed vendor, got %q", first.Vendor)
	}
	if first.VendorFolded != "abc supplies" {
		t.Errorf("expected folded vendor, got %q", first.VendorFolded)
	}
	if first.SourceIndex != 0 || txns[1].SourceIndex != 1 {
		t.Errorf("source indexes wrong: %d, %d", first.SourceIndex, txns[1].SourceIndex)
	}
}

func TestNormalizeSkipsMalformedRows(t *testing.T) {
	rows := []models.RawRecord{
		{"date": "2024-01-15", "amount": "100", "vendor": "Good"},
		{"date": "2024-01-15", "vendor": "No Amount"},
		{"amount": "100", "vendor": "No Date"},
		{"date": "not a date", "amount": "100", "vendor": "Bad Date"},
		{"date": "2024-01-15", "amount": "abc", "vendor": "Bad Amount"},
	}

	txns, skipped := Normalize(rows)
	if len(txns) != 1 {
		t.Fatalf("expected 1 usable transaction, got %d", len(txns))
	}
	if len(skipped) != 4 {
		t.Fatalf("expected 4 skipped rows, got %d", len(skipped))
	}

	// Skipped indexes refer to the original input positions.
	for i, want := range []int{1, 2, 3, 4} {
		if skipped[i].Index != want {
			t.Errorf("skipped[%d].Index = %d, want %d", i, skipped[i].Index, want)
		}
		if skipped[i].Reason == "" {
			t.Errorf("skipped[%d] has no reason", i)
		}
	}

	// The surviving row keeps its original index.
	if txns[0].SourceIndex != 0 {
		t.Errorf("expected source index 0, got %d", txns[0].SourceIndex)
	}
}

func TestNormalizeMissingVendorIsNotAnError(t *testing.T) {
	rows := []models.RawRecord{
		{"date": "2024-01-15", "amount": "100"},
	}

	txns, skipped := Normalize(rows)
	if len(skipped) != 0 {
		t.Fatalf("missing vendor must not skip the row: %v", skipped)
	}
	if len(txns) != 1 || txns[0].Vendor != "" {
		t.Errorf("expected empty vendor sentinel, got %+v", txns)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	txns, skipped := Normalize(nil)
	if len(txns) != 0 || len(skipped) != 0 {
		t.Errorf("expected empty results, got %d txns, %d skipped", len(txns), len(skipped))
	}
}
