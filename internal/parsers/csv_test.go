package parsers

import (
	"encoding/json"
	"strings"
	"testing"

	"golang-anomaly-detection-service/pkg/errors"
)

func TestParseCSV(t *testing.T) {
	input := `Date,Amount,Vendor,Memo
2024-01-15,1500.00,ABC Supplies,office chairs
2024-01-16,"$2,000.00",XYZ Traders,
`

	parser, err := NewCSVParser(nil)
	if err != nil {
		t.Fatalf("NewCSVParser failed: %v", err)
	}

	records, stats, err := parser.Parse(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if stats.RecordsRead != 2 {
		t.Errorf("expected 2 records, got %d", stats.RecordsRead)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first["date"] != "2024-01-15" {
		t.Errorf("expected canonical date key, got %v", first)
	}
	if first["amount"] != "1500.00" {
		t.Errorf("expected canonical amount key, got %v", first)
	}
	if first["vendor"] != "ABC Supplies" {
		t.Errorf("expected canonical vendor key, got %v", first)
	}
	if first["Memo"] != "office chairs" {
		t.Errorf("unmapped columns must pass through under their header, got %v", first)
	}
}

func TestParseCSVAliasHeaders(t *testing.T) {
	input := `Posting Date,Total,Payee
2024-01-15,100,ABC
`

	parser, _ := NewCSVParser(nil)
	records, _, err := parser.Parse(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if records[0]["date"] != "2024-01-15" || records[0]["amount"] != "100" || records[0]["vendor"] != "ABC" {
		t.Errorf("alias resolution failed: %v", records[0])
	}
}

func TestParseCSVExplicitColumns(t *testing.T) {
	input := `when,lineTotal,who
2024-01-15,100,ABC
`

	config := DefaultParserConfig()
	config.DateColumn = "when"
	config.AmountColumn = "lineTotal"
	config.VendorColumn = "who"

	parser, err := NewCSVParser(config)
	if err != nil {
		t.Fatalf("NewCSVParser failed: %v", err)
	}

	records, _, err := parser.Parse(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if records[0]["date"] != "2024-01-15" || records[0]["amount"] != "100" || records[0]["vendor"] != "ABC" {
		t.Errorf("explicit column mapping failed: %v", records[0])
	}
}

func TestParseCSVMissingColumns(t *testing.T) {
	input := `Description,Notes
foo,bar
`

	parser, _ := NewCSVParser(nil)
	_, _, err := parser.Parse(strings.NewReader(input), "test.csv")
	if err == nil {
		t.Fatal("expected error for missing date and amount columns")
	}

	detectorErr, ok := errors.AsDetectorError(err)
	if !ok {
		t.Fatalf("expected DetectorError, got %T", err)
	}
	if detectorErr.Code != errors.CodeMissingColumn {
		t.Errorf("expected missing column code, got %s", detectorErr.Code)
	}
}

func TestParseCSVEmptyFile(t *testing.T) {
	parser, _ := NewCSVParser(nil)
	_, _, err := parser.Parse(strings.NewReader(""), "test.csv")
	if err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestParseCSVSkipsBlankRows(t *testing.T) {
	input := `date,amount,vendor
2024-01-15,100,ABC
,,
2024-01-16,200,DEF
`

	parser, _ := NewCSVParser(nil)
	records, stats, err := parser.Parse(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 || stats.RecordsRead != 2 {
		t.Errorf("expected blank row to be skipped, got %d records", len(records))
	}
}

func TestParseJSON(t *testing.T) {
	input := `[
		{"date": "2024-01-15", "amount": 1500.00, "vendor": "ABC Supplies"},
		{"date": "2024-01-16", "amount": "2000", "vendor": "XYZ Traders"}
	]`

	records, err := ParseJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Numbers arrive as json.Number, preserving exact decimal text.
	number, ok := records[0]["amount"].(json.Number)
	if !ok || number.String() != "1500.00" {
		t.Errorf("expected json.Number 1500.00, got %T %v", records[0]["amount"], records[0]["amount"])
	}
}

func TestParseJSONRejectsNonArray(t *testing.T) {
	if _, err := ParseJSON(strings.NewReader(`{"date": "2024-01-15"}`)); err == nil {
		t.Fatal("expected error for non-array body")
	}
}
