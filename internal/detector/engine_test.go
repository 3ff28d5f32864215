package detector

import (
	"testing"
	"time"

	"golang-anomaly-detection-service/internal/models"

	"github.com/shopspring/decimal"
)

func newTestEngine(t *testing.T, config *Config) *Engine {
	t.Helper()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func testTxn(index int, amount float64, date, vendor string) *models.NormalizedTransaction {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &models.NormalizedTransaction{
		Amount:       decimal.NewFromFloat(amount),
		Date:         day,
		Vendor:       vendor,
		VendorFolded: models.FoldVendor(vendor),
		SourceIndex:  index,
	}
}

func record(amount float64, date, vendor string) models.RawRecord {
	return models.RawRecord{
		"date":   date,
		"amount": amount,
		"vendor": vendor,
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(nil)
	if err != nil {
		t.Fatalf("expected nil config to select defaults, got error: %v", err)
	}
	if engine.Config().ApprovalThreshold.Cmp(decimal.NewFromInt(10000)) != 0 {
		t.Errorf("expected default threshold 10000, got %s", engine.Config().ApprovalThreshold)
	}

	invalid := DefaultConfig()
	invalid.ApprovalThreshold = decimal.NewFromInt(-5)
	if _, err := NewEngine(invalid); err == nil {
		t.Fatal("expected error for negative approval threshold")
	}
}

func TestAnalyzeDuplicateScenario(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Analyze([]models.RawRecord{
		record(15000, "2024-01-03", "ABC Supplies"),
		record(15000, "2024-01-03", "ABC Supplies"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Summary.TotalTransactions != 2 {
		t.Errorf("expected 2 total transactions, got %d", result.Summary.TotalTransactions)
	}
	if result.Summary.Duplicates != 2 {
		t.Errorf("expected duplicate row count 2, got %d", result.Summary.Duplicates)
	}
	if len(result.Details.Duplicates) != 1 {
		t.Fatalf("expected one grouped duplicate finding, got %d", len(result.Details.Duplicates))
	}

	finding := result.Details.Duplicates[0]
	if len(finding.SourceIndexes) != 2 || finding.SourceIndexes[0] != 0 || finding.SourceIndexes[1] != 1 {
		t.Errorf("expected finding to reference rows [0 1], got %v", finding.SourceIndexes)
	}
}

func TestAnalyzeTimingScenario(t *testing.T) {
	engine := newTestEngine(t, nil)

	// 2024-01-07 is a Sunday.
	result, err := engine.Analyze([]models.RawRecord{
		record(4500, "2024-01-07", "CloudSoft"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Summary.UnusualTiming != 1 {
		t.Errorf("expected 1 unusual timing flag, got %d", result.Summary.UnusualTiming)
	}
}

func TestAnalyzeMagnitudeScenarios(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Analyze([]models.RawRecord{
		record(10000, "2024-01-05", "Consulting"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Summary.RoundNumbers != 1 {
		t.Errorf("expected 1 round number flag, got %d", result.Summary.RoundNumbers)
	}

	result, err = engine.Analyze([]models.RawRecord{
		record(9999, "2024-01-06", "Consulting"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Summary.ThresholdFlags != 1 {
		t.Errorf("expected 1 threshold flag, got %d", result.Summary.ThresholdFlags)
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Analyze(nil)
	if err != nil {
		t.Fatalf("empty batch must not error: %v", err)
	}

	if result.Summary.TotalTransactions != 0 {
		t.Errorf("expected zero summary, got %+v", result.Summary)
	}
	if len(result.Diagnostics.Notes) == 0 {
		t.Error("expected a diagnostic note distinguishing empty batch from clean batch")
	}
	if result.Details.Duplicates == nil || result.Details.FuzzyDuplicates == nil {
		t.Error("detail lists must be non-nil even when empty")
	}
}

func TestAnalyzeSkipsMalformedRows(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Analyze([]models.RawRecord{
		record(100, "2024-01-03", "Alpha"),
		{"date": "not a date", "amount": 50, "vendor": "Beta"},
		{"date": "2024-01-03", "amount": "garbage", "vendor": "Gamma"},
	})
	if err != nil {
		t.Fatalf("malformed rows must not abort the batch: %v", err)
	}

	if result.Summary.TotalTransactions != 3 {
		t.Errorf("total must reflect raw input count, got %d", result.Summary.TotalTransactions)
	}
	if len(result.Diagnostics.SkippedRows) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", len(result.Diagnostics.SkippedRows))
	}
	if result.Diagnostics.SkippedRows[0].Index != 1 || result.Diagnostics.SkippedRows[1].Index != 2 {
		t.Errorf("skipped row indexes wrong: %+v", result.Diagnostics.SkippedRows)
	}
}

func TestAnalyzeReportIDUnique(t *testing.T) {
	engine := newTestEngine(t, nil)

	first, err := engine.Analyze(nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := engine.Analyze(nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if first.ReportID == "" || first.ReportID == second.ReportID {
		t.Errorf("expected distinct non-empty report IDs, got %q and %q", first.ReportID, second.ReportID)
	}
}
