package detector

import (
	"testing"

	"golang-anomaly-detection-service/internal/models"
)

func TestFindUnusualTiming(t *testing.T) {
	engine := newTestEngine(t, nil)

	txns := []*models.NormalizedTransaction{
		testTxn(0, 100, "2024-01-05", "Friday Vendor"),   // Friday
		testTxn(1, 100, "2024-01-06", "Saturday Vendor"), // Saturday
		testTxn(2, 100, "2024-01-07", "Sunday Vendor"),   // Sunday
		testTxn(3, 100, "2024-01-08", "Monday Vendor"),   // Monday
	}

	findings := engine.FindUnusualTiming(txns)
	if len(findings) != 2 {
		t.Fatalf("expected 2 weekend findings, got %d", len(findings))
	}

	if findings[0].SourceIndexes[0] != 1 || findings[1].SourceIndexes[0] != 2 {
		t.Errorf("expected rows 1 and 2 flagged, got %v and %v",
			findings[0].SourceIndexes, findings[1].SourceIndexes)
	}
	for _, f := range findings {
		if f.Category != models.CategoryUnusualTiming {
			t.Errorf("wrong category: %s", f.Category)
		}
	}
}

func TestFindUnusualTimingEmpty(t *testing.T) {
	engine := newTestEngine(t, nil)

	if findings := engine.FindUnusualTiming(nil); findings == nil || len(findings) != 0 {
		t.Errorf("expected empty non-nil findings, got %v", findings)
	}
}
