package detector

import (
	"fmt"
	"sort"

	"golang-anomaly-detection-service/internal/models"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// FindFuzzyDuplicates reports pairs of transactions whose vendor names are
// nearly but not exactly equal, within a date window and relative amount
// tolerance. It catches ghost-vendor patterns like "ABC Corp" vs "ABC Corp."
// that exact keying misses.
//
// The day index restricts candidate pairs to the configured window, so the
// quadratic comparison space collapses to the handful of transactions per
// day a real ledger carries. Identical folded vendors are skipped; those
// clusters belong to the exact duplicate detector.
func (e *Engine) FindFuzzyDuplicates(txns []*models.NormalizedTransaction) []models.Finding {
	named := make([]*models.NormalizedTransaction, 0, len(txns))
	for _, txn := range txns {
		if txn.VendorFolded != "" {
			named = append(named, txn)
		}
	}

	idx := newDayIndex(named)
	findings := make([]models.Finding, 0)

	idx.pairs(e.config.FuzzyDateWindowDays, func(a, b *models.NormalizedTransaction) {
		if a.VendorFolded == b.VendorFolded {
			return
		}
		if !e.amountsComparable(a.Amount, b.Amount) {
			return
		}

		score := VendorSimilarity(a.VendorFolded, b.VendorFolded)
		if score < e.config.FuzzySimilarityThreshold {
			return
		}

		lo, hi := a, b
		if hi.SourceIndex < lo.SourceIndex {
			lo, hi = hi, lo
		}

		findings = append(findings, models.Finding{
			Category:      models.CategoryFuzzyDuplicate,
			SourceIndexes: []int{lo.SourceIndex, hi.SourceIndex},
			Reason: fmt.Sprintf("vendors %q and %q are %.0f%% similar with matching amounts",
				lo.Vendor, hi.Vendor, score*100),
			Amount:     lo.Amount.StringFixed(2),
			Date:       lo.DateKey(),
			Similarity: score,
			Vendors:    []string{lo.Vendor, hi.Vendor},
		})
	})

	// Descending similarity, then source indexes, for reproducible output.
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Similarity != findings[j].Similarity {
			return findings[i].Similarity > findings[j].Similarity
		}
		if findings[i].SourceIndexes[0] != findings[j].SourceIndexes[0] {
			return findings[i].SourceIndexes[0] < findings[j].SourceIndexes[0]
		}
		return findings[i].SourceIndexes[1] < findings[j].SourceIndexes[1]
	})

	return findings
}

// amountsComparable reports whether two amounts are equal or within the
// configured relative tolerance of the larger amount.
func (e *Engine) amountsComparable(a, b decimal.Decimal) bool {
	if a.Equal(b) {
		return true
	}
	if e.config.FuzzyAmountTolerancePercent == 0.0 {
		return false
	}

	larger := decimal.Max(a, b)
	if larger.IsZero() {
		return true
	}

	tolerance := larger.Mul(decimal.NewFromFloat(e.config.FuzzyAmountTolerancePercent / 100.0))
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// VendorSimilarity computes a normalized edit-distance similarity between
// two case-folded vendor names, in [0, 1] where 1 means identical. The edit
// distance is normalized by the combined length of both names, so a short
// suffix like "Inc" on an otherwise identical name stays above the default
// cutoff.
func VendorSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	total := len([]rune(a)) + len([]rune(b))
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(total)
}
