package detector

import (
	"fmt"

	"golang-anomaly-detection-service/internal/models"
)

// benfordChiSquareCritical is the chi-squared critical value at p=0.05 with
// 8 degrees of freedom (nine digit buckets minus one). Deviations above it
// are flagged for review.
const benfordChiSquareCritical = 15.507

// AnalyzeBenford compares the leading-digit distribution of positive amounts
// against Benford's law and emits a single summary finding carrying the full
// observed-vs-expected table.
//
// Below the configured minimum sample size the analyzer emits an explicit
// insufficient-data finding instead of a statistic: small samples produce
// spurious deviation.
func (e *Engine) AnalyzeBenford(txns []*models.NormalizedTransaction) []models.Finding {
	counts := [10]int{}
	indexes := make([]int, 0, len(txns))
	total := 0

	for _, txn := range txns {
		digit := models.LeadingDigit(txn.Amount)
		if digit == 0 {
			continue
		}
		counts[digit]++
		indexes = append(indexes, txn.SourceIndex)
		total++
	}

	if total < e.config.BenfordMinSampleSize {
		return []models.Finding{{
			Category:      models.CategoryBenfordDigit,
			SourceIndexes: []int{},
			Reason: fmt.Sprintf("insufficient data for leading-digit analysis: %d qualifying transactions, minimum is %d",
				total, e.config.BenfordMinSampleSize),
			Benford: &models.BenfordStats{SampleSize: total},
		}}
	}

	chiSquare := 0.0
	digits := make([]models.BenfordDigit, 0, 9)
	for d := 1; d <= 9; d++ {
		expected := models.BenfordExpected(d)
		observed := float64(counts[d]) / float64(total)
		expectedCount := expected * float64(total)

		diff := float64(counts[d]) - expectedCount
		chiSquare += diff * diff / expectedCount

		digits = append(digits, models.BenfordDigit{
			Digit:    d,
			Count:    counts[d],
			Observed: observed,
			Expected: expected,
		})
	}

	flagged := chiSquare > benfordChiSquareCritical
	reason := fmt.Sprintf("leading-digit distribution is consistent with Benford's law (chi-squared %.2f over %d transactions)",
		chiSquare, total)
	if flagged {
		reason = fmt.Sprintf("leading-digit distribution deviates from Benford's law (chi-squared %.2f over %d transactions, critical value %.2f)",
			chiSquare, total, benfordChiSquareCritical)
	}

	return []models.Finding{{
		Category:      models.CategoryBenfordDigit,
		SourceIndexes: indexes,
		Reason:        reason,
		Benford: &models.BenfordStats{
			SampleSize: total,
			ChiSquare:  chiSquare,
			Flagged:    flagged,
			Digits:     digits,
		},
	}}
}
