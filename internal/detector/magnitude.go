package detector

import (
	"fmt"

	"golang-anomaly-detection-service/internal/models"
)

// FindRoundNumbers flags transactions whose amount is an exact multiple of
// the configured round-number unit. Zero-amount rows are excluded; zero is
// not a meaningful "round" payment.
func (e *Engine) FindRoundNumbers(txns []*models.NormalizedTransaction) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, txn := range txns {
		if txn.Amount.IsZero() {
			continue
		}
		if !txn.Amount.Mod(e.config.RoundNumberUnit).IsZero() {
			continue
		}

		findings = append(findings, models.Finding{
			Category:      models.CategoryRoundNumber,
			SourceIndexes: []int{txn.SourceIndex},
			Reason: fmt.Sprintf("amount %s%s is an exact multiple of %s%s",
				e.config.CurrencySymbol, txn.Amount.StringFixed(2),
				e.config.CurrencySymbol, e.config.RoundNumberUnit.String()),
			Amount: txn.Amount.StringFixed(2),
			Date:   txn.DateKey(),
			Vendor: txn.Vendor,
		})
	}

	return findings
}

// FindThresholdFlags flags transactions whose amount falls in the half-open
// interval [threshold - margin, threshold). The threshold value itself is
// not flagged: a payment at the limit already required approval, only values
// kept strictly below it within the margin suggest avoidance.
func (e *Engine) FindThresholdFlags(txns []*models.NormalizedTransaction) []models.Finding {
	findings := make([]models.Finding, 0)

	threshold := e.config.ApprovalThreshold
	lower := threshold.Sub(e.config.ThresholdMargin())

	for _, txn := range txns {
		if txn.Amount.LessThan(lower) || txn.Amount.GreaterThanOrEqual(threshold) {
			continue
		}

		delta := threshold.Sub(txn.Amount)
		findings = append(findings, models.Finding{
			Category:      models.CategoryThresholdFlag,
			SourceIndexes: []int{txn.SourceIndex},
			Reason: fmt.Sprintf("amount %s%s is %s%s below the %s%s approval threshold",
				e.config.CurrencySymbol, txn.Amount.StringFixed(2),
				e.config.CurrencySymbol, delta.StringFixed(2),
				e.config.CurrencySymbol, threshold.StringFixed(2)),
			Amount:           txn.Amount.StringFixed(2),
			Date:             txn.DateKey(),
			Vendor:           txn.Vendor,
			DeltaToThreshold: delta.StringFixed(2),
		})
	}

	return findings
}
