package detector

import (
	"fmt"
	"time"

	"golang-anomaly-detection-service/internal/models"
)

// FindUnusualTiming flags transactions dated on a Saturday or Sunday. This
// is a pure per-row classification; only the calendar date is considered, so
// there is no timezone ambiguity.
func (e *Engine) FindUnusualTiming(txns []*models.NormalizedTransaction) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, txn := range txns {
		weekday := txn.Date.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			continue
		}

		findings = append(findings, models.Finding{
			Category:      models.CategoryUnusualTiming,
			SourceIndexes: []int{txn.SourceIndex},
			Reason: fmt.Sprintf("payment of %s%s dated %s (%s)",
				e.config.CurrencySymbol, txn.Amount.StringFixed(2),
				txn.DateKey(), weekday),
			Amount: txn.Amount.StringFixed(2),
			Date:   txn.DateKey(),
			Vendor: txn.Vendor,
		})
	}

	return findings
}
