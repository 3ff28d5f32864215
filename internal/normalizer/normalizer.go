// Package normalizer coerces raw transaction rows into the canonical
// internal shape. It is the single gate between loosely-typed input and the
// strictly-typed model: all "what does '$10,000.00' mean" ambiguity lives
// here. Rows that cannot be parsed are skipped with a diagnostic; a single
// malformed row never voids analysis of the rest of the batch.
package normalizer

import (
	"fmt"

	"golang-anomaly-detection-service/internal/models"
	"golang-anomaly-detection-service/pkg/logger"
)

// Normalize converts raw rows into normalized transactions, paired with a
// parallel list of skipped-row diagnostics. It never returns an error: the
// batch always continues past malformed rows.
func Normalize(rows []models.RawRecord) ([]models.NormalizedTransaction, []models.SkippedRow) {
	log := logger.GetGlobalLogger().WithComponent("normalizer")

	transactions := make([]models.NormalizedTransaction, 0, len(rows))
	skipped := make([]models.SkippedRow, 0)

	for i, row := range rows {
		txn, err := normalizeRow(row, i)
		if err != nil {
			log.WithFields(logger.Fields{
				"row":    i,
				"reason": err.Error(),
			}).Debug("Skipping unparseable row")

			skipped = append(skipped, models.SkippedRow{Index: i, Reason: err.Error()})
			continue
		}
		transactions = append(transactions, txn)
	}

	log.WithFields(logger.Fields{
		"rows_in":      len(rows),
		"rows_usable":  len(transactions),
		"rows_skipped": len(skipped),
	}).Info("Normalization completed")

	return transactions, skipped
}

func normalizeRow(row models.RawRecord, index int) (models.NormalizedTransaction, error) {
	var txn models.NormalizedTransaction

	amountValue, ok := row.AmountValue()
	if !ok {
		return txn, fmt.Errorf("no amount-like field")
	}
	amount, err := models.ParseAmount(amountValue)
	if err != nil {
		return txn, fmt.Errorf("unparseable amount: %v", err)
	}

	dateValue, ok := row.DateValue()
	if !ok {
		return txn, fmt.Errorf("no date-like field")
	}
	date, err := models.ParseDate(dateValue)
	if err != nil {
		return txn, fmt.Errorf("unparseable date: %v", err)
	}

	// Missing vendor is not an error; vendor-dependent detectors produce no
	// findings for the empty-string sentinel.
	vendor := ""
	if vendorValue, ok := row.VendorValue(); ok {
		vendor = models.ParseVendor(vendorValue)
	}

	txn = models.NormalizedTransaction{
		Amount:       amount,
		Date:         date,
		Vendor:       vendor,
		VendorFolded: models.FoldVendor(vendor),
		SourceIndex:  index,
	}
	return txn, nil
}
