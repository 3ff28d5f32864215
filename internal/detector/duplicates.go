package detector

import (
	"fmt"
	"sort"
	"strings"

	"golang-anomaly-detection-service/internal/models"
)

// FindDuplicates groups transactions by the duplicate equivalence key and
// reports every group of two or more rows as a single finding referencing
// all member rows.
//
// The key is (amount rounded to the smallest currency unit, calendar date,
// case-folded vendor). Duplicate payments are batch-level events, so the
// detector groups rather than comparing pairwise; that avoids O(n²) work and
// double-reporting the same cluster.
func (e *Engine) FindDuplicates(txns []*models.NormalizedTransaction) []models.Finding {
	groups := make(map[string][]*models.NormalizedTransaction)
	order := make([]string, 0)

	for _, txn := range txns {
		key := duplicateKey(txn)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], txn)
	}

	findings := make([]models.Finding, 0)
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		indexes := make([]int, 0, len(group))
		for _, txn := range group {
			indexes = append(indexes, txn.SourceIndex)
		}
		sort.Ints(indexes)

		first := group[0]
		findings = append(findings, models.Finding{
			Category:      models.CategoryDuplicate,
			SourceIndexes: indexes,
			Reason: fmt.Sprintf("%d payments of %s%s to %q on %s",
				len(group), e.config.CurrencySymbol, first.Amount.StringFixed(2),
				first.Vendor, first.DateKey()),
			Amount:    first.Amount.StringFixed(2),
			Date:      first.DateKey(),
			Vendor:    first.Vendor,
			GroupSize: len(group),
		})
	}

	// Stable output regardless of input row order.
	sort.Slice(findings, func(i, j int) bool {
		return findings[i].SourceIndexes[0] < findings[j].SourceIndexes[0]
	})

	return findings
}

// duplicateKey builds the equivalence key for exact duplicate grouping.
// Amounts are rounded to two decimal places so sub-cent noise does not split
// a group.
func duplicateKey(txn *models.NormalizedTransaction) string {
	return strings.Join([]string{
		txn.Amount.Round(2).String(),
		txn.DateKey(),
		txn.VendorFolded,
	}, "|")
}
