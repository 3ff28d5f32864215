package detector

import (
	"sort"
	"time"

	"golang-anomaly-detection-service/internal/models"
)

// dayIndex buckets transactions by calendar date. It bounds the fuzzy
// detector's candidate pair space: only buckets within the configured date
// window are compared, keeping total work near-linear for typical ledgers
// where each day holds few transactions.
type dayIndex struct {
	buckets map[string][]*models.NormalizedTransaction
	days    []time.Time
}

// newDayIndex builds a date-bucketed index over the given transactions.
// Bucket contents and the day list are sorted, so iteration order is
// independent of input row order.
func newDayIndex(txns []*models.NormalizedTransaction) *dayIndex {
	idx := &dayIndex{
		buckets: make(map[string][]*models.NormalizedTransaction),
	}

	for _, txn := range txns {
		key := txn.DateKey()
		if _, seen := idx.buckets[key]; !seen {
			idx.days = append(idx.days, txn.Date)
		}
		idx.buckets[key] = append(idx.buckets[key], txn)
	}

	sort.Slice(idx.days, func(i, j int) bool {
		return idx.days[i].Before(idx.days[j])
	})
	for _, bucket := range idx.buckets {
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].SourceIndex < bucket[j].SourceIndex
		})
	}

	return idx
}

// byDate returns the transactions on the given calendar date.
func (idx *dayIndex) byDate(date time.Time) []*models.NormalizedTransaction {
	return idx.buckets[date.Format("2006-01-02")]
}

// pairs invokes fn for every candidate pair whose dates are at most
// windowDays apart. Each unordered pair is visited exactly once, with a
// always preceding b by source index on same-day pairs and by date
// otherwise.
func (idx *dayIndex) pairs(windowDays int, fn func(a, b *models.NormalizedTransaction)) {
	for _, day := range idx.days {
		bucket := idx.byDate(day)

		// Same-day pairs.
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				fn(bucket[i], bucket[j])
			}
		}

		// Cross-day pairs within the window, later buckets only so each
		// pair is seen once.
		for delta := 1; delta <= windowDays; delta++ {
			other := idx.byDate(day.AddDate(0, 0, delta))
			for _, a := range bucket {
				for _, b := range other {
					fn(a, b)
				}
			}
		}
	}
}
