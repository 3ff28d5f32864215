// Command ledger_generator produces synthetic transaction CSV files with
// planted anomalies for exercising the detector end to end.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerGenerator generates transaction CSV files with a configurable share
// of planted anomalies.
type LedgerGenerator struct {
	Count     int
	StartDate time.Time
	EndDate   time.Time
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	Threshold decimal.Decimal
	Seed      int64

	DuplicateRate float64
	WeekendRate   float64
	RoundRate     float64
	ThresholdRate float64
}

var vendorPool = []string{
	"ABC Supplies", "CloudSoft", "Meridian Consulting", "Northside Catering",
	"Quanta Logistics", "Halcyon Print", "Vertex Hardware", "Brightline Media",
	"Orchard Facilities", "Pinnacle Legal",
}

func main() {
	var (
		output        = flag.String("output", "generated_ledger.csv", "Output CSV file path")
		count         = flag.Int("count", 500, "Number of transactions to generate")
		startDate     = flag.String("start-date", "2024-01-01", "Start date (YYYY-MM-DD)")
		endDate       = flag.String("end-date", "2024-12-31", "End date (YYYY-MM-DD)")
		minAmount     = flag.Float64("min-amount", 10.00, "Minimum transaction amount")
		maxAmount     = flag.Float64("max-amount", 25000.00, "Maximum transaction amount")
		threshold     = flag.Float64("threshold", 10000, "Approval threshold for planted near-threshold amounts")
		seed          = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible generation")
		duplicateRate = flag.Float64("duplicate-rate", 0.03, "Share of rows duplicated verbatim")
		weekendRate   = flag.Float64("weekend-rate", 0.05, "Share of rows forced onto weekends")
		roundRate     = flag.Float64("round-rate", 0.04, "Share of rows with round-thousand amounts")
		thresholdRate = flag.Float64("threshold-rate", 0.02, "Share of rows planted just under the threshold")
	)
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	generator := &LedgerGenerator{
		Count:         *count,
		StartDate:     start,
		EndDate:       end,
		MinAmount:     decimal.NewFromFloat(*minAmount),
		MaxAmount:     decimal.NewFromFloat(*maxAmount),
		Threshold:     decimal.NewFromFloat(*threshold),
		Seed:          *seed,
		DuplicateRate: *duplicateRate,
		WeekendRate:   *weekendRate,
		RoundRate:     *roundRate,
		ThresholdRate: *thresholdRate,
	}

	if err := generator.WriteCSV(*output); err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	fmt.Printf("Generated %d transactions in %s (seed %d)\n", *count, *output, *seed)
}

// WriteCSV generates the ledger and writes it to the given path.
func (g *LedgerGenerator) WriteCSV(path string) error {
	rng := rand.New(rand.NewSource(g.Seed))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"date", "amount", "vendor", "description"}); err != nil {
		return err
	}

	var previous []string
	for i := 0; i < g.Count; i++ {
		row := g.generateRow(rng)

		// Plant a verbatim duplicate of the previous row.
		if previous != nil && rng.Float64() < g.DuplicateRate {
			row = previous
		}

		if err := writer.Write(row); err != nil {
			return err
		}
		previous = row
	}

	return writer.Error()
}

func (g *LedgerGenerator) generateRow(rng *rand.Rand) []string {
	date := g.randomDate(rng)
	if rng.Float64() < g.WeekendRate {
		date = nextWeekend(date)
	}

	amount := g.randomAmount(rng)
	switch {
	case rng.Float64() < g.RoundRate:
		amount = decimal.NewFromInt(int64(rng.Intn(20)+1) * 1000)
	case rng.Float64() < g.ThresholdRate:
		// Just under the approval threshold.
		amount = g.Threshold.Sub(decimal.NewFromInt(int64(rng.Intn(200) + 1)))
	}

	vendor := vendorPool[rng.Intn(len(vendorPool))]

	return []string{
		date.Format("2006-01-02"),
		amount.StringFixed(2),
		vendor,
		fmt.Sprintf("invoice %04d", rng.Intn(10000)),
	}
}

func (g *LedgerGenerator) randomDate(rng *rand.Rand) time.Time {
	span := int(g.EndDate.Sub(g.StartDate).Hours() / 24)
	if span <= 0 {
		return g.StartDate
	}
	return g.StartDate.AddDate(0, 0, rng.Intn(span))
}

func (g *LedgerGenerator) randomAmount(rng *rand.Rand) decimal.Decimal {
	spread := g.MaxAmount.Sub(g.MinAmount).InexactFloat64()
	return g.MinAmount.Add(decimal.NewFromFloat(rng.Float64() * spread)).Round(2)
}

func nextWeekend(t time.Time) time.Time {
	for t.Weekday() != time.Saturday && t.Weekday() != time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
