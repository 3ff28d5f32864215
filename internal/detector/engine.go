package detector

import (
	"sync"

	"golang-anomaly-detection-service/internal/models"
	"golang-anomaly-detection-service/internal/normalizer"
	"golang-anomaly-detection-service/internal/report"
	"golang-anomaly-detection-service/pkg/logger"

	"github.com/google/uuid"
)

// Engine runs the full detection pipeline over one batch of raw records.
// It holds only configuration: every analysis call creates its entities
// fresh and discards them with the returned result, so a single Engine is
// safe for concurrent use and repeated runs.
type Engine struct {
	config *Config
	log    logger.Logger
}

// NewEngine creates an engine with the given configuration. A nil
// configuration selects the defaults. Invalid boundaries are refused here,
// at construction time, rather than producing nonsense findings later.
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		config: config.Clone(),
		log:    logger.GetGlobalLogger().WithComponent("engine"),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Analyze normalizes the raw records, runs all detectors, and assembles the
// result. Per-row parse failures never abort the batch; they surface as
// skipped-row diagnostics. An empty usable batch yields an all-zero summary
// with an explicit note, distinguishable from a clean batch.
func (e *Engine) Analyze(records []models.RawRecord) (*models.AnalysisResult, error) {
	reportID := uuid.NewString()
	log := e.log.WithField("report_id", reportID)

	log.WithField("rows", len(records)).Info("Starting analysis")

	normalized, skipped := normalizer.Normalize(records)

	txns := make([]*models.NormalizedTransaction, len(normalized))
	for i := range normalized {
		txns[i] = &normalized[i]
	}

	// The detectors share nothing but a read-only view of the batch, so they
	// run concurrently, each writing its own output slice.
	var (
		wg              sync.WaitGroup
		duplicates      []models.Finding
		fuzzyDuplicates []models.Finding
		unusualTiming   []models.Finding
		roundNumbers    []models.Finding
		thresholdFlags  []models.Finding
		benford         []models.Finding
	)

	run := func(out *[]models.Finding, detect func([]*models.NormalizedTransaction) []models.Finding) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*out = detect(txns)
		}()
	}

	run(&duplicates, e.FindDuplicates)
	run(&fuzzyDuplicates, e.FindFuzzyDuplicates)
	run(&unusualTiming, e.FindUnusualTiming)
	run(&roundNumbers, e.FindRoundNumbers)
	run(&thresholdFlags, e.FindThresholdFlags)
	run(&benford, e.AnalyzeBenford)
	wg.Wait()

	result := report.Assemble(reportID, len(records), len(txns), skipped, report.FindingsByCategory{
		Duplicates:      duplicates,
		FuzzyDuplicates: fuzzyDuplicates,
		UnusualTiming:   unusualTiming,
		RoundNumbers:    roundNumbers,
		ThresholdFlags:  thresholdFlags,
		Benford:         benford,
	})

	log.WithFields(logger.Fields{
		"total_transactions": result.Summary.TotalTransactions,
		"duplicates":         result.Summary.Duplicates,
		"unusual_timing":     result.Summary.UnusualTiming,
		"round_numbers":      result.Summary.RoundNumbers,
		"threshold_flags":    result.Summary.ThresholdFlags,
		"skipped_rows":       len(skipped),
	}).Info("Analysis completed")

	return result, nil
}
