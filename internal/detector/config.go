// Package detector implements the anomaly detection engine for financial
// transaction batches.
//
// The engine runs six independent detectors over a normalized batch:
//   - exact duplicate grouping by (amount, date, vendor)
//   - fuzzy vendor-name matching within an amount/date neighborhood
//   - weekend-timing classification
//   - round-number and threshold-avoidance magnitude rules
//   - Benford's-law leading-digit distribution analysis
//
// Detectors have no data dependency on one another and run concurrently.
// The engine is a pure, stateless transformation: one batch in, one
// AnalysisResult out, with nothing retained between calls.
//
// Example usage:
//
//	engine, err := detector.NewEngine(detector.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	result, err := engine.Analyze(records)
package detector

import (
	"fmt"

	"golang-anomaly-detection-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// Config holds all decision boundaries used by the detectors. Every boundary
// is a fixed, named parameter loaded once before engine construction and
// never mutated mid-analysis.
//
// Use the provided factory functions for common scenarios:
//   - DefaultConfig(): balanced boundaries for most ledgers
//   - StrictConfig(): tighter fuzzy matching, wider threshold margin
//   - RelaxedConfig(): looser fuzzy matching for exploratory review
type Config struct {
	// RoundNumberUnit is the divisor for the round-number rule; amounts that
	// are an exact multiple are flagged (zero amounts excluded).
	RoundNumberUnit decimal.Decimal `json:"round_number_unit"`

	// ApprovalThreshold is the approval limit for threshold-avoidance
	// detection.
	ApprovalThreshold decimal.Decimal `json:"approval_threshold"`

	// ThresholdMarginPercent sizes the suspicious band below the threshold:
	// amounts in [threshold - threshold*pct/100, threshold) are flagged.
	ThresholdMarginPercent float64 `json:"threshold_margin_percent"`

	// FuzzySimilarityThreshold is the minimum normalized edit-distance
	// similarity (0.0 to 1.0) for a vendor-name pair to be reported.
	FuzzySimilarityThreshold float64 `json:"fuzzy_similarity_threshold"`

	// FuzzyDateWindowDays bounds the candidate pair space: only transactions
	// this many calendar days apart or closer are compared. Zero means same
	// day only.
	FuzzyDateWindowDays int `json:"fuzzy_date_window_days"`

	// FuzzyAmountTolerancePercent is the maximum relative amount difference
	// (0.0 to 100.0) between fuzzy candidate pairs.
	FuzzyAmountTolerancePercent float64 `json:"fuzzy_amount_tolerance_percent"`

	// BenfordMinSampleSize is the minimum number of qualifying transactions
	// before the Benford analyzer reports a statistic; below it an explicit
	// insufficient-data finding is emitted instead.
	BenfordMinSampleSize int `json:"benford_min_sample_size"`

	// CurrencySymbol is used only for display in human-readable reasons.
	CurrencySymbol string `json:"currency_symbol"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RoundNumberUnit:             decimal.NewFromInt(1000),
		ApprovalThreshold:           decimal.NewFromInt(10000),
		ThresholdMarginPercent:      5.0,
		FuzzySimilarityThreshold:    0.85,
		FuzzyDateWindowDays:         0,
		FuzzyAmountTolerancePercent: 1.0,
		BenfordMinSampleSize:        30,
		CurrencySymbol:              "$",
	}
}

// StrictConfig returns a configuration for strict review: only near-identical
// vendors are reported and the threshold band is wider.
func StrictConfig() *Config {
	return &Config{
		RoundNumberUnit:             decimal.NewFromInt(1000),
		ApprovalThreshold:           decimal.NewFromInt(10000),
		ThresholdMarginPercent:      10.0,
		FuzzySimilarityThreshold:    0.92,
		FuzzyDateWindowDays:         0,
		FuzzyAmountTolerancePercent: 0.0,
		BenfordMinSampleSize:        50,
		CurrencySymbol:              "$",
	}
}

// RelaxedConfig returns a configuration for exploratory matching: fuzzy pairs
// across a few days and looser similarity.
func RelaxedConfig() *Config {
	return &Config{
		RoundNumberUnit:             decimal.NewFromInt(1000),
		ApprovalThreshold:           decimal.NewFromInt(10000),
		ThresholdMarginPercent:      5.0,
		FuzzySimilarityThreshold:    0.75,
		FuzzyDateWindowDays:         3,
		FuzzyAmountTolerancePercent: 2.0,
		BenfordMinSampleSize:        30,
		CurrencySymbol:              "$",
	}
}

// Validate checks the configuration. The engine refuses to run with a
// nonsensical boundary rather than silently using it.
func (c *Config) Validate() error {
	if c.RoundNumberUnit.Sign() <= 0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"round_number_unit", c.RoundNumberUnit.String(),
			fmt.Errorf("must be positive"))
	}

	if c.ApprovalThreshold.Sign() <= 0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"approval_threshold", c.ApprovalThreshold.String(),
			fmt.Errorf("must be positive"))
	}

	if c.ThresholdMarginPercent <= 0.0 || c.ThresholdMarginPercent > 100.0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"threshold_margin_percent", c.ThresholdMarginPercent,
			fmt.Errorf("must be between 0.0 (exclusive) and 100.0"))
	}

	if c.FuzzySimilarityThreshold <= 0.0 || c.FuzzySimilarityThreshold > 1.0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"fuzzy_similarity_threshold", c.FuzzySimilarityThreshold,
			fmt.Errorf("must be between 0.0 (exclusive) and 1.0"))
	}

	if c.FuzzyDateWindowDays < 0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"fuzzy_date_window_days", c.FuzzyDateWindowDays,
			fmt.Errorf("cannot be negative"))
	}

	if c.FuzzyAmountTolerancePercent < 0.0 || c.FuzzyAmountTolerancePercent > 100.0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"fuzzy_amount_tolerance_percent", c.FuzzyAmountTolerancePercent,
			fmt.Errorf("must be between 0.0 and 100.0"))
	}

	if c.BenfordMinSampleSize < 1 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"benford_min_sample_size", c.BenfordMinSampleSize,
			fmt.Errorf("must be at least 1"))
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ThresholdMargin returns the absolute size of the suspicious band below the
// approval threshold.
func (c *Config) ThresholdMargin() decimal.Decimal {
	pct := decimal.NewFromFloat(c.ThresholdMarginPercent / 100.0)
	return c.ApprovalThreshold.Mul(pct)
}

// String returns a human-readable description of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{RoundUnit: %s, Threshold: %s, Margin: %.1f%%, FuzzyCutoff: %.2f, FuzzyWindow: %dd, BenfordMin: %d}",
		c.RoundNumberUnit.String(), c.ApprovalThreshold.String(),
		c.ThresholdMarginPercent, c.FuzzySimilarityThreshold,
		c.FuzzyDateWindowDays, c.BenfordMinSampleSize)
}
