// Package config assembles component configurations from CLI flags and
// profiles.
package config

import (
	"fmt"

	"golang-anomaly-detection-service/internal/detector"
	"golang-anomaly-detection-service/internal/parsers"
	"golang-anomaly-detection-service/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// CreateDetectorConfig builds a detector configuration from the analyze
// command flags. The profile selects the base boundaries; explicitly set
// flags override it.
func CreateDetectorConfig(flags *pflag.FlagSet, profile string) (*detector.Config, error) {
	var config *detector.Config

	switch profile {
	case "":
		config = detector.DefaultConfig()
	case "strict":
		config = detector.StrictConfig()
	case "relaxed":
		config = detector.RelaxedConfig()
	default:
		return nil, fmt.Errorf("unknown profile: %s", profile)
	}

	if flags.Changed("threshold") {
		value, _ := flags.GetFloat64("threshold")
		config.ApprovalThreshold = decimal.NewFromFloat(value)
	}
	if flags.Changed("threshold-margin") {
		config.ThresholdMarginPercent, _ = flags.GetFloat64("threshold-margin")
	}
	if flags.Changed("round-unit") {
		value, _ := flags.GetFloat64("round-unit")
		config.RoundNumberUnit = decimal.NewFromFloat(value)
	}
	if flags.Changed("fuzzy-cutoff") {
		config.FuzzySimilarityThreshold, _ = flags.GetFloat64("fuzzy-cutoff")
	}
	if flags.Changed("fuzzy-window") {
		config.FuzzyDateWindowDays, _ = flags.GetInt("fuzzy-window")
	}
	if flags.Changed("benford-min") {
		config.BenfordMinSampleSize, _ = flags.GetInt("benford-min")
	}

	return config, nil
}

// CreateParserConfig builds a CSV parser configuration with optional explicit
// column overrides.
func CreateParserConfig(dateColumn, amountColumn, vendorColumn string) *parsers.ParserConfig {
	config := parsers.DefaultParserConfig()
	config.DateColumn = dateColumn
	config.AmountColumn = amountColumn
	config.VendorColumn = vendorColumn
	return config
}

// CreateRenderConfig builds a report render configuration for the requested
// output format and destination.
func CreateRenderConfig(format, outputFile string) *report.RenderConfig {
	config := report.DefaultRenderConfig()
	config.OutputFile = outputFile

	switch format {
	case "json":
		config.Format = report.FormatJSON
	default:
		config.Format = report.FormatConsole
	}

	return config
}
