package detector

import (
	"testing"

	"golang-anomaly-detection-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
	if err := StrictConfig().Validate(); err != nil {
		t.Errorf("strict config must validate: %v", err)
	}
	if err := RelaxedConfig().Validate(); err != nil {
		t.Errorf("relaxed config must validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.ApprovalThreshold = decimal.NewFromInt(-1) }},
		{"zero round unit", func(c *Config) { c.RoundNumberUnit = decimal.Zero }},
		{"margin over 100", func(c *Config) { c.ThresholdMarginPercent = 150 }},
		{"zero margin", func(c *Config) { c.ThresholdMarginPercent = 0 }},
		{"cutoff over 1", func(c *Config) { c.FuzzySimilarityThreshold = 1.5 }},
		{"negative window", func(c *Config) { c.FuzzyDateWindowDays = -1 }},
		{"negative tolerance", func(c *Config) { c.FuzzyAmountTolerancePercent = -1 }},
		{"zero benford minimum", func(c *Config) { c.BenfordMinSampleSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			detectorErr, ok := errors.AsDetectorError(err)
			if !ok {
				t.Fatalf("expected DetectorError, got %T", err)
			}
			if detectorErr.Category != errors.CategoryConfiguration {
				t.Errorf("expected configuration category, got %s", detectorErr.Category)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.ThresholdMarginPercent = 99
	if original.ThresholdMarginPercent == 99 {
		t.Error("mutating the clone changed the original")
	}
}

func TestThresholdMargin(t *testing.T) {
	config := DefaultConfig()

	margin := config.ThresholdMargin()
	if margin.Cmp(decimal.NewFromInt(500)) != 0 {
		t.Errorf("expected margin 500 for 5%% of 10000, got %s", margin)
	}
}
