// Package parsers loads transaction batches from CSV and JSON files into the
// open-ended record form the normalizer consumes. Column resolution is
// alias-driven so common ledger export headers work without configuration.
package parsers

import (
	"fmt"
	"strings"

	"golang-anomaly-detection-service/pkg/errors"
)

// ParserConfig controls CSV parsing behavior.
type ParserConfig struct {
	// Explicit column header overrides. Empty means resolve by alias.
	DateColumn   string
	AmountColumn string
	VendorColumn string

	Delimiter        rune
	TrimLeadingSpace bool
}

// DefaultParserConfig returns a configuration for comma-separated files with
// alias-based column resolution.
func DefaultParserConfig() *ParserConfig {
	return &ParserConfig{
		Delimiter:        ',',
		TrimLeadingSpace: true,
	}
}

// Validate checks the parser configuration.
func (c *ParserConfig) Validate() error {
	if c.Delimiter == 0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"delimiter", string(c.Delimiter),
			fmt.Errorf("delimiter cannot be empty"))
	}
	return nil
}

// Header aliases, matched case-insensitively as substrings. First hit wins.
var (
	dateAliases   = []string{"date"}
	amountAliases = []string{"amount", "amt", "sum", "total"}
	vendorAliases = []string{"vendor", "payee", "merchant", "supplier"}
)

// columnMap records which CSV column feeds each semantic field. An index of
// -1 means the column was not found.
type columnMap struct {
	date   int
	amount int
	vendor int
}

// resolveColumns maps header names to semantic columns, preferring explicit
// configuration over alias matching.
func (c *ParserConfig) resolveColumns(headers []string) columnMap {
	cols := columnMap{date: -1, amount: -1, vendor: -1}

	for i, header := range headers {
		folded := strings.ToLower(strings.TrimSpace(header))

		switch {
		case c.DateColumn != "":
			if strings.EqualFold(header, c.DateColumn) {
				cols.date = i
			}
		case cols.date == -1 && matchesAlias(folded, dateAliases):
			cols.date = i
		}

		switch {
		case c.AmountColumn != "":
			if strings.EqualFold(header, c.AmountColumn) {
				cols.amount = i
			}
		case cols.amount == -1 && matchesAlias(folded, amountAliases):
			cols.amount = i
		}

		switch {
		case c.VendorColumn != "":
			if strings.EqualFold(header, c.VendorColumn) {
				cols.vendor = i
			}
		case cols.vendor == -1 && matchesAlias(folded, vendorAliases):
			cols.vendor = i
		}
	}

	return cols
}

func matchesAlias(folded string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(folded, alias) {
			return true
		}
	}
	return false
}
