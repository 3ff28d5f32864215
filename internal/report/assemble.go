// Package report assembles detector findings into the fixed-shape analysis
// result and renders it for humans and machines.
package report

import (
	"golang-anomaly-detection-service/internal/models"
)

// FindingsByCategory carries each detector's output to the assembler.
type FindingsByCategory struct {
	Duplicates      []models.Finding
	FuzzyDuplicates []models.Finding
	UnusualTiming   []models.Finding
	RoundNumbers    []models.Finding
	ThresholdFlags  []models.Finding
	Benford         []models.Finding
}

// Assemble builds the final analysis result. rawCount is the number of rows
// received before normalization and usableCount the number that survived it.
//
// The duplicate summary counts rows flagged, so a pair contributes two; the
// detail list stays grouped, one finding per cluster. The summary answers
// "how many transactions need review" while the details answer "how many
// incidents". Every detail list is non-nil even when empty.
func Assemble(reportID string, rawCount, usableCount int, skipped []models.SkippedRow, findings FindingsByCategory) *models.AnalysisResult {
	result := &models.AnalysisResult{
		ReportID: reportID,
		Summary: models.Summary{
			TotalTransactions: rawCount,
			Duplicates:        countRows(findings.Duplicates),
			UnusualTiming:     len(findings.UnusualTiming),
			RoundNumbers:      len(findings.RoundNumbers),
			ThresholdFlags:    len(findings.ThresholdFlags),
		},
		Details: models.Details{
			Duplicates:      nonNil(findings.Duplicates),
			UnusualTiming:   nonNil(findings.UnusualTiming),
			RoundNumbers:    nonNil(findings.RoundNumbers),
			ThresholdFlags:  nonNil(findings.ThresholdFlags),
			Benford:         nonNil(findings.Benford),
			FuzzyDuplicates: nonNil(findings.FuzzyDuplicates),
		},
		Diagnostics: models.Diagnostics{
			SkippedRows: skipped,
			Notes:       []string{},
		},
	}

	if result.Diagnostics.SkippedRows == nil {
		result.Diagnostics.SkippedRows = []models.SkippedRow{}
	}

	if rawCount > 0 && usableCount == 0 {
		result.Diagnostics.Notes = append(result.Diagnostics.Notes,
			"no rows survived normalization; summary reflects an empty batch")
	} else if rawCount == 0 {
		result.Diagnostics.Notes = append(result.Diagnostics.Notes,
			"empty batch: no transactions to analyze")
	}

	return result
}

// countRows sums the rows referenced across grouped findings.
func countRows(findings []models.Finding) int {
	rows := 0
	for _, f := range findings {
		rows += len(f.SourceIndexes)
	}
	return rows
}

func nonNil(findings []models.Finding) []models.Finding {
	if findings == nil {
		return []models.Finding{}
	}
	return findings
}
