package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang-anomaly-detection-service/internal/models"
	"golang-anomaly-detection-service/pkg/errors"
	"golang-anomaly-detection-service/pkg/logger"
)

// OutputFormat selects the rendering of an analysis result.
type OutputFormat string

const (
	FormatJSON    OutputFormat = "json"
	FormatConsole OutputFormat = "console"
)

// RenderConfig controls how a result is rendered and where it goes.
type RenderConfig struct {
	Format     OutputFormat
	OutputFile string // empty means stdout
	PrettyJSON bool
}

// DefaultRenderConfig returns console output to stdout.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		Format:     FormatConsole,
		PrettyJSON: true,
	}
}

// Renderer writes analysis results in the configured format.
type Renderer struct {
	config *RenderConfig
	log    logger.Logger
}

// NewRenderer creates a renderer with the given configuration. A nil
// configuration selects the defaults.
func NewRenderer(config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	return &Renderer{
		config: config,
		log:    logger.GetGlobalLogger().WithComponent("report"),
	}
}

// Render writes the result to the configured destination.
func (r *Renderer) Render(result *models.AnalysisResult) error {
	out, closer, err := r.destination()
	if err != nil {
		return err
	}
	defer closer()

	switch r.config.Format {
	case FormatJSON:
		return r.renderJSON(out, result)
	case FormatConsole:
		return r.renderConsole(out, result)
	default:
		return errors.ConfigurationError(errors.CodeInvalidConfig,
			"output_format", string(r.config.Format), nil).
			WithSuggestion("use one of: json, console")
	}
}

func (r *Renderer) destination() (io.Writer, func(), error) {
	if r.config.OutputFile == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(r.config.OutputFile)
	if err != nil {
		return nil, nil, errors.FileError(errors.CodeFileWrite, r.config.OutputFile, err)
	}

	r.log.WithField("file", r.config.OutputFile).Debug("Writing report to file")
	return f, func() { f.Close() }, nil
}

func (r *Renderer) renderJSON(out io.Writer, result *models.AnalysisResult) error {
	enc := json.NewEncoder(out)
	if r.config.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "report JSON encoding", err)
	}
	return nil
}

func (r *Renderer) renderConsole(out io.Writer, result *models.AnalysisResult) error {
	var b strings.Builder

	b.WriteString("Anomaly Detection Report\n")
	b.WriteString("========================\n")
	fmt.Fprintf(&b, "Report ID: %s\n\n", result.ReportID)

	s := result.Summary
	b.WriteString("Summary\n")
	fmt.Fprintf(&b, "  Total transactions: %d\n", s.TotalTransactions)
	fmt.Fprintf(&b, "  Duplicate rows:     %d\n", s.Duplicates)
	fmt.Fprintf(&b, "  Unusual timing:     %d\n", s.UnusualTiming)
	fmt.Fprintf(&b, "  Round numbers:      %d\n", s.RoundNumbers)
	fmt.Fprintf(&b, "  Threshold flags:    %d\n", s.ThresholdFlags)
	b.WriteString("\n")

	sections := []struct {
		title    string
		findings []models.Finding
	}{
		{"Duplicates", result.Details.Duplicates},
		{"Possible duplicates (fuzzy vendor match)", result.Details.FuzzyDuplicates},
		{"Unusual timing", result.Details.UnusualTiming},
		{"Round numbers", result.Details.RoundNumbers},
		{"Threshold flags", result.Details.ThresholdFlags},
		{"Benford's law", result.Details.Benford},
	}

	for _, section := range sections {
		if len(section.findings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d)\n", section.title, len(section.findings))
		for _, f := range section.findings {
			fmt.Fprintf(&b, "  rows %v: %s\n", f.SourceIndexes, f.Reason)
		}
		b.WriteString("\n")
	}

	if len(result.Diagnostics.SkippedRows) > 0 {
		fmt.Fprintf(&b, "Skipped rows (%d)\n", len(result.Diagnostics.SkippedRows))
		for _, row := range result.Diagnostics.SkippedRows {
			fmt.Fprintf(&b, "  row %d: %s\n", row.Index, row.Reason)
		}
		b.WriteString("\n")
	}

	for _, note := range result.Diagnostics.Notes {
		fmt.Fprintf(&b, "Note: %s\n", note)
	}

	if _, err := io.WriteString(out, b.String()); err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "report rendering", err)
	}
	return nil
}
