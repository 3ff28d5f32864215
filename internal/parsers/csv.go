package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang-anomaly-detection-service/internal/models"
	"golang-anomaly-detection-service/pkg/errors"
	"golang-anomaly-detection-service/pkg/logger"
)

// ParseStats summarizes a parse run.
type ParseStats struct {
	TotalLines  int
	RecordsRead int
	Errors      []ParseError
}

// ParseError records one malformed CSV line.
type ParseError struct {
	Line    int
	Message string
}

// CSVParser reads transaction CSV files into raw records. Cell values stay as
// strings; all interpretation happens in the normalizer so that file input and
// API input take the same path.
type CSVParser struct {
	config *ParserConfig
	logger logger.Logger
}

// NewCSVParser creates a parser with the given configuration. A nil
// configuration selects the defaults.
func NewCSVParser(config *ParserConfig) (*CSVParser, error) {
	if config == nil {
		config = DefaultParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &CSVParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("csv_parser"),
	}, nil
}

// ParseFile reads and parses a CSV file.
func (p *CSVParser) ParseFile(filePath string) ([]models.RawRecord, *ParseStats, error) {
	p.logger.WithField("file_path", filePath).Info("Starting CSV parsing")

	file, err := os.Open(filePath)
	if err != nil {
		code := errors.CodeFileNotFound
		if os.IsPermission(err) {
			code = errors.CodeFilePermission
		}
		p.logger.WithError(err).WithField("file_path", filePath).Error("Failed to open input file")
		return nil, nil, errors.FileError(code, filePath, err)
	}
	defer file.Close()

	records, stats, err := p.Parse(file, filePath)
	if err != nil {
		return nil, stats, err
	}

	p.logger.WithFields(logger.Fields{
		"file_path":    filePath,
		"total_lines":  stats.TotalLines,
		"records_read": stats.RecordsRead,
		"error_count":  len(stats.Errors),
	}).Info("CSV parsing completed")

	return records, stats, nil
}

// Parse reads CSV content from r. The source name is used in error messages
// only.
func (p *CSVParser) Parse(r io.Reader, source string) ([]models.RawRecord, *ParseStats, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.config.Delimiter
	reader.TrimLeadingSpace = p.config.TrimLeadingSpace
	// Rows with missing trailing cells are handled per-field, not rejected.
	reader.FieldsPerRecord = -1

	stats := &ParseStats{}

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, stats, errors.ParseError(errors.CodeInvalidFormat,
				source, 0, "headers", "", fmt.Errorf("file is empty")).
				WithSuggestion("provide a CSV file with a header row and data rows")
		}
		return nil, stats, errors.ParseError(errors.CodeInvalidFormat,
			source, 1, "headers", "", err)
	}
	stats.TotalLines = 1

	cols := p.config.resolveColumns(headers)
	if cols.date == -1 || cols.amount == -1 {
		missing := make([]string, 0, 2)
		if cols.date == -1 {
			missing = append(missing, "date")
		}
		if cols.amount == -1 {
			missing = append(missing, "amount")
		}
		return nil, stats, errors.ParseError(errors.CodeMissingColumn,
			source, 1, strings.Join(missing, ", "), strings.Join(headers, ","), nil).
			WithSuggestion("ensure the CSV has date and amount columns, or set explicit column names")
	}

	p.logger.WithFields(logger.Fields{
		"date_column":   cols.date,
		"amount_column": cols.amount,
		"vendor_column": cols.vendor,
	}).Debug("Resolved CSV columns")

	progress := logger.NewProgressTracker("csv_parse", 0)

	var records []models.RawRecord
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			stats.TotalLines++
			stats.Errors = append(stats.Errors, ParseError{
				Line:    stats.TotalLines,
				Message: err.Error(),
			})
			continue
		}
		stats.TotalLines++
		progress.Increment(1)

		if isEmptyRow(row) {
			continue
		}

		records = append(records, p.recordFromRow(headers, cols, row))
		stats.RecordsRead++
	}
	progress.Complete()

	if len(stats.Errors) > 0 {
		p.logger.WithField("error_count", len(stats.Errors)).Warn("Encountered malformed CSV lines")
	}

	return records, stats, nil
}

// recordFromRow maps a CSV row to a raw record. Semantic fields get their
// canonical keys; every other cell passes through under its header name.
func (p *CSVParser) recordFromRow(headers []string, cols columnMap, row []string) models.RawRecord {
	record := make(models.RawRecord, len(row))

	for i, value := range row {
		if i >= len(headers) {
			break
		}
		switch i {
		case cols.date:
			record["date"] = value
		case cols.amount:
			record["amount"] = value
		case cols.vendor:
			record["vendor"] = value
		default:
			record[headers[i]] = value
		}
	}

	return record
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
