package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang-anomaly-detection-service/cmd/detector/config"
	"golang-anomaly-detection-service/internal/detector"
	"golang-anomaly-detection-service/internal/models"
	"golang-anomaly-detection-service/internal/parsers"
	"golang-anomaly-detection-service/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the analyze command
var (
	inputFile    string
	outputFormat string
	outputFile   string

	threshold       float64
	thresholdMargin float64
	roundUnit       float64
	fuzzyCutoff     float64
	fuzzyWindow     int
	benfordMin      int
	profile         string

	dateColumn   string
	amountColumn string
	vendorColumn string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a transaction batch for anomalies",
	Long: `Analyze reads a transaction file (CSV or JSON) and reports exact and
fuzzy duplicates, weekend transactions, round-number amounts, amounts kept
just under the approval threshold, and the leading-digit distribution
against Benford's law.

Rows that cannot be parsed are skipped and reported; they never abort the
batch.

Examples:
  # Basic analysis of a CSV export
  detector analyze --input transactions.csv

  # JSON report to a file with a custom approval threshold
  detector analyze --input tx.csv --output-format json \
    --output-file report.json --threshold 5000

  # Looser fuzzy matching across a three-day window
  detector analyze --input tx.csv --profile relaxed

  # Explicit column mapping for unusual headers
  detector analyze --input tx.csv --amount-column lineTotal --vendor-column payee`,

	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Required flags
	analyzeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to transaction file, CSV or JSON (required)")

	// Output flags
	analyzeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json")
	analyzeCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Detection boundary flags
	analyzeCmd.Flags().Float64VarP(&threshold, "threshold", "t", 10000, "approval threshold amount")
	analyzeCmd.Flags().Float64Var(&thresholdMargin, "threshold-margin", 5.0, "threshold band size as a percentage of the threshold")
	analyzeCmd.Flags().Float64Var(&roundUnit, "round-unit", 1000, "round-number divisor")
	analyzeCmd.Flags().Float64Var(&fuzzyCutoff, "fuzzy-cutoff", 0.85, "minimum vendor similarity (0.0-1.0) for fuzzy duplicates")
	analyzeCmd.Flags().IntVar(&fuzzyWindow, "fuzzy-window", 0, "fuzzy candidate date window in days (0 = same day)")
	analyzeCmd.Flags().IntVar(&benfordMin, "benford-min", 30, "minimum sample size for Benford analysis")
	analyzeCmd.Flags().StringVar(&profile, "profile", "", "boundary profile: strict, relaxed (overridden by explicit flags)")

	// Column mapping flags
	analyzeCmd.Flags().StringVar(&dateColumn, "date-column", "", "explicit date column header")
	analyzeCmd.Flags().StringVar(&amountColumn, "amount-column", "", "explicit amount column header")
	analyzeCmd.Flags().StringVar(&vendorColumn, "vendor-column", "", "explicit vendor column header")

	analyzeCmd.MarkFlagRequired("input")

	// Bind flags to viper
	viper.BindPFlag("input", analyzeCmd.Flags().Lookup("input"))
	viper.BindPFlag("output-format", analyzeCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", analyzeCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("threshold", analyzeCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("threshold-margin", analyzeCmd.Flags().Lookup("threshold-margin"))
	viper.BindPFlag("round-unit", analyzeCmd.Flags().Lookup("round-unit"))
	viper.BindPFlag("fuzzy-cutoff", analyzeCmd.Flags().Lookup("fuzzy-cutoff"))
	viper.BindPFlag("fuzzy-window", analyzeCmd.Flags().Lookup("fuzzy-window"))
	viper.BindPFlag("benford-min", analyzeCmd.Flags().Lookup("benford-min"))
	viper.BindPFlag("profile", analyzeCmd.Flags().Lookup("profile"))
	viper.BindPFlag("date-column", analyzeCmd.Flags().Lookup("date-column"))
	viper.BindPFlag("amount-column", analyzeCmd.Flags().Lookup("amount-column"))
	viper.BindPFlag("vendor-column", analyzeCmd.Flags().Lookup("vendor-column"))
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inputFile = viper.GetString("input")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	profile = viper.GetString("profile")

	if inputFile == "" {
		return fmt.Errorf("input is required")
	}

	info, err := os.Stat(inputFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}
	if err != nil {
		return fmt.Errorf("error accessing input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input is a directory, expected a file: %s", inputFile)
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json", outputFormat)
	}

	if profile != "" && profile != "strict" && profile != "relaxed" {
		return fmt.Errorf("invalid profile '%s'. Valid profiles: strict, relaxed", profile)
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting analysis...\n")
		fmt.Fprintf(os.Stderr, "Input file: %s\n", inputFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	detectorConfig, err := config.CreateDetectorConfig(cmd.Flags(), profile)
	if err != nil {
		return err
	}

	engine, err := detector.NewEngine(detectorConfig)
	if err != nil {
		return err
	}

	records, err := loadRecords(inputFile)
	if err != nil {
		return err
	}

	result, err := engine.Analyze(records)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(config.CreateRenderConfig(outputFormat, outputFile))
	if err := renderer.Render(result); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nAnalysis completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d transactions, skipped %d rows.\n",
			result.Summary.TotalTransactions, len(result.Diagnostics.SkippedRows))
	}

	return nil
}

func loadRecords(path string) ([]models.RawRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parsers.ParseJSONFile(path)
	}

	parser, err := parsers.NewCSVParser(config.CreateParserConfig(dateColumn, amountColumn, vendorColumn))
	if err != nil {
		return nil, err
	}

	records, _, err := parser.ParseFile(path)
	return records, err
}
