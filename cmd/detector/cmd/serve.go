package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-anomaly-detection-service/cmd/detector/config"
	"golang-anomaly-detection-service/internal/detector"
	"golang-anomaly-detection-service/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the serve command
var (
	listenAddr      string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the anomaly detection HTTP API",
	Long: `Serve starts an HTTP server exposing the detection engine.

Endpoints:
  POST /api/analyze   analyze a JSON array of transactions
  GET  /healthz       liveness check

The optional 'threshold' query parameter on /api/analyze overrides the
approval threshold for that request only.

Examples:
  detector serve
  detector serve --listen :9090 --threshold 5000`,

	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 60*time.Second, "HTTP write timeout")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	// The serve command accepts the same boundary flags as analyze so the API
	// default configuration is tunable.
	serveCmd.Flags().Float64VarP(&threshold, "threshold", "t", 10000, "approval threshold amount")
	serveCmd.Flags().Float64Var(&thresholdMargin, "threshold-margin", 5.0, "threshold band size as a percentage of the threshold")
	serveCmd.Flags().Float64Var(&roundUnit, "round-unit", 1000, "round-number divisor")
	serveCmd.Flags().Float64Var(&fuzzyCutoff, "fuzzy-cutoff", 0.85, "minimum vendor similarity (0.0-1.0) for fuzzy duplicates")
	serveCmd.Flags().IntVar(&fuzzyWindow, "fuzzy-window", 0, "fuzzy candidate date window in days (0 = same day)")
	serveCmd.Flags().IntVar(&benfordMin, "benford-min", 30, "minimum sample size for Benford analysis")
	serveCmd.Flags().StringVar(&profile, "profile", "", "boundary profile: strict, relaxed (overridden by explicit flags)")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func runServe(cmd *cobra.Command, args []string) error {
	detectorConfig, err := config.CreateDetectorConfig(cmd.Flags(), viper.GetString("profile"))
	if err != nil {
		return err
	}

	engine, err := detector.NewEngine(detectorConfig)
	if err != nil {
		return err
	}

	serverConfig := server.DefaultConfig()
	serverConfig.ListenAddr = listenAddr
	serverConfig.ReadTimeout = readTimeout
	serverConfig.WriteTimeout = writeTimeout
	serverConfig.ShutdownTimeout = shutdownTimeout

	if addr := viper.GetString("listen"); addr != "" {
		serverConfig.ListenAddr = addr
	}

	srv := server.New(serverConfig, engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Serving on %s with %s\n", serverConfig.ListenAddr, engine.Config())
	}

	return srv.Run(ctx)
}
