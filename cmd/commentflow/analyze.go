package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/tracertea/commentflow/internal/input"
	"github.com/tracertea/commentflow/internal/logging"
	"github.com/tracertea/commentflow/internal/pipeline"
	"github.com/tracertea/commentflow/internal/report"
	"github.com/tracertea/commentflow/internal/ui"
	"github.com/tracertea/commentflow/internal/youtube"
)

var (
	inputFiles   []string
	inputDir     string
	recursive    bool
	s3Bucket     string
	s3Prefix     string
	s3Region     string
	outputFile   string
	outputFormat string
	apiKey       string
	ratePerSec   float64
	timeoutSecs  int
	retryFailed  bool
	logLevel     string
	logFileName  string
	noColor      bool
	configFile   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Resolve comment references and aggregate statistics",
	Long: `Resolve every comment reference in the input rows against the YouTube Data
API and report the most-liked, most-replied, and oldest comments.

Rows are processed one at a time, in input order. Rows that fail to parse or
resolve are kept aside; with --retry a single second pass runs over just those
rows before statistics are computed.

Examples:
  # Analyze local CSV exports
  commentflow analyze -i comments.csv,more.csv

  # Analyze a directory of exports, retry failures, export results
  commentflow analyze -d ./exports/ -r --retry -o results.json --format json

  # Analyze exports stored in S3
  commentflow analyze --s3-bucket my-exports --s3-prefix comments/ --s3-region us-east-1

  # Throttle to one API call per second
  commentflow analyze -i comments.csv --rate 1`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cliConfig, err := LoadCLIConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}

	// Flags take precedence over config file and environment.
	if cmd.Flags().Changed("input") {
		cliConfig.InputFiles = inputFiles
	}
	if cmd.Flags().Changed("input-dir") {
		cliConfig.InputDir = inputDir
	}
	if cmd.Flags().Changed("recursive") {
		cliConfig.Recursive = recursive
	}
	if cmd.Flags().Changed("s3-bucket") {
		cliConfig.S3Bucket = s3Bucket
	}
	if cmd.Flags().Changed("s3-prefix") {
		cliConfig.S3Prefix = s3Prefix
	}
	if cmd.Flags().Changed("s3-region") {
		cliConfig.S3Region = s3Region
	}
	if cmd.Flags().Changed("output") {
		cliConfig.Output = outputFile
	}
	if cmd.Flags().Changed("format") {
		cliConfig.Format = outputFormat
	}
	if cmd.Flags().Changed("api-key") {
		cliConfig.APIKey = apiKey
	}
	if cmd.Flags().Changed("rate") {
		cliConfig.RatePerSecond = ratePerSec
	}
	if cmd.Flags().Changed("timeout") {
		cliConfig.TimeoutSeconds = timeoutSecs
	}
	if cmd.Flags().Changed("retry") {
		cliConfig.Retry = retryFailed
	}
	if cmd.Flags().Changed("log-level") {
		cliConfig.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cliConfig.LogFile = logFileName
	}
	if cmd.Flags().Changed("no-color") {
		cliConfig.NoColor = noColor
	}

	runCfg := cliConfig.ToRunConfig()
	if err := runCfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %v", err)
	}

	logger, logFile := logging.New(".", runCfg.LogFile, runCfg.LogLevel)
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build the row source.
	var source input.RowSource
	switch {
	case cliConfig.S3Bucket != "":
		source, err = input.NewS3Source(ctx, cliConfig.S3Region, cliConfig.S3Bucket, cliConfig.S3Prefix, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 source: %v", err)
		}
	case cliConfig.InputDir != "":
		paths, err := input.ScanDirectory(cliConfig.InputDir, cliConfig.Recursive)
		if err != nil {
			return fmt.Errorf("failed to scan directory: %v", err)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no .csv files found in directory: %s", cliConfig.InputDir)
		}
		source = input.NewFileSource(paths, logger)
	case len(cliConfig.InputFiles) > 0:
		source = input.NewFileSource(cliConfig.InputFiles, logger)
	default:
		return fmt.Errorf("one of --input, --input-dir, or --s3-bucket must be specified")
	}

	rows, err := source.Rows(ctx)
	if err != nil {
		return fmt.Errorf("failed to read input rows: %v", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("input contained no rows")
	}

	client, err := youtube.NewClient(ctx, runCfg.APIKey, runCfg.CallTimeout, logger)
	if err != nil {
		return fmt.Errorf("failed to create YouTube client: %v", err)
	}
	resolver := youtube.NewResolver(client, logger)

	var limiter *rate.Limiter
	if runCfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(runCfg.RatePerSecond), 1)
	}

	runner := pipeline.NewRunner(resolver, limiter, logger)
	display := ui.NewDisplay(runner.Events(), client.Latency, os.Stdout, !cliConfig.NoColor)

	var wg sync.WaitGroup
	wg.Add(1)
	go display.Run(&wg)

	logger.Info("Starting analysis.",
		"rows", len(rows),
		"rate_per_second", runCfg.RatePerSecond,
		"call_timeout", runCfg.CallTimeout,
		"retry", cliConfig.Retry,
	)

	start := time.Now()
	result, runErr := runner.Run(ctx, rows)

	if runErr == nil && cliConfig.Retry && len(result.Failed) > 0 {
		logger.Info("Retrying failed rows.", "count", len(result.Failed))
		result, runErr = runner.Retry(ctx, result.Failed)
	}

	runner.Close()
	wg.Wait()

	if runErr != nil {
		// Cancellation still reports whatever finished.
		fmt.Printf("\nAnalysis interrupted after %s: %v\n", time.Since(start).Round(time.Second), runErr)
	}

	printSummary(result)

	if cliConfig.Output != "" && len(result.Processed) > 0 {
		if err := exportRecords(cliConfig.Output, cliConfig.Format, result, logger); err != nil {
			return err
		}
		fmt.Printf("\nResults written to %s (format: %s)\n", cliConfig.Output, cliConfig.Format)
	}

	return runErr
}

func printSummary(result *pipeline.Result) {
	fmt.Printf("\nComment Statistics\n")
	fmt.Printf("==================\n\n")

	stats, err := pipeline.Summarize(result.Processed, result.Oldest)
	if err != nil {
		fmt.Printf("No comments were resolved (%d failed, %d malformed rows dropped).\n",
			len(result.Failed), result.Dropped)
		return
	}

	fmt.Printf("Total comments processed: %d\n", stats.TotalProcessed)
	if len(result.Failed) > 0 {
		fmt.Printf("Still failing: %d (re-run with --retry to try them again)\n", len(result.Failed))
	}
	if result.Dropped > 0 {
		fmt.Printf("Malformed rows dropped: %d\n", result.Dropped)
	}

	fmt.Printf("\nMost liked (%d likes)\n", stats.MostLiked.LikeCount)
	printRecord(stats.MostLiked)

	fmt.Printf("\nMost replied-to (%d replies)\n", stats.MostReplied.ReplyCount)
	printRecord(stats.MostReplied)

	if stats.Oldest != nil {
		fmt.Printf("\nOldest (%s)\n", stats.Oldest.Timestamp)
		printRecord(*stats.Oldest)
	}
}

func printRecord(rec youtube.CommentRecord) {
	fmt.Printf("  Video:   %s\n", rec.VideoTitle)
	fmt.Printf("  Comment: %s\n", rec.Text)
	fmt.Printf("  Link:    %s\n", youtube.CommentURL(&rec))
}

func exportRecords(outputPath, format string, result *pipeline.Result, logger *slog.Logger) error {
	lock, err := report.AcquireDirLock(filepath.Dir(outputPath), logger)
	if err != nil {
		return fmt.Errorf("failed to lock output directory: %v", err)
	}
	defer lock.Release()

	if err := report.WriteRecords(outputPath, format, result.Processed); err != nil {
		return fmt.Errorf("failed to write results: %v", err)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringSliceVarP(&inputFiles, "input", "i", []string{}, "Input CSV files (comma-separated)")
	analyzeCmd.Flags().StringVarP(&inputDir, "input-dir", "d", "", "Input directory containing CSV files")
	analyzeCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Scan input directory recursively")

	analyzeCmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "Read input CSV objects from this S3 bucket")
	analyzeCmd.Flags().StringVar(&s3Prefix, "s3-prefix", "", "Key prefix for S3 input objects")
	analyzeCmd.Flags().StringVar(&s3Region, "s3-region", "us-east-1", "AWS region for the S3 bucket")

	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write resolved records to this file")
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, jsonl, csv, txt)")

	analyzeCmd.Flags().StringVar(&apiKey, "api-key", "", "YouTube Data API key (or set COMMENTFLOW_API_KEY)")
	analyzeCmd.Flags().Float64Var(&ratePerSec, "rate", 0, "Max API calls per second (0 = unthrottled)")
	analyzeCmd.Flags().IntVar(&timeoutSecs, "timeout", 30, "Per-call timeout in seconds")
	analyzeCmd.Flags().BoolVar(&retryFailed, "retry", false, "Run a second pass over rows that failed")

	analyzeCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	analyzeCmd.Flags().StringVar(&logFileName, "log-file", "", "Also write logs to this file")
	analyzeCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors in the progress display")

	analyzeCmd.Flags().StringVar(&configFile, "config", "", "Configuration file path")
}
