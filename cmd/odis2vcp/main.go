package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/controller"
	"github.com/NightNord/odis2vcp/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags (same surface as the original extractor)
	var (
		input      = flag.String("input", "", "input ODIS container path (required)")
		format     = flag.String("fmt", "vcp", "output format: vcp (default) or raw")
		desc       = flag.String("desc", "", "output file suffix, e.g. \"_extracted\" (required)")
		reportPath = flag.String("report", "", "optional XLSX summary path")
		verbose    = flag.Bool("v", false, "be more verbose")
		quiet      = flag.Bool("q", false, "be less verbose")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("odis2vcp %s\n", controller.Version)
		return
	}

	if *input == "" {
		printError("Error: -input is required\n")
		os.Exit(1)
	}
	if *desc == "" {
		printError("Error: -desc is required\n")
		os.Exit(1)
	}
	if *format != "vcp" && *format != "raw" {
		printError("Error: -fmt must be vcp or raw\n")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	if *quiet {
		level = slog.LevelWarn
	}

	// Structured logger with message and variables but no time/level noise
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.ExtractionConfig{
		InputPath:    *input,
		OutputSuffix: *desc,
		RawMode:      *format == "raw",
		ReportPath:   *reportPath,
	}

	runner := controller.NewRunner(logger)
	sum, err := runner.Run(ctx, cfg)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	logger.Info("extraction complete",
		"output", sum.OutputPath,
		"accepted", sum.Accepted,
		"skipped", sum.Skipped,
		"total", sum.Total,
	)

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, sum); err != nil {
			logger.Error("failed to write report", "path", cfg.ReportPath, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", cfg.ReportPath)
	}
}
