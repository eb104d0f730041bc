package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/NightNord/odis2vcp/constants"
	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/controller"
	"github.com/NightNord/odis2vcp/internal/ingest"
	"github.com/NightNord/odis2vcp/internal/profile"
	"github.com/NightNord/odis2vcp/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		profilePath = flag.String("profile", "", "JSON batch profile path")
		dir         = flag.String("dir", "", "directory to convert containers from")
		desc        = flag.String("desc", "", "output file suffix (required with -dir)")
		format      = flag.String("fmt", "vcp", "output format: vcp (default) or raw")
		reportPath  = flag.String("report", "", "optional XLSX batch summary path")
		watch       = flag.Bool("watch", false, "keep watching the directory for new containers")
	)
	flag.Parse()

	if *profilePath == "" && *dir == "" {
		printError("Error: either -profile or -dir is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := common.LoadConfig()

	// Assemble the batch from the profile or the flag surface.
	var batch profile.Profile
	if *profilePath != "" {
		p, err := profile.Load(*profilePath)
		if err != nil {
			logger.Error("failed to load profile", "path", *profilePath, "error", err)
			os.Exit(1)
		}
		batch = p
	} else {
		if *desc == "" {
			printError("Error: -desc is required with -dir\n")
			os.Exit(1)
		}
		batch = profile.Profile{
			Description: *desc,
			Format:      *format,
			Roots:       []string{*dir},
			Report:      *reportPath,
		}
	}
	if *reportPath != "" {
		batch.Report = *reportPath
	}

	skipHidden := appCfg.Scan.SkipHidden
	if batch.SkipHidden != nil {
		skipHidden = *batch.SkipHidden
	}

	runner := controller.NewRunner(logger)
	var sums []controller.Summary

	convert := func(ctx context.Context, path string) error {
		cfg := common.ExtractionConfig{
			InputPath:    path,
			OutputSuffix: batch.Description,
			RawMode:      batch.RawMode(),
		}
		sum, err := runner.Run(ctx, cfg)
		sums = append(sums, sum)
		return err
	}

	failed := 0
	for _, input := range batch.Inputs {
		if err := convert(ctx, input); err != nil {
			logger.Error("conversion failed", "input", input, "error", err)
			failed++
		}
	}

	for _, root := range batch.Roots {
		results, stats, err := ingest.ConvertDirectory(ctx, root, batch.IncludeExts, skipHidden, convert)
		if err != nil {
			logger.Error("directory batch failed", "root", root, "error", err)
			failed++
			continue
		}
		for _, res := range results {
			if res.Err != "" {
				logger.Error("conversion failed", "input", res.Path, "error", res.Err)
			}
		}
		logger.Info("directory batch complete",
			"root", root,
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
		)
		failed += int(stats.Failed)
	}

	if *watch && len(batch.Roots) > 0 {
		watchRoots(ctx, logger, batch, convert)
	}

	if batch.Report != "" {
		if err := report.WriteBatch(batch.Report, sums); err != nil {
			logger.Error("failed to write batch report", "path", batch.Report, "error", err)
			os.Exit(1)
		}
		logger.Info("batch report written", "path", batch.Report)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// watchRoots converts containers as they appear until the context is cancelled.
func watchRoots(ctx context.Context, logger *slog.Logger, batch profile.Profile, convert ingest.Converter) {
	exts := map[string]struct{}{}
	for _, e := range batch.IncludeExts {
		e = constants.NormalizeExt(strings.TrimSpace(e))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	if len(exts) == 0 {
		exts = nil
	}

	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       batch.Roots,
		AllowedExts: exts,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		return
	}
	logger.Info("watching for containers", "roots", batch.Roots)

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-evCh:
			if !ok {
				return
			}
			if err := convert(ctx, path); err != nil {
				logger.Error("conversion failed", "input", path, "error", err)
			}
		case err, ok := <-errCh:
			if ok && err != nil {
				logger.Error("watcher error", "error", err)
			}
		}
	}
}
