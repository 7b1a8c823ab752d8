package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/joseph-ayodele/cards-tracker/internal/core/async"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
	"github.com/joseph-ayodele/cards-tracker/internal/server"
	ingestsvc "github.com/joseph-ayodele/cards-tracker/internal/services/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "optional TOML config file")
		dir        = flag.String("dir", "", "directory of card images to process (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		hidden     = flag.Bool("hidden", false, "include hidden files and directories")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "cards.xlsx")
	}

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}
	logger := server.NewLogger(cfg)
	ctx := context.Background()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	var processed, failures atomic.Int32
	queue := async.NewProcessorQueue(app.Processor, logger,
		async.WithWorkers(cfg.Ingest.Workers),
		async.WithProcessTimeout(cfg.Ingest.ProcessTimeout),
		async.WithResultHook(func(_ async.Job, _ *entity.BusinessCard, err error) {
			if err != nil {
				failures.Add(1)
				return
			}
			processed.Add(1)
		}),
	)

	res, err := ingestsvc.NewService(queue, logger).IngestDirectory(ctx, ingestsvc.DirectoryIngestRequest{
		RootPath:      *dir,
		IncludeHidden: *hidden,
	})
	queue.Shutdown(ctx)
	if err != nil {
		logger.Error("failed to ingest directory", "error", err)
		os.Exit(1)
	}

	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := app.Export.CardsXLSX(ctx, "")
	if err != nil {
		logger.Error("failed to export cards", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"cards_found", res.Statistics.Cards,
		"cards_processed", processed.Load(),
		"failures", failures.Load(),
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Cards found: %d (%d with both sides)\n", res.Statistics.Cards, res.Statistics.Paired)
	fmt.Printf("- Cards saved: %d\n", processed.Load())
	fmt.Printf("- Failures: %d\n", failures.Load())
	fmt.Printf("- Output: %s\n", *out)
}
