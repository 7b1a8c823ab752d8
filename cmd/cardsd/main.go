package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/cards-tracker/internal/core/async"
	"github.com/joseph-ayodele/cards-tracker/internal/server"
	ingestsvc "github.com/joseph-ayodele/cards-tracker/internal/services/ingest"
)

func main() {
	configPath := flag.String("config", "", "optional TOML config file (overrides env)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := server.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	grpcServer, health := server.NewGRPCServer(app.DB, logger)
	if !health.Check(ctx) {
		logger.Error("database is not reachable")
		os.Exit(1)
	}
	go health.Watch(ctx, 15*time.Second)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}

	queue := async.NewProcessorQueue(app.Processor, logger,
		async.WithWorkers(cfg.Ingest.Workers),
		async.WithProcessTimeout(cfg.Ingest.ProcessTimeout),
	)

	if err := os.MkdirAll(cfg.Ingest.InboxDir, 0o755); err != nil {
		logger.Error("failed to create inbox", "dir", cfg.Ingest.InboxDir, "error", err)
		os.Exit(1)
	}
	ingestion := ingestsvc.NewService(queue, logger)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		err := ingestion.Watch(ctx, ingestsvc.WatchRequest{
			Roots:       []string{cfg.Ingest.InboxDir},
			Debounce:    cfg.Ingest.Debounce,
			PairWindow:  cfg.Ingest.PairWindow,
			InitialScan: true,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("inbox watcher stopped", "error", err)
			stop()
		}
	}()

	logger.Info("cardsd listening", "addr", cfg.Server.GRPCAddr, "inbox", cfg.Ingest.InboxDir)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	health.Shutdown()
	<-watchDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Ingest.ProcessTimeout)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
}
