package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/cards-tracker/internal/core/async"
	"github.com/joseph-ayodele/cards-tracker/internal/ingest"
)

// Service finds card images and queues them for processing.
type Service struct {
	queue  async.Queue
	logger *slog.Logger
}

// NewService creates a new ingest service.
func NewService(q async.Queue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		queue:  q,
		logger: logger,
	}
}

// DirectoryIngestRequest represents directory ingestion parameters.
type DirectoryIngestRequest struct {
	RootPath      string
	IncludeHidden bool
}

// DirectoryIngestResult represents directory ingestion results.
type DirectoryIngestResult struct {
	Statistics ingest.DirStats
	Cards      []ingest.CardFiles
	Enqueued   int
}

// IngestDirectory scans a directory and queues every card found in it.
func (s *Service) IngestDirectory(ctx context.Context, req DirectoryIngestRequest) (*DirectoryIngestResult, error) {
	root := strings.TrimSpace(req.RootPath)
	if root == "" {
		s.logger.Error("ingest directory request missing root_path")
		return nil, status.Error(codes.InvalidArgument, "root_path is required")
	}

	s.logger.Info("starting directory ingest", "root", root, "include_hidden", req.IncludeHidden)
	cards, stats, err := ingest.ScanDirectory(ctx, root, !req.IncludeHidden, s.logger)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "ingest directory: %v", err)
	}

	res := &DirectoryIngestResult{Statistics: stats, Cards: cards}
	for _, c := range cards {
		if err := s.enqueue(ctx, c); err != nil {
			return res, err
		}
		res.Enqueued++
	}

	s.logger.Info("directory ingest completed", "root", root, "cards", stats.Cards, "paired", stats.Paired, "enqueued", res.Enqueued)
	return res, nil
}

// WatchRequest configures an inbox watch.
type WatchRequest struct {
	Roots       []string
	Debounce    time.Duration
	PairWindow  time.Duration
	InitialScan bool
}

// Watch queues cards as their images land under the roots, until ctx ends.
func (s *Service) Watch(ctx context.Context, req WatchRequest) error {
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       req.Roots,
		InitialScan: req.InitialScan,
		Debounce:    req.Debounce,
		Logger:      s.logger,
	})
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "start watcher: %v", err)
	}
	s.logger.Info("watching inbox", "roots", req.Roots, "pair_window", req.PairWindow.String())

	cards := ingest.NewPairer(req.PairWindow, s.logger).Run(ctx, paths)
	for {
		select {
		case c, ok := <-cards:
			if !ok {
				return ctx.Err()
			}
			if err := s.enqueue(ctx, c); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("dropping card", "card", c.Key, "error", err)
			}
		case err, ok := <-errs:
			if ok {
				s.logger.Warn("watcher reported error", "error", err)
			} else {
				errs = nil
			}
		}
	}
}

func (s *Service) enqueue(ctx context.Context, c ingest.CardFiles) error {
	if err := s.queue.Enqueue(ctx, async.Job{Card: c, SubmittedAt: time.Now()}); err != nil {
		s.logger.Error("enqueue failed for card", "card", c.Key, "error", err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return status.Errorf(codes.Internal, "enqueue failed: %v", err)
	}
	return nil
}
