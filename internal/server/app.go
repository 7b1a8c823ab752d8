// Package server wires the card components from configuration and exposes
// the daemon's gRPC health endpoint.
package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/core"
	"github.com/joseph-ayodele/cards-tracker/internal/core/crop"
	"github.com/joseph-ayodele/cards-tracker/internal/core/ocr"
	"github.com/joseph-ayodele/cards-tracker/internal/export"
	"github.com/joseph-ayodele/cards-tracker/internal/form"
	repo "github.com/joseph-ayodele/cards-tracker/internal/repository"
	"github.com/joseph-ayodele/cards-tracker/internal/services/cards"
	"github.com/joseph-ayodele/cards-tracker/internal/storage"
)

// App holds the components shared by the binaries.
type App struct {
	Config     *common.Config
	Logger     *slog.Logger
	DB         *repo.DB
	Cards      *cards.Service
	Export     *export.Service
	Rules      *form.Rules
	Recognizer ocr.Recognizer
	Cropper    *crop.Cropper
	Processor  *core.Processor
}

// LoadConfig reads env + optional TOML file and validates the result.
func LoadConfig(path string) (*common.Config, error) {
	cfg, err := common.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger installs a JSON logger on stdout at the configured level.
func NewLogger(cfg *common.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

// NewApp connects the database and builds every service on top of it.
func NewApp(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rec, err := ocr.NewRecognizer(cfg.OCR, logger)
	if err != nil {
		return nil, err
	}
	rules, err := form.NewRules()
	if err != nil {
		return nil, err
	}
	db, err := ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	cardsRepo := repo.NewCardRepository(db, logger)
	store := storage.NewFSStore(cfg.Storage, logger)
	cardsSvc := cards.NewService(cardsRepo, store, logger)
	cropper := crop.New(cfg.Crop, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Cards:      cardsSvc,
		Export:     export.NewService(cardsSvc, logger),
		Rules:      rules,
		Recognizer: rec,
		Cropper:    cropper,
		Processor:  core.NewProcessor(logger, rec, cropper, cardsSvc, rules, cfg.OCR.Language),
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
