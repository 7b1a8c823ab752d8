package server

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	repo "github.com/joseph-ayodele/cards-tracker/internal/repository"
)

// ConnectDB opens the configured database and makes sure the cards table exists.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repo.DB, error) {
	logger.Info("connecting to database", "driver", cfg.Driver)
	db, err := repo.Open(ctx, repo.ConfigFrom(cfg), logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", "error", err)
		db.Close()
		return nil, err
	}
	logger.Info("successfully connected to database")
	return db, nil
}
