package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDirectory walks root and groups the card images it finds by key. Cards
// are returned sorted by key. When a side shows up twice for one key (say
// a.jpg and a_front.png) the first file in walk order wins.
func ScanDirectory(ctx context.Context, root string, skipHidden bool, logger *slog.Logger) ([]CardFiles, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var stats DirStats
	byKey := map[string]*CardFiles{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			logger.Warn("scan: walk error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		key, side, ok := Classify(path)
		if !ok {
			return nil
		}
		stats.Matched++

		card, seen := byKey[key]
		if !seen {
			card = &CardFiles{Key: key}
			byKey[key] = card
		}
		if card.Path(side) != "" {
			logger.Debug("scan: duplicate side ignored", "path", path, "side", side, "kept", card.Path(side))
			stats.Duplicates++
			return nil
		}
		card.set(side, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk: %w", err)
	}

	cards := make([]CardFiles, 0, len(byKey))
	for _, c := range byKey {
		if c.Complete() {
			stats.Paired++
		}
		cards = append(cards, *c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Key < cards[j].Key })
	stats.Cards = uint32(len(cards))

	logger.Info("directory scanned", "root", root, "scanned", stats.Scanned, "matched", stats.Matched,
		"cards", stats.Cards, "paired", stats.Paired, "duplicates", stats.Duplicates, "failed", stats.Failed)
	return cards, stats, nil
}
