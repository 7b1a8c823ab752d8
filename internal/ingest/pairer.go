package ingest

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// Pairer turns a stream of image paths into cards. A side is held for the
// pair window so its partner can arrive; when the window lapses the card is
// released with the one side it has.
type Pairer struct {
	window time.Duration
	logger *slog.Logger
}

// NewPairer returns a pairer. A window of zero releases every file at once.
func NewPairer(window time.Duration, logger *slog.Logger) *Pairer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pairer{window: window, logger: logger}
}

type heldCard struct {
	files CardFiles
	timer *time.Timer
}

// Run consumes paths until it is closed or ctx ends. Closing paths releases
// every held card; cancelling ctx drops them.
func (p *Pairer) Run(ctx context.Context, paths <-chan string) <-chan CardFiles {
	out := make(chan CardFiles, 16)
	go func() {
		defer close(out)
		done := make(chan struct{})
		defer close(done)

		held := map[string]*heldCard{}
		expired := make(chan *heldCard)

		emit := func(c CardFiles) bool {
			select {
			case out <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				if len(held) > 0 {
					p.logger.Warn("pairer stopped with held cards", "held", len(held))
				}
				for _, h := range held {
					h.timer.Stop()
				}
				return

			case path, ok := <-paths:
				if !ok {
					keys := make([]string, 0, len(held))
					for k := range held {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						held[k].timer.Stop()
						if !emit(held[k].files) {
							return
						}
					}
					return
				}
				key, side, ok := Classify(path)
				if !ok {
					p.logger.Debug("pairer: not a card image", "path", path)
					continue
				}
				if p.window <= 0 {
					c := CardFiles{Key: key}
					c.set(side, path)
					if !emit(c) {
						return
					}
					continue
				}
				h := held[key]
				if h == nil {
					h = &heldCard{files: CardFiles{Key: key}}
					h.timer = time.AfterFunc(p.window, func() {
						select {
						case expired <- h:
						case <-done:
						}
					})
					held[key] = h
				}
				h.files.set(side, path)
				if h.files.Complete() {
					h.timer.Stop()
					delete(held, key)
					p.logger.Debug("pairer: card paired", "key", key)
					if !emit(h.files) {
						return
					}
				}

			case h := <-expired:
				if held[h.files.Key] != h {
					continue
				}
				delete(held, h.files.Key)
				p.logger.Debug("pairer: pair window lapsed", "key", h.files.Key, "front", h.files.Front, "back", h.files.Back)
				if !emit(h.files) {
					return
				}
			}
		}
	}()
	return out
}
