package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// heicConverter turns HEIC/HEIF photos into PNG bytes tesseract can read.
// Outputs are cached under cacheDir keyed by the source content hash.
type heicConverter struct {
	runner    Runner
	logger    *slog.Logger
	converter string // heif-convert | magick | sips
	cacheDir  string
}

func (h *heicConverter) toPNG(ctx context.Context, data []byte, hashHex string) ([]byte, []string, error) {
	if h.cacheDir != "" && hashHex != "" {
		cached := filepath.Join(h.cacheDir, hashHex+".png")
		if b, err := os.ReadFile(cached); err == nil && len(b) > 0 {
			h.logger.Debug("using cached heic->png", "cache", cached)
			return b, nil, nil
		}
	}

	tmpDir, err := os.MkdirTemp("", "cards-heic-*")
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	in := filepath.Join(tmpDir, "card.heic")
	out := filepath.Join(tmpDir, "card.png")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, nil, err
	}

	var args []string
	switch h.converter {
	case "heif-convert", "magick":
		args = []string{in, out}
	case "sips":
		args = []string{"-s", "format", "png", in, "--out", out}
	default:
		return nil, nil, fmt.Errorf("HEIC not supported: set HEIC_CONVERTER to one of: heif-convert | magick | sips")
	}
	if _, errb, err := h.runner.Run(ctx, h.logger, nil, h.converter, args...); err != nil {
		return nil, []string{string(errb)}, fmt.Errorf("%s failed: %w", h.converter, err)
	}

	png, err := os.ReadFile(out)
	if err != nil {
		return nil, nil, fmt.Errorf("HEIC conversion produced no output: %w", err)
	}

	if h.cacheDir != "" && hashHex != "" {
		if err := os.MkdirAll(h.cacheDir, 0o755); err != nil {
			return png, []string{"heic cache: " + err.Error()}, nil
		}
		cached := filepath.Join(h.cacheDir, hashHex+".png")
		tmp := cached + ".tmp"
		if err := os.WriteFile(tmp, png, 0o644); err == nil {
			if err := os.Rename(tmp, cached); err != nil {
				_ = os.Remove(tmp)
				h.logger.Warn("failed to persist heic->png cache", "cache", cached, "error", err)
			} else {
				h.logger.Debug("cached heic->png", "cache", cached)
			}
		}
	}
	return png, nil, nil
}
