//go:build !gosseract

package ocr

import (
	"errors"
	"log/slog"
)

// NewGosseract reports that the in-process engine was not compiled in.
// Build with -tags gosseract (requires libtesseract) to enable it.
func NewGosseract(Config, *slog.Logger) (Recognizer, error) {
	return nil, errors.New("gosseract engine not available: rebuild with -tags gosseract")
}
