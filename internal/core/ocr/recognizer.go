// Package ocr turns a business-card image into plain text.
//
// Two engines exist: the tesseract CLI driven through a Runner, and an
// in-process gosseract client compiled in with the "gosseract" build tag.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// ProgressFunc receives recognition progress in percent (0..100).
type ProgressFunc func(percent int)

// Recognizer converts an image into text. Implementations must be safe for
// concurrent use and should stop promptly when ctx is cancelled.
type Recognizer interface {
	Recognize(ctx context.Context, img entity.Image, lang string, onProgress ProgressFunc) (Result, error)
}

// Result is the raw output of one recognition run.
type Result struct {
	Text       string
	Language   string
	Method     string // "tesseract-cli" | "gosseract"
	Confidence float32
	Duration   time.Duration
	Warnings   []string
}

type Config struct {
	Tesseract           string // binary name or absolute path; if empty -> "tesseract"
	Language            string // default "eng"
	TessdataDir         string
	HeicConverter       string
	ArtifactCacheDir    string
	PSM                 int
	EnableTSVConfidence bool
}

// ConfigFrom maps the application OCR settings onto engine settings.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Tesseract:           c.Tesseract,
		Language:            c.Language,
		TessdataDir:         c.TessdataDir,
		HeicConverter:       c.HeicConverter,
		ArtifactCacheDir:    c.ArtifactCacheDir,
		PSM:                 c.PSM,
		EnableTSVConfidence: c.EnableTSVConfidence,
	}
}

// NewRecognizer builds the engine named by cfg.Engine.
func NewRecognizer(cfg common.OCRConfig, logger *slog.Logger) (Recognizer, error) {
	switch cfg.Engine {
	case "", "tesseract":
		return NewTesseract(ConfigFrom(cfg), logger), nil
	case "gosseract":
		return NewGosseract(ConfigFrom(cfg), logger)
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}

func report(fn ProgressFunc, pct int) {
	if fn != nil {
		fn(pct)
	}
}

func recognitionError(err error) error {
	return common.NewAppError(common.CodeRecognitionFailure, "text recognition failed", err)
}
