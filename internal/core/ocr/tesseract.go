package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// Tesseract runs the tesseract CLI, feeding the image on stdin.
type Tesseract struct {
	cfg    Config
	runner Runner
	heic   *heicConverter
	logger *slog.Logger
}

func NewTesseract(cfg Config, logger *slog.Logger) *Tesseract {
	return NewTesseractWithRunner(cfg, execRunner{}, logger)
}

// NewTesseractWithRunner is NewTesseract with an injectable command runner.
func NewTesseractWithRunner(cfg Config, r Runner, logger *slog.Logger) *Tesseract {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{
		cfg:    cfg,
		runner: r,
		logger: logger,
		heic: &heicConverter{
			runner:    r,
			logger:    logger,
			converter: cfg.HeicConverter,
			cacheDir:  cfg.ArtifactCacheDir,
		},
	}
}

func (t *Tesseract) Recognize(ctx context.Context, img entity.Image, lang string, onProgress ProgressFunc) (Result, error) {
	start := time.Now()
	if lang == "" {
		lang = t.cfg.Language
	}
	res := Result{Language: lang, Method: "tesseract-cli"}
	if img.IsZero() {
		return res, recognitionError(errors.New("empty image"))
	}
	report(onProgress, 0)

	data := img.Data
	if constants.IsHEICExt(img.Ext()) {
		png, warn, err := t.heic.toPNG(ctx, img.Data, img.Hash())
		res.Warnings = append(res.Warnings, warn...)
		if err != nil {
			return res, recognitionError(err)
		}
		data = png
	}
	report(onProgress, 10)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	out, errb, err := t.runner.Run(ctx, t.logger, data, t.cfg.Tesseract, t.args(lang)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		res.Warnings = append(res.Warnings, string(errb))
		return res, recognitionError(fmt.Errorf("tesseract: %w", err))
	}
	report(onProgress, 30)

	res.Text = Normalize(string(out))

	var ocrConf float32
	if t.cfg.EnableTSVConfidence {
		tsv, errb, err := t.runner.Run(ctx, t.logger, data, t.cfg.Tesseract, append(t.args(lang), "tsv")...)
		if err != nil {
			res.Warnings = append(res.Warnings, "tsv confidence: "+string(errb))
		} else {
			ocrConf = meanTSVConfidence(string(tsv))
		}
	}
	report(onProgress, 90)

	res.Confidence = blendConfidence(ocrConf, heuristicConfidence(res.Text))
	res.Duration = time.Since(start)
	report(onProgress, 100)

	t.logger.Info("recognition finished",
		"method", res.Method,
		"lang", lang,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// tesseract stdin stdout -l <lang> [--psm N] [--tessdata-dir D]
func (t *Tesseract) args(lang string) []string {
	args := []string{"stdin", "stdout", "-l", lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", t.cfg.PSM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}
