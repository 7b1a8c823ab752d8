//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// Gosseract recognizes text in-process through libtesseract.
type Gosseract struct {
	cfg           Config
	logger        *slog.Logger
	heic          *heicConverter
	clientFactory func() *gosseract.Client
}

func NewGosseract(cfg Config, logger *slog.Logger) (Recognizer, error) {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gosseract{
		cfg:           cfg,
		logger:        logger,
		heic:          &heicConverter{runner: execRunner{}, logger: logger, converter: cfg.HeicConverter, cacheDir: cfg.ArtifactCacheDir},
		clientFactory: gosseract.NewClient,
	}, nil
}

func (g *Gosseract) Recognize(ctx context.Context, img entity.Image, lang string, onProgress ProgressFunc) (Result, error) {
	start := time.Now()
	if lang == "" {
		lang = g.cfg.Language
	}
	res := Result{Language: lang, Method: "gosseract"}
	if img.IsZero() {
		return res, recognitionError(fmt.Errorf("empty image"))
	}
	report(onProgress, 0)

	data := img.Data
	if constants.IsHEICExt(img.Ext()) {
		png, warn, err := g.heic.toPNG(ctx, img.Data, img.Hash())
		res.Warnings = append(res.Warnings, warn...)
		if err != nil {
			return res, recognitionError(err)
		}
		data = png
	}

	c := g.clientFactory()
	defer func() { _ = c.Close() }()

	if g.cfg.TessdataDir != "" {
		c.TessdataPrefix = g.cfg.TessdataDir
	}
	if err := c.SetLanguage(lang); err != nil {
		return res, recognitionError(fmt.Errorf("set language: %w", err))
	}
	if g.cfg.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(g.cfg.PSM)); err != nil {
			return res, recognitionError(fmt.Errorf("set psm: %w", err))
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return res, recognitionError(fmt.Errorf("set image: %w", err))
	}
	report(onProgress, 10)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	text, err := c.Text()
	if err != nil {
		return res, recognitionError(fmt.Errorf("recognize text: %w", err))
	}
	report(onProgress, 80)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Text = Normalize(strings.TrimSpace(text))

	var ocrConf float32
	if boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD); err == nil && len(boxes) > 0 {
		var sum float64
		for _, b := range boxes {
			sum += b.Confidence
		}
		ocrConf = float32(sum / float64(len(boxes)) / 100.0)
	}
	res.Confidence = blendConfidence(ocrConf, heuristicConfidence(res.Text))
	res.Duration = time.Since(start)
	report(onProgress, 100)

	g.logger.Info("recognition finished",
		"method", res.Method,
		"lang", lang,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
