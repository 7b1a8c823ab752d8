package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/cards-tracker/internal/core/capture"
	"github.com/joseph-ayodele/cards-tracker/internal/core/extract"
	"github.com/joseph-ayodele/cards-tracker/internal/core/ocr"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
	"github.com/joseph-ayodele/cards-tracker/internal/server"
)

type output struct {
	File       string                  `json:"file"`
	Method     string                  `json:"method"`
	Language   string                  `json:"language"`
	Confidence float32                 `json:"confidence"`
	DurationMS int64                   `json:"duration_ms"`
	Warnings   []string                `json:"warnings,omitempty"`
	Candidate  entity.ContactCandidate `json:"candidate"`
}

func main() {
	configPath := flag.String("config", "", "optional TOML config file")
	lang := flag.String("lang", "", "tesseract language (defaults to OCR_LANG)")
	timeout := flag.Duration("timeout", 2*time.Minute, "recognition timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: runocr [-lang eng] <image>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := server.NewLogger(cfg)

	img, err := capture.ReadImage(path)
	if err != nil {
		logger.Error("invalid image", "path", path, "error", err)
		os.Exit(2)
	}
	rec, err := ocr.NewRecognizer(cfg.OCR, logger)
	if err != nil {
		logger.Error("recognizer", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := rec.Recognize(ctx, img, *lang, func(pct int) {
		logger.Debug("recognition progress", "percent", pct)
	})
	if err != nil {
		logger.Error("text recognition failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(output{
		File:       path,
		Method:     res.Method,
		Language:   res.Language,
		Confidence: res.Confidence,
		DurationMS: res.Duration.Milliseconds(),
		Warnings:   res.Warnings,
		Candidate:  extract.Extract(res.Text),
	})
}
