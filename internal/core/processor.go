package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/core/capture"
	"github.com/joseph-ayodele/cards-tracker/internal/core/crop"
	"github.com/joseph-ayodele/cards-tracker/internal/core/ocr"
	"github.com/joseph-ayodele/cards-tracker/internal/core/session"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
	"github.com/joseph-ayodele/cards-tracker/internal/ingest"
)

// Processor drives an add-card session without a user: load each side,
// crop, recognize, then submit.
type Processor struct {
	logger     *slog.Logger
	recognizer ocr.Recognizer
	cropper    *crop.Cropper
	persister  session.Persister
	rules      session.Validator
	language   string
}

func NewProcessor(
	logger *slog.Logger,
	recognizer ocr.Recognizer,
	cropper *crop.Cropper,
	persister session.Persister,
	rules session.Validator,
	language string,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cropper == nil {
		cropper = crop.New(common.CropConfig{}, logger)
	}
	return &Processor{
		logger:     logger,
		recognizer: recognizer,
		cropper:    cropper,
		persister:  persister,
		rules:      rules,
		language:   language,
	}
}

// CardRequest is one card to process. Crop holds per-side crop options
// (zero value = full frame); Edits are applied as direct user edits once
// recognition has settled. A side listed in Capture is taken from Camera
// with the given facing instead of from its file.
type CardRequest struct {
	Files   ingest.CardFiles
	Crop    map[constants.Side]crop.Options
	Edits   map[entity.Field]string
	Camera  capture.Camera
	Capture map[constants.Side]constants.Facing
}

// ProcessCard processes files with full-frame crops and no edits.
func (p *Processor) ProcessCard(ctx context.Context, files ingest.CardFiles) (*entity.BusinessCard, error) {
	return p.Process(ctx, CardRequest{Files: files})
}

// Process runs one session to completion. The card is saved when the
// record ends up with any contact data; otherwise the front side's failure
// is returned.
func (p *Processor) Process(ctx context.Context, req CardRequest) (*entity.BusinessCard, error) {
	start := time.Now()
	s := session.New(p.recognizer, p.persister,
		session.WithRules(p.rules),
		session.WithLanguage(p.language),
		session.WithLogger(p.logger),
		session.WithCamera(req.Camera),
	)
	defer s.Cancel()

	logger := p.logger.With("session_id", s.ID(), "card", req.Files.Key)

	for _, side := range constants.Sides {
		path := req.Files.Path(side)
		facing, captured := req.Capture[side]
		if path == "" && !captured {
			continue
		}
		var err error
		if captured {
			err = s.Capture(ctx, side, facing)
		} else {
			err = s.Pick(ctx, side, capture.FileSource{Path: path})
		}
		if err == nil {
			err = p.cropSide(ctx, s, side, req.Crop[side])
		}
		if err != nil {
			if side == constants.Front {
				return nil, err
			}
			logger.Warn("back side skipped", "path", path, "error", err)
		}
	}

	if err := s.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for recognition: %w", err)
	}

	for f, v := range req.Edits {
		if err := s.EditField(f, v); err != nil {
			return nil, err
		}
	}

	view := s.Snapshot()
	if view.Record.IsEmpty() {
		if view.Front.Error != nil {
			return nil, view.Front.Error
		}
		return nil, common.NewAppError(common.CodeNoUsefulData, "no contact details found on card", common.ErrNoUsefulData)
	}

	card, err := s.Submit(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("card processed",
		"card_id", card.ID,
		"front_status", view.Front.Status,
		"back_status", view.Back.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return card, nil
}

// cropSide crops whatever side acquired and starts its recognition.
func (p *Processor) cropSide(ctx context.Context, s *session.Session, side constants.Side, opts crop.Options) error {
	img, ok := s.Original(side)
	if !ok {
		return fmt.Errorf("%s side has no image", side)
	}
	if err := s.StartCrop(side); err != nil {
		return err
	}

	res, err := p.cropper.Crop(ctx, img, opts)
	if errors.Is(err, crop.ErrUnsupportedFormat) {
		p.logger.Debug("crop skipped, passing image through", "side", side, "image", img.Name)
		res, err = crop.Passthrough(img), nil
	}
	if err != nil {
		if cancelErr := s.CancelCrop(side); cancelErr != nil {
			p.logger.Warn("cancel crop failed", "side", side, "error", cancelErr)
		}
		return fmt.Errorf("crop %s: %w", side, err)
	}
	return s.Crop(side, res)
}
