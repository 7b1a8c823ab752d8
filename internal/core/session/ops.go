package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/core/capture"
	"github.com/joseph-ayodele/cards-tracker/internal/core/crop"
	"github.com/joseph-ayodele/cards-tracker/internal/core/pipeline"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// Acquire hands an image to side, replacing whatever the side held.
func (s *Session) Acquire(side constants.Side, img entity.Image) error {
	if err := s.lockOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, err := s.side(side); err != nil {
		return err
	}
	if img.IsZero() {
		return common.InvalidArgumentError("empty image")
	}
	s.cancelInflight(side)
	s.apply(side, pipeline.Acquire{Image: img})
	return nil
}

// Capture grabs one frame from the injected camera into side. A camera
// that cannot be opened or read yields CAMERA_ACCESS_DENIED and leaves the
// side idle.
func (s *Session) Capture(ctx context.Context, side constants.Side, facing constants.Facing) error {
	return s.acquireFrom(ctx, side, true, func(ctx context.Context) (entity.Image, error) {
		if s.camera == nil {
			return entity.Image{}, errors.New("no camera available")
		}
		stream, err := s.camera.Open(ctx, facing)
		if err != nil {
			return entity.Image{}, err
		}
		defer func() {
			if err := s.camera.Close(stream); err != nil {
				s.logger.Warn("failed to close camera", "error", err)
			}
		}()
		return s.camera.CaptureFrame(ctx, stream)
	})
}

// Pick acquires side from a file picker.
func (s *Session) Pick(ctx context.Context, side constants.Side, picker capture.FilePicker) error {
	return s.acquireFrom(ctx, side, false, picker.Pick)
}

func (s *Session) acquireFrom(ctx context.Context, side constants.Side, camera bool, get func(context.Context) (entity.Image, error)) error {
	if err := s.lockOpen(); err != nil {
		return err
	}
	p, err := s.side(side)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.cancelInflight(side)
	s.apply(side, pipeline.BeginAcquire{})
	gen := p.Generation()
	s.mu.Unlock()

	img, getErr := get(ctx)

	if err := s.lockOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if p.Generation() != gen {
		// superseded while waiting on the source
		return nil
	}
	if getErr != nil {
		out := s.apply(side, pipeline.AcquireFailed{Err: getErr})
		if camera && out.Err != nil {
			return out.Err
		}
		return fmt.Errorf("pick image: %w", getErr)
	}
	s.apply(side, pipeline.Acquire{Image: img})
	return nil
}

// StartCrop moves an acquired side into cropping.
func (s *Session) StartCrop(side constants.Side) error {
	return s.event(side, pipeline.StartCrop{})
}

// CancelCrop abandons cropping; the side returns to idle.
func (s *Session) CancelCrop(side constants.Side) error {
	return s.event(side, pipeline.CropCancel{})
}

// Crop completes cropping and immediately starts recognition of the
// cropped image. The original is kept for upload.
func (s *Session) Crop(side constants.Side, res crop.Result) error {
	if err := s.lockOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	p, err := s.side(side)
	if err != nil {
		return err
	}
	if out := s.apply(side, pipeline.CropComplete{Cropped: res.Cropped, Original: res.Original}); !out.Applied {
		return fmt.Errorf("%w: cannot complete crop while %s", common.ErrInvalidInput, p.State().Status())
	}
	out := s.apply(side, pipeline.Recognize{})
	if out.StartRecognition {
		s.recognize(side, out.Gen, out.Input)
	}
	return nil
}

// Remove discards side. Removing the front clears the record except notes.
func (s *Session) Remove(side constants.Side) error {
	if err := s.lockOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, err := s.side(side); err != nil {
		return err
	}
	s.cancelInflight(side)
	s.apply(side, pipeline.Remove{})
	return nil
}

// Retake is Remove followed by waiting for a new image.
func (s *Session) Retake(side constants.Side) error {
	if err := s.lockOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, err := s.side(side); err != nil {
		return err
	}
	s.cancelInflight(side)
	s.apply(side, pipeline.Retake{})
	return nil
}

// EditField applies a user edit; merges never overwrite it afterwards.
func (s *Session) EditField(f entity.Field, value string) error {
	if err := s.lockOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.ledger.Edit(f, value); err != nil {
		return common.InvalidArgumentError(err.Error())
	}
	s.logger.Debug("field edited", "field", f)
	return nil
}

func (s *Session) event(side constants.Side, ev pipeline.Event) error {
	if err := s.lockOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	p, err := s.side(side)
	if err != nil {
		return err
	}
	if out := s.apply(side, ev); !out.Applied {
		return fmt.Errorf("%w: %T not allowed while %s", common.ErrInvalidInput, ev, p.State().Status())
	}
	return nil
}

// Wait blocks until no recognition is running. Recognitions started while
// Wait is blocked are waited for too.
func (s *Session) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		idle := s.idle
		s.mu.Unlock()
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		done := s.running == 0
		s.mu.Unlock()
		if done {
			return nil
		}
	}
}

// Submit validates the record and hands it, with each side's original
// image, to the persister. The lock is not held while the persister runs,
// so views and progress keep flowing during the upload. On failure the
// session stays usable so the caller can retry; on success it is closed.
func (s *Session) Submit(ctx context.Context) (*entity.BusinessCard, error) {
	sub, err := s.beginSubmit()
	if err != nil {
		return nil, err
	}

	card, err := s.persister.Save(common.WithSessionID(ctx, s.id), sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.logger.Error("submit failed", "error", err)
		return nil, err
	}
	if !s.closed {
		s.closeLocked()
	}
	s.logger.Info("card submitted", "card_id", card.ID, "has_front", sub.Front != nil, "has_back", sub.Back != nil)
	return card, nil
}

// beginSubmit validates and copies what Submit saves, marking the session
// as submitting.
func (s *Session) beginSubmit() (entity.Submission, error) {
	if err := s.lockOpen(); err != nil {
		return entity.Submission{}, err
	}
	defer s.mu.Unlock()
	if s.submitting {
		return entity.Submission{}, fmt.Errorf("%w: submit already in progress", common.ErrInvalidInput)
	}

	rec := s.ledger.Record()
	if s.rules != nil {
		if err := s.rules.Validate(rec); err != nil {
			if common.KindOf(err) == "" {
				err = common.NewAppError(common.CodeValidationFailed, "contact record is invalid", err)
			}
			return entity.Submission{}, err
		}
	}

	sub := entity.Submission{Record: rec}
	if img, ok := pipeline.OriginalOf(s.sides[constants.Front].State()); ok {
		sub.Front = &img
	}
	if img, ok := pipeline.OriginalOf(s.sides[constants.Back].State()); ok {
		sub.Back = &img
	}
	s.submitting = true
	return sub, nil
}

// Cancel closes the session without saving.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closeLocked()
		s.logger.Debug("session cancelled")
	}
}

func (s *Session) closeLocked() {
	s.closed = true
	s.stop()
	for side := range s.inflight {
		delete(s.inflight, side)
	}
}
