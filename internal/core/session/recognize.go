package session

import (
	"context"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/core/pipeline"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// recognize runs the recognizer for one attempt in the background.
// Callers hold s.mu.
func (s *Session) recognize(side constants.Side, gen uint64, img entity.Image) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight[side] = cancel
	if s.running == 0 {
		s.idle = make(chan struct{})
	}
	s.running++

	go func() {
		defer s.settle()
		defer cancel()

		s.logger.Debug("recognition started", "side", side, "generation", gen, "image", img.Name)
		res, err := s.rec.Recognize(ctx, img, s.lang, func(pct int) {
			s.deliver(side, gen, pipeline.Progress{Gen: gen, Percent: pct})
		})
		if err != nil {
			s.deliver(side, gen, pipeline.RecognitionFailed{Gen: gen, Err: err})
			return
		}
		s.deliver(side, gen, pipeline.Done{Gen: gen, Text: res.Text})
	}()
}

func (s *Session) deliver(side constants.Side, gen uint64, ev pipeline.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.apply(side, ev)
	switch ev.(type) {
	case pipeline.Done, pipeline.RecognitionFailed:
		if s.sides[side].Generation() == gen {
			delete(s.inflight, side)
		}
	}
}

func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running--
	if s.running == 0 {
		close(s.idle)
	}
}
