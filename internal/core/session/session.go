// Package session owns one add-card flow: a front and a back side pipeline,
// the merged contact record, and the user's edits.
//
// Every write to the record happens under the session lock. Merges are
// ordered by side priority rather than arrival: whenever the front side
// merges or is removed, the back side's candidate is re-applied as a gap
// fill, so the record is the same whichever side finishes first.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/core/capture"
	"github.com/joseph-ayodele/cards-tracker/internal/core/merge"
	"github.com/joseph-ayodele/cards-tracker/internal/core/ocr"
	"github.com/joseph-ayodele/cards-tracker/internal/core/pipeline"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// Persister uploads the images and stores the card.
type Persister interface {
	Save(ctx context.Context, sub entity.Submission) (*entity.BusinessCard, error)
}

// Validator is the form layer's gate before Submit.
type Validator interface {
	Validate(rec entity.ContactRecord) error
}

type Session struct {
	id        string
	lang      string
	rec       ocr.Recognizer
	camera    capture.Camera
	persister Persister
	rules     Validator
	extract   pipeline.ExtractFunc
	logger    *slog.Logger

	// ctx parents every recognition; stop cancels them all on close.
	ctx  context.Context
	stop context.CancelFunc

	mu       sync.Mutex
	sides    map[constants.Side]*pipeline.Side
	inflight map[constants.Side]context.CancelFunc
	ledger   *merge.Ledger
	closed   bool

	// running counts recognition goroutines; idle is closed whenever it is zero.
	running int
	idle    chan struct{}

	submitting bool
}

type Option func(*Session)

func WithCamera(c capture.Camera) Option {
	return func(s *Session) { s.camera = c }
}

func WithRules(v Validator) Option {
	return func(s *Session) { s.rules = v }
}

func WithLanguage(lang string) Option {
	return func(s *Session) {
		if lang != "" {
			s.lang = lang
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExtractor replaces the default field extraction.
func WithExtractor(fn pipeline.ExtractFunc) Option {
	return func(s *Session) { s.extract = fn }
}

func New(rec ocr.Recognizer, persister Persister, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		lang:      "eng",
		rec:       rec,
		persister: persister,
		logger:    slog.Default(),
		inflight:  make(map[constants.Side]context.CancelFunc),
		ledger:    merge.NewLedger(),
		idle:      closedChan(),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("session_id", s.id)
	s.ctx, s.stop = context.WithCancel(common.WithSessionID(context.Background(), s.id))
	s.sides = map[constants.Side]*pipeline.Side{
		constants.Front: pipeline.New(constants.Front, s.extract),
		constants.Back:  pipeline.New(constants.Back, s.extract),
	}
	return s
}

func (s *Session) ID() string { return s.id }

// lockOpen takes the lock and fails if the session is closed.
func (s *Session) lockOpen() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return common.ErrSessionClosed
	}
	return nil
}

func (s *Session) side(side constants.Side) (*pipeline.Side, error) {
	p, ok := s.sides[side]
	if !ok {
		return nil, common.InvalidArgumentErrorf("unknown card side %q", side)
	}
	return p, nil
}

// apply feeds ev to a side and folds the outcome into the record.
// Callers hold s.mu.
func (s *Session) apply(side constants.Side, ev pipeline.Event) pipeline.Outcome {
	p := s.sides[side]
	from := p.State().Status()
	out := p.Apply(ev)

	switch {
	case out.Stale:
		s.logger.Debug("stale recognition event discarded", "side", side, "event", eventName(ev), "generation", p.Generation())
		return out
	case !out.Applied:
		return out
	}

	if to := p.State().Status(); to != from {
		s.logger.Debug("side transition", "side", side, "from", from, "to", to, "generation", p.Generation())
	}

	if out.Candidate != nil {
		if side == constants.Front {
			changed := s.ledger.MergeFront(*out.Candidate)
			s.logger.Debug("front merged", "fields", changed)
			s.refillFromBack()
		} else {
			changed := s.ledger.MergeBack(*out.Candidate)
			s.logger.Debug("back merged", "fields", changed)
		}
	}
	if out.Cleared && side == constants.Front {
		s.ledger.ResetFront()
		s.refillFromBack()
	}
	if out.Err != nil {
		if side == constants.Front {
			s.logger.Warn("front side failed", "code", out.Err.Code, "error", out.Err)
		} else {
			s.logger.Debug("back side failed", "code", out.Err.Code, "error", out.Err)
		}
	}
	return out
}

func (s *Session) refillFromBack() {
	if st, ok := s.sides[constants.Back].State().(pipeline.Succeeded); ok {
		s.ledger.MergeBack(st.Candidate)
	}
}

// cancelInflight aborts a running recognition for side, if any.
func (s *Session) cancelInflight(side constants.Side) {
	if cancel, ok := s.inflight[side]; ok {
		cancel()
		delete(s.inflight, side)
	}
}

func eventName(ev pipeline.Event) string {
	switch ev.(type) {
	case pipeline.Progress:
		return "progress"
	case pipeline.Done:
		return "done"
	case pipeline.RecognitionFailed:
		return "recognition_failed"
	}
	return "other"
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
