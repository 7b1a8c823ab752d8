package pipeline

import (
	"strings"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/core/extract"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// ExtractFunc turns recognized text into a candidate.
type ExtractFunc func(text string) entity.ContactCandidate

// Outcome tells the caller what an event did.
type Outcome struct {
	Applied bool // false when the event was ignored
	Stale   bool // a recognition event from an older generation

	// Cleared is set when Remove/Retake discarded a non-idle side.
	Cleared bool

	// StartRecognition asks the caller to recognize Input and report back
	// with events tagged Gen.
	StartRecognition bool
	Gen              uint64
	Input            entity.Image

	// Candidate is set on the transition into Succeeded.
	Candidate *entity.ContactCandidate

	// Err is set on transitions into Failed and on AcquireFailed.
	Err *common.AppError
}

// Side is the state machine for one card face. It is not safe for
// concurrent use; the session serializes access.
type Side struct {
	side    constants.Side
	state   State
	gen     uint64
	extract ExtractFunc
}

// New returns an idle side. A nil fn uses extract.Extract.
func New(side constants.Side, fn ExtractFunc) *Side {
	if fn == nil {
		fn = extract.Extract
	}
	return &Side{side: side, state: Idle{}, extract: fn}
}

func (s *Side) Side() constants.Side { return s.side }
func (s *Side) State() State         { return s.state }

// Generation is the current attempt token.
func (s *Side) Generation() uint64 { return s.gen }

// Apply runs one transition.
func (s *Side) Apply(ev Event) Outcome {
	switch e := ev.(type) {
	case BeginAcquire:
		s.gen++
		s.state = Acquiring{}
		return Outcome{Applied: true}

	case Acquire:
		if e.Image.IsZero() {
			return Outcome{}
		}
		s.gen++
		s.state = Acquired{Original: e.Image}
		return Outcome{Applied: true}

	case AcquireFailed:
		if _, ok := s.state.(Acquiring); !ok {
			return Outcome{}
		}
		s.state = Idle{}
		return Outcome{
			Applied: true,
			Err:     common.NewAppError(common.CodeCameraAccessDenied, common.ErrCameraAccessDenied.Error(), e.Err),
		}

	case StartCrop:
		st, ok := s.state.(Acquired)
		if !ok {
			return Outcome{}
		}
		s.state = Cropping{Original: st.Original}
		return Outcome{Applied: true}

	case CropComplete:
		st, ok := s.state.(Cropping)
		if !ok || e.Cropped.IsZero() {
			return Outcome{}
		}
		orig := st.Original
		if !e.Original.IsZero() {
			orig = e.Original
		}
		s.state = Cropped{Original: orig, Cropped: e.Cropped}
		return Outcome{Applied: true}

	case CropCancel:
		if _, ok := s.state.(Cropping); !ok {
			return Outcome{}
		}
		s.gen++
		s.state = Idle{}
		return Outcome{Applied: true}

	case Recognize:
		st, ok := s.state.(Cropped)
		if !ok {
			return Outcome{}
		}
		s.gen++
		s.state = Recognizing{Original: st.Original, Cropped: st.Cropped}
		return Outcome{Applied: true, StartRecognition: true, Gen: s.gen, Input: st.Cropped}

	case Progress:
		st, ok := s.recognizing(e.Gen)
		if !ok {
			return Outcome{Stale: e.Gen != s.gen}
		}
		pct := clamp(e.Percent)
		if pct <= st.Progress {
			return Outcome{}
		}
		st.Progress = pct
		s.state = st
		return Outcome{Applied: true}

	case Done:
		st, ok := s.recognizing(e.Gen)
		if !ok {
			return Outcome{Stale: e.Gen != s.gen}
		}
		return s.finish(st, e.Text)

	case RecognitionFailed:
		st, ok := s.recognizing(e.Gen)
		if !ok {
			return Outcome{Stale: e.Gen != s.gen}
		}
		err := common.NewAppError(common.CodeRecognitionFailure, common.ErrRecognitionFailure.Error(), e.Err)
		s.state = Failed{Original: st.Original, Cropped: st.Cropped, Err: err}
		return Outcome{Applied: true, Err: err}

	case Remove:
		return s.remove()

	case Retake:
		out := s.remove()
		if !out.Cleared {
			s.gen++
		}
		s.state = Acquiring{}
		out.Applied = true
		return out
	}
	return Outcome{}
}

func (s *Side) remove() Outcome {
	if _, ok := s.state.(Idle); ok {
		return Outcome{}
	}
	s.gen++
	s.state = Idle{}
	return Outcome{Applied: true, Cleared: true}
}

func (s *Side) recognizing(gen uint64) (Recognizing, bool) {
	st, ok := s.state.(Recognizing)
	if !ok || gen != s.gen {
		return Recognizing{}, false
	}
	return st, true
}

func (s *Side) finish(st Recognizing, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		err := common.NewAppError(common.CodeNoTextDetected, common.ErrNoTextDetected.Error(), nil)
		s.state = Failed{Original: st.Original, Cropped: st.Cropped, Err: err}
		return Outcome{Applied: true, Err: err}
	}
	cand := s.extract(text)
	if cand.IsEmpty() {
		err := common.NewAppError(common.CodeNoUsefulData, common.ErrNoUsefulData.Error(), nil)
		s.state = Failed{Original: st.Original, Cropped: st.Cropped, Err: err}
		return Outcome{Applied: true, Err: err}
	}
	s.state = Succeeded{Original: st.Original, Cropped: st.Cropped, Candidate: cand}
	return Outcome{Applied: true, Candidate: &cand}
}

func clamp(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
