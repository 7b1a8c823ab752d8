package pipeline

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

var (
	original = entity.Image{Name: "front.jpg", Data: []byte("original")}
	cropped  = entity.Image{Name: "cropped_card.jpg", Data: []byte("cropped")}
)

// toRecognizing drives a fresh side up to Recognizing and returns the attempt generation.
func toRecognizing(t *testing.T, s *Side) uint64 {
	t.Helper()
	steps := []Event{BeginAcquire{}, Acquire{Image: original}, StartCrop{}, CropComplete{Cropped: cropped}}
	for _, ev := range steps {
		if out := s.Apply(ev); !out.Applied {
			t.Fatalf("%T was not applied in %s", ev, s.State().Status())
		}
	}
	out := s.Apply(Recognize{})
	if !out.StartRecognition {
		t.Fatalf("Recognize did not start recognition")
	}
	if string(out.Input.Data) != "cropped" {
		t.Fatalf("recognition must use the cropped image, got %q", out.Input.Data)
	}
	return out.Gen
}

func TestHappyPath(t *testing.T) {
	s := New(constants.Front, nil)
	gen := toRecognizing(t, s)

	s.Apply(Progress{Gen: gen, Percent: 40})
	if st := s.State().(Recognizing); st.Progress != 40 {
		t.Fatalf("progress = %d", st.Progress)
	}

	out := s.Apply(Done{Gen: gen, Text: "Jane Smith\njane@acme.com"})
	if out.Candidate == nil || out.Candidate.Email != "jane@acme.com" {
		t.Fatalf("expected candidate, got %+v", out)
	}
	st, ok := s.State().(Succeeded)
	if !ok {
		t.Fatalf("state = %s", s.State().Status())
	}
	if string(st.Original.Data) != "original" {
		t.Fatal("original blob lost")
	}
	if img, ok := OriginalOf(s.State()); !ok || img.Name != "front.jpg" {
		t.Fatalf("OriginalOf = %v %v", img.Name, ok)
	}
}

func TestProgressIsClampedAndMonotonic(t *testing.T) {
	s := New(constants.Front, nil)
	gen := toRecognizing(t, s)

	for _, p := range []int{30, 10, 250, 50, -5} {
		s.Apply(Progress{Gen: gen, Percent: p})
	}
	if st := s.State().(Recognizing); st.Progress != 100 {
		t.Fatalf("progress = %d, want 100", st.Progress)
	}
}

func TestNoTextDetected(t *testing.T) {
	s := New(constants.Front, nil)
	gen := toRecognizing(t, s)
	out := s.Apply(Done{Gen: gen, Text: "  \n\t "})
	if out.Err == nil || out.Err.Code != common.CodeNoTextDetected {
		t.Fatalf("expected NO_TEXT_DETECTED, got %+v", out.Err)
	}
	if s.State().Status() != constants.SideStatusFailed {
		t.Fatalf("state = %s", s.State().Status())
	}
}

func TestNoUsefulData(t *testing.T) {
	s := New(constants.Back, nil)
	gen := toRecognizing(t, s)
	out := s.Apply(Done{Gen: gen, Text: "4412"})
	if out.Err == nil || out.Err.Code != common.CodeNoUsefulData {
		t.Fatalf("expected NO_USEFUL_DATA, got %+v", out.Err)
	}
}

func TestRecognitionFailure(t *testing.T) {
	s := New(constants.Front, nil)
	gen := toRecognizing(t, s)
	cause := errors.New("engine crashed")
	out := s.Apply(RecognitionFailed{Gen: gen, Err: cause})
	if out.Err == nil || out.Err.Code != common.CodeRecognitionFailure || !errors.Is(out.Err, cause) {
		t.Fatalf("unexpected error %+v", out.Err)
	}
	if _, ok := OriginalOf(s.State()); !ok {
		t.Fatal("failed state must keep the original")
	}
}

func TestStaleCompletionDiscarded(t *testing.T) {
	s := New(constants.Front, nil)
	old := toRecognizing(t, s)

	// a new acquisition supersedes the running attempt
	s.Apply(Acquire{Image: original})
	out := s.Apply(Done{Gen: old, Text: "jane@acme.com"})
	if out.Applied || !out.Stale {
		t.Fatalf("stale completion applied: %+v", out)
	}
	if s.State().Status() != constants.SideStatusAcquired {
		t.Fatalf("state = %s", s.State().Status())
	}

	// same after Remove
	s2 := New(constants.Back, nil)
	old = toRecognizing(t, s2)
	s2.Apply(Remove{})
	if out := s2.Apply(RecognitionFailed{Gen: old, Err: errors.New("x")}); out.Applied || out.Err != nil {
		t.Fatalf("stale failure applied: %+v", out)
	}
	if out := s2.Apply(Progress{Gen: old, Percent: 90}); out.Applied {
		t.Fatal("stale progress applied")
	}
}

func TestGenerationIncreases(t *testing.T) {
	s := New(constants.Front, nil)
	last := s.Generation()
	for _, ev := range []Event{BeginAcquire{}, Acquire{Image: original}, Remove{}, Retake{}, Acquire{Image: original}} {
		s.Apply(ev)
		if s.Generation() <= last {
			t.Fatalf("%T did not advance the generation", ev)
		}
		last = s.Generation()
	}
}

func TestRemoveAndRetake(t *testing.T) {
	s := New(constants.Front, nil)
	if out := s.Apply(Remove{}); out.Cleared {
		t.Fatal("removing an idle side must not report Cleared")
	}

	s.Apply(Acquire{Image: original})
	if out := s.Apply(Remove{}); !out.Cleared {
		t.Fatal("expected Cleared")
	}
	if _, ok := s.State().(Idle); !ok {
		t.Fatalf("state = %s", s.State().Status())
	}
	if _, ok := OriginalOf(s.State()); ok {
		t.Fatal("Remove must discard blobs")
	}

	s.Apply(Acquire{Image: original})
	out := s.Apply(Retake{})
	if !out.Cleared {
		t.Fatal("Retake should clear like Remove")
	}
	if _, ok := s.State().(Acquiring); !ok {
		t.Fatalf("state after Retake = %s", s.State().Status())
	}
}

func TestCropCancelReturnsToIdle(t *testing.T) {
	s := New(constants.Front, nil)
	s.Apply(Acquire{Image: original})
	s.Apply(StartCrop{})
	s.Apply(CropCancel{})
	if _, ok := s.State().(Idle); !ok {
		t.Fatalf("state = %s", s.State().Status())
	}
}

func TestCropCompleteKeepsAcquiredOriginal(t *testing.T) {
	s := New(constants.Front, nil)
	s.Apply(Acquire{Image: original})
	s.Apply(StartCrop{})
	s.Apply(CropComplete{Cropped: cropped})
	st := s.State().(Cropped)
	if string(st.Original.Data) != "original" || string(st.Cropped.Data) != "cropped" {
		t.Fatalf("unexpected blobs: %+v", st)
	}
	if img, ok := CroppedOf(st); !ok || img.Name != "cropped_card.jpg" {
		t.Fatalf("CroppedOf = %v %v", img.Name, ok)
	}
}

func TestAcquireFailed(t *testing.T) {
	s := New(constants.Front, nil)
	s.Apply(BeginAcquire{})
	out := s.Apply(AcquireFailed{Err: errors.New("permission denied")})
	if out.Err == nil || out.Err.Code != common.CodeCameraAccessDenied {
		t.Fatalf("expected CAMERA_ACCESS_DENIED, got %+v", out.Err)
	}
	if _, ok := s.State().(Idle); !ok {
		t.Fatalf("state = %s", s.State().Status())
	}
}

// Every event is accepted in every state without panicking, and events
// that do not apply leave the state unchanged.
func TestTransitionsAreTotal(t *testing.T) {
	events := []Event{
		BeginAcquire{}, Acquire{}, AcquireFailed{}, StartCrop{}, CropComplete{},
		CropCancel{}, Recognize{}, Progress{}, Done{}, RecognitionFailed{}, Remove{}, Retake{},
	}
	setups := map[string]func(*Side){
		"idle":        func(*Side) {},
		"acquiring":   func(s *Side) { s.Apply(BeginAcquire{}) },
		"acquired":    func(s *Side) { s.Apply(Acquire{Image: original}) },
		"cropping":    func(s *Side) { s.Apply(Acquire{Image: original}); s.Apply(StartCrop{}) },
		"recognizing": func(s *Side) { toRecognizing(t, s) },
	}
	for name, setup := range setups {
		for _, ev := range events {
			s := New(constants.Front, nil)
			setup(s)
			before, gen := s.State().Status(), s.Generation()
			out := s.Apply(ev)
			if !out.Applied && (s.State().Status() != before || s.Generation() != gen) {
				t.Errorf("%s/%T: ignored event changed the state to %s", name, ev, s.State().Status())
			}
		}
	}
}

func TestCustomExtractFunc(t *testing.T) {
	s := New(constants.Front, func(string) entity.ContactCandidate {
		return entity.ContactCandidate{Company: "Fixed"}
	})
	gen := toRecognizing(t, s)
	out := s.Apply(Done{Gen: gen, Text: "anything"})
	if out.Candidate == nil || out.Candidate.Company != "Fixed" {
		t.Fatalf("custom extractor not used: %+v", out)
	}
}
