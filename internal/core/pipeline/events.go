package pipeline

import "github.com/joseph-ayodele/cards-tracker/internal/entity"

// Event drives a Side. Events that do not apply to the current state are ignored.
type Event interface {
	event()
}

// BeginAcquire starts waiting on the camera or file picker.
type BeginAcquire struct{}

// Acquire delivers the picked or captured image.
type Acquire struct {
	Image entity.Image
}

// AcquireFailed reports that the camera could not be opened or read.
type AcquireFailed struct {
	Err error
}

type StartCrop struct{}

type CropComplete struct {
	Cropped  entity.Image
	Original entity.Image // zero keeps the acquired original
}

type CropCancel struct{}

// Recognize hands the cropped image to the recognizer.
type Recognize struct{}

// Progress, Done and RecognitionFailed carry the generation of the
// recognition attempt that produced them.
type Progress struct {
	Gen     uint64
	Percent int
}

type Done struct {
	Gen  uint64
	Text string
}

type RecognitionFailed struct {
	Gen uint64
	Err error
}

// Remove discards everything held for the side.
type Remove struct{}

// Retake is Remove followed by BeginAcquire.
type Retake struct{}

func (BeginAcquire) event()      {}
func (Acquire) event()           {}
func (AcquireFailed) event()     {}
func (StartCrop) event()         {}
func (CropComplete) event()      {}
func (CropCancel) event()        {}
func (Recognize) event()         {}
func (Progress) event()          {}
func (Done) event()              {}
func (RecognitionFailed) event() {}
func (Remove) event()            {}
func (Retake) event()            {}
