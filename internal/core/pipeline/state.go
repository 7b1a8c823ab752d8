// Package pipeline is the per-side capture state machine:
// acquire -> crop -> recognize -> extract. It holds no goroutines; the
// session feeds it events and runs recognition on its behalf.
package pipeline

import (
	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// State is one of Idle, Acquiring, Acquired, Cropping, Cropped, Recognizing,
// Succeeded or Failed.
type State interface {
	Status() constants.SideStatus
	state()
}

type Idle struct{}

type Acquiring struct{}

type Acquired struct {
	Original entity.Image
}

type Cropping struct {
	Original entity.Image
}

type Cropped struct {
	Original entity.Image
	Cropped  entity.Image
}

type Recognizing struct {
	Original entity.Image
	Cropped  entity.Image
	Progress int // 0..100, never decreases within one attempt
}

type Succeeded struct {
	Original  entity.Image
	Cropped   entity.Image
	Candidate entity.ContactCandidate
}

type Failed struct {
	Original entity.Image
	Cropped  entity.Image
	Err      *common.AppError
}

func (Idle) Status() constants.SideStatus        { return constants.SideStatusIdle }
func (Acquiring) Status() constants.SideStatus   { return constants.SideStatusAcquiring }
func (Acquired) Status() constants.SideStatus    { return constants.SideStatusAcquired }
func (Cropping) Status() constants.SideStatus    { return constants.SideStatusCropping }
func (Cropped) Status() constants.SideStatus     { return constants.SideStatusCropped }
func (Recognizing) Status() constants.SideStatus { return constants.SideStatusRecognizing }
func (Succeeded) Status() constants.SideStatus   { return constants.SideStatusSucceeded }
func (Failed) Status() constants.SideStatus      { return constants.SideStatusFailed }

func (Idle) state()        {}
func (Acquiring) state()   {}
func (Acquired) state()    {}
func (Cropping) state()    {}
func (Cropped) state()     {}
func (Recognizing) state() {}
func (Succeeded) state()   {}
func (Failed) state()      {}

// OriginalOf returns the acquired (uncropped) image held by st, if any.
func OriginalOf(st State) (entity.Image, bool) {
	var img entity.Image
	switch s := st.(type) {
	case Acquired:
		img = s.Original
	case Cropping:
		img = s.Original
	case Cropped:
		img = s.Original
	case Recognizing:
		img = s.Original
	case Succeeded:
		img = s.Original
	case Failed:
		img = s.Original
	}
	return img, !img.IsZero()
}

// CroppedOf returns the cropped image held by st, if any.
func CroppedOf(st State) (entity.Image, bool) {
	var img entity.Image
	switch s := st.(type) {
	case Cropped:
		img = s.Cropped
	case Recognizing:
		img = s.Cropped
	case Succeeded:
		img = s.Cropped
	case Failed:
		img = s.Cropped
	}
	return img, !img.IsZero()
}
