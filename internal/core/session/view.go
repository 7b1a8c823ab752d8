package session

import (
	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/core/pipeline"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// SideView is what a form shows for one side.
type SideView struct {
	Side        constants.Side
	Status      constants.SideStatus
	Progress    int
	HasOriginal bool
	HasCropped  bool
	Candidate   *entity.ContactCandidate
	// Error is only surfaced for the front side; back failures stay silent.
	Error     *common.AppError
	CanRetake bool
}

type View struct {
	ID     string
	Record entity.ContactRecord
	Edited []entity.Field
	Front  SideView
	Back   SideView
	Closed bool

	// Submitting is set while a Submit is saving the card.
	Submitting bool
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:     s.id,
		Record: s.ledger.Record(),
		Front:  sideView(constants.Front, s.sides[constants.Front].State()),
		Back:   sideView(constants.Back, s.sides[constants.Back].State()),
		Closed: s.closed,

		Submitting: s.submitting,
	}
	for _, f := range entity.AllFields {
		if s.ledger.Edited(f) {
			v.Edited = append(v.Edited, f)
		}
	}
	return v
}

func sideView(side constants.Side, st pipeline.State) SideView {
	v := SideView{Side: side, Status: st.Status()}
	_, v.HasOriginal = pipeline.OriginalOf(st)
	_, v.HasCropped = pipeline.CroppedOf(st)

	switch s := st.(type) {
	case pipeline.Recognizing:
		v.Progress = s.Progress
	case pipeline.Succeeded:
		v.Progress = 100
		c := s.Candidate
		v.Candidate = &c
		v.CanRetake = true
	case pipeline.Failed:
		v.CanRetake = true
		if side == constants.Front {
			v.Error = s.Err
		}
	}
	return v
}

// Original returns the image side currently holds, before any crop.
func (s *Session) Original(side constants.Side) (entity.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.sides[side]
	if !ok {
		return entity.Image{}, false
	}
	return pipeline.OriginalOf(p.State())
}
