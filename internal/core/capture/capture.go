// Package capture provides the image sources a session acquires from: a
// camera and a file picker. Both yield an entity.Image and are treated the
// same downstream.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// Stream is an open camera.
type Stream struct {
	ID     string
	Facing constants.Facing
	Device string
}

// Camera is the capture capability. Open failures are reported as
// CAMERA_ACCESS_DENIED by the caller.
type Camera interface {
	Open(ctx context.Context, facing constants.Facing) (*Stream, error)
	CaptureFrame(ctx context.Context, s *Stream) (entity.Image, error)
	SwitchFacing(ctx context.Context, s *Stream) (*Stream, error)
	Close(s *Stream) error
}

// FilePicker is the file-pick capability.
type FilePicker interface {
	Pick(ctx context.Context) (entity.Image, error)
}

// FrameName names a captured frame: capture_<unixmillis>.jpg.
func FrameName(t time.Time) string {
	return fmt.Sprintf("capture_%d.jpg", t.UnixMilli())
}
