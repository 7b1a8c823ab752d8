package capture

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// CommandCamera grabs single JPEG frames from a V4L2 device through fswebcam.
type CommandCamera struct {
	Bin     string                      // default "fswebcam"
	Devices map[constants.Facing]string // e.g. environment -> /dev/video0
	Now     func() time.Time
	Logger  *slog.Logger
}

func (c *CommandCamera) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *CommandCamera) Open(ctx context.Context, facing constants.Facing) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dev, ok := c.Devices[facing]
	if !ok || dev == "" {
		return nil, fmt.Errorf("no camera configured for facing %q", facing)
	}
	f, err := os.OpenFile(dev, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open camera %s: %w", dev, err)
	}
	_ = f.Close()

	s := &Stream{ID: uuid.NewString(), Facing: facing, Device: dev}
	c.logger().Debug("camera opened", "stream_id", s.ID, "facing", facing, "device", dev)
	return s, nil
}

func (c *CommandCamera) CaptureFrame(ctx context.Context, s *Stream) (entity.Image, error) {
	if s == nil {
		return entity.Image{}, fmt.Errorf("capture frame: stream not open")
	}
	bin := c.Bin
	if bin == "" {
		bin = "fswebcam"
	}
	cmd := exec.CommandContext(ctx, bin, "--no-banner", "-q", "-d", s.Device, "--jpeg", "95", "-")
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return entity.Image{}, fmt.Errorf("capture frame: %w: %s", err, errb.String())
	}
	if out.Len() == 0 {
		return entity.Image{}, fmt.Errorf("capture frame: empty frame from %s", s.Device)
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return entity.Image{Name: FrameName(now()), ContentType: "image/jpeg", Data: out.Bytes()}, nil
}

func (c *CommandCamera) SwitchFacing(ctx context.Context, s *Stream) (*Stream, error) {
	if s == nil {
		return nil, fmt.Errorf("switch facing: stream not open")
	}
	if err := c.Close(s); err != nil {
		return nil, err
	}
	return c.Open(ctx, s.Facing.Opposite())
}

func (c *CommandCamera) Close(s *Stream) error {
	if s != nil {
		c.logger().Debug("camera closed", "stream_id", s.ID)
	}
	return nil
}
