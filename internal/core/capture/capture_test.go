package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joseph-ayodele/cards-tracker/constants"
)

func TestFrameName(t *testing.T) {
	got := FrameName(time.UnixMilli(1700000000123))
	if got != "capture_1700000000123.jpg" {
		t.Fatalf("FrameName = %q", got)
	}
}

func TestFileSourcePick(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Front.PNG")
	if err := os.WriteFile(p, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}
	img, err := FileSource{Path: p}.Pick(context.Background())
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if img.Name != "Front.PNG" || img.ContentType != "image/png" || string(img.Data) != "png" {
		t.Fatalf("unexpected image %+v", img)
	}
}

func TestReadImageRejects(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	empty := filepath.Join(dir, "empty.jpg")
	_ = os.WriteFile(txt, []byte("x"), 0o600)
	_ = os.WriteFile(empty, nil, 0o600)

	for _, p := range []string{txt, empty, filepath.Join(dir, "missing.jpg")} {
		if _, err := ReadImage(p); err == nil {
			t.Errorf("ReadImage(%s): expected error", filepath.Base(p))
		}
	}
}

func TestCommandCameraOpenMissingDevice(t *testing.T) {
	cam := &CommandCamera{Devices: map[constants.Facing]string{
		constants.FacingEnvironment: filepath.Join(t.TempDir(), "video9"),
	}}
	if _, err := cam.Open(context.Background(), constants.FacingEnvironment); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := cam.Open(context.Background(), constants.FacingUser); err == nil {
		t.Fatal("expected error for unconfigured facing")
	}
}

func TestCommandCameraSwitchFacing(t *testing.T) {
	dir := t.TempDir()
	front := filepath.Join(dir, "video0")
	back := filepath.Join(dir, "video1")
	_ = os.WriteFile(front, nil, 0o600)
	_ = os.WriteFile(back, nil, 0o600)

	cam := &CommandCamera{Devices: map[constants.Facing]string{
		constants.FacingEnvironment: front,
		constants.FacingUser:        back,
	}}
	s, err := cam.Open(context.Background(), constants.FacingEnvironment)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s2, err := cam.SwitchFacing(context.Background(), s)
	if err != nil {
		t.Fatalf("SwitchFacing: %v", err)
	}
	if s2.Facing != constants.FacingUser || s2.Device != back {
		t.Fatalf("unexpected stream %+v", s2)
	}
}
