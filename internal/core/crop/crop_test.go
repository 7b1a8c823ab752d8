package crop

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

func pngImage(t *testing.T, w, h int) entity.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return entity.Image{Name: "card.png", ContentType: "image/png", Data: buf.Bytes()}
}

func decodeSize(t *testing.T, img entity.Image) image.Point {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("cropped output is not JPEG: %v", err)
	}
	return image.Pt(cfg.Width, cfg.Height)
}

func TestCropKeepsOriginal(t *testing.T) {
	c := New(common.CropConfig{JPEGQuality: 90}, nil)
	src := pngImage(t, 40, 20)

	res, err := c.Crop(context.Background(), src, Options{Rect: image.Rect(5, 5, 25, 15)})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if !bytes.Equal(res.Original.Data, src.Data) || res.Original.Name != "card.png" {
		t.Fatal("original must be returned untouched")
	}
	if res.Cropped.Name != CroppedName || res.Cropped.ContentType != "image/jpeg" {
		t.Fatalf("unexpected cropped meta: %q %q", res.Cropped.Name, res.Cropped.ContentType)
	}
	if got := decodeSize(t, res.Cropped); got != image.Pt(20, 10) {
		t.Fatalf("cropped size = %v, want 20x10", got)
	}
}

func TestCropRectIsClamped(t *testing.T) {
	c := New(common.CropConfig{}, nil)
	res, err := c.Crop(context.Background(), pngImage(t, 30, 30), Options{Rect: image.Rect(20, 20, 100, 100)})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if got := decodeSize(t, res.Cropped); got != image.Pt(10, 10) {
		t.Fatalf("size = %v, want 10x10", got)
	}

	if _, err := c.Crop(context.Background(), pngImage(t, 30, 30), Options{Rect: image.Rect(50, 50, 60, 60)}); err == nil {
		t.Fatal("expected error for rectangle outside the image")
	}
}

func TestCropRotation(t *testing.T) {
	c := New(common.CropConfig{}, nil)
	for _, tc := range []struct {
		turns int
		want  image.Point
	}{
		{0, image.Pt(40, 20)},
		{1, image.Pt(20, 40)},
		{2, image.Pt(40, 20)},
		{-1, image.Pt(20, 40)},
		{7, image.Pt(20, 40)},
	} {
		res, err := c.Crop(context.Background(), pngImage(t, 40, 20), Options{QuarterTurns: tc.turns})
		if err != nil {
			t.Fatalf("turns=%d: %v", tc.turns, err)
		}
		if got := decodeSize(t, res.Cropped); got != tc.want {
			t.Errorf("turns=%d: size = %v, want %v", tc.turns, got, tc.want)
		}
	}
}

func TestRotatePixelMapping(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	red := color.RGBA{R: 0xff, A: 0xff}
	src.Set(0, 0, red)
	out := rotate(src, 1)
	if out.Bounds().Dx() != 1 || out.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	// clockwise: source (0,0) lands in the last column of the first row.
	if got := color.RGBAModel.Convert(out.At(0, 0)); got != red {
		t.Fatalf("pixel = %v, want red", got)
	}
}

func TestCropDownscales(t *testing.T) {
	c := New(common.CropConfig{MaxDimension: 50}, nil)
	res, err := c.Crop(context.Background(), pngImage(t, 200, 100), Options{})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if got := decodeSize(t, res.Cropped); got != image.Pt(50, 25) {
		t.Fatalf("size = %v, want 50x25", got)
	}
}

func TestCropUnsupported(t *testing.T) {
	c := New(common.CropConfig{}, nil)
	_, err := c.Crop(context.Background(), entity.Image{Name: "a.heic", Data: []byte("x")}, Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("heic: expected ErrUnsupportedFormat, got %v", err)
	}
	_, err = c.Crop(context.Background(), entity.Image{Name: "a.jpg", Data: []byte("not an image")}, Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("garbage: expected ErrUnsupportedFormat, got %v", err)
	}
	p := Passthrough(entity.Image{Name: "a.heic", Data: []byte("x")})
	if p.Cropped.Name != "a.heic" || p.Original.Name != "a.heic" {
		t.Fatalf("passthrough changed the image: %+v", p)
	}
}
