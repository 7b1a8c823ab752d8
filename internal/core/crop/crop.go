// Package crop is the non-interactive stand-in for the crop dialog: it cuts a
// rectangle out of a card photo, rotates it by quarter turns and re-encodes
// it as JPEG for recognition. The untouched original travels alongside.
package crop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// CroppedName is the file name given to every cropped blob.
const CroppedName = "cropped_card.jpg"

// ErrUnsupportedFormat is returned for images the decoders cannot read (HEIC).
var ErrUnsupportedFormat = errors.New("crop: unsupported image format")

type Options struct {
	Rect         image.Rectangle // in source pixels; empty means the whole frame
	QuarterTurns int             // clockwise; negative turns counter-clockwise
	MaxDimension int             // long-edge cap after rotation; 0 keeps size
	Quality      int             // JPEG quality 1..100
}

// Result mirrors the crop dialog's completion payload.
type Result struct {
	Cropped  entity.Image
	Original entity.Image
}

type Cropper struct {
	defaults Options
	logger   *slog.Logger
}

func New(cfg common.CropConfig, logger *slog.Logger) *Cropper {
	if logger == nil {
		logger = slog.Default()
	}
	q := cfg.JPEGQuality
	if q <= 0 || q > 100 {
		q = 95
	}
	return &Cropper{
		defaults: Options{MaxDimension: cfg.MaxDimension, Quality: q},
		logger:   logger,
	}
}

// Passthrough completes a crop without touching the pixels, for formats the
// decoders cannot handle but the recognizer can.
func Passthrough(img entity.Image) Result {
	return Result{Cropped: img, Original: img}
}

func (c *Cropper) Crop(ctx context.Context, img entity.Image, opts Options) (Result, error) {
	if img.IsZero() {
		return Result{}, errors.New("crop: empty image")
	}
	if constants.IsHEICExt(img.Ext()) {
		return Result{}, ErrUnsupportedFormat
	}
	if opts.MaxDimension == 0 {
		opts.MaxDimension = c.defaults.MaxDimension
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = c.defaults.Quality
	}

	src, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Result{}, ErrUnsupportedFormat
		}
		return Result{}, fmt.Errorf("crop: decode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	bounds := src.Bounds()
	rect := bounds
	if !opts.Rect.Empty() {
		rect = opts.Rect.Add(bounds.Min).Intersect(bounds)
		if rect.Empty() {
			return Result{}, fmt.Errorf("crop: rectangle %v outside image bounds %v", opts.Rect, bounds)
		}
	}

	out := rotate(subImage(src, rect), opts.QuarterTurns)
	out = fit(out, opts.MaxDimension)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return Result{}, fmt.Errorf("crop: encode: %w", err)
	}

	c.logger.Debug("cropped image",
		"source", img.Name,
		"format", format,
		"rect", rect.String(),
		"quarter_turns", opts.QuarterTurns,
		"out_size", out.Bounds().Size().String(),
		"bytes", buf.Len(),
	)
	return Result{
		Cropped:  entity.Image{Name: CroppedName, ContentType: "image/jpeg", Data: buf.Bytes()},
		Original: img,
	}, nil
}

func subImage(src image.Image, r image.Rectangle) image.Image {
	if s, ok := src.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// rotate turns src clockwise by n quarter turns.
func rotate(src image.Image, n int) image.Image {
	n = ((n % 4) + 4) % 4
	if n == 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var dst *image.RGBA
	if n == 2 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := src.At(b.Min.X+x, b.Min.Y+y)
			switch n {
			case 1:
				dst.Set(h-1-y, x, px)
			case 2:
				dst.Set(w-1-x, h-1-y, px)
			case 3:
				dst.Set(y, w-1-x, px)
			}
		}
	}
	return dst
}

// fit downsizes src so its long edge is at most limit.
func fit(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	long := w
	if h > long {
		long = h
	}
	if limit <= 0 || long <= limit {
		return src
	}
	nw, nh := w*limit/long, h*limit/long
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
