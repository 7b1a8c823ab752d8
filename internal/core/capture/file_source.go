package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// FileSource picks a fixed file from disk.
type FileSource struct {
	Path string
}

func (f FileSource) Pick(ctx context.Context) (entity.Image, error) {
	if err := ctx.Err(); err != nil {
		return entity.Image{}, err
	}
	return ReadImage(f.Path)
}

// ReadImage loads an image file, rejecting extensions that are not card images.
func ReadImage(path string) (entity.Image, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		return entity.Image{}, fmt.Errorf("unsupported image extension %q: %s", ext, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return entity.Image{}, fmt.Errorf("empty image file: %s", path)
	}
	return entity.Image{
		Name:        filepath.Base(path),
		ContentType: constants.ContentTypeForExt(ext),
		Data:        data,
	}, nil
}
