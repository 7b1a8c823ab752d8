// Package ingest discovers card images on disk and groups each card's front
// and back files together.
package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/cards-tracker/constants"
)

// CardFiles holds the image paths of one card. Back may be empty.
type CardFiles struct {
	Key   string // directory + stem, shared by both sides
	Front string
	Back  string
}

// Complete reports whether both sides were found.
func (c CardFiles) Complete() bool { return c.Front != "" && c.Back != "" }

// Path returns the file for side.
func (c CardFiles) Path(side constants.Side) string {
	if side == constants.Back {
		return c.Back
	}
	return c.Front
}

func (c *CardFiles) set(side constants.Side, path string) {
	if side == constants.Back {
		c.Back = path
		return
	}
	c.Front = path
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned    uint32
	Matched    uint32
	Cards      uint32
	Paired     uint32
	Duplicates uint32
	Failed     uint32
}

var sideSuffixes = []struct {
	suffix string
	side   constants.Side
}{
	{"_front", constants.Front}, {"-front", constants.Front}, {".front", constants.Front},
	{"_back", constants.Back}, {"-back", constants.Back}, {".back", constants.Back},
}

// Classify maps an image path to its card key and side. A stem without a
// side suffix is a front. ok is false for hidden files and non-images.
func Classify(path string) (key string, side constants.Side, ok bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if IsHidden(path) || !constants.IsAllowedExt(ext) {
		return "", "", false
	}
	stem := strings.TrimSuffix(base, ext)
	side = constants.Front
	lower := strings.ToLower(stem)
	for _, s := range sideSuffixes {
		if strings.HasSuffix(lower, s.suffix) && len(stem) > len(s.suffix) {
			stem = stem[:len(stem)-len(s.suffix)]
			side = s.side
			break
		}
	}
	return filepath.Join(filepath.Dir(path), stem), side, true
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
