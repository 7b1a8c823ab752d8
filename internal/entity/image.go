package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/joseph-ayodele/cards-tracker/constants"
)

// Image is an in-memory picture of one card side.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsZero reports whether the image holds no bytes.
func (i Image) IsZero() bool { return len(i.Data) == 0 }

// Ext returns the lowercase extension without dot, preferring the name.
func (i Image) Ext() string {
	if ext := constants.NormalizeExt(filepath.Ext(i.Name)); ext != "" {
		return ext
	}
	if ext := constants.ExtForContentType(i.ContentType); ext != "" {
		return ext
	}
	return "jpg"
}

// Hash is the hex SHA-256 of the image bytes.
func (i Image) Hash() string {
	sum := sha256.Sum256(i.Data)
	return hex.EncodeToString(sum[:])
}
