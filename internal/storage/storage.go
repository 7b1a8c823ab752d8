// Package storage keeps card images and hands back public URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// BlobStore uploads images into a bucket.
type BlobStore interface {
	Upload(ctx context.Context, name string, img entity.Image) (string, error)
	Delete(ctx context.Context, name string) error
}

// ObjectName builds <random>_<unixmillis>.<ext>.
func ObjectName(ext string, now time.Time) string {
	r := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d.%s", r, now.UnixMilli(), ext)
}

// FSStore is a bucket directory on local disk served under PublicBaseURL.
type FSStore struct {
	root    string
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func NewFSStore(cfg common.StorageConfig, logger *slog.Logger) *FSStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSStore{
		root:    cfg.Root,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:  logger,
	}
}

func (s *FSStore) dir() string { return filepath.Join(s.root, s.bucket) }

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}

// PublicURL returns the URL an object is served at.
func (s *FSStore) PublicURL(name string) string {
	return s.baseURL + "/" + url.PathEscape(s.bucket) + "/" + url.PathEscape(name)
}

// NameFromURL is the inverse of PublicURL; ok is false for foreign URLs.
func (s *FSStore) NameFromURL(u string) (string, bool) {
	prefix := s.baseURL + "/" + url.PathEscape(s.bucket) + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	name, err := url.PathUnescape(strings.TrimPrefix(u, prefix))
	if err != nil || checkName(name) != nil {
		return "", false
	}
	return name, true
}

func (s *FSStore) Upload(ctx context.Context, name string, img entity.Image) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}

	dst := filepath.Join(s.dir(), name)
	tmp, err := os.CreateTemp(s.dir(), ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(img.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("publish object: %w", err)
	}

	u := s.PublicURL(name)
	s.logger.Debug("object uploaded", "bucket", s.bucket, "object", name, "bytes", len(img.Data))
	return u, nil
}

func (s *FSStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir(), name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	s.logger.Debug("object deleted", "bucket", s.bucket, "object", name)
	return nil
}
