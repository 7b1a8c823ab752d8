package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("png", time.UnixMilli(1700000000000))
	if !regexp.MustCompile(`^[0-9a-f]{12}_1700000000000\.png$`).MatchString(name) {
		t.Fatalf("ObjectName = %q", name)
	}
	if ObjectName("png", time.UnixMilli(1)) == ObjectName("png", time.UnixMilli(1)) {
		t.Fatal("object names should not collide")
	}
}

func TestUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewFSStore(common.StorageConfig{Root: root, Bucket: "Cards_images", PublicBaseURL: "http://cdn.local/storage/"}, nil)
	ctx := context.Background()

	u, err := s.Upload(ctx, "abc_1.jpg", entity.Image{Data: []byte("jpeg")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if u != "http://cdn.local/storage/Cards_images/abc_1.jpg" {
		t.Fatalf("url = %q", u)
	}
	b, err := os.ReadFile(filepath.Join(root, "Cards_images", "abc_1.jpg"))
	if err != nil || string(b) != "jpeg" {
		t.Fatalf("stored object: %q %v", b, err)
	}

	name, ok := s.NameFromURL(u)
	if !ok || name != "abc_1.jpg" {
		t.Fatalf("NameFromURL = %q %v", name, ok)
	}
	if _, ok := s.NameFromURL("http://elsewhere/x.jpg"); ok {
		t.Fatal("foreign URL accepted")
	}

	if err := s.Delete(ctx, name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, name); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Cards_images", name)); !os.IsNotExist(err) {
		t.Fatal("object still present")
	}
}

func TestUploadRejectsPaths(t *testing.T) {
	s := NewFSStore(common.StorageConfig{Root: t.TempDir(), Bucket: "b"}, nil)
	for _, name := range []string{"", "../x.jpg", "a/b.jpg", ".hidden"} {
		if _, err := s.Upload(context.Background(), name, entity.Image{Data: []byte("x")}); err == nil {
			t.Errorf("Upload(%q): expected error", name)
		}
	}
}
