package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

// FileStorage writes exported files below a root directory.
type FileStorage struct {
	root string
}

// NewFileStorage creates the root directory when missing.
func NewFileStorage(root string) (*FileStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("artifact root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &FileStorage{root: root}, nil
}

// Root returns the directory files are written under.
func (s *FileStorage) Root() string {
	return s.root
}

// Put writes data to root/key, creating parent directories.
func (s *FileStorage) Put(ctx context.Context, key string, data []byte, mimeType string) (intent.StoredArtifact, error) {
	if err := ctx.Err(); err != nil {
		return intent.StoredArtifact{}, err
	}
	if err := validateKey(key); err != nil {
		return intent.StoredArtifact{}, err
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return intent.StoredArtifact{}, fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return intent.StoredArtifact{}, fmt.Errorf("write artifact %s: %w", key, err)
	}
	return intent.StoredArtifact{
		Key:      key,
		Size:     int64(len(data)),
		MimeType: mimeType,
		ETag:     contentETag(data),
	}, nil
}

// Delete removes root/key. Parent directories left empty are removed up to the root.
func (s *FileStorage) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact %s: %w", key, err)
	}
	root := filepath.Clean(s.root)
	for dir := filepath.Dir(target); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}

var _ intent.ArtifactStorage = (*FileStorage)(nil)
