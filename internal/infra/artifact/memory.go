package artifact

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

// MemoryStorage keeps exported files in memory. Useful for tests and local dev.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string]storedBlob
}

type storedBlob struct {
	data     []byte
	mimeType string
	etag     string
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string]storedBlob)}
}

// Put stores the file and returns metadata.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, mimeType string) (intent.StoredArtifact, error) {
	if err := validateKey(key); err != nil {
		return intent.StoredArtifact{}, err
	}
	etag := contentETag(data)
	s.mu.Lock()
	s.blobs[key] = storedBlob{data: slices.Clone(data), mimeType: mimeType, etag: etag}
	s.mu.Unlock()
	return intent.StoredArtifact{
		Key:      key,
		Size:     int64(len(data)),
		MimeType: mimeType,
		ETag:     etag,
	}, nil
}

// Get returns a copy of the stored file.
func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("artifact %q not found", key)
	}
	return slices.Clone(blob.data), nil
}

// Delete removes the file if present.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

// Keys lists stored keys in lexical order.
func (s *MemoryStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contentETag(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}

var _ intent.ArtifactStorage = (*MemoryStorage)(nil)
