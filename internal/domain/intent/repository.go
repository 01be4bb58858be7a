package intent

import (
	"context"
	"time"
)

// Repository durably stores completed runs.
type Repository interface {
	SaveRun(ctx context.Context, run Run) error
	LatestRun(ctx context.Context, corpus string) (Run, bool, error)
	ListAssignments(ctx context.Context, corpus string) ([]Assignment, error)
}

// Store caches the latest run per corpus.
type Store interface {
	SaveLatest(ctx context.Context, run Run, ttl time.Duration) error
	Latest(ctx context.Context, corpus string) (Run, bool, error)
}

// BundleBuilder renders chatbot configuration files from assignments,
// keyed by relative path.
type BundleBuilder interface {
	Build(assignments []Assignment) (map[string][]byte, error)
}

// ArtifactStorage persists exported files. Delete of a missing key is not an error.
type ArtifactStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredArtifact, error)
	Delete(ctx context.Context, key string) error
}
