package corpusrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

// MemoryRepository is an in-memory intent.Repository used for tests/dev.
type MemoryRepository struct {
	mu   sync.RWMutex
	runs map[string][]intent.Run
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{runs: make(map[string][]intent.Run)}
}

// SaveRun implements intent.Repository.
func (r *MemoryRepository) SaveRun(_ context.Context, run intent.Run) error {
	run.Assignments = slices.Clone(run.Assignments)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.Corpus] = append(r.runs[run.Corpus], run)
	return nil
}

// LatestRun implements intent.Repository.
func (r *MemoryRepository) LatestRun(_ context.Context, corpus string) (intent.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history := r.runs[corpus]
	if len(history) == 0 {
		return intent.Run{}, false, nil
	}
	run := history[len(history)-1]
	run.Assignments = slices.Clone(run.Assignments)
	return run, true, nil
}

// ListAssignments returns the assignments of the latest run, in row order.
func (r *MemoryRepository) ListAssignments(ctx context.Context, corpus string) ([]intent.Assignment, error) {
	run, ok, err := r.LatestRun(ctx, corpus)
	if err != nil || !ok {
		return []intent.Assignment{}, err
	}
	return run.Assignments, nil
}

// History returns every saved run of a corpus, oldest first.
func (r *MemoryRepository) History(corpus string) []intent.Run {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.runs[corpus])
}

var _ intent.Repository = (*MemoryRepository)(nil)
