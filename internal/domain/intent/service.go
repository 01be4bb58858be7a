package intent

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/faq-intents/internal/metrics"
	apperrors "github.com/yanqian/faq-intents/pkg/errors"
	"github.com/yanqian/faq-intents/pkg/util"
)

// DefaultCorpus names runs submitted without a corpus.
const DefaultCorpus = "default"

var corpusPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Service exposes corpus intent derivation.
type Service interface {
	Assign(ctx context.Context, req Request) (Run, error)
	Export(ctx context.Context, req Request) (ExportResult, error)
	Latest(ctx context.Context, corpus string) (Run, error)
	Assignments(ctx context.Context, corpus string) ([]Assignment, error)
}

type service struct {
	cfg       Config
	engine    *Engine
	repo      Repository
	store     Store
	bundles   BundleBuilder
	artifacts ArtifactStorage
	logger    *slog.Logger
}

// NewService wires up the intent domain.
func NewService(cfg Config, engine *Engine, repo Repository, store Store, bundles BundleBuilder, artifacts ArtifactStorage, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		engine:    engine,
		repo:      repo,
		store:     store,
		bundles:   bundles,
		artifacts: artifacts,
		logger:    logger.With("component", "intent.service"),
	}
}

func (s *service) Assign(ctx context.Context, req Request) (Run, error) {
	run, err := s.derive(req)
	if err != nil {
		return Run{}, err
	}
	if err := s.persist(ctx, run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// Export stores every rendered file before the run is recorded. Any failure
// removes the files already stored and leaves the repository untouched.
func (s *service) Export(ctx context.Context, req Request) (ExportResult, error) {
	run, err := s.derive(req)
	if err != nil {
		return ExportResult{}, err
	}
	files, err := s.bundles.Build(run.Assignments)
	if err != nil {
		return ExportResult{}, apperrors.Wrap("intent_error", "failed to build chatbot configuration", err)
	}

	paths := make([]string, 0, len(files))
	for name := range files {
		paths = append(paths, name)
	}
	sort.Strings(paths)

	result := ExportResult{
		Run:       run,
		Artifacts: make([]StoredArtifact, 0, len(paths)),
		Files:     make(map[string]string, len(paths)),
	}
	for _, name := range paths {
		key := path.Join(run.Corpus, run.ID, name)
		stored, err := s.artifacts.Put(ctx, key, files[name], "application/x-yaml")
		if err != nil {
			s.discard(ctx, result.Artifacts)
			return ExportResult{}, apperrors.Wrap("intent_error", "failed to store "+name, err)
		}
		result.Artifacts = append(result.Artifacts, stored)
		result.Files[name] = string(files[name])
	}
	if err := s.persist(ctx, run); err != nil {
		s.discard(ctx, result.Artifacts)
		return ExportResult{}, err
	}
	s.logger.Info("intent export stored", "corpus", run.Corpus, "run_id", run.ID, "files", len(paths))
	return result, nil
}

func (s *service) persist(ctx context.Context, run Run) error {
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return apperrors.Wrap("intent_error", "failed to persist run", err)
	}
	if err := s.store.SaveLatest(ctx, run, s.cfg.RunTTL); err != nil {
		s.logger.Warn("intent run cache save failed", "corpus", run.Corpus, "error", err)
	}
	return nil
}

func (s *service) discard(ctx context.Context, stored []StoredArtifact) {
	for _, artifact := range stored {
		if err := s.artifacts.Delete(ctx, artifact.Key); err != nil {
			s.logger.Error("intent export cleanup failed", "key", artifact.Key, "error", err)
		}
	}
}

func (s *service) Latest(ctx context.Context, corpus string) (Run, error) {
	name, err := sanitizeCorpus(corpus)
	if err != nil {
		return Run{}, err
	}
	cached, ok, err := s.store.Latest(ctx, name)
	if err != nil {
		s.logger.Warn("intent run cache lookup failed", "corpus", name, "error", err)
	}
	if ok {
		return cached, nil
	}
	run, found, err := s.repo.LatestRun(ctx, name)
	if err != nil {
		return Run{}, apperrors.Wrap("intent_error", "failed to load latest run", err)
	}
	if !found {
		return Run{}, apperrors.Wrap("not_found", "no intent run for corpus "+name, nil)
	}
	if err := s.store.SaveLatest(ctx, run, s.cfg.RunTTL); err != nil {
		s.logger.Warn("intent run cache backfill failed", "corpus", name, "error", err)
	}
	return run, nil
}

func (s *service) Assignments(ctx context.Context, corpus string) ([]Assignment, error) {
	name, err := sanitizeCorpus(corpus)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListAssignments(ctx, name)
	if err != nil {
		return nil, apperrors.Wrap("intent_error", "failed to list assignments", err)
	}
	return items, nil
}

func (s *service) derive(req Request) (Run, error) {
	corpus, err := sanitizeCorpus(req.Corpus)
	if err != nil {
		return Run{}, err
	}
	if len(req.Questions) == 0 {
		return Run{}, apperrors.Wrap("invalid_input", "questions cannot be empty", nil)
	}
	mode := s.cfg.Mode
	if req.Mode != "" {
		parsed, err := ParseMode(string(req.Mode))
		if err != nil {
			return Run{}, apperrors.Wrap("invalid_input", err.Error(), nil)
		}
		mode = parsed
	}

	start := time.Now()
	assignments, res, err := s.engine.AssignRecords(req.Questions, mode)
	elapsed := time.Since(start)
	rows := len(req.Questions)
	if err != nil {
		metrics.ObserveRun(string(mode), "failed", rows, 0, 0, elapsed)
		s.logger.Warn("intent run failed", "corpus", corpus, "mode", mode, "error", err)
		return Run{}, wrapEngineError(err)
	}
	metrics.ObserveRun(string(mode), "ok", rows, res.Collisions, res.Regenerations, elapsed)

	run := Run{
		ID:          uuid.NewString(),
		Corpus:      corpus,
		Mode:        mode,
		Assignments: assignments,
		Stats: Stats{
			Rows:          rows,
			Collisions:    res.Collisions,
			Regenerations: res.Regenerations,
			Passes:        res.Passes,
		},
		CreatedAt: util.NowUTC(),
	}
	s.logger.Info("intent run completed",
		"corpus", corpus,
		"mode", mode,
		"rows", run.Stats.Rows,
		"collisions", run.Stats.Collisions,
		"passes", run.Stats.Passes,
		"duration_ms", elapsed.Milliseconds(),
	)
	return run, nil
}

func sanitizeCorpus(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return DefaultCorpus, nil
	}
	if !corpusPattern.MatchString(name) {
		return "", apperrors.Wrap("invalid_input", "corpus must match "+corpusPattern.String(), nil)
	}
	return name, nil
}

func wrapEngineError(err error) error {
	var (
		empty *EmptyInputError
		short *InsufficientTokensError
		dup   *DuplicateIdentifierError
	)
	switch {
	case errors.As(err, &empty):
		return apperrors.Wrap("invalid_input", "question cannot be empty", err)
	case errors.As(err, &short):
		return apperrors.Wrap("corpus_error", "question too short to derive an intent", err)
	case errors.As(err, &dup):
		return apperrors.Wrap("corpus_error", "intents are not unique", err)
	default:
		return apperrors.Wrap("intent_error", "intent derivation failed", err)
	}
}
