package main

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/faq-intents/internal/domain/intent"
	"github.com/yanqian/faq-intents/internal/infra/artifact"
	"github.com/yanqian/faq-intents/internal/infra/corpus"
)

type processor struct {
	engine   *intent.Engine
	mode     intent.Mode
	exporter intent.BundleBuilder
	outDir   string
	rasaDir  string
	logger   *slog.Logger
}

type fileResult struct {
	Input  string
	Output string
	Corpus string
	Stats  intent.Stats
}

// processAll handles every input concurrently. Results keep input order; a
// failed file leaves its slot empty and nothing is written for it.
func (p *processor) processAll(ctx context.Context, inputs []string, corpusName string, jobs int) ([]fileResult, error) {
	results := make([]fileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			name := corpusName
			if name == "" {
				name = corpus.CorpusName(input)
			}
			res, err := p.processFile(gctx, input, name)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (p *processor) processFile(ctx context.Context, input, corpusName string) (fileResult, error) {
	if err := ctx.Err(); err != nil {
		return fileResult{}, err
	}
	table, err := corpus.ReadFile(input)
	if err != nil {
		return fileResult{}, err
	}
	assignments, res, err := p.engine.AssignRecords(table.Questions(), p.mode)
	if err != nil {
		return fileResult{}, err
	}
	labelled, err := table.WithIntents(assignments)
	if err != nil {
		return fileResult{}, err
	}

	var bundle map[string][]byte
	if p.rasaDir != "" {
		if bundle, err = p.exporter.Build(assignments); err != nil {
			return fileResult{}, fmt.Errorf("build rasa project: %w", err)
		}
	}

	var written []string
	if bundle != nil {
		if written, err = p.writeBundle(ctx, corpusName, bundle); err != nil {
			return fileResult{}, err
		}
	}
	output := corpus.OutputPath(input, p.outDir)
	if err := corpus.WriteFile(output, labelled); err != nil {
		p.removeBundle(written)
		return fileResult{}, fmt.Errorf("write %s: %w", output, err)
	}

	stats := intent.Stats{
		Rows:          len(assignments),
		Collisions:    res.Collisions,
		Regenerations: res.Regenerations,
		Passes:        res.Passes,
	}
	p.logger.Info("corpus labelled",
		"input", input,
		"output", output,
		"corpus", corpusName,
		"mode", p.mode,
		"rows", stats.Rows,
		"collisions", stats.Collisions,
	)
	return fileResult{Input: input, Output: output, Corpus: corpusName, Stats: stats}, nil
}

// writeBundle stores every bundle file under rasaDir/<corpus>/ and returns the
// keys written. On failure the files already written are removed again.
func (p *processor) writeBundle(ctx context.Context, corpusName string, bundle map[string][]byte) ([]string, error) {
	storage, err := artifact.NewFileStorage(p.rasaDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	sort.Strings(names)
	written := make([]string, 0, len(names))
	for _, name := range names {
		key := path.Join(corpusName, name)
		if _, err := storage.Put(ctx, key, bundle[name], "application/x-yaml"); err != nil {
			p.removeBundle(written)
			return nil, err
		}
		written = append(written, key)
	}
	return written, nil
}

func (p *processor) removeBundle(keys []string) {
	if len(keys) == 0 {
		return
	}
	storage, err := artifact.NewFileStorage(p.rasaDir)
	if err != nil {
		p.logger.Error("rasa cleanup failed", "dir", p.rasaDir, "error", err)
		return
	}
	for _, key := range keys {
		if err := storage.Delete(context.Background(), key); err != nil {
			p.logger.Error("rasa cleanup failed", "key", key, "error", err)
		}
	}
}
