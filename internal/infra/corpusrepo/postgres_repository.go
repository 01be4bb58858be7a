package corpusrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

const schema = `
CREATE TABLE IF NOT EXISTS intent_runs (
	id            TEXT PRIMARY KEY,
	corpus        TEXT NOT NULL,
	mode          TEXT NOT NULL,
	row_count     INTEGER NOT NULL,
	collisions    INTEGER NOT NULL,
	regenerations INTEGER NOT NULL,
	passes        INTEGER NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS intent_runs_corpus_created_idx ON intent_runs (corpus, created_at DESC);
CREATE TABLE IF NOT EXISTS intent_assignments (
	run_id   TEXT NOT NULL REFERENCES intent_runs (id) ON DELETE CASCADE,
	row_num  INTEGER NOT NULL,
	question TEXT NOT NULL,
	answer   TEXT NOT NULL,
	intent   TEXT NOT NULL,
	source   TEXT NOT NULL,
	PRIMARY KEY (run_id, row_num),
	UNIQUE (run_id, intent)
);
`

// PostgresRepository implements intent.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the run tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure intent schema: %w", err)
	}
	return nil
}

// SaveRun writes the run header and its assignments in one transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, run intent.Run) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO intent_runs (id, corpus, mode, row_count, collisions, regenerations, passes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.Corpus, string(run.Mode), run.Stats.Rows, run.Stats.Collisions,
		run.Stats.Regenerations, run.Stats.Passes, run.CreatedAt); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	rows := make([][]any, len(run.Assignments))
	for i, a := range run.Assignments {
		rows[i] = []any{run.ID, a.Row, a.Question, a.Answer, a.Intent, string(a.Source)}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"intent_assignments"},
		[]string{"run_id", "row_num", "question", "answer", "intent", "source"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy assignments: %w", err)
	}
	return tx.Commit(ctx)
}

// LatestRun loads the most recent run of a corpus with its assignments.
func (r *PostgresRepository) LatestRun(ctx context.Context, corpus string) (intent.Run, bool, error) {
	var (
		run  intent.Run
		mode string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, corpus, mode, row_count, collisions, regenerations, passes, created_at
		FROM intent_runs
		WHERE corpus = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, corpus).Scan(&run.ID, &run.Corpus, &mode, &run.Stats.Rows, &run.Stats.Collisions,
		&run.Stats.Regenerations, &run.Stats.Passes, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return intent.Run{}, false, nil
	}
	if err != nil {
		return intent.Run{}, false, err
	}
	run.Mode = intent.Mode(mode)
	run.Assignments, err = r.assignmentsForRun(ctx, run.ID)
	if err != nil {
		return intent.Run{}, false, err
	}
	return run, true, nil
}

// ListAssignments returns the latest run's assignments in row order.
func (r *PostgresRepository) ListAssignments(ctx context.Context, corpus string) ([]intent.Assignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.row_num, a.question, a.answer, a.intent, a.source
		FROM intent_assignments a
		WHERE a.run_id = (
			SELECT id FROM intent_runs WHERE corpus = $1 ORDER BY created_at DESC LIMIT 1
		)
		ORDER BY a.row_num
	`, corpus)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func (r *PostgresRepository) assignmentsForRun(ctx context.Context, runID string) ([]intent.Assignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT row_num, question, answer, intent, source
		FROM intent_assignments
		WHERE run_id = $1
		ORDER BY row_num
	`, runID)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func collectAssignments(rows pgx.Rows) ([]intent.Assignment, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (intent.Assignment, error) {
		var (
			a      intent.Assignment
			source string
		)
		if err := row.Scan(&a.Row, &a.Question, &a.Answer, &a.Intent, &source); err != nil {
			return intent.Assignment{}, err
		}
		a.Source = intent.Source(source)
		return a, nil
	})
}

var _ intent.Repository = (*PostgresRepository)(nil)
