package intent

import "fmt"

// Engine runs the full derivation pipeline over an in-memory corpus:
// initial candidates, collision resolution, then uniqueness validation.
type Engine struct {
	deriver   *Deriver
	maxPasses int
}

// NewEngine builds an Engine from a vocabulary and runtime knobs.
func NewEngine(vocab Vocabulary, cfg Config) (*Engine, error) {
	if err := cfg.Bounds.validate(); err != nil {
		return nil, err
	}
	normalizer, err := NewNormalizer(vocab, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		deriver:   NewDeriver(normalizer, cfg.Bounds),
		maxPasses: cfg.MaxPasses,
	}, nil
}

// Deriver exposes the single-question derivations.
func (e *Engine) Deriver() *Deriver {
	return e.deriver
}

// Assign derives a unique intent for every question. Either every row gets a
// valid identifier or the first attributable error is returned.
func (e *Engine) Assign(questions []string, mode Mode) (Resolution, error) {
	initial := make([]string, len(questions))
	for row, question := range questions {
		id, err := e.deriver.Initial(question)
		if err != nil {
			return Resolution{}, attachRow(err, row)
		}
		initial[row] = id
	}

	res, err := NewResolver(e.deriver, mode, e.maxPasses).Resolve(initial, questions)
	if err != nil {
		return Resolution{}, err
	}
	if err := Validate(res.Intents); err != nil {
		return Resolution{}, err
	}
	return res, nil
}

// AssignRecords runs Assign over corpus records and pairs every record with
// its intent and the resolution stage that produced it.
func (e *Engine) AssignRecords(records []QuestionInput, mode Mode) ([]Assignment, Resolution, error) {
	questions := make([]string, len(records))
	for i, r := range records {
		questions[i] = r.Question
	}
	res, err := e.Assign(questions, mode)
	if err != nil {
		return nil, Resolution{}, err
	}
	out := make([]Assignment, len(records))
	for row, r := range records {
		out[row] = Assignment{
			Row:      row,
			Question: r.Question,
			Answer:   r.Answer,
			Intent:   res.Intents[row],
			Source:   res.Sources[row],
		}
	}
	return out, res, nil
}

func (b Bounds) validate() error {
	if b.MinN < 2 {
		return fmt.Errorf("minimum n-gram size must be at least 2, got %d", b.MinN)
	}
	if b.InitialMaxN < b.MinN {
		return fmt.Errorf("initial maximum n-gram size %d is below minimum %d", b.InitialMaxN, b.MinN)
	}
	if b.WideMaxN < b.InitialMaxN {
		return fmt.Errorf("wide maximum n-gram size %d is below initial maximum %d", b.WideMaxN, b.InitialMaxN)
	}
	return nil
}
