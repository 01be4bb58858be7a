package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

const (
	QuestionColumn = "Question"
	AnswerColumn   = "Answer"
	IntentColumn   = "Intent"
)

const bom = "\ufeff"

// Table is a question/answer sheet with its original columns preserved.
type Table struct {
	Header  []string
	Records [][]string

	question int
	answer   int
}

// Read parses a CSV corpus. A Question column is required; Answer is optional.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("corpus is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	t := &Table{Header: header, question: columnIndex(header, QuestionColumn), answer: columnIndex(header, AnswerColumn)}
	if t.question < 0 {
		return nil, fmt.Errorf("corpus has no %s column", QuestionColumn)
	}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(t.Records), err)
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		t.Records = append(t.Records, record)
	}
	return t, nil
}

// Questions returns the corpus rows as intent inputs, in row order.
func (t *Table) Questions() []intent.QuestionInput {
	out := make([]intent.QuestionInput, len(t.Records))
	for i, record := range t.Records {
		out[i].Question = record[t.question]
		if t.answer >= 0 {
			out[i].Answer = record[t.answer]
		}
	}
	return out
}

// WithIntents returns a copy of the table with the Intent column set from
// assignments, appending the column when absent.
func (t *Table) WithIntents(assignments []intent.Assignment) (*Table, error) {
	if len(assignments) != len(t.Records) {
		return nil, fmt.Errorf("have %d assignments for %d rows", len(assignments), len(t.Records))
	}
	header := slices.Clone(t.Header)
	col := columnIndex(header, IntentColumn)
	if col < 0 {
		header = append(header, IntentColumn)
		col = len(header) - 1
	}
	out := &Table{Header: header, Records: make([][]string, len(t.Records)), question: t.question, answer: t.answer}
	for i, record := range t.Records {
		row := slices.Clone(record)
		for len(row) < len(header) {
			row = append(row, "")
		}
		row[col] = assignments[i].Intent
		out.Records[i] = row
	}
	return out, nil
}

// Write serializes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Records); err != nil {
		return err
	}
	return writer.Error()
}

// ReadFile opens and parses a .csv corpus.
func ReadFile(path string) (*Table, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, fmt.Errorf("%s is not a csv file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteFile writes the table to path, creating parent directories.
func WriteFile(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OutputPath maps data/input/Chat.csv to <dir>/Chat_intent.csv. An empty dir
// keeps the input's directory.
func OutputPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"_intent.csv")
}

// CorpusName derives a corpus name from a file path.
func CorpusName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ToLower(strings.ReplaceAll(base, " ", "_"))
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
