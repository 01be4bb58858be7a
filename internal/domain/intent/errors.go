package intent

import (
	"errors"
	"fmt"
)

// noRow marks errors raised outside of a corpus pass.
const noRow = -1

// EmptyInputError reports a question that is empty or whitespace only.
type EmptyInputError struct {
	Row int
}

func (e *EmptyInputError) Error() string {
	if e.Row < 0 {
		return "question is empty"
	}
	return fmt.Sprintf("row %d: question is empty", e.Row)
}

// InsufficientTokensError reports normalized text too short to form an n-gram of MinN tokens.
type InsufficientTokensError struct {
	Row      int
	Question string
	Tokens   int
	MinN     int
}

func (e *InsufficientTokensError) Error() string {
	msg := fmt.Sprintf("normalized text has %d token(s), need at least %d", e.Tokens, e.MinN)
	if e.Question != "" {
		msg = fmt.Sprintf("question %q: %s", e.Question, msg)
	}
	if e.Row >= 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	return msg
}

// DuplicateIdentifierError reports an intent shared by two rows after resolution.
type DuplicateIdentifierError struct {
	Intent    string
	FirstRow  int
	SecondRow int
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("intent %q assigned to rows %d and %d", e.Intent, e.FirstRow, e.SecondRow)
}

// attachRow records row on engine errors that were raised without one.
func attachRow(err error, row int) error {
	var empty *EmptyInputError
	if errors.As(err, &empty) && empty.Row < 0 {
		empty.Row = row
		return err
	}
	var short *InsufficientTokensError
	if errors.As(err, &short) && short.Row < 0 {
		short.Row = row
	}
	return err
}

// attachQuestion records the offending question text on token errors.
func attachQuestion(err error, question string) error {
	var short *InsufficientTokensError
	if errors.As(err, &short) && short.Question == "" {
		short.Question = question
	}
	return err
}
