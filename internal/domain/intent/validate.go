package intent

import "regexp"

var identifierPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Validate fails with a DuplicateIdentifierError when any identifier repeats.
func Validate(identifiers []string) error {
	seen := make(map[string]int, len(identifiers))
	for row, id := range identifiers {
		if first, ok := seen[id]; ok {
			return &DuplicateIdentifierError{Intent: id, FirstRow: first, SecondRow: row}
		}
		seen[id] = row
	}
	return nil
}

// IsWellFormed reports whether id can be used verbatim as a configuration key.
func IsWellFormed(id string) bool {
	return identifierPattern.MatchString(id)
}
