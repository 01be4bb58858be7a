package lexicon

import (
	"fmt"

	"github.com/kljensen/snowball"
)

// SnowballLemmatizer approximates base forms with the Snowball stemmer. It
// trades readable identifiers for language coverage.
type SnowballLemmatizer struct {
	language string
}

// NewSnowballLemmatizer returns a stemmer for language (english, spanish, french,
// russian, swedish, norwegian, hungarian).
func NewSnowballLemmatizer(language string) (*SnowballLemmatizer, error) {
	if _, err := snowball.Stem("probe", language, true); err != nil {
		return nil, fmt.Errorf("snowball language %q: %w", language, err)
	}
	return &SnowballLemmatizer{language: language}, nil
}

// Lemma implements Lemmatizer.
func (s *SnowballLemmatizer) Lemma(word string) string {
	stem, err := snowball.Stem(word, s.language, true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}

var _ Lemmatizer = (*SnowballLemmatizer)(nil)
