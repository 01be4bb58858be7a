package intent

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Vocabulary supplies the language tables used during normalization.
type Vocabulary interface {
	IsFiller(word string) bool
	IsPunctuation(r rune) bool
	Lemma(word string) string
}

// Normalizer turns a question into an ordered sequence of base-form tokens.
type Normalizer struct {
	vocab Vocabulary
	cache *lru.Cache
}

type normalizeKey struct {
	text         string
	removeFiller bool
}

// NewNormalizer builds a normalizer. A positive cacheSize memoizes results,
// which keeps repeated regeneration during collision sweeps cheap.
func NewNormalizer(vocab Vocabulary, cacheSize int) (*Normalizer, error) {
	if vocab == nil {
		return nil, fmt.Errorf("normalizer requires a vocabulary")
	}
	n := &Normalizer{vocab: vocab}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("init normalization cache: %w", err)
		}
		n.cache = cache
	}
	return n, nil
}

// Normalize lower-cases text, optionally drops filler words, strips
// punctuation, folds to ASCII and lemmatizes every remaining word. The result
// may be empty. Every call returns a slice owned by the caller.
func (n *Normalizer) Normalize(text string, removeFiller bool) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyInputError{Row: noRow}
	}
	key := normalizeKey{text: text, removeFiller: removeFiller}
	if n.cache != nil {
		if cached, ok := n.cache.Get(key); ok {
			return slices.Clone(cached.([]string)), nil
		}
	}
	tokens := n.normalize(text, removeFiller)
	if n.cache != nil {
		n.cache.Add(key, slices.Clone(tokens))
	}
	return tokens, nil
}

func (n *Normalizer) normalize(text string, removeFiller bool) []string {
	lowered := strings.ToLower(text)
	if removeFiller {
		words := strings.Fields(lowered)
		kept := words[:0]
		for _, word := range words {
			if !n.vocab.IsFiller(word) {
				kept = append(kept, word)
			}
		}
		lowered = strings.Join(kept, " ")
	}

	stripped := strings.Map(func(r rune) rune {
		if n.vocab.IsPunctuation(r) {
			return -1
		}
		return r
	}, lowered)

	fields := strings.Fields(foldASCII(stripped))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if lemma := n.vocab.Lemma(field); lemma != "" {
			tokens = append(tokens, lemma)
		}
	}
	return tokens
}

// foldASCII removes diacritics and drops every rune that is neither a lower
// case ASCII letter, a digit nor whitespace.
func foldASCII(s string) string {
	decompose := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(decompose, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return b.String()
}
