package lexicon

import (
	"fmt"
	"strings"
)

// ASCIIPunctuation is the punctuation set stripped from questions before tokenization.
const ASCIIPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Lemmatizer reduces a lower-cased word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Lexicon bundles the language tables the intent normalizer depends on.
// A Lexicon is immutable once built; the With* helpers return modified copies.
type Lexicon struct {
	filler      map[string]struct{}
	punctuation map[rune]struct{}
	lemmatizer  Lemmatizer
}

// New builds a Lexicon from a filler list, a punctuation set and a lemmatizer.
// A nil lemmatizer leaves words unchanged.
func New(filler []string, punctuation string, lemmatizer Lemmatizer) *Lexicon {
	l := &Lexicon{
		filler:      make(map[string]struct{}, len(filler)),
		punctuation: make(map[rune]struct{}, len(punctuation)),
		lemmatizer:  lemmatizer,
	}
	for _, word := range filler {
		if word = strings.ToLower(strings.TrimSpace(word)); word != "" {
			l.filler[word] = struct{}{}
		}
	}
	for _, r := range punctuation {
		l.punctuation[r] = struct{}{}
	}
	return l
}

// English returns the default English lexicon.
func English() *Lexicon {
	return New(englishFiller, ASCIIPunctuation, EnglishLemmatizer())
}

// IsFiller reports whether word is dropped during filler removal.
func (l *Lexicon) IsFiller(word string) bool {
	_, ok := l.filler[word]
	return ok
}

// IsPunctuation reports whether r is stripped from the text.
func (l *Lexicon) IsPunctuation(r rune) bool {
	_, ok := l.punctuation[r]
	return ok
}

// Lemma returns the base form of word.
func (l *Lexicon) Lemma(word string) string {
	if l.lemmatizer == nil {
		return word
	}
	return l.lemmatizer.Lemma(word)
}

// FillerWords returns the filler set in no particular order.
func (l *Lexicon) FillerWords() []string {
	out := make([]string, 0, len(l.filler))
	for word := range l.filler {
		out = append(out, word)
	}
	return out
}

// WithFiller returns a copy that also treats extra as filler.
func (l *Lexicon) WithFiller(extra ...string) *Lexicon {
	clone := l.clone()
	for _, word := range extra {
		if word = strings.ToLower(strings.TrimSpace(word)); word != "" {
			clone.filler[word] = struct{}{}
		}
	}
	return clone
}

// WithoutFiller returns a copy in which keep are no longer filler.
func (l *Lexicon) WithoutFiller(keep ...string) *Lexicon {
	clone := l.clone()
	for _, word := range keep {
		delete(clone.filler, strings.ToLower(strings.TrimSpace(word)))
	}
	return clone
}

// WithLemmatizer returns a copy using lemmatizer.
func (l *Lexicon) WithLemmatizer(lemmatizer Lemmatizer) *Lexicon {
	clone := l.clone()
	clone.lemmatizer = lemmatizer
	return clone
}

func (l *Lexicon) clone() *Lexicon {
	out := &Lexicon{
		filler:      make(map[string]struct{}, len(l.filler)),
		punctuation: make(map[rune]struct{}, len(l.punctuation)),
		lemmatizer:  l.lemmatizer,
	}
	for word := range l.filler {
		out.filler[word] = struct{}{}
	}
	for r := range l.punctuation {
		out.punctuation[r] = struct{}{}
	}
	return out
}

// Options select the lexicon variant built by Build.
type Options struct {
	Language    string
	Lemmatizer  string
	ExtraFiller []string
	KeepWords   []string
}

// Build assembles a lexicon from the chosen lemmatizer and filler adjustments.
// English starts from the built-in filler list. Other languages have no
// built-in list, so their filler comes entirely from ExtraFiller, which must be
// set. The table lemmatizer only supports English.
func Build(opts Options) (*Lexicon, error) {
	language := strings.ToLower(strings.TrimSpace(opts.Language))
	if language == "" {
		language = "english"
	}
	lex := English()
	if language != "english" {
		if len(opts.ExtraFiller) == 0 {
			return nil, fmt.Errorf("language %q needs an explicit filler list", language)
		}
		lex = New(nil, ASCIIPunctuation, lex.lemmatizer)
	}
	switch opts.Lemmatizer {
	case "", "table":
		if language != "english" {
			return nil, fmt.Errorf("table lemmatizer does not support %q", language)
		}
	case "snowball":
		stemmer, err := NewSnowballLemmatizer(language)
		if err != nil {
			return nil, err
		}
		lex = lex.WithLemmatizer(stemmer)
	default:
		return nil, fmt.Errorf("unknown lemmatizer %q", opts.Lemmatizer)
	}
	return lex.WithFiller(opts.ExtraFiller...).WithoutFiller(opts.KeepWords...), nil
}
