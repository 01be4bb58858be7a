package intent

import "strings"

// Separator joins n-gram tokens into an intent identifier.
const Separator = "_"

// Ngrams returns every window of n consecutive tokens, leftmost first.
func Ngrams(tokens []string, n int) [][]string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	grams := make([][]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, tokens[i:i+n])
	}
	return grams
}

// DeriveCandidate joins the leftmost n-gram of the largest n in [minN, maxN]
// that tokens can form.
func DeriveCandidate(tokens []string, minN, maxN int) (string, error) {
	for n := maxN; n >= minN; n-- {
		if grams := Ngrams(tokens, n); len(grams) > 0 {
			return strings.Join(grams[0], Separator), nil
		}
	}
	return "", &InsufficientTokensError{Row: noRow, Tokens: len(tokens), MinN: minN}
}

// Bounds configures the n-gram sizes tried by a Deriver.
type Bounds struct {
	MinN        int
	InitialMaxN int
	WideMaxN    int
}

// DefaultBounds prefers quadgrams on the first pass and fivegrams on regeneration.
func DefaultBounds() Bounds {
	return Bounds{MinN: 2, InitialMaxN: 4, WideMaxN: 5}
}

// Deriver produces candidate identifiers for single questions.
type Deriver struct {
	normalizer *Normalizer
	bounds     Bounds
}

// NewDeriver builds a Deriver.
func NewDeriver(normalizer *Normalizer, bounds Bounds) *Deriver {
	return &Deriver{normalizer: normalizer, bounds: bounds}
}

// Initial is the first-pass derivation. Filler words are removed unless that
// leaves too few tokens, in which case the unfiltered text is used.
func (d *Deriver) Initial(question string) (string, error) {
	tokens, err := d.normalizer.Normalize(question, true)
	if err != nil {
		return "", err
	}
	if len(tokens) < d.bounds.MinN {
		if tokens, err = d.normalizer.Normalize(question, false); err != nil {
			return "", err
		}
	}
	id, err := DeriveCandidate(tokens, d.bounds.MinN, d.bounds.InitialMaxN)
	if err != nil {
		return "", attachQuestion(err, question)
	}
	return id, nil
}

// Wide is the regeneration used for colliding rows: filler words are kept and
// longer n-grams are allowed.
func (d *Deriver) Wide(question string) (string, error) {
	tokens, err := d.normalizer.Normalize(question, false)
	if err != nil {
		return "", err
	}
	id, err := DeriveCandidate(tokens, d.bounds.MinN, d.bounds.WideMaxN)
	if err != nil {
		return "", attachQuestion(err, question)
	}
	return id, nil
}
