package lexicon

import "strings"

// englishFiller lists articles, pronouns, auxiliaries, conjunctions and most
// prepositions. Interrogatives other than "how" and the infinitive "to" stay,
// they usually carry the subject of an FAQ question.
var englishFiller = []string{
	// articles and determiners
	"a", "an", "the", "this", "that", "these", "those", "some", "any", "each", "every",
	// pronouns
	"i", "me", "my", "myself", "we", "us", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	// auxiliaries and modals
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
	"can", "could", "will", "would", "shall", "should", "may", "might", "must",
	// conjunctions
	"and", "but", "or", "nor", "so", "yet", "if", "then", "than", "because", "as", "while",
	// prepositions
	"of", "at", "by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "above", "below", "from", "up", "down", "in", "out",
	"on", "off", "over", "under", "again", "further", "onto", "upon", "within", "without",
	// adverbs and fillers
	"how", "just", "very", "too", "also", "only", "own", "same", "such", "there", "here",
	"please",
}

var englishIrregular = map[string]string{
	"children":   "child",
	"men":        "man",
	"women":      "woman",
	"feet":       "foot",
	"teeth":      "tooth",
	"mice":       "mouse",
	"geese":      "goose",
	"knives":     "knife",
	"wives":      "wife",
	"lives":      "life",
	"leaves":     "leaf",
	"halves":     "half",
	"shelves":    "shelf",
	"wolves":     "wolf",
	"thieves":    "thief",
	"movies":     "movie",
	"cookies":    "cookie",
	"calories":   "calorie",
	"pies":       "pie",
	"ties":       "tie",
	"lies":       "lie",
	"zombies":    "zombie",
	"selfies":    "selfie",
	"rookies":    "rookie",
	"caches":     "cache",
	"niches":     "niche",
	"aches":      "ache",
	"headaches":  "headache",
	"avalanches": "avalanche",
	"buses":      "bus",
	"goes":       "go",
	"analyses":   "analysis",
	"crises":     "crisis",
	"theses":     "thesis",
	"diagnoses":  "diagnosis",
}

var englishInvariant = []string{
	"is", "was", "has", "does", "this", "thus", "yes", "its", "his", "hers", "ours",
	"yours", "theirs", "news", "series", "species", "always", "perhaps", "sometimes",
	"towards", "whereas", "less", "unless", "across", "physics", "mathematics",
	"politics", "economics", "gas", "canvas", "lens", "means",
}

// TableLemmatizer reduces plural noun forms with an exception table and a few
// suffix rules. It does no part-of-speech disambiguation.
type TableLemmatizer struct {
	exceptions map[string]string
	invariant  map[string]struct{}
}

// NewTableLemmatizer builds a lemmatizer from irregular forms and words that must never change.
func NewTableLemmatizer(exceptions map[string]string, invariant []string) *TableLemmatizer {
	t := &TableLemmatizer{
		exceptions: make(map[string]string, len(exceptions)),
		invariant:  make(map[string]struct{}, len(invariant)),
	}
	for form, base := range exceptions {
		t.exceptions[form] = base
	}
	for _, word := range invariant {
		t.invariant[word] = struct{}{}
	}
	return t
}

// EnglishLemmatizer returns the default English table lemmatizer.
func EnglishLemmatizer() *TableLemmatizer {
	return NewTableLemmatizer(englishIrregular, englishInvariant)
}

// Lemma implements Lemmatizer.
func (t *TableLemmatizer) Lemma(word string) string {
	if base, ok := t.exceptions[word]; ok {
		return base
	}
	if _, ok := t.invariant[word]; ok {
		return word
	}
	if len(word) <= 3 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case hasAnySuffix(word, "sses", "shes", "ches", "xes", "zzes"):
		return word[:len(word)-2]
	case hasAnySuffix(word, "ss", "us", "is"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	}
	return word
}

func hasAnySuffix(word string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(word, suffix) {
			return true
		}
	}
	return false
}

var _ Lemmatizer = (*TableLemmatizer)(nil)
