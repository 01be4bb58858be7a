package lexicon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnglishFillerKeepsSubjectWords(t *testing.T) {
	lex := English()

	for _, word := range []string{"is", "the", "of", "how", "do", "can", "i", "a"} {
		require.True(t, lex.IsFiller(word), word)
	}
	for _, word := range []string{"what", "to", "capital", "register", "vote", "not"} {
		require.False(t, lex.IsFiller(word), word)
	}
}

func TestEnglishPunctuation(t *testing.T) {
	lex := English()
	for _, r := range ASCIIPunctuation {
		require.True(t, lex.IsPunctuation(r), string(r))
	}
	require.False(t, lex.IsPunctuation('a'))
	require.False(t, lex.IsPunctuation(' '))
	require.False(t, lex.IsPunctuation('’'))
}

func TestTableLemmatizer(t *testing.T) {
	lem := EnglishLemmatizer()
	cases := map[string]string{
		"votes":     "vote",
		"questions": "question",
		"policies":  "policy",
		"boxes":     "box",
		"classes":   "class",
		"matches":   "match",
		"children":  "child",
		"movies":    "movie",
		"status":    "status",
		"glass":     "glass",
		"analysis":  "analysis",
		"is":        "is",
		"was":       "was",
		"does":      "does",
		"news":      "news",
		"bus":       "bus",
		"france":    "france",
		"capital":   "capital",
	}
	for in, want := range cases {
		require.Equal(t, want, lem.Lemma(in), in)
	}
}

func TestWithFillerReturnsCopy(t *testing.T) {
	base := English()
	extended := base.WithFiller("Hello", " ")

	require.True(t, extended.IsFiller("hello"))
	require.False(t, base.IsFiller("hello"))

	trimmed := base.WithoutFiller("how")
	require.False(t, trimmed.IsFiller("how"))
	require.True(t, base.IsFiller("how"))
}

func TestLexiconWithoutLemmatizerKeepsWords(t *testing.T) {
	lex := New([]string{"the"}, "?", nil)
	require.Equal(t, "votes", lex.Lemma("votes"))
	require.True(t, lex.IsFiller("the"))
	require.True(t, lex.IsPunctuation('?'))
	require.False(t, lex.IsPunctuation('!'))
	require.ElementsMatch(t, []string{"the"}, lex.FillerWords())
}

func TestSnowballLemmatizer(t *testing.T) {
	lem, err := NewSnowballLemmatizer("english")
	require.NoError(t, err)
	require.Equal(t, "run", lem.Lemma("running"))

	swapped := English().WithLemmatizer(lem)
	require.Equal(t, "run", swapped.Lemma("running"))
	require.Equal(t, "running", English().Lemma("running"))

	_, err = NewSnowballLemmatizer("klingon")
	require.Error(t, err)
}

func TestBuild(t *testing.T) {
	lex, err := Build(Options{ExtraFiller: []string{"Weekend"}, KeepWords: []string{"how"}})
	require.NoError(t, err)
	require.True(t, lex.IsFiller("weekend"))
	require.False(t, lex.IsFiller("how"))
	require.Equal(t, "station", lex.Lemma("stations"))

	lex, err = Build(Options{Language: "english", Lemmatizer: "snowball"})
	require.NoError(t, err)
	require.Equal(t, "run", lex.Lemma("running"))

	_, err = Build(Options{Language: "french", ExtraFiller: []string{"le"}})
	require.Error(t, err)
	_, err = Build(Options{Language: "klingon", Lemmatizer: "snowball", ExtraFiller: []string{"qa"}})
	require.Error(t, err)
	_, err = Build(Options{Lemmatizer: "wordnet"})
	require.Error(t, err)
}

func TestBuildNonEnglishUsesOnlyConfiguredFiller(t *testing.T) {
	_, err := Build(Options{Language: "spanish", Lemmatizer: "snowball"})
	require.ErrorContains(t, err, "filler")

	lex, err := Build(Options{Language: "Spanish", Lemmatizer: "snowball", ExtraFiller: []string{"el", "la", "de"}})
	require.NoError(t, err)
	require.True(t, lex.IsFiller("la"))
	require.True(t, lex.IsFiller("de"))
	require.False(t, lex.IsFiller("the"))
	require.False(t, lex.IsFiller("is"))
	require.True(t, lex.IsPunctuation('?'))
}
