package intent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-intents/internal/domain/lexicon"
)

// The first row's wide form equals the second row's initial form, so a
// correction made late in the sweep collides with a row visited earlier.
var lateCollisionCorpus = []string{
	"Where are, polling stations for",
	"Where are polling stations",
	"Where were the polling stations?",
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	engine, err := NewEngine(lexicon.English(), cfg)
	require.NoError(t, err)
	return engine
}

func initialIDs(t *testing.T, d *Deriver, questions []string) []string {
	t.Helper()
	ids := make([]string, len(questions))
	for i, q := range questions {
		id, err := d.Initial(q)
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw  string
		want Mode
	}{
		{"", ModeStable},
		{"stable", ModeStable},
		{" Sweep ", ModeSweep},
		{"counter", ModeCounter},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.raw)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
	_, err := ParseMode("fixpoint")
	require.Error(t, err)
}

func TestResolveCollidingPairUsesWideFallback(t *testing.T) {
	d := newTestDeriver(t)
	questions := []string{
		"How do I register to vote?",
		"How can I register to vote?",
		"What is the capital of France?",
	}
	ids := initialIDs(t, d, questions)
	require.Equal(t, []string{"register_to_vote", "register_to_vote", "what_capital_france"}, ids)

	res, err := NewResolver(d, ModeSweep, 1).Resolve(ids, questions)
	require.NoError(t, err)
	require.Equal(t, []string{"how_do_i_register_to", "how_can_i_register_to", "what_capital_france"}, res.Intents)
	require.Equal(t, []Source{SourceWide, SourceWide, SourceInitial}, res.Sources)
	require.Equal(t, 1, res.Collisions)
	require.Equal(t, 2, res.Regenerations)
	require.Equal(t, 1, res.Passes)

	// inputs are left untouched
	require.Equal(t, "register_to_vote", ids[0])
}

func TestResolveSingleSweepLeavesLateCollision(t *testing.T) {
	d := newTestDeriver(t)
	ids := initialIDs(t, d, lateCollisionCorpus)
	require.Equal(t, []string{"where_are_polling_station", "where_polling_station", "where_polling_station"}, ids)

	res, err := NewResolver(d, ModeSweep, 8).Resolve(ids, lateCollisionCorpus)
	require.NoError(t, err)
	require.Equal(t, []string{"where_are_polling_station", "where_are_polling_station", "where_were_the_polling_station"}, res.Intents)

	var dup *DuplicateIdentifierError
	require.ErrorAs(t, Validate(res.Intents), &dup)
	require.Equal(t, "where_are_polling_station", dup.Intent)
	require.Equal(t, 0, dup.FirstRow)
	require.Equal(t, 1, dup.SecondRow)
}

func TestResolveStableRepeatsUntilNoChange(t *testing.T) {
	d := newTestDeriver(t)
	ids := initialIDs(t, d, lateCollisionCorpus)

	res, err := NewResolver(d, ModeStable, 8).Resolve(ids, lateCollisionCorpus)
	require.NoError(t, err)
	require.Equal(t, []string{
		"where_are_polling_station_for",
		"where_are_polling_station",
		"where_were_the_polling_station",
	}, res.Intents)
	require.Equal(t, 3, res.Passes)
	require.Equal(t, 2, res.Collisions)
	require.Equal(t, 4, res.Regenerations)
	require.NoError(t, Validate(res.Intents))
}

func TestResolveStableRespectsPassLimit(t *testing.T) {
	d := newTestDeriver(t)
	ids := initialIDs(t, d, lateCollisionCorpus)

	res, err := NewResolver(d, ModeStable, 1).Resolve(ids, lateCollisionCorpus)
	require.NoError(t, err)
	require.Equal(t, 1, res.Passes)
	require.Error(t, Validate(res.Intents))
}

func TestResolveCounterSuffixesRepeats(t *testing.T) {
	d := newTestDeriver(t)
	questions := []string{
		"How do I register to vote?",
		"How can I register to vote?",
		"Register to vote",
	}
	ids := initialIDs(t, d, questions)

	res, err := NewResolver(d, ModeCounter, 0).Resolve(ids, questions)
	require.NoError(t, err)
	require.Equal(t, []string{"register_to_vote", "register_to_vote1", "register_to_vote2"}, res.Intents)
	require.Equal(t, []Source{SourceInitial, SourceCounter, SourceCounter}, res.Sources)
	require.Equal(t, 2, res.Collisions)
}

func TestResolveCounterSkipsIdentifiersAlreadyInUse(t *testing.T) {
	d := newTestDeriver(t)
	questions := []string{"a b", "a b", "a b1", "a b2", "a b"}
	ids := []string{"a_b", "a_b", "a_b1", "a_b2", "a_b"}

	res, err := NewResolver(d, ModeCounter, 0).Resolve(ids, questions)
	require.NoError(t, err)
	require.Equal(t, []string{"a_b", "a_b3", "a_b1", "a_b2", "a_b4"}, res.Intents)
	require.Equal(t, []Source{SourceInitial, SourceCounter, SourceInitial, SourceInitial, SourceCounter}, res.Sources)
	require.NoError(t, Validate(res.Intents))

	// a suffix handed out earlier forces a later natural identifier onward
	res, err = NewResolver(d, ModeCounter, 0).Resolve([]string{"x", "x", "x1", "x1"}, []string{"x", "x", "x1", "x1"})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "x2", "x1", "x11"}, res.Intents)
	require.NoError(t, Validate(res.Intents))
}

func TestResolveAccumulatorIsPerCall(t *testing.T) {
	d := newTestDeriver(t)
	r := NewResolver(d, ModeCounter, 0)
	questions := []string{"Opening hours?", "Opening hours!"}
	ids := initialIDs(t, d, questions)

	first, err := r.Resolve(ids, questions)
	require.NoError(t, err)
	second, err := r.Resolve(ids, questions)
	require.NoError(t, err)
	require.Equal(t, first.Intents, second.Intents)
	require.Equal(t, []string{"opening_hour", "opening_hour1"}, second.Intents)
}

func TestResolveLengthMismatch(t *testing.T) {
	d := newTestDeriver(t)
	_, err := NewResolver(d, ModeSweep, 1).Resolve([]string{"a_b"}, nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(nil))
	require.NoError(t, Validate([]string{"a_b", "b_c"}))

	var dup *DuplicateIdentifierError
	require.ErrorAs(t, Validate([]string{"a_b", "c_d", "a_b"}), &dup)
	require.Equal(t, "a_b", dup.Intent)
	require.Equal(t, 0, dup.FirstRow)
	require.Equal(t, 2, dup.SecondRow)
	require.Contains(t, dup.Error(), "rows 0 and 2")
}

func TestIsWellFormed(t *testing.T) {
	for _, id := range []string{"what_capital_france", "faq1", "a_b2_c"} {
		require.True(t, IsWellFormed(id), id)
	}
	for _, id := range []string{"", "_a", "a_", "a__b", "A_b", "a-b", "a b"} {
		require.False(t, IsWellFormed(id), id)
	}
}
