package intent

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Mode selects how the resolver removes duplicate identifiers.
type Mode string

const (
	// ModeSweep runs a single exhaustive all-pairs sweep.
	ModeSweep Mode = "sweep"
	// ModeStable repeats the sweep until a pass changes nothing or the pass limit is hit.
	ModeStable Mode = "stable"
	// ModeCounter suffixes repeated identifiers with their occurrence count.
	ModeCounter Mode = "counter"
)

// ParseMode maps a configuration value to a Mode. Empty selects ModeStable.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeStable:
		return ModeStable, nil
	case ModeSweep:
		return ModeSweep, nil
	case ModeCounter:
		return ModeCounter, nil
	default:
		return "", fmt.Errorf("unknown resolver mode %q", raw)
	}
}

// Source records which derivation produced a row's final identifier.
type Source string

const (
	SourceInitial Source = "initial"
	SourceWide    Source = "wide"
	SourceCounter Source = "counter"
)

// Resolution is the corrected identifier sequence plus sweep statistics.
type Resolution struct {
	Intents       []string
	Sources       []Source
	Collisions    int
	Regenerations int
	Passes        int
}

// Resolver corrects identifier collisions across a whole corpus.
type Resolver struct {
	deriver   *Deriver
	mode      Mode
	maxPasses int
}

// NewResolver builds a Resolver. maxPasses only applies to ModeStable.
func NewResolver(deriver *Deriver, mode Mode, maxPasses int) *Resolver {
	if maxPasses <= 0 {
		maxPasses = 1
	}
	return &Resolver{deriver: deriver, mode: mode, maxPasses: maxPasses}
}

// Resolve returns a corrected copy of identifiers; questions[i] is the source
// text of identifiers[i]. Neither input is modified.
func (r *Resolver) Resolve(identifiers, questions []string) (Resolution, error) {
	if len(identifiers) != len(questions) {
		return Resolution{}, fmt.Errorf("resolve: %d identifiers for %d questions", len(identifiers), len(questions))
	}
	res := Resolution{
		Intents: slices.Clone(identifiers),
		Sources: make([]Source, len(identifiers)),
	}
	for i := range res.Sources {
		res.Sources[i] = SourceInitial
	}

	switch r.mode {
	case ModeCounter:
		res.Passes = 1
		disambiguate(&res)
		return res, nil
	case ModeSweep:
		res.Passes = 1
		if _, err := r.sweep(&res, questions); err != nil {
			return Resolution{}, err
		}
		return res, nil
	default:
		for res.Passes < r.maxPasses {
			res.Passes++
			changed, err := r.sweep(&res, questions)
			if err != nil {
				return Resolution{}, err
			}
			if !changed {
				break
			}
		}
		return res, nil
	}
}

// sweep compares every ordered row pair once. Both rows of a colliding pair
// are regenerated immediately, so later comparisons see the new values.
func (r *Resolver) sweep(res *Resolution, questions []string) (bool, error) {
	ids := res.Intents
	changed := false
	for i := range ids {
		for j := range ids {
			if i == j || ids[i] != ids[j] {
				continue
			}
			res.Collisions++
			for _, row := range [2]int{j, i} {
				wide, err := r.deriver.Wide(questions[row])
				if err != nil {
					return changed, attachRow(err, row)
				}
				res.Regenerations++
				if wide != ids[row] {
					changed = true
				}
				ids[row] = wide
				res.Sources[row] = SourceWide
			}
		}
	}
	return changed, nil
}

// occurrences tracks identifiers handed out during one resolution. next holds
// the next suffix to try per base identifier; pending counts the initial
// identifiers of rows not yet visited so a suffix never takes one of them.
type occurrences struct {
	claimed map[string]struct{}
	next    map[string]int
	pending map[string]int
}

func newOccurrences(ids []string) *occurrences {
	o := &occurrences{
		claimed: make(map[string]struct{}, len(ids)),
		next:    make(map[string]int),
		pending: make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		o.pending[id]++
	}
	return o
}

func (o *occurrences) claim(id string) string {
	o.pending[id]--
	if _, taken := o.claimed[id]; !taken {
		o.claimed[id] = struct{}{}
		return id
	}
	n := max(o.next[id], 1)
	for {
		candidate := id + strconv.Itoa(n)
		_, taken := o.claimed[candidate]
		if !taken && o.pending[candidate] == 0 {
			o.next[id] = n + 1
			o.claimed[candidate] = struct{}{}
			return candidate
		}
		n++
	}
}

func disambiguate(res *Resolution) {
	acc := newOccurrences(res.Intents)
	for row, id := range res.Intents {
		claimed := acc.claim(id)
		if claimed == id {
			continue
		}
		res.Collisions++
		res.Regenerations++
		res.Intents[row] = claimed
		res.Sources[row] = SourceCounter
	}
}
