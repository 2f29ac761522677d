package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Code is an opaque category label (for example an ICD diagnosis code).
// Codes compare by their string form only.
type Code string

// CanonicalCode coerces an arbitrary value into its string form so values
// that differ only in representation (42 vs "42") compare equal. Floats are
// written without exponents, and json.Number keeps its literal via String.
// No case or whitespace folding is applied; see CodeNormalization for
// ingest-side options.
func CanonicalCode(v any) Code {
	switch c := v.(type) {
	case Code:
		return c
	case string:
		return Code(c)
	case float64:
		return Code(strconv.FormatFloat(c, 'f', -1, 64))
	case float32:
		return Code(strconv.FormatFloat(float64(c), 'f', -1, 32))
	case fmt.Stringer:
		return Code(c.String())
	default:
		return Code(fmt.Sprint(v))
	}
}

// CodeNormalization selects optional folding applied to raw codes at ingest.
type CodeNormalization string

const (
	NormalizeNone      CodeNormalization = "none"
	NormalizeTrim      CodeNormalization = "trim"
	NormalizeTrimUpper CodeNormalization = "trim-upper"
)

// Apply normalises a raw code string.
func (n CodeNormalization) Apply(raw string) Code {
	switch n {
	case NormalizeTrim:
		return Code(strings.TrimSpace(raw))
	case NormalizeTrimUpper:
		return Code(strings.ToUpper(strings.TrimSpace(raw)))
	default:
		return Code(raw)
	}
}

// Sequence is the ordered list of codes recorded for one entity episode.
type Sequence []Code

// Transition is a directed step between two consecutive codes.
type Transition struct {
	From Code `json:"from"`
	To   Code `json:"to"`
}

// T is shorthand for building a Transition from any two values.
func T(from, to any) Transition {
	return Transition{From: CanonicalCode(from), To: CanonicalCode(to)}
}

func (t Transition) String() string {
	return string(t.From) + " -> " + string(t.To)
}

// Reverse returns the transition with its endpoints swapped.
func (t Transition) Reverse() Transition {
	return Transition{From: t.To, To: t.From}
}

// Trace lists the transitions one entity took, in order and with repeats.
type Trace []Transition

// TraceOf derives the consecutive-step transitions of a sequence.
func TraceOf(seq Sequence) Trace {
	if len(seq) < 2 {
		return Trace{}
	}
	trace := make(Trace, 0, len(seq)-1)
	for i := 0; i < len(seq)-1; i++ {
		trace = append(trace, Transition{From: seq[i], To: seq[i+1]})
	}
	return trace
}

// Codes rebuilds the full code sequence a trace walks through.
func (t Trace) Codes() Sequence {
	if len(t) == 0 {
		return Sequence{}
	}
	seq := make(Sequence, 0, len(t)+1)
	for _, tr := range t {
		seq = append(seq, tr.From)
	}
	return append(seq, t[len(t)-1].To)
}

// Contains reports whether the trace takes the given transition at least once.
func (t Trace) Contains(target Transition) bool {
	for _, tr := range t {
		if tr == target {
			return true
		}
	}
	return false
}

// TransitionSet is a deduplicated collection of transitions. Conceptually it
// is a graph: nodes are the union of endpoints, edges are the members.
type TransitionSet map[Transition]struct{}

// NewTransitionSet builds a set from the supplied transitions.
func NewTransitionSet(items ...Transition) TransitionSet {
	set := make(TransitionSet, len(items))
	for _, t := range items {
		set[t] = struct{}{}
	}
	return set
}

// Add inserts t into the set.
func (s TransitionSet) Add(t Transition) {
	s[t] = struct{}{}
}

// Has reports membership.
func (s TransitionSet) Has(t Transition) bool {
	_, ok := s[t]
	return ok
}

// Len returns the number of distinct transitions.
func (s TransitionSet) Len() int {
	return len(s)
}

// Sorted returns the members ordered by From, then To.
func (s TransitionSet) Sorted() []Transition {
	out := make([]Transition, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	SortTransitions(out)
	return out
}

// Nodes returns the sorted union of all endpoints.
func (s TransitionSet) Nodes() []Code {
	seen := make(map[Code]struct{}, len(s)*2)
	for t := range s {
		seen[t.From] = struct{}{}
		seen[t.To] = struct{}{}
	}
	nodes := make([]Code, 0, len(seen))
	for c := range seen {
		nodes = append(nodes, c)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Union returns a new set holding the members of both sets.
func (s TransitionSet) Union(other TransitionSet) TransitionSet {
	out := make(TransitionSet, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

// SubsetOf reports whether every member of s is in other.
func (s TransitionSet) SubsetOf(other TransitionSet) bool {
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold exactly the same transitions.
func (s TransitionSet) Equal(other TransitionSet) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}

// SortTransitions orders transitions by From, then To.
func SortTransitions(ts []Transition) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].From != ts[j].From {
			return ts[i].From < ts[j].From
		}
		return ts[i].To < ts[j].To
	})
}
