package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Path is a bounded walk through a cohort graph that contextualises a
// harmful transition.
type Path []Code

// Key identifies a path by its full ordered node sequence. Each code is
// length-prefixed, so no code content can make two paths collide.
func (p Path) Key() string {
	var b strings.Builder
	for _, c := range p {
		b.WriteString(strconv.Itoa(len(c)))
		b.WriteByte(':')
		b.WriteString(string(c))
	}
	return b.String()
}

// Hops returns the number of edges in the path.
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = string(c)
	}
	return strings.Join(parts, " -> ")
}

// Triple is a 3-code chain A -> B -> C grown from a frequent transition.
type Triple [3]Code

func (t Triple) String() string {
	return string(t[0]) + " -> " + string(t[1]) + " -> " + string(t[2])
}

// TripleSet is a deduplicated set of triples.
type TripleSet map[Triple]struct{}

// Add inserts t into the set.
func (s TripleSet) Add(t Triple) {
	s[t] = struct{}{}
}

// Has reports membership.
func (s TripleSet) Has(t Triple) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the triples in lexical order.
func (s TripleSet) Sorted() []Triple {
	out := make([]Triple, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		for k := 0; k < 3; k++ {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}

// RecommendationKind separates recovery-promoting from harmful transitions.
type RecommendationKind string

const (
	RecommendationDo    RecommendationKind = "do"
	RecommendationAvoid RecommendationKind = "avoid"
)

// Recommendation is one exported phase-wise do/avoid row.
type Recommendation struct {
	Phase      string             `json:"phase"`
	Kind       RecommendationKind `json:"type"`
	Transition Transition         `json:"edge"`
}

// MiningReport summarises whole-dataset frequent mining.
type MiningReport struct {
	Label      string       `json:"label"`
	Threshold  int          `json:"threshold"`
	Entities   int          `json:"entities"`
	Frequent   []Transition `json:"frequent"`
	Extensions []Triple     `json:"extensions"`
	Components [][]Code     `json:"components"`
}

// PhaseReport captures the comparative analysis of one phase.
type PhaseReport struct {
	Phase           string       `json:"phase"`
	Positive        int          `json:"positive"`
	Negative        int          `json:"negative"`
	Degenerate      bool         `json:"degenerate"`
	Do              []Transition `json:"do"`
	Avoid           []Transition `json:"avoid"`
	Harmful         []Transition `json:"harmful"`
	Paths           []Path       `json:"paths"`
	Accuracy        float64      `json:"accuracy"`
	VacuousPatterns int          `json:"vacuousPatterns"`
}

// ComparisonReport captures a category-versus-category discriminative run.
type ComparisonReport struct {
	Reference  string       `json:"reference"`
	Comparison string       `json:"comparison"`
	Degenerate bool         `json:"degenerate"`
	Do         []Transition `json:"do"`
	Avoid      []Transition `json:"avoid"`
}

// Report is the full output of one analysis run.
type Report struct {
	RunID           string             `json:"runId"`
	GeneratedAt     time.Time          `json:"generatedAt"`
	Mining          MiningReport       `json:"mining"`
	Phases          []PhaseReport      `json:"phases"`
	Comparisons     []ComparisonReport `json:"comparisons,omitempty"`
	Recommendations []Recommendation   `json:"recommendations"`
}
