package patterns

import (
	"fmt"
	"strings"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// Containment selects how a candidate triple is matched against a trace.
type Containment string

const (
	// ContainSubstring concatenates the trace's code sequence into one string
	// and looks for the concatenated triple as a substring. One code's text
	// being a substring of another's can produce false positives.
	ContainSubstring Containment = "substring"
	// ContainWindow requires the triple to equal three consecutive codes.
	ContainWindow Containment = "window"
)

// ParseContainment maps a config value onto a Containment mode.
func ParseContainment(v string) (Containment, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", string(ContainSubstring):
		return ContainSubstring, nil
	case string(ContainWindow):
		return ContainWindow, nil
	default:
		return "", fmt.Errorf("unknown containment mode %q", v)
	}
}

// Extend grows seed (A,B) by one hop into candidate triples (A,B,C), using
// every other transition (B,C) found in traces that take the seed, and keeps
// the candidates matched by at least tau traces.
func Extend(seed models.Transition, traces []models.Trace, tau int, mode Containment) models.TripleSet {
	if tau < 1 {
		tau = 1
	}
	candidates := make(models.TripleSet)
	for _, trace := range traces {
		if !trace.Contains(seed) {
			continue
		}
		for _, t := range trace {
			if t == seed {
				continue
			}
			if t.From == seed.To {
				candidates.Add(models.Triple{seed.From, seed.To, t.To})
			}
		}
	}

	out := make(models.TripleSet)
	if len(candidates) == 0 {
		return out
	}

	matchers := make([]func(models.Triple) bool, 0, len(traces))
	for _, trace := range traces {
		matchers = append(matchers, newMatcher(trace.Codes(), mode))
	}
	for cand := range candidates {
		count := 0
		for _, match := range matchers {
			if match(cand) {
				count++
			}
		}
		if count >= tau {
			out.Add(cand)
		}
	}
	return out
}

// ExtendAll unions Extend over every seed in the frequent set.
func ExtendAll(seeds models.TransitionSet, traces []models.Trace, tau int, mode Containment) models.TripleSet {
	out := make(models.TripleSet)
	for _, seed := range seeds.Sorted() {
		for t := range Extend(seed, traces, tau, mode) {
			out.Add(t)
		}
	}
	return out
}

func newMatcher(seq models.Sequence, mode Containment) func(models.Triple) bool {
	if mode == ContainWindow {
		return func(t models.Triple) bool {
			for i := 0; i+2 < len(seq); i++ {
				if seq[i] == t[0] && seq[i+1] == t[1] && seq[i+2] == t[2] {
					return true
				}
			}
			return false
		}
	}
	var b strings.Builder
	for _, c := range seq {
		b.WriteString(string(c))
	}
	joined := b.String()
	return func(t models.Triple) bool {
		return strings.Contains(joined, string(t[0])+string(t[1])+string(t[2]))
	}
}
