package patterns

import "github.com/miradorstack/mirador-pathmine/internal/models"

// CountMode selects how repeated transitions contribute to a count.
type CountMode int

const (
	// CountOccurrence adds one per occurrence, so repeats within one entity
	// count multiple times.
	CountOccurrence CountMode = iota
	// CountSupport adds one per entity containing the transition at least once.
	CountSupport
)

func (m CountMode) String() string {
	switch m {
	case CountSupport:
		return "support"
	default:
		return "occurrence"
	}
}

// CountTransitions tallies transitions across per-entity traces under mode.
func CountTransitions(traces []models.Trace, mode CountMode) map[models.Transition]int {
	counts := make(map[models.Transition]int)
	for _, trace := range traces {
		if mode == CountSupport {
			seen := make(map[models.Transition]struct{}, len(trace))
			for _, t := range trace {
				if _, ok := seen[t]; ok {
					continue
				}
				seen[t] = struct{}{}
				counts[t]++
			}
			continue
		}
		for _, t := range trace {
			counts[t]++
		}
	}
	return counts
}

// SupportFraction returns count/total, or zero when total is zero.
func SupportFraction(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
