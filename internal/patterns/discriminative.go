package patterns

import "github.com/miradorstack/mirador-pathmine/internal/models"

// Discrimination holds the result of a two-cohort comparison.
type Discrimination struct {
	// Do holds transitions frequent in the reference cohort and rare in the comparison cohort.
	Do models.TransitionSet
	// Avoid holds transitions frequent in the comparison cohort.
	Avoid models.TransitionSet
	// Degenerate is set when either cohort was empty and no ratio could be formed.
	Degenerate bool

	ObservedInReference int
	FrequentInReference int
}

// Discriminate compares a reference cohort with a comparison cohort using
// per-entity support fractions. A transition joins Do when its reference
// fraction is at least alpha and its comparison fraction is at most beta;
// it joins Avoid when its comparison fraction is at least beta. Thresholds
// are inclusive.
func Discriminate(reference, comparison models.Cohort, alpha, beta float64) Discrimination {
	result := Discrimination{
		Do:    make(models.TransitionSet),
		Avoid: make(models.TransitionSet),
	}
	n1, n2 := reference.Len(), comparison.Len()
	if n1 == 0 || n2 == 0 {
		result.Degenerate = true
		return result
	}

	refCounts := CountTransitions(reference.Traces(), CountSupport)
	cmpCounts := CountTransitions(comparison.Traces(), CountSupport)
	result.ObservedInReference = len(refCounts)

	for t, count := range refCounts {
		if SupportFraction(count, n1) < alpha {
			continue
		}
		result.FrequentInReference++
		if SupportFraction(cmpCounts[t], n2) <= beta {
			result.Do.Add(t)
		}
	}

	for t, count := range cmpCounts {
		if SupportFraction(count, n2) >= beta {
			result.Avoid.Add(t)
		}
	}
	return result
}
