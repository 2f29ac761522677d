package patterns

import "github.com/miradorstack/mirador-pathmine/internal/models"

// AccuracyResult describes how well a pattern set separates two cohorts.
type AccuracyResult struct {
	Score           float64
	CorrectPositive int
	CorrectNegative int
	Total           int
	// VacuousPatterns counts zero-edge patterns, which match every positive graph.
	VacuousPatterns int
}

// Accuracy scores candidate patterns against positive and negative cohorts.
// A positive graph is correct when some pattern is fully contained in it; a
// negative graph is correct when some pattern has a transition missing from
// it. The score is zero when both cohorts are empty.
func Accuracy(candidates []models.TransitionSet, positive, negative models.Cohort) AccuracyResult {
	result := AccuracyResult{Total: positive.Len() + negative.Len()}
	for _, p := range candidates {
		if p.Len() == 0 {
			result.VacuousPatterns++
		}
	}
	if result.Total == 0 {
		return result
	}

	for _, g := range positive.Graphs {
		for _, p := range candidates {
			if p.SubsetOf(g.EdgeSet()) {
				result.CorrectPositive++
				break
			}
		}
	}
	for _, g := range negative.Graphs {
		for _, p := range candidates {
			if !p.SubsetOf(g.EdgeSet()) {
				result.CorrectNegative++
				break
			}
		}
	}

	result.Score = float64(result.CorrectPositive+result.CorrectNegative) / float64(result.Total)
	return result
}
