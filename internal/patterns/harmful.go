package patterns

import "github.com/miradorstack/mirador-pathmine/internal/models"

// Harmful returns transitions supported by at least minSupportDead graphs of
// the negative cohort and at most maxSupportAlive graphs of the positive
// cohort. Both thresholds are absolute graph counts.
func Harmful(negative, positive models.Cohort, minSupportDead, maxSupportAlive int) models.TransitionSet {
	deadCounts := CountTransitions(negative.Traces(), CountSupport)
	aliveCounts := CountTransitions(positive.Traces(), CountSupport)

	harmful := make(models.TransitionSet)
	for t, dead := range deadCounts {
		if dead >= minSupportDead && aliveCounts[t] <= maxSupportAlive {
			harmful.Add(t)
		}
	}
	return harmful
}

// FrequentSupport returns transitions present in at least minSupport graphs.
func FrequentSupport(cohort models.Cohort, minSupport int) models.TransitionSet {
	frequent := make(models.TransitionSet)
	for t, count := range CountTransitions(cohort.Traces(), CountSupport) {
		if count >= minSupport {
			frequent.Add(t)
		}
	}
	return frequent
}
