package engine

import "github.com/miradorstack/mirador-pathmine/internal/models"

// recommendations turns a phase report into exported do/avoid rows.
func recommendations(phase string, report models.PhaseReport) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(report.Do)+len(report.Avoid))
	out = appendKind(out, phase, models.RecommendationDo, report.Do)
	out = appendKind(out, phase, models.RecommendationAvoid, report.Avoid)
	return out
}

func appendKind(existing []models.Recommendation, phase string, kind models.RecommendationKind, transitions []models.Transition) []models.Recommendation {
	seen := make(map[models.Transition]struct{}, len(transitions))
	for _, t := range transitions {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		existing = append(existing, models.Recommendation{Phase: phase, Kind: kind, Transition: t})
	}
	return existing
}
