package ingest

import (
	"sort"
	"strconv"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

type episodeKey struct {
	entity string
	phase  string
}

// GroupEpisodes groups records by entity and phase and orders each group by
// step. Steps that parse as integers compare numerically. Episodes come back
// ordered by entity, then phase. Outcome and category are taken from the
// first record of each ordered group.
func GroupEpisodes(records []models.Record, labeler *Labeler) []models.Episode {
	groups := make(map[episodeKey][]models.Record)
	for _, rec := range records {
		key := episodeKey{entity: rec.EntityID, phase: rec.Phase}
		groups[key] = append(groups[key], rec)
	}

	keys := make([]episodeKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].entity != keys[j].entity {
			return keys[i].entity < keys[j].entity
		}
		return keys[i].phase < keys[j].phase
	})

	episodes := make([]models.Episode, 0, len(keys))
	for _, k := range keys {
		recs := groups[k]
		sort.SliceStable(recs, func(i, j int) bool { return stepLess(recs[i].Step, recs[j].Step) })

		seq := make(models.Sequence, 0, len(recs))
		for _, r := range recs {
			seq = append(seq, r.Code)
		}
		first := recs[0]
		episodes = append(episodes, models.Episode{
			EntityID: k.entity,
			Phase:    k.phase,
			Outcome:  first.Outcome,
			Category: labeler.Resolve(first.Category, first.Code),
			Sequence: seq,
		})
	}
	return episodes
}

func stepLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

// AllTraces returns one trace per episode, including episodes with no transitions.
func AllTraces(episodes []models.Episode) []models.Trace {
	traces := make([]models.Trace, 0, len(episodes))
	for _, e := range episodes {
		traces = append(traces, e.Trace())
	}
	return traces
}

// SplitByOutcome builds the positive (outcome 0) and negative cohorts for a
// phase; an empty phase selects every episode. Episodes without a transition
// or with an unknown outcome are skipped and counted.
func SplitByOutcome(episodes []models.Episode, phase string) (positive, negative models.Cohort, skipped int) {
	positive = models.NewCohort("positive")
	negative = models.NewCohort("negative")
	for _, e := range episodes {
		if phase != "" && e.Phase != phase {
			continue
		}
		if len(e.Sequence) < 2 || e.Outcome == OutcomeUnknown {
			skipped++
			continue
		}
		if e.Outcome == models.OutcomePositive {
			positive.Graphs = append(positive.Graphs, e.Graph())
		} else {
			negative.Graphs = append(negative.Graphs, e.Graph())
		}
	}
	return positive, negative, skipped
}

// ByCategory builds the cohort of episodes labelled with category.
func ByCategory(episodes []models.Episode, category string) models.Cohort {
	cohort := models.NewCohort(category)
	for _, e := range episodes {
		if e.Category != category || len(e.Sequence) < 2 {
			continue
		}
		cohort.Graphs = append(cohort.Graphs, e.Graph())
	}
	return cohort
}
