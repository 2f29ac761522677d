package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

func cohort(label string, seqs ...models.Sequence) models.Cohort {
	graphs := make([]*models.Graph, 0, len(seqs))
	for i, s := range seqs {
		graphs = append(graphs, models.GraphOf(label+"-"+string(rune('a'+i)), s))
	}
	return models.NewCohort(label, graphs...)
}

func repeat(n int, s models.Sequence) []models.Sequence {
	out := make([]models.Sequence, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestDiscriminateScenario(t *testing.T) {
	reference := cohort("alive", repeat(10, seq("X", "Y"))...)
	comparisonSeqs := append([]models.Sequence{seq("X", "Y")}, repeat(9, seq("Z", "W"))...)
	comparison := cohort("dead", comparisonSeqs...)

	result := Discriminate(reference, comparison, 0.5, 0.5)
	require.False(t, result.Degenerate)
	assert.True(t, result.Do.Has(models.T("X", "Y")))
	assert.True(t, result.Avoid.Has(models.T("Z", "W")))
	assert.False(t, result.Avoid.Has(models.T("X", "Y")))
	assert.Equal(t, 1, result.FrequentInReference)
}

func TestDiscriminateInclusiveThresholds(t *testing.T) {
	reference := cohort("ref", seq("A", "B"), seq("C", "D"))
	comparison := cohort("cmp", seq("A", "B"), seq("E", "F"))

	result := Discriminate(reference, comparison, 0.5, 0.5)
	assert.True(t, result.Do.Has(models.T("A", "B")), "0.5 >= alpha and 0.5 <= beta")
	assert.True(t, result.Avoid.Has(models.T("A", "B")), "0.5 >= beta")
	assert.True(t, result.Avoid.Has(models.T("E", "F")))
}

func TestDiscriminateZeroAlpha(t *testing.T) {
	reference := cohort("ref", seq("A", "B", "C"), seq("A", "B"), seq("C", "D"))
	comparison := cohort("cmp", seq("B", "C"), seq("B", "C"), seq("A", "B"), seq("Q", "R"))
	beta := 0.3

	result := Discriminate(reference, comparison, 0, beta)

	refTransitions := CountTransitions(reference.Traces(), CountSupport)
	cmpSupport := CountTransitions(comparison.Traces(), CountSupport)
	expected := make(models.TransitionSet)
	for tr := range refTransitions {
		if SupportFraction(cmpSupport[tr], comparison.Len()) <= beta {
			expected.Add(tr)
		}
	}
	assert.True(t, result.Do.Equal(expected))
	assert.True(t, result.Do.Has(models.T("C", "D")))
	assert.True(t, result.Do.Has(models.T("A", "B")))
	assert.False(t, result.Do.Has(models.T("B", "C")))
}

func TestDiscriminateCountsSupportNotOccurrence(t *testing.T) {
	reference := cohort("ref", seq("A", "B", "A", "B", "A", "B"), seq("C", "D"), seq("C", "D"), seq("C", "D"))
	comparison := cohort("cmp", seq("Q", "R"))

	result := Discriminate(reference, comparison, 0.5, 1)
	assert.False(t, result.Do.Has(models.T("A", "B")), "repeats within one graph count once")
	assert.True(t, result.Do.Has(models.T("C", "D")))
}

func TestDiscriminateEmptyCohorts(t *testing.T) {
	full := cohort("full", seq("A", "B"))
	empty := models.NewCohort("empty")

	for _, tc := range []struct {
		name string
		ref  models.Cohort
		cmp  models.Cohort
	}{
		{"empty reference", empty, full},
		{"empty comparison", full, empty},
		{"both empty", empty, empty},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result := Discriminate(tc.ref, tc.cmp, 0.1, 0.5)
			assert.True(t, result.Degenerate)
			assert.Equal(t, 0, result.Do.Len())
			assert.Equal(t, 0, result.Avoid.Len())
		})
	}
}

func TestHarmfulScenario(t *testing.T) {
	dead := cohort("dead",
		seq("E1", "E2", "F1", "F2"),
		seq("E1", "E2", "F1", "F2"),
		seq("E1", "E2", "F1", "F2"),
		seq("Q", "R"),
		seq("S", "T"),
	)
	alive := cohort("alive", seq("F1", "F2"), seq("U", "V"))

	harmful := Harmful(dead, alive, 3, 0)
	assert.True(t, harmful.Has(models.T("E1", "E2")))
	assert.False(t, harmful.Has(models.T("F1", "F2")), "present in one alive graph")
	assert.False(t, harmful.Has(models.T("Q", "R")), "below dead support")
}

func TestHarmfulUsesAbsoluteCounts(t *testing.T) {
	dead := cohort("dead", repeat(20, seq("A", "B"))...)
	alive := cohort("alive", append(repeat(2, seq("A", "B")), repeat(98, seq("C", "D"))...)...)

	assert.True(t, Harmful(dead, alive, 10, 2).Has(models.T("A", "B")))
	assert.False(t, Harmful(dead, alive, 10, 1).Has(models.T("A", "B")))
	assert.False(t, Harmful(dead, alive, 21, 2).Has(models.T("A", "B")))
}

func TestFrequentSupport(t *testing.T) {
	c := cohort("c", seq("A", "B", "A", "B"), seq("A", "B"), seq("B", "C"))
	got := FrequentSupport(c, 2)
	assert.True(t, got.Equal(models.NewTransitionSet(models.T("A", "B"))))
}
