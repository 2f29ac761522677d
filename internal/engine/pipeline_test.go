package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradorstack/mirador-pathmine/internal/config"
	"github.com/miradorstack/mirador-pathmine/internal/models"
	"github.com/miradorstack/mirador-pathmine/internal/patterns"
)

func episode(entity, phase string, outcome int, category string, codes ...models.Code) models.Episode {
	return models.Episode{
		EntityID: entity,
		Phase:    phase,
		Outcome:  outcome,
		Category: category,
		Sequence: models.Sequence(codes),
	}
}

func fixtureEpisodes() []models.Episode {
	return []models.Episode{
		episode("1", "early", 0, "urgent", "A", "B", "C"),
		episode("2", "early", 0, "chronic", "A", "B"),
		episode("3", "early", 1, "urgent", "X", "Y", "Z"),
		episode("4", "early", 1, "chronic", "X", "Y"),
		episode("5", "late", 0, "other", "A", "B"),
	}
}

func fixtureThresholds() Thresholds {
	return Thresholds{
		Mining:          patterns.MiningOptions{Threshold: 2, Extend: true, Containment: patterns.ContainSubstring},
		Phases:          []string{"early", "late"},
		Alpha:           0.5,
		Beta:            0.5,
		MinSupportDead:  2,
		MaxSupportAlive: 0,
		MaxHops:         2,
		Comparisons: []config.Comparison{
			{Reference: "urgent", Comparison: "chronic"},
			{Reference: "urgent", Comparison: "unknown"},
		},
	}
}

func TestPipelineRun(t *testing.T) {
	pipeline := NewPipeline(nil, nil, fixtureThresholds())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pipeline.now = func() time.Time { return fixed }

	report, err := pipeline.Run(context.Background(), fixtureEpisodes())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, []models.Transition{models.T("A", "B"), models.T("X", "Y")}, report.Mining.Frequent)
	assert.Empty(t, report.Mining.Extensions)
	assert.Equal(t, [][]models.Code{{"A", "B"}, {"X", "Y"}}, report.Mining.Components)

	require.Len(t, report.Phases, 2)
	early := report.Phases[0]
	assert.False(t, early.Degenerate)
	assert.Equal(t, []models.Transition{models.T("A", "B"), models.T("B", "C")}, early.Do)
	assert.Equal(t, []models.Transition{models.T("X", "Y"), models.T("Y", "Z")}, early.Avoid)
	assert.Equal(t, []models.Transition{models.T("X", "Y")}, early.Harmful)
	assert.Equal(t, []models.Path{{"X", "Y"}, {"X", "Y", "Z"}}, early.Paths)
	assert.InDelta(t, 0.75, early.Accuracy, 1e-9)

	late := report.Phases[1]
	assert.True(t, late.Degenerate)
	assert.Empty(t, late.Do)
	assert.Equal(t, 1, late.VacuousPatterns)
	assert.InDelta(t, 1.0, late.Accuracy, 1e-9)

	require.Len(t, report.Recommendations, 4)
	assert.Equal(t, models.Recommendation{Phase: "early", Kind: models.RecommendationDo, Transition: models.T("A", "B")}, report.Recommendations[0])
	assert.Equal(t, models.RecommendationAvoid, report.Recommendations[3].Kind)

	require.Len(t, report.Comparisons, 2)
	assert.False(t, report.Comparisons[0].Degenerate)
	assert.Len(t, report.Comparisons[0].Do, 4)
	assert.True(t, report.Comparisons[1].Degenerate)
}

func TestPipelineRunIsDeterministic(t *testing.T) {
	first, err := NewPipeline(nil, nil, fixtureThresholds()).Run(context.Background(), fixtureEpisodes())
	require.NoError(t, err)
	second, err := NewPipeline(nil, nil, fixtureThresholds()).Run(context.Background(), fixtureEpisodes())
	require.NoError(t, err)

	assert.Equal(t, first.Phases, second.Phases)
	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestPipelineCancelledReturnsNoReport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	th := fixtureThresholds()
	th.Mining.Extend = false
	report, err := NewPipeline(nil, nil, th).Run(ctx, fixtureEpisodes())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)

	th.Mining.Extend = true
	report, err = NewPipeline(nil, nil, th).Run(ctx, fixtureEpisodes())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
}

func TestPipelineEmptyDataset(t *testing.T) {
	report, err := NewPipeline(nil, nil, fixtureThresholds()).Run(context.Background(), nil)
	require.NoError(t, err)
	for _, phase := range report.Phases {
		assert.True(t, phase.Degenerate)
		assert.Equal(t, 0.0, phase.Accuracy)
	}
	assert.Empty(t, report.Recommendations)
}

func TestThresholdsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mining.Containment = "window"
	th, err := ThresholdsFromConfig(&cfg)
	require.NoError(t, err)
	assert.Equal(t, patterns.ContainWindow, th.Mining.Containment)
	assert.Equal(t, cfg.Cohorts.Phases, th.Phases)

	cfg.Mining.Containment = "fuzzy"
	_, err = ThresholdsFromConfig(&cfg)
	assert.Error(t, err)
}

func TestAnalyzePhaseAndCompare(t *testing.T) {
	pipeline := NewPipeline(nil, nil, fixtureThresholds())

	early := pipeline.AnalyzePhase("early", fixtureEpisodes())
	assert.Equal(t, 2, early.Positive)
	assert.Equal(t, 2, early.Negative)
	assert.Equal(t, []models.Transition{models.T("X", "Y")}, early.Harmful)

	missing := pipeline.AnalyzePhase("middle", fixtureEpisodes())
	assert.True(t, missing.Degenerate)
	assert.Empty(t, missing.Paths)

	cmp := pipeline.Compare(config.Comparison{Reference: "urgent", Comparison: "chronic"}, fixtureEpisodes())
	assert.Equal(t, "urgent", cmp.Reference)
	assert.Equal(t, []models.Transition{
		models.T("A", "B"), models.T("B", "C"), models.T("X", "Y"), models.T("Y", "Z"),
	}, cmp.Do)
	assert.Equal(t, []models.Transition{models.T("A", "B"), models.T("X", "Y")}, cmp.Avoid)
}
