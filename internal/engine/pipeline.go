package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/mirador-pathmine/internal/config"
	"github.com/miradorstack/mirador-pathmine/internal/ingest"
	"github.com/miradorstack/mirador-pathmine/internal/metrics"
	"github.com/miradorstack/mirador-pathmine/internal/models"
	"github.com/miradorstack/mirador-pathmine/internal/patterns"
)

// Thresholds carries every tunable of one analysis run.
type Thresholds struct {
	Mining          patterns.MiningOptions
	Phases          []string
	Alpha           float64
	Beta            float64
	MinSupportDead  int
	MaxSupportAlive int
	MaxHops         int
	Comparisons     []config.Comparison
}

// ThresholdsFromConfig maps validated configuration onto pipeline thresholds.
func ThresholdsFromConfig(cfg *config.Config) (Thresholds, error) {
	containment, err := patterns.ParseContainment(cfg.Mining.Containment)
	if err != nil {
		return Thresholds{}, err
	}
	return Thresholds{
		Mining: patterns.MiningOptions{
			Threshold:   cfg.Mining.Threshold,
			Extend:      cfg.Mining.Extend,
			Containment: containment,
		},
		Phases:          append([]string(nil), cfg.Cohorts.Phases...),
		Alpha:           cfg.Cohorts.Alpha,
		Beta:            cfg.Cohorts.Beta,
		MinSupportDead:  cfg.Cohorts.MinSupportDead,
		MaxSupportAlive: cfg.Cohorts.MaxSupportAlive,
		MaxHops:         cfg.Cohorts.MaxHops,
		Comparisons:     append([]config.Comparison(nil), cfg.Cohorts.Comparisons...),
	}, nil
}

// Pipeline sequences whole-dataset mining and the per-phase outcome comparison.
type Pipeline struct {
	logger     *slog.Logger
	miner      *patterns.Miner
	thresholds Thresholds
	now        func() time.Time
}

// NewPipeline constructs a new analysis pipeline.
func NewPipeline(logger *slog.Logger, miner *patterns.Miner, thresholds Thresholds) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if miner == nil {
		miner = patterns.NewMiner(logger, nil)
	}
	return &Pipeline{
		logger:     logger,
		miner:      miner,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Run analyses the episodes and returns a complete report. Cancellation is
// checked between stages; a cancelled run returns an error, never a partial
// report.
func (p *Pipeline) Run(ctx context.Context, episodes []models.Episode) (*models.Report, error) {
	report := &models.Report{
		RunID:           uuid.NewString(),
		GeneratedAt:     p.now().UTC(),
		Phases:          make([]models.PhaseReport, 0, len(p.thresholds.Phases)),
		Recommendations: make([]models.Recommendation, 0),
	}
	logger := p.logger.With(slog.String("run_id", report.RunID))
	logger.Info("analysis started", slog.Int("episodes", len(episodes)), slog.Int("phases", len(p.thresholds.Phases)))

	mining, err := p.miner.Mine(ctx, "all", ingest.AllTraces(episodes), p.thresholds.Mining)
	if err != nil {
		return nil, fmt.Errorf("mine transitions: %w", err)
	}
	report.Mining = mining
	metrics.AddPatterns("frequent", len(mining.Frequent))
	metrics.AddPatterns("extension", len(mining.Extensions))

	for _, phase := range p.thresholds.Phases {
		if err := ctx.Err(); err != nil {
			metrics.ObservePhase(0, metrics.OutcomeError)
			return nil, fmt.Errorf("phase %s: %w", phase, err)
		}
		phaseReport := p.analyzePhase(logger, phase, episodes)
		report.Phases = append(report.Phases, phaseReport)
		report.Recommendations = append(report.Recommendations, recommendations(phase, phaseReport)...)
	}

	for _, cmp := range p.thresholds.Comparisons {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("comparison %s vs %s: %w", cmp.Reference, cmp.Comparison, err)
		}
		report.Comparisons = append(report.Comparisons, p.compare(logger, cmp, episodes))
	}

	logger.Info("analysis finished",
		slog.Int("frequent", len(report.Mining.Frequent)),
		slog.Int("recommendations", len(report.Recommendations)),
	)
	return report, nil
}

// AnalyzePhase compares the positive and negative cohorts of one phase.
func (p *Pipeline) AnalyzePhase(phase string, episodes []models.Episode) models.PhaseReport {
	return p.analyzePhase(p.logger, phase, episodes)
}

func (p *Pipeline) analyzePhase(logger *slog.Logger, phase string, episodes []models.Episode) models.PhaseReport {
	start := time.Now()
	positive, negative, skipped := ingest.SplitByOutcome(episodes, phase)
	logger = logger.With(slog.String("phase", phase))
	logger.Debug("cohorts split",
		slog.Int("positive", positive.Len()),
		slog.Int("negative", negative.Len()),
		slog.Int("skipped", skipped),
	)

	disc := patterns.Discriminate(positive, negative, p.thresholds.Alpha, p.thresholds.Beta)
	harmful := patterns.Harmful(negative, positive, p.thresholds.MinSupportDead, p.thresholds.MaxSupportAlive)
	harmfulList := harmful.Sorted()

	var paths []models.Path
	if len(harmfulList) > 0 {
		paths = patterns.ActionPaths(negative, harmfulList, p.thresholds.MaxHops)
	}
	acc := patterns.Accuracy([]models.TransitionSet{disc.Do}, positive, negative)

	out := models.PhaseReport{
		Phase:           phase,
		Positive:        positive.Len(),
		Negative:        negative.Len(),
		Degenerate:      disc.Degenerate,
		Do:              disc.Do.Sorted(),
		Avoid:           disc.Avoid.Sorted(),
		Harmful:         harmfulList,
		Paths:           paths,
		Accuracy:        acc.Score,
		VacuousPatterns: acc.VacuousPatterns,
	}
	if out.Paths == nil {
		out.Paths = []models.Path{}
	}

	outcome := metrics.OutcomeSuccess
	if disc.Degenerate {
		outcome = metrics.OutcomeDegenerate
		logger.Warn("cohort empty, discriminative sets skipped",
			slog.Int("positive", positive.Len()),
			slog.Int("negative", negative.Len()),
		)
	} else if disc.Do.Len() == 0 {
		logger.Warn("no discriminative transitions, lower alpha or raise beta",
			slog.Int("frequent_in_reference", disc.FrequentInReference),
		)
	}
	if acc.VacuousPatterns > 0 {
		logger.Debug("empty do-set matches every positive graph", slog.Float64("accuracy", acc.Score))
	}
	metrics.ObservePhase(time.Since(start), outcome)
	metrics.AddPatterns("do", len(out.Do))
	metrics.AddPatterns("avoid", len(out.Avoid))
	metrics.AddPatterns("harmful", len(out.Harmful))
	metrics.AddPatterns("path", len(out.Paths))
	metrics.SetAccuracy(phase, acc.Score)

	logger.Info("phase analysed",
		slog.Int("do", len(out.Do)),
		slog.Int("avoid", len(out.Avoid)),
		slog.Int("harmful", len(out.Harmful)),
		slog.Int("paths", len(out.Paths)),
		slog.Float64("accuracy", acc.Score),
	)
	return out
}

// Compare runs a discriminative comparison between two episode categories.
func (p *Pipeline) Compare(cmp config.Comparison, episodes []models.Episode) models.ComparisonReport {
	return p.compare(p.logger, cmp, episodes)
}

func (p *Pipeline) compare(logger *slog.Logger, cmp config.Comparison, episodes []models.Episode) models.ComparisonReport {
	reference := ingest.ByCategory(episodes, cmp.Reference)
	comparison := ingest.ByCategory(episodes, cmp.Comparison)
	disc := patterns.Discriminate(reference, comparison, p.thresholds.Alpha, p.thresholds.Beta)
	if disc.Degenerate {
		logger.Warn("category cohort empty",
			slog.String("reference", cmp.Reference),
			slog.Int("reference_graphs", reference.Len()),
			slog.String("comparison", cmp.Comparison),
			slog.Int("comparison_graphs", comparison.Len()),
		)
	}
	return models.ComparisonReport{
		Reference:  cmp.Reference,
		Comparison: cmp.Comparison,
		Degenerate: disc.Degenerate,
		Do:         disc.Do.Sorted(),
		Avoid:      disc.Avoid.Sorted(),
	}
}
