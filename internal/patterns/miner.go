package patterns

import (
	"context"
	"log/slog"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// MineFrequent returns every transition whose occurrence count across traces
// reaches tau. A tau below one is treated as one.
func MineFrequent(traces []models.Trace, tau int) models.TransitionSet {
	if tau < 1 {
		tau = 1
	}
	frequent := make(models.TransitionSet)
	for t, count := range CountTransitions(traces, CountOccurrence) {
		if count >= tau {
			frequent.Add(t)
		}
	}
	return frequent
}

// MiningOptions configures a Miner run.
type MiningOptions struct {
	Threshold   int
	Extend      bool
	Containment Containment
}

// Miner mines frequent transitions and their one-hop extensions.
type Miner struct {
	sink   Sink
	logger *slog.Logger
}

// NewMiner constructs a Miner; sink may be nil for dry runs.
func NewMiner(logger *slog.Logger, sink Sink) *Miner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{sink: sink, logger: logger}
}

// Mine runs frequent mining, optional extension and component grouping over traces.
func (m *Miner) Mine(ctx context.Context, label string, traces []models.Trace, opts MiningOptions) (models.MiningReport, error) {
	report := models.MiningReport{
		Label:      label,
		Threshold:  opts.Threshold,
		Entities:   len(traces),
		Frequent:   []models.Transition{},
		Extensions: []models.Triple{},
		Components: [][]models.Code{},
	}
	if len(traces) == 0 {
		m.logger.Warn("no traces to mine", slog.String("label", label))
		return report, nil
	}

	frequent := MineFrequent(traces, opts.Threshold)
	report.Frequent = frequent.Sorted()
	report.Components = Components(report.Frequent)

	if opts.Extend {
		if err := ctx.Err(); err != nil {
			return models.MiningReport{}, err
		}
		report.Extensions = ExtendAll(frequent, traces, opts.Threshold, opts.Containment).Sorted()
	}

	m.logger.Info("mined transitions",
		slog.String("label", label),
		slog.Int("entities", len(traces)),
		slog.Int("frequent", len(report.Frequent)),
		slog.Int("extensions", len(report.Extensions)),
		slog.Int("components", len(report.Components)),
	)

	if m.sink != nil {
		if err := m.sink.StoreMining(ctx, report); err != nil {
			m.logger.Warn("mining sink failed", slog.Any("error", err))
		}
	}
	return report, nil
}
