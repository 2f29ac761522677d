package patterns

import (
	"context"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// Sink receives mining reports for export or rendering.
type Sink interface {
	StoreMining(ctx context.Context, report models.MiningReport) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, report models.MiningReport) error

// StoreMining implements Sink.
func (f SinkFunc) StoreMining(ctx context.Context, report models.MiningReport) error {
	return f(ctx, report)
}
