package driven

import (
	"context"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

// PostProcessor refines reconciled descriptions after voting.
// PostProcessors are chained in a pipeline (e.g., dedup, context enrichment).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process transforms the description set for one chapter. The
	// chapter text is provided for processors that need the source
	// (e.g., context enrichment). Must never drop a description
	// except by merging it into another.
	Process(ctx context.Context, text string, descs []domain.Description) ([]domain.Description, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the descriptions through all processors in order.
	Process(ctx context.Context, text string, descs []domain.Description) ([]domain.Description, error)
}
