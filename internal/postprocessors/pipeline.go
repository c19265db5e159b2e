// Package postprocessors provides description refinement implementations.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// Pipeline chains multiple PostProcessors and runs them in order.
// It implements the PostProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the descriptions through all processors in order. The
// chapter text is passed along unchanged for processors that need the
// source, such as context enrichment.
func (p *Pipeline) Process(ctx context.Context, text string, descs []domain.Description) ([]domain.Description, error) {
	for _, processor := range p.processors {
		var err error
		descs, err = processor.Process(ctx, text, descs)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return descs, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
