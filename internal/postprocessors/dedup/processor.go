// Package dedup provides a post-consensus pass that merges near-duplicate
// descriptions.
package dedup

import (
	"context"
	"sort"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

// DefaultOverlapThreshold is the text overlap ratio above which two
// same-type descriptions are considered duplicates. The comparison is
// strict: exactly this much overlap is not a duplicate.
const DefaultOverlapThreshold = 0.9

// Processor merges near-duplicate descriptions of the same type.
// It implements the PostProcessor interface.
type Processor struct {
	overlapThreshold float64
}

// Option configures the dedup processor.
type Option func(*Processor)

// WithOverlapThreshold sets the duplicate overlap threshold.
func WithOverlapThreshold(v float64) Option {
	return func(p *Processor) {
		if v > 0 && v <= 1 {
			p.overlapThreshold = v
		}
	}
}

// New creates a new dedup processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		overlapThreshold: DefaultOverlapThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "dedup"
}

// Process merges pairs of same-type descriptions whose spans overlap by
// more than the threshold, keeping the higher-confidence description and
// unioning the contributor sets. Descriptions per chapter number in the
// tens, so the quadratic pass is fine. Running twice is a no-op.
func (p *Processor) Process(_ context.Context, _ string, descs []domain.Description) ([]domain.Description, error) {
	if len(descs) < 2 {
		return descs, nil
	}

	merged := make([]domain.Description, len(descs))
	copy(merged, descs)
	dropped := make([]bool, len(merged))

	for i := 0; i < len(merged); i++ {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(merged); j++ {
			if dropped[j] {
				continue
			}
			if merged[i].Type != merged[j].Type {
				continue
			}
			overlap := domain.Overlap(merged[i].Start, merged[i].End, merged[j].Start, merged[j].End)
			if overlap <= p.overlapThreshold {
				continue
			}

			keep, drop := i, j
			if merged[j].Confidence > merged[i].Confidence {
				keep, drop = j, i
			}
			merged[keep].Processors = unionProcessors(merged[keep].Processors, merged[drop].Processors)
			dropped[drop] = true
			if drop == i {
				break
			}
		}
	}

	out := merged[:0:0]
	for i, d := range merged {
		if !dropped[i] {
			out = append(out, d)
		}
	}
	return out, nil
}

// unionProcessors merges two contributor sets, sorted and without
// duplicates.
func unionProcessors(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
