package services

import (
	"time"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

// Adaptive mode selection defaults.
const (
	// DefaultShortTextThreshold is the text length in bytes below which
	// ensemble overhead is not worth paying.
	DefaultShortTextThreshold = 200

	// DefaultTightBudget is the time budget below which the selector
	// trades voting quality for latency.
	DefaultTightBudget = 2 * time.Second
)

// SelectorConfig tunes the adaptive mode selector.
type SelectorConfig struct {
	// ShortTextThreshold overrides DefaultShortTextThreshold when
	// positive.
	ShortTextThreshold int

	// TightBudget overrides DefaultTightBudget when positive.
	TightBudget time.Duration
}

// SelectMode picks the extraction mode for one request. The policy is
// documented, not a hidden heuristic:
//
//   - short text: SINGLE, the ensemble is not worth the overhead
//   - one processor or fewer: SINGLE, voting is meaningless
//   - tight time budget: PARALLEL, no voting latency, accepts noise
//   - otherwise: ENSEMBLE
//
// The function is pure: no clocks, no processor calls, no side effects.
func SelectMode(text string, budget time.Duration, processorCount int, cfg SelectorConfig) domain.ExtractionMode {
	short := cfg.ShortTextThreshold
	if short <= 0 {
		short = DefaultShortTextThreshold
	}
	tight := cfg.TightBudget
	if tight <= 0 {
		tight = DefaultTightBudget
	}

	if len(text) < short {
		return domain.ModeSingle
	}
	if processorCount <= 1 {
		return domain.ModeSingle
	}
	if budget > 0 && budget < tight {
		return domain.ModeParallel
	}
	return domain.ModeEnsemble
}
