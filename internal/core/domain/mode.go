package domain

const unknownDescription = "Unknown"

// ExtractionMode defines how the coordinator invokes processors and
// whether consensus voting runs on their output.
type ExtractionMode string

// Available extraction modes.
const (
	// ModeSingle invokes only the highest-weight processor.
	ModeSingle ExtractionMode = "single"

	// ModeParallel invokes all processors concurrently and unions
	// their spans without voting.
	ModeParallel ExtractionMode = "parallel"

	// ModeSequential invokes processors one at a time in weight order,
	// letting later processors supplement earlier results.
	ModeSequential ExtractionMode = "sequential"

	// ModeEnsemble invokes all processors concurrently and reconciles
	// their spans through weighted consensus voting.
	ModeEnsemble ExtractionMode = "ensemble"

	// ModeAdaptive picks one of the other modes per request based on
	// text size, processor count and time budget.
	ModeAdaptive ExtractionMode = "adaptive"
)

// IsValid returns true if the extraction mode is recognised.
func (m ExtractionMode) IsValid() bool {
	switch m {
	case ModeSingle, ModeParallel, ModeSequential, ModeEnsemble, ModeAdaptive:
		return true
	default:
		return false
	}
}

// UsesVoting returns true if this mode runs the consensus voter.
func (m ExtractionMode) UsesVoting() bool {
	return m == ModeEnsemble
}

// Concurrent returns true if this mode fans out processor calls.
func (m ExtractionMode) Concurrent() bool {
	return m == ModeParallel || m == ModeEnsemble
}

// String returns the string representation.
func (m ExtractionMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ExtractionMode) Description() string {
	switch m {
	case ModeSingle:
		return "Single (highest-weight processor only)"
	case ModeParallel:
		return "Parallel (all processors, union of spans)"
	case ModeSequential:
		return "Sequential (incremental enrichment in weight order)"
	case ModeEnsemble:
		return "Ensemble (all processors + consensus voting)"
	case ModeAdaptive:
		return "Adaptive (mode chosen per request)"
	default:
		return unknownDescription
	}
}
