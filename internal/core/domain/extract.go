package domain

import "time"

// Default extraction tuning values.
const (
	// DefaultOverlapThreshold is the minimum IoU for two spans to be
	// clustered together during voting.
	DefaultOverlapThreshold = 0.5

	// DefaultConsensusThreshold is the minimum agreeing-weight fraction
	// for a cluster to be accepted.
	DefaultConsensusThreshold = 0.6

	// DefaultCallTimeout bounds a single processor's Extract call.
	DefaultCallTimeout = 30 * time.Second

	// SequentialOverlapLimit is the overlap ratio above which a later
	// processor's span is dropped in sequential mode.
	SequentialOverlapLimit = 0.5
)

// ExtractOptions configures one extraction request. The zero value asks
// for ensemble mode with all defaults.
type ExtractOptions struct {
	// Mode selects the processing strategy. Defaults to ModeEnsemble.
	Mode ExtractionMode

	// ChapterID tags the resulting descriptions, when known.
	ChapterID string

	// TimeBudget bounds the whole request. Zero means no budget;
	// processors still running at the deadline are cancelled and the
	// request proceeds with whatever completed.
	TimeBudget time.Duration

	// CallTimeout bounds each individual processor call. Zero applies
	// DefaultCallTimeout.
	CallTimeout time.Duration

	// OverlapThreshold overrides the voter's clustering threshold when
	// positive.
	OverlapThreshold float64

	// ConsensusThreshold overrides the voter's acceptance threshold
	// when positive.
	ConsensusThreshold float64
}
