package driven

import (
	"context"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

// ExtractionRequest carries one chapter through a processor call.
type ExtractionRequest struct {
	// Text is the chapter plaintext. Candidate offsets index into it.
	Text string

	// Prior holds descriptions already accepted earlier in the same
	// request. Only sequential mode populates it, letting later
	// processors supplement rather than duplicate prior results.
	Prior []domain.Description
}

// Extractor is the capability interface every extraction engine implements.
// Engines are black boxes: lexicon matchers, regexp heuristics and remote
// models all look the same to the coordinator.
type Extractor interface {
	// ID returns the processor's unique identifier.
	ID() string

	// Load initialises the underlying engine (lexicons, models,
	// connections). Called once by the registry before first use; a
	// failure marks the processor unavailable rather than failing
	// requests.
	Load(ctx context.Context) error

	// Extract proposes candidate spans for the request text. Offsets
	// must satisfy 0 <= Start < End <= len(text) and Text must equal
	// the corresponding substring. Implementations must be safe for
	// concurrent calls.
	Extract(ctx context.Context, req ExtractionRequest) ([]domain.Candidate, error)
}
