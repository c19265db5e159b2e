package driving

import (
	"context"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

// ExtractionService turns chapter text into reconciled descriptions.
type ExtractionService interface {
	// Extract runs the configured processors over the chapter text and
	// returns descriptions ordered by priority descending.
	Extract(ctx context.Context, text string, opts domain.ExtractOptions) ([]domain.Description, error)
}
