package driving

import "github.com/fabulist-labs/descry/internal/core/domain"

// ProcessorAdmin exposes processor configuration and status to admin
// tooling. Updates take effect for requests starting after the write,
// never for requests already in flight.
type ProcessorAdmin interface {
	// Status returns a read-only view of every registered processor.
	Status() []domain.ProcessorStatus

	// UpdateConfig applies a validated partial update to one
	// processor's config.
	UpdateConfig(id string, update domain.ConfigUpdate) error
}
