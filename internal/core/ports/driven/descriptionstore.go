package driven

import (
	"context"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

// DescriptionStore persists reconciled descriptions. The extraction core
// never calls it directly; callers hand finished results to whichever
// implementation they configured.
type DescriptionStore interface {
	// SaveDescriptions stores descriptions for a chapter, replacing any
	// previous results for the same chapter.
	SaveDescriptions(ctx context.Context, chapterID string, descs []domain.Description) error

	// GetDescriptions retrieves a chapter's descriptions ordered by
	// priority descending. Returns nil and no error when the chapter
	// has none.
	GetDescriptions(ctx context.Context, chapterID string) ([]domain.Description, error)

	// ListChapters returns the IDs of chapters with stored results.
	ListChapters(ctx context.Context) ([]string, error)

	// DeleteDescriptions removes a chapter's descriptions.
	DeleteDescriptions(ctx context.Context, chapterID string) error

	// Close releases store resources.
	Close() error
}
