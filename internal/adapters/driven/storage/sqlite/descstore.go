package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// descriptionStore implements driven.DescriptionStore.
type descriptionStore struct {
	store *Store
}

var _ driven.DescriptionStore = (*descriptionStore)(nil)

// SaveDescriptions stores descriptions for a chapter, replacing any
// previous results for the same chapter. The replace is transactional:
// readers never observe a half-written chapter.
func (s *descriptionStore) SaveDescriptions(ctx context.Context, chapterID string, descs []domain.Description) error {
	if chapterID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM descriptions WHERE chapter_id = ?", chapterID); err != nil {
		return fmt.Errorf("clearing chapter %s: %w", chapterID, err)
	}

	for _, d := range descs {
		processors, err := json.Marshal(d.Processors)
		if err != nil {
			return fmt.Errorf("marshalling processors: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO descriptions
				(id, chapter_id, start_offset, end_offset, text, type, confidence, processors, context, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, d.ID, chapterID, d.Start, d.End, d.Text, d.Type.String(),
			d.Confidence, string(processors), d.Context, d.Priority)
		if err != nil {
			return fmt.Errorf("saving description %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chapter %s: %w", chapterID, err)
	}
	return nil
}

// GetDescriptions retrieves a chapter's descriptions ordered by priority
// descending. Returns nil and no error when the chapter has none.
func (s *descriptionStore) GetDescriptions(ctx context.Context, chapterID string) ([]domain.Description, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, chapter_id, start_offset, end_offset, text, type, confidence, processors, context, priority
		FROM descriptions WHERE chapter_id = ?
		ORDER BY priority DESC, start_offset ASC
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("querying descriptions: %w", err)
	}
	defer rows.Close()

	var descs []domain.Description //nolint:prealloc // size unknown from query
	for rows.Next() {
		var d domain.Description
		var descType, processors string
		if err := rows.Scan(&d.ID, &d.ChapterID, &d.Start, &d.End, &d.Text,
			&descType, &d.Confidence, &processors, &d.Context, &d.Priority); err != nil {
			return nil, fmt.Errorf("scanning description: %w", err)
		}
		d.Type = domain.DescriptionType(descType)
		if err := json.Unmarshal([]byte(processors), &d.Processors); err != nil {
			return nil, fmt.Errorf("unmarshalling processors: %w", err)
		}
		descs = append(descs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating descriptions: %w", err)
	}
	return descs, nil
}

// ListChapters returns the IDs of chapters with stored results.
func (s *descriptionStore) ListChapters(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT DISTINCT chapter_id FROM descriptions ORDER BY chapter_id")
	if err != nil {
		return nil, fmt.Errorf("querying chapters: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chapter id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chapters: %w", err)
	}
	return ids, nil
}

// DeleteDescriptions removes a chapter's descriptions.
func (s *descriptionStore) DeleteDescriptions(ctx context.Context, chapterID string) error {
	if _, err := s.store.db.ExecContext(ctx,
		"DELETE FROM descriptions WHERE chapter_id = ?", chapterID); err != nil {
		return fmt.Errorf("deleting descriptions: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (s *descriptionStore) Close() error {
	return s.store.Close()
}
