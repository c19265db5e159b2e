package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

func TestProcessorsCmd_StatusTable(t *testing.T) {
	admin := &mockAdmin{statuses: []domain.ProcessorStatus{
		{ID: "lexicon", Loaded: true, Available: true, Enabled: true, Weight: 1.0, Threshold: 0.3},
		{ID: "ollama", Loaded: true, Available: false, Enabled: true, Weight: 1.5, Threshold: 0.5, LoadError: "connection refused"},
	}}
	cleanup := setupTestServices(nil, admin)
	defer cleanup()

	out, err := execute("processors")

	require.NoError(t, err)
	assert.Contains(t, out, "lexicon")
	assert.Contains(t, out, "ollama")
	assert.Contains(t, out, "connection refused")
}

func TestProcessorsCmd_NoProcessors(t *testing.T) {
	cleanup := setupTestServices(nil, &mockAdmin{})
	defer cleanup()

	out, err := execute("processors", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "No processors registered.")
}

func TestProcessorsSetCmd_UpdatesWeight(t *testing.T) {
	admin := &mockAdmin{}
	cleanup := setupTestServices(nil, admin)
	defer cleanup()

	out, err := execute("processors", "set", "lexicon", "--weight", "1.5")
	defer func() { setWeight = -1 }()

	require.NoError(t, err)
	assert.Contains(t, out, "Updated processor lexicon")
	require.Contains(t, admin.updated, "lexicon")
	require.NotNil(t, admin.updated["lexicon"].Weight)
	assert.Equal(t, 1.5, *admin.updated["lexicon"].Weight)
	assert.Nil(t, admin.updated["lexicon"].Threshold)
	assert.Nil(t, admin.updated["lexicon"].Enabled)
}

func TestProcessorsSetCmd_Disables(t *testing.T) {
	admin := &mockAdmin{}
	cleanup := setupTestServices(nil, admin)
	defer cleanup()

	_, err := execute("processors", "set", "ollama", "--enabled", "false")
	defer func() { setEnabled = "" }()

	require.NoError(t, err)
	require.Contains(t, admin.updated, "ollama")
	require.NotNil(t, admin.updated["ollama"].Enabled)
	assert.False(t, *admin.updated["ollama"].Enabled)
}

func TestProcessorsSetCmd_InvalidEnabled(t *testing.T) {
	cleanup := setupTestServices(nil, &mockAdmin{})
	defer cleanup()

	_, err := execute("processors", "set", "lexicon", "--enabled", "maybe")
	defer func() { setEnabled = "" }()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcessorsSetCmd_NothingToUpdate(t *testing.T) {
	cleanup := setupTestServices(nil, &mockAdmin{})
	defer cleanup()

	_, err := execute("processors", "set", "lexicon")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcessorsSetCmd_PropagatesError(t *testing.T) {
	admin := &mockAdmin{err: domain.ErrNotFound}
	cleanup := setupTestServices(nil, admin)
	defer cleanup()

	_, err := execute("processors", "set", "ghost", "--weight", "2.0")
	defer func() { setWeight = -1 }()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
