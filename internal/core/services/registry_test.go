package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// fakeExtractor is a configurable test double for the Extractor port.
type fakeExtractor struct {
	id      string
	loadErr error
	cands   []domain.Candidate
	err     error
}

func (f *fakeExtractor) ID() string { return f.id }

func (f *fakeExtractor) Load(_ context.Context) error { return f.loadErr }

func (f *fakeExtractor) Extract(_ context.Context, _ driven.ExtractionRequest) ([]domain.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cands, nil
}

func cfg(id string, weight float64) domain.ProcessorConfig {
	return domain.ProcessorConfig{ID: id, Weight: weight, Threshold: 0, Enabled: true}
}

func TestRegistry_Register(t *testing.T) {
	r := NewProcessorRegistry()

	err := r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 1.0))
	require.NoError(t, err)

	statuses := r.Status()
	require.Len(t, statuses, 1)
	assert.Equal(t, "alpha", statuses[0].ID)
	assert.True(t, statuses[0].Enabled)
	assert.False(t, statuses[0].Loaded)
}

func TestRegistry_RegisterInheritsID(t *testing.T) {
	r := NewProcessorRegistry()

	err := r.Register(&fakeExtractor{id: "alpha"}, domain.ProcessorConfig{Weight: 1.0, Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "alpha", r.Status()[0].ID)
}

func TestRegistry_RegisterIDMismatch(t *testing.T) {
	r := NewProcessorRegistry()

	err := r.Register(&fakeExtractor{id: "alpha"}, cfg("beta", 1.0))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewProcessorRegistry()

	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 1.0)))
	err := r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 2.0))
	assert.ErrorIs(t, err, domain.ErrDuplicateProcessor)
}

func TestRegistry_RegisterInvalidConfig(t *testing.T) {
	r := NewProcessorRegistry()

	err := r.Register(&fakeExtractor{id: "alpha"}, domain.ProcessorConfig{ID: "alpha", Weight: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRegistry_LoadFailureMarksUnavailable(t *testing.T) {
	r := NewProcessorRegistry()
	require.NoError(t, r.Register(
		&fakeExtractor{id: "alpha", loadErr: errors.New("connection refused")},
		cfg("alpha", 1.0)))

	err := r.Load(context.Background(), "alpha")

	assert.ErrorIs(t, err, domain.ErrProcessorUnavailable)
	status := r.Status()[0]
	assert.False(t, status.Available)
	assert.Contains(t, status.LoadError, "connection refused")
	// Unavailable processors are excluded from request snapshots
	assert.Empty(t, r.Snapshot())
}

func TestRegistry_LoadUnknown(t *testing.T) {
	r := NewProcessorRegistry()

	err := r.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_LoadAllCountsSuccesses(t *testing.T) {
	r := NewProcessorRegistry()
	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 1.0)))
	require.NoError(t, r.Register(
		&fakeExtractor{id: "beta", loadErr: errors.New("boom")}, cfg("beta", 1.0)))
	require.NoError(t, r.Register(&fakeExtractor{id: "gamma"}, cfg("gamma", 1.0)))

	loaded := r.LoadAll(context.Background())

	assert.Equal(t, 2, loaded)
	assert.Len(t, r.Snapshot(), 2)
}

func TestRegistry_SnapshotOrder(t *testing.T) {
	r := NewProcessorRegistry()
	require.NoError(t, r.Register(&fakeExtractor{id: "light"}, cfg("light", 0.5)))
	require.NoError(t, r.Register(&fakeExtractor{id: "heavy"}, cfg("heavy", 2.0)))
	require.NoError(t, r.Register(&fakeExtractor{id: "beta"}, cfg("beta", 1.0)))
	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 1.0)))

	handles := r.Snapshot()

	require.Len(t, handles, 4)
	// Weight descending, ID ascending on ties
	assert.Equal(t, "heavy", handles[0].Config.ID)
	assert.Equal(t, "alpha", handles[1].Config.ID)
	assert.Equal(t, "beta", handles[2].Config.ID)
	assert.Equal(t, "light", handles[3].Config.ID)
}

func TestRegistry_SnapshotExcludesDisabled(t *testing.T) {
	r := NewProcessorRegistry()
	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 1.0)))
	disabled := cfg("beta", 1.0)
	disabled.Enabled = false
	require.NoError(t, r.Register(&fakeExtractor{id: "beta"}, disabled))

	handles := r.Snapshot()

	require.Len(t, handles, 1)
	assert.Equal(t, "alpha", handles[0].Config.ID)
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	r := NewProcessorRegistry()
	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 1.0)))

	before := r.Snapshot()

	w := 3.0
	require.NoError(t, r.UpdateConfig("alpha", domain.ConfigUpdate{Weight: &w}))

	// The earlier snapshot keeps the config it was taken with
	assert.Equal(t, 1.0, before[0].Config.Weight)
	assert.Equal(t, 3.0, r.Snapshot()[0].Config.Weight)
}

func TestRegistry_UpdateConfigPartial(t *testing.T) {
	r := NewProcessorRegistry()
	c := cfg("alpha", 1.0)
	c.Threshold = 0.3
	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, c))

	th := 0.7
	require.NoError(t, r.UpdateConfig("alpha", domain.ConfigUpdate{Threshold: &th}))

	status := r.Status()[0]
	assert.Equal(t, 0.7, status.Threshold)
	assert.Equal(t, 1.0, status.Weight) // untouched
	assert.True(t, status.Enabled)      // untouched
}

func TestRegistry_UpdateConfigInvalidLeavesPrior(t *testing.T) {
	r := NewProcessorRegistry()
	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 1.0)))

	bad := -1.0
	err := r.UpdateConfig("alpha", domain.ConfigUpdate{Weight: &bad})

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, 1.0, r.Status()[0].Weight)
}

func TestRegistry_UpdateConfigUnknown(t *testing.T) {
	r := NewProcessorRegistry()

	w := 1.0
	err := r.UpdateConfig("ghost", domain.ConfigUpdate{Weight: &w})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_StatusSortedByID(t *testing.T) {
	r := NewProcessorRegistry()
	require.NoError(t, r.Register(&fakeExtractor{id: "zeta"}, cfg("zeta", 1.0)))
	require.NoError(t, r.Register(&fakeExtractor{id: "alpha"}, cfg("alpha", 2.0)))

	statuses := r.Status()

	require.Len(t, statuses, 2)
	assert.Equal(t, "alpha", statuses[0].ID)
	assert.Equal(t, "zeta", statuses[1].ID)
}
