package cli

import (
	"bytes"
	"context"
	"sync"

	"github.com/fabulist-labs/descry/internal/adapters/driven/storage/memory"
	"github.com/fabulist-labs/descry/internal/core/domain"
)

// mockExtractionService returns canned descriptions and records the
// options it was called with.
type mockExtractionService struct {
	mu       sync.Mutex
	lastOpts domain.ExtractOptions
	descs    []domain.Description
	err      error
}

func (m *mockExtractionService) Extract(_ context.Context, _ string, opts domain.ExtractOptions) ([]domain.Description, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.descs, nil
}

type mockAdmin struct {
	statuses []domain.ProcessorStatus
	updated  map[string]domain.ConfigUpdate
	err      error
}

func (m *mockAdmin) Status() []domain.ProcessorStatus {
	return m.statuses
}

func (m *mockAdmin) UpdateConfig(id string, update domain.ConfigUpdate) error {
	if m.err != nil {
		return m.err
	}
	if m.updated == nil {
		m.updated = make(map[string]domain.ConfigUpdate)
	}
	m.updated[id] = update
	return nil
}

func sampleDescription() domain.Description {
	return domain.Description{
		ID:         "d-1",
		ChapterID:  "ch-1",
		Start:      4,
		End:        32,
		Text:       "the lighthouse on the headland",
		Type:       domain.TypeLocation,
		Confidence: 0.87,
		Processors: []string{"lexicon", "pattern"},
		Context:    "They saw the lighthouse on the headland at dusk.",
		Priority:   0.87,
	}
}

// setupTestServices wires mock services into the package and returns a
// cleanup restoring the previous state.
func setupTestServices(svc *mockExtractionService, admin *mockAdmin) func() {
	oldExtraction := extractionService
	oldAdmin := processorAdmin
	oldStore := descriptionStore
	oldConfig := configStore

	if svc != nil {
		extractionService = svc
	}
	if admin != nil {
		processorAdmin = admin
	}
	descriptionStore = memory.NewDescriptionStore()
	configStore = nil

	return func() {
		extractionService = oldExtraction
		processorAdmin = oldAdmin
		descriptionStore = oldStore
		configStore = oldConfig
	}
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
