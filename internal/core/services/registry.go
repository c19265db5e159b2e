package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/core/ports/driving"
	"github.com/fabulist-labs/descry/internal/logger"
)

// Ensure ProcessorRegistry implements the interface.
var _ driving.ProcessorAdmin = (*ProcessorRegistry)(nil)

// ProcessorHandle pairs an extractor with the config snapshot governing
// one request. Handles are value copies: registry writes after the
// snapshot never affect a request in flight.
type ProcessorHandle struct {
	Extractor driven.Extractor
	Config    domain.ProcessorConfig
}

// processorEntry is the registry's mutable record for one processor.
type processorEntry struct {
	extractor driven.Extractor
	config    domain.ProcessorConfig
	loaded    bool
	available bool
	loadErr   string
}

// ProcessorRegistry owns the set of extraction processors, their load
// state and their runtime-tunable config. It is the only shared mutable
// state in the extraction core: reads take immutable snapshots, writes
// serialise under the lock.
type ProcessorRegistry struct {
	mu      sync.RWMutex
	entries map[string]*processorEntry
}

// NewProcessorRegistry creates an empty registry.
func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{
		entries: make(map[string]*processorEntry),
	}
}

// Register adds a processor under its config. The config ID must match
// the extractor's ID; an empty config ID inherits it. Registering an ID
// twice fails with ErrDuplicateProcessor.
func (r *ProcessorRegistry) Register(extractor driven.Extractor, cfg domain.ProcessorConfig) error {
	if extractor == nil {
		return domain.ErrInvalidInput
	}
	if cfg.ID == "" {
		cfg.ID = extractor.ID()
	}
	if cfg.ID != extractor.ID() {
		return fmt.Errorf("%w: config ID %q does not match extractor %q",
			domain.ErrInvalidConfig, cfg.ID, extractor.ID())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[cfg.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateProcessor, cfg.ID)
	}

	r.entries[cfg.ID] = &processorEntry{
		extractor: extractor,
		config:    cfg,
		available: true,
	}
	return nil
}

// Load initialises one processor's underlying engine. A load failure
// marks the processor unavailable so snapshots exclude it; the returned
// error is for the caller's logs, not a request failure.
func (r *ProcessorRegistry) Load(ctx context.Context, id string) error {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: processor %s", domain.ErrNotFound, id)
	}

	err := entry.extractor.Load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		entry.loaded = false
		entry.available = false
		entry.loadErr = err.Error()
		logger.Warn("Processor %s failed to load: %v", id, err)
		return fmt.Errorf("%w: %s: %v", domain.ErrProcessorUnavailable, id, err)
	}
	entry.loaded = true
	entry.available = true
	entry.loadErr = ""
	logger.Debug("Processor %s loaded", id)
	return nil
}

// LoadAll initialises every registered processor. Failures are recorded
// per processor and never abort the batch; the return value counts the
// processors that loaded.
func (r *ProcessorRegistry) LoadAll(ctx context.Context) int {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)

	loaded := 0
	for _, id := range ids {
		if err := r.Load(ctx, id); err == nil {
			loaded++
		}
	}
	return loaded
}

// Snapshot returns an immutable view of the processors eligible for a
// request: enabled and available, ordered by descending weight with
// ascending ID as the tie-break. The order is deterministic, which
// sequential mode and voting tie-breaks rely on.
func (r *ProcessorRegistry) Snapshot() []ProcessorHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]ProcessorHandle, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.config.Enabled && entry.available {
			handles = append(handles, ProcessorHandle{
				Extractor: entry.extractor,
				Config:    entry.config,
			})
		}
	}

	sort.Slice(handles, func(i, j int) bool {
		if handles[i].Config.Weight != handles[j].Config.Weight {
			return handles[i].Config.Weight > handles[j].Config.Weight
		}
		return handles[i].Config.ID < handles[j].Config.ID
	})
	return handles
}

// UpdateConfig applies a validated partial update to one processor.
// The write is serialised; requests already holding a snapshot keep
// their old view. On validation failure the prior config is unchanged.
func (r *ProcessorRegistry) UpdateConfig(id string, update domain.ConfigUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: processor %s", domain.ErrNotFound, id)
	}

	next := entry.config
	if update.Weight != nil {
		next.Weight = *update.Weight
	}
	if update.Threshold != nil {
		next.Threshold = *update.Threshold
	}
	if update.Enabled != nil {
		next.Enabled = *update.Enabled
	}
	if err := next.Validate(); err != nil {
		return err
	}

	entry.config = next
	logger.Debug("Processor %s config updated: weight=%.2f threshold=%.2f enabled=%t",
		id, next.Weight, next.Threshold, next.Enabled)
	return nil
}

// Status returns a read-only view of every registered processor, sorted
// by ID.
func (r *ProcessorRegistry) Status() []domain.ProcessorStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]domain.ProcessorStatus, 0, len(r.entries))
	for _, entry := range r.entries {
		statuses = append(statuses, domain.ProcessorStatus{
			ID:        entry.config.ID,
			Loaded:    entry.loaded,
			Available: entry.available,
			Enabled:   entry.config.Enabled,
			Weight:    entry.config.Weight,
			Threshold: entry.config.Threshold,
			LoadError: entry.loadErr,
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].ID < statuses[j].ID
	})
	return statuses
}
