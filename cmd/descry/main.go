// Command descry extracts visual descriptions from narrative text using
// an ensemble of weighted extraction processors.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fabulist-labs/descry/internal/adapters/driven/config/file"
	"github.com/fabulist-labs/descry/internal/adapters/driven/storage/memory"
	"github.com/fabulist-labs/descry/internal/adapters/driven/storage/sqlite"
	"github.com/fabulist-labs/descry/internal/adapters/driving/cli"
	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/core/services"
	"github.com/fabulist-labs/descry/internal/extractors/lexicon"
	"github.com/fabulist-labs/descry/internal/extractors/ollama"
	"github.com/fabulist-labs/descry/internal/extractors/pattern"
	"github.com/fabulist-labs/descry/internal/logger"
	"github.com/fabulist-labs/descry/internal/postprocessors"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	descStore := openDescriptionStore()

	registry := services.NewProcessorRegistry()
	if err := registerProcessors(registry, configStore); err != nil {
		return fmt.Errorf("registering processors: %w", err)
	}
	loaded := registry.LoadAll(context.Background())
	logger.Debug("Loaded %d processors", loaded)

	pipeline, err := buildPipeline(configStore)
	if err != nil {
		return fmt.Errorf("building postprocessor pipeline: %w", err)
	}

	coordinator := services.NewCoordinator(registry, pipeline)

	cli.Configure(cli.Dependencies{
		Extraction: coordinator,
		Admin:      registry,
		Store:      descStore,
		Config:     configStore,
		Version:    version,
	})
	return cli.Execute()
}

// openDescriptionStore opens the SQLite store, falling back to an
// in-memory store when the database cannot be opened. Extraction still
// works then; results just don't survive the process.
func openDescriptionStore() driven.DescriptionStore {
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Opening description store: %v (results will not persist)", err)
		return memory.NewDescriptionStore()
	}
	return store.DescriptionStore()
}

// registerProcessors registers the built-in extraction engines with
// defaults overridable from the config file.
func registerProcessors(registry *services.ProcessorRegistry, config driven.ConfigStore) error {
	builtins := []struct {
		extractor driven.Extractor
		cfg       domain.ProcessorConfig
	}{
		{lexicon.New(), domain.ProcessorConfig{Weight: 1.0, Threshold: 0.3, Enabled: true}},
		{pattern.New(), domain.ProcessorConfig{Weight: 1.2, Threshold: 0.3, Enabled: true}},
		{ollama.New(ollama.Config{
			BaseURL: config.GetString("ollama.base_url"),
			Model:   config.GetString("ollama.model"),
		}), domain.ProcessorConfig{Weight: 1.5, Threshold: 0.5, Enabled: true}},
	}

	for _, b := range builtins {
		cfg := b.cfg
		cfg.ID = b.extractor.ID()
		applyConfigOverrides(config, &cfg)
		if err := registry.Register(b.extractor, cfg); err != nil {
			return err
		}
	}
	return nil
}

// applyConfigOverrides replaces defaults with persisted processor
// settings, when present.
func applyConfigOverrides(config driven.ConfigStore, cfg *domain.ProcessorConfig) {
	prefix := "processors." + cfg.ID + "."
	if _, ok := config.Get(prefix + "weight"); ok {
		cfg.Weight = config.GetFloat(prefix + "weight")
	}
	if _, ok := config.Get(prefix + "threshold"); ok {
		cfg.Threshold = config.GetFloat(prefix + "threshold")
	}
	if v, ok := config.Get(prefix + "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			cfg.Enabled = b
		}
	}
}

// buildPipeline assembles the postprocessing pipeline: dedup then
// context enrichment.
func buildPipeline(config driven.ConfigStore) (driven.PostProcessorPipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	dedupCfg := map[string]any{}
	if v, ok := config.Get("dedup.overlap_threshold"); ok {
		dedupCfg["overlap_threshold"] = v
	}

	dedup, err := registry.Build("dedup", dedupCfg)
	if err != nil {
		return nil, err
	}
	enrich, err := registry.Build("enrich", nil)
	if err != nil {
		return nil, err
	}
	return postprocessors.NewPipeline(dedup, enrich), nil
}
