// Package cli implements the command-line interface for descry.
// Commands are driving adapters: they translate terminal invocations
// into calls on the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/core/ports/driving"
	"github.com/fabulist-labs/descry/internal/logger"
)

// Services injected at startup. Commands check for nil so the CLI
// degrades gracefully when a dependency could not be constructed.
var (
	extractionService driving.ExtractionService
	processorAdmin    driving.ProcessorAdmin
	descriptionStore  driven.DescriptionStore
	configStore       driven.ConfigStore
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "descry",
	Short: "Extract visual descriptions from narrative text",
	Long: `Descry coordinates an ensemble of extraction processors to pull
visual descriptions (locations, characters, atmosphere, objects,
actions) out of narrative text.

Multiple processors analyse the same text; a weighted vote reconciles
their candidate spans into a single deduplicated, prioritised list.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Dependencies holds everything the CLI needs from the composition
// root.
type Dependencies struct {
	Extraction driving.ExtractionService
	Admin      driving.ProcessorAdmin
	Store      driven.DescriptionStore
	Config     driven.ConfigStore
	Version    string
}

// Configure injects services into the CLI. Call once before Execute.
func Configure(deps Dependencies) {
	extractionService = deps.Extraction
	processorAdmin = deps.Admin
	descriptionStore = deps.Store
	configStore = deps.Config
	if deps.Version != "" {
		version = deps.Version
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
