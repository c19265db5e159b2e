package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fabulist-labs/descry/internal/adapters/driving/watch"
	"github.com/fabulist-labs/descry/internal/core/domain"
)

var (
	watchMode   string
	watchBudget time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and re-extract changed chapters",
	Long: `Watch a directory of .txt chapter files. When a chapter is created
or modified, it is re-extracted and the results replace any stored
ones for that chapter. Removing a chapter file drops its results.

Processor settings in the config file are also hot-reloaded while
watching. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchMode, "mode", "m", "adaptive", "Extraction mode for re-extraction")
	watchCmd.Flags().DurationVar(&watchBudget, "budget", 0, "Time budget per extraction (0 = unlimited)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}
	if descriptionStore == nil {
		return errors.New("description store not configured")
	}

	mode := domain.ExtractionMode(watchMode)
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, watchMode)
	}

	watcher, err := watch.NewWatcher(args[0], extractionService, descriptionStore,
		watch.WithExtractOptions(domain.ExtractOptions{
			Mode:       mode,
			TimeBudget: watchBudget,
		}))
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	if configStore != nil && processorAdmin != nil {
		reloader := watch.NewConfigReloader(configStore, processorAdmin)
		g.Go(func() error {
			return reloader.Run(ctx)
		})
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
