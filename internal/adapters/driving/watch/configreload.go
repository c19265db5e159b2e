package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/core/ports/driving"
	"github.com/fabulist-labs/descry/internal/logger"
)

// ConfigReloader watches the configuration file and applies processor
// setting changes to the running registry without a restart. Keys of
// the form processors.<id>.weight, processors.<id>.threshold and
// processors.<id>.enabled are recognised.
type ConfigReloader struct {
	config   driven.ConfigStore
	admin    driving.ProcessorAdmin
	debounce time.Duration
}

// NewConfigReloader creates a reloader bound to the given config store
// and processor admin surface.
func NewConfigReloader(config driven.ConfigStore, admin driving.ProcessorAdmin) *ConfigReloader {
	return &ConfigReloader{
		config:   config,
		admin:    admin,
		debounce: debounceDelay,
	}
}

// Run watches the config file until ctx is cancelled. It blocks.
func (r *ConfigReloader) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the containing directory: editors replace files on save,
	// which would silently drop a watch on the file itself.
	if err := fw.Add(filepath.Dir(r.config.Path())); err != nil {
		return err
	}
	logger.Info("Watching %s for processor setting changes", r.config.Path())

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Name != r.config.Path() {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(r.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				r.reload()
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error: %v", err)
		}
	}
}

// reload re-reads the config file and pushes processor settings into
// the registry.
func (r *ConfigReloader) reload() {
	if err := r.config.Load(); err != nil {
		logger.Warn("Reloading config: %v", err)
		return
	}

	applied := 0
	for _, status := range r.admin.Status() {
		update := r.updateFor(status.ID)
		if update == (domain.ConfigUpdate{}) {
			continue
		}
		if err := r.admin.UpdateConfig(status.ID, update); err != nil {
			logger.Warn("Applying config for %s: %v", status.ID, err)
			continue
		}
		applied++
	}
	if applied > 0 {
		logger.Info("Reloaded settings for %d processors", applied)
	}
}

// updateFor builds a ConfigUpdate from the config keys present for a
// processor. Absent keys leave the corresponding setting untouched.
func (r *ConfigReloader) updateFor(id string) domain.ConfigUpdate {
	var update domain.ConfigUpdate
	prefix := "processors." + id + "."

	if _, ok := r.config.Get(prefix + "weight"); ok {
		w := r.config.GetFloat(prefix + "weight")
		update.Weight = &w
	}
	if _, ok := r.config.Get(prefix + "threshold"); ok {
		th := r.config.GetFloat(prefix + "threshold")
		update.Threshold = &th
	}
	if v, ok := r.config.Get(prefix + "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			update.Enabled = &b
		}
	}
	return update
}
