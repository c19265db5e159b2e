package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/core/ports/driving"
	"github.com/fabulist-labs/descry/internal/logger"
)

const debounceDelay = 500 * time.Millisecond

// Watcher monitors a directory of chapter files and re-extracts
// descriptions whenever a chapter changes. Results are persisted to the
// description store keyed by the file's base name.
type Watcher struct {
	service  driving.ExtractionService
	store    driven.DescriptionStore
	opts     domain.ExtractOptions
	dir      string
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the delay between a file event and the
// re-extraction it triggers. Editors often emit several writes per save.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithExtractOptions sets the extraction options used for re-extraction.
func WithExtractOptions(opts domain.ExtractOptions) Option {
	return func(w *Watcher) {
		w.opts = opts
	}
}

// NewWatcher creates a watcher over dir. Only .txt files are considered
// chapters; everything else is ignored.
func NewWatcher(dir string, service driving.ExtractionService, store driven.DescriptionStore, opts ...Option) (*Watcher, error) {
	if dir == "" {
		return nil, domain.ErrInvalidInput
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, domain.ErrInvalidInput
	}

	w := &Watcher{
		service:  service,
		store:    store,
		opts:     domain.ExtractOptions{Mode: domain.ModeAdaptive},
		dir:      dir,
		debounce: debounceDelay,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches the directory until ctx is cancelled. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	logger.Info("Watching %s for chapter changes", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelTimers()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isChapterFile(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				w.schedule(ctx, event.Name)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				w.forget(ctx, event.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// schedule queues a debounced re-extraction for path. Rapid successive
// writes to the same file collapse into a single run.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path)
	})
}

func (w *Watcher) cancelTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// process re-extracts descriptions for a changed chapter file and
// persists the result.
func (w *Watcher) process(ctx context.Context, path string) {
	chapterID := chapterIDFor(path)
	logger.Info("Chapter changed: %s", chapterID)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	opts := w.opts
	opts.ChapterID = chapterID

	descs, err := w.service.Extract(ctx, string(data), opts)
	if err != nil {
		logger.Warn("Extracting %s: %v", chapterID, err)
		return
	}

	if err := w.store.SaveDescriptions(ctx, chapterID, descs); err != nil {
		logger.Warn("Saving %s: %v", chapterID, err)
		return
	}
	logger.Info("Stored %d descriptions for %s", len(descs), chapterID)
}

// forget drops stored results for a removed chapter file.
func (w *Watcher) forget(ctx context.Context, path string) {
	chapterID := chapterIDFor(path)
	if err := w.store.DeleteDescriptions(ctx, chapterID); err != nil {
		logger.Warn("Deleting %s: %v", chapterID, err)
		return
	}
	logger.Info("Chapter removed: %s", chapterID)
}

func isChapterFile(path string) bool {
	return filepath.Ext(path) == ".txt"
}

// chapterIDFor derives a chapter ID from a file path: the base name
// without extension.
func chapterIDFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
