package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/routegen/internal/utils"
)

// DefaultDebounce is how long the watcher waits for edits to settle
const DefaultDebounce = 300 * time.Millisecond

// ConfigLoader produces the configuration for each regeneration so edits to
// routegen.toml take effect without a restart
type ConfigLoader func() (Config, error)

// Watcher regenerates registries whenever Go sources under the watched
// directories change
type Watcher struct {
	generator   *Generator
	diagnostics *utils.DiagnosticSystem
	debounce    time.Duration
	runs        chan<- error
}

// NewWatcher creates a watcher that regenerates through generator
func NewWatcher(generator *Generator, diagnostics *utils.DiagnosticSystem) *Watcher {
	return &Watcher{
		generator:   generator,
		diagnostics: diagnostics,
		debounce:    DefaultDebounce,
	}
}

// SetDebounce changes the debounce period
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// NotifyRuns makes the watcher send the outcome of every regeneration to ch
func (w *Watcher) NotifyRuns(ch chan<- error) {
	w.runs = ch
}

// Watch generates once, then regenerates after every settled burst of
// changes until ctx is cancelled. Generation failures are reported and
// watching continues. Events are handled on the calling goroutine.
func (w *Watcher) Watch(ctx context.Context, load ConfigLoader) error {
	config, err := loadFinalized(load)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.syncDirectories(fsw, config); err != nil {
		return err
	}

	w.regenerate(config)
	w.diagnostics.Info("Watching %s for changes", strings.Join(config.Directories, ", "))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fsw.Add(event.Name); err != nil {
						w.diagnostics.Warn("Cannot watch %s: %v", event.Name, err)
					}
				}
			}
			if isRelevantEvent(event, config.OutputFile) {
				w.diagnostics.Debug("Change detected: %s %s", event.Op, event.Name)
				pending = time.After(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("Watcher error: %v", err)

		case <-pending:
			pending = nil
			reloaded, err := loadFinalized(load)
			if err != nil {
				w.generator.Reporter().ReportError(err)
				w.notify(err)
				continue
			}
			if err := w.syncDirectories(fsw, reloaded); err != nil {
				w.diagnostics.Warn("Cannot update watched directories: %v", err)
			}
			config = reloaded
			w.regenerate(config)
		}
	}
}

func (w *Watcher) regenerate(config Config) {
	// edits within one mtime tick can leave both mtime and size unchanged
	astFiles, contentFiles := w.generator.fileReader.CacheStats()
	w.diagnostics.Debug("Dropping %d cached ASTs and %d cached files", astFiles, contentFiles)
	w.generator.fileReader.ClearCache()

	err := w.generator.Run(config)
	if err != nil {
		w.generator.Reporter().ReportError(err)
	} else {
		summary := w.generator.GetSummary()
		if n := len(summary.GeneratedFiles) + len(summary.RemovedFiles); n > 0 {
			w.diagnostics.Success("Regenerated %d files", n)
		}
	}
	w.notify(err)
}

func (w *Watcher) notify(err error) {
	if w.runs != nil {
		w.runs <- err
	}
}

// syncDirectories makes fsw watch exactly the directories config covers
func (w *Watcher) syncDirectories(fsw *fsnotify.Watcher, config Config) error {
	wanted := make(map[string]bool)
	scanner := NewDirectoryScanner(config.OutputFile)
	err := scanner.WalkDirectories(config.Directories, func(dir string) error {
		wanted[filepath.Clean(dir)] = true
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, dir := range fsw.WatchList() {
		if wanted[filepath.Clean(dir)] {
			continue
		}
		w.diagnostics.Debug("No longer watching %s", dir)
		if err := fsw.Remove(dir); err != nil {
			w.diagnostics.Warn("Cannot stop watching %s: %v", dir, err)
		}
	}
	return nil
}

// isRelevantEvent ignores the generator's own writes, tests and non-Go files
func isRelevantEvent(event fsnotify.Event, outputFile string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	if base == ConfigFile {
		return true
	}
	return strings.HasSuffix(base, ".go") &&
		!strings.HasSuffix(base, "_test.go") &&
		base != outputFile
}

func loadFinalized(load ConfigLoader) (Config, error) {
	config, err := load()
	if err != nil {
		return Config{}, err
	}
	if err := config.Finalize(); err != nil {
		return Config{}, err
	}
	return config, nil
}
