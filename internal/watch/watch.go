// Package watch reloads tomo's config files while a session is running.
package watch

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fakeyudi/tomo/internal/config"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// ErrNothingToWatch is returned when none of the watched files' directories exist.
var ErrNothingToWatch = errors.New("watch: no config directory to watch")

// Watcher reloads config whenever one of Paths is written, created, or
// replaced. Directories are watched rather than files so atomic
// rename-on-save editors are seen.
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	// Load defaults to config.Load.
	Load func() (config.Config, error)
	// OnChange receives every successfully reloaded config.
	OnChange func(config.Config)
}

// Paths returns the global config file and the project override file.
func Paths() []string {
	var paths []string
	if p, err := config.GlobalPath(); err == nil {
		paths = append(paths, p)
	}
	if abs, err := filepath.Abs(config.ProjectFile); err == nil {
		paths = append(paths, abs)
	}
	return paths
}

// Run blocks until ctx is cancelled. Parse errors are logged and the previous
// config stays in effect.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets := make(map[string]bool, len(w.Paths))
	dirs := make(map[string]bool)
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}
	if len(dirs) == 0 {
		return ErrNothingToWatch
	}

	load := w.Load
	if load == nil {
		load = config.Load
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !targets[name] {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			cfg, err := load()
			if err != nil {
				log.Printf("watch: reload skipped: %v", err)
				continue
			}
			if w.OnChange != nil {
				w.OnChange(cfg)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		}
	}
}
