// Package watch re-runs a function whenever one of a set of files changes.
//
// Directories are watched rather than the files themselves so that editors
// which save by writing a temp file and renaming it over the original keep
// triggering events. Bursts of events are coalesced into one call.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrNoPaths is returned when Watch is called without any file to watch.
var ErrNoPaths = errors.New("watch: no paths given")

// relevantOps are the operations that can change a watched file's contents.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch calls fn once per burst of changes to any of paths, waiting until
// debounce has passed without a further event. It blocks until ctx is done
// and then returns nil.
//
// Errors returned by fn are logged and watching continues. A nil log
// discards diagnostics.
func Watch(ctx context.Context, paths []string, debounce time.Duration, fn func(context.Context) error, log *zap.SugaredLogger) error {
	if len(paths) == 0 {
		return ErrNoPaths
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if debounce < 0 {
		debounce = 0
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	targets, err := addPaths(w, paths)
	if err != nil {
		return err
	}

	log.Infow("watching for changes",
		"paths", paths,
		"debounce_ms", debounce.Milliseconds(),
	)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infow("watcher stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return errors.New("watch: events channel closed")
			}
			if !event.Has(relevantOps) || !targets[filepath.Clean(event.Name)] {
				continue
			}
			log.Debugw("file event", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watch: errors channel closed")
			}
			log.Warnw("watcher error", "error", err)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				log.Errorw("re-run failed", "error", err)
			}
		}
	}
}

// addPaths registers each path's parent directory once and returns the set
// of cleaned absolute paths that events are filtered against.
func addPaths(w *fsnotify.Watcher, paths []string) (map[string]bool, error) {
	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		abs = filepath.Clean(abs)
		targets[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return targets, nil
}
