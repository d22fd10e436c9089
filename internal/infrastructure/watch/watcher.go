package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PlanWatcher watches a workspace's .flowplan directory and fires when a
// plan snapshot is written. Rapid writes (drag interactions autosaving)
// coalesce into one recompute.
type PlanWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	onChange func(planID string)
}

// NewPlanWatcher creates a watcher over the given .flowplan directory.
func NewPlanWatcher(dir string, debounce time.Duration, onChange func(planID string)) (*PlanWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &PlanWatcher{
		watcher:  w,
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *PlanWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	debouncer := NewPlanDebouncer(w.debounce, func(planID string) {
		if w.onChange != nil {
			w.onChange(planID)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			planID, ok := planIDFromPath(event.Name)
			if !ok {
				continue
			}
			debouncer.Trigger(planID)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// planIDFromPath extracts the plan ID from a snapshot filename like
// plan-<id>.json; other files in the workspace are ignored.
func planIDFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "plan-") || !strings.HasSuffix(name, ".json") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, "plan-"), ".json"), true
}
