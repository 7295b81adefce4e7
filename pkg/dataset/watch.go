package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long Watch waits after the last change to a dataset
// file before reloading. Editors often write a file in several steps.
const DefaultSettle = 200 * time.Millisecond

// Watch calls reload whenever a dataset file in dir is written, created,
// renamed or removed, once changes have settled. It watches the directory
// rather than the files so atomic replacements are seen. Reload errors are
// logged and watching continues. Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, settle time.Duration, reload func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating dataset watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close dataset watcher: %v", err)
		}
	}()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Infof("watching %s for dataset changes", dir)

	if settle <= 0 {
		settle = DefaultSettle
	}
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDatasetEvent(event) {
				continue
			}
			logger.Debugf("dataset changed: %s (event: %s)", event.Name, event.Op)
			timer.Reset(settle)
		case <-timer.C:
			if err := reload(ctx); err != nil {
				logger.Errorf("reloading datasets: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("dataset watcher error: %v", err)
		}
	}
}

func isDatasetEvent(event fsnotify.Event) bool {
	if !slices.Contains(Files, filepath.Base(event.Name)) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
