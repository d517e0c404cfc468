package monitoring

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DatasetWatcher reports edits to the training dataset. The model stays
// frozen; this only tells operators that a restart is needed to pick them up.
type DatasetWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	onChange func(fsnotify.Event)
	done     chan struct{}
}

// NewDatasetWatcher watches the directory holding path, so that editors
// which replace the file by rename are still seen. onChange may be nil.
func NewDatasetWatcher(path string, logger *zap.Logger, onChange func(fsnotify.Event)) (*DatasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &DatasetWatcher{
		path:     abs,
		watcher:  watcher,
		logger:   logger,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// Run consumes events until ctx is cancelled or Close is called.
func (w *DatasetWatcher) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Warn("dataset changed on disk; restart to retrain",
				zap.String("path", w.path),
				zap.String("op", event.Op.String()))
			if w.onChange != nil {
				w.onChange(event)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("dataset watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher. A running Run returns shortly after.
func (w *DatasetWatcher) Close() error {
	return w.watcher.Close()
}

// Done is closed once Run has returned.
func (w *DatasetWatcher) Done() <-chan struct{} {
	return w.done
}
