package watcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/pydeploy/core/cache"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
)

type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher
}

func NewFileWatcher(targets []string, debounce time.Duration) (*FileWatcherImpl, error) {
	fw, err := models.NewFileWatcher(targets, debounce)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcherImpl{
		FileWatcher: fw,
	}, nil
}

// Watch blocks until ctx is done or the underlying watcher fails. Editors
// often replace files instead of writing them, so the containing directories
// are watched rather than the files themselves.
func (fw *FileWatcherImpl) Watch(ctx context.Context) error {
	for _, dir := range fw.FileWatcher.Dirs() {
		logger.Debug("Adding watcher for: %s", dir)
		if err := fw.FileWatcher.Watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", dir, err)
		}
	}

	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !fw.FileWatcher.IsTarget(event.Name) || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}

			logger.Debug("File event: %s %s", event.Op, event.Name)
			cache.GetCache().InvalidateFile(event.Name)
			fw.debounceChange(event.Name)

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) debounceChange(path string) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	fw.FileWatcher.Pending[path] = struct{}{}
	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, func() {
		changed := fw.takePending()
		logger.Debug("File changes detected: %v", changed)
		if err := fw.FileWatcher.OnChange(changed); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

func (fw *FileWatcherImpl) takePending() []string {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	changed := make([]string, 0, len(fw.FileWatcher.Pending))
	for p := range fw.FileWatcher.Pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	fw.FileWatcher.Pending = make(map[string]struct{})
	return changed
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}
