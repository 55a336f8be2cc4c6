package models

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher is the state shared by a directory watch: the files it reacts
// to, the debounce timer and the lifecycle hooks.
type FileWatcher struct {
	Watcher       *fsnotify.Watcher
	RootDir       string
	Targets       map[string]struct{}
	Debounce      time.Duration
	DebounceTimer *time.Timer
	Pending       map[string]struct{}
	Mutex         sync.Mutex
	OnStart       func() error
	OnChange      func(changed []string) error
	OnClose       func() error
}

// NewFileWatcher watches the directory of the given files and reacts to
// changes of those files only.
func NewFileWatcher(targets []string, debounce time.Duration) (*FileWatcher, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		Watcher:  watcher,
		RootDir:  filepath.Dir(filepath.Clean(targets[0])),
		Targets:  make(map[string]struct{}, len(targets)),
		Debounce: debounce,
		Pending:  make(map[string]struct{}),
		OnStart:  func() error { return nil },
		OnChange: func([]string) error { return fmt.Errorf("OnChange not set") },
		OnClose:  func() error { return nil },
	}
	for _, t := range targets {
		fw.Targets[filepath.Clean(t)] = struct{}{}
	}
	return fw, nil
}

func (fw *FileWatcher) AddOnStartFunc(onStart func() error) {
	fw.OnStart = onStart
}

func (fw *FileWatcher) AddOnChangeFunc(onChange func(changed []string) error) {
	fw.OnChange = onChange
}

func (fw *FileWatcher) AddOnCloseFunc(onClose func() error) {
	fw.OnClose = onClose
}

func (fw *FileWatcher) IsTarget(path string) bool {
	_, ok := fw.Targets[filepath.Clean(path)]
	return ok
}

// Dirs lists every directory holding a target, each once.
func (fw *FileWatcher) Dirs() []string {
	seen := map[string]struct{}{}
	var dirs []string
	for t := range fw.Targets {
		dir := filepath.Dir(t)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
