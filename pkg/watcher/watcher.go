package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher calls back when any file of the current watch set changes.
// Bursts of events within the debounce window collapse into one callback.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration

	mu       sync.Mutex
	files    map[string]struct{}
	callback func(string)
	timer    *time.Timer
	done     chan struct{}
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, log *zap.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &FileWatcher{
		watcher:  watcher,
		log:      log,
		debounce: debounce,
		files:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Watch replaces the watch set with files. callback receives the path of the
// file that changed.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.clear()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if err := fw.watcher.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		fw.files[absPath] = struct{}{}
	}
	fw.callback = callback

	fw.log.Debug("watching files", zap.Strings("files", files))
	return nil
}

// Start begins delivering change events
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fw.handleFileChange(event.Name)
				}
				// editors that save by rename drop the inotify watch
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					fw.rewatch(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.log.Warn("watcher error", zap.Error(err))

			case <-fw.done:
				return
			}
		}
	}()
}

func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, ok := fw.files[filePath]; !ok || fw.callback == nil {
		return
	}

	if fw.timer != nil {
		fw.timer.Stop()
	}
	callback := fw.callback
	fw.timer = time.AfterFunc(fw.debounce, func() {
		fw.log.Info("file changed", zap.String("file", filePath))
		callback(filePath)
	})
}

func (fw *FileWatcher) rewatch(filePath string) {
	time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		_, ok := fw.files[filePath]
		fw.mu.Unlock()
		if !ok {
			return
		}
		if err := fw.watcher.Add(filePath); err != nil {
			fw.log.Debug("file not back yet", zap.String("file", filePath), zap.Error(err))
			return
		}
		fw.handleFileChange(filePath)
	})
}

// Files returns the watched paths
func (fw *FileWatcher) Files() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	files := make([]string, 0, len(fw.files))
	for f := range fw.files {
		files = append(files, f)
	}
	return files
}

// RemoveAll empties the watch set
func (fw *FileWatcher) RemoveAll() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.clear()
}

func (fw *FileWatcher) clear() {
	for file := range fw.files {
		// already gone when the file was deleted
		_ = fw.watcher.Remove(file)
	}
	fw.files = make(map[string]struct{})
	fw.callback = nil
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	close(fw.done)
	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}
