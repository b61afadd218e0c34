// This file implements a file system watcher for the config file.
// Editors rewrite the file with several events in quick succession, so
// changes are debounced before the reload callback fires.

package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher watches the loaded config file and invokes a callback after
// edits settle. Mirror resolvers hook into the callback to invalidate
// their cached mirror when the mirror lists change.
type Watcher struct {
	path          string
	onChange      func(*Config)
	watcher       *fsnotify.Watcher
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, onChange func(*Config)) *Watcher {
	return &Watcher{
		path:          path,
		onChange:      onChange,
		debounceDelay: 2 * time.Second, // Wait 2 seconds after last change before reloading
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the config file for changes.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(w.path); err != nil {
		watcher.Close()
		return err
	}

	logrus.WithField("path", w.path).Info("Config watcher started")

	go w.processEvents()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.stopChan)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// processEvents processes file system events and schedules reloads.
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logrus.Errorf("Config watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Ignore Chmod events; they fire when the file is merely read.
	if event.Op == fsnotify.Chmod {
		return
	}

	hasRelevantOp := (event.Op&fsnotify.Create == fsnotify.Create) ||
		(event.Op&fsnotify.Write == fsnotify.Write) ||
		(event.Op&fsnotify.Rename == fsnotify.Rename)
	if !hasRelevantOp {
		return
	}

	// Editors replace the file on save; re-add the watch so renamed
	// files keep being observed.
	if event.Op&fsnotify.Rename == fsnotify.Rename {
		w.watcher.Add(w.path)
	}

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.reload)
	w.mu.Unlock()
}

// reload re-reads the config and hands it to the callback.
func (w *Watcher) reload() {
	cfg, err := Load()
	if err != nil {
		logrus.Errorf("Config reload error: %v", err)
		return
	}

	logrus.Info("Config reloaded")

	if w.onChange != nil {
		go w.onChange(cfg)
	}
}
