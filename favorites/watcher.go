package favorites

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-hydrates the overlay when another process writes the backing
// store file. Hydrating after our own writes is harmless since the store is
// always written through first.
type Watcher struct {
	overlay       *Overlay
	path          string
	debounceDelay time.Duration
	watcher       *fsnotify.Watcher
	stopChan      chan struct{}
	doneChan      chan struct{}

	mu           sync.Mutex
	pendingTimer *time.Timer
}

// NewWatcher creates a watcher for the store file at path.
func NewWatcher(overlay *Overlay, path string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		overlay:       overlay,
		path:          filepath.Clean(path),
		debounceDelay: debounce,
		watcher:       fsWatcher,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}, nil
}

// Start begins watching the store file's directory for changes. Watching
// the directory instead of the file survives rename-style rewrites.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	go w.processEvents()
	log.Printf("Favorites watcher started on %s", w.path)
	return nil
}

// Stop stops the watcher and waits for the event loop to finish.
func (w *Watcher) Stop() error {
	close(w.stopChan)
	<-w.doneChan

	w.mu.Lock()
	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}
	w.mu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Favorites watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.scheduleHydrate()
}

// scheduleHydrate collapses bursts of write events into one reload.
func (w *Watcher) scheduleHydrate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}
	w.pendingTimer = time.AfterFunc(w.debounceDelay, func() {
		if err := w.overlay.Hydrate(); err != nil {
			log.Printf("Failed to hydrate favorites: %v", err)
		}
	})
}
