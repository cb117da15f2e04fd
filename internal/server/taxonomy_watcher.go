package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumatch/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// TaxonomyWatcher watches the taxonomy file for changes and triggers engine
// rebuilds. Editors and config-management tools usually replace the file
// atomically, so the parent directory is watched as well and events are
// debounced before the reload fires.
type TaxonomyWatcher struct {
	mu sync.RWMutex

	taxonomyFile string
	lastModTime  time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	reloadCallback func()
	logger         *errors.Logger

	running     bool
	reloadCount int
}

// NewTaxonomyWatcher creates a watcher for the given taxonomy file. The
// reload callback runs after changes settle for debounceDelay.
func NewTaxonomyWatcher(taxonomyFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*TaxonomyWatcher, error) {
	if taxonomyFile == "" {
		return nil, fmt.Errorf("taxonomy file path is required")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second // Default 1 second debounce
	}

	return &TaxonomyWatcher{
		taxonomyFile:   taxonomyFile,
		debounceDelay:  debounceDelay,
		stopChan:       make(chan struct{}),
		reloadChan:     make(chan struct{}, 1), // Buffered to prevent blocking
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// Start begins watching the taxonomy file for changes
func (tw *TaxonomyWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("taxonomy watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	tw.fsWatcher = watcher

	if stat, err := os.Stat(tw.taxonomyFile); err == nil {
		tw.lastModTime = stat.ModTime()
	} else if !os.IsNotExist(err) {
		tw.cleanupWatcher()
		return fmt.Errorf("failed to stat taxonomy file %s: %w", tw.taxonomyFile, err)
	}

	if err := tw.addFileToWatcher(); err != nil {
		tw.cleanupWatcher()
		return err
	}

	tw.running = true
	go tw.watchLoop()

	if tw.logger != nil {
		tw.logger.Info("Taxonomy file watcher started",
			"file", tw.taxonomyFile,
			"debounce_delay", tw.debounceDelay)
	}

	return nil
}

// cleanupWatcher closes the file watcher and logs any errors
func (tw *TaxonomyWatcher) cleanupWatcher() {
	if tw.fsWatcher != nil {
		if closeErr := tw.fsWatcher.Close(); closeErr != nil && tw.logger != nil {
			tw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

// addFileToWatcher adds the taxonomy file and its directory to the watcher
func (tw *TaxonomyWatcher) addFileToWatcher() error {
	if err := tw.fsWatcher.Add(tw.taxonomyFile); err != nil {
		// If the file doesn't exist yet, watch its directory instead
		if os.IsNotExist(err) {
			dir := filepath.Dir(tw.taxonomyFile)
			if err := tw.fsWatcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			if tw.logger != nil {
				tw.logger.Info("Watching directory for taxonomy file",
					"file", tw.taxonomyFile, "directory", dir)
			}
			return nil
		}
		return fmt.Errorf("failed to watch file %s: %w", tw.taxonomyFile, err)
	}

	// Also watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(tw.taxonomyFile)
	if err := tw.fsWatcher.Add(dir); err != nil {
		if tw.logger != nil {
			tw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// Stop stops the taxonomy file watcher
func (tw *TaxonomyWatcher) Stop() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.running {
		return nil
	}

	close(tw.stopChan)

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	if tw.fsWatcher != nil {
		if err := tw.fsWatcher.Close(); err != nil {
			if tw.logger != nil {
				tw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	tw.running = false

	if tw.logger != nil {
		tw.logger.Info("Taxonomy file watcher stopped")
	}

	return nil
}

// hasFileChanged checks if the taxonomy file has been modified since last check
func (tw *TaxonomyWatcher) hasFileChanged() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	stat, err := os.Stat(tw.taxonomyFile)
	if err != nil {
		if os.IsNotExist(err) && !tw.lastModTime.IsZero() {
			// File was deleted
			tw.lastModTime = time.Time{}
			return true
		}
		return false
	}

	if tw.lastModTime.IsZero() || stat.ModTime().After(tw.lastModTime) {
		tw.lastModTime = stat.ModTime()
		return true
	}

	return false
}

// watchLoop is the main event loop for file watching
func (tw *TaxonomyWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-tw.fsWatcher.Events:
			if !ok {
				return
			}

			if tw.shouldProcessEvent(event) {
				tw.scheduleReload()
			}

		case err, ok := <-tw.fsWatcher.Errors:
			if !ok {
				return
			}
			if tw.logger != nil {
				tw.logger.LogError(err, "File watcher error")
			}

		case <-tw.reloadChan:
			// Debounced reload trigger
			if tw.hasFileChanged() {
				if tw.logger != nil {
					tw.logger.Info("Taxonomy file changed, triggering reload",
						"file", tw.taxonomyFile)
				}
				tw.mu.Lock()
				tw.reloadCount++
				tw.mu.Unlock()
				tw.reloadCallback()
			}

		case <-tw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (tw *TaxonomyWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != tw.taxonomyFile &&
		filepath.Base(event.Name) != filepath.Base(tw.taxonomyFile) {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (tw *TaxonomyWatcher) scheduleReload() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	// Reset the debounce timer
	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, func() {
		select {
		case tw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (tw *TaxonomyWatcher) IsRunning() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.running
}

// WatchedFile returns the taxonomy file being watched
func (tw *TaxonomyWatcher) WatchedFile() string {
	return tw.taxonomyFile
}

// ReloadCount returns how many reloads the watcher has triggered
func (tw *TaxonomyWatcher) ReloadCount() int {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.reloadCount
}
