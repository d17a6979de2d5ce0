package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DEBOUNCE_SECS = 5

// Watcher monitors the inbox path for new media files and emits events
type Watcher struct {
	watcher       *fsnotify.Watcher
	watchPath     string
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	running       bool
	stopChan      chan struct{}
	eventChan     chan<- FileEvent
}

// NewWatcher creates a new file system watcher
func NewWatcher(eventChan chan<- FileEvent) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:   watcher,
		eventChan: eventChan,
		stopChan:  make(chan struct{}),
	}, nil
}

// Start begins watching the inbox path for file changes
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting inbox watcher", "path", watchPath)

	if err := w.watcher.Add(watchPath); err != nil {
		return err
	}
	// Watch existing subdirectories too; new ones are added as they
	// appear.
	filepath.Walk(watchPath, func(p string, info os.FileInfo, err error) error {
		if err == nil && info.IsDir() && p != watchPath {
			if addErr := w.watcher.Add(p); addErr != nil {
				slog.Warn("Could not watch subdirectory", "path", p, "error", addErr)
			}
		}
		return nil
	})

	w.running = true

	go w.watchLoop(ctx)

	slog.Info("Inbox watcher started successfully")
	return nil
}

// Stop stops the file watcher
func (w *Watcher) Stop() {
	if !w.running {
		return
	}

	slog.Info("Stopping inbox watcher")
	w.running = false
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
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
			slog.Error("Inbox watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != fsnotify.Create {
		return
	}

	// New directories join the watch set instead of debouncing a scan.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if err := w.watcher.Add(event.Name); err != nil {
			slog.Warn("Could not watch new subdirectory", "path", event.Name, "error", err)
		}
		return
	}

	if !w.isSupportedFile(event.Name) {
		return
	}

	slog.Info("Detected new media file", "file", event.Name)

	// Start or reset the debounce timer
	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(time.Duration(DEBOUNCE_SECS)*time.Second, func() {
		w.emitDebounceEvent()
	})
}

// isSupportedFile checks if the file looks like a photo or video
func (w *Watcher) isSupportedFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	supportedExtensions := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".heic": true,
		".heif": true,
		".tiff": true,
		".dng":  true,
		".cr2":  true,
		".cr3":  true,
		".nef":  true,
		".arw":  true,
		".gif":  true,
		".webp": true,
		".mp4":  true,
		".mov":  true,
		".avi":  true,
		".mkv":  true,
		".m4v":  true,
		".3gp":  true,
	}
	_, supported := supportedExtensions[ext]
	return supported
}

// emitDebounceEvent emits a file event after debounce period
func (w *Watcher) emitDebounceEvent() {
	event := FileEvent{
		Path:      w.watchPath,
		EventType: FileCreated,
		Timestamp: time.Now(),
	}

	select {
	case w.eventChan <- event:
		slog.Info("Emitted inbox event after debounce", "path", event.Path)
	default:
		slog.Warn("Event channel full, dropping inbox event", "path", event.Path)
	}
}
