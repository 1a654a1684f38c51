package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"gemini-proxy-go/internal/constants"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher reloads the config file when it changes and hands the fresh
// Config to onChange. Callers decide which settings may change at runtime.
type Watcher struct {
	path     string
	onChange func(*Config)

	mu      sync.Mutex
	lastMod time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// NewWatcher returns nil when there is no file to watch.
func NewWatcher(path string, onChange func(*Config)) *Watcher {
	if path == "" || onChange == nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w := &Watcher{path: path, onChange: onChange, stopCh: make(chan struct{})}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}
	return w
}

// Start begins watching. It falls back to polling when fsnotify is unavailable.
func (w *Watcher) Start() {
	if w == nil {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("failed to create file watcher, falling back to polling")
		w.startPolling(constants.ConfigPollInterval)
		return
	}
	// Watch the directory too so atomic rename-style writes are seen.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		log.WithError(err).WithField("path", w.path).Warn("failed to watch config directory, falling back to polling")
		_ = watcher.Close()
		w.startPolling(constants.ConfigPollInterval)
		return
	}
	log.WithField("path", w.path).Info("config watcher started using fsnotify")

	go func() {
		defer watcher.Close()
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(constants.ConfigWatchDebounce, w.checkAndReload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("config watcher error")
			case <-w.stopCh:
				if debounce != nil {
					debounce.Stop()
				}
				return
			}
		}
	}()
}

// Stop terminates the watcher goroutine.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	w.once.Do(func() { close(w.stopCh) })
}

func (w *Watcher) startPolling(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.checkAndReload()
			case <-w.stopCh:
				return
			}
		}
	}()
}

func (w *Watcher) checkAndReload() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}
	w.mu.Lock()
	if !info.ModTime().After(w.lastMod) {
		w.mu.Unlock()
		return
	}
	w.lastMod = info.ModTime()
	w.mu.Unlock()

	cfg, err := LoadWithFile(w.path)
	if err != nil {
		log.WithError(err).WithField("path", w.path).Warn("failed to reload config")
		return
	}
	log.WithField("path", w.path).Info("config reloaded")
	w.onChange(cfg)
}
