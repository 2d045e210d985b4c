package settings

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the snapshot from path whenever the file changes and
// invokes onReload (used by the orchestrator to publish a settings-changed
// event on the bus, per §4.10 "On settings change: ..."). It returns a
// stop function; call it during shutdown.
//
// Grounded on the watcher-goroutine/select-loop shape used to react to
// external config changes in the retrieval pack's desktop examples.
func Watch(log *slog.Logger, path string, onReload func(*Snapshot)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				snap, err := Load(path)
				if err != nil {
					log.Warn("settings reload failed", "error", err)
					continue
				}
				log.Info("settings reloaded")
				if onReload != nil {
					onReload(snap)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("settings watcher error", "error", err)
			case <-done:
				return
			}
		}
	}()

	stop = func() {
		close(done)
		watcher.Close()
	}
	return stop, nil
}
