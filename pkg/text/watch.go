package text

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// StopWordWatcher reloads an analyzer's stop words when the file changes.
type StopWordWatcher struct {
	analyzer *Analyzer
	path     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// WatchStopWords loads path into the analyzer and keeps it in sync. The parent
// directory is watched so that editors which replace the file on save are
// picked up too.
func WatchStopWords(a *Analyzer, path string, logger *slog.Logger) (*StopWordWatcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sw, err := LoadStopWordsFile(path)
	if err != nil {
		return nil, err
	}
	a.SetStopWords(sw)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &StopWordWatcher{
		analyzer: a,
		path:     filepath.Clean(path),
		watcher:  watcher,
		logger:   logger,
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	logger.Info("watching stop words", "path", path, "words", sw.Len())
	return w, nil
}

func (w *StopWordWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("stop words watcher error", "error", err)
		}
	}
}

func (w *StopWordWatcher) reload() {
	sw, err := LoadStopWordsFile(w.path)
	if err != nil {
		w.logger.Warn("failed to reload stop words", "path", w.path, "error", err)
		return
	}
	w.analyzer.SetStopWords(sw)
	w.logger.Info("reloaded stop words", "path", w.path, "words", sw.Len())
}

// Close stops watching. It is safe to call more than once.
func (w *StopWordWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}
