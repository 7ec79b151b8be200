package history

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external modifications of the history file, so a reader
// in another process (or another region of the same UI) can re-read the
// store. It is the terminal analog of the browser's storage event.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan struct{}
	done     chan struct{}
}

// Watch starts watching the store's file. The parent directory is watched
// so rewrites and recreations are seen as well.
func Watch(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		path:     store.Path(),
		debounce: 100 * time.Millisecond,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	if err := fsw.Add(filepath.Dir(store.Path())); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	go w.processEvents()

	return w, nil
}

// Changes delivers one signal per burst of file modifications. The channel
// holds at most one pending signal; readers re-read the store on receive.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce rapid write sequences into one signal.
			if timer == nil {
				timer = time.AfterFunc(w.debounce, w.notify)
			} else {
				timer.Reset(w.debounce)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are best-effort; the store remains readable.
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
