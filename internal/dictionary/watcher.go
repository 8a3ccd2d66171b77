package dictionary

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the dictionary when one of its files changes. It watches
// the parent directories so editors that save by rename are still seen.
// Events are debounced, and a reload only happens when a file's content
// hash changed.
type Watcher struct {
	loader   *Loader
	paths    []string
	debounce time.Duration
	onReload func(LoadStats)

	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// last known content hash per path; only touched by the run goroutine
	hashes map[string][sha256.Size]byte
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits after the last file event
// before checking for changes. The default is 250ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithOnReload registers a callback invoked after every successful reload.
func WithOnReload(fn func(LoadStats)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher starts watching paths and reloading through loader. The
// current file contents are taken as the baseline; NewWatcher does not
// load.
func NewWatcher(loader *Loader, paths []string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		loader:   loader,
		debounce: 250 * time.Millisecond,
		done:     make(chan struct{}),
		hashes:   make(map[string][sha256.Size]byte, len(paths)),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dictionary: create watcher: %w", err)
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("dictionary: watch %s: %w", p, err)
		}
		w.paths = append(w.paths, abs)
		if h, err := hashFile(abs); err == nil {
			w.hashes[abs] = h
		}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("dictionary: watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Stop stops the watcher and waits for an in-flight reload to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()
	})
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var settle <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.watched(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			settle = time.After(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("dictionary watcher: error", "err", err)
		case <-settle:
			settle = nil
			w.check()
		}
	}
}

func (w *Watcher) watched(name string) bool {
	name = filepath.Clean(name)
	for _, p := range w.paths {
		if p == name {
			return true
		}
	}
	return false
}

// check reloads when any watched file's content differs from the last
// known hash. A file that cannot be read (for example mid-rename) defers
// the check to the next event.
func (w *Watcher) check() {
	changed := false
	next := make(map[string][sha256.Size]byte, len(w.paths))
	for _, p := range w.paths {
		h, err := hashFile(p)
		if err != nil {
			slog.Debug("dictionary watcher: cannot read file", "path", p, "err", err)
			return
		}
		next[p] = h
		if old, ok := w.hashes[p]; !ok || old != h {
			changed = true
		}
	}
	if !changed {
		return
	}

	stats, err := w.loader.Load(context.Background())
	if err != nil {
		slog.Warn("dictionary watcher: reload failed, keeping previous dictionary", "err", err)
		return
	}
	w.hashes = next
	slog.Info("dictionary watcher: dictionary reloaded", "phrases", stats.Phrases, "words", stats.Words)
	if w.onReload != nil {
		w.onReload(stats)
	}
}

func hashFile(path string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
