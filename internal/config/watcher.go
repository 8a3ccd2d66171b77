package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk and hands every
// valid change to a callback together with its [ConfigDiff]. The callback
// decides what to apply live; see [ConfigDiff.Live].
//
// A file that fails to parse or validate is logged and ignored, so the last
// good config stays in effect.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(cfg *Config, d ConfigDiff)

	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu      sync.Mutex
	current *Config
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits after the last file event
// before reloading. The default is 250ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher watches path, treating current as the config already in
// effect. The parent directory is watched so editors that save by rename
// are still seen.
func NewWatcher(path string, current *Config, onChange func(cfg *Config, d ConfigDiff), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		debounce: 250 * time.Millisecond,
		onChange: onChange,
		current:  current,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Current returns the config most recently applied.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
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
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			settle = time.After(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher: error", "err", err)
		case <-settle:
			settle = nil
			w.reload()
		}
	}
}

// reload parses the file and, when the result differs from the current
// config, installs it and calls onChange.
func (w *Watcher) reload() {
	next, err := Load(w.path)
	if err != nil {
		slog.Warn("config watcher: reload failed, keeping previous config", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	d := Diff(w.current, next)
	if d.Empty() {
		w.mu.Unlock()
		return
	}
	w.current = next
	w.mu.Unlock()

	slog.Info("config watcher: configuration reloaded",
		"path", w.path,
		"log_level_changed", d.LogLevelChanged,
		"matching_changed", d.MatchingChanged,
		"gesture_threshold_changed", d.GestureThresholdChanged,
	)
	if w.onChange != nil {
		w.onChange(next, d)
	}
}
