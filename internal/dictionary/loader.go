package dictionary

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// Loader fills a [Store] from a [Source]. A failed load leaves the store's
// current dictionary untouched.
type Loader struct {
	store   *Store
	source  Source
	metrics *observe.Metrics
}

// LoaderOption is a functional option for configuring a [Loader].
type LoaderOption func(*Loader)

// WithMetrics sets the metrics recorder. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) LoaderOption {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader returns a Loader that reads src into store.
func NewLoader(store *Store, src Source, opts ...LoaderOption) *Loader {
	l := &Loader{store: store, source: src}
	for _, o := range opts {
		o(l)
	}
	if l.metrics == nil {
		l.metrics = observe.DefaultMetrics()
	}
	return l
}

// Store returns the store the loader fills.
func (l *Loader) Store() *Store { return l.store }

// Source returns the source the loader reads.
func (l *Loader) Source() Source { return l.source }

// Load reads both collections and replaces the store's dictionary with
// them. Collections are read concurrently unless the source is a
// [Snapshotter].
func (l *Loader) Load(ctx context.Context) (LoadStats, error) {
	phrases, words, err := l.read(ctx)
	if err != nil {
		l.metrics.RecordDictionaryLoad(ctx, l.source.Name(), "error", 0)
		return LoadStats{}, fmt.Errorf("dictionary: load from %s: %w", l.source.Name(), err)
	}

	stats := l.store.Load(phrases, words)
	l.metrics.RecordDictionaryLoad(ctx, l.source.Name(), "ok", stats.Skipped)

	log := observe.Logger(ctx)
	log.Info("dictionary loaded",
		"source", l.source.Name(),
		"phrases", stats.Phrases,
		"words", stats.Words,
		"skipped", stats.Skipped,
		"duplicates", stats.Duplicates,
	)
	if !stats.Changes.Empty() {
		log.Info("dictionary changed",
			"phrases_added", len(stats.Changes.Phrases.Added),
			"phrases_removed", len(stats.Changes.Phrases.Removed),
			"phrases_changed", len(stats.Changes.Phrases.Changed),
			"words_added", len(stats.Changes.Words.Added),
			"words_removed", len(stats.Changes.Words.Removed),
			"words_changed", len(stats.Changes.Words.Changed),
		)
	}
	if stats.Skipped > 0 {
		slog.Debug("dictionary rows skipped for missing key or filename", "source", l.source.Name(), "count", stats.Skipped)
	}
	return stats, nil
}

func (l *Loader) read(ctx context.Context) (phrases, words []sign.Entry, err error) {
	if snap, ok := l.source.(Snapshotter); ok {
		return snap.Snapshot(ctx)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		phrases, err = l.source.Phrases(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		words, err = l.source.Words(gctx)
		return err
	})
	return phrases, words, g.Wait()
}

// LoadAsync runs [Loader.Load] in a new goroutine. The returned channel
// receives the load error (nil on success) and is then closed. Callers gate
// lookups on [Store.Done] or [Store.Ready].
func (l *Loader) LoadAsync(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		_, err := l.Load(ctx)
		if err != nil {
			slog.Error("dictionary: async load failed", "source", l.source.Name(), "err", err)
		}
		errc <- err
	}()
	return errc
}
