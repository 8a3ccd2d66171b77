package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/dictionary"
)

// ErrSourceNotRegistered is returned by [Registry.CreateSource] when no
// factory has been registered under the requested source name.
var ErrSourceNotRegistered = errors.New("config: dictionary source not registered")

// SourceFactory opens a dictionary source from its configuration block.
type SourceFactory func(ctx context.Context, cfg DictionaryConfig) (dictionary.Source, error)

// Registry maps dictionary source names to their constructor functions.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]SourceFactory
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]SourceFactory),
	}
}

// DefaultRegistry returns a [Registry] with the csv, sqlite and postgres
// sources registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterSource(SourceCSV, func(_ context.Context, cfg DictionaryConfig) (dictionary.Source, error) {
		return dictionary.NewCSVSource(cfg.PhrasesPath, cfg.WordsPath), nil
	})
	r.RegisterSource(SourceSQLite, func(ctx context.Context, cfg DictionaryConfig) (dictionary.Source, error) {
		src, err := dictionary.OpenSQLite(ctx, cfg.SQLitePath, cfg.PhraseTable, cfg.WordTable)
		if err != nil {
			return nil, err
		}
		return src, nil
	})
	r.RegisterSource(SourcePostgres, func(ctx context.Context, cfg DictionaryConfig) (dictionary.Source, error) {
		src, err := dictionary.OpenPostgres(ctx, cfg.PostgresDSN, cfg.PhraseTable, cfg.WordTable)
		if err != nil {
			return nil, err
		}
		return src, nil
	})
	return r
}

// RegisterSource registers a dictionary source factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterSource(name string, factory SourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = factory
}

// CreateSource instantiates the dictionary source registered under
// cfg.Source. Returns [ErrSourceNotRegistered] if no factory has been
// registered for that name.
func (r *Registry) CreateSource(ctx context.Context, cfg DictionaryConfig) (dictionary.Source, error) {
	r.mu.RLock()
	factory, ok := r.sources[cfg.Source]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSourceNotRegistered, cfg.Source)
	}
	return factory(ctx, cfg)
}

// Sources returns the registered source names in sorted order.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
