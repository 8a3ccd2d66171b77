package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/dictionary"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// ErrAllSourcesFailed is returned when every member of a [FallbackSource]
// fails or has an open breaker.
var ErrAllSourcesFailed = errors.New("resilience: all dictionary sources failed")

type member struct {
	source  dictionary.Source
	breaker *Breaker
}

// FallbackSource serves the dictionary from the first healthy member of an
// ordered list of sources. Each member sits behind its own [Breaker], so a
// primary that keeps failing is skipped without being queried until its
// reset timeout elapses.
type FallbackSource struct {
	name    string
	members []member
}

var (
	_ dictionary.Source      = (*FallbackSource)(nil)
	_ dictionary.Snapshotter = (*FallbackSource)(nil)
)

// NewFallbackSource returns a FallbackSource trying primary first and then
// fallbacks in order. cfg is applied to every member's breaker; the breaker
// name is the member's source name.
func NewFallbackSource(cfg BreakerConfig, primary dictionary.Source, fallbacks ...dictionary.Source) *FallbackSource {
	srcs := append([]dictionary.Source{primary}, fallbacks...)
	fs := &FallbackSource{members: make([]member, 0, len(srcs))}
	names := make([]string, 0, len(srcs))
	for _, src := range srcs {
		bc := cfg
		bc.Name = src.Name()
		fs.members = append(fs.members, member{source: src, breaker: NewBreaker(bc)})
		names = append(names, src.Name())
	}
	fs.name = strings.Join(names, ">")
	return fs
}

// Name implements [dictionary.Source]. It lists the members in order, for
// example "postgres>csv".
func (f *FallbackSource) Name() string { return f.name }

// Sources returns the members in order.
func (f *FallbackSource) Sources() []dictionary.Source {
	out := make([]dictionary.Source, len(f.members))
	for i, m := range f.members {
		out[i] = m.source
	}
	return out
}

// Breakers returns the members' breakers in member order.
func (f *FallbackSource) Breakers() []*Breaker {
	out := make([]*Breaker, len(f.members))
	for i, m := range f.members {
		out[i] = m.breaker
	}
	return out
}

// Snapshot implements [dictionary.Snapshotter]. Both collections come from
// the same member.
func (f *FallbackSource) Snapshot(ctx context.Context) (phrases, words []sign.Entry, err error) {
	err = f.each(ctx, "snapshot", func(ctx context.Context, src dictionary.Source) error {
		if snap, ok := src.(dictionary.Snapshotter); ok {
			p, w, err := snap.Snapshot(ctx)
			if err != nil {
				return err
			}
			phrases, words = p, w
			return nil
		}
		p, err := src.Phrases(ctx)
		if err != nil {
			return err
		}
		w, err := src.Words(ctx)
		if err != nil {
			return err
		}
		phrases, words = p, w
		return nil
	})
	return phrases, words, err
}

// Phrases implements [dictionary.Source].
func (f *FallbackSource) Phrases(ctx context.Context) ([]sign.Entry, error) {
	var out []sign.Entry
	err := f.each(ctx, "phrases", func(ctx context.Context, src dictionary.Source) error {
		var err error
		out, err = src.Phrases(ctx)
		return err
	})
	return out, err
}

// Words implements [dictionary.Source].
func (f *FallbackSource) Words(ctx context.Context) ([]sign.Entry, error) {
	var out []sign.Entry
	err := f.each(ctx, "words", func(ctx context.Context, src dictionary.Source) error {
		var err error
		out, err = src.Words(ctx)
		return err
	})
	return out, err
}

// each runs fn against members in order until one succeeds.
func (f *FallbackSource) each(ctx context.Context, op string, fn func(context.Context, dictionary.Source) error) error {
	log := observe.Logger(ctx)
	var errs []error
	for i, m := range f.members {
		err := m.breaker.Execute(ctx, func(ctx context.Context) error {
			return fn(ctx, m.source)
		})
		if err == nil {
			if i > 0 {
				log.Warn("resilience: dictionary served by fallback source", "op", op, "source", m.source.Name())
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrCircuitOpen) {
			log.Debug("resilience: skipping source, circuit open", "source", m.source.Name())
		} else {
			log.Warn("resilience: dictionary source failed, trying next", "op", op, "source", m.source.Name(), "err", err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", m.source.Name(), err))
	}
	return fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
}

// Close closes every member that implements [io.Closer].
func (f *FallbackSource) Close() error {
	var errs []error
	for _, m := range f.members {
		if c, ok := m.source.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", m.source.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
