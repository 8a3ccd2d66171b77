// Package resilience guards dictionary sources with circuit breakers and
// fails over between them.
//
// The central type is [Breaker], a three-state breaker
// (closed → open → half-open). [FallbackSource] composes an ordered list of
// dictionary sources, each behind its own breaker, so that a failing primary
// database is bypassed in favour of a secondary source until it recovers.
//
// All types are safe for concurrent use.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
)

// ErrCircuitOpen is returned by [Breaker.Execute] when the breaker is open
// and the reset timeout has not yet elapsed.
var ErrCircuitOpen = errors.New("resilience: circuit open")

// State is the operating mode of a [Breaker].
type State int

const (
	// StateClosed forwards every call.
	StateClosed State = iota

	// StateOpen rejects calls with [ErrCircuitOpen] until the reset timeout
	// elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probe calls through. Enough
	// successes close the breaker; any failure re-opens it.
	StateHalfOpen
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker defaults.
const (
	DefaultMaxFailures  = 3
	DefaultResetTimeout = 30 * time.Second
	DefaultHalfOpenMax  = 1
)

// BreakerConfig holds tuning knobs for a [Breaker]. Zero values select the
// defaults.
type BreakerConfig struct {
	// Name labels the breaker in log messages.
	Name string

	// MaxFailures is the number of consecutive failures that opens the
	// breaker.
	MaxFailures int

	// ResetTimeout is how long the breaker stays open before probing.
	ResetTimeout time.Duration

	// HalfOpenMax is the number of successful probes needed to close.
	HalfOpenMax int

	// Now is the clock. Default: time.Now.
	Now func() time.Time
}

// Breaker implements the circuit breaker pattern.
type Breaker struct {
	name         string
	maxFailures  int
	resetTimeout time.Duration
	halfOpenMax  int
	now          func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	openedAt  time.Time
	probes    int
	probeWins int
}

// NewBreaker creates a closed [Breaker].
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = DefaultResetTimeout
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = DefaultHalfOpenMax
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Breaker{
		name:         cfg.Name,
		maxFailures:  cfg.MaxFailures,
		resetTimeout: cfg.ResetTimeout,
		halfOpenMax:  cfg.HalfOpenMax,
		now:          cfg.Now,
	}
}

// Name returns the breaker's label.
func (b *Breaker) Name() string { return b.name }

// Execute runs fn unless the breaker is open. An error caused by ctx ending
// is returned as is and does not count as a failure.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	probe, err := b.allow(ctx)
	if err != nil {
		return err
	}
	err = fn(ctx)
	b.record(ctx, probe, err)
	return err
}

func (b *Breaker) allow(ctx context.Context) (probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.resetTimeout {
			return false, ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probes = 0
		b.probeWins = 0
		observe.Logger(ctx).Info("resilience: breaker half-open", "name", b.name)
		fallthrough
	case StateHalfOpen:
		if b.probes >= b.halfOpenMax {
			return false, ErrCircuitOpen
		}
		b.probes++
		return true, nil
	}
	return false, nil
}

func (b *Breaker) record(ctx context.Context, probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && ctx.Err() != nil {
		if probe && b.state == StateHalfOpen {
			b.probes--
		}
		return
	}

	if err == nil {
		switch {
		case probe && b.state == StateHalfOpen:
			b.probeWins++
			if b.probeWins >= b.halfOpenMax {
				b.state = StateClosed
				b.failures = 0
				observe.Logger(ctx).Info("resilience: breaker closed", "name", b.name)
			}
		case b.state == StateClosed:
			b.failures = 0
		}
		return
	}

	switch {
	case probe && b.state == StateHalfOpen:
		b.trip()
		observe.Logger(ctx).Warn("resilience: breaker re-opened", "name", b.name, "err", err)
	case b.state == StateClosed:
		b.failures++
		if n := b.failures; n >= b.maxFailures {
			b.trip()
			observe.Logger(ctx).Warn("resilience: breaker opened",
				"name", b.name,
				"consecutive_failures", n,
				"err", err,
			)
		}
	}
}

// trip opens the breaker. Must be called with b.mu held.
func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.failures = 0
}

// State returns the current state. An open breaker whose reset timeout has
// elapsed reports [StateHalfOpen]; the transition itself happens on the next
// [Breaker.Execute].
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.resetTimeout {
		return StateHalfOpen
	}
	return b.state
}

// Reset forces the breaker closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.probes = 0
	b.probeWins = 0
}
