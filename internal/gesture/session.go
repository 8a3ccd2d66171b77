package gesture

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// ErrInactive is returned by [Session.Observe] while no gesture source is
// active, and by [Lease.Observe] once the lease's activation has ended.
var ErrInactive = errors.New("gesture: source inactive")

// ErrSourceBusy is returned by [Session.Acquire] when another gesture source
// is already active.
var ErrSourceBusy = errors.New("gesture: source already active")

// Event outcome labels recorded in metrics.
const (
	statusAccepted = "accepted"
	statusRejected = "rejected"
	statusInactive = "inactive"
)

// State is a point-in-time view of a [Session].
type State struct {
	Active  bool                `json:"active"`
	Current string              `json:"current"`
	History []sign.GestureEvent `json:"history"`
}

// SessionOption is a functional option for configuring a [Session].
type SessionOption func(*Session)

// WithThreshold sets the acceptance threshold. Default: [DefaultThreshold].
func WithThreshold(t float64) SessionOption {
	return func(s *Session) {
		s.threshold = t
	}
}

// WithHistorySize sets how many distinct labels are kept.
// Default: [DefaultHistorySize].
func WithHistorySize(n int) SessionOption {
	return func(s *Session) {
		s.historySize = n
	}
}

// WithMetrics sets the metrics recorder. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// Session owns an [Aggregator] and the lifecycle of the gesture source
// feeding it. A session starts Idle; [Session.Start] makes it Active and
// [Session.Stop] returns it to Idle and resets the aggregator.
//
// All methods are safe for concurrent use.
type Session struct {
	threshold   float64
	historySize int
	metrics     *observe.Metrics

	mu     sync.Mutex
	agg    *Aggregator
	active bool
	// gen numbers activations; a Lease is valid while its gen is current
	// and the session is active.
	gen uint64
}

// NewSession returns an idle Session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		threshold:   DefaultThreshold,
		historySize: DefaultHistorySize,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	s.agg = NewAggregator(s.threshold, s.historySize)
	return s
}

// Start activates the gesture source. It reports false if the source was
// already active.
func (s *Session) Start(ctx context.Context) bool {
	_, err := s.Acquire(ctx)
	return err == nil
}

// Acquire activates the gesture source and returns a [Lease] bound to this
// activation. It returns [ErrSourceBusy] if a source is already active.
func (s *Session) Acquire(ctx context.Context) (*Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return nil, ErrSourceBusy
	}
	s.active = true
	s.gen++
	s.metrics.ActiveGestureSources.Add(ctx, 1)
	observe.Logger(ctx).Info("gesture source started", "generation", s.gen)
	return &Lease{session: s, gen: s.gen}, nil
}

// Stop deactivates the gesture source, whoever started it, and clears all
// gesture state. It reports false if the source was already idle.
func (s *Session) Stop(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(ctx)
}

func (s *Session) stopLocked(ctx context.Context) bool {
	if !s.active {
		return false
	}
	s.active = false
	s.agg.Reset()
	s.metrics.ActiveGestureSources.Add(ctx, -1)
	observe.Logger(ctx).Info("gesture source stopped", "generation", s.gen)
	return true
}

// Lease is one activation of a [Session]'s gesture source, held by the
// poller or stream that started it. Once the session is stopped, by the
// lease or by anyone else, the lease is spent: its events are refused and
// releasing it no longer affects the session.
type Lease struct {
	session *Session
	gen     uint64
}

// Valid reports whether the lease's activation is still the current one.
func (l *Lease) Valid() bool {
	l.session.mu.Lock()
	defer l.session.mu.Unlock()
	return l.validLocked()
}

func (l *Lease) validLocked() bool {
	return l.session.active && l.session.gen == l.gen
}

// Observe feeds ev like [Session.Observe], but returns [ErrInactive] once
// the lease's activation has ended even if another source is now active.
func (l *Lease) Observe(ctx context.Context, ev sign.GestureEvent) (State, error) {
	s := l.session
	ev = sanitise(ev)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !l.validLocked() {
		s.metrics.RecordGestureEvent(ctx, statusInactive)
		return State{}, ErrInactive
	}
	return s.observeLocked(ctx, ev), nil
}

// Release stops the session if the lease's activation is still current. It
// reports whether it stopped anything.
func (l *Lease) Release(ctx context.Context) bool {
	s := l.session
	s.mu.Lock()
	defer s.mu.Unlock()
	if !l.validLocked() {
		return false
	}
	return s.stopLocked(ctx)
}

// SetThreshold changes the acceptance threshold without resetting the
// current state.
func (s *Session) SetThreshold(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = t
	s.agg.SetThreshold(t)
}

// Threshold returns the acceptance threshold in use.
func (s *Session) Threshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

// Active reports whether a gesture source is active.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Observe feeds ev to the aggregator on behalf of whichever source is
// active and returns the resulting state. Confidence is clamped to [0, 1]
// with NaN treated as 0, and the label is trimmed; an empty label counts
// as a rejected event.
func (s *Session) Observe(ctx context.Context, ev sign.GestureEvent) (State, error) {
	ev = sanitise(ev)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		s.metrics.RecordGestureEvent(ctx, statusInactive)
		return State{}, ErrInactive
	}
	return s.observeLocked(ctx, ev), nil
}

func (s *Session) observeLocked(ctx context.Context, ev sign.GestureEvent) State {
	ctx, span := observe.StartSpan(ctx, "gesture.Observe", observe.AttrGestureLabel.String(ev.Label))
	defer span.End()

	accepted := s.agg.Observe(ev)
	span.SetAttributes(observe.AttrGestureAccepted.Bool(accepted))
	if accepted {
		s.metrics.RecordGestureEvent(ctx, statusAccepted)
	} else {
		s.metrics.RecordGestureEvent(ctx, statusRejected)
	}
	return s.stateLocked()
}

func sanitise(ev sign.GestureEvent) sign.GestureEvent {
	ev.Label = strings.TrimSpace(ev.Label)
	ev.Confidence = clampConfidence(ev.Confidence)
	return ev
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		Active:  s.active,
		Current: s.agg.Current(),
		History: s.agg.History(),
	}
}

func clampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
