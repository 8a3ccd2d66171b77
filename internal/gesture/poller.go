package gesture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// DefaultPollInterval is the cadence at which a [Poller] queries its
// classifier.
const DefaultPollInterval = 300 * time.Millisecond

// Classifier is a black-box gesture recogniser, for example a model
// classifying the latest camera frame.
//
// Classify returns the current prediction. ok is false when there is
// nothing to report for this tick (no hand in frame, model still warming
// up). Implementations must be safe for use from a single goroutine at a
// time; the Poller never calls Classify concurrently.
type Classifier interface {
	Classify(ctx context.Context) (ev sign.GestureEvent, ok bool, err error)
}

// PollerOption is a functional option for configuring a [Poller].
type PollerOption func(*Poller)

// WithPollInterval sets the polling cadence. Default: [DefaultPollInterval].
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithClock overrides the time source used to stamp events that arrive
// without a timestamp. Intended for tests.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		p.now = now
	}
}

// Poller activates a [Session] and feeds it one classification per tick.
type Poller struct {
	session    *Session
	classifier Classifier
	interval   time.Duration
	now        func() time.Time
}

// NewPoller returns a Poller feeding s from c.
func NewPoller(s *Session, c Classifier, opts ...PollerOption) *Poller {
	p := &Poller{
		session:    s,
		classifier: c,
		interval:   DefaultPollInterval,
		now:        time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run starts the session's gesture source and polls until ctx is done or
// the source is stopped from outside, then releases its activation, which
// resets all gesture state unless another source has since taken over.
// Classifier errors are logged and the tick is skipped. Run returns nil on
// either exit and wraps [ErrSourceBusy] if another source is active.
func (p *Poller) Run(ctx context.Context) error {
	lease, err := p.session.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("gesture: poller: %w", err)
	}
	defer lease.Release(context.WithoutCancel(ctx))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !p.tick(ctx, lease) {
				observe.Logger(ctx).Info("gesture: poller source stopped externally, exiting")
				return nil
			}
		}
	}
}

// tick runs one classification and reports whether the lease is still
// current.
func (p *Poller) tick(ctx context.Context, lease *Lease) bool {
	ev, ok, err := p.classifier.Classify(ctx)
	if err != nil {
		if ctx.Err() == nil {
			observe.Logger(ctx).Warn("gesture: classifier failed, skipping tick", "err", err)
		}
		return lease.Valid()
	}
	if !ok {
		return lease.Valid()
	}
	if ev.TimestampMillis == 0 {
		ev.TimestampMillis = p.now().UnixMilli()
	}
	if _, err := lease.Observe(ctx, ev); err != nil {
		if errors.Is(err, ErrInactive) {
			return false
		}
		observe.Logger(ctx).Debug("gesture: event dropped", "err", err)
	}
	return true
}
