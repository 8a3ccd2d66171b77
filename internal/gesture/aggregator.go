// Package gesture turns a noisy stream of classified hand gestures into a
// stable "current sign" plus a short history of recently seen signs.
//
// The [Aggregator] is the smoothing state machine. It owns no timers: the
// gesture source decides the cadence by calling [Aggregator.Observe]. A
// [Session] adds the Idle/Active lifecycle and serialises access, a [Poller]
// drives a black-box [Classifier] at a fixed interval, and [StreamHandler]
// accepts pushed events over a websocket.
package gesture

import (
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

const (
	// DefaultThreshold is the confidence an event must strictly exceed to
	// become the current gesture.
	DefaultThreshold = 0.7

	// DefaultHistorySize is the number of distinct labels kept in history.
	DefaultHistorySize = 5
)

// Aggregator debounces gesture events. The history is a fixed arena of
// distinct labels ordered most recent first; a label seen again moves to the
// front instead of being duplicated.
//
// Aggregator is not safe for concurrent use. [Session] wraps it for callers
// that need that.
type Aggregator struct {
	threshold float64
	history   []sign.GestureEvent
	current   string
}

// NewAggregator returns an Aggregator that accepts events with confidence
// above threshold and keeps up to size labels. size < 1 is treated as 1.
func NewAggregator(threshold float64, size int) *Aggregator {
	size = max(size, 1)
	return &Aggregator{
		threshold: threshold,
		history:   make([]sign.GestureEvent, 0, size),
	}
}

// SetThreshold changes the acceptance threshold for subsequent events.
func (a *Aggregator) SetThreshold(t float64) {
	a.threshold = t
}

// Observe feeds one event and reports whether it was accepted. An event at
// or below the threshold clears the current gesture but leaves the history
// alone.
func (a *Aggregator) Observe(ev sign.GestureEvent) bool {
	if !(ev.Confidence > a.threshold) || ev.Label == "" {
		a.current = ""
		return false
	}
	a.current = ev.Label

	i := a.indexOf(ev.Label)
	if i < 0 {
		if len(a.history) < cap(a.history) {
			a.history = a.history[:len(a.history)+1]
		}
		i = len(a.history) - 1
	}
	copy(a.history[1:i+1], a.history[:i])
	a.history[0] = ev
	return true
}

func (a *Aggregator) indexOf(label string) int {
	for i, e := range a.history {
		if e.Label == label {
			return i
		}
	}
	return -1
}

// Current returns the current stable gesture label, or "" when the last
// event was rejected or nothing has been observed.
func (a *Aggregator) Current() string {
	return a.current
}

// History returns a copy of the retained events, most recent first.
func (a *Aggregator) History() []sign.GestureEvent {
	out := make([]sign.GestureEvent, len(a.history))
	copy(out, a.history)
	return out
}

// Reset clears the current gesture and the history.
func (a *Aggregator) Reset() {
	a.current = ""
	clear(a.history)
	a.history = a.history[:0]
}
