// Package mock provides a test double for the gesture.Classifier interface.
//
// Classifier replays a scripted sequence of predictions, one per call:
//
//	c := &mock.Classifier{Steps: []mock.Step{
//	    {Event: sign.GestureEvent{Label: "hello", Confidence: 0.9}, OK: true},
//	    {Err: errors.New("camera unavailable")},
//	}}
package mock

import (
	"context"
	"sync"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/gesture"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// Step is one scripted Classify result.
type Step struct {
	Event sign.GestureEvent
	OK    bool
	Err   error
}

// Classifier is a mock implementation of gesture.Classifier. Once Steps is
// exhausted every call returns Fallback, which by default reports no
// prediction.
type Classifier struct {
	mu sync.Mutex

	// Steps is the scripted sequence of results.
	Steps []Step

	// Fallback is returned after Steps runs out.
	Fallback Step

	// CallCount is the number of Classify calls made.
	CallCount int
}

// Classify returns the next scripted step.
func (c *Classifier) Classify(_ context.Context) (sign.GestureEvent, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.CallCount
	c.CallCount++
	if i >= len(c.Steps) {
		return c.Fallback.Event, c.Fallback.OK, c.Fallback.Err
	}
	s := c.Steps[i]
	return s.Event, s.OK, s.Err
}

// Calls returns the number of Classify calls made. Thread-safe.
func (c *Classifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

// Reset clears the call count. Thread-safe.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
}

// Ensure Classifier implements gesture.Classifier at compile time.
var _ gesture.Classifier = (*Classifier)(nil)
