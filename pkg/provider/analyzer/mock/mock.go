// Package mock provides a test double for the analyzer.Analyzer interface.
//
// Use Analyzer to script the Analysis returned for a given input and to
// inspect which texts were analysed.
//
// Example:
//
//	a := &mock.Analyzer{
//	    Results: map[string]analyzer.Analysis{
//	        "the cat chases the mouse": {Nouns: []string{"cat", "mouse"}, Verbs: []string{"chase"}},
//	    },
//	}
package mock

import (
	"sync"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/analyzer"
)

// Analyzer is a mock implementation of analyzer.Analyzer.
type Analyzer struct {
	mu sync.Mutex

	// Results maps an input text to the Analysis returned for it.
	Results map[string]analyzer.Analysis

	// Default is returned when the input is not present in Results.
	Default analyzer.Analysis

	// Calls records every text passed to Analyze, in order.
	Calls []string
}

// Analyze records the call and returns the scripted Analysis.
func (a *Analyzer) Analyze(text string) analyzer.Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, text)
	if r, ok := a.Results[text]; ok {
		return r
	}
	return a.Default
}

// Reset clears all recorded calls. Thread-safe.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = nil
}

// Ensure Analyzer implements analyzer.Analyzer at compile time.
var _ analyzer.Analyzer = (*Analyzer)(nil)
