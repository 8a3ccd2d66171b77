// Package mock provides test doubles for the fuzzy package interfaces.
//
// Builder records every key set it is asked to index and returns an Index
// whose results are scripted per query:
//
//	b := &mock.Builder{Results: map[string][]fuzzy.Candidate{
//	    "helo": {{Key: "hello", Score: 0.1}},
//	}}
//	idx := b.Build([]string{"hello"})
package mock

import (
	"sync"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy"
)

var (
	_ fuzzy.Builder = (*Builder)(nil)
	_ fuzzy.Index   = (*Index)(nil)
)

// Builder is a mock implementation of fuzzy.Builder.
type Builder struct {
	mu sync.Mutex

	// Results maps a query to the candidates every built Index returns.
	Results map[string][]fuzzy.Candidate

	// BuildCalls records the key set of every Build call in order.
	BuildCalls [][]string
}

// Build records the call and returns an Index sharing Results.
func (b *Builder) Build(keys []string) fuzzy.Index {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.BuildCalls = append(b.BuildCalls, append([]string(nil), keys...))
	return &Index{Results: b.Results, Keys: append([]string(nil), keys...)}
}

// Reset clears all recorded calls. Thread-safe.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.BuildCalls = nil
}

// Index is a mock implementation of fuzzy.Index.
type Index struct {
	mu sync.Mutex

	// Results maps a query to its scripted candidates.
	Results map[string][]fuzzy.Candidate

	// Keys is the key set the index was built from.
	Keys []string

	// SearchCalls records every queried string in order.
	SearchCalls []string
}

// Search records the call and returns the scripted candidates for query,
// truncated to limit.
func (i *Index) Search(query string, limit int) []fuzzy.Candidate {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.SearchCalls = append(i.SearchCalls, query)
	res := i.Results[query]
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return append([]fuzzy.Candidate(nil), res...)
}

// Len returns len(Keys).
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.Keys)
}
