// Package fuzzy defines the approximate-matching capability used to search
// dictionary keys.
//
// A [Builder] turns a key set into an immutable [Index]; the index ranks
// keys against a query by a score in [0, 1] where 0 is an exact match and
// larger scores are worse. Acceptance thresholds are the caller's concern:
// an index returns its best candidates whenever it holds any keys.
//
// Implementations must make Index safe for concurrent use once built.
package fuzzy

// Candidate is one ranked search result.
type Candidate struct {
	// Key is the indexed key, exactly as passed to Build.
	Key string

	// Score is the distance between the query and Key in [0, 1]. 0 means
	// the two are identical.
	Score float64
}

// Index is an immutable search structure over a fixed key set.
type Index interface {
	// Search returns up to limit candidates ordered by ascending Score.
	// limit <= 0 returns every key. An empty index or an empty query
	// returns nil.
	Search(query string, limit int) []Candidate

	// Len reports the number of distinct indexed keys.
	Len() int
}

// Builder constructs an [Index] over a key set. Empty and duplicate keys
// are ignored.
type Builder interface {
	Build(keys []string) Index
}

// Best returns the top candidate of idx for query, if any.
func Best(idx Index, query string) (Candidate, bool) {
	if idx == nil {
		return Candidate{}, false
	}
	c := idx.Search(query, 1)
	if len(c) == 0 {
		return Candidate{}, false
	}
	return c[0], true
}
