// Package phonetic implements [fuzzy.Builder] on top of the matchr string
// metrics.
//
// Every key is prepared once at build time: its rune length and the Double
// Metaphone codes of its words are cached so that a search only runs the
// distance metric per key. Scores are 1 minus a similarity in [0, 1]:
//
//   - blend: mean of Jaro-Winkler and normalised Levenshtein similarity,
//     halved when the query and key share no Double Metaphone code (default)
//   - jarowinkler: Jaro-Winkler similarity
//   - levenshtein: 1 - edit distance / longer rune length
//   - damerau: as levenshtein, counting transpositions as one edit
//
// Candidates with equal scores are ordered by the number of Double Metaphone
// codes they share with the query (more first), then by key.
package phonetic

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy"
)

var (
	_ fuzzy.Builder = (*Builder)(nil)
	_ fuzzy.Index   = (*Index)(nil)
)

// mismatchFactor scales the blend similarity of keys that do not sound like
// the query.
const mismatchFactor = 0.5

// Metric selects the distance function used to score candidates.
type Metric string

const (
	MetricBlend       Metric = "blend"
	MetricJaroWinkler Metric = "jarowinkler"
	MetricLevenshtein Metric = "levenshtein"
	MetricDamerau     Metric = "damerau"
)

// ParseMetric returns the Metric named s. The empty string selects
// [MetricBlend].
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MetricBlend, nil
	case MetricBlend, MetricJaroWinkler, MetricLevenshtein, MetricDamerau:
		return m, nil
	default:
		return "", fmt.Errorf("phonetic: unknown metric %q", s)
	}
}

// Option is a functional option for configuring a [Builder].
type Option func(*Builder)

// WithMetric sets the scoring metric. Default: [MetricBlend].
func WithMetric(m Metric) Option {
	return func(b *Builder) {
		b.metric = m
	}
}

// Builder builds phonetic indexes. It is safe for concurrent use.
type Builder struct {
	metric Metric
}

// New returns a [Builder] configured with the supplied options.
func New(opts ...Option) *Builder {
	b := &Builder{metric: MetricBlend}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build implements [fuzzy.Builder].
func (b *Builder) Build(keys []string) fuzzy.Index {
	seen := make(map[string]struct{}, len(keys))
	idx := &Index{metric: b.metric, keys: make([]preparedKey, 0, len(keys))}
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		idx.keys = append(idx.keys, prepare(k))
	}
	slices.SortFunc(idx.keys, func(a, b preparedKey) int { return strings.Compare(a.key, b.key) })
	return idx
}

// preparedKey caches the per-key work a search would otherwise repeat.
type preparedKey struct {
	key   string
	runes int
	codes map[string]struct{}
}

func prepare(s string) preparedKey {
	return preparedKey{
		key:   s,
		runes: utf8.RuneCountInString(s),
		codes: codesForTokens(strings.Fields(s)),
	}
}

// Index is an immutable phonetic search index.
type Index struct {
	metric Metric
	keys   []preparedKey
}

// Len implements [fuzzy.Index].
func (i *Index) Len() int { return len(i.keys) }

// Search implements [fuzzy.Index].
func (i *Index) Search(query string, limit int) []fuzzy.Candidate {
	if len(i.keys) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	q := prepare(query)

	type ranked struct {
		fuzzy.Candidate
		overlap int
	}
	all := make([]ranked, 0, len(i.keys))
	for _, k := range i.keys {
		overlap := codesOverlap(q.codes, k.codes)
		all = append(all, ranked{
			Candidate: fuzzy.Candidate{Key: k.key, Score: i.score(q, k, overlap)},
			overlap:   overlap,
		})
	}
	slices.SortFunc(all, func(a, b ranked) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.overlap, a.overlap); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]fuzzy.Candidate, limit)
	for j := range out {
		out[j] = all[j].Candidate
	}
	return out
}

func (i *Index) score(q, k preparedKey, overlap int) float64 {
	if q.key == k.key {
		return 0
	}
	var sim float64
	switch i.metric {
	case MetricJaroWinkler:
		sim = matchr.JaroWinkler(q.key, k.key, false)
	case MetricLevenshtein:
		sim = editSimilarity(matchr.Levenshtein(q.key, k.key), q.runes, k.runes)
	case MetricDamerau:
		sim = editSimilarity(matchr.DamerauLevenshtein(q.key, k.key), q.runes, k.runes)
	default:
		jw := matchr.JaroWinkler(q.key, k.key, false)
		lev := editSimilarity(matchr.Levenshtein(q.key, k.key), q.runes, k.runes)
		sim = (jw + lev) / 2
		if overlap == 0 && len(q.codes) > 0 && len(k.codes) > 0 {
			sim *= mismatchFactor
		}
	}
	return clamp01(1 - sim)
}

// editSimilarity normalises an edit distance by the longer string length.
func editSimilarity(dist, a, b int) float64 {
	n := max(a, b)
	if n == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(n)
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// codesForTokens returns the union of the Double Metaphone codes of tokens.
// Empty codes are excluded.
func codesForTokens(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

// codesOverlap counts the codes present in both sets.
func codesOverlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for code := range a {
		if _, ok := b[code]; ok {
			n++
		}
	}
	return n
}
