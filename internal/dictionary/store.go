// Package dictionary holds the sign dictionaries: a phrase collection and a
// word collection, each mapping a normalised key to an asset reference, plus
// a fuzzy index over each key set.
//
// A [Store] is populated by [Store.Load], which builds a complete immutable
// snapshot and swaps it in atomically, so lookups never observe a partially
// loaded dictionary. Until the first load completes every lookup returns
// [ErrNotReady].
//
// Rows come from a [Source] (CSV files, SQLite or PostgreSQL tables) through
// a [Loader], which can also run the first load in the background and watch
// CSV files for changes.
package dictionary

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// ErrNotReady is returned by lookups issued before the first load has
// completed.
var ErrNotReady = errors.New("dictionary: not ready")

// LoadStats summarises one [Store.Load].
type LoadStats struct {
	// Phrases and Words are the number of distinct keys loaded.
	Phrases int `json:"phrases"`
	Words   int `json:"words"`

	// Skipped counts rows dropped for an empty key or asset reference.
	Skipped int `json:"skipped"`

	// Duplicates counts rows whose normalised key repeated an earlier row.
	// The later row wins.
	Duplicates int `json:"duplicates"`

	// Changes is the difference from the previously loaded dictionary.
	Changes Diff `json:"changes"`

	// LoadedAt is when the snapshot was swapped in.
	LoadedAt time.Time `json:"loaded_at"`
}

// table is one immutable collection.
type table struct {
	assets map[string]string
	// folded maps an accent-folded key back to its normalised key.
	folded map[string]string
	index  fuzzy.Index
}

type snapshot struct {
	phrases table
	words   table
	stats   LoadStats
}

// Store holds the loaded dictionaries. All methods are safe for concurrent
// use; lookups are lock-free.
type Store struct {
	builder fuzzy.Builder

	// loadMu serialises Load so diffs are computed against the snapshot
	// actually being replaced.
	loadMu    sync.Mutex
	snap      atomic.Pointer[snapshot]
	ready     chan struct{}
	readyOnce sync.Once
}

// New returns an empty Store whose fuzzy indexes are built by b.
func New(b fuzzy.Builder) *Store {
	return &Store{
		builder: b,
		ready:   make(chan struct{}),
	}
}

// Load replaces both collections and rebuilds both fuzzy indexes. Keys and
// asset references are trimmed and keys normalised; rows missing either
// are skipped and counted. Nothing of the previous load is kept.
func (s *Store) Load(phrases, words []sign.Entry) LoadStats {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	next := &snapshot{}
	var skippedP, dupP, skippedW, dupW int
	next.phrases, skippedP, dupP = s.buildTable(phrases)
	next.words, skippedW, dupW = s.buildTable(words)

	var prev snapshot
	if old := s.snap.Load(); old != nil {
		prev = *old
	}
	next.stats = LoadStats{
		Phrases:    len(next.phrases.assets),
		Words:      len(next.words.assets),
		Skipped:    skippedP + skippedW,
		Duplicates: dupP + dupW,
		Changes: Diff{
			Phrases: DiffAssets(prev.phrases.assets, next.phrases.assets),
			Words:   DiffAssets(prev.words.assets, next.words.assets),
		},
		LoadedAt: time.Now(),
	}

	s.snap.Store(next)
	s.readyOnce.Do(func() { close(s.ready) })
	return next.stats
}

func (s *Store) buildTable(entries []sign.Entry) (t table, skipped, duplicates int) {
	t.assets = make(map[string]string, len(entries))
	for _, e := range entries {
		key := NormalizeKey(e.Key)
		asset := strings.TrimSpace(e.AssetRef)
		if key == "" || asset == "" {
			skipped++
			continue
		}
		if _, dup := t.assets[key]; dup {
			duplicates++
		}
		t.assets[key] = asset
	}

	keys := make([]string, 0, len(t.assets))
	for k := range t.assets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	t.folded = make(map[string]string, len(keys))
	foldedKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		f := foldKey(k)
		if _, taken := t.folded[f]; taken {
			continue
		}
		t.folded[f] = k
		foldedKeys = append(foldedKeys, f)
	}
	t.index = s.builder.Build(foldedKeys)
	return t, skipped, duplicates
}

func (s *Store) current() (*snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// LookupPhrase returns the asset for an exact phrase key match.
func (s *Store) LookupPhrase(text string) (string, bool, error) {
	snap, err := s.current()
	if err != nil {
		return "", false, err
	}
	asset, ok := snap.phrases.assets[NormalizeKey(text)]
	return asset, ok, nil
}

// LookupWord returns the asset for an exact word key match.
func (s *Store) LookupWord(text string) (string, bool, error) {
	snap, err := s.current()
	if err != nil {
		return "", false, err
	}
	asset, ok := snap.words.assets[NormalizeKey(text)]
	return asset, ok, nil
}

// FuzzyPhrase returns the best fuzzy phrase candidate for text. The
// candidate's Key is a dictionary key usable with [Store.LookupPhrase]. It
// reports false when the phrase collection is empty.
func (s *Store) FuzzyPhrase(text string) (fuzzy.Candidate, bool, error) {
	snap, err := s.current()
	if err != nil {
		return fuzzy.Candidate{}, false, err
	}
	c, ok := snap.phrases.best(text)
	return c, ok, nil
}

// FuzzyWord is the word collection counterpart of [Store.FuzzyPhrase].
func (s *Store) FuzzyWord(text string) (fuzzy.Candidate, bool, error) {
	snap, err := s.current()
	if err != nil {
		return fuzzy.Candidate{}, false, err
	}
	c, ok := snap.words.best(text)
	return c, ok, nil
}

func (t table) best(text string) (fuzzy.Candidate, bool) {
	c, ok := fuzzy.Best(t.index, foldKey(NormalizeKey(text)))
	if !ok {
		return fuzzy.Candidate{}, false
	}
	key, ok := t.folded[c.Key]
	if !ok {
		return fuzzy.Candidate{}, false
	}
	c.Key = key
	return c, true
}

// Ready reports whether the first load has completed.
func (s *Store) Ready() bool {
	return s.snap.Load() != nil
}

// Done returns a channel that is closed when the first load completes.
func (s *Store) Done() <-chan struct{} {
	return s.ready
}

// Stats returns the statistics of the most recent load, and false before
// the first load.
func (s *Store) Stats() (LoadStats, bool) {
	snap := s.snap.Load()
	if snap == nil {
		return LoadStats{}, false
	}
	return snap.stats, true
}

// Entries returns a copy of the loaded phrase and word collections.
func (s *Store) Entries() (phrases, words []sign.Entry, err error) {
	snap, err := s.current()
	if err != nil {
		return nil, nil, err
	}
	return sortedEntries(snap.phrases.assets), sortedEntries(snap.words.assets), nil
}

func sortedEntries(assets map[string]string) []sign.Entry {
	out := make([]sign.Entry, 0, len(assets))
	for k, v := range assets {
		out = append(out, sign.Entry{Key: k, AssetRef: v})
	}
	slices.SortFunc(out, func(a, b sign.Entry) int { return strings.Compare(a.Key, b.Key) })
	return out
}
