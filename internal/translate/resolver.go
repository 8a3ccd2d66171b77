// Package translate turns sentences into ordered sequences of sign assets.
//
// A [Resolver] applies a fixed precedence over the dictionary: an exact
// whole-phrase match, then a fuzzy whole-phrase match, then an independent
// lookup of every simplified token (exact, then fuzzy). Unresolvable tokens
// are kept in the output as results without an asset; "no sign" is a value,
// never an error. The only error surfaced is [dictionary.ErrNotReady].
//
// A [Pipeline] composes the sentence simplifier with a Resolver for callers
// that start from raw text or live speech transcripts.
package translate

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/dictionary"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

const (
	// DefaultPhraseThreshold is the fuzzy score a phrase candidate must stay
	// strictly below to be accepted.
	DefaultPhraseThreshold = 0.4

	// DefaultWordThreshold is the word counterpart of DefaultPhraseThreshold.
	// Word matching is looser than phrase matching.
	DefaultWordThreshold = 0.5
)

// Dictionary is the lookup surface the resolver needs.
type Dictionary interface {
	LookupPhrase(text string) (string, bool, error)
	LookupWord(text string) (string, bool, error)
	FuzzyPhrase(text string) (fuzzy.Candidate, bool, error)
	FuzzyWord(text string) (fuzzy.Candidate, bool, error)
}

var _ Dictionary = (*dictionary.Store)(nil)

// Thresholds are the fuzzy scores phrase and word candidates must stay
// strictly below to be accepted.
type Thresholds struct {
	Phrase float64
	Word   float64
}

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithPhraseThreshold sets the phrase acceptance threshold.
// Default: [DefaultPhraseThreshold].
func WithPhraseThreshold(t float64) Option {
	return func(r *Resolver) {
		r.initial.Phrase = t
	}
}

// WithWordThreshold sets the word acceptance threshold.
// Default: [DefaultWordThreshold].
func WithWordThreshold(t float64) Option {
	return func(r *Resolver) {
		r.initial.Word = t
	}
}

// WithMetrics sets the metrics recorder. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// Resolver maps raw input and its simplified tokens to sign results. It is
// safe for concurrent use when its Dictionary is.
type Resolver struct {
	dict       Dictionary
	initial    Thresholds
	thresholds atomic.Pointer[Thresholds]
	metrics    *observe.Metrics
}

// NewResolver returns a Resolver that looks signs up in d.
func NewResolver(d Dictionary, opts ...Option) *Resolver {
	r := &Resolver{
		dict:    d,
		initial: Thresholds{Phrase: DefaultPhraseThreshold, Word: DefaultWordThreshold},
	}
	for _, o := range opts {
		o(r)
	}
	r.SetThresholds(r.initial)
	if r.metrics == nil {
		r.metrics = observe.DefaultMetrics()
	}
	return r
}

// SetThresholds replaces the acceptance thresholds. Resolutions already in
// flight finish with the thresholds they started with.
func (r *Resolver) SetThresholds(t Thresholds) {
	r.thresholds.Store(&t)
}

// Thresholds returns the acceptance thresholds in use.
func (r *Resolver) Thresholds() Thresholds {
	return *r.thresholds.Load()
}

// Resolve returns the signs for raw. A phrase match yields exactly one
// result. Otherwise the output has one result per token, in token order,
// including tokens for which no sign exists.
func (r *Resolver) Resolve(ctx context.Context, raw string, tokens []string) ([]sign.Result, error) {
	th := r.Thresholds()
	if res, ok, err := r.resolvePhrase(raw, th.Phrase); err != nil {
		return nil, fmt.Errorf("translate: resolve phrase: %w", err)
	} else if ok {
		r.metrics.RecordLookup(ctx, string(res.Kind), string(res.Method))
		return []sign.Result{res}, nil
	}

	out := make([]sign.Result, 0, len(tokens))
	for _, tok := range tokens {
		res, err := r.resolveWord(tok, th.Word)
		if err != nil {
			return nil, fmt.Errorf("translate: resolve word %q: %w", tok, err)
		}
		r.metrics.RecordLookup(ctx, string(res.Kind), string(res.Method))
		out = append(out, res)
	}
	return out, nil
}

func (r *Resolver) resolvePhrase(raw string, threshold float64) (sign.Result, bool, error) {
	asset, ok, err := r.dict.LookupPhrase(raw)
	if err != nil {
		return sign.Result{}, false, err
	}
	if ok {
		return sign.Result{
			Kind:     sign.KindPhrase,
			Key:      dictionary.NormalizeKey(raw),
			AssetRef: asset,
			Found:    true,
			Method:   sign.MethodExact,
		}, true, nil
	}

	c, ok, err := r.dict.FuzzyPhrase(raw)
	if err != nil {
		return sign.Result{}, false, err
	}
	if !ok || c.Score >= threshold {
		return sign.Result{}, false, nil
	}
	asset, ok, err = r.dict.LookupPhrase(c.Key)
	if err != nil || !ok {
		return sign.Result{}, false, err
	}
	return sign.Result{
		Kind:     sign.KindPhrase,
		Key:      c.Key,
		AssetRef: asset,
		Found:    true,
		Method:   sign.MethodFuzzy,
		Score:    c.Score,
	}, true, nil
}

func (r *Resolver) resolveWord(tok string, threshold float64) (sign.Result, error) {
	res := sign.Result{Kind: sign.KindWord, Key: tok, OriginalToken: tok, Method: sign.MethodNone}

	asset, ok, err := r.dict.LookupWord(tok)
	if err != nil {
		return sign.Result{}, err
	}
	if ok {
		res.AssetRef, res.Found, res.Method = asset, true, sign.MethodExact
		return res, nil
	}

	c, ok, err := r.dict.FuzzyWord(tok)
	if err != nil {
		return sign.Result{}, err
	}
	if !ok || c.Score >= threshold {
		return res, nil
	}
	asset, ok, err = r.dict.LookupWord(c.Key)
	if err != nil {
		return sign.Result{}, err
	}
	if !ok {
		return res, nil
	}
	res.Key, res.AssetRef, res.Found, res.Method, res.Score = c.Key, asset, true, sign.MethodFuzzy, c.Score
	return res, nil
}
