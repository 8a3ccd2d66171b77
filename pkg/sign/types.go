// Package sign defines the shared types used across the sign translation and
// gesture recognition packages.
//
// These types are the lingua franca between the dictionary store, the
// translation pipeline, the gesture aggregator and the HTTP surface. Each
// package keeps its own domain types; only cross-cutting data lives here.
package sign

// Entry is a single dictionary row mapping a lookup key to a visual asset.
// Keys are normalised (lowercased, trimmed) by the dictionary at load time.
type Entry struct {
	// Key is the phrase or word the asset represents.
	Key string `json:"key"`

	// AssetRef is an opaque path or URL to the sign visual. The core never
	// validates that the asset exists.
	AssetRef string `json:"asset_ref"`
}

// Kind tags a [Result] as a whole-phrase match or a per-token word match.
type Kind string

const (
	// KindPhrase marks a result produced by a whole-phrase lookup.
	KindPhrase Kind = "phrase"

	// KindWord marks a result produced by a per-token lookup.
	KindWord Kind = "word"
)

// Method records which lookup strategy produced a [Result].
type Method string

const (
	MethodExact Method = "exact"
	MethodFuzzy Method = "fuzzy"
	MethodNone  Method = "none"
)

// Result is one resolved sign. It is a tagged union keyed on Kind:
//
//   - KindPhrase: Key and AssetRef are always set; OriginalToken is empty.
//   - KindWord: OriginalToken is the simplified token that was looked up.
//     When Found is false no visual exists for the token and AssetRef is
//     empty. This is an expected outcome, not an error.
type Result struct {
	Kind Kind `json:"kind"`

	// Key is the dictionary key used for the asset lookup. For fuzzy matches
	// this is the matched dictionary key, not the caller's input.
	Key string `json:"key"`

	// AssetRef is the visual reference. Empty when Found is false.
	AssetRef string `json:"asset_ref,omitempty"`

	// Found reports whether AssetRef is present.
	Found bool `json:"found"`

	// OriginalToken is the token as produced by the simplifier. Word only.
	OriginalToken string `json:"original_token,omitempty"`

	// Method is the strategy that produced this result.
	Method Method `json:"method"`

	// Score is the fuzzy distance of the accepted candidate (0 = exact).
	Score float64 `json:"score"`
}

// GestureEvent is a single classification produced by the external gesture
// classifier. Events are ephemeral; the aggregator retains at most a handful.
type GestureEvent struct {
	// Label is the recognised sign.
	Label string `json:"label"`

	// Confidence is the classifier's confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// TimestampMillis is the capture time in Unix milliseconds.
	TimestampMillis int64 `json:"timestamp_ms"`
}

// Transcript is one unit of recognised speech handed over by an external
// speech-to-text capture. Partial transcripts are superseded by later ones.
type Transcript struct {
	// Text is the recognised speech.
	Text string `json:"text"`

	// IsFinal marks an authoritative transcript. Partial results may still
	// change and are not translated.
	IsFinal bool `json:"is_final"`

	// Confidence is the recogniser's overall confidence in [0, 1], or 0 when
	// the recogniser does not report one.
	Confidence float64 `json:"confidence,omitempty"`
}
