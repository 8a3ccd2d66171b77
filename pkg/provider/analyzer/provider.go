// Package analyzer defines the Analyzer interface for linguistic analysis
// backends used by the sentence simplifier.
//
// An Analyzer performs part-of-speech segmentation over a sentence and
// reports the minimal structure the simplifier needs: sentence boundaries,
// noun phrases, verbs in their base form, and whether the text carries a
// grammatical negation. Any tagging library or algorithm that can fill an
// [Analysis] is interchangeable; the simplifier never depends on a specific
// tagger's API shape.
//
// Implementations must be safe for concurrent use and must never panic on
// malformed input. Ungrammatical text simply yields fewer nouns or verbs.
package analyzer

// Analysis is the result of analysing a single piece of text.
type Analysis struct {
	// Sentences holds the input split into sentences, in order. Empty input
	// yields no sentences.
	Sentences []string

	// Nouns holds noun phrases in order of appearance, with leading
	// determiners removed (e.g. "the cat" is reported as "cat").
	Nouns []string

	// Verbs holds verbs in order of appearance, normalised to their
	// base (infinitive) form (e.g. "chases" is reported as "chase").
	Verbs []string

	// Negative reports whether any grammatical negation marker was tagged.
	Negative bool
}

// Analyzer is the abstraction over any part-of-speech tagging backend.
type Analyzer interface {
	// Analyze segments text and extracts its noun phrases, base-form verbs
	// and negation flag. text may be in any case and may contain
	// punctuation.
	Analyze(text string) Analysis
}
