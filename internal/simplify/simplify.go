// Package simplify reduces English sentences to the short, ordered token
// sequences that sign lookup works on.
//
// When the analyzer finds a subject, a verb and an object the sentence is
// rewritten in subject-object-verb order, with "not" placed before the verb
// for negated sentences. Anything else falls back to stop-word elision. In
// both paths a sentence-initial question word is appended at the end.
// Simplification never fails: input without recognisable structure
// degrades to the fallback path.
package simplify

import (
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/analyzer"
)

// Path identifies which strategy produced a [Result].
type Path string

const (
	PathSOV      Path = "sov"
	PathFallback Path = "fallback"
)

// NotToken is the literal token emitted for negated sentences.
const NotToken = "not"

var (
	questionWords = []string{"what", "where", "who", "when", "why", "how"}
	negationWords = []string{"not", "never", "don't", "doesn't", "didn't", "can't", "won't"}
	stopWords     = []string{"is", "am", "are", "the", "a", "an", "of", "to", "and", "in", "on", "do", "does", "did", "have", "has"}
)

// Result is a simplified sentence together with how it was produced.
type Result struct {
	// Tokens is the simplified sentence. Never nil.
	Tokens []string `json:"tokens"`

	// Path is the strategy that produced Tokens.
	Path Path `json:"path"`

	// Negated reports whether a negation cue was found.
	Negated bool `json:"negated"`

	// Question is the sentence-initial question word, or "".
	Question string `json:"question,omitempty"`

	// MultiNegation is set when more than one negation word occurs. Only a
	// single "not" is ever emitted for such sentences.
	MultiNegation bool `json:"multi_negation,omitempty"`
}

// Simplifier turns sentences into token sequences. It holds no mutable
// state and is safe for concurrent use when its analyzer is.
type Simplifier struct {
	analyzer analyzer.Analyzer
}

// New returns a Simplifier that extracts sentence structure with a.
func New(a analyzer.Analyzer) *Simplifier {
	return &Simplifier{analyzer: a}
}

// Simplify returns the simplified token sequence for text.
func (s *Simplifier) Simplify(text string) []string {
	return s.Analyze(text).Tokens
}

// Analyze simplifies text and reports which path ran.
func (s *Simplifier) Analyze(text string) Result {
	lower := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	if strings.TrimSpace(lower) == "" {
		return Result{Tokens: []string{}, Path: PathFallback}
	}

	a := s.analyzer.Analyze(lower)
	question := QuestionWord(lower)
	words := strings.Fields(stripPunctuation(lower))
	negCount := countNegations(words)

	res := Result{
		Negated:       a.Negative || negCount > 0,
		Question:      question,
		MultiNegation: negCount > 1,
	}
	if res.MultiNegation {
		slog.Debug("simplify: multiple negation cues, emitting a single not", "text", text, "count", negCount)
	}

	subject, object := subjectObject(a.Nouns)
	verb := ""
	if len(a.Verbs) > 0 {
		verb = a.Verbs[0]
	}

	if subject == "" || verb == "" || object == "" {
		res.Path = PathFallback
		res.Tokens = fallback(words, question)
		return res
	}

	res.Path = PathSOV
	res.Tokens = []string{subject, object, verb}
	if res.Negated {
		res.Tokens = slices.Insert(res.Tokens, 2, NotToken)
	}
	if question != "" {
		res.Tokens = append(res.Tokens, question)
	}
	return res
}

// subjectObject picks the first noun phrase as subject and the next one
// with different text as object.
func subjectObject(nouns []string) (subject, object string) {
	if len(nouns) == 0 {
		return "", ""
	}
	subject = strings.TrimSpace(nouns[0])
	for _, n := range nouns[1:] {
		if n = strings.TrimSpace(n); n != "" && n != subject {
			return subject, n
		}
	}
	return subject, ""
}

// fallback drops stop words, moves the first negation word to the end as
// "not" and appends the question word.
func fallback(words []string, question string) []string {
	out := make([]string, 0, len(words)+2)
	for _, w := range words {
		if !slices.Contains(stopWords, w) {
			out = append(out, w)
		}
	}
	if i := slices.IndexFunc(out, isNegationWord); i >= 0 {
		out = slices.Delete(out, i, i+1)
		out = append(out, NotToken)
	}
	if question != "" {
		out = append(out, question)
	}
	return out
}

// QuestionWord returns the question word text starts with, or "". The
// word must be followed by a non-letter, so "whatever" is not a question.
func QuestionWord(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	end := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(text)
	}
	first := text[:end]
	if slices.Contains(questionWords, first) {
		return first
	}
	return ""
}

func isNegationWord(w string) bool { return slices.Contains(negationWords, w) }

func countNegations(words []string) int {
	n := 0
	for _, w := range words {
		if isNegationWord(w) {
			n++
		}
	}
	return n
}

// stripPunctuation removes sentence punctuation, keeping apostrophes so
// contractions survive.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			return -1
		}
		return r
	}, s)
}
