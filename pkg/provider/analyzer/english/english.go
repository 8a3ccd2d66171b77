// Package english is a rule-based English implementation of
// [analyzer.Analyzer].
//
// Words are tagged from a small lexicon of closed-class and common
// open-class words, with suffix heuristics for anything unknown and a
// left-to-right pass that resolves noun/verb/adjective ambiguity from the
// surrounding words. Noun phrases are chunked with their determiners
// stripped and each verb group is reduced to the infinitive of its main
// verb.
package english

import (
	"strings"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/analyzer"
)

var _ analyzer.Analyzer = (*Analyzer)(nil)

// Analyzer tags English text. The zero value is ready to use and safe for
// concurrent use.
type Analyzer struct{}

// New returns an English [Analyzer].
func New() *Analyzer { return &Analyzer{} }

// Analyze implements [analyzer.Analyzer].
func (a *Analyzer) Analyze(text string) analyzer.Analysis {
	var out analyzer.Analysis
	for _, s := range splitSentences(text) {
		words := tokenize(s)
		if len(words) == 0 {
			continue
		}
		out.Sentences = append(out.Sentences, strings.ToLower(s))
		toks := tagSentence(words)
		out.Nouns = append(out.Nouns, nounPhrases(toks)...)
		out.Verbs = append(out.Verbs, verbGroups(toks)...)
		for _, w := range words {
			if isNegation(w) {
				out.Negative = true
			}
		}
	}
	return out
}

// nounPhrases returns the noun phrases of a tagged sentence in order.
// Determiners are dropped, adjectives and compound nouns are kept, and
// every pronoun is a phrase of its own.
func nounPhrases(toks []token) []string {
	var (
		out []string
		buf []string
		// last index in buf holding a noun, -1 when none
		lastNoun = -1
	)
	flush := func() {
		if lastNoun >= 0 {
			out = append(out, strings.Join(buf[:lastNoun+1], " "))
		}
		buf, lastNoun = buf[:0], -1
	}
	for _, t := range toks {
		switch t.tag {
		case tagNoun:
			buf = append(buf, t.text)
			lastNoun = len(buf) - 1
		case tagAdj:
			buf = append(buf, t.text)
		case tagPron:
			flush()
			out = append(out, t.text)
		default:
			flush()
		}
	}
	flush()
	return out
}

// verbGroup is a run of auxiliaries, negations and verbs, optionally
// interrupted by adverbs.
type verbGroup struct {
	mainVerb string
	lastAux  string
}

func (g verbGroup) lemma() string {
	if g.mainVerb != "" {
		base, _ := verbLemma(g.mainVerb)
		return base
	}
	return auxBase(g.lastAux)
}

// verbGroups returns one infinitive per verb group. The main verb is the
// group's last verb; a group with only auxiliaries yields the last
// auxiliary's base form, unless it is an inverted auxiliary whose main
// verb follows the subject ("did the boy eat", "is she sleeping").
func verbGroups(toks []token) []string {
	var groups []verbGroup
	for i := 0; i < len(toks); {
		if !toks[i].tag.has(tagAux | tagVerb) {
			i++
			continue
		}
		var g verbGroup
		j := i
	group:
		for ; j < len(toks); j++ {
			t := toks[j]
			switch {
			case t.tag == tagVerb:
				g.mainVerb = t.text
			case t.tag == tagAux:
				g.lastAux = t.text
			case t.tag == tagNeg:
			case t.tag == tagAdv && j+1 < len(toks) && toks[j+1].tag.has(tagAux|tagVerb|tagNeg):
			default:
				break group
			}
		}
		groups = append(groups, g)
		i = j
	}

	out := make([]string, 0, len(groups))
	for i, g := range groups {
		if g.mainVerb == "" && i+1 < len(groups) && inverted(auxBase(g.lastAux), groups[i+1]) {
			continue
		}
		out = append(out, g.lemma())
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// inverted reports whether an auxiliary with base form aux belongs to the
// main verb of the following group.
func inverted(aux string, next verbGroup) bool {
	form := next.mainVerb
	if form == "" || next.lastAux != "" {
		return false
	}
	switch aux {
	case "be":
		return strings.HasSuffix(form, "ing")
	case "have":
		return isKnownVerbForm(form) && !strings.HasSuffix(form, "s") && !strings.HasSuffix(form, "ing")
	default:
		base, _ := verbLemma(form)
		return base == form
	}
}

func auxBase(w string) string {
	if base, ok := auxiliaries[w]; ok {
		return base
	}
	return strings.TrimSuffix(w, "n't")
}
