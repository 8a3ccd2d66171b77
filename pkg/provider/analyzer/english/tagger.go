package english

import (
	"strings"
	"unicode"
)

// tag is a coarse part-of-speech tag.
type tag uint16

const (
	tagNone tag = 0
	tagNoun tag = 1 << iota
	tagPron
	tagVerb
	tagAux
	tagNeg
	tagDet
	tagAdj
	tagAdv
	tagPrep
	tagConj
	tagWh
)

// closedOrder is the precedence among closed-class tags when a word
// belongs to more than one.
var closedOrder = []tag{tagAux, tagNeg, tagWh, tagDet, tagPron, tagPrep, tagConj, tagAdv}

const closedMask = tagAux | tagNeg | tagWh | tagDet | tagPron | tagPrep | tagConj | tagAdv

func (t tag) has(o tag) bool { return t&o != 0 }

type token struct {
	text string
	tag  tag
}

// splitSentences cuts text on terminal punctuation. Empty fragments are
// dropped.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range text {
		b.WriteRune(r)
		switch r {
		case '.', '!', '?', '\n':
			flush()
		}
	}
	flush()
	return out
}

// tokenize lowercases s and splits it into word tokens, expanding pronoun
// contractions ("i'm" -> "i am") and dropping possessive "'s".
func tokenize(s string) []string {
	s = strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	raw := strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-')
	})
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.Trim(w, "'-")
		if w == "" {
			continue
		}
		out = append(out, expand(w)...)
	}
	return out
}

func expand(w string) []string {
	if _, ok := auxiliaries[w]; ok {
		return []string{w}
	}
	if strings.HasSuffix(w, "n't") {
		return []string{w}
	}
	base, suffix, ok := strings.Cut(w, "'")
	if !ok || base == "" {
		return []string{w}
	}
	switch suffix {
	case "m":
		return []string{base, "am"}
	case "re":
		return []string{base, "are"}
	case "ve":
		return []string{base, "have"}
	case "ll":
		return []string{base, "will"}
	case "d":
		return []string{base, "would"}
	case "s":
		if _, ok := possessiveBases[base]; ok {
			return []string{base, "is"}
		}
		return []string{base}
	}
	return []string{base}
}

func isNegation(w string) bool {
	if _, ok := negationMarkers[w]; ok {
		return true
	}
	return strings.HasSuffix(w, "n't")
}

// lexicalTags returns every tag w may carry out of context.
func lexicalTags(w string) tag {
	if _, ok := auxiliaries[w]; ok {
		return tagAux
	}
	if strings.HasSuffix(w, "n't") {
		return tagAux
	}
	if w == "not" || w == "never" {
		return tagNeg
	}
	if isNumber(w) {
		return tagDet
	}
	var t tag
	if _, ok := questionWords[w]; ok {
		t |= tagWh
	}
	if _, ok := determiners[w]; ok {
		t |= tagDet
	}
	if _, ok := pronouns[w]; ok {
		t |= tagPron
	}
	if _, ok := prepositions[w]; ok {
		t |= tagPrep
	}
	if _, ok := conjunctions[w]; ok {
		t |= tagConj
	}
	if _, ok := adverbs[w]; ok {
		t |= tagAdv
	}
	if isKnownNoun(w) {
		t |= tagNoun
	}
	if _, ok := verbLemma(w); ok {
		t |= tagVerb
	}
	if _, ok := adjectives[w]; ok {
		t |= tagAdj
	}
	if t == tagNone {
		t = guessTags(w)
	}
	return t
}

var (
	nounSuffixes = []string{"tion", "sion", "ness", "ment", "ity", "ance", "ence", "ship", "hood", "ism", "ist", "er", "or"}
	adjSuffixes  = []string{"ous", "ful", "less", "able", "ible", "ive", "ical", "ish"}
)

// guessTags tags a word missing from the lexicon by its shape.
func guessTags(w string) tag {
	switch {
	case strings.HasSuffix(w, "ly"):
		return tagAdv
	case strings.HasSuffix(w, "ing"):
		return tagVerb | tagNoun
	case strings.HasSuffix(w, "ed"):
		return tagVerb | tagAdj
	}
	for _, s := range nounSuffixes {
		if strings.HasSuffix(w, s) {
			return tagNoun
		}
	}
	for _, s := range adjSuffixes {
		if strings.HasSuffix(w, s) {
			return tagAdj
		}
	}
	if strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return tagNoun | tagVerb
	}
	return tagNoun
}

func isNumber(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return w != ""
}

// tagSentence assigns one tag per word, resolving ambiguity from the
// previous tag, the next word's candidates and whether the current clause
// has a subject still waiting for its verb.
func tagSentence(words []string) []token {
	cands := make([]tag, len(words))
	for i, w := range words {
		cands[i] = lexicalTags(w)
	}

	toks := make([]token, len(words))
	prev, prevWord := tagNone, ""
	subjectPending := false
	for i, w := range words {
		var next tag
		if i+1 < len(cands) {
			next = cands[i+1]
		}
		t := resolve(w, cands[i], prev, prevWord, next, subjectPending)
		toks[i] = token{text: w, tag: t}

		switch t {
		case tagNoun, tagPron:
			subjectPending = true
		case tagVerb, tagAux:
			subjectPending = false
		case tagConj:
			subjectPending = false
		}
		prev, prevWord = t, w
	}
	return toks
}

func resolve(w string, c, prev tag, prevWord string, next tag, subjectPending bool) tag {
	switch w {
	case "her":
		if next.has(tagNoun|tagAdj) && !next.has(tagVerb|tagAux) {
			return tagDet
		}
		if next.has(tagNoun) && !prev.has(tagPron|tagNoun) {
			return tagDet
		}
		return tagPron
	case "that":
		if next.has(tagNoun|tagAdj) && !next.has(tagVerb|tagAux|tagPron) {
			return tagDet
		}
		return tagConj
	case "like":
		if prev.has(tagPron|tagNoun|tagAux|tagNeg|tagAdv) || subjectPending {
			return tagVerb
		}
		return tagPrep
	}

	if c&closedMask != 0 {
		for _, t := range closedOrder {
			if c.has(t) {
				return t
			}
		}
	}

	hasN, hasV, hasA := c.has(tagNoun), c.has(tagVerb), c.has(tagAdj)
	if single(c) {
		return c
	}
	afterTo := prevWord == "to"
	afterBe := prev == tagAux && auxiliaries[prevWord] == "be"

	if hasV {
		switch {
		case afterBe && hasA && !isProgressive(w):
			return tagAdj
		case afterTo, prev == tagAux, prev == tagNeg, prev == tagPron:
			return tagVerb
		case prev == tagNone:
			if !hasN || !isInflected(w) {
				return tagVerb
			}
		case prev == tagWh:
			if isInflected(w) {
				return tagVerb
			}
		case subjectPending && prev != tagDet && prev != tagAdj && prev != tagPrep:
			return tagVerb
		}
	}
	if hasA && hasN {
		if next.has(tagNoun) {
			return tagAdj
		}
		if prev.has(tagDet|tagAdj|tagVerb|tagPrep) {
			return tagNoun
		}
		return tagAdj
	}
	if hasA && next.has(tagNoun) && !next.has(tagVerb) {
		return tagAdj
	}
	if hasN {
		return tagNoun
	}
	if hasA {
		return tagAdj
	}
	return tagVerb
}

func single(t tag) bool { return t != 0 && t&(t-1) == 0 }

func isInflected(w string) bool {
	return isKnownVerbForm(w) || strings.HasSuffix(w, "s") || strings.HasSuffix(w, "ed") || strings.HasSuffix(w, "ing")
}

func isProgressive(w string) bool {
	if !strings.HasSuffix(w, "ing") {
		return false
	}
	_, ok := verbLemma(w)
	return ok
}
