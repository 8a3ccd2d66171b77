package english

import "strings"

// verbLemma returns the infinitive of w and whether it is a known verb.
// Unknown words still get a best-effort suffix-stripped guess.
func verbLemma(w string) (string, bool) {
	if base, ok := auxiliaries[w]; ok {
		return base, true
	}
	if base, ok := irregularVerbs[w]; ok {
		return base, true
	}
	if _, ok := verbs[w]; ok {
		return w, true
	}
	for _, c := range verbCandidates(w) {
		if _, ok := verbs[c]; ok {
			return c, true
		}
	}
	if c := verbCandidates(w); len(c) > 0 {
		return c[0], false
	}
	return w, false
}

// verbCandidates lists possible base forms for an inflected verb, most
// likely first.
func verbCandidates(w string) []string {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return []string{w[:len(w)-3] + "y"}
	case strings.HasSuffix(w, "ied") && len(w) > 4:
		return []string{w[:len(w)-3] + "y"}
	case strings.HasSuffix(w, "es") && len(w) > 3:
		return []string{w[:len(w)-2], w[:len(w)-1]}
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 2:
		return []string{w[:len(w)-1]}
	case strings.HasSuffix(w, "ed") && len(w) > 3:
		stem := w[:len(w)-2]
		return stemCandidates(stem)
	case strings.HasSuffix(w, "ing") && len(w) > 4:
		stem := w[:len(w)-3]
		return stemCandidates(stem)
	}
	return nil
}

// stemCandidates expands a stripped -ed/-ing stem: as-is, with a restored
// final "e", and with a doubled final consonant undone.
func stemCandidates(stem string) []string {
	out := []string{stem, stem + "e"}
	if n := len(stem); n >= 2 && stem[n-1] == stem[n-2] && !isVowel(stem[n-1]) {
		out = append(out, stem[:n-1])
	}
	return out
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// isKnownNoun reports whether w or its singular form is in the noun lexicon.
func isKnownNoun(w string) bool {
	if _, ok := nouns[w]; ok {
		return true
	}
	if _, ok := irregularPlurals[w]; ok {
		return true
	}
	for _, c := range nounCandidates(w) {
		if _, ok := nouns[c]; ok {
			return true
		}
	}
	return false
}

func nounCandidates(w string) []string {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return []string{w[:len(w)-3] + "y"}
	case strings.HasSuffix(w, "es") && len(w) > 3:
		return []string{w[:len(w)-1], w[:len(w)-2]}
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 2:
		return []string{w[:len(w)-1]}
	}
	return nil
}

// isKnownVerbForm reports whether w is an inflected (not base) form of a
// known verb.
func isKnownVerbForm(w string) bool {
	if _, ok := irregularVerbs[w]; ok {
		return true
	}
	base, ok := verbLemma(w)
	return ok && base != w
}
