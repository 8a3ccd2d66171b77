package english_test

import (
	"slices"
	"testing"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/analyzer/english"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		nouns    []string
		verbs    []string
		negative bool
	}{
		{
			name:  "subject verb object",
			text:  "the cat chases the mouse",
			nouns: []string{"cat", "mouse"},
			verbs: []string{"chase"},
		},
		{
			name:     "auxiliary negation",
			text:     "The dog does not like the cat.",
			nouns:    []string{"dog", "cat"},
			verbs:    []string{"like"},
			negative: true,
		},
		{
			name:     "copula with adjective",
			text:     "i am not happy",
			nouns:    []string{"i"},
			verbs:    []string{"be"},
			negative: true,
		},
		{
			name:  "question word is not a noun",
			text:  "what is your name",
			nouns: []string{"name"},
			verbs: []string{"be"},
		},
		{
			name:  "contraction and adjectives kept",
			text:  "She's eating a big red apple",
			nouns: []string{"she", "big red apple"},
			verbs: []string{"eat"},
		},
		{
			name:  "irregular past",
			text:  "I went to the park yesterday",
			nouns: []string{"i", "park"},
			verbs: []string{"go"},
		},
		{
			name:     "negated modal",
			text:     "we can't swim",
			nouns:    []string{"we"},
			verbs:    []string{"swim"},
			negative: true,
		},
		{
			name:  "unknown compound noun",
			text:  "i want ice cream",
			nouns: []string{"i", "ice cream"},
			verbs: []string{"want"},
		},
		{
			name:  "ambiguous word after pronoun is a verb",
			text:  "I love dogs. They run fast!",
			nouns: []string{"i", "dogs", "they"},
			verbs: []string{"love", "run"},
		},
		{
			name:  "inverted do-support question",
			text:  "Why did the boy eat the apple?",
			nouns: []string{"boy", "apple"},
			verbs: []string{"eat"},
		},
		{
			name:  "inverted progressive",
			text:  "is she sleeping",
			nouns: []string{"she"},
			verbs: []string{"sleep"},
		},
		{
			name:  "imperative",
			text:  "run",
			verbs: []string{"run"},
		},
		{
			name:     "negative determiner",
			text:     "i have no money",
			nouns:    []string{"i", "money"},
			verbs:    []string{"have"},
			negative: true,
		},
	}

	a := english.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := a.Analyze(tt.text)
			if !slices.Equal(got.Nouns, tt.nouns) {
				t.Errorf("Analyze(%q).Nouns = %q, want %q", tt.text, got.Nouns, tt.nouns)
			}
			if !slices.Equal(got.Verbs, tt.verbs) {
				t.Errorf("Analyze(%q).Verbs = %q, want %q", tt.text, got.Verbs, tt.verbs)
			}
			if got.Negative != tt.negative {
				t.Errorf("Analyze(%q).Negative = %v, want %v", tt.text, got.Negative, tt.negative)
			}
		})
	}
}

func TestAnalyze_Sentences(t *testing.T) {
	t.Parallel()

	got := english.New().Analyze("Hello there. How are you? Fine!")
	if len(got.Sentences) != 3 {
		t.Fatalf("Sentences = %q, want 3 entries", got.Sentences)
	}
	if got.Sentences[1] != "how are you?" {
		t.Errorf("Sentences[1] = %q, want %q", got.Sentences[1], "how are you?")
	}
}

func TestAnalyze_Empty(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "?!.", "..."} {
		got := english.New().Analyze(text)
		if len(got.Sentences) != 0 || len(got.Nouns) != 0 || len(got.Verbs) != 0 || got.Negative {
			t.Errorf("Analyze(%q) = %+v, want zero analysis", text, got)
		}
	}
}
