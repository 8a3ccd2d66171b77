package phonetic_test

import (
	"math"
	"testing"

	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy/phonetic"
)

var allMetrics = []phonetic.Metric{
	phonetic.MetricBlend,
	phonetic.MetricJaroWinkler,
	phonetic.MetricLevenshtein,
	phonetic.MetricDamerau,
}

func TestIndex_ExactMatchScoresZero(t *testing.T) {
	t.Parallel()

	for _, m := range allMetrics {
		idx := phonetic.New(phonetic.WithMetric(m)).Build([]string{"good morning", "hello", "thank you"})
		got, ok := fuzzy.Best(idx, "hello")
		if !ok {
			t.Fatalf("%s: Best(hello) found nothing", m)
		}
		if got.Key != "hello" || got.Score != 0 {
			t.Errorf("%s: Best(hello) = %+v, want {hello 0}", m, got)
		}
	}
}

func TestIndex_RanksCloserKeyFirst(t *testing.T) {
	t.Parallel()

	idx := phonetic.New().Build([]string{"world", "help", "hello"})
	got := idx.Search("helo", 0)
	if len(got) != 3 {
		t.Fatalf("Search(helo) returned %d candidates, want 3", len(got))
	}
	if got[0].Key != "hello" {
		t.Errorf("Search(helo)[0] = %q, want %q", got[0].Key, "hello")
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score < got[i-1].Score {
			t.Errorf("Search(helo) not ascending at %d: %v", i, got)
		}
	}
	for _, c := range got {
		if c.Score < 0 || c.Score > 1 {
			t.Errorf("score for %q = %f, want within [0,1]", c.Key, c.Score)
		}
	}
}

func TestIndex_BlendPenalisesDissimilarSound(t *testing.T) {
	t.Parallel()

	// chase and cafe share c, a and e but no Double Metaphone code (XS vs
	// KF). Jaro-Winkler 0.805 and Levenshtein similarity 0.6 blend to
	// 0.7025, halved to 0.35125.
	idx := phonetic.New().Build([]string{"cafe"})
	got, ok := fuzzy.Best(idx, "chase")
	if !ok || got.Key != "cafe" {
		t.Fatalf("Best(chase) = (%+v, %v), want cafe", got, ok)
	}
	if want := 0.64875; math.Abs(got.Score-want) > 1e-9 {
		t.Errorf("Best(chase).Score = %v, want %v", got.Score, want)
	}
	if got.Score <= 0.5 {
		t.Errorf("Best(chase).Score = %v, want above the 0.5 word threshold", got.Score)
	}

	// Shared code HL: no penalty. Jaro-Winkler 0.95333 and Levenshtein
	// similarity 0.8.
	idx = phonetic.New().Build([]string{"hello"})
	got, _ = fuzzy.Best(idx, "helo")
	if want := 0.123333; math.Abs(got.Score-want) > 1e-6 {
		t.Errorf("Best(helo).Score = %v, want %v", got.Score, want)
	}

	// Only blend applies the penalty.
	idx = phonetic.New(phonetic.WithMetric(phonetic.MetricLevenshtein)).Build([]string{"cafe"})
	got, _ = fuzzy.Best(idx, "chase")
	if math.Abs(got.Score-0.4) > 1e-9 {
		t.Errorf("levenshtein Best(chase).Score = %v, want 0.4", got.Score)
	}
}

func TestIndex_Limit(t *testing.T) {
	t.Parallel()

	idx := phonetic.New().Build([]string{"a", "b", "c", "d"})
	if got := idx.Search("a", 2); len(got) != 2 {
		t.Errorf("Search(a, 2) returned %d candidates, want 2", len(got))
	}
	if got := idx.Search("a", 10); len(got) != 4 {
		t.Errorf("Search(a, 10) returned %d candidates, want 4", len(got))
	}
}

func TestIndex_TiesBreakByKey(t *testing.T) {
	t.Parallel()

	idx := phonetic.New(phonetic.WithMetric(phonetic.MetricLevenshtein)).Build([]string{"ad", "ac"})
	got := idx.Search("ab", 0)
	if len(got) != 2 || got[0].Key != "ac" || got[1].Key != "ad" {
		t.Errorf("Search(ab) = %v, want ac before ad", got)
	}
	if got[0].Score != 0.5 {
		t.Errorf("Search(ab)[0].Score = %f, want 0.5", got[0].Score)
	}
}

func TestIndex_EmptyInputs(t *testing.T) {
	t.Parallel()

	empty := phonetic.New().Build(nil)
	if empty.Len() != 0 {
		t.Errorf("Len() = %d, want 0", empty.Len())
	}
	if got := empty.Search("anything", 0); got != nil {
		t.Errorf("empty index Search = %v, want nil", got)
	}
	if _, ok := fuzzy.Best(empty, "anything"); ok {
		t.Error("Best on empty index reported a candidate")
	}

	idx := phonetic.New().Build([]string{"hello"})
	if got := idx.Search("   ", 0); got != nil {
		t.Errorf("blank query Search = %v, want nil", got)
	}
}

func TestBuild_SkipsEmptyAndDuplicateKeys(t *testing.T) {
	t.Parallel()

	idx := phonetic.New().Build([]string{"hello", "", "  ", "hello", "bye"})
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
}

func TestParseMetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    phonetic.Metric
		wantErr bool
	}{
		{"", phonetic.MetricBlend, false},
		{"blend", phonetic.MetricBlend, false},
		{" JaroWinkler ", phonetic.MetricJaroWinkler, false},
		{"levenshtein", phonetic.MetricLevenshtein, false},
		{"damerau", phonetic.MetricDamerau, false},
		{"soundex", "", true},
	}
	for _, tt := range tests {
		got, err := phonetic.ParseMetric(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMetric(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMetric(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
