package translate_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/dictionary"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/simplify"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/translate"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/analyzer/english"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/provider/fuzzy/phonetic"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

func newPipeline(t *testing.T, loaded bool) *translate.Pipeline {
	t.Helper()
	store := dictionary.New(phonetic.New())
	if loaded {
		store.Load(
			[]sign.Entry{{Key: "good morning", AssetRef: "phrases/good-morning.mp4"}},
			[]sign.Entry{
				{Key: "cat", AssetRef: "words/cat.png"},
				{Key: "mouse", AssetRef: "words/mouse.png"},
				{Key: "chase", AssetRef: "words/chase.png"},
			},
		)
	}
	m, _ := newTestMetrics(t)
	return translate.NewPipeline(
		simplify.New(english.New()),
		translate.NewResolver(store, translate.WithMetrics(m)),
		translate.WithPipelineMetrics(m),
	)
}

func TestTranslate_Sentence(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, true)
	tr, err := p.Translate(context.Background(), "The cat chases the mouse")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if want := []string{"cat", "mouse", "chase"}; !slices.Equal(tr.Tokens, want) {
		t.Fatalf("Tokens = %v, want %v", tr.Tokens, want)
	}
	if tr.Path != simplify.PathSOV {
		t.Errorf("Path = %q, want %q", tr.Path, simplify.PathSOV)
	}
	if len(tr.Signs) != 3 {
		t.Fatalf("Signs = %+v, want 3", tr.Signs)
	}
	for i, s := range tr.Signs {
		if !s.Found || s.Method != sign.MethodExact || s.Key != tr.Tokens[i] {
			t.Errorf("sign[%d] = %+v, want exact match for %q", i, s, tr.Tokens[i])
		}
	}
	if missing := tr.Missing(); len(missing) != 0 {
		t.Errorf("Missing = %v, want none", missing)
	}
}

func TestTranslate_Phrase(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, true)
	tr, err := p.Translate(context.Background(), "Good morning")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(tr.Signs) != 1 || tr.Signs[0].Kind != sign.KindPhrase {
		t.Errorf("Signs = %+v, want single phrase result", tr.Signs)
	}
}

func TestTranslate_NotReady(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, false)
	if _, err := p.Translate(context.Background(), "hello"); !errors.Is(err, dictionary.ErrNotReady) {
		t.Errorf("Translate err = %v, want ErrNotReady", err)
	}
}

func TestTranslate_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newPipeline(t, true).Translate(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Translate err = %v, want context.Canceled", err)
	}
}

func TestTranslateTranscript(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, true)
	tests := []struct {
		name string
		in   sign.Transcript
		want bool
	}{
		{name: "final", in: sign.Transcript{Text: "good morning", IsFinal: true}, want: true},
		{name: "partial", in: sign.Transcript{Text: "good morning"}},
		{name: "blank final", in: sign.Transcript{Text: "  ", IsFinal: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr, ok, err := p.TranslateTranscript(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("TranslateTranscript: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("translated = %v, want %v", ok, tt.want)
			}
			if ok && len(tr.Signs) == 0 {
				t.Error("final transcript produced no signs")
			}
		})
	}
}

func TestTranslation_Missing(t *testing.T) {
	t.Parallel()

	tr := translate.Translation{Signs: []sign.Result{
		{Kind: sign.KindWord, Key: "cat", OriginalToken: "cat", Found: true},
		{Kind: sign.KindWord, Key: "zebra", OriginalToken: "zebra"},
	}}
	if got := tr.Missing(); !slices.Equal(got, []string{"zebra"}) {
		t.Errorf("Missing = %v, want [zebra]", got)
	}
}
