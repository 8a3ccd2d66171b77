package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/simplify"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// Translation is the outcome of translating one piece of text.
type Translation struct {
	// Text is the input as received.
	Text string `json:"text"`

	// Tokens is the simplified sentence the signs were resolved from.
	Tokens []string `json:"tokens"`

	// Path is the simplification strategy that produced Tokens.
	Path simplify.Path `json:"path"`

	// Signs is the ordered sign sequence. See [Resolver.Resolve].
	Signs []sign.Result `json:"signs"`
}

// Missing returns the tokens for which no sign was found.
func (t Translation) Missing() []string {
	var out []string
	for _, s := range t.Signs {
		if !s.Found {
			out = append(out, s.OriginalToken)
		}
	}
	return out
}

// PipelineOption is a functional option for configuring a [Pipeline].
type PipelineOption func(*Pipeline)

// WithPipelineMetrics sets the metrics recorder. Default: [observe.DefaultMetrics].
func WithPipelineMetrics(m *observe.Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// Pipeline simplifies text and resolves it to signs. It is safe for
// concurrent use.
type Pipeline struct {
	simplifier *simplify.Simplifier
	resolver   *Resolver
	metrics    *observe.Metrics
}

// NewPipeline returns a Pipeline composing s and r.
func NewPipeline(s *simplify.Simplifier, r *Resolver, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{simplifier: s, resolver: r}
	for _, o := range opts {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p
}

// Translate simplifies text and resolves the result. The only errors are
// a cancelled context and [dictionary.ErrNotReady].
func (p *Pipeline) Translate(ctx context.Context, text string) (Translation, error) {
	if err := ctx.Err(); err != nil {
		return Translation{}, fmt.Errorf("translate: %w", err)
	}
	ctx, span := observe.StartSpan(ctx, "translate.Translate")
	defer span.End()
	start := time.Now()

	simplified := p.simplifier.Analyze(text)
	span.SetAttributes(
		observe.AttrSimplifyPath.String(string(simplified.Path)),
		observe.AttrTokens.Int(len(simplified.Tokens)),
	)
	signs, err := p.resolver.Resolve(ctx, text, simplified.Tokens)
	if err != nil {
		observe.FailSpan(span, err)
		return Translation{}, err
	}
	p.metrics.RecordTranslate(ctx, time.Since(start))

	tr := Translation{
		Text:   text,
		Tokens: simplified.Tokens,
		Path:   simplified.Path,
		Signs:  signs,
	}
	span.SetAttributes(
		observe.AttrSigns.Int(len(signs)),
		observe.AttrSignsMissing.Int(len(tr.Missing())),
	)
	if simplified.MultiNegation {
		observe.Logger(ctx).Debug("translate: sentence has several negation cues", "text", text)
	}

	return tr, nil
}

// TranslateTranscript translates a final speech transcript. It reports
// false without translating when t is partial or carries no text.
func (p *Pipeline) TranslateTranscript(ctx context.Context, t sign.Transcript) (Translation, bool, error) {
	if !t.IsFinal || strings.TrimSpace(t.Text) == "" {
		return Translation{}, false, nil
	}
	tr, err := p.Translate(ctx, t.Text)
	if err != nil {
		return Translation{}, false, err
	}
	return tr, true, nil
}
