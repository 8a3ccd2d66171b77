package gesture_test

import (
	"math"
	"slices"
	"testing"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/gesture"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

func labels(events []sign.GestureEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Label
	}
	return out
}

func TestAggregator_LowConfidenceClearsCurrentKeepsHistory(t *testing.T) {
	t.Parallel()

	a := gesture.NewAggregator(gesture.DefaultThreshold, gesture.DefaultHistorySize)
	a.Observe(sign.GestureEvent{Label: "wave", Confidence: 0.9, TimestampMillis: 1})
	a.Observe(sign.GestureEvent{Label: "wave", Confidence: 0.95, TimestampMillis: 2})
	if a.Current() != "wave" {
		t.Fatalf("Current = %q, want wave", a.Current())
	}
	if accepted := a.Observe(sign.GestureEvent{Label: "stop", Confidence: 0.5, TimestampMillis: 3}); accepted {
		t.Error("event below threshold accepted")
	}

	if a.Current() != "" {
		t.Errorf("Current = %q, want empty after low-confidence event", a.Current())
	}
	h := a.History()
	if len(h) != 1 || h[0].Label != "wave" {
		t.Fatalf("History = %+v, want a single wave entry", h)
	}
	if h[0].Confidence != 0.95 || h[0].TimestampMillis != 2 {
		t.Errorf("History[0] = %+v, want the most recent wave event", h[0])
	}
}

func TestAggregator_ThresholdIsStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		confidence float64
		want       bool
	}{
		{"at threshold", 0.7, false},
		{"just above", 0.7000001, true},
		{"zero", 0, false},
		{"NaN", math.NaN(), false},
		{"full", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := gesture.NewAggregator(0.7, 5)
			if got := a.Observe(sign.GestureEvent{Label: "yes", Confidence: tt.confidence}); got != tt.want {
				t.Errorf("Observe(%v) = %v, want %v", tt.confidence, got, tt.want)
			}
		})
	}
}

func TestAggregator_HistoryBound(t *testing.T) {
	t.Parallel()

	a := gesture.NewAggregator(gesture.DefaultThreshold, gesture.DefaultHistorySize)
	for i, l := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		a.Observe(sign.GestureEvent{Label: l, Confidence: 0.9, TimestampMillis: int64(i)})
	}
	if got, want := labels(a.History()), []string{"g", "f", "e", "d", "c"}; !slices.Equal(got, want) {
		t.Errorf("History = %v, want %v", got, want)
	}
	if a.Current() != "g" {
		t.Errorf("Current = %q, want g", a.Current())
	}
}

func TestAggregator_RepeatedLabelMovesToFront(t *testing.T) {
	t.Parallel()

	a := gesture.NewAggregator(gesture.DefaultThreshold, gesture.DefaultHistorySize)
	for _, l := range []string{"a", "b", "c", "a"} {
		a.Observe(sign.GestureEvent{Label: l, Confidence: 0.8})
	}
	if got, want := labels(a.History()), []string{"a", "c", "b"}; !slices.Equal(got, want) {
		t.Errorf("History = %v, want %v", got, want)
	}

	// The oldest label must not be evicted when a full history sees a repeat.
	for _, l := range []string{"d", "e", "b"} {
		a.Observe(sign.GestureEvent{Label: l, Confidence: 0.8})
	}
	if got, want := labels(a.History()), []string{"b", "e", "d", "a", "c"}; !slices.Equal(got, want) {
		t.Errorf("History = %v, want %v", got, want)
	}
}

func TestAggregator_Reset(t *testing.T) {
	t.Parallel()

	a := gesture.NewAggregator(gesture.DefaultThreshold, gesture.DefaultHistorySize)
	a.Reset()
	if a.Current() != "" || len(a.History()) != 0 {
		t.Fatal("Reset on empty aggregator left state")
	}
	a.Observe(sign.GestureEvent{Label: "a", Confidence: 0.9})
	a.Observe(sign.GestureEvent{Label: "b", Confidence: 0.9})
	a.Reset()
	if a.Current() != "" || len(a.History()) != 0 {
		t.Errorf("after Reset: Current = %q, History = %v", a.Current(), a.History())
	}
	a.Observe(sign.GestureEvent{Label: "c", Confidence: 0.9})
	if got := labels(a.History()); !slices.Equal(got, []string{"c"}) {
		t.Errorf("History after Reset and Observe = %v, want [c]", got)
	}
}

func TestAggregator_HistoryIsCopy(t *testing.T) {
	t.Parallel()

	a := gesture.NewAggregator(gesture.DefaultThreshold, 2)
	a.Observe(sign.GestureEvent{Label: "a", Confidence: 0.9})
	h := a.History()
	h[0].Label = "mutated"
	if a.History()[0].Label != "a" {
		t.Error("History exposes internal storage")
	}
}

func TestAggregator_MinimumSize(t *testing.T) {
	t.Parallel()

	a := gesture.NewAggregator(gesture.DefaultThreshold, 0)
	a.Observe(sign.GestureEvent{Label: "a", Confidence: 0.9})
	a.Observe(sign.GestureEvent{Label: "b", Confidence: 0.9})
	if got := labels(a.History()); !slices.Equal(got, []string{"b"}) {
		t.Errorf("History = %v, want [b]", got)
	}
}
