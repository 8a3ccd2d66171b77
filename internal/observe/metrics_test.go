package observe

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// collect gathers all metric data from the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

// findMetric searches for a metric by name across all scope metrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetrics_CreatesWithoutError(t *testing.T) {
	m, _ := newTestMetrics(t)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

// sumValue returns the value of the data point carrying key=value.
func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name, key, value string) int64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is not a sum", name)
	}
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	t.Fatalf("metric %q: data point with %s=%s not found", name, key, value)
	return 0
}

func TestTranslateDuration(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordTranslate(ctx, 300*time.Microsecond)
	m.RecordTranslate(ctx, 2*time.Millisecond)

	rm := collect(t, reader)
	met := findMetric(rm, "signbridge.translate.duration")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("metric is not a histogram")
	}
	if len(hist.DataPoints) == 0 {
		t.Fatal("no data points")
	}
	if got := hist.DataPoints[0].Count; got != 2 {
		t.Errorf("sample count = %d, want 2", got)
	}
}

func TestLookupsCounter(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordLookup(ctx, "word", "exact")
	m.RecordLookup(ctx, "word", "fuzzy")
	m.RecordLookup(ctx, "word", "fuzzy")

	rm := collect(t, reader)
	if got := sumValue(t, rm, "signbridge.lookups", "method", "fuzzy"); got != 2 {
		t.Errorf("fuzzy lookups = %d, want 2", got)
	}
	if got := sumValue(t, rm, "signbridge.lookups", "method", "exact"); got != 1 {
		t.Errorf("exact lookups = %d, want 1", got)
	}
}

func TestDictionaryLoadCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDictionaryLoad(ctx, "csv", "ok", 3)
	m.RecordDictionaryLoad(ctx, "csv", "error", 0)
	m.RecordDictionaryLoad(ctx, "csv", "ok", 0)

	rm := collect(t, reader)
	if got := sumValue(t, rm, "signbridge.dictionary.loads", "status", "ok"); got != 2 {
		t.Errorf("ok loads = %d, want 2", got)
	}
	if got := sumValue(t, rm, "signbridge.dictionary.skipped_rows", "source", "csv"); got != 3 {
		t.Errorf("skipped rows = %d, want 3", got)
	}
}

func TestGestureCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordGestureEvent(ctx, "accepted")
	m.RecordGestureEvent(ctx, "rejected")
	m.RecordGestureEvent(ctx, "accepted")
	m.ActiveGestureSources.Add(ctx, 1)
	m.ActiveGestureSources.Add(ctx, 1)
	m.ActiveGestureSources.Add(ctx, -1)

	rm := collect(t, reader)
	if got := sumValue(t, rm, "signbridge.gesture.events", "status", "accepted"); got != 2 {
		t.Errorf("accepted events = %d, want 2", got)
	}

	met := findMetric(rm, "signbridge.gesture.active_sources")
	if met == nil {
		t.Fatal("active sources metric not found")
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) == 0 {
		t.Fatal("active sources metric has no sum data points")
	}
	if got := sum.DataPoints[0].Value; got != 1 {
		t.Errorf("active sources = %d, want 1", got)
	}
}

func TestHTTPRequestDuration(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.HTTPRequestDuration.Record(ctx, 0.05,
		metric.WithAttributes(
			attribute.String("method", "GET"),
			attribute.String("path", "/healthz"),
		),
	)

	rm := collect(t, reader)
	met := findMetric(rm, "signbridge.http.request.duration")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("metric is not a histogram")
	}
	if len(hist.DataPoints) == 0 {
		t.Fatal("no data points")
	}
	if got := hist.DataPoints[0].Count; got != 1 {
		t.Errorf("sample count = %d, want 1", got)
	}
}

func TestDefaultMetrics_ReturnsSameInstance(t *testing.T) {
	a := DefaultMetrics()
	b := DefaultMetrics()
	if a != b {
		t.Error("DefaultMetrics returned different pointers")
	}
}
