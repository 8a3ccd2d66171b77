// Package observe provides application-wide observability primitives for
// signbridge: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all signbridge metrics.
const meterName = "github.com/HiteshKholwal/Sign-Language-Project"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use; the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// TranslateDuration tracks end-to-end text translation latency
	// (simplify + resolve).
	TranslateDuration metric.Float64Histogram

	// Lookups counts resolved signs. Use with attributes:
	//   attribute.String("kind", ...), attribute.String("method", ...)
	Lookups metric.Int64Counter

	// DictionaryLoads counts dictionary loads. Use with attributes:
	//   attribute.String("source", ...), attribute.String("status", ...)
	DictionaryLoads metric.Int64Counter

	// DictionarySkippedRows counts source rows dropped for a missing key or
	// asset reference.
	DictionarySkippedRows metric.Int64Counter

	// GestureEvents counts observed gesture events. Use with attribute:
	//   attribute.String("status", ...) (accepted, rejected, inactive)
	GestureEvents metric.Int64Counter

	// ActiveGestureSources tracks the number of active gesture sources.
	ActiveGestureSources metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Text
// translation is CPU bound and usually finishes well under a millisecond.
var latencyBuckets = []float64{
	0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TranslateDuration, err = m.Float64Histogram("signbridge.translate.duration",
		metric.WithDescription("Latency of text to sign translation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Lookups, err = m.Int64Counter("signbridge.lookups",
		metric.WithDescription("Total resolved signs by kind and method."),
	); err != nil {
		return nil, err
	}
	if met.DictionaryLoads, err = m.Int64Counter("signbridge.dictionary.loads",
		metric.WithDescription("Total dictionary loads by source and status."),
	); err != nil {
		return nil, err
	}
	if met.DictionarySkippedRows, err = m.Int64Counter("signbridge.dictionary.skipped_rows",
		metric.WithDescription("Total dictionary rows skipped for missing columns."),
	); err != nil {
		return nil, err
	}
	if met.GestureEvents, err = m.Int64Counter("signbridge.gesture.events",
		metric.WithDescription("Total gesture events by status."),
	); err != nil {
		return nil, err
	}

	if met.ActiveGestureSources, err = m.Int64UpDownCounter("signbridge.gesture.active_sources",
		metric.WithDescription("Number of active gesture sources."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("signbridge.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordTranslate records one translation latency sample.
func (m *Metrics) RecordTranslate(ctx context.Context, d time.Duration) {
	m.TranslateDuration.Record(ctx, d.Seconds())
}

// RecordLookup records a resolved sign with the standard attribute set.
func (m *Metrics) RecordLookup(ctx context.Context, kind, method string) {
	m.Lookups.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("method", method),
		),
	)
}

// RecordDictionaryLoad records a dictionary load and, for successful loads,
// the number of skipped rows.
func (m *Metrics) RecordDictionaryLoad(ctx context.Context, source, status string, skipped int) {
	m.DictionaryLoads.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("status", status),
		),
	)
	if skipped > 0 {
		m.DictionarySkippedRows.Add(ctx, int64(skipped),
			metric.WithAttributes(attribute.String("source", source)),
		)
	}
}

// RecordGestureEvent records one gesture event outcome.
func (m *Metrics) RecordGestureEvent(ctx context.Context, status string) {
	m.GestureEvents.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
