package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

// restoreGlobals puts the global OTel providers back after a test that
// calls InitProvider.
func restoreGlobals(t *testing.T) {
	t.Helper()
	mp := otel.GetMeterProvider()
	tp := otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetMeterProvider(mp)
		otel.SetTracerProvider(tp)
	})
}

func TestInitProvider_ServesMetrics(t *testing.T) {
	restoreGlobals(t)
	ctx := context.Background()

	tel, err := InitProvider(ctx, ProviderConfig{ServiceName: "signbridge-test"})
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	m, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.RecordLookup(ctx, "word", "exact")

	rec := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "signbridge_lookups") {
		t.Errorf("metrics body does not contain signbridge_lookups:\n%s", body)
	}
}

func TestInitProvider_MetricsDisabled(t *testing.T) {
	restoreGlobals(t)

	tel, err := InitProvider(context.Background(), ProviderConfig{DisableMetrics: true})
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	rec := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics status = %d, want 404", rec.Code)
	}
}
