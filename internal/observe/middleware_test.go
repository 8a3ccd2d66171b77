package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// testSetup wires metrics and an in-memory tracer for middleware tests.
func testSetup(t *testing.T) (*Metrics, *sdkmetric.ManualReader, *tracetest.InMemoryExporter) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader, useTestTracer(t)
}

// apiMux mirrors the shape of the signbridge API: translation opens a
// child span, gesture events are refused while no source is active and a
// dictionary reload fails.
func apiMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/translate", func(w http.ResponseWriter, r *http.Request) {
		_, span := StartSpan(r.Context(), "translate.Translate", AttrSimplifyPath.String("sov"))
		span.End()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /v1/gestures/events", func(w http.ResponseWriter, r *http.Request) {
		_, span := StartSpan(r.Context(), "gesture.Observe", AttrGestureLabel.String("wave"))
		span.End()
		w.WriteHeader(http.StatusConflict)
	})
	mux.HandleFunc("POST /v1/dictionary/reload", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return mux
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader("{}")))
	return rec
}

// serverSpan returns the single server span among spans.
func serverSpan(t *testing.T, spans tracetest.SpanStubs) tracetest.SpanStub {
	t.Helper()
	var out []tracetest.SpanStub
	for _, s := range spans {
		if s.SpanKind == trace.SpanKindServer {
			out = append(out, s)
		}
	}
	if len(out) != 1 {
		t.Fatalf("recorded %d server spans, want 1", len(out))
	}
	return out[0]
}

func TestMiddleware_SpansNamedAfterRoutes(t *testing.T) {
	tests := []struct {
		path       string
		wantName   string
		wantRoute  string
		wantStatus int64
		wantChild  string
	}{
		{"/v1/translate", "POST /v1/translate", "/v1/translate", 200, "translate.Translate"},
		{"/v1/gestures/events", "POST /v1/gestures/events", "/v1/gestures/events", 409, "gesture.Observe"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, _, exp := testSetup(t)
			h := Middleware(m)(apiMux())

			rec := serve(h, "POST", tt.path)
			if int64(rec.Code) != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			spans := exp.GetSpans()
			srv := serverSpan(t, spans)
			if srv.Name != tt.wantName {
				t.Errorf("server span name = %q, want %q", srv.Name, tt.wantName)
			}
			if got := spanAttr(srv, "http.route").AsString(); got != tt.wantRoute {
				t.Errorf("http.route = %q, want %q", got, tt.wantRoute)
			}
			if got := spanAttr(srv, "http.response.status_code").AsInt64(); got != tt.wantStatus {
				t.Errorf("http.response.status_code = %d, want %d", got, tt.wantStatus)
			}

			var child *tracetest.SpanStub
			for i := range spans {
				if spans[i].Name == tt.wantChild {
					child = &spans[i]
				}
			}
			if child == nil {
				t.Fatalf("no %s span among %d spans", tt.wantChild, len(spans))
			}
			if child.Parent.SpanID() != srv.SpanContext.SpanID() {
				t.Errorf("%s is not a child of the server span", tt.wantChild)
			}
			if child.SpanContext.TraceID() != srv.SpanContext.TraceID() {
				t.Errorf("%s is in a different trace", tt.wantChild)
			}
		})
	}
}

func TestMiddleware_ServerErrorMarksSpan(t *testing.T) {
	m, _, exp := testSetup(t)
	h := Middleware(m)(apiMux())

	serve(h, "POST", "/v1/dictionary/reload")
	srv := serverSpan(t, exp.GetSpans())
	if srv.Status.Code != codes.Error {
		t.Errorf("status = %+v, want Error for a 500", srv.Status)
	}

	// Client errors leave the span unset.
	exp.Reset()
	serve(h, "POST", "/v1/gestures/events")
	if srv := serverSpan(t, exp.GetSpans()); srv.Status.Code != codes.Unset {
		t.Errorf("status = %+v, want Unset for a 409", srv.Status)
	}
}

func TestMiddleware_CorrelationID(t *testing.T) {
	m, _, exp := testSetup(t)
	h := Middleware(m)(apiMux())

	rec := serve(h, "POST", "/v1/translate")
	srv := serverSpan(t, exp.GetSpans())
	if got, want := rec.Header().Get("X-Correlation-ID"), srv.SpanContext.TraceID().String(); got != want {
		t.Errorf("X-Correlation-ID = %q, want trace ID %q", got, want)
	}
	if rec.Header().Get("traceparent") == "" {
		t.Error("response is missing traceparent")
	}
}

func TestMiddleware_ContinuesCallerTrace(t *testing.T) {
	m, _, exp := testSetup(t)
	h := Middleware(m)(apiMux())

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest("POST", "/v1/translate", strings.NewReader("{}"))
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Correlation-ID"); got != traceID {
		t.Errorf("X-Correlation-ID = %q, want %q", got, traceID)
	}
	srv := serverSpan(t, exp.GetSpans())
	if srv.SpanContext.TraceID().String() != traceID {
		t.Errorf("server span trace = %s, want %s", srv.SpanContext.TraceID(), traceID)
	}
	if srv.Parent.SpanID().String() != "00f067aa0ba902b7" {
		t.Errorf("server span parent = %s, want the caller's span", srv.Parent.SpanID())
	}
}

func TestMiddleware_RecordsDurationPerRoute(t *testing.T) {
	m, reader, _ := testSetup(t)
	h := Middleware(m)(apiMux())

	serve(h, "POST", "/v1/translate")
	serve(h, "POST", "/v1/translate")
	serve(h, "POST", "/v1/gestures/events")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	met := findMetric(rm, "signbridge.http.request.duration")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("metric data is %T, want a histogram", met.Data)
	}

	counts := make(map[string]uint64)
	for _, dp := range hist.DataPoints {
		method, _ := dp.Attributes.Value("method")
		if method.AsString() != "POST" {
			t.Errorf("method attribute = %q, want POST", method.AsString())
		}
		path, _ := dp.Attributes.Value("path")
		counts[path.AsString()] += dp.Count
	}
	if counts["POST /v1/translate"] != 2 || counts["POST /v1/gestures/events"] != 1 {
		t.Errorf("samples per route = %v, want translate 2 and gesture events 1", counts)
	}
}

func TestMiddleware_UnroutedRequest(t *testing.T) {
	m, _, exp := testSetup(t)
	h := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve(h, "GET", "/healthz")
	srv := serverSpan(t, exp.GetSpans())
	if srv.Name != "GET /healthz" {
		t.Errorf("span name = %q, want %q", srv.Name, "GET /healthz")
	}
	if v := spanAttr(srv, "http.route"); v.Type() != attribute.INVALID {
		t.Errorf("http.route = %q on an unrouted request", v.Emit())
	}
}

func TestMiddleware_Unwrap(t *testing.T) {
	m, _, _ := testSetup(t)

	var unwrapped bool
	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		unwrapped = ok && u.Unwrap() != nil
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/gestures/stream", nil))

	if !unwrapped {
		t.Error("wrapped writer does not expose Unwrap, websocket upgrades would fail")
	}
}
