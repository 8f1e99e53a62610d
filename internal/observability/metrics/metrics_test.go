package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/v1/documents/abc":                 "/v1/documents/{id}",
		"/v1/documents/abc/classifications": "/v1/documents/{id}/classifications",
		"/v1/categories/7":                  "/v1/categories/{id}",
		"/v1/criteria/12":                   "/v1/criteria/{id}",
		"/v1/categories":                    "/v1/categories",
		"/healthz":                          "/healthz",
		"/v1/classify":                      "/v1/classify",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMiddlewareCountsByNormalizedPath(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/"+id, nil))
	}

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodGet, "/v1/documents/{id}", "404"))
	if got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
}

func TestClassificationMetricsShareRegistry(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	cm := NewClassificationMetrics("api", m.Registry())

	cm.ObserveClassification("success", "medium", 5*time.Millisecond)
	cm.ObserveClassification("no_match", "", time.Millisecond)
	cm.ObservePatternFallbacks(2)
	cm.ObservePatternFallbacks(0)

	if got := testutil.ToFloat64(cm.runsTotal.WithLabelValues("api", "success", "medium")); got != 1 {
		t.Fatalf("success runs = %v", got)
	}
	if got := testutil.ToFloat64(cm.runsTotal.WithLabelValues("api", "no_match", "none")); got != 1 {
		t.Fatalf("no_match runs = %v", got)
	}
	if got := testutil.ToFloat64(cm.fallbacksTotal.WithLabelValues("api")); got != 2 {
		t.Fatalf("fallbacks = %v", got)
	}
	if n, err := testutil.GatherAndCount(m.Registry(), "docclass_classifier_runs_total"); err != nil || n != 2 {
		t.Fatalf("GatherAndCount = %d, %v", n, err)
	}
}

func TestResilienceMetricsBreakerGauge(t *testing.T) {
	w := NewWorkerMetrics("worker")
	rm := NewResilienceMetrics("worker", w.Registry())

	rm.RetryAttempt("nats.publish")
	rm.BreakerStateChanged("neo4j.project", "open")
	if got := testutil.ToFloat64(rm.breakerState.WithLabelValues("worker", "neo4j.project")); got != 1 {
		t.Fatalf("breaker gauge = %v", got)
	}
	rm.BreakerStateChanged("neo4j.project", "closed")
	if got := testutil.ToFloat64(rm.breakerState.WithLabelValues("worker", "neo4j.project")); got != 0 {
		t.Fatalf("breaker gauge after close = %v", got)
	}
	if got := testutil.ToFloat64(rm.retriesTotal.WithLabelValues("worker", "nats.publish")); got != 1 {
		t.Fatalf("retries = %v", got)
	}
}

func TestWorkerMetricsFinishRequest(t *testing.T) {
	w := NewWorkerMetrics("worker")
	w.StartRequest()
	w.FinishRequest("worker", "success", 10*time.Millisecond)
	w.ObserveQueueLag("worker", -time.Second)

	if got := testutil.ToFloat64(w.requestTotal.WithLabelValues("worker", "success")); got != 1 {
		t.Fatalf("requests = %v", got)
	}
	if got := testutil.ToFloat64(w.requestInFlight); got != 0 {
		t.Fatalf("in flight = %v", got)
	}
}
