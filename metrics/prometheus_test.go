package metrics

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/saiset-co/sai-pipeline/types"
)

func newTestMetrics(t *testing.T) *PrometheusMetrics {
	t.Helper()

	m, err := NewPrometheusMetrics(&types.MetricsConfig{
		Enabled:   true,
		Path:      "/metrics",
		Namespace: "testsvc",
		Labels:    map[string]string{"service": "unit"},
	})
	if err != nil {
		t.Fatalf("NewPrometheusMetrics() error = %v", err)
	}
	return m
}

func TestPrometheusMetricsDisabled(t *testing.T) {
	_, err := NewPrometheusMetrics(&types.MetricsConfig{Enabled: false})
	if !errors.Is(err, types.ErrMetricsIsDisabled) {
		t.Fatalf("error = %v, want ErrMetricsIsDisabled", err)
	}

	_, err = NewPrometheusMetrics(nil)
	if !errors.Is(err, types.ErrMetricsIsDisabled) {
		t.Fatalf("error = %v, want ErrMetricsIsDisabled", err)
	}
}

func TestCounterIncrements(t *testing.T) {
	m := newTestMetrics(t)

	counter := m.Counter("requests_total", map[string]string{"route": "/users"})
	counter.Inc()
	counter.Add(2)

	if got := counter.Get(); got != 3 {
		t.Fatalf("counter value = %v, want 3", got)
	}
}

func TestCounterLabelsAreIndependent(t *testing.T) {
	m := newTestMetrics(t)

	a := m.Counter("outcomes_total", map[string]string{"outcome": "success"})
	b := m.Counter("outcomes_total", map[string]string{"outcome": "error"})

	a.Inc()
	a.Inc()
	b.Inc()

	if a.Get() != 2 || b.Get() != 1 {
		t.Fatalf("counter values = %v, %v", a.Get(), b.Get())
	}
}

func TestHistogramObserves(t *testing.T) {
	m := newTestMetrics(t)

	h := m.Histogram("duration_seconds", []float64{0.01, 0.1, 1}, map[string]string{"route": "/users"})
	h.Observe(0.05)
	h.ObserveDuration(time.Now().Add(-10 * time.Millisecond))

	data, err := m.GetMetrics()
	if err != nil {
		t.Fatalf("GetMetrics() error = %v", err)
	}
	if !strings.Contains(string(data), "testsvc_duration_seconds") {
		t.Fatalf("metrics dump missing histogram: %s", data)
	}
}

func TestGetMetricsIsJSON(t *testing.T) {
	m := newTestMetrics(t)
	m.Counter("requests_total", map[string]string{"route": "/users"}).Inc()

	data, err := m.GetMetrics()
	if err != nil {
		t.Fatalf("GetMetrics() error = %v", err)
	}

	var families []map[string]interface{}
	if err := json.Unmarshal(data, &families); err != nil {
		t.Fatalf("metrics dump is not JSON: %v", err)
	}

	found := false
	for _, family := range families {
		if family["name"] == "testsvc_requests_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("families = %v, want testsvc_requests_total", families)
	}
}

func TestHTTPHandlerServesScrape(t *testing.T) {
	m := newTestMetrics(t)
	m.Counter("requests_total", map[string]string{"route": "/users"}).Inc()

	fctx := new(fasthttp.RequestCtx)
	fctx.Request.Header.SetMethod("GET")
	fctx.Request.SetRequestURI("/metrics")

	m.HTTPHandler()(fctx)

	if fctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200", fctx.Response.StatusCode())
	}
	if !strings.Contains(string(fctx.Response.Body()), "testsvc_requests_total") {
		t.Fatal("scrape output missing registered counter")
	}
}

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()

	counter := m.Counter("anything", nil)
	counter.Inc()
	counter.Add(10)
	if counter.Get() != 0 {
		t.Fatal("noop counter must stay at zero")
	}

	h := m.Histogram("anything", nil, nil)
	h.Observe(1)
	h.ObserveDuration(time.Now())

	if data, err := m.GetMetrics(); err != nil || string(data) != "[]" {
		t.Fatalf("GetMetrics() = %q, %v", data, err)
	}
}
