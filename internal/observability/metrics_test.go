package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestModelCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewModelCollector(reg)
	if err != nil {
		t.Fatalf("NewModelCollector: %v", err)
	}

	collector.SetPointCount(2)
	collector.PointAdded()
	collector.PointAdded()
	collector.OriginUpdated()
	collector.CoercionFailed("add_point")
	collector.CoercionFailed("")
	collector.DistanceComputed(6.2681)

	if got := testutil.ToFloat64(collector.Points); got != 2 {
		t.Fatalf("pointmodel_points = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.PointsAdded); got != 2 {
		t.Fatalf("pointmodel_points_added_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.OriginUpdates); got != 1 {
		t.Fatalf("pointmodel_origin_updates_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.CoercionErrors.WithLabelValues("add_point")); got != 1 {
		t.Fatalf("coercion errors for add_point = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.CoercionErrors.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("coercion errors for unknown = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "pointmodel_distance"); count != 1 {
		t.Fatalf("pointmodel_distance sample_count = %d, want 1", count)
	}
}

func TestNewModelCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewModelCollector(reg)
	if err != nil {
		t.Fatalf("first NewModelCollector: %v", err)
	}
	second, err := NewModelCollector(reg)
	if err != nil {
		t.Fatalf("second NewModelCollector: %v", err)
	}
	first.PointAdded()
	if got := testutil.ToFloat64(second.PointsAdded); got != 1 {
		t.Fatalf("shared counter = %v, want 1", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *ModelCollector
	c.SetPointCount(1)
	c.PointAdded()
	c.OriginUpdated()
	c.CoercionFailed("set_origin")
	c.DistanceComputed(1)
}

func TestMetricsHandlerExposesModelMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewModelCollector(reg)
	if err != nil {
		t.Fatalf("NewModelCollector: %v", err)
	}
	collector.SetPointCount(7)
	collector.CoercionFailed("set_origin")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"pointmodel_points 7",
		"pointmodel_points_added_total",
		"pointmodel_origin_updates_total",
		`pointmodel_coercion_errors_total{op="set_origin"} 1`,
		"pointmodel_distance",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output:\n%s", metric, body)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if h := histogram(m); h != nil {
				return h.GetSampleCount()
			}
		}
	}
	return 0
}

func histogram(m *dto.Metric) *dto.Histogram {
	if m == nil {
		return nil
	}
	return m.GetHistogram()
}
