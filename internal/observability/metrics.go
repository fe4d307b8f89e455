package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ModelCollector bundles Prometheus metrics for point models. It satisfies
// kb.MetricsRecorder so a PointModel can drive the values from its mutators.
type ModelCollector struct {
	gatherer prometheus.Gatherer

	Points         prometheus.Gauge
	PointsAdded    prometheus.Counter
	OriginUpdates  prometheus.Counter
	CoercionErrors *prometheus.CounterVec
	Distances      prometheus.Histogram
}

// NewModelCollector registers point model metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewModelCollector(reg prometheus.Registerer) (*ModelCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	points, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pointmodel_points",
		Help: "Current number of points stored in the model.",
	}), "pointmodel_points")
	if err != nil {
		return nil, err
	}
	added, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pointmodel_points_added_total",
		Help: "Total number of points appended to the model.",
	}), "pointmodel_points_added_total")
	if err != nil {
		return nil, err
	}
	origins, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pointmodel_origin_updates_total",
		Help: "Total number of successful origin replacements.",
	}), "pointmodel_origin_updates_total")
	if err != nil {
		return nil, err
	}

	coercion := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pointmodel_coercion_errors_total",
		Help: "Coordinate values rejected during coercion, labeled by operation.",
	}, []string{"op"})
	coercion, err = registerCounterVec(reg, coercion, "pointmodel_coercion_errors_total")
	if err != nil {
		return nil, err
	}

	distances, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pointmodel_distance",
		Help:    "Distances computed from the model origin.",
		Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
	}), "pointmodel_distance")
	if err != nil {
		return nil, err
	}

	return &ModelCollector{
		gatherer:       gatherer,
		Points:         points,
		PointsAdded:    added,
		OriginUpdates:  origins,
		CoercionErrors: coercion,
		Distances:      distances,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ModelCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetPointCount sets the stored points gauge.
func (c *ModelCollector) SetPointCount(n int) {
	if c == nil || c.Points == nil {
		return
	}
	c.Points.Set(float64(n))
}

// PointAdded counts one appended point.
func (c *ModelCollector) PointAdded() {
	if c == nil || c.PointsAdded == nil {
		return
	}
	c.PointsAdded.Inc()
}

// OriginUpdated counts one origin replacement.
func (c *ModelCollector) OriginUpdated() {
	if c == nil || c.OriginUpdates == nil {
		return
	}
	c.OriginUpdates.Inc()
}

// CoercionFailed counts a rejected coordinate for the named operation.
func (c *ModelCollector) CoercionFailed(op string) {
	if c == nil || c.CoercionErrors == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	c.CoercionErrors.WithLabelValues(op).Inc()
}

// DistanceComputed observes a computed distance.
func (c *ModelCollector) DistanceComputed(d float64) {
	if c == nil || c.Distances == nil {
		return
	}
	c.Distances.Observe(d)
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
