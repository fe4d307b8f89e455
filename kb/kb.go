// Package kb holds the point model: an origin and an ordered, append-only
// sequence of labeled points measured against it.
package kb

import (
	"context"
	"fmt"
	"sync"

	"github.com/signalsfoundry/origin-model/core"
	"github.com/signalsfoundry/origin-model/internal/logging"
	"github.com/signalsfoundry/origin-model/model"
)

// EventType indicates what kind of change happened in the model.
type EventType int

const (
	EventOriginUpdated EventType = iota
	EventPointAdded
)

func (t EventType) String() string {
	switch t {
	case EventOriginUpdated:
		return "origin_updated"
	case EventPointAdded:
		return "point_added"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is emitted to subscribers after a mutation.
type Event struct {
	Type   EventType
	Origin model.Coordinates
	Point  model.Point // set for EventPointAdded
	Index  int         // 0-based position of Point
}

// MetricsRecorder receives updates from model mutators.
type MetricsRecorder interface {
	SetPointCount(n int)
	PointAdded()
	OriginUpdated()
	CoercionFailed(op string)
	DistanceComputed(d float64)
}

// Option customises PointModel construction.
type Option func(*PointModel)

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(m *PointModel) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMetricsRecorder attaches an optional metrics recorder.
func WithMetricsRecorder(r MetricsRecorder) Option {
	return func(m *PointModel) {
		m.metrics = r
	}
}

// PointOption customises a single AddPoint call.
type PointOption func(*pointOptions)

type subscriber struct {
	id int
	fn func(Event)
}

type pointOptions struct {
	label string
}

// WithLabel sets the label of the added point. An empty label falls back to
// the generated default.
func WithLabel(label string) PointOption {
	return func(o *pointOptions) {
		o.label = label
	}
}

// PointModel is an in-memory, thread-safe store of labeled points and the
// origin they are measured from.
type PointModel struct {
	mu sync.RWMutex

	origin model.Coordinates
	points []model.Point

	subs   []subscriber
	nextID int

	log     logging.Logger
	metrics MetricsRecorder
}

// New constructs an empty model at the default origin (0, 0, 0).
func New(opts ...Option) *PointModel {
	return NewPointModel(model.Coordinates{}, opts...)
}

// NewPointModel constructs an empty model with the given origin.
func NewPointModel(origin model.Coordinates, opts ...Option) *PointModel {
	m := &PointModel{
		origin: origin,
		points: make([]model.Point, 0),
		log:    logging.Noop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.metrics != nil {
		m.metrics.SetPointCount(0)
	}
	return m
}

// Origin returns the current origin.
func (m *PointModel) Origin() model.Coordinates {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.origin
}

// SetOrigin coerces x, y and z to float64 and replaces the origin. The
// origin is left untouched when any value fails coercion.
func (m *PointModel) SetOrigin(x, y, z any) error {
	c, err := model.ToCoordinates(x, y, z)
	if err != nil {
		m.coercionFailed("set_origin", err)
		return fmt.Errorf("set origin: %w", err)
	}
	return m.SetOriginCoordinates(c)
}

// SetOriginCoordinates replaces the origin with c.
func (m *PointModel) SetOriginCoordinates(c model.Coordinates) error {
	if !c.IsFinite() {
		err := &model.CoercionError{Value: c}
		m.coercionFailed("set_origin", err)
		return fmt.Errorf("set origin: %w", err)
	}

	m.mu.Lock()
	m.origin = c
	event := Event{Type: EventOriginUpdated, Origin: c}
	subs := m.subscribersLocked()
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.OriginUpdated()
	}
	m.log.Debug(context.Background(), "origin updated",
		logging.Float("x", c.X), logging.Float("y", c.Y), logging.Float("z", c.Z))

	notify(subs, event)
	return nil
}

// AddPoint coerces x, y and z to float64 and appends a new point. Without a
// label the point is named Point_<n>, n being its 1-based position. The
// stored point is returned.
func (m *PointModel) AddPoint(x, y, z any, opts ...PointOption) (model.Point, error) {
	var o pointOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	c, err := model.ToCoordinates(x, y, z)
	if err != nil {
		m.coercionFailed("add_point", err)
		return model.Point{}, fmt.Errorf("add point: %w", err)
	}

	m.mu.Lock()
	label := o.label
	if label == "" {
		label = model.DefaultLabel(len(m.points) + 1)
	}
	p := model.Point{Label: label, Coordinates: c}
	m.points = append(m.points, p)
	n := len(m.points)
	if m.metrics != nil {
		m.metrics.PointAdded()
		m.metrics.SetPointCount(n)
	}
	event := Event{Type: EventPointAdded, Origin: m.origin, Point: p, Index: n - 1}
	subs := m.subscribersLocked()
	m.mu.Unlock()

	m.log.Debug(context.Background(), "point added",
		logging.String("label", label), logging.Int("count", n))

	notify(subs, event)
	return p, nil
}

// Points returns a copy of all stored points in insertion order.
func (m *PointModel) Points() []model.Point {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]model.Point, len(m.points))
	copy(res, m.points)
	return res
}

// Len returns the number of stored points.
func (m *PointModel) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

// DistanceFromOrigin returns the Euclidean distance of p from the current
// origin. Nothing is cached.
func (m *PointModel) DistanceFromOrigin(p model.Point) float64 {
	return m.distance(p.Coordinates)
}

// DistanceOf is DistanceFromOrigin for loosely shaped input; see
// model.CoordinatesOf for the accepted forms. Values without three
// coordinate components fail with model.ErrShape.
func (m *PointModel) DistanceOf(v any) (float64, error) {
	c, err := model.CoordinatesOf(v)
	if err != nil {
		return 0, fmt.Errorf("distance from origin: %w", err)
	}
	return m.distance(c), nil
}

func (m *PointModel) distance(c model.Coordinates) float64 {
	d := core.Distance(m.Origin(), c)
	if m.metrics != nil {
		m.metrics.DistanceComputed(d)
	}
	return d
}

// Export returns a deep copy of the origin and points. Changing the
// snapshot never affects the model.
func (m *PointModel) Export() model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	points := make([]model.Point, len(m.points))
	copy(points, m.points)
	return model.Snapshot{Origin: m.origin, Points: points}
}

// Subscribe registers a callback for model events. It returns an unsubscribe
// function. Callbacks run on the mutating goroutine, outside the lock.
func (m *PointModel) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// subscribersLocked copies the callbacks so they can run after the lock is
// released. Caller must hold m.mu.
func (m *PointModel) subscribersLocked() []func(Event) {
	fns := make([]func(Event), 0, len(m.subs))
	for _, s := range m.subs {
		fns = append(fns, s.fn)
	}
	return fns
}

func (m *PointModel) coercionFailed(op string, err error) {
	if m.metrics != nil {
		m.metrics.CoercionFailed(op)
	}
	m.log.Warn(context.Background(), "coordinate coercion failed",
		logging.String("op", op), logging.Error(err))
}

func notify(subs []func(Event), e Event) {
	for _, sub := range subs {
		if sub != nil {
			sub(e)
		}
	}
}
