package model

import (
	"math"
	"strconv"
)

// DefaultLabelPrefix is prepended to the 1-based insertion index when a point
// is added without a label.
const DefaultLabelPrefix = "Point_"

// Coordinates is a position in three-dimensional space.
type Coordinates struct {
	X float64
	Y float64
	Z float64
}

// IsFinite reports whether all three components are finite.
func (c Coordinates) IsFinite() bool {
	return isFinite(c.X) && isFinite(c.Y) && isFinite(c.Z)
}

// Array returns the components as a fixed-size triple.
func (c Coordinates) Array() [3]float64 {
	return [3]float64{c.X, c.Y, c.Z}
}

// MarshalJSON encodes coordinates as a three-element array, e.g. [1,2,3].
func (c Coordinates) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 32)
	b = append(b, '[')
	b = strconv.AppendFloat(b, c.X, 'g', -1, 64)
	b = append(b, ',')
	b = strconv.AppendFloat(b, c.Y, 'g', -1, 64)
	b = append(b, ',')
	b = strconv.AppendFloat(b, c.Z, 'g', -1, 64)
	b = append(b, ']')
	return b, nil
}

// Point is a labeled coordinate stored in a model.
// Points are immutable once created.
type Point struct {
	Label       string      `json:"label"`
	Coordinates Coordinates `json:"coordinates"`
}

// Snapshot is a read-only copy of a model's origin and points.
type Snapshot struct {
	Origin Coordinates `json:"origin"`
	Points []Point     `json:"points"`
}

// DefaultLabel returns the label assigned to the nth point (1-based).
func DefaultLabel(n int) string {
	return DefaultLabelPrefix + strconv.Itoa(n)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
