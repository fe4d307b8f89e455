package core

import (
	"math"

	"github.com/signalsfoundry/origin-model/model"
)

// Vec3 is a Cartesian vector.
type Vec3 struct {
	X, Y, Z float64
}

// FromCoordinates converts stored coordinates into a vector.
func FromCoordinates(c model.Coordinates) Vec3 {
	return Vec3{X: c.X, Y: c.Y, Z: c.Z}
}

// Coordinates converts the vector back into model coordinates.
func (v Vec3) Coordinates() model.Coordinates {
	return model.Coordinates{X: v.X, Y: v.Y, Z: v.Z}
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Distance returns the Euclidean distance of p from origin.
func Distance(origin, p model.Coordinates) float64 {
	return FromCoordinates(p).DistanceTo(FromCoordinates(origin))
}
