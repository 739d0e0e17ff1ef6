// Package mesh provides the unstructured finite-volume mesh: static
// topology and geometry bound to one executor, the boundary patch view,
// and the geometry scheme that derives interpolation weights and delta
// coefficients from it.
package mesh

import "math"

// Label indexes cells and faces. It is 32-bit so topology arrays have the
// same layout on host and device.
type Label = int32

// Vector is a 3-component geometric vector. The in-memory layout is three
// contiguous doubles, which device kernels index as v[3*i+d].
type Vector [3]float64

func (v Vector) X() float64 { return v[0] }
func (v Vector) Y() float64 { return v[1] }
func (v Vector) Z() float64 { return v[2] }

func (v Vector) Add(w Vector) Vector {
	return Vector{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

func (v Vector) Sub(w Vector) Vector {
	return Vector{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{s * v[0], s * v[1], s * v[2]}
}

func (v Vector) Dot(w Vector) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v Vector) Mag() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns the normalized vector. The zero vector is returned
// unchanged; callers validate magnitudes at mesh construction.
func (v Vector) Unit() Vector {
	mag := v.Mag()
	if mag == 0 {
		return v
	}
	return v.Scale(1 / mag)
}
