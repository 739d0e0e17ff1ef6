// Package exp provides the explicit term constructors, so equations read
// as exp.Div(phi, T) at the call site.
package exp

import (
	"github.com/rajkmsaini/FoamAdapter/dsl"
	"github.com/rajkmsaini/FoamAdapter/field"
)

// Ddt is the explicit temporal derivative of f.
func Ddt(f *field.VolumeField) dsl.Term {
	return dsl.NewDdt(dsl.Explicit, f)
}

// Div is the explicit advection of f by the face flux.
func Div(flux *field.SurfaceField, f *field.VolumeField) dsl.Term {
	return dsl.NewDiv(dsl.Explicit, flux, f)
}

// Laplacian is the explicit diffusion of f with uniform coefficient gamma.
func Laplacian(gamma float64, f *field.VolumeField) dsl.Term {
	return dsl.NewLaplacian(dsl.Explicit, gamma, f)
}

// Source is an explicit per-cell rate contribution.
func Source(f *field.VolumeField, rate func(cell int) float64) dsl.Term {
	return dsl.NewSource(f, rate)
}

// UniformSource is a spatially constant explicit rate.
func UniformSource(f *field.VolumeField, rate float64) dsl.Term {
	return dsl.NewUniformSource(f, rate)
}
