// Package imp provides the implicit term constructors, so equations read
// as imp.Ddt(T) + imp.Div(phi, T) at the call site.
package imp

import (
	"github.com/rajkmsaini/FoamAdapter/dsl"
	"github.com/rajkmsaini/FoamAdapter/field"
)

// Ddt is the implicit temporal derivative of f.
func Ddt(f *field.VolumeField) dsl.Term {
	return dsl.NewDdt(dsl.Implicit, f)
}

// Div is the implicit advection of f by the face flux.
func Div(flux *field.SurfaceField, f *field.VolumeField) dsl.Term {
	return dsl.NewDiv(dsl.Implicit, flux, f)
}

// Laplacian is the implicit diffusion of f with uniform coefficient gamma.
func Laplacian(gamma float64, f *field.VolumeField) dsl.Term {
	return dsl.NewLaplacian(dsl.Implicit, gamma, f)
}
