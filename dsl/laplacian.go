package dsl

import (
	"fmt"

	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/field"
)

// laplacianTerm models diffusion with constant diffusivity gamma. The
// term carries the sign convention of the composed equation: it
// evaluates -integral(div(gamma*grad(field))), so
//
//	ddt(T) + laplacian(gamma, T) == 0
//
// is the heat equation. Face-normal gradients use the geometry scheme's
// delta coefficients; non-orthogonal correction is not applied here.
type laplacianTerm struct {
	mode  EvalMode
	gamma float64
	field *field.VolumeField
}

// NewLaplacian builds the diffusion term with diffusivity gamma.
func NewLaplacian(mode EvalMode, gamma float64, f *field.VolumeField) Term {
	return &laplacianTerm{mode: mode, gamma: gamma, field: f}
}

func (t *laplacianTerm) Name() string {
	return fmt.Sprintf("laplacian(%g,%s)", t.gamma, t.field.Name())
}
func (t *laplacianTerm) Mode() EvalMode            { return t.mode }
func (t *laplacianTerm) Temporal() bool            { return false }
func (t *laplacianTerm) Field() *field.VolumeField { return t.field }

func (t *laplacianTerm) EvaluateExplicit(ctx *Context, into *executor.Container[float64]) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	deltaCoeffs, err := ctx.Geometry.DeltaCoeffs()
	if err != nil {
		return err
	}

	m := ctx.Mesh
	owner := executor.HostView(m.FaceOwner())
	neighbour := executor.HostView(m.FaceNeighbour())
	magSf := executor.HostView(m.MagFaceAreas())
	dc := executor.HostView(deltaCoeffs)
	values := executor.HostView(t.field.Internal())
	valuesB := executor.HostView(t.field.Boundary())
	out := executor.HostView(into)
	defer commit(into, out)

	nInternal := m.NInternalFaces()
	for f := 0; f < nInternal; f++ {
		own := owner[f]
		nei := neighbour[f]
		// Diffusive face flux out of the owner cell.
		grad := t.gamma * magSf[f] * dc[f] * (values[nei] - values[own])
		out[own] -= grad
		out[nei] += grad
	}

	bm := m.BoundaryMesh()
	magSfB := executor.HostView(bm.MagSf())
	dcB := executor.HostView(bm.DeltaCoeffs())
	for p := 0; p < bm.NPatches(); p++ {
		spec := t.field.Patch(p)
		start, end := bm.PatchRange(p)
		for i := start; i < end; i++ {
			own := owner[nInternal+i]
			switch spec.Kind {
			case field.ZeroGradient, field.Empty:
				// no diffusive flux through the patch
			case field.FixedGradient:
				out[own] -= t.gamma * magSfB[i] * spec.Gradient
			default:
				out[own] -= t.gamma * magSfB[i] * dcB[i] * (valuesB[i] - values[own])
			}
		}
	}
	return nil
}

func (t *laplacianTerm) EvaluateImplicit(ctx *Context, sys *LDUSystem) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	deltaCoeffs, err := ctx.Geometry.DeltaCoeffs()
	if err != nil {
		return err
	}

	m := ctx.Mesh
	owner := executor.HostView(m.FaceOwner())
	neighbour := executor.HostView(m.FaceNeighbour())
	magSf := executor.HostView(m.MagFaceAreas())
	dc := executor.HostView(deltaCoeffs)
	valuesB := executor.HostView(t.field.Boundary())

	nInternal := m.NInternalFaces()
	for f := 0; f < nInternal; f++ {
		coeff := t.gamma * magSf[f] * dc[f]
		sys.Diag[owner[f]] += coeff
		sys.Upper[f] -= coeff
		sys.Diag[neighbour[f]] += coeff
		sys.Lower[f] -= coeff
	}

	bm := m.BoundaryMesh()
	magSfB := executor.HostView(bm.MagSf())
	dcB := executor.HostView(bm.DeltaCoeffs())
	for p := 0; p < bm.NPatches(); p++ {
		spec := t.field.Patch(p)
		start, end := bm.PatchRange(p)
		for i := start; i < end; i++ {
			own := owner[nInternal+i]
			switch spec.Kind {
			case field.ZeroGradient, field.Empty:
			case field.FixedGradient:
				sys.RHS[own] += t.gamma * magSfB[i] * spec.Gradient
			default:
				coeff := t.gamma * magSfB[i] * dcB[i]
				sys.Diag[own] += coeff
				sys.RHS[own] += coeff * valuesB[i]
			}
		}
	}
	return nil
}

func (t *laplacianTerm) check(ctx *Context) error {
	if err := checkOperands(ctx, t.field); err != nil {
		return err
	}
	if ctx.Geometry == nil {
		return fmt.Errorf("dsl: %s needs a geometry scheme in the context", t.Name())
	}
	return nil
}
