package dsl

import (
	"fmt"

	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/field"
)

// Time-integration scheme names accepted under ddtSchemes/type.
const (
	SchemeForwardEuler = "forwardEuler"
	SchemeRungeKutta   = "Runge-Kutta"
)

// Solve advances target by one step of size dt. The branch is selected
// by the expression and the schemes dictionary: with only explicit terms
// the configured time integrator marches the field; any implicit term
// assembles a linear system handed to the backend named in the solution
// dictionary. Face geometry comes from the target mesh's scheme; install
// a custom strategy with the mesh's SetGeometryScheme before solving.
//
// Post-condition: the target's internal values are at the new time
// level; boundary values are untouched. Callers whose boundary
// conditions depend on the interior must call
// CorrectBoundaryConditions() before the field is consumed again.
func Solve(expr *Expression, target *field.VolumeField, t, dt float64,
	schemes, solution Dictionary) error {

	if dt <= 0 {
		return fmt.Errorf("dsl: non-positive time step %g", dt)
	}
	temporal, err := expr.temporalTerm()
	if err != nil {
		return err
	}
	if temporal.Field() != target {
		return fmt.Errorf("dsl: temporal term %s does not march the target field %q",
			temporal.Name(), target.Name())
	}

	geom, err := target.Mesh().Geometry()
	if err != nil {
		return err
	}
	ctx := &Context{
		Exec:     target.Executor(),
		Mesh:     target.Mesh(),
		Geometry: geom,
		Time:     t,
		Dt:       dt,
	}

	if expr.hasImplicit() {
		return solveImplicit(ctx, expr, target, solution)
	}
	return solveExplicit(ctx, expr, target, schemes)
}

const explicitUpdateKernel = `
@kernel void explicitUpdate(const int nCells,
                            const double wdt,
                            const double *base,
                            const double *residual,
                            const double *volumes,
                            double *values) {
  for (int b = 0; b < (nCells + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int c = b * 256 + t;
      if (c < nCells) {
        values[c] = base[c] - wdt * residual[c] / volumes[c];
      }
    }
  }
}`

// applyExplicitUpdate sets values = base - wdt*residual/volume per cell.
func applyExplicitUpdate(ctx *Context, wdt float64,
	base, residual, values *executor.Container[float64]) error {

	if ctx.Exec.Kind() == executor.GPU {
		return executor.RunKernel(ctx.Exec, "explicitUpdate", explicitUpdateKernel,
			int32(ctx.Mesh.NCells()), wdt,
			base.DeviceMemory(),
			residual.DeviceMemory(),
			ctx.Mesh.CellVolumes().DeviceMemory(),
			values.DeviceMemory())
	}

	b := base.Data()
	r := residual.Data()
	vols := ctx.Mesh.CellVolumes().Data()
	v := values.Data()
	executor.ForEach(ctx.Exec, ctx.Mesh.NCells(), func(c int) {
		v[c] = b[c] - wdt*r[c]/vols[c]
	})
	return nil
}

func solveExplicit(ctx *Context, expr *Expression, target *field.VolumeField,
	schemes Dictionary) error {

	ddtDict, err := schemes.SubDict("ddtSchemes")
	if err != nil {
		return err
	}
	scheme, err := ddtDict.String("type")
	if err != nil {
		return err
	}

	var stageWeights []float64
	switch scheme {
	case SchemeForwardEuler:
		stageWeights = []float64{1}
	case SchemeRungeKutta:
		// Explicit midpoint by default; a single stage of weight 1
		// reduces to forward Euler.
		stageWeights = []float64{0.5, 1}
		if w, err := ddtDict.Floats("weights"); err == nil {
			stageWeights = w
		}
	default:
		return fmt.Errorf("dsl: unknown time-integration scheme %q", scheme)
	}
	if len(stageWeights) == 0 {
		return fmt.Errorf("dsl: empty Runge-Kutta stage weights")
	}

	nCells := ctx.Mesh.NCells()
	residual, err := executor.NewContainer[float64](ctx.Exec, nCells)
	if err != nil {
		return err
	}
	defer residual.Free()
	base, err := executor.NewContainer[float64](ctx.Exec, nCells)
	if err != nil {
		return err
	}
	defer base.Free()
	if err := executor.Copy(base, target.Internal()); err != nil {
		return err
	}

	// Each stage evaluates the spatial residual at the current stage
	// state and rebuilds the stage field from the step-start values.
	for _, w := range stageWeights {
		if err := executor.Fill(residual, 0); err != nil {
			return err
		}
		for _, term := range expr.spatialTerms() {
			if err := term.EvaluateExplicit(ctx, residual); err != nil {
				return err
			}
		}
		if err := applyExplicitUpdate(ctx, w*ctx.Dt, base, residual, target.Internal()); err != nil {
			return err
		}
	}
	return nil
}

func solveImplicit(ctx *Context, expr *Expression, target *field.VolumeField,
	solution Dictionary) error {

	sys := NewLDUSystem(ctx.Mesh)

	scratch, err := executor.NewContainer[float64](ctx.Exec, ctx.Mesh.NCells())
	if err != nil {
		return err
	}
	defer scratch.Free()

	for _, term := range expr.Terms() {
		if term.Mode() == Implicit {
			if err := term.EvaluateImplicit(ctx, sys); err != nil {
				return err
			}
			continue
		}
		if err := executor.Fill(scratch, 0); err != nil {
			return err
		}
		if err := term.EvaluateExplicit(ctx, scratch); err != nil {
			return err
		}
		vals := executor.HostView(scratch)
		for c := range sys.RHS {
			sys.RHS[c] -= vals[c]
		}
	}

	cfg := SolutionConfig{
		Tolerance:     solution.FloatOr("tolerance", 1e-8),
		MaxIterations: solution.IntOr("maxIterations", 1000),
	}

	backend, err := NewSolverBackend(solution.StringOr("solver", "BiCGStab"))
	if err != nil {
		return err
	}

	x := target.Internal().CopyToHost()
	if _, err := backend.Solve(sys, x, cfg); err != nil {
		return fmt.Errorf("dsl: implicit solve of %q: %w", target.Name(), err)
	}
	return target.SetInternal(x)
}
