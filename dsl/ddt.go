package dsl

import (
	"fmt"

	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/field"
)

// ddtTerm models the temporal term d(field)/dt. Implicitly it
// contributes V/dt to the diagonal and V/dt*fieldOld to the right-hand
// side; explicitly it evaluates the volume-integrated rate
// V*(field-fieldOld)/dt from the old-time values carried in the context.
//
// The explicit path is for standalone residual evaluation only, with
// the caller supplying Context.Old: the explicit march applies the time
// derivative through its update formula, so evaluating this term into
// the stage residual as well would count it twice.
type ddtTerm struct {
	mode  EvalMode
	field *field.VolumeField
}

// NewDdt builds the temporal term for the given field. Use the exp and
// imp subpackages for the idiomatic constructors.
func NewDdt(mode EvalMode, f *field.VolumeField) Term {
	return &ddtTerm{mode: mode, field: f}
}

func (t *ddtTerm) Name() string              { return fmt.Sprintf("ddt(%s)", t.field.Name()) }
func (t *ddtTerm) Mode() EvalMode            { return t.mode }
func (t *ddtTerm) Temporal() bool            { return true }
func (t *ddtTerm) Field() *field.VolumeField { return t.field }

func (t *ddtTerm) EvaluateExplicit(ctx *Context, into *executor.Container[float64]) error {
	if err := checkOperands(ctx, t.field); err != nil {
		return err
	}
	if ctx.Old == nil {
		return fmt.Errorf("dsl: %s explicit evaluation needs old-time values in the context", t.Name())
	}
	if ctx.Old.Size() != ctx.Mesh.NCells() {
		return &executor.SizeMismatchError{Op: t.Name(), A: ctx.Old.Size(), B: ctx.Mesh.NCells()}
	}

	vols := executor.HostView(ctx.Mesh.CellVolumes())
	current := executor.HostView(t.field.Internal())
	old := executor.HostView(ctx.Old)
	out := executor.HostView(into)
	defer commit(into, out)

	dt := ctx.Dt
	for c := range out {
		out[c] += vols[c] * (current[c] - old[c]) / dt
	}
	return nil
}

func (t *ddtTerm) EvaluateImplicit(ctx *Context, sys *LDUSystem) error {
	if err := checkOperands(ctx, t.field); err != nil {
		return err
	}
	vols := executor.HostView(ctx.Mesh.CellVolumes())
	old := executor.HostView(t.field.Internal())
	dt := ctx.Dt
	for c := range sys.Diag {
		rdt := vols[c] / dt
		sys.Diag[c] += rdt
		sys.RHS[c] += rdt * old[c]
	}
	return nil
}

// commit writes a host-staged result back to a GPU container; for host
// executors the work happened in the live buffer already.
func commit(c *executor.Container[float64], staged []float64) {
	if c.Executor().Kind() == executor.GPU {
		_ = c.CopyFrom(staged)
	}
}
