package dsl

import (
	"fmt"

	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/field"
	"github.com/rajkmsaini/FoamAdapter/mesh"
)

// EvalMode tags a term as evaluated into an additive source contribution
// (Explicit) or into a linear-operator contribution solved for the
// new-time value (Implicit).
type EvalMode int

const (
	Explicit EvalMode = iota + 1
	Implicit
)

func (m EvalMode) String() string {
	if m == Implicit {
		return "implicit"
	}
	return "explicit"
}

// Context carries everything a term needs during evaluation. Old holds
// the old-time internal values when a temporal term is evaluated
// explicitly; the solver's explicit branch marches the field itself and
// leaves Old nil.
type Context struct {
	Exec     executor.Executor
	Mesh     *mesh.UnstructuredMesh
	Geometry *mesh.GeometryScheme
	Time     float64
	Dt       float64
	Old      *executor.Container[float64]
}

// Term is one discretization contribution. EvaluateExplicit accumulates
// the volume-integrated operator value per cell into `into` (so the sum
// over all cells of a pure flux term telescopes to the boundary flux);
// EvaluateImplicit stamps the matrix and right-hand side of an LDUSystem.
// Terms that support only one mode report the other as unsupported.
type Term interface {
	Name() string
	Mode() EvalMode
	Temporal() bool
	Field() *field.VolumeField
	EvaluateExplicit(ctx *Context, into *executor.Container[float64]) error
	EvaluateImplicit(ctx *Context, sys *LDUSystem) error
}

func errUnsupported(term string, mode EvalMode) error {
	return fmt.Errorf("dsl: term %s does not support %s evaluation", term, mode)
}

// checkOperands rejects evaluation when the context and term operands
// disagree on executor or mesh before any data is touched.
func checkOperands(ctx *Context, f *field.VolumeField) error {
	if err := executor.SameExecutor("term evaluation", ctx.Exec, f.Executor()); err != nil {
		return err
	}
	if ctx.Mesh != f.Mesh() {
		return fmt.Errorf("dsl: term field %q lives on a different mesh", f.Name())
	}
	return nil
}
