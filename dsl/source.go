package dsl

import (
	"fmt"

	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/field"
)

// sourceTerm models a volumetric source rate for the field's equation.
// It carries the composed-equation sign, contributing -V*rate per cell,
// so ddt(T) + source == 0 grows T at the given rate. Explicit-only.
type sourceTerm struct {
	field *field.VolumeField
	rate  func(cell int) float64
}

// NewSource builds a source term from a per-cell rate function.
func NewSource(f *field.VolumeField, rate func(cell int) float64) Term {
	return &sourceTerm{field: f, rate: rate}
}

// NewUniformSource builds a source term with a constant rate everywhere.
func NewUniformSource(f *field.VolumeField, rate float64) Term {
	return &sourceTerm{field: f, rate: func(int) float64 { return rate }}
}

func (t *sourceTerm) Name() string              { return fmt.Sprintf("source(%s)", t.field.Name()) }
func (t *sourceTerm) Mode() EvalMode            { return Explicit }
func (t *sourceTerm) Temporal() bool            { return false }
func (t *sourceTerm) Field() *field.VolumeField { return t.field }

func (t *sourceTerm) EvaluateExplicit(ctx *Context, into *executor.Container[float64]) error {
	if err := checkOperands(ctx, t.field); err != nil {
		return err
	}
	vols := executor.HostView(ctx.Mesh.CellVolumes())
	out := executor.HostView(into)
	defer commit(into, out)

	for c := range out {
		out[c] -= vols[c] * t.rate(c)
	}
	return nil
}

func (t *sourceTerm) EvaluateImplicit(ctx *Context, sys *LDUSystem) error {
	return errUnsupported(t.Name(), Implicit)
}
