// Package field provides cell- and face-centred fields bound to a mesh
// and an executor, their boundary conditions, and the per-Database
// FieldCollection registry that guarantees construct-once semantics.
package field

import "fmt"

// BoundaryKind selects the rule a patch applies when boundary values are
// recomputed from the interior.
type BoundaryKind int

const (
	// FixedValue pins the boundary value (Dirichlet).
	FixedValue BoundaryKind = iota + 1
	// FixedGradient extrapolates from the adjacent cell with a prescribed
	// surface-normal gradient (Neumann).
	FixedGradient
	// ZeroGradient copies the adjacent cell value.
	ZeroGradient
	// Calculated values are written by some other computation and left
	// untouched by CorrectBoundaryConditions.
	Calculated
	// Empty marks patches normal to unresolved directions; values stay
	// zero.
	Empty
)

func (k BoundaryKind) String() string {
	switch k {
	case FixedValue:
		return "fixedValue"
	case FixedGradient:
		return "fixedGradient"
	case ZeroGradient:
		return "zeroGradient"
	case Calculated:
		return "calculated"
	case Empty:
		return "empty"
	}
	return "unknown"
}

// PatchSpec is one patch's boundary condition: a kind plus the
// coefficient it needs (Value for FixedValue, Gradient for
// FixedGradient).
type PatchSpec struct {
	Kind     BoundaryKind
	Value    float64
	Gradient float64
}

func validatePatches(nPatches int, patches []PatchSpec) error {
	if len(patches) != nPatches {
		return fmt.Errorf("field: %d patch specs for %d mesh patches", len(patches), nPatches)
	}
	for p, spec := range patches {
		switch spec.Kind {
		case FixedValue, FixedGradient, ZeroGradient, Calculated, Empty:
		default:
			return fmt.Errorf("field: patch %d has unknown boundary kind %d", p, spec.Kind)
		}
	}
	return nil
}
