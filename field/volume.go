package field

import (
	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/mesh"
)

// VolumeField is a named cell-centred scalar quantity on a mesh: an
// internal-value container sized nCells plus boundary values laid out
// contiguously across patches with one boundary-condition spec per patch.
type VolumeField struct {
	name     string
	exec     executor.Executor
	mesh     *mesh.UnstructuredMesh
	internal *executor.Container[float64]
	boundary *executor.Container[float64]
	patches  []PatchSpec
}

// NewVolumeField allocates a zero-valued field on the mesh's executor.
func NewVolumeField(name string, m *mesh.UnstructuredMesh, patches []PatchSpec) (*VolumeField, error) {
	if err := validatePatches(m.NPatches(), patches); err != nil {
		return nil, err
	}
	internal, err := executor.NewContainer[float64](m.Executor(), m.NCells())
	if err != nil {
		return nil, err
	}
	boundary, err := executor.NewContainer[float64](m.Executor(), m.NBoundaryFaces())
	if err != nil {
		return nil, err
	}
	specs := make([]PatchSpec, len(patches))
	copy(specs, patches)
	return &VolumeField{
		name:     name,
		exec:     m.Executor(),
		mesh:     m,
		internal: internal,
		boundary: boundary,
		patches:  specs,
	}, nil
}

// Name returns the field name, unique within its collection.
func (f *VolumeField) Name() string { return f.name }

// Executor returns the executor the field is bound to.
func (f *VolumeField) Executor() executor.Executor { return f.exec }

// Mesh returns the owning mesh.
func (f *VolumeField) Mesh() *mesh.UnstructuredMesh { return f.mesh }

// Internal returns the cell-value container, length nCells.
func (f *VolumeField) Internal() *executor.Container[float64] { return f.internal }

// Boundary returns the boundary-value container, contiguous across
// patches and sized to the mesh's total boundary-face count.
func (f *VolumeField) Boundary() *executor.Container[float64] { return f.boundary }

// Patch returns the boundary condition of patch p.
func (f *VolumeField) Patch(p int) PatchSpec { return f.patches[p] }

// SetInternal overwrites the interior values. Callers must recorrect the
// boundary before the field is consumed by a spatial term.
func (f *VolumeField) SetInternal(values []float64) error {
	return f.internal.CopyFrom(values)
}

// CorrectBoundaryConditions recomputes every patch's boundary values
// from the interior values and patch geometry. There is no automatic
// staleness tracking: call this after any interior mutation and before
// the field is consumed by a spatial term.
func (f *VolumeField) CorrectBoundaryConditions() error {
	bm := f.mesh.BoundaryMesh()
	internal := executor.HostView(f.internal)
	faceCells := executor.HostView(bm.FaceCells())
	deltaCoeffs := executor.HostView(bm.DeltaCoeffs())
	values := f.boundary.CopyToHost()

	for p, spec := range f.patches {
		start, end := bm.PatchRange(p)
		for i := start; i < end; i++ {
			own := faceCells[i]
			switch spec.Kind {
			case FixedValue:
				values[i] = spec.Value
			case FixedGradient:
				values[i] = internal[own] + spec.Gradient/deltaCoeffs[i]
			case ZeroGradient:
				values[i] = internal[own]
			case Calculated, Empty:
				// left as written
			}
		}
	}
	return f.boundary.CopyFrom(values)
}
