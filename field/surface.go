package field

import (
	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/mesh"
)

// SurfaceField is a named face-centred scalar quantity, typically a flux:
// an internal container sized nInternalFaces plus boundary values
// contiguous across patches.
type SurfaceField struct {
	name     string
	exec     executor.Executor
	mesh     *mesh.UnstructuredMesh
	internal *executor.Container[float64]
	boundary *executor.Container[float64]
}

// NewSurfaceField allocates a zero-valued face field on the mesh's
// executor.
func NewSurfaceField(name string, m *mesh.UnstructuredMesh) (*SurfaceField, error) {
	internal, err := executor.NewContainer[float64](m.Executor(), m.NInternalFaces())
	if err != nil {
		return nil, err
	}
	boundary, err := executor.NewContainer[float64](m.Executor(), m.NBoundaryFaces())
	if err != nil {
		return nil, err
	}
	return &SurfaceField{
		name:     name,
		exec:     m.Executor(),
		mesh:     m,
		internal: internal,
		boundary: boundary,
	}, nil
}

// NewFluxField builds the surface flux phi_f = U(C_f)·S_f from a face
// velocity function, on internal and boundary faces alike.
func NewFluxField(name string, m *mesh.UnstructuredMesh, velocity func(mesh.Vector) mesh.Vector) (*SurfaceField, error) {
	f, err := NewSurfaceField(name, m)
	if err != nil {
		return nil, err
	}

	faceCentres := executor.HostView(m.FaceCentres())
	faceAreas := executor.HostView(m.FaceAreas())
	nInternal := m.NInternalFaces()

	internal := make([]float64, nInternal)
	for face := 0; face < nInternal; face++ {
		internal[face] = velocity(faceCentres[face]).Dot(faceAreas[face])
	}
	boundary := make([]float64, m.NBoundaryFaces())
	for i := range boundary {
		face := nInternal + i
		boundary[i] = velocity(faceCentres[face]).Dot(faceAreas[face])
	}

	if err := f.internal.CopyFrom(internal); err != nil {
		return nil, err
	}
	if err := f.boundary.CopyFrom(boundary); err != nil {
		return nil, err
	}
	return f, nil
}

// Name returns the field name.
func (f *SurfaceField) Name() string { return f.name }

// Executor returns the executor the field is bound to.
func (f *SurfaceField) Executor() executor.Executor { return f.exec }

// Mesh returns the owning mesh.
func (f *SurfaceField) Mesh() *mesh.UnstructuredMesh { return f.mesh }

// Internal returns the internal-face container, length nInternalFaces.
func (f *SurfaceField) Internal() *executor.Container[float64] { return f.internal }

// Boundary returns the boundary-face container.
func (f *SurfaceField) Boundary() *executor.Container[float64] { return f.boundary }
