package dsl

import (
	"github.com/james-bowman/sparse"

	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/mesh"
)

// LDUSystem is the assembled linear system in the mesh's connectivity
// layout: one diagonal coefficient per cell, one lower and one upper
// coefficient per internal face, and a per-cell right-hand side.
// Upper[f] is the coefficient of the neighbour unknown in the owner
// cell's equation, Lower[f] the coefficient of the owner unknown in the
// neighbour's equation.
type LDUSystem struct {
	mesh *mesh.UnstructuredMesh

	Diag  []float64
	Lower []float64
	Upper []float64
	RHS   []float64
}

// NewLDUSystem allocates a zeroed system for the mesh.
func NewLDUSystem(m *mesh.UnstructuredMesh) *LDUSystem {
	return &LDUSystem{
		mesh:  m,
		Diag:  make([]float64, m.NCells()),
		Lower: make([]float64, m.NInternalFaces()),
		Upper: make([]float64, m.NInternalFaces()),
		RHS:   make([]float64, m.NCells()),
	}
}

// Mesh returns the mesh whose connectivity keys the coefficients.
func (s *LDUSystem) Mesh() *mesh.UnstructuredMesh { return s.mesh }

// NCells returns the number of unknowns.
func (s *LDUSystem) NCells() int { return len(s.Diag) }

// ToCSR converts the system matrix to compressed sparse row form, the
// format handed to the external linear-algebra backend.
func (s *LDUSystem) ToCSR() *sparse.CSR {
	n := s.NCells()
	owner := executor.HostView(s.mesh.FaceOwner())
	neighbour := executor.HostView(s.mesh.FaceNeighbour())

	dok := sparse.NewDOK(n, n)
	for c := 0; c < n; c++ {
		dok.Set(c, c, s.Diag[c])
	}
	for f := 0; f < s.mesh.NInternalFaces(); f++ {
		own := int(owner[f])
		nei := int(neighbour[f])
		if s.Upper[f] != 0 {
			dok.Set(own, nei, s.Upper[f])
		}
		if s.Lower[f] != 0 {
			dok.Set(nei, own, s.Lower[f])
		}
	}
	return dok.ToCSR()
}
