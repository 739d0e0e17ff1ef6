package mesh

import (
	"github.com/rajkmsaini/FoamAdapter/executor"
)

// BoundaryMesh is the patch-grouped view of the boundary faces. All
// per-face containers are laid out contiguously across patches using the
// same offset table: patch p occupies the half-open range
// [Offset()[p], Offset()[p+1]).
type BoundaryMesh struct {
	exec   executor.Executor
	offset []int
	names  []string

	faceCells   *executor.Container[Label]
	cf          *executor.Container[Vector] // face centres
	cn          *executor.Container[Vector] // adjacent cell centres
	sf          *executor.Container[Vector] // area vectors
	magSf       *executor.Container[float64]
	nf          *executor.Container[Vector] // unit normals
	delta       *executor.Container[Vector] // cell centre to face centre
	weights     *executor.Container[float64]
	deltaCoeffs *executor.Container[float64]
}

func newBoundaryMesh(exec executor.Executor, spec Spec, magAll []float64) (*BoundaryMesh, error) {
	nInternal := len(spec.FaceNeighbour)
	nBoundary := len(spec.FaceOwner) - nInternal

	faceCells := make([]Label, nBoundary)
	cf := make([]Vector, nBoundary)
	cn := make([]Vector, nBoundary)
	sf := make([]Vector, nBoundary)
	magSf := make([]float64, nBoundary)
	nf := make([]Vector, nBoundary)
	delta := make([]Vector, nBoundary)
	weights := make([]float64, nBoundary)
	deltaCoeffs := make([]float64, nBoundary)

	for i := 0; i < nBoundary; i++ {
		f := nInternal + i
		own := spec.FaceOwner[f]

		faceCells[i] = own
		cf[i] = spec.FaceCentres[f]
		cn[i] = spec.CellCentres[own]
		sf[i] = spec.FaceAreas[f]
		magSf[i] = magAll[f]
		nf[i] = sf[i].Unit()
		delta[i] = cf[i].Sub(cn[i])
		// A boundary face has no neighbour cell, so the owner carries the
		// full interpolation weight and the delta coefficient is measured
		// from the owner centre alone.
		weights[i] = 1.0
		deltaCoeffs[i] = 1.0 / nf[i].Dot(delta[i])
	}

	offset := make([]int, len(spec.PatchOffsets))
	copy(offset, spec.PatchOffsets)
	names := make([]string, len(spec.PatchNames))
	copy(names, spec.PatchNames)

	b := &BoundaryMesh{exec: exec, offset: offset, names: names}

	var err error
	if b.faceCells, err = executor.NewContainerFrom(exec, faceCells); err != nil {
		return nil, err
	}
	if b.cf, err = executor.NewContainerFrom(exec, cf); err != nil {
		return nil, err
	}
	if b.cn, err = executor.NewContainerFrom(exec, cn); err != nil {
		return nil, err
	}
	if b.sf, err = executor.NewContainerFrom(exec, sf); err != nil {
		return nil, err
	}
	if b.magSf, err = executor.NewContainerFrom(exec, magSf); err != nil {
		return nil, err
	}
	if b.nf, err = executor.NewContainerFrom(exec, nf); err != nil {
		return nil, err
	}
	if b.delta, err = executor.NewContainerFrom(exec, delta); err != nil {
		return nil, err
	}
	if b.weights, err = executor.NewContainerFrom(exec, weights); err != nil {
		return nil, err
	}
	if b.deltaCoeffs, err = executor.NewContainerFrom(exec, deltaCoeffs); err != nil {
		return nil, err
	}
	return b, nil
}

// Offset returns the patch offset table, length NPatches+1.
func (b *BoundaryMesh) Offset() []int { return b.offset }

// NPatches returns the number of boundary patches.
func (b *BoundaryMesh) NPatches() int { return len(b.offset) - 1 }

// PatchName returns the name of patch p, empty when the mesh source
// supplied none.
func (b *BoundaryMesh) PatchName(p int) string {
	if len(b.names) == 0 {
		return ""
	}
	return b.names[p]
}

// PatchRange returns the half-open boundary-face range of patch p.
func (b *BoundaryMesh) PatchRange(p int) (start, end int) {
	return b.offset[p], b.offset[p+1]
}

func (b *BoundaryMesh) FaceCells() *executor.Container[Label]     { return b.faceCells }
func (b *BoundaryMesh) Cf() *executor.Container[Vector]           { return b.cf }
func (b *BoundaryMesh) Cn() *executor.Container[Vector]           { return b.cn }
func (b *BoundaryMesh) Sf() *executor.Container[Vector]           { return b.sf }
func (b *BoundaryMesh) MagSf() *executor.Container[float64]       { return b.magSf }
func (b *BoundaryMesh) Nf() *executor.Container[Vector]           { return b.nf }
func (b *BoundaryMesh) Delta() *executor.Container[Vector]        { return b.delta }
func (b *BoundaryMesh) Weights() *executor.Container[float64]     { return b.weights }
func (b *BoundaryMesh) DeltaCoeffs() *executor.Container[float64] { return b.deltaCoeffs }

// PatchFaceCells returns a host snapshot of the owner cells of patch p.
// Its length always equals Offset()[p+1]-Offset()[p].
func (b *BoundaryMesh) PatchFaceCells(p int) []Label {
	all := executor.HostView(b.faceCells)
	start, end := b.PatchRange(p)
	out := make([]Label, end-start)
	copy(out, all[start:end])
	return out
}
