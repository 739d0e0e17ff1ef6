package mesh

import (
	"sync"

	"github.com/rajkmsaini/FoamAdapter/executor"
)

// Spec carries the raw topology and geometry arrays supplied by an
// external mesh source. Faces are ordered internal first, then boundary
// faces grouped by patch; FaceNeighbour covers internal faces only.
type Spec struct {
	Points        []Vector
	CellVolumes   []float64
	CellCentres   []Vector
	FaceCentres   []Vector
	FaceAreas     []Vector
	FaceOwner     []Label
	FaceNeighbour []Label
	PatchOffsets  []int // len nPatches+1, over boundary faces, PatchOffsets[0]==0
	PatchNames    []string
}

// UnstructuredMesh is an immutable topology and geometry snapshot bound
// to one executor. It is built once from externally supplied arrays and
// performs no geometry recomputation beyond what it is given; derived
// quantities live in GeometryScheme.
type UnstructuredMesh struct {
	exec executor.Executor

	nCells         int
	nInternalFaces int
	nBoundaryFaces int
	nPatches       int

	points        *executor.Container[Vector]
	cellVolumes   *executor.Container[float64]
	cellCentres   *executor.Container[Vector]
	faceCentres   *executor.Container[Vector]
	faceAreas     *executor.Container[Vector]
	magFaceAreas  *executor.Container[float64]
	faceOwner     *executor.Container[Label]
	faceNeighbour *executor.Container[Label]

	// Cell-to-face adjacency in CSR form with divergence signs (+1 when
	// the cell owns the face, -1 when it neighbours it). This is what
	// makes race-free per-cell gather loops possible.
	cellFaceOffsets *executor.Container[Label]
	cellFaceIndices *executor.Container[Label]
	cellFaceSigns   *executor.Container[float64]

	boundary *BoundaryMesh

	geomMu   sync.Mutex
	geometry *GeometryScheme
}

// NewUnstructuredMesh validates spec and uploads it to the executor's
// backend. Inconsistent arrays are rejected with MeshConsistencyError.
func NewUnstructuredMesh(exec executor.Executor, spec Spec) (*UnstructuredMesh, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	nCells := len(spec.CellVolumes)
	nFaces := len(spec.FaceOwner)
	nInternal := len(spec.FaceNeighbour)

	m := &UnstructuredMesh{
		exec:           exec,
		nCells:         nCells,
		nInternalFaces: nInternal,
		nBoundaryFaces: nFaces - nInternal,
		nPatches:       len(spec.PatchOffsets) - 1,
	}

	magFaceAreas := make([]float64, nFaces)
	for f, area := range spec.FaceAreas {
		magFaceAreas[f] = area.Mag()
	}

	var err error
	if m.points, err = executor.NewContainerFrom(exec, spec.Points); err != nil {
		return nil, err
	}
	if m.cellVolumes, err = executor.NewContainerFrom(exec, spec.CellVolumes); err != nil {
		return nil, err
	}
	if m.cellCentres, err = executor.NewContainerFrom(exec, spec.CellCentres); err != nil {
		return nil, err
	}
	if m.faceCentres, err = executor.NewContainerFrom(exec, spec.FaceCentres); err != nil {
		return nil, err
	}
	if m.faceAreas, err = executor.NewContainerFrom(exec, spec.FaceAreas); err != nil {
		return nil, err
	}
	if m.magFaceAreas, err = executor.NewContainerFrom(exec, magFaceAreas); err != nil {
		return nil, err
	}
	if m.faceOwner, err = executor.NewContainerFrom(exec, spec.FaceOwner); err != nil {
		return nil, err
	}
	if m.faceNeighbour, err = executor.NewContainerFrom(exec, spec.FaceNeighbour); err != nil {
		return nil, err
	}

	if err = m.buildCellFaceAdjacency(spec); err != nil {
		return nil, err
	}

	if m.boundary, err = newBoundaryMesh(exec, spec, magFaceAreas); err != nil {
		return nil, err
	}

	return m, nil
}

func validateSpec(spec Spec) error {
	nCells := len(spec.CellVolumes)
	if nCells == 0 {
		return consistencyErrorf("mesh has no cells")
	}
	if len(spec.CellCentres) != nCells {
		return consistencyErrorf("cellCentres length %d != nCells %d",
			len(spec.CellCentres), nCells)
	}
	nFaces := len(spec.FaceOwner)
	if len(spec.FaceCentres) != nFaces {
		return consistencyErrorf("faceCentres length %d != nFaces %d",
			len(spec.FaceCentres), nFaces)
	}
	if len(spec.FaceAreas) != nFaces {
		return consistencyErrorf("faceAreas length %d != nFaces %d",
			len(spec.FaceAreas), nFaces)
	}
	nInternal := len(spec.FaceNeighbour)
	if nInternal > nFaces {
		return consistencyErrorf("nInternalFaces %d > nFaces %d", nInternal, nFaces)
	}

	for c, vol := range spec.CellVolumes {
		if vol <= 0 {
			return consistencyErrorf("cell %d has non-positive volume %g", c, vol)
		}
	}
	for f, area := range spec.FaceAreas {
		if area.Mag() == 0 {
			return consistencyErrorf("face %d has zero area vector", f)
		}
	}

	for f, own := range spec.FaceOwner {
		if own < 0 || int(own) >= nCells {
			return consistencyErrorf("face %d owner %d out of range [0,%d)", f, own, nCells)
		}
	}
	for f, nei := range spec.FaceNeighbour {
		if nei < 0 || int(nei) >= nCells {
			return consistencyErrorf("face %d neighbour %d out of range [0,%d)", f, nei, nCells)
		}
		if spec.FaceOwner[f] >= nei {
			return consistencyErrorf("face %d violates owner<neighbour: owner %d, neighbour %d",
				f, spec.FaceOwner[f], nei)
		}
	}

	if len(spec.PatchOffsets) < 1 {
		return consistencyErrorf("patch offset table missing")
	}
	if spec.PatchOffsets[0] != 0 {
		return consistencyErrorf("patch offset table must start at 0, got %d",
			spec.PatchOffsets[0])
	}
	for p := 1; p < len(spec.PatchOffsets); p++ {
		if spec.PatchOffsets[p] < spec.PatchOffsets[p-1] {
			return consistencyErrorf("patch offsets not monotone at patch %d: %d < %d",
				p-1, spec.PatchOffsets[p], spec.PatchOffsets[p-1])
		}
	}
	nBoundary := nFaces - nInternal
	if last := spec.PatchOffsets[len(spec.PatchOffsets)-1]; last != nBoundary {
		return consistencyErrorf("patch offsets end at %d, expected nBoundaryFaces %d",
			last, nBoundary)
	}
	if len(spec.PatchNames) != 0 && len(spec.PatchNames) != len(spec.PatchOffsets)-1 {
		return consistencyErrorf("patchNames length %d != nPatches %d",
			len(spec.PatchNames), len(spec.PatchOffsets)-1)
	}
	return nil
}

func (m *UnstructuredMesh) buildCellFaceAdjacency(spec Spec) error {
	nFaces := len(spec.FaceOwner)
	nInternal := len(spec.FaceNeighbour)

	counts := make([]Label, m.nCells+1)
	for _, own := range spec.FaceOwner {
		counts[own+1]++
	}
	for _, nei := range spec.FaceNeighbour {
		counts[nei+1]++
	}
	offsets := make([]Label, m.nCells+1)
	for c := 0; c < m.nCells; c++ {
		offsets[c+1] = offsets[c] + counts[c+1]
	}

	total := int(offsets[m.nCells])
	indices := make([]Label, total)
	signs := make([]float64, total)
	cursor := make([]Label, m.nCells)
	copy(cursor, offsets[:m.nCells])

	for f := 0; f < nFaces; f++ {
		own := spec.FaceOwner[f]
		indices[cursor[own]] = Label(f)
		signs[cursor[own]] = 1
		cursor[own]++
	}
	for f := 0; f < nInternal; f++ {
		nei := spec.FaceNeighbour[f]
		indices[cursor[nei]] = Label(f)
		signs[cursor[nei]] = -1
		cursor[nei]++
	}

	var err error
	if m.cellFaceOffsets, err = executor.NewContainerFrom(m.exec, offsets); err != nil {
		return err
	}
	if m.cellFaceIndices, err = executor.NewContainerFrom(m.exec, indices); err != nil {
		return err
	}
	m.cellFaceSigns, err = executor.NewContainerFrom(m.exec, signs)
	return err
}

// Executor returns the executor the mesh is bound to.
func (m *UnstructuredMesh) Executor() executor.Executor { return m.exec }

func (m *UnstructuredMesh) NCells() int         { return m.nCells }
func (m *UnstructuredMesh) NInternalFaces() int { return m.nInternalFaces }
func (m *UnstructuredMesh) NBoundaryFaces() int { return m.nBoundaryFaces }
func (m *UnstructuredMesh) NFaces() int         { return m.nInternalFaces + m.nBoundaryFaces }
func (m *UnstructuredMesh) NPatches() int       { return m.nPatches }

func (m *UnstructuredMesh) Points() *executor.Container[Vector]        { return m.points }
func (m *UnstructuredMesh) CellVolumes() *executor.Container[float64]  { return m.cellVolumes }
func (m *UnstructuredMesh) CellCentres() *executor.Container[Vector]   { return m.cellCentres }
func (m *UnstructuredMesh) FaceCentres() *executor.Container[Vector]   { return m.faceCentres }
func (m *UnstructuredMesh) FaceAreas() *executor.Container[Vector]     { return m.faceAreas }
func (m *UnstructuredMesh) MagFaceAreas() *executor.Container[float64] { return m.magFaceAreas }
func (m *UnstructuredMesh) FaceOwner() *executor.Container[Label]      { return m.faceOwner }
func (m *UnstructuredMesh) FaceNeighbour() *executor.Container[Label]  { return m.faceNeighbour }

// CellFaceOffsets, CellFaceIndices and CellFaceSigns expose the CSR
// cell-to-face adjacency used by gather-form divergence loops.
func (m *UnstructuredMesh) CellFaceOffsets() *executor.Container[Label] { return m.cellFaceOffsets }
func (m *UnstructuredMesh) CellFaceIndices() *executor.Container[Label] { return m.cellFaceIndices }
func (m *UnstructuredMesh) CellFaceSigns() *executor.Container[float64] { return m.cellFaceSigns }

// BoundaryMesh returns the boundary patch view.
func (m *UnstructuredMesh) BoundaryMesh() *BoundaryMesh { return m.boundary }
