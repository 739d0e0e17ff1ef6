package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/rajkmsaini/FoamAdapter/executor"
)

func TestUniform1DMesh_Counts(t *testing.T) {
	m, err := NewUniform1DMesh(executor.NewSerial(), 10, 1.0)
	if err != nil {
		t.Fatalf("NewUniform1DMesh: %v", err)
	}

	if m.NCells() != 10 {
		t.Errorf("NCells = %d, want 10", m.NCells())
	}
	if m.NInternalFaces() != 9 {
		t.Errorf("NInternalFaces = %d, want 9", m.NInternalFaces())
	}
	if m.NBoundaryFaces() != 2 {
		t.Errorf("NBoundaryFaces = %d, want 2", m.NBoundaryFaces())
	}
	if m.NPatches() != 2 {
		t.Errorf("NPatches = %d, want 2", m.NPatches())
	}

	vols := m.CellVolumes().Data()
	for c, v := range vols {
		if math.Abs(v-0.1) > 1e-14 {
			t.Fatalf("Cell %d volume = %g, want 0.1", c, v)
		}
	}
}

func TestBoxMesh_Counts(t *testing.T) {
	m, err := NewUniformBoxMesh(executor.NewSerial(), 4, 3, 4.0, 3.0)
	if err != nil {
		t.Fatalf("NewUniformBoxMesh: %v", err)
	}
	if m.NCells() != 12 {
		t.Errorf("NCells = %d, want 12", m.NCells())
	}
	// 3 x-interior faces per row times 3 rows, plus 4 columns times 2
	// y-interior faces.
	if m.NInternalFaces() != 17 {
		t.Errorf("NInternalFaces = %d, want 17", m.NInternalFaces())
	}
	if m.NBoundaryFaces() != 14 {
		t.Errorf("NBoundaryFaces = %d, want 14", m.NBoundaryFaces())
	}
	if m.NPatches() != 4 {
		t.Errorf("NPatches = %d, want 4", m.NPatches())
	}
}

// Every closed cell's outward face-area vectors must sum to zero; with
// owner-positive orientation the signed sum over all faces of the mesh
// telescopes to the boundary, which itself closes the domain.
func TestBoxMesh_ClosedCells(t *testing.T) {
	m, err := NewUniformBoxMesh(executor.NewSerial(), 5, 4, 1.0, 1.0)
	if err != nil {
		t.Fatalf("NewUniformBoxMesh: %v", err)
	}

	sums := make([]Vector, m.NCells())
	areas := m.FaceAreas().Data()
	owner := m.FaceOwner().Data()
	neighbour := m.FaceNeighbour().Data()

	for f := 0; f < m.NInternalFaces(); f++ {
		sums[owner[f]] = sums[owner[f]].Add(areas[f])
		sums[neighbour[f]] = sums[neighbour[f]].Sub(areas[f])
	}
	for f := m.NInternalFaces(); f < m.NFaces(); f++ {
		sums[owner[f]] = sums[owner[f]].Add(areas[f])
	}

	for c, s := range sums {
		if s.Mag() > 1e-12 {
			t.Errorf("Cell %d area sum = %v, want zero", c, s)
		}
	}
}

func TestMesh_OwnerNeighbourOrdering(t *testing.T) {
	m, err := NewUniformBoxMesh(executor.NewSerial(), 6, 6, 1.0, 1.0)
	if err != nil {
		t.Fatalf("NewUniformBoxMesh: %v", err)
	}
	owner := m.FaceOwner().Data()
	neighbour := m.FaceNeighbour().Data()
	for f := 0; f < m.NInternalFaces(); f++ {
		if owner[f] >= neighbour[f] {
			t.Fatalf("Face %d: owner %d >= neighbour %d", f, owner[f], neighbour[f])
		}
	}
}

func TestMesh_CellFaceAdjacency(t *testing.T) {
	m, err := NewUniform1DMesh(executor.NewSerial(), 4, 1.0)
	if err != nil {
		t.Fatalf("NewUniform1DMesh: %v", err)
	}

	offsets := m.CellFaceOffsets().Data()
	indices := m.CellFaceIndices().Data()
	signs := m.CellFaceSigns().Data()

	if int(offsets[m.NCells()]) != len(indices) {
		t.Fatalf("Adjacency end offset %d != %d entries", offsets[m.NCells()], len(indices))
	}

	// Replaying the adjacency with unit face values must reproduce the
	// face-serial scatter for any per-face data.
	faceVals := []float64{2, -3, 5} // internal faces only
	scatter := make([]float64, m.NCells())
	owner := m.FaceOwner().Data()
	neighbour := m.FaceNeighbour().Data()
	for f := 0; f < m.NInternalFaces(); f++ {
		scatter[owner[f]] += faceVals[f]
		scatter[neighbour[f]] -= faceVals[f]
	}

	gather := make([]float64, m.NCells())
	for c := 0; c < m.NCells(); c++ {
		for k := offsets[c]; k < offsets[c+1]; k++ {
			f := int(indices[k])
			if f >= m.NInternalFaces() {
				continue
			}
			gather[c] += signs[k] * faceVals[f]
		}
	}

	for c := range scatter {
		if math.Abs(scatter[c]-gather[c]) > 1e-14 {
			t.Errorf("Cell %d: scatter %g != gather %g", c, scatter[c], gather[c])
		}
	}
}

func TestValidateSpec_Rejections(t *testing.T) {
	base := func() Spec {
		return Spec{
			Points:        []Vector{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
			CellVolumes:   []float64{1, 1},
			CellCentres:   []Vector{{0.5, 0, 0}, {1.5, 0, 0}},
			FaceCentres:   []Vector{{1, 0, 0}, {0, 0, 0}, {2, 0, 0}},
			FaceAreas:     []Vector{{1, 0, 0}, {-1, 0, 0}, {1, 0, 0}},
			FaceOwner:     []Label{0, 0, 1},
			FaceNeighbour: []Label{1},
			PatchOffsets:  []int{0, 1, 2},
			PatchNames:    []string{"left", "right"},
		}
	}

	cases := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"NegativeVolume", func(s *Spec) { s.CellVolumes[1] = -1 }},
		{"ZeroArea", func(s *Spec) { s.FaceAreas[0] = Vector{} }},
		{"OwnerOutOfRange", func(s *Spec) { s.FaceOwner[0] = 5 }},
		{"OwnerNotBelowNeighbour", func(s *Spec) { s.FaceOwner[0] = 1; s.FaceNeighbour[0] = 0 }},
		{"OffsetNotMonotone", func(s *Spec) { s.PatchOffsets = []int{0, 2, 1} }},
		{"OffsetWrongStart", func(s *Spec) { s.PatchOffsets = []int{1, 1, 2} }},
		{"OffsetWrongEnd", func(s *Spec) { s.PatchOffsets = []int{0, 1, 3} }},
		{"PatchNameCount", func(s *Spec) { s.PatchNames = []string{"only"} }},
		{"CentreCount", func(s *Spec) { s.CellCentres = s.CellCentres[:1] }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := base()
			tc.mutate(&spec)
			_, err := NewUnstructuredMesh(executor.NewSerial(), spec)
			if err == nil {
				t.Fatal("Expected construction to fail")
			}
			var consistency *MeshConsistencyError
			if !errors.As(err, &consistency) {
				t.Errorf("Expected MeshConsistencyError, got %T: %v", err, err)
			}
		})
	}

	t.Run("ValidBaseline", func(t *testing.T) {
		spec := base()
		if _, err := NewUnstructuredMesh(executor.NewSerial(), spec); err != nil {
			t.Fatalf("Baseline spec rejected: %v", err)
		}
	})
}

func TestBoundaryMesh_Patches(t *testing.T) {
	m, err := NewUniform1DMesh(executor.NewSerial(), 8, 2.0)
	if err != nil {
		t.Fatalf("NewUniform1DMesh: %v", err)
	}
	b := m.BoundaryMesh()

	if b.NPatches() != 2 {
		t.Fatalf("NPatches = %d, want 2", b.NPatches())
	}
	if name := b.PatchName(0); name != "left" {
		t.Errorf("Patch 0 name = %q, want left", name)
	}
	if name := b.PatchName(1); name != "right" {
		t.Errorf("Patch 1 name = %q, want right", name)
	}

	start, end := b.PatchRange(1)
	if start != 1 || end != 2 {
		t.Errorf("PatchRange(1) = [%d,%d), want [1,2)", start, end)
	}

	cells := b.PatchFaceCells(1)
	if len(cells) != 1 || cells[0] != 7 {
		t.Errorf("Right patch face cell = %v, want [7]", cells)
	}

	// Boundary normals point out of the domain.
	nf := b.Nf().Data()
	if nf[0].X() >= 0 {
		t.Errorf("Left boundary normal %v should point in -x", nf[0])
	}
	if nf[1].X() <= 0 {
		t.Errorf("Right boundary normal %v should point in +x", nf[1])
	}

	dc := b.DeltaCoeffs().Data()
	// Half-cell spacing of 0.125 between cell centre and boundary face.
	if math.Abs(dc[0]-8.0) > 1e-12 {
		t.Errorf("Boundary deltaCoeff = %g, want 8", dc[0])
	}
}
