package mesh

import (
	"github.com/rajkmsaini/FoamAdapter/executor"
)

// NewUniform1DMesh builds a 1D uniform mesh of n cells on [0, length]
// with unit cross-section: n-1 internal faces and two single-face
// boundary patches named "left" and "right". Used by tests and examples;
// real meshes come from an external source.
func NewUniform1DMesh(exec executor.Executor, n int, length float64) (*UnstructuredMesh, error) {
	dx := length / float64(n)

	spec := Spec{
		CellVolumes:  make([]float64, n),
		CellCentres:  make([]Vector, n),
		PatchOffsets: []int{0, 1, 2},
		PatchNames:   []string{"left", "right"},
	}
	for c := 0; c < n; c++ {
		spec.CellVolumes[c] = dx
		spec.CellCentres[c] = Vector{(float64(c) + 0.5) * dx, 0, 0}
	}

	// Internal faces between cell i and i+1, then the two boundary faces.
	for f := 0; f < n-1; f++ {
		spec.FaceCentres = append(spec.FaceCentres, Vector{float64(f+1) * dx, 0, 0})
		spec.FaceAreas = append(spec.FaceAreas, Vector{1, 0, 0})
		spec.FaceOwner = append(spec.FaceOwner, Label(f))
		spec.FaceNeighbour = append(spec.FaceNeighbour, Label(f+1))
	}
	spec.FaceCentres = append(spec.FaceCentres, Vector{0, 0, 0}, Vector{length, 0, 0})
	spec.FaceAreas = append(spec.FaceAreas, Vector{-1, 0, 0}, Vector{1, 0, 0})
	spec.FaceOwner = append(spec.FaceOwner, 0, Label(n-1))

	spec.Points = []Vector{{0, 0, 0}, {length, 0, 0}}

	return NewUnstructuredMesh(exec, spec)
}

// NewUniformBoxMesh builds a 2D nx-by-ny uniform box mesh on
// [0,lx]x[0,ly] with unit thickness. Cells are numbered row-major,
// c = j*nx + i. Boundary patches: left, right, bottom, top.
func NewUniformBoxMesh(exec executor.Executor, nx, ny int, lx, ly float64) (*UnstructuredMesh, error) {
	dx := lx / float64(nx)
	dy := ly / float64(ny)

	nCells := nx * ny
	spec := Spec{
		CellVolumes: make([]float64, nCells),
		CellCentres: make([]Vector, nCells),
		PatchNames:  []string{"left", "right", "bottom", "top"},
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			c := j*nx + i
			spec.CellVolumes[c] = dx * dy
			spec.CellCentres[c] = Vector{
				(float64(i) + 0.5) * dx,
				(float64(j) + 0.5) * dy,
				0,
			}
		}
	}

	// Internal faces: x-normal between (i,j) and (i+1,j), then y-normal
	// between (i,j) and (i,j+1). Owner is always the lower-index cell.
	for j := 0; j < ny; j++ {
		for i := 0; i < nx-1; i++ {
			c := j*nx + i
			spec.FaceCentres = append(spec.FaceCentres,
				Vector{float64(i+1) * dx, (float64(j) + 0.5) * dy, 0})
			spec.FaceAreas = append(spec.FaceAreas, Vector{dy, 0, 0})
			spec.FaceOwner = append(spec.FaceOwner, Label(c))
			spec.FaceNeighbour = append(spec.FaceNeighbour, Label(c+1))
		}
	}
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx; i++ {
			c := j*nx + i
			spec.FaceCentres = append(spec.FaceCentres,
				Vector{(float64(i) + 0.5) * dx, float64(j+1) * dy, 0})
			spec.FaceAreas = append(spec.FaceAreas, Vector{0, dx, 0})
			spec.FaceOwner = append(spec.FaceOwner, Label(c))
			spec.FaceNeighbour = append(spec.FaceNeighbour, Label(c+nx))
		}
	}

	// Boundary faces grouped by patch: left, right, bottom, top. Area
	// vectors point out of the domain.
	offsets := []int{0}
	addPatch := func(faces []int, centres []Vector, areas []Vector) {
		for k := range faces {
			spec.FaceCentres = append(spec.FaceCentres, centres[k])
			spec.FaceAreas = append(spec.FaceAreas, areas[k])
			spec.FaceOwner = append(spec.FaceOwner, Label(faces[k]))
		}
		offsets = append(offsets, offsets[len(offsets)-1]+len(faces))
	}

	var cells []int
	var centres, areas []Vector
	for j := 0; j < ny; j++ { // left
		cells = append(cells, j*nx)
		centres = append(centres, Vector{0, (float64(j) + 0.5) * dy, 0})
		areas = append(areas, Vector{-dy, 0, 0})
	}
	addPatch(cells, centres, areas)

	cells, centres, areas = nil, nil, nil
	for j := 0; j < ny; j++ { // right
		cells = append(cells, j*nx+nx-1)
		centres = append(centres, Vector{lx, (float64(j) + 0.5) * dy, 0})
		areas = append(areas, Vector{dy, 0, 0})
	}
	addPatch(cells, centres, areas)

	cells, centres, areas = nil, nil, nil
	for i := 0; i < nx; i++ { // bottom
		cells = append(cells, i)
		centres = append(centres, Vector{(float64(i) + 0.5) * dx, 0, 0})
		areas = append(areas, Vector{0, -dx, 0})
	}
	addPatch(cells, centres, areas)

	cells, centres, areas = nil, nil, nil
	for i := 0; i < nx; i++ { // top
		cells = append(cells, (ny-1)*nx+i)
		centres = append(centres, Vector{(float64(i) + 0.5) * dx, ly, 0})
		areas = append(areas, Vector{0, dx, 0})
	}
	addPatch(cells, centres, areas)

	spec.PatchOffsets = offsets
	spec.Points = []Vector{{0, 0, 0}, {lx, 0, 0}, {lx, ly, 0}, {0, ly, 0}}

	return NewUnstructuredMesh(exec, spec)
}
