package mesh

import (
	"errors"
	"math"

	"github.com/rajkmsaini/FoamAdapter/executor"
)

// GeometryStrategy computes the derived geometric quantities of the
// internal faces. Strategies are pluggable; BasicGeometryScheme is the
// default inverse-distance scheme.
type GeometryStrategy interface {
	Name() string
	Compute(m *UnstructuredMesh,
		weights, deltaCoeffs *executor.Container[float64],
		nonOrthCorrection *executor.Container[Vector]) error
}

// GeometryScheme caches the derived geometry of one mesh: interpolation
// weights, delta coefficients and non-orthogonality correction vectors
// for the internal faces. Update must be called at least once before the
// accessors; for a static mesh that is the only call ever needed.
type GeometryScheme struct {
	exec     executor.Executor
	mesh     *UnstructuredMesh
	strategy GeometryStrategy
	upToDate bool

	weights           *executor.Container[float64]
	deltaCoeffs       *executor.Container[float64]
	nonOrthCorrection *executor.Container[Vector]
}

// NewGeometryScheme binds a strategy to a mesh. The executor must be the
// mesh's executor.
func NewGeometryScheme(exec executor.Executor, m *UnstructuredMesh,
	strategy GeometryStrategy) (*GeometryScheme, error) {

	if err := executor.SameExecutor("NewGeometryScheme", exec, m.Executor()); err != nil {
		return nil, err
	}

	n := m.NInternalFaces()
	weights, err := executor.NewContainer[float64](exec, n)
	if err != nil {
		return nil, err
	}
	deltaCoeffs, err := executor.NewContainer[float64](exec, n)
	if err != nil {
		return nil, err
	}
	nonOrth, err := executor.NewContainer[Vector](exec, n)
	if err != nil {
		return nil, err
	}

	return &GeometryScheme{
		exec:              exec,
		mesh:              m,
		strategy:          strategy,
		weights:           weights,
		deltaCoeffs:       deltaCoeffs,
		nonOrthCorrection: nonOrth,
	}, nil
}

// NewDefaultGeometryScheme binds the basic scheme to the mesh's executor.
func NewDefaultGeometryScheme(m *UnstructuredMesh) (*GeometryScheme, error) {
	return NewGeometryScheme(m.Executor(), m, &BasicGeometryScheme{})
}

// Geometry returns the scheme the mesh carries, building and updating the
// default scheme on first use. A scheme installed with SetGeometryScheme
// is returned as-is.
func (m *UnstructuredMesh) Geometry() (*GeometryScheme, error) {
	m.geomMu.Lock()
	defer m.geomMu.Unlock()
	if m.geometry != nil {
		return m.geometry, nil
	}
	g, err := NewDefaultGeometryScheme(m)
	if err != nil {
		return nil, err
	}
	if err := g.Update(); err != nil {
		return nil, err
	}
	m.geometry = g
	return g, nil
}

// SetGeometryScheme installs a scheme on the mesh, replacing the default.
// The scheme must be bound to this mesh; updating it stays with the caller.
func (m *UnstructuredMesh) SetGeometryScheme(g *GeometryScheme) error {
	if g.Mesh() != m {
		return errors.New("mesh: SetGeometryScheme: scheme is bound to a different mesh")
	}
	m.geomMu.Lock()
	m.geometry = g
	m.geomMu.Unlock()
	return nil
}

// Update recomputes the derived geometry unconditionally. Calling it
// twice on a static mesh yields identical results.
func (g *GeometryScheme) Update() error {
	if err := g.strategy.Compute(g.mesh, g.weights, g.deltaCoeffs, g.nonOrthCorrection); err != nil {
		return err
	}
	g.upToDate = true
	return nil
}

// Mesh returns the mesh the scheme is bound to.
func (g *GeometryScheme) Mesh() *UnstructuredMesh { return g.mesh }

// Weights returns the internal-face interpolation weights.
func (g *GeometryScheme) Weights() (*executor.Container[float64], error) {
	if !g.upToDate {
		return nil, &NotInitializedError{What: "weights"}
	}
	return g.weights, nil
}

// DeltaCoeffs returns the internal-face delta coefficients.
func (g *GeometryScheme) DeltaCoeffs() (*executor.Container[float64], error) {
	if !g.upToDate {
		return nil, &NotInitializedError{What: "deltaCoeffs"}
	}
	return g.deltaCoeffs, nil
}

// NonOrthCorrection returns the non-orthogonality correction vectors.
// They are zero on an orthogonal mesh.
func (g *GeometryScheme) NonOrthCorrection() (*executor.Container[Vector], error) {
	if !g.upToDate {
		return nil, &NotInitializedError{What: "nonOrthCorrection"}
	}
	return g.nonOrthCorrection, nil
}

// BasicGeometryScheme computes the face interpolation weight as the
// inverse-distance split between owner and neighbour centres projected
// onto the face normal,
//
//	w_f = |d_N·n_f| / (|d_O·n_f| + |d_N·n_f|)
//
// the delta coefficient as 1/|d_ON·n_f|, and the correction vector as
// n_f - d_ON*deltaCoeff.
type BasicGeometryScheme struct{}

func (s *BasicGeometryScheme) Name() string { return "basic" }

const faceGeometryKernel = `
@kernel void faceGeometry(const int nFaces,
                          const double *cellCentres,
                          const double *faceCentres,
                          const double *faceAreas,
                          const int *owner,
                          const int *neighbour,
                          double *weights,
                          double *deltaCoeffs,
                          double *nonOrth) {
  for (int b = 0; b < (nFaces + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int f = b * 256 + t;
      if (f < nFaces) {
        const int own = owner[f];
        const int nei = neighbour[f];

        double sf0 = faceAreas[3*f+0];
        double sf1 = faceAreas[3*f+1];
        double sf2 = faceAreas[3*f+2];
        const double mag = sqrt(sf0*sf0 + sf1*sf1 + sf2*sf2);
        const double n0 = sf0 / mag, n1 = sf1 / mag, n2 = sf2 / mag;

        const double dO0 = faceCentres[3*f+0] - cellCentres[3*own+0];
        const double dO1 = faceCentres[3*f+1] - cellCentres[3*own+1];
        const double dO2 = faceCentres[3*f+2] - cellCentres[3*own+2];
        const double dN0 = cellCentres[3*nei+0] - faceCentres[3*f+0];
        const double dN1 = cellCentres[3*nei+1] - faceCentres[3*f+1];
        const double dN2 = cellCentres[3*nei+2] - faceCentres[3*f+2];

        const double sdO = fabs(dO0*n0 + dO1*n1 + dO2*n2);
        const double sdN = fabs(dN0*n0 + dN1*n1 + dN2*n2);
        weights[f] = sdN / (sdO + sdN);

        const double d0 = dO0 + dN0, d1 = dO1 + dN1, d2 = dO2 + dN2;
        const double dn = fabs(d0*n0 + d1*n1 + d2*n2);
        const double dc = 1.0 / dn;
        deltaCoeffs[f] = dc;

        nonOrth[3*f+0] = n0 - d0 * dc;
        nonOrth[3*f+1] = n1 - d1 * dc;
        nonOrth[3*f+2] = n2 - d2 * dc;
      }
    }
  }
}`

func (s *BasicGeometryScheme) Compute(m *UnstructuredMesh,
	weights, deltaCoeffs *executor.Container[float64],
	nonOrth *executor.Container[Vector]) error {

	exec := m.Executor()
	n := m.NInternalFaces()

	if exec.Kind() == executor.GPU {
		return executor.RunKernel(exec, "faceGeometry", faceGeometryKernel,
			int32(n),
			m.CellCentres().DeviceMemory(),
			m.FaceCentres().DeviceMemory(),
			m.FaceAreas().DeviceMemory(),
			m.FaceOwner().DeviceMemory(),
			m.FaceNeighbour().DeviceMemory(),
			weights.DeviceMemory(),
			deltaCoeffs.DeviceMemory(),
			nonOrth.DeviceMemory())
	}

	cellCentres := m.CellCentres().Data()
	faceCentres := m.FaceCentres().Data()
	faceAreas := m.FaceAreas().Data()
	owner := m.FaceOwner().Data()
	neighbour := m.FaceNeighbour().Data()
	w := weights.Data()
	dc := deltaCoeffs.Data()
	no := nonOrth.Data()

	executor.ForEach(exec, n, func(f int) {
		own := owner[f]
		nei := neighbour[f]
		nHat := faceAreas[f].Unit()

		dOwn := faceCentres[f].Sub(cellCentres[own])
		dNei := cellCentres[nei].Sub(faceCentres[f])

		sdO := math.Abs(dOwn.Dot(nHat))
		sdN := math.Abs(dNei.Dot(nHat))
		w[f] = sdN / (sdO + sdN)

		d := dOwn.Add(dNei)
		coeff := 1.0 / math.Abs(d.Dot(nHat))
		dc[f] = coeff
		no[f] = nHat.Sub(d.Scale(coeff))
	})
	return nil
}
