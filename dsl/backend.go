package dsl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SolutionConfig carries the linear-backend controls read from the
// solution dictionary.
type SolutionConfig struct {
	Tolerance     float64
	MaxIterations int
}

// SolverStats reports what the linear backend did.
type SolverStats struct {
	Iterations      int
	InitialResidual float64
	FinalResidual   float64
	Converged       bool
}

// SolverBackend is the external linear-algebra collaborator: it accepts
// an assembled sparse system and returns a solution or a convergence
// failure. The core never retries; retry policy belongs to the caller.
type SolverBackend interface {
	Name() string
	Solve(sys *LDUSystem, x []float64, cfg SolutionConfig) (SolverStats, error)
}

// NewSolverBackend returns the backend registered under name.
func NewSolverBackend(name string) (SolverBackend, error) {
	switch name {
	case "BiCGStab":
		return &BiCGStab{}, nil
	case "Jacobi":
		return &Jacobi{}, nil
	}
	return nil, fmt.Errorf("dsl: unknown linear solver %q", name)
}

// SolverConvergenceError reports that the backend failed to converge
// within its configured limits.
type SolverConvergenceError struct {
	Solver     string
	Iterations int
	Residual   float64
}

func (e *SolverConvergenceError) Error() string {
	return fmt.Sprintf("dsl: %s failed to converge after %d iterations, residual %g",
		e.Solver, e.Iterations, e.Residual)
}

// BiCGStab is the default backend: Jacobi-preconditioned stabilized
// bi-conjugate gradients over the CSR form of the system. Suited to the
// non-symmetric matrices convection assembles.
type BiCGStab struct{}

func (b *BiCGStab) Name() string { return "BiCGStab" }

func (b *BiCGStab) Solve(sys *LDUSystem, x []float64, cfg SolutionConfig) (SolverStats, error) {
	n := sys.NCells()
	if len(x) != n {
		return SolverStats{}, fmt.Errorf("dsl: BiCGStab solution vector length %d != %d unknowns", len(x), n)
	}

	a := sys.ToCSR()
	rhs := sys.RHS

	// Jacobi preconditioner from the assembled diagonal.
	invDiag := make([]float64, n)
	for c, d := range sys.Diag {
		if d == 0 {
			return SolverStats{}, fmt.Errorf("dsl: BiCGStab: zero diagonal at cell %d", c)
		}
		invDiag[c] = 1 / d
	}

	matVec := func(dst, src []float64) {
		for i := range dst {
			dst[i] = 0
		}
		a.DoNonZero(func(i, j int, v float64) {
			dst[i] += v * src[j]
		})
	}

	r := make([]float64, n)
	matVec(r, x)
	floats.Scale(-1, r)
	floats.Add(r, rhs)

	normB := floats.Norm(rhs, 2)
	if normB == 0 {
		normB = 1
	}
	stats := SolverStats{InitialResidual: floats.Norm(r, 2) / normB}
	if stats.InitialResidual <= cfg.Tolerance {
		stats.Converged = true
		stats.FinalResidual = stats.InitialResidual
		return stats, nil
	}

	rHat := make([]float64, n)
	copy(rHat, r)
	v := make([]float64, n)
	p := make([]float64, n)
	pHat := make([]float64, n)
	s := make([]float64, n)
	sHat := make([]float64, n)
	t := make([]float64, n)

	rho, alpha, omega := 1.0, 1.0, 1.0

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		rhoNext := floats.Dot(rHat, r)
		if rhoNext == 0 {
			break
		}
		beta := (rhoNext / rho) * (alpha / omega)
		for i := range p {
			p[i] = r[i] + beta*(p[i]-omega*v[i])
		}
		rho = rhoNext

		for i := range pHat {
			pHat[i] = invDiag[i] * p[i]
		}
		matVec(v, pHat)
		alpha = rho / floats.Dot(rHat, v)

		for i := range s {
			s[i] = r[i] - alpha*v[i]
		}
		if res := floats.Norm(s, 2) / normB; res <= cfg.Tolerance {
			floats.AddScaled(x, alpha, pHat)
			stats.Iterations = iter
			stats.FinalResidual = res
			stats.Converged = true
			return stats, nil
		}

		for i := range sHat {
			sHat[i] = invDiag[i] * s[i]
		}
		matVec(t, sHat)
		tt := floats.Dot(t, t)
		if tt == 0 {
			break
		}
		omega = floats.Dot(t, s) / tt

		floats.AddScaled(x, alpha, pHat)
		floats.AddScaled(x, omega, sHat)
		for i := range r {
			r[i] = s[i] - omega*t[i]
		}

		res := floats.Norm(r, 2) / normB
		stats.Iterations = iter
		stats.FinalResidual = res
		if res <= cfg.Tolerance {
			stats.Converged = true
			return stats, nil
		}
		if omega == 0 || math.IsNaN(res) {
			break
		}
	}

	return stats, &SolverConvergenceError{
		Solver:     b.Name(),
		Iterations: stats.Iterations,
		Residual:   stats.FinalResidual,
	}
}

// Jacobi is a diagonal-relaxation backend. It converges only on
// diagonally dominant systems, but its sweep is a single matrix-vector
// product, which makes it a useful cross-check against BiCGStab.
type Jacobi struct{}

func (j *Jacobi) Name() string { return "Jacobi" }

func (j *Jacobi) Solve(sys *LDUSystem, x []float64, cfg SolutionConfig) (SolverStats, error) {
	n := sys.NCells()
	if len(x) != n {
		return SolverStats{}, fmt.Errorf("dsl: Jacobi solution vector length %d != %d unknowns", len(x), n)
	}

	invDiag := make([]float64, n)
	for c, d := range sys.Diag {
		if d == 0 {
			return SolverStats{}, fmt.Errorf("dsl: Jacobi: zero diagonal at cell %d", c)
		}
		invDiag[c] = 1 / d
	}

	a := sys.ToCSR()
	rhs := sys.RHS

	residual := func(r []float64) float64 {
		for i := range r {
			r[i] = 0
		}
		a.DoNonZero(func(i, j int, v float64) {
			r[i] += v * x[j]
		})
		floats.Scale(-1, r)
		floats.Add(r, rhs)
		return floats.Norm(r, 2)
	}

	normB := floats.Norm(rhs, 2)
	if normB == 0 {
		normB = 1
	}

	r := make([]float64, n)
	stats := SolverStats{InitialResidual: residual(r) / normB}
	if stats.InitialResidual <= cfg.Tolerance {
		stats.Converged = true
		stats.FinalResidual = stats.InitialResidual
		return stats, nil
	}

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		for i := range x {
			x[i] += invDiag[i] * r[i]
		}
		res := residual(r) / normB
		stats.Iterations = iter
		stats.FinalResidual = res
		if res <= cfg.Tolerance {
			stats.Converged = true
			return stats, nil
		}
		if math.IsNaN(res) {
			break
		}
	}

	return stats, &SolverConvergenceError{
		Solver:     j.Name(),
		Iterations: stats.Iterations,
		Residual:   stats.FinalResidual,
	}
}
