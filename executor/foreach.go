package executor

import (
	"runtime"
	"sync"
)

// ForEach applies f to every index in [0, n) on the executor's backend.
// It is the sole concurrency primitive of the core: iterations must be
// side-effect-free with respect to each other, iteration order is
// unspecified, and the call returns only once all elements are processed.
//
// The GPU executor cannot run Go closures on the device; call sites with
// device-resident hot loops dispatch named kernels instead (see RunKernel)
// and keep ForEach for host-staged work, where it degrades to a serial
// loop.
func ForEach(exec Executor, n int, f func(i int)) {
	if n <= 0 {
		return
	}
	if exec.Kind() != CPU {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				f(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// ReduceSum computes a per-index value with f and returns the total. The
// combination is addition, which is associative and commutative as the
// scheduling model requires; the CPU backend accumulates per-worker
// partials before combining so no iteration races another.
func ReduceSum(exec Executor, n int, f func(i int) float64) float64 {
	if n <= 0 {
		return 0
	}
	if exec.Kind() != CPU {
		var sum float64
		for i := 0; i < n; i++ {
			sum += f(i)
		}
		return sum
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	partial := make([]float64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var s float64
			for i := lo; i < hi; i++ {
				s += f(i)
			}
			partial[w] = s
		}(w, lo, hi)
	}
	wg.Wait()
	var sum float64
	for _, s := range partial {
		sum += s
	}
	return sum
}
