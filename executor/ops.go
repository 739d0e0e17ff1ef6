package executor

// Primitive per-element operations on scalar containers. These are the
// hot loops the field algebra and the solver update step run on; each
// dispatches to a serial loop, chunked goroutines, or a device kernel
// depending on the container's executor.

const fillKernel = `
@kernel void fill(const int n,
                  const double value,
                  double *a) {
  for (int b = 0; b < (n + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < n) {
        a[i] = value;
      }
    }
  }
}`

const scaleKernel = `
@kernel void scale(const int n,
                   const double alpha,
                   double *a) {
  for (int b = 0; b < (n + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < n) {
        a[i] = alpha * a[i];
      }
    }
  }
}`

const axpyKernel = `
@kernel void axpy(const int n,
                  const double alpha,
                  const double *x,
                  double *y) {
  for (int b = 0; b < (n + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < n) {
        y[i] = y[i] + alpha * x[i];
      }
    }
  }
}`

const copyKernel = `
@kernel void copyvals(const int n,
                      const double *src,
                      double *dst) {
  for (int b = 0; b < (n + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < n) {
        dst[i] = src[i];
      }
    }
  }
}`

// Fill sets every element of a to value.
func Fill(a *Container[float64], value float64) error {
	exec := a.Executor()
	if exec.Kind() == GPU {
		return RunKernel(exec, "fill", fillKernel, int32(a.Size()), value, a.DeviceMemory())
	}
	data := a.Data()
	ForEach(exec, a.Size(), func(i int) {
		data[i] = value
	})
	return nil
}

// Scale multiplies every element of a by alpha.
func Scale(a *Container[float64], alpha float64) error {
	exec := a.Executor()
	if exec.Kind() == GPU {
		return RunKernel(exec, "scale", scaleKernel, int32(a.Size()), alpha, a.DeviceMemory())
	}
	data := a.Data()
	ForEach(exec, a.Size(), func(i int) {
		data[i] = alpha * data[i]
	})
	return nil
}

// AXPY computes y += alpha*x.
func AXPY(alpha float64, x, y *Container[float64]) error {
	if err := SameExecutor("AXPY", x.Executor(), y.Executor()); err != nil {
		return err
	}
	if x.Size() != y.Size() {
		return &SizeMismatchError{Op: "AXPY", A: x.Size(), B: y.Size()}
	}
	exec := y.Executor()
	if exec.Kind() == GPU {
		return RunKernel(exec, "axpy", axpyKernel, int32(y.Size()), alpha,
			x.DeviceMemory(), y.DeviceMemory())
	}
	xd, yd := x.Data(), y.Data()
	ForEach(exec, y.Size(), func(i int) {
		yd[i] += alpha * xd[i]
	})
	return nil
}

// Copy overwrites dst with src element-wise.
func Copy(dst, src *Container[float64]) error {
	if err := SameExecutor("Copy", src.Executor(), dst.Executor()); err != nil {
		return err
	}
	if src.Size() != dst.Size() {
		return &SizeMismatchError{Op: "Copy", A: dst.Size(), B: src.Size()}
	}
	exec := dst.Executor()
	if exec.Kind() == GPU {
		return RunKernel(exec, "copyvals", copyKernel, int32(dst.Size()),
			src.DeviceMemory(), dst.DeviceMemory())
	}
	dd, sd := dst.Data(), src.Data()
	ForEach(exec, dst.Size(), func(i int) {
		dd[i] = sd[i]
	})
	return nil
}

// Sum returns the sum of all elements. The GPU path stages through a host
// snapshot; reductions are not a hot loop for the core.
func Sum(a *Container[float64]) float64 {
	exec := a.Executor()
	if exec.Kind() == GPU {
		vals := a.CopyToHost()
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum
	}
	data := a.Data()
	return ReduceSum(exec, a.Size(), func(i int) float64 {
		return data[i]
	})
}
