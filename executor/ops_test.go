package executor

import (
	"errors"
	"math"
	"testing"
)

func TestForEach_MatchesSerial(t *testing.T) {
	const n = 10007

	serial := make([]float64, n)
	ForEach(NewSerial(), n, func(i int) {
		serial[i] = math.Sin(float64(i))
	})

	parallel := make([]float64, n)
	ForEach(NewCPU(), n, func(i int) {
		parallel[i] = math.Sin(float64(i))
	})

	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("Element %d differs: serial %g, cpu %g", i, serial[i], parallel[i])
		}
	}
}

func TestForEach_Empty(t *testing.T) {
	called := false
	ForEach(NewCPU(), 0, func(int) { called = true })
	if called {
		t.Error("Body invoked for empty range")
	}
}

func TestReduceSum(t *testing.T) {
	const n = 1000
	want := float64(n*(n-1)) / 2

	for name, exec := range hostExecutors() {
		t.Run(name, func(t *testing.T) {
			got := ReduceSum(exec, n, func(i int) float64 { return float64(i) })
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("ReduceSum = %g, want %g", got, want)
			}
		})
	}
}

func TestOps_Host(t *testing.T) {
	for name, exec := range hostExecutors() {
		t.Run(name, func(t *testing.T) {
			x, err := NewContainerFrom(exec, []float64{1, 2, 3, 4})
			if err != nil {
				t.Fatalf("NewContainerFrom: %v", err)
			}
			defer x.Free()
			y, err := NewContainerFrom(exec, []float64{10, 20, 30, 40})
			if err != nil {
				t.Fatalf("NewContainerFrom: %v", err)
			}
			defer y.Free()

			if err := AXPY(2, x, y); err != nil {
				t.Fatalf("AXPY: %v", err)
			}
			want := []float64{12, 24, 36, 48}
			for i, w := range want {
				if got := y.Data()[i]; got != w {
					t.Errorf("y[%d] = %g, want %g", i, got, w)
				}
			}

			if err := Scale(x, 0.5); err != nil {
				t.Fatalf("Scale: %v", err)
			}
			if got := x.Data()[3]; got != 2 {
				t.Errorf("x[3] = %g, want 2", got)
			}

			if err := Fill(x, 7); err != nil {
				t.Fatalf("Fill: %v", err)
			}
			if got := Sum(x); got != 28 {
				t.Errorf("Sum = %g, want 28", got)
			}

			if err := Copy(x, y); err != nil {
				t.Fatalf("Copy: %v", err)
			}
			if got := x.Data()[0]; got != 12 {
				t.Errorf("x[0] = %g after copy, want 12", got)
			}
		})
	}
}

func TestOps_Guards(t *testing.T) {
	x, _ := NewContainer[float64](NewSerial(), 4)
	defer x.Free()
	y, _ := NewContainer[float64](NewSerial(), 5)
	defer y.Free()
	z, _ := NewContainer[float64](NewCPU(), 4)
	defer z.Free()

	var sizeErr *SizeMismatchError
	if err := AXPY(1, x, y); !errors.As(err, &sizeErr) {
		t.Errorf("Expected SizeMismatchError for length mismatch, got %v", err)
	}
	var mismatch *ExecutorMismatchError
	if err := AXPY(1, x, z); !errors.As(err, &mismatch) {
		t.Errorf("Expected ExecutorMismatchError for backend mismatch, got %v", err)
	}
}

func TestOps_GPU(t *testing.T) {
	device, err := CreateDevice()
	if err != nil {
		t.Skipf("No OCCA device available: %v", err)
	}
	defer device.Free()
	exec := NewGPU(device)
	defer FreeDeviceKernels(device)

	x, err := NewContainerFrom(exec, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewContainerFrom: %v", err)
	}
	defer x.Free()
	y, err := NewContainer[float64](exec, 4)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer y.Free()

	if err := Fill(y, 1); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := AXPY(3, x, y); err != nil {
		t.Fatalf("AXPY: %v", err)
	}

	got := y.CopyToHost()
	want := []float64{4, 7, 10, 13}
	for i, w := range want {
		if math.Abs(got[i]-w) > 1e-14 {
			t.Errorf("y[%d] = %g, want %g", i, got[i], w)
		}
	}

	if got, want := Sum(y), 34.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Sum = %g, want %g", got, want)
	}
}
