package executor

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
)

// Container is a typed, resizable array bound to one Executor. It owns a
// single contiguous buffer: host memory for the Serial and CPU executors,
// device memory for the GPU executor. Host-visible data is obtained only
// through the explicit CopyToHost snapshot, never implicitly.
type Container[T any] struct {
	exec Executor
	size int
	data []T               // host buffer, nil for GPU containers
	mem  *gocca.OCCAMemory // device buffer, GPU only
}

// NewContainer allocates zero-initialized storage for n elements on the
// executor's backend.
func NewContainer[T any](exec Executor, n int) (*Container[T], error) {
	if n < 0 {
		return nil, &AllocationError{Backend: exec.Name(), Size: n}
	}
	c := &Container[T]{exec: exec, size: n}
	if exec.Kind() == GPU {
		mem, err := deviceMalloc[T](exec, make([]T, n))
		if err != nil {
			return nil, err
		}
		c.mem = mem
		return c, nil
	}
	c.data = make([]T, n)
	return c, nil
}

// NewContainerFrom allocates a container holding a copy of values.
func NewContainerFrom[T any](exec Executor, values []T) (*Container[T], error) {
	c, err := NewContainer[T](exec, len(values))
	if err != nil {
		return nil, err
	}
	if err := c.CopyFrom(values); err != nil {
		return nil, err
	}
	return c, nil
}

func deviceMalloc[T any](exec Executor, src []T) (*gocca.OCCAMemory, error) {
	var zero T
	elemSize := int64(unsafe.Sizeof(zero))
	bytes := elemSize * int64(len(src))
	if bytes == 0 {
		// OCCA rejects zero-byte allocations; keep one element as a stub.
		bytes = elemSize
		src = make([]T, 1)
	}
	mem := exec.Device().Malloc(bytes, unsafe.Pointer(&src[0]), nil)
	if mem == nil {
		return nil, &AllocationError{Backend: exec.Name(), Size: len(src)}
	}
	return mem, nil
}

// Size returns the number of elements.
func (c *Container[T]) Size() int { return c.size }

// Executor returns the executor the container is bound to.
func (c *Container[T]) Executor() Executor { return c.exec }

// Data returns the host buffer for Serial and CPU containers. GPU
// containers have no host view; use CopyToHost.
func (c *Container[T]) Data() []T {
	if c.exec.Kind() == GPU {
		panic("executor: Data() called on a GPU container; use CopyToHost")
	}
	return c.data
}

// DeviceMemory returns the device buffer for GPU containers, nil
// otherwise. Used by kernel launch sites.
func (c *Container[T]) DeviceMemory() *gocca.OCCAMemory { return c.mem }

// CopyToHost returns a host-resident snapshot of the container. The copy
// is explicit and blocking; mutating the container afterwards does not
// change the snapshot. For host-resident containers this is still a copy,
// so the snapshot never aliases the live buffer.
func (c *Container[T]) CopyToHost() []T {
	out := make([]T, c.size)
	if c.size == 0 {
		return out
	}
	if c.exec.Kind() == GPU {
		var zero T
		elemSize := int64(unsafe.Sizeof(zero))
		c.mem.CopyTo(unsafe.Pointer(&out[0]), elemSize*int64(c.size))
		return out
	}
	copy(out, c.data)
	return out
}

// CopyFrom overwrites the container with values, uploading to the device
// for GPU containers.
func (c *Container[T]) CopyFrom(values []T) error {
	if len(values) != c.size {
		return &SizeMismatchError{Op: "CopyFrom", A: c.size, B: len(values)}
	}
	if c.size == 0 {
		return nil
	}
	if c.exec.Kind() == GPU {
		var zero T
		elemSize := int64(unsafe.Sizeof(zero))
		c.mem.CopyFrom(unsafe.Pointer(&values[0]), elemSize*int64(c.size))
		return nil
	}
	copy(c.data, values)
	return nil
}

// Resize grows or shrinks the container to n elements, preserving the
// leading min(n, Size()) values and zero-filling any tail.
func (c *Container[T]) Resize(n int) error {
	if n < 0 {
		return &AllocationError{Backend: c.exec.Name(), Size: n}
	}
	if n == c.size {
		return nil
	}
	if c.exec.Kind() == GPU {
		staged := c.CopyToHost()
		next := make([]T, n)
		copy(next, staged)
		mem, err := deviceMalloc[T](c.exec, next)
		if err != nil {
			return err
		}
		c.mem.Free()
		c.mem = mem
		c.size = n
		return nil
	}
	next := make([]T, n)
	copy(next, c.data)
	c.data = next
	c.size = n
	return nil
}

// Free releases device memory. Host containers are garbage collected and
// Free is a no-op for them.
func (c *Container[T]) Free() {
	if c.mem != nil {
		c.mem.Free()
		c.mem = nil
	}
}

func (c *Container[T]) String() string {
	return fmt.Sprintf("Container[%s, n=%d]", c.exec.Name(), c.size)
}

// HostView returns a read-only host view of c: the live buffer for host
// executors, an explicit snapshot for GPU containers. Host-staged code
// paths (assembly, boundary conditions) read through this so they work
// on every backend without implicit aliasing of device memory.
func HostView[T any](c *Container[T]) []T {
	if c.Executor().Kind() == GPU {
		return c.CopyToHost()
	}
	return c.Data()
}
