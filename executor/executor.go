// Package executor provides the backend-tagged execution model for the
// finite-volume core: a closed set of executors (Serial, CPU, GPU), the
// Container type bound to one executor, and the data-parallel dispatch
// primitives everything else is built on.
package executor

import (
	"github.com/notargets/gocca"
)

// Kind identifies one of the closed set of execution backends.
type Kind int

const (
	// Serial runs every iteration in order on the calling goroutine.
	Serial Kind = iota + 1
	// CPU shares iterations across runtime.NumCPU() goroutines.
	CPU
	// GPU dispatches work to an OCCA device.
	GPU
)

func (k Kind) String() string {
	switch k {
	case Serial:
		return "Serial"
	case CPU:
		return "CPU"
	case GPU:
		return "GPU"
	}
	return "Unknown"
}

// Executor selects how per-element work is dispatched. It carries no
// mesh or field state; equality is by backend tag. Containers record
// exactly one Executor for their lifetime, and mixing containers from
// different executors in one operation is rejected, never coerced.
type Executor struct {
	kind   Kind
	device *gocca.OCCADevice
}

// NewSerial returns the serial executor.
func NewSerial() Executor {
	return Executor{kind: Serial}
}

// NewCPU returns the multi-core CPU executor.
func NewCPU() Executor {
	return Executor{kind: CPU}
}

// NewGPU returns a GPU executor bound to the given OCCA device.
func NewGPU(device *gocca.OCCADevice) Executor {
	if device == nil {
		panic("executor: GPU executor requires a non-nil device")
	}
	return Executor{kind: GPU, device: device}
}

// Kind returns the backend tag.
func (e Executor) Kind() Kind { return e.kind }

// Name returns the backend name for diagnostics and test labels.
func (e Executor) Name() string { return e.kind.String() }

// Device returns the OCCA device for GPU executors, nil otherwise.
func (e Executor) Device() *gocca.OCCADevice { return e.device }

// Equal reports whether two executors select the same backend.
func (e Executor) Equal(other Executor) bool {
	return e.kind == other.kind && e.device == other.device
}
