package executor

import (
	"fmt"
	"sync"

	"github.com/notargets/gocca"
)

// kernelCache holds compiled kernels per device so that each OKL source
// is built once per device lifetime.
var kernelCache = struct {
	sync.Mutex
	kernels map[*gocca.OCCADevice]map[string]*gocca.OCCAKernel
}{kernels: make(map[*gocca.OCCADevice]map[string]*gocca.OCCAKernel)}

// buildKernel compiles source for the executor's device, caching by name.
func buildKernel(exec Executor, name, source string) (*gocca.OCCAKernel, error) {
	device := exec.Device()
	if device == nil {
		return nil, fmt.Errorf("executor: kernel %s requires a GPU executor", name)
	}

	kernelCache.Lock()
	defer kernelCache.Unlock()

	perDevice, ok := kernelCache.kernels[device]
	if !ok {
		perDevice = make(map[string]*gocca.OCCAKernel)
		kernelCache.kernels[device] = perDevice
	}
	if kernel, ok := perDevice[name]; ok {
		return kernel, nil
	}

	kernel, err := device.BuildKernelFromString(source, name, nil)
	if err != nil {
		return nil, fmt.Errorf("executor: failed to build kernel %s: %w", name, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("executor: kernel build returned nil for %s", name)
	}
	perDevice[name] = kernel
	return kernel, nil
}

// RunKernel builds (or reuses) the named kernel and launches it with the
// given arguments, fencing the device before returning so the call is
// synchronous from the caller's perspective.
func RunKernel(exec Executor, name, source string, args ...interface{}) error {
	kernel, err := buildKernel(exec, name, source)
	if err != nil {
		return err
	}
	if err := kernel.RunWithArgs(args...); err != nil {
		return fmt.Errorf("executor: kernel %s execution failed: %w", name, err)
	}
	exec.Device().Finish()
	return nil
}

// FreeDeviceKernels releases every kernel compiled for the device. Call
// before freeing the device itself.
func FreeDeviceKernels(device *gocca.OCCADevice) {
	kernelCache.Lock()
	defer kernelCache.Unlock()
	for _, kernel := range kernelCache.kernels[device] {
		kernel.Free()
	}
	delete(kernelCache.kernels, device)
}
