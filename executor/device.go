package executor

import (
	"fmt"

	"github.com/notargets/gocca"
)

// CreateDevice creates an OCCA device, preferring accelerated backends
// and falling back to OCCA's Serial mode. Returns an error when no
// backend at all can be initialized, so callers (tests in particular)
// can skip GPU coverage instead of failing.
func CreateDevice() (*gocca.OCCADevice, error) {
	backends := []string{
		`{"mode": "CUDA", "device_id": 0}`,
		`{"mode": "OpenCL", "platform_id": 0, "device_id": 0}`,
		`{"mode": "OpenMP"}`,
		`{"mode": "Serial"}`,
	}

	var lastErr error
	for _, props := range backends {
		device, err := gocca.NewDevice(props)
		if err == nil {
			return device, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("executor: no OCCA backend available: %w", lastErr)
}
