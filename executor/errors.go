package executor

import "fmt"

// AllocationError reports that a backend could not provide the requested
// storage. It is fatal to the operation that triggered it.
type AllocationError struct {
	Backend string
	Size    int
	Cause   error
}

func (e *AllocationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("executor: %s allocation of %d elements failed: %v", e.Backend, e.Size, e.Cause)
	}
	return fmt.Sprintf("executor: %s allocation of %d elements failed", e.Backend, e.Size)
}

func (e *AllocationError) Unwrap() error { return e.Cause }

// ExecutorMismatchError reports operands bound to different executors.
// The operation is rejected before any data access.
type ExecutorMismatchError struct {
	Op   string
	A, B string
}

func (e *ExecutorMismatchError) Error() string {
	return fmt.Sprintf("executor: %s: executor mismatch: %s vs %s", e.Op, e.A, e.B)
}

// SizeMismatchError reports operands with incompatible lengths combined
// in one operation.
type SizeMismatchError struct {
	Op   string
	A, B int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("executor: %s: size mismatch: %d vs %d", e.Op, e.A, e.B)
}

// SameExecutor rejects operand pairs bound to different executors.
func SameExecutor(op string, a, b Executor) error {
	if !a.Equal(b) {
		return &ExecutorMismatchError{Op: op, A: a.Name(), B: b.Name()}
	}
	return nil
}
