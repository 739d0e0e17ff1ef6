package mesh

import "fmt"

// MeshConsistencyError reports topology or geometry arrays that violate
// the mesh invariants. It is raised at construction and is fatal: no
// partially constructed mesh is ever returned.
type MeshConsistencyError struct {
	Detail string
}

func (e *MeshConsistencyError) Error() string {
	return fmt.Sprintf("mesh: inconsistent construction arrays: %s", e.Detail)
}

func consistencyErrorf(format string, args ...interface{}) error {
	return &MeshConsistencyError{Detail: fmt.Sprintf(format, args...)}
}

// NotInitializedError reports derived geometry accessed before the
// producing computation has run.
type NotInitializedError struct {
	What string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("mesh: %s accessed before Update()", e.What)
}
