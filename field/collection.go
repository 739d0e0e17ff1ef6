package field

import (
	"sync"

	"github.com/rajkmsaini/FoamAdapter/mesh"
)

// Database is an explicit simulation-run context owning its field
// collections. It replaces the ambient global registry of the original
// design: each run constructs its own Database and passes it to whatever
// needs field lookup, so nothing leaks across runs or tests.
type Database struct {
	name string

	mu          sync.Mutex
	collections map[string]*FieldCollection
}

// NewDatabase creates an empty run context.
func NewDatabase(name string) *Database {
	return &Database{name: name, collections: make(map[string]*FieldCollection)}
}

// Name returns the database identity.
func (db *Database) Name() string { return db.name }

// Instance returns the collection registered under name in db. The first
// call constructs it; subsequent calls with the same name alias the same
// collection.
func Instance(db *Database, name string) *FieldCollection {
	db.mu.Lock()
	defer db.mu.Unlock()
	if fc, ok := db.collections[name]; ok {
		return fc
	}
	fc := &FieldCollection{
		db:       db,
		name:     name,
		volumes:  make(map[string]*VolumeField),
		surfaces: make(map[string]*SurfaceField),
	}
	db.collections[name] = fc
	return fc
}

// FieldCollection maps field names to exactly one field instance each.
// First registration constructs; later registrations under the same name
// return the existing instance, enforcing at-most-one construction per
// name per run.
type FieldCollection struct {
	db   *Database
	name string

	mu       sync.Mutex
	volumes  map[string]*VolumeField
	surfaces map[string]*SurfaceField
}

// Name returns the collection name.
func (fc *FieldCollection) Name() string { return fc.name }

// VolumeFieldSpec carries the construction arguments for a registered
// volume field.
type VolumeFieldSpec struct {
	Name          string
	Mesh          *mesh.UnstructuredMesh
	Patches       []PatchSpec
	InitialValues []float64 // optional, length nCells when present
}

// RegisterVolumeField constructs and registers the field if absent, else
// returns the already-registered instance.
func (fc *FieldCollection) RegisterVolumeField(spec VolumeFieldSpec) (*VolumeField, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if f, ok := fc.volumes[spec.Name]; ok {
		return f, nil
	}

	f, err := NewVolumeField(spec.Name, spec.Mesh, spec.Patches)
	if err != nil {
		return nil, err
	}
	if spec.InitialValues != nil {
		if err := f.SetInternal(spec.InitialValues); err != nil {
			return nil, err
		}
		if err := f.CorrectBoundaryConditions(); err != nil {
			return nil, err
		}
	}
	fc.volumes[spec.Name] = f
	return f, nil
}

// VolumeField looks up a registered volume field.
func (fc *FieldCollection) VolumeField(name string) (*VolumeField, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	f, ok := fc.volumes[name]
	return f, ok
}

// RegisterSurfaceField registers a pre-built surface field, keeping the
// first instance registered under each name.
func (fc *FieldCollection) RegisterSurfaceField(f *SurfaceField) *SurfaceField {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if existing, ok := fc.surfaces[f.Name()]; ok {
		return existing
	}
	fc.surfaces[f.Name()] = f
	return f
}

// SurfaceField looks up a registered surface field.
func (fc *FieldCollection) SurfaceField(name string) (*SurfaceField, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	f, ok := fc.surfaces[name]
	return f, ok
}
