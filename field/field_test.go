package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajkmsaini/FoamAdapter/executor"
	"github.com/rajkmsaini/FoamAdapter/mesh"
)

func onedPatches() []PatchSpec {
	return []PatchSpec{
		{Kind: FixedValue, Value: 1.0},
		{Kind: ZeroGradient},
	}
}

func TestVolumeField_Creation(t *testing.T) {
	m, err := mesh.NewUniform1DMesh(executor.NewSerial(), 10, 1.0)
	require.NoError(t, err)

	f, err := NewVolumeField("T", m, onedPatches())
	require.NoError(t, err)

	assert.Equal(t, "T", f.Name())
	assert.Equal(t, 10, f.Internal().Size())
	assert.Equal(t, 2, f.Boundary().Size())
	assert.Equal(t, FixedValue, f.Patch(0).Kind)
}

func TestVolumeField_PatchCountMismatch(t *testing.T) {
	m, err := mesh.NewUniform1DMesh(executor.NewSerial(), 4, 1.0)
	require.NoError(t, err)

	_, err = NewVolumeField("T", m, []PatchSpec{{Kind: ZeroGradient}})
	assert.Error(t, err, "one patch spec for a two-patch mesh must be rejected")
}

func TestVolumeField_CorrectBoundaryConditions(t *testing.T) {
	m, err := mesh.NewUniform1DMesh(executor.NewSerial(), 4, 1.0)
	require.NoError(t, err)

	t.Run("FixedValueAndZeroGradient", func(t *testing.T) {
		f, err := NewVolumeField("T", m, []PatchSpec{
			{Kind: FixedValue, Value: 3.5},
			{Kind: ZeroGradient},
		})
		require.NoError(t, err)
		require.NoError(t, f.SetInternal([]float64{1, 2, 3, 4}))
		require.NoError(t, f.CorrectBoundaryConditions())

		b := f.Boundary().Data()
		assert.Equal(t, 3.5, b[0], "fixed-value patch takes the prescribed value")
		assert.Equal(t, 4.0, b[1], "zero-gradient patch copies the owner cell")
	})

	t.Run("FixedGradient", func(t *testing.T) {
		f, err := NewVolumeField("T", m, []PatchSpec{
			{Kind: FixedGradient, Gradient: 8.0},
			{Kind: ZeroGradient},
		})
		require.NoError(t, err)
		require.NoError(t, f.SetInternal([]float64{1, 2, 3, 4}))
		require.NoError(t, f.CorrectBoundaryConditions())

		// Half-cell spacing 0.125, so value = owner + gradient/deltaCoeff
		// = 1 + 8*0.125 = 2.
		b := f.Boundary().Data()
		assert.InDelta(t, 2.0, b[0], 1e-14)
	})

	t.Run("CalculatedUntouched", func(t *testing.T) {
		f, err := NewVolumeField("T", m, []PatchSpec{
			{Kind: Calculated},
			{Kind: ZeroGradient},
		})
		require.NoError(t, err)
		require.NoError(t, f.SetInternal([]float64{1, 2, 3, 4}))
		require.NoError(t, f.Boundary().CopyFrom([]float64{42, 0}))
		require.NoError(t, f.CorrectBoundaryConditions())

		assert.Equal(t, 42.0, f.Boundary().Data()[0], "calculated patch keeps whatever was written")
	})
}

func TestFluxField_UniformVelocity(t *testing.T) {
	m, err := mesh.NewUniform1DMesh(executor.NewSerial(), 5, 1.0)
	require.NoError(t, err)

	phi, err := NewFluxField("phi", m, func(mesh.Vector) mesh.Vector {
		return mesh.Vector{2, 0, 0}
	})
	require.NoError(t, err)

	for f, v := range phi.Internal().Data() {
		if math.Abs(v-2.0) > 1e-14 {
			t.Fatalf("Internal face %d flux = %g, want 2", f, v)
		}
	}
	b := phi.Boundary().Data()
	assert.InDelta(t, -2.0, b[0], 1e-14, "left boundary flux points outward")
	assert.InDelta(t, 2.0, b[1], 1e-14, "right boundary flux points outward")
}

func TestFieldCollection_RegisterOnce(t *testing.T) {
	m, err := mesh.NewUniform1DMesh(executor.NewSerial(), 4, 1.0)
	require.NoError(t, err)

	db := NewDatabase("run")
	fc := Instance(db, "fields")

	spec := VolumeFieldSpec{
		Name:          "T",
		Mesh:          m,
		Patches:       onedPatches(),
		InitialValues: []float64{1, 2, 3, 4},
	}

	first, err := fc.RegisterVolumeField(spec)
	require.NoError(t, err)

	spec.InitialValues = []float64{9, 9, 9, 9}
	second, err := fc.RegisterVolumeField(spec)
	require.NoError(t, err)

	assert.Same(t, first, second, "re-registration must return the existing field")
	assert.Equal(t, 1.0, first.Internal().Data()[0], "re-registration must not reinitialize")

	got, ok := fc.VolumeField("T")
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = fc.VolumeField("U")
	assert.False(t, ok)
}

func TestDatabase_InstanceAliases(t *testing.T) {
	db := NewDatabase("run")
	a := Instance(db, "fields")
	b := Instance(db, "fields")
	assert.Same(t, a, b)

	other := Instance(NewDatabase("other"), "fields")
	assert.NotSame(t, a, other, "collections are scoped to their database")
}

func TestFieldCollection_SurfaceFields(t *testing.T) {
	m, err := mesh.NewUniform1DMesh(executor.NewSerial(), 4, 1.0)
	require.NoError(t, err)

	db := NewDatabase("run")
	fc := Instance(db, "fields")

	phi, err := NewSurfaceField("phi", m)
	require.NoError(t, err)

	registered := fc.RegisterSurfaceField(phi)
	assert.Same(t, phi, registered)

	dup, err := NewSurfaceField("phi", m)
	require.NoError(t, err)
	assert.Same(t, phi, fc.RegisterSurfaceField(dup), "first registration wins")
}
