package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_Scalars(t *testing.T) {
	d := Dictionary{
		"dt":    0.01,
		"steps": 100,
		"name":  "advection",
	}

	v, err := d.Float("dt")
	require.NoError(t, err)
	assert.Equal(t, 0.01, v)

	// Int literals read as scalars too.
	v, err = d.Float("steps")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	n, err := d.Int("steps")
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	s, err := d.String("name")
	require.NoError(t, err)
	assert.Equal(t, "advection", s)
}

func TestDictionary_MissingAndWrongType(t *testing.T) {
	d := Dictionary{"name": "x"}

	if _, err := d.Float("absent"); err == nil {
		t.Error("Expected error for missing key")
	}
	if _, err := d.Float("name"); err == nil {
		t.Error("Expected error for non-scalar value")
	}
	if _, err := d.SubDict("name"); err == nil {
		t.Error("Expected error for non-dictionary value")
	}
}

func TestDictionary_Nested(t *testing.T) {
	d := Dictionary{}
	d.Insert("ddtSchemes", Dictionary{
		"type":    "Runge-Kutta",
		"weights": []float64{0.5, 1.0},
	})

	sub, err := d.SubDict("ddtSchemes")
	require.NoError(t, err)

	typ, err := sub.String("type")
	require.NoError(t, err)
	assert.Equal(t, "Runge-Kutta", typ)

	w, err := sub.Floats("weights")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.0}, w)
}

func TestDictionary_Defaults(t *testing.T) {
	d := Dictionary{"tolerance": 1e-6, "solver": "Jacobi"}

	assert.Equal(t, 1e-6, d.FloatOr("tolerance", 1e-8))
	assert.Equal(t, 1e-8, d.FloatOr("absent", 1e-8))
	assert.Equal(t, 1000, d.IntOr("maxIterations", 1000))
	assert.Equal(t, "Jacobi", d.StringOr("solver", "BiCGStab"))
	assert.Equal(t, "BiCGStab", d.StringOr("absent", "BiCGStab"))
}
