// Package dsl provides the symbolic discretization layer: algebraic
// terms (time derivative, convection, diffusion, source) composed into
// expressions, and the solver that advances a field by one step either
// explicitly or by assembling a linear system for an external backend.
package dsl

import "fmt"

// Dictionary is the nested key-value configuration consumed by the
// solver, mirroring what the external configuration source supplies:
// scalars, strings and sub-dictionaries queried by exact key.
type Dictionary map[string]interface{}

// Insert sets key to value, replacing any previous entry.
func (d Dictionary) Insert(key string, value interface{}) {
	d[key] = value
}

// SubDict returns the nested dictionary under key.
func (d Dictionary) SubDict(key string) (Dictionary, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("dsl: dictionary key %q missing", key)
	}
	sub, ok := v.(Dictionary)
	if !ok {
		return nil, fmt.Errorf("dsl: dictionary key %q is not a sub-dictionary", key)
	}
	return sub, nil
}

// String returns the string under key.
func (d Dictionary) String(key string) (string, error) {
	v, ok := d[key]
	if !ok {
		return "", fmt.Errorf("dsl: dictionary key %q missing", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("dsl: dictionary key %q is not a string", key)
	}
	return s, nil
}

// Float returns the scalar under key, accepting int literals as well.
func (d Dictionary) Float(key string) (float64, error) {
	v, ok := d[key]
	if !ok {
		return 0, fmt.Errorf("dsl: dictionary key %q missing", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("dsl: dictionary key %q is not a scalar", key)
}

// Int returns the integer under key.
func (d Dictionary) Int(key string) (int, error) {
	v, ok := d[key]
	if !ok {
		return 0, fmt.Errorf("dsl: dictionary key %q missing", key)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("dsl: dictionary key %q is not an integer", key)
	}
	return n, nil
}

// Floats returns the scalar list under key.
func (d Dictionary) Floats(key string) ([]float64, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("dsl: dictionary key %q missing", key)
	}
	list, ok := v.([]float64)
	if !ok {
		return nil, fmt.Errorf("dsl: dictionary key %q is not a scalar list", key)
	}
	return list, nil
}

// StringOr returns the string under key, or def when the key is absent.
func (d Dictionary) StringOr(key string, def string) string {
	if _, ok := d[key]; !ok {
		return def
	}
	v, err := d.String(key)
	if err != nil {
		return def
	}
	return v
}

// FloatOr returns the scalar under key, or def when the key is absent.
func (d Dictionary) FloatOr(key string, def float64) float64 {
	if _, ok := d[key]; !ok {
		return def
	}
	v, err := d.Float(key)
	if err != nil {
		return def
	}
	return v
}

// IntOr returns the integer under key, or def when the key is absent.
func (d Dictionary) IntOr(key string, def int) int {
	if _, ok := d[key]; !ok {
		return def
	}
	v, err := d.Int(key)
	if err != nil {
		return def
	}
	return v
}
