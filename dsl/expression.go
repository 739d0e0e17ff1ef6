package dsl

import "fmt"

// Expression is an ordered set of terms composing under addition. Term
// order affects only assembly order, not the numerical result: all terms
// accumulate additively into the same per-cell buffer, and accumulation
// is term-serial so terms never race each other on shared cells.
type Expression struct {
	terms []Term
}

// NewExpression builds an expression from terms.
func NewExpression(terms ...Term) *Expression {
	return &Expression{terms: terms}
}

// Add returns a new expression whose term list is the concatenation of
// e's and other's.
func (e *Expression) Add(other *Expression) *Expression {
	terms := make([]Term, 0, len(e.terms)+len(other.terms))
	terms = append(terms, e.terms...)
	terms = append(terms, other.terms...)
	return &Expression{terms: terms}
}

// Append adds terms to e in place.
func (e *Expression) Append(terms ...Term) {
	e.terms = append(e.terms, terms...)
}

// Terms returns the ordered term list.
func (e *Expression) Terms() []Term { return e.terms }

// temporalTerm returns the single temporal term of the expression.
func (e *Expression) temporalTerm() (Term, error) {
	var temporal Term
	for _, t := range e.terms {
		if !t.Temporal() {
			continue
		}
		if temporal != nil {
			return nil, fmt.Errorf("dsl: expression has multiple temporal terms")
		}
		temporal = t
	}
	if temporal == nil {
		return nil, fmt.Errorf("dsl: expression has no temporal term")
	}
	return temporal, nil
}

// spatialTerms returns every non-temporal term in order.
func (e *Expression) spatialTerms() []Term {
	var out []Term
	for _, t := range e.terms {
		if !t.Temporal() {
			out = append(out, t)
		}
	}
	return out
}

// hasImplicit reports whether any term requests implicit evaluation.
func (e *Expression) hasImplicit() bool {
	for _, t := range e.terms {
		if t.Mode() == Implicit {
			return true
		}
	}
	return false
}
