// Package specs declares the shape, dtype and domain of tensor fields
// produced and consumed by environments. Every spec can validate a value
// against its domain and sample a valid value from it.
package specs

import (
	"errors"
	"fmt"

	erand "golang.org/x/exp/rand"

	"github.com/ordinskiy/rl/data"
)

// ErrInvalidSpec covers both malformed spec construction and validation of a
// value whose shape, dtype or domain does not match the spec.
var ErrInvalidSpec = errors.New("specs: invalid spec")

type Spec interface {
	Shape() []int
	DType() data.DType
	// Validate returns nil when the value lies in the spec's domain.
	Validate(*data.Tensor) error
	// Rand samples a value uniformly from the spec's domain.
	Rand(*erand.Rand) *data.Tensor
}

func checkShapeDType(s Spec, t *data.Tensor) error {
	if t == nil {
		return fmt.Errorf("%w: nil value", ErrInvalidSpec)
	}
	if t.DType() != s.DType() {
		return fmt.Errorf("%w: dtype %s, spec wants %s", ErrInvalidSpec, t.DType(), s.DType())
	}
	if !t.SameShape(s.Shape()) {
		return fmt.Errorf("%w: shape %v, spec wants %v", ErrInvalidSpec, t.Shape(), s.Shape())
	}
	return nil
}
