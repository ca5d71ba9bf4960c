package specs

import (
	"fmt"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/ordinskiy/rl/data"
)

// OneHot describes per-row one-hot choices over n categories, optionally
// masked by per-row availability. A multi-agent action spec is one row per
// agent with the mask listing the actions currently legal for that agent.
type OneHot struct {
	rows int
	n    int
	mask []bool // len rows*n, nil when every category is valid
}

var _ Spec = &OneHot{}

func NewOneHot(rows, n int) (*OneHot, error) {
	if rows <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: one-hot needs positive dimensions, got [%d, %d]", ErrInvalidSpec, rows, n)
	}
	return &OneHot{rows: rows, n: n}, nil
}

// NewMaskedOneHot builds a one-hot spec from a [rows][n] bool availability
// tensor. Every row must keep at least one valid category.
func NewMaskedOneHot(mask *data.Tensor) (*OneHot, error) {
	if mask == nil || mask.DType() != data.Bool || len(mask.Shape()) != 2 {
		return nil, fmt.Errorf("%w: availability mask must be a 2-D bool tensor", ErrInvalidSpec)
	}
	shape := mask.Shape()
	spec, err := NewOneHot(shape[0], shape[1])
	if err != nil {
		return nil, err
	}
	vals := mask.Bools()
	for r := 0; r < spec.rows; r++ {
		any := false
		for c := 0; c < spec.n; c++ {
			if vals[r*spec.n+c] {
				any = true
				break
			}
		}
		if !any {
			return nil, fmt.Errorf("%w: mask row %d has no valid category", ErrInvalidSpec, r)
		}
	}
	spec.mask = make([]bool, len(vals))
	copy(spec.mask, vals)
	return spec, nil
}

func (o *OneHot) Shape() []int { return []int{o.rows, o.n} }

func (o *OneHot) DType() data.DType { return data.Int64 }

// Mask returns the availability mask as a [rows][n] bool tensor. Without a
// mask, every category is reported valid.
func (o *OneHot) Mask() *data.Tensor {
	vals := make([]bool, o.rows*o.n)
	if o.mask == nil {
		for i := range vals {
			vals[i] = true
		}
	} else {
		copy(vals, o.mask)
	}
	t, _ := data.NewBool([]int{o.rows, o.n}, vals)
	return t
}

func (o *OneHot) valid(row, col int) bool {
	return o.mask == nil || o.mask[row*o.n+col]
}

func (o *OneHot) Validate(t *data.Tensor) error {
	if err := checkShapeDType(o, t); err != nil {
		return err
	}
	vals := t.Int64s()
	for r := 0; r < o.rows; r++ {
		hot := -1
		for c := 0; c < o.n; c++ {
			switch vals[r*o.n+c] {
			case 0:
			case 1:
				if hot >= 0 {
					return fmt.Errorf("%w: row %d has more than one set category", ErrInvalidSpec, r)
				}
				hot = c
			default:
				return fmt.Errorf("%w: row %d holds %d, one-hot values are 0 or 1", ErrInvalidSpec, r, vals[r*o.n+c])
			}
		}
		if hot < 0 {
			return fmt.Errorf("%w: row %d has no set category", ErrInvalidSpec, r)
		}
		if !o.valid(r, hot) {
			return fmt.Errorf("%w: row %d selects unavailable category %d", ErrInvalidSpec, r, hot)
		}
	}
	return nil
}

func (o *OneHot) Rand(rng *erand.Rand) *data.Tensor {
	vals := make([]int64, o.rows*o.n)
	weights := make([]float64, o.n)
	for r := 0; r < o.rows; r++ {
		for c := 0; c < o.n; c++ {
			if o.valid(r, c) {
				weights[c] = 1
			} else {
				weights[c] = 0
			}
		}
		c, ok := sampleuv.NewWeighted(weights, rng).Take()
		if !ok {
			// unreachable: construction guarantees a valid category per row
			c = 0
		}
		vals[r*o.n+c] = 1
	}
	t, _ := data.NewInt64([]int{o.rows, o.n}, vals)
	return t
}

// ToNative converts a one-hot tensor into the per-row category indices the
// external environment expects. Only shape and dtype are checked here; action
// legality is left to the environment.
func (o *OneHot) ToNative(t *data.Tensor) ([]int, error) {
	if err := checkShapeDType(o, t); err != nil {
		return nil, err
	}
	vals := t.Int64s()
	out := make([]int, o.rows)
	for r := 0; r < o.rows; r++ {
		best := 0
		for c := 1; c < o.n; c++ {
			if vals[r*o.n+c] > vals[r*o.n+best] {
				best = c
			}
		}
		out[r] = best
	}
	return out, nil
}

// Binary describes a bool tensor, e.g. the per-record done flag.
type Binary struct {
	shape []int
}

var _ Spec = &Binary{}

func NewBinary(shape []int) (*Binary, error) {
	if data.Numel(shape) < 0 {
		return nil, fmt.Errorf("%w: shape %v", ErrInvalidSpec, shape)
	}
	b := &Binary{shape: make([]int, len(shape))}
	copy(b.shape, shape)
	return b, nil
}

func (b *Binary) Shape() []int {
	out := make([]int, len(b.shape))
	copy(out, b.shape)
	return out
}

func (b *Binary) DType() data.DType { return data.Bool }

func (b *Binary) Validate(t *data.Tensor) error {
	return checkShapeDType(b, t)
}

func (b *Binary) Rand(rng *erand.Rand) *data.Tensor {
	vals := make([]bool, data.Numel(b.shape))
	for i := range vals {
		vals[i] = rng.Uint64()&1 == 1
	}
	t, _ := data.NewBool(b.shape, vals)
	return t
}
