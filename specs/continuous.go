package specs

import (
	"fmt"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ordinskiy/rl/data"
	"github.com/ordinskiy/rl/util"
)

// Unbounded describes a tensor with no domain restriction beyond shape and
// dtype. Continuous (float64) or discrete (int64).
type Unbounded struct {
	shape []int
	dtype data.DType
}

var _ Spec = &Unbounded{}

func NewUnbounded(shape []int, dtype data.DType) (*Unbounded, error) {
	if data.Numel(shape) < 0 {
		return nil, fmt.Errorf("%w: shape %v", ErrInvalidSpec, shape)
	}
	if dtype != data.Float64 && dtype != data.Int64 {
		return nil, fmt.Errorf("%w: unbounded spec needs a numeric dtype, got %s", ErrInvalidSpec, dtype)
	}
	return &Unbounded{shape: util.CopyIntSlice(shape), dtype: dtype}, nil
}

func (u *Unbounded) Shape() []int { return util.CopyIntSlice(u.shape) }

func (u *Unbounded) DType() data.DType { return u.dtype }

func (u *Unbounded) Validate(t *data.Tensor) error {
	return checkShapeDType(u, t)
}

func (u *Unbounded) Rand(rng *erand.Rand) *data.Tensor {
	n := data.Numel(u.shape)
	if u.dtype == data.Int64 {
		vals := make([]int64, n)
		for i := range vals {
			vals[i] = int64(rng.Uint64())
		}
		t, _ := data.NewInt64(u.shape, vals)
		return t
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = norm.Rand()
	}
	t, _ := data.NewFloat64(u.shape, vals)
	return t
}

// Bounded describes a continuous tensor with per-element closed bounds.
type Bounded struct {
	shape []int
	low   []float64
	high  []float64
}

var _ Spec = &Bounded{}

func NewBounded(low, high []float64, shape []int) (*Bounded, error) {
	n := data.Numel(shape)
	if n < 0 {
		return nil, fmt.Errorf("%w: shape %v", ErrInvalidSpec, shape)
	}
	if len(low) != n || len(high) != n {
		return nil, fmt.Errorf("%w: bounds length %d/%d, shape %v needs %d",
			ErrInvalidSpec, len(low), len(high), shape, n)
	}
	for i := range low {
		if low[i] > high[i] {
			return nil, fmt.Errorf("%w: lower bound %v above upper bound %v at %d",
				ErrInvalidSpec, low[i], high[i], i)
		}
	}
	return &Bounded{
		shape: util.CopyIntSlice(shape),
		low:   util.CopyFloat64Slice(low),
		high:  util.CopyFloat64Slice(high),
	}, nil
}

func (b *Bounded) Shape() []int { return util.CopyIntSlice(b.shape) }

func (b *Bounded) DType() data.DType { return data.Float64 }

func (b *Bounded) Low() []float64 { return util.CopyFloat64Slice(b.low) }

func (b *Bounded) High() []float64 { return util.CopyFloat64Slice(b.high) }

func (b *Bounded) Validate(t *data.Tensor) error {
	if err := checkShapeDType(b, t); err != nil {
		return err
	}
	for i, v := range t.Float64s() {
		if v < b.low[i] || v > b.high[i] {
			return fmt.Errorf("%w: value %v outside [%v, %v] at %d",
				ErrInvalidSpec, v, b.low[i], b.high[i], i)
		}
	}
	return nil
}

func (b *Bounded) Rand(rng *erand.Rand) *data.Tensor {
	vals := make([]float64, len(b.low))
	for i := range vals {
		if b.low[i] == b.high[i] {
			vals[i] = b.low[i]
			continue
		}
		vals[i] = distuv.Uniform{Min: b.low[i], Max: b.high[i], Src: rng}.Rand()
	}
	t, _ := data.NewFloat64(b.shape, vals)
	return t
}
