package data

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ordinskiy/rl/util"
)

// DType is the element type of a Tensor.
type DType int

const (
	Float64 DType = iota
	Int64
	Bool
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("dtype(%d)", int(d))
}

// Tensor is a dense value with a fixed shape and element type. Record fields,
// spec samples and environment outputs are all tensors.
type Tensor struct {
	dtype DType
	shape []int

	f64 []float64
	i64 []int64
	b   []bool
}

// Numel returns the number of elements a shape holds. Shapes with a negative
// dimension are rejected with -1.
func Numel(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return -1
		}
		n *= d
	}
	return n
}

func checkShape(shape []int, have int) error {
	n := Numel(shape)
	if n < 0 {
		return fmt.Errorf("data: invalid shape %v", shape)
	}
	if n != have {
		return fmt.Errorf("data: shape %v needs %d elements, got %d", shape, n, have)
	}
	return nil
}

func NewFloat64(shape []int, values []float64) (*Tensor, error) {
	if err := checkShape(shape, len(values)); err != nil {
		return nil, err
	}
	return &Tensor{dtype: Float64, shape: util.CopyIntSlice(shape), f64: util.CopyFloat64Slice(values)}, nil
}

func NewInt64(shape []int, values []int64) (*Tensor, error) {
	if err := checkShape(shape, len(values)); err != nil {
		return nil, err
	}
	return &Tensor{dtype: Int64, shape: util.CopyIntSlice(shape), i64: util.CopyInt64Slice(values)}, nil
}

func NewBool(shape []int, values []bool) (*Tensor, error) {
	if err := checkShape(shape, len(values)); err != nil {
		return nil, err
	}
	return &Tensor{dtype: Bool, shape: util.CopyIntSlice(shape), b: util.CopyBoolSlice(values)}, nil
}

// Zeros returns an all-zero (or all-false) tensor of the given type and shape.
func Zeros(dtype DType, shape []int) *Tensor {
	n := Numel(shape)
	if n < 0 {
		n = 0
		shape = []int{0}
	}
	t := &Tensor{dtype: dtype, shape: util.CopyIntSlice(shape)}
	switch dtype {
	case Float64:
		t.f64 = make([]float64, n)
	case Int64:
		t.i64 = make([]int64, n)
	case Bool:
		t.b = make([]bool, n)
	}
	return t
}

// Float64Value wraps a scalar into a shape-[1] tensor.
func Float64Value(v float64) *Tensor {
	return &Tensor{dtype: Float64, shape: []int{1}, f64: []float64{v}}
}

// BoolValue wraps a flag into a shape-[1] tensor.
func BoolValue(v bool) *Tensor {
	return &Tensor{dtype: Bool, shape: []int{1}, b: []bool{v}}
}

// FromRows builds a [len(rows)][len(rows[0])] float64 tensor. All rows must
// have the same length.
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 {
		return Zeros(Float64, []int{0, 0}), nil
	}
	cols := len(rows[0])
	flat := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("data: row %d has %d columns, expected %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return NewFloat64([]int{len(rows), cols}, flat)
}

// FromBoolRows builds a [len(rows)][len(rows[0])] bool tensor.
func FromBoolRows(rows [][]bool) (*Tensor, error) {
	if len(rows) == 0 {
		return Zeros(Bool, []int{0, 0}), nil
	}
	cols := len(rows[0])
	flat := make([]bool, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("data: row %d has %d columns, expected %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return NewBool([]int{len(rows), cols}, flat)
}

func (t *Tensor) DType() DType { return t.dtype }

func (t *Tensor) Shape() []int { return util.CopyIntSlice(t.shape) }

func (t *Tensor) Size() int { return Numel(t.shape) }

// Float64s returns the underlying storage of a float64 tensor, nil otherwise.
func (t *Tensor) Float64s() []float64 { return t.f64 }

// Int64s returns the underlying storage of an int64 tensor, nil otherwise.
func (t *Tensor) Int64s() []int64 { return t.i64 }

// Bools returns the underlying storage of a bool tensor, nil otherwise.
func (t *Tensor) Bools() []bool { return t.b }

// SameShape reports whether the tensor has exactly the given shape.
func (t *Tensor) SameShape(shape []int) bool {
	return util.EqualIntSlice(t.shape, shape)
}

// Dense converts a 2-D float64 tensor into a gonum matrix sharing no storage.
func (t *Tensor) Dense() (*mat.Dense, error) {
	if t.dtype != Float64 {
		return nil, fmt.Errorf("data: cannot view %s tensor as a matrix", t.dtype)
	}
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("data: cannot view shape %v as a matrix", t.shape)
	}
	return mat.NewDense(t.shape[0], t.shape[1], util.CopyFloat64Slice(t.f64)), nil
}

// FromDense converts a gonum matrix into a 2-D float64 tensor.
func FromDense(m *mat.Dense) *Tensor {
	r, c := m.Dims()
	flat := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		flat = append(flat, m.RawRowView(i)...)
	}
	t, _ := NewFloat64([]int{r, c}, flat)
	return t
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		dtype: t.dtype,
		shape: util.CopyIntSlice(t.shape),
		f64:   util.CopyFloat64Slice(t.f64),
		i64:   util.CopyInt64Slice(t.i64),
		b:     util.CopyBoolSlice(t.b),
	}
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(%s, shape=%v)", t.dtype, t.shape)
}
