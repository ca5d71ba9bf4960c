package data

import (
	"testing"
)

func TestRecordOrderAndAccess(t *testing.T) {
	rec := NewRecord([]int{1}, "")
	rec.Set("observation", Zeros(Float64, []int{2, 3}))
	rec.Set("reward", Float64Value(1.5))
	rec.Set("done", BoolValue(false))

	keys := rec.Keys()
	want := []string{"observation", "reward", "done"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	// replacing a field keeps its position
	rec.Set("reward", Float64Value(0))
	if got := rec.Keys()[1]; got != "reward" {
		t.Errorf("after replace, keys[1] = %q", got)
	}

	if _, ok := rec.Get("missing"); ok {
		t.Error("Get(missing) should not succeed")
	}
	if rec.Device() != DefaultDevice {
		t.Errorf("Device() = %q", rec.Device())
	}
	if b := rec.BatchSize(); len(b) != 1 || b[0] != 1 {
		t.Errorf("BatchSize() = %v", b)
	}
}

func TestRecordClone(t *testing.T) {
	rec := NewRecord(nil, "cpu")
	obs, _ := NewFloat64([]int{2}, []float64{1, 2})
	rec.Set("observation", obs)

	clone := rec.Clone()
	clone.MustGet("observation").Float64s()[0] = 99
	if rec.MustGet("observation").Float64s()[0] != 1 {
		t.Error("clone shares storage with the original")
	}
}

func TestTensorShapeChecks(t *testing.T) {
	if _, err := NewFloat64([]int{2, 2}, []float64{1, 2, 3}); err == nil {
		t.Error("mismatched element count should fail")
	}
	if _, err := NewBool([]int{-1}, nil); err == nil {
		t.Error("negative shape should fail")
	}
	tr, err := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if !tr.SameShape([]int{2, 3}) {
		t.Errorf("FromRows shape = %v", tr.Shape())
	}
	if _, err := FromRows([][]float64{{1}, {1, 2}}); err == nil {
		t.Error("ragged rows should fail")
	}
}

func TestTensorDenseRoundTrip(t *testing.T) {
	tr, _ := NewFloat64([]int{2, 2}, []float64{1, 2, 3, 4})
	m, err := tr.Dense()
	if err != nil {
		t.Fatalf("Dense: %v", err)
	}
	back := FromDense(m)
	if !back.SameShape([]int{2, 2}) {
		t.Fatalf("round-trip shape = %v", back.Shape())
	}
	for i, v := range back.Float64s() {
		if v != tr.Float64s()[i] {
			t.Errorf("element %d = %v", i, v)
		}
	}

	if _, err := Zeros(Bool, []int{2, 2}).Dense(); err == nil {
		t.Error("bool tensor should not view as a matrix")
	}
	if _, err := Zeros(Float64, []int{2}).Dense(); err == nil {
		t.Error("1-D tensor should not view as a matrix")
	}
}
