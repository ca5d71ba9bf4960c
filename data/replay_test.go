package data

import "testing"

func rec(v float64) *Record {
	r := NewRecord(nil, "")
	r.Set("reward", Float64Value(v))
	return r
}

func TestListStorage(t *testing.T) {
	s := NewListStorage()
	for i := 0; i < 5; i++ {
		if got := s.Append(rec(float64(i))); got != i {
			t.Errorf("Append #%d returned index %d", i, got)
		}
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d", s.Len())
	}
	r, ok := s.Get(3)
	if !ok || r.MustGet("reward").Float64s()[0] != 3 {
		t.Errorf("Get(3) = %v, %v", r, ok)
	}
	if _, ok := s.Get(5); ok {
		t.Error("Get past the end should fail")
	}
}

func TestRingStorageOverwritesOldest(t *testing.T) {
	s := NewRingStorage(3)
	for i := 0; i < 5; i++ {
		s.Append(rec(float64(i)))
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d", s.Len())
	}
	// slots 0 and 1 were overwritten by records 3 and 4
	r0, _ := s.Get(0)
	if r0.MustGet("reward").Float64s()[0] != 3 {
		t.Errorf("slot 0 = %v", r0.MustGet("reward").Float64s()[0])
	}
	r2, _ := s.Get(2)
	if r2.MustGet("reward").Float64s()[0] != 2 {
		t.Errorf("slot 2 = %v", r2.MustGet("reward").Float64s()[0])
	}
}

func TestReplayBufferSample(t *testing.T) {
	b := NewReplayBuffer(NewRingStorage(10), 1)
	if _, err := b.Sample(1); err == nil {
		t.Error("sampling an empty buffer should fail")
	}
	b.Extend([]*Record{rec(1), rec(2), rec(3)})
	if b.Len() != 3 {
		t.Fatalf("Len() = %d", b.Len())
	}
	out, err := b.Sample(20)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(out) != 20 {
		t.Fatalf("len(out) = %d", len(out))
	}
	for i, r := range out {
		if r == nil {
			t.Fatalf("sample %d is nil", i)
		}
		v := r.MustGet("reward").Float64s()[0]
		if v < 1 || v > 3 {
			t.Errorf("sample %d holds reward %v", i, v)
		}
	}
}
