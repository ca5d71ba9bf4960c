package data

import (
	"fmt"

	erand "golang.org/x/exp/rand"
)

// Storage is the backing store of a replay buffer. Append returns the index
// the record landed at.
type Storage interface {
	Append(*Record) int
	Get(int) (*Record, bool)
	Len() int
}

// ListStorage grows without bound.
type ListStorage struct {
	items []*Record
}

var _ Storage = &ListStorage{}

func NewListStorage() *ListStorage {
	return &ListStorage{items: make([]*Record, 0)}
}

func (s *ListStorage) Append(r *Record) int {
	s.items = append(s.items, r)
	return len(s.items) - 1
}

func (s *ListStorage) Get(i int) (*Record, bool) {
	if i < 0 || i >= len(s.items) {
		return nil, false
	}
	return s.items[i], true
}

func (s *ListStorage) Len() int { return len(s.items) }

// RingStorage holds at most max records, overwriting the oldest.
type RingStorage struct {
	items []*Record
	max   int
	next  int
	count int
}

var _ Storage = &RingStorage{}

func NewRingStorage(max int) *RingStorage {
	if max <= 0 {
		max = 1
	}
	return &RingStorage{items: make([]*Record, max), max: max}
}

func (s *RingStorage) Append(r *Record) int {
	i := s.next
	s.items[i] = r
	s.next = (s.next + 1) % s.max
	if s.count < s.max {
		s.count++
	}
	return i
}

func (s *RingStorage) Get(i int) (*Record, bool) {
	if i < 0 || i >= s.count {
		return nil, false
	}
	return s.items[i], true
}

func (s *RingStorage) Len() int { return s.count }

// ReplayBuffer samples stored records uniformly at random.
type ReplayBuffer struct {
	storage Storage
	rng     *erand.Rand
}

func NewReplayBuffer(storage Storage, seed uint64) *ReplayBuffer {
	return &ReplayBuffer{
		storage: storage,
		rng:     erand.New(erand.NewSource(seed)),
	}
}

func (b *ReplayBuffer) Add(r *Record) int {
	return b.storage.Append(r)
}

func (b *ReplayBuffer) Extend(rs []*Record) {
	for _, r := range rs {
		b.storage.Append(r)
	}
}

func (b *ReplayBuffer) Len() int { return b.storage.Len() }

// Sample draws n records uniformly with replacement.
func (b *ReplayBuffer) Sample(n int) ([]*Record, error) {
	if b.storage.Len() == 0 {
		return nil, fmt.Errorf("data: replay buffer is empty")
	}
	out := make([]*Record, n)
	for i := 0; i < n; i++ {
		r, _ := b.storage.Get(b.rng.Intn(b.storage.Len()))
		out[i] = r
	}
	return out, nil
}
