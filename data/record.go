package data

import (
	"fmt"
	"strings"

	"github.com/ordinskiy/rl/util"
)

// DefaultDevice tags records that live in ordinary process memory.
const DefaultDevice = "cpu"

// Record is a keyed, insertion-ordered bundle of tensors sharing a batch
// shape and a device tag. Environments produce a fresh record on every reset
// and step call; ownership transfers to the caller.
type Record struct {
	keys   []string
	fields map[string]*Tensor
	batch  []int
	device string
}

func NewRecord(batch []int, device string) *Record {
	if device == "" {
		device = DefaultDevice
	}
	return &Record{
		keys:   make([]string, 0),
		fields: make(map[string]*Tensor),
		batch:  util.CopyIntSlice(batch),
		device: device,
	}
}

// Set stores a field, keeping the position of an existing key.
func (r *Record) Set(name string, t *Tensor) {
	if _, ok := r.fields[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.fields[name] = t
}

func (r *Record) Get(name string) (*Tensor, bool) {
	t, ok := r.fields[name]
	return t, ok
}

// MustGet panics when the field is absent. Reserved for fields the producer
// guarantees, like "observation" after a reset.
func (r *Record) MustGet(name string) *Tensor {
	t, ok := r.fields[name]
	if !ok {
		panic(fmt.Sprintf("data: record has no field %q", name))
	}
	return t
}

func (r *Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int { return len(r.keys) }

func (r *Record) BatchSize() []int { return util.CopyIntSlice(r.batch) }

func (r *Record) Device() string { return r.device }

// Clone deep-copies the record and every tensor in it.
func (r *Record) Clone() *Record {
	out := NewRecord(r.batch, r.device)
	for _, k := range r.keys {
		out.Set(k, r.fields[k].Clone())
	}
	return out
}

func (r *Record) String() string {
	parts := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, r.fields[k]))
	}
	return fmt.Sprintf("Record{%s, batch=%v, device=%s}", strings.Join(parts, ", "), r.batch, r.device)
}
