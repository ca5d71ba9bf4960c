package specs

import (
	"fmt"
	"sort"

	"github.com/ordinskiy/rl/data"
)

// Composite is a named mapping of sub-specs. It validates records rather than
// single tensors: every declared field must be present and valid. Entry order
// carries no meaning, only name uniqueness.
type Composite struct {
	fields map[string]Spec
}

func NewComposite() *Composite {
	return &Composite{fields: make(map[string]Spec)}
}

// CompositeOf builds a composite from a field map.
func CompositeOf(fields map[string]Spec) *Composite {
	c := NewComposite()
	for name, s := range fields {
		c.Set(name, s)
	}
	return c
}

// Set stores or replaces a named sub-spec.
func (c *Composite) Set(name string, s Spec) {
	c.fields[name] = s
}

func (c *Composite) Get(name string) (Spec, bool) {
	s, ok := c.fields[name]
	return s, ok
}

func (c *Composite) Len() int { return len(c.fields) }

// Keys returns the field names sorted for deterministic iteration.
func (c *Composite) Keys() []string {
	out := make([]string, 0, len(c.fields))
	for k := range c.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ValidateRecord checks every declared field of the record. Fields in the
// record that the composite does not declare are ignored.
func (c *Composite) ValidateRecord(r *data.Record) error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidSpec)
	}
	for _, name := range c.Keys() {
		t, ok := r.Get(name)
		if !ok {
			return fmt.Errorf("%w: record is missing field %q", ErrInvalidSpec, name)
		}
		if err := c.fields[name].Validate(t); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}
