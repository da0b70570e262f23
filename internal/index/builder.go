package index

import "fmt"

// Builder assembles an IndexSet slot by slot. The capacity is fixed at
// construction; Build verifies that every slot was filled and that no two
// slots hold matching indices.
type Builder struct {
	inds   []Index
	filled []bool
}

// NewBuilder creates a builder for a set of rank n.
// Panics if n < 0.
func NewBuilder(n int) *Builder {
	if n < 0 {
		panic(fmt.Sprintf("index set rank must be >= 0, got %d", n))
	}
	return &Builder{
		inds:   make([]Index, n),
		filled: make([]bool, n),
	}
}

// Len returns the builder's capacity.
func (b *Builder) Len() int {
	return len(b.inds)
}

// Set places ind at position i, replacing any earlier value.
// Panics if i is out of range.
func (b *Builder) Set(i int, ind Index) *Builder {
	if i < 0 || i >= len(b.inds) {
		panic(fmt.Sprintf("builder slot %d out of range [0,%d)", i, len(b.inds)))
	}
	b.inds[i] = ind
	b.filled[i] = true
	return b
}

// Append places ind in the first unfilled slot.
// Panics if every slot is already filled.
func (b *Builder) Append(ind Index) *Builder {
	for i, f := range b.filled {
		if !f {
			return b.Set(i, ind)
		}
	}
	panic("builder has no free slot")
}

// Build validates and returns the assembled IndexSet.
func (b *Builder) Build() (IndexSet, error) {
	for i, f := range b.filled {
		if !f {
			return IndexSet{}, fmt.Errorf("index set slot %d was never set", i)
		}
		if !b.inds[i].Valid() {
			return IndexSet{}, fmt.Errorf("index set slot %d holds a null index", i)
		}
	}
	for i := 0; i < len(b.inds); i++ {
		for j := i + 1; j < len(b.inds); j++ {
			if b.inds[i].Equal(b.inds[j]) {
				return IndexSet{}, fmt.Errorf("duplicate index %s at positions %d and %d", b.inds[i], i, j)
			}
		}
	}
	return IndexSet{inds: append([]Index(nil), b.inds...)}, nil
}
