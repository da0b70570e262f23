package index

import (
	"fmt"
	"strings"
)

// IndexSet is an immutable ordered collection of distinct indices.
// Distinct means no two members share both identity tag and prime level.
// The order fixes the row-major layout of any storage attached to the set.
type IndexSet struct {
	inds []Index
}

// NewSet builds an IndexSet from the given indices.
// Fails if two indices match (same tag, same prime level).
func NewSet(inds ...Index) (IndexSet, error) {
	b := NewBuilder(len(inds))
	for i, ind := range inds {
		b.Set(i, ind)
	}
	return b.Build()
}

// Len returns the number of indices (the rank).
func (is IndexSet) Len() int {
	return len(is.inds)
}

// At returns the index at position i.
// Panics if i is out of range.
func (is IndexSet) At(i int) Index {
	return is.inds[i]
}

// Dims returns the dimensions of the indices in order.
func (is IndexSet) Dims() []int {
	dims := make([]int, len(is.inds))
	for i, ind := range is.inds {
		dims[i] = ind.Dim()
	}
	return dims
}

// NumElements returns the total number of elements spanned by the set.
// An empty set spans 1 element (a scalar).
func (is IndexSet) NumElements() int {
	n := 1
	for _, ind := range is.inds {
		n *= ind.Dim()
	}
	return n
}

// Strides returns row-major strides: stride[i] is the linear distance between
// consecutive values of index i, with the last index varying fastest.
func (is IndexSet) Strides() []int {
	strides := make([]int, len(is.inds))
	if len(is.inds) == 0 {
		return strides
	}
	strides[len(is.inds)-1] = 1
	for i := len(is.inds) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * is.inds[i+1].Dim()
	}
	return strides
}

// IndexOf returns the position of ind in the set, or -1 if absent.
// Matching is by identity tag and prime level.
func (is IndexSet) IndexOf(ind Index) int {
	for i, x := range is.inds {
		if x.Equal(ind) {
			return i
		}
	}
	return -1
}

// Contains reports whether ind is a member of the set.
func (is IndexSet) Contains(ind Index) bool {
	return is.IndexOf(ind) >= 0
}

// Slice returns a copy of the underlying indices.
func (is IndexSet) Slice() []Index {
	return append([]Index(nil), is.inds...)
}

// Equal reports whether two sets hold the same indices in the same order.
func (is IndexSet) Equal(o IndexSet) bool {
	if len(is.inds) != len(o.inds) {
		return false
	}
	for i := range is.inds {
		if !is.inds[i].Equal(o.inds[i]) {
			return false
		}
	}
	return true
}

// SameContent reports whether two sets hold the same indices in any order.
func (is IndexSet) SameContent(o IndexSet) bool {
	if len(is.inds) != len(o.inds) {
		return false
	}
	for _, ind := range is.inds {
		if !o.Contains(ind) {
			return false
		}
	}
	return true
}

// Common returns the indices present in both sets, in this set's order.
func (is IndexSet) Common(o IndexSet) []Index {
	var common []Index
	for _, ind := range is.inds {
		if o.Contains(ind) {
			common = append(common, ind)
		}
	}
	return common
}

// Unique returns the indices present in this set but not in o, in order.
func (is IndexSet) Unique(o IndexSet) []Index {
	var unique []Index
	for _, ind := range is.inds {
		if !o.Contains(ind) {
			unique = append(unique, ind)
		}
	}
	return unique
}

// Prime returns a set with every index primed by inc (default 1).
func (is IndexSet) Prime(inc ...int) IndexSet {
	out := make([]Index, len(is.inds))
	for i, ind := range is.inds {
		out[i] = ind.Prime(inc...)
	}
	return IndexSet{inds: out}
}

// NoPrime returns a set with every prime level reset to zero.
// Fails if unpriming collapses two indices onto the same identity.
func (is IndexSet) NoPrime() (IndexSet, error) {
	out := make([]Index, len(is.inds))
	for i, ind := range is.inds {
		out[i] = ind.NoPrime()
	}
	return NewSet(out...)
}

// MapPrime returns a set where every index at prime level from is moved to
// level to; other indices are untouched. Fails on a resulting collision.
func (is IndexSet) MapPrime(from, to int) (IndexSet, error) {
	out := make([]Index, len(is.inds))
	for i, ind := range is.inds {
		if ind.PrimeLevel() == from {
			out[i] = ind.WithPrime(to)
		} else {
			out[i] = ind
		}
	}
	return NewSet(out...)
}

// Replace returns a set with the single member matching old swapped for nu.
// Fails if old is absent or the replacement collides with another member.
func (is IndexSet) Replace(old, nu Index) (IndexSet, error) {
	pos := is.IndexOf(old)
	if pos < 0 {
		return IndexSet{}, fmt.Errorf("index %s not found in %s", old, is)
	}
	out := append([]Index(nil), is.inds...)
	out[pos] = nu
	return NewSet(out...)
}

// Permute returns a set with each index moved from position i to p.Dest(i).
// Fails if p is not a complete permutation of the set's length.
func (is IndexSet) Permute(p Permutation) (IndexSet, error) {
	if p.Len() != len(is.inds) {
		return IndexSet{}, fmt.Errorf("permutation length %d does not match index set rank %d", p.Len(), len(is.inds))
	}
	if err := p.Validate(); err != nil {
		return IndexSet{}, err
	}
	out := make([]Index, len(is.inds))
	for i, ind := range is.inds {
		out[p.Dest(i)] = ind
	}
	return IndexSet{inds: out}, nil
}

// String renders the set as a parenthesized index list.
func (is IndexSet) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, ind := range is.inds {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(ind.String())
	}
	b.WriteByte(')')
	return b.String()
}
