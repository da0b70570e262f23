// Package index provides labeled tensor indices and ordered index sets.
package index

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Index is a labeled tensor axis. Two Index values compare equal when they
// carry the same identity tag and the same prime level; the name and the
// dimension ride along with the tag and never participate in matching.
type Index struct {
	id    uuid.UUID
	name  string
	dim   int
	prime int
}

// New creates a fresh Index with a unique identity tag.
// Panics if dim < 1.
func New(name string, dim int) Index {
	if dim < 1 {
		panic(fmt.Sprintf("index %q: dimension must be >= 1, got %d", name, dim))
	}
	return Index{
		id:   uuid.New(),
		name: name,
		dim:  dim,
	}
}

// Restore reconstructs an Index from its serialized identity.
// Panics if dim < 1 or prime < 0.
func Restore(id uuid.UUID, name string, dim, prime int) Index {
	if dim < 1 {
		panic(fmt.Sprintf("index %q: dimension must be >= 1, got %d", name, dim))
	}
	if prime < 0 {
		panic(fmt.Sprintf("index %q: prime level must be >= 0, got %d", name, prime))
	}
	return Index{id: id, name: name, dim: dim, prime: prime}
}

// ID returns the identity tag.
func (i Index) ID() uuid.UUID {
	return i.id
}

// Name returns the display name.
func (i Index) Name() string {
	return i.name
}

// Dim returns the dimension (number of values the index ranges over).
func (i Index) Dim() int {
	return i.dim
}

// PrimeLevel returns the prime level.
func (i Index) PrimeLevel() int {
	return i.prime
}

// Valid reports whether the index was produced by a constructor.
// The zero Index is not valid.
func (i Index) Valid() bool {
	return i.dim > 0
}

// Prime returns a copy with the prime level incremented by inc (default 1).
// Panics if the resulting level would be negative.
func (i Index) Prime(inc ...int) Index {
	n := 1
	if len(inc) > 0 {
		n = inc[0]
	}
	if i.prime+n < 0 {
		panic(fmt.Sprintf("index %q: prime level must be >= 0, got %d", i.name, i.prime+n))
	}
	i.prime += n
	return i
}

// NoPrime returns a copy with the prime level reset to zero.
func (i Index) NoPrime() Index {
	i.prime = 0
	return i
}

// WithPrime returns a copy with the prime level set to n.
// Panics if n < 0.
func (i Index) WithPrime(n int) Index {
	if n < 0 {
		panic(fmt.Sprintf("index %q: prime level must be >= 0, got %d", i.name, n))
	}
	i.prime = n
	return i
}

// Equal reports whether two indices match: same identity tag, same prime level.
func (i Index) Equal(o Index) bool {
	return i.id == o.id && i.prime == o.prime
}

// SameID reports whether two indices share an identity tag, ignoring primes.
func (i Index) SameID(o Index) bool {
	return i.id == o.id
}

// Val pairs the index with a coordinate value (0-based).
func (i Index) Val(v int) IndexVal {
	return IndexVal{Index: i, Val: v}
}

// String renders the index as name(dim) followed by one tick per prime level.
func (i Index) String() string {
	if !i.Valid() {
		return "(null index)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%d)", i.name, i.dim)
	for p := 0; p < i.prime; p++ {
		b.WriteByte('\'')
	}
	return b.String()
}

// IndexVal is an Index together with one of its coordinate values (0-based).
type IndexVal struct {
	Index Index
	Val   int
}

// Valid reports whether the value lies inside the index range.
func (iv IndexVal) Valid() bool {
	return iv.Index.Valid() && iv.Val >= 0 && iv.Val < iv.Index.Dim()
}

// String renders the pair as index=value.
func (iv IndexVal) String() string {
	return fmt.Sprintf("%s=%d", iv.Index, iv.Val)
}
