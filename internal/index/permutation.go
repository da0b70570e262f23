package index

import "fmt"

// Permutation maps source positions to destination positions: an item at
// position i moves to position Dest(i). Slots start out unassigned (-1)
// and are filled with SetFromTo.
type Permutation struct {
	dest []int
}

// NewPermutation creates a permutation of length n with every slot unassigned.
func NewPermutation(n int) Permutation {
	dest := make([]int, n)
	for i := range dest {
		dest[i] = -1
	}
	return Permutation{dest: dest}
}

// Len returns the permutation length.
func (p Permutation) Len() int {
	return len(p.dest)
}

// SetFromTo assigns destination to for source position from.
// Panics if either position is out of range.
func (p Permutation) SetFromTo(from, to int) {
	if from < 0 || from >= len(p.dest) {
		panic(fmt.Sprintf("permutation source %d out of range [0,%d)", from, len(p.dest)))
	}
	if to < 0 || to >= len(p.dest) {
		panic(fmt.Sprintf("permutation destination %d out of range [0,%d)", to, len(p.dest)))
	}
	p.dest[from] = to
}

// Dest returns the destination of source position from, or -1 if unassigned.
func (p Permutation) Dest(from int) int {
	return p.dest[from]
}

// DestSlice returns a copy of the destination mapping.
func (p Permutation) DestSlice() []int {
	return append([]int(nil), p.dest...)
}

// Validate checks that every slot is assigned and that the assignment is a
// bijection.
func (p Permutation) Validate() error {
	seen := make([]bool, len(p.dest))
	for from, to := range p.dest {
		if to < 0 || to >= len(p.dest) {
			return fmt.Errorf("permutation slot %d unassigned or out of range: %d", from, to)
		}
		if seen[to] {
			return fmt.Errorf("permutation destination %d assigned twice", to)
		}
		seen[to] = true
	}
	return nil
}

// IsTrivial reports whether the permutation maps every position to itself.
func (p Permutation) IsTrivial() bool {
	for from, to := range p.dest {
		if from != to {
			return false
		}
	}
	return true
}

// Inverse returns the permutation q with q.Dest(p.Dest(i)) == i.
// Fails if p is not a complete bijection.
func (p Permutation) Inverse() (Permutation, error) {
	if err := p.Validate(); err != nil {
		return Permutation{}, err
	}
	inv := NewPermutation(len(p.dest))
	for from, to := range p.dest {
		inv.dest[to] = from
	}
	return inv, nil
}

// String renders the mapping as from->to pairs.
func (p Permutation) String() string {
	s := "perm{"
	for from, to := range p.dest {
		if from > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d->%d", from, to)
	}
	return s + "}"
}
