package storage

import (
	"fmt"
	"sort"
	"strings"
)

// QN is an additive collection of conserved-quantity sectors, such as
// particle number or spin projection. The zero value is the neutral element.
type QN struct {
	sectors []Sector
}

// Sector is one named conserved quantity and its value.
type Sector struct {
	Name string
	Val  int
}

// NewQN builds a QN from sectors, merging repeated names and dropping zeros.
func NewQN(sectors ...Sector) QN {
	merged := make(map[string]int, len(sectors))
	for _, s := range sectors {
		merged[s.Name] += s.Val
	}
	var out []Sector
	for name, val := range merged {
		if val != 0 {
			out = append(out, Sector{Name: name, Val: val})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return QN{sectors: out}
}

// IsZero reports whether the QN is neutral.
func (q QN) IsZero() bool {
	return len(q.sectors) == 0
}

// Plus returns the sector-wise sum of two QNs.
func (q QN) Plus(o QN) QN {
	return NewQN(append(append([]Sector(nil), q.sectors...), o.sectors...)...)
}

// Equal reports whether two QNs carry identical sectors.
func (q QN) Equal(o QN) bool {
	if len(q.sectors) != len(o.sectors) {
		return false
	}
	for i := range q.sectors {
		if q.sectors[i] != o.sectors[i] {
			return false
		}
	}
	return true
}

// Sectors returns a copy of the sector list, sorted by name.
func (q QN) Sectors() []Sector {
	return append([]Sector(nil), q.sectors...)
}

// String renders the QN as QN(name=val,...), or QN() when neutral.
func (q QN) String() string {
	var b strings.Builder
	b.WriteString("QN(")
	for i, s := range q.sectors {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%d", s.Name, s.Val)
	}
	b.WriteByte(')')
	return b.String()
}
