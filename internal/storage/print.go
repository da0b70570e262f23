package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/tyler-bryson/ITensor/internal/index"
)

// Print is the human-readable formatting task. The tensor-level scale is
// already folded into Fac so storage only sees plain multipliers.
type Print struct {
	W         io.Writer
	Is        index.IndexSet
	Fac       float64
	Precision int
}

// NewPrint builds a print task over w for storage shaped by is, with the
// tensor's scale resolved to fac.
func NewPrint(w io.Writer, is index.IndexSet, fac float64) *Print {
	return &Print{W: w, Is: is, Fac: fac}
}

func (p *Print) precision() int {
	if p.Precision > 0 {
		return p.Precision
	}
	return 5
}

// writeElement prints one element with its coordinates, skipping zeros.
func (p *Print) writeElement(coords []int, v complex128) error {
	v *= complex(p.Fac, 0)
	if v == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteByte('(')
	for i, c := range coords {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", c)
	}
	b.WriteString(") ")

	prec := p.precision()
	if imag(v) == 0 {
		fmt.Fprintf(&b, "%.*g", prec, real(v))
	} else {
		fmt.Fprintf(&b, "(%.*g,%.*g)", prec, real(v), prec, imag(v))
	}
	b.WriteByte('\n')

	_, err := io.WriteString(p.W, b.String())
	return err
}

// printElements walks a flat row-major buffer of n elements, printing each
// nonzero one with its coordinates under p.Is.
func printElements(p *Print, n int, at func(int) complex128) error {
	strides := p.Is.Strides()
	coords := make([]int, p.Is.Len())
	for i := 0; i < n; i++ {
		rem := i
		for k := range coords {
			coords[k] = rem / strides[k]
			rem %= strides[k]
		}
		if err := p.writeElement(coords, at(i)); err != nil {
			return err
		}
	}
	return nil
}
