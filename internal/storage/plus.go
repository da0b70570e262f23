package storage

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tyler-bryson/ITensor/internal/kernel"
)

func plusDenseRR(m *ManageStore, t *Plus, l, r Storage) error {
	ld := l.(*Dense[float64]).data
	rd := r.(*Dense[float64]).data
	if imag(t.Fac) == 0 {
		return plusDense(t, ld, rd, real(t.Fac))
	}
	// A complex factor turns a real sum complex.
	nd := promoteToCplx(ld)
	if err := plusDense(t, nd, promoteToCplx(rd), t.Fac); err != nil {
		return err
	}
	m.MakeNewData(DenseOf(nd))
	return nil
}

func plusDenseCC(_ *ManageStore, t *Plus, l, r Storage) error {
	return plusDense(t, l.(*Dense[complex128]).data, r.(*Dense[complex128]).data, t.Fac)
}

func plusDenseRC(m *ManageStore, t *Plus, l, r Storage) error {
	nd := promoteToCplx(l.(*Dense[float64]).data)
	if err := plusDense(t, nd, r.(*Dense[complex128]).data, t.Fac); err != nil {
		return err
	}
	m.MakeNewData(DenseOf(nd))
	return nil
}

func plusDenseCR(_ *ManageStore, t *Plus, l, r Storage) error {
	return plusDense(t, l.(*Dense[complex128]).data, promoteToCplx(r.(*Dense[float64]).data), t.Fac)
}

// plusDense accumulates fac*rdata into ldata. When the operand index orders
// differ, the right buffer is routed through the permutation aligning it to
// the left layout. The caller must hold the only reference to ldata.
func plusDense[T Elt](t *Plus, ldata, rdata []T, fac T) error {
	if len(ldata) != t.Lis.NumElements() {
		return fmt.Errorf("left storage holds %d elements but %s spans %d", len(ldata), t.Lis, t.Lis.NumElements())
	}
	if len(rdata) != t.Ris.NumElements() {
		return fmt.Errorf("right storage holds %d elements but %s spans %d", len(rdata), t.Ris, t.Ris.NumElements())
	}

	if t.Lis.Equal(t.Ris) {
		addScaled(ldata, rdata, fac)
		return nil
	}
	if !t.Lis.SameContent(t.Ris) {
		return fmt.Errorf("addition operands cover different indices: %s vs %s", t.Lis, t.Ris)
	}

	dest := make([]int, t.Ris.Len())
	for i := 0; i < t.Ris.Len(); i++ {
		dest[i] = t.Lis.IndexOf(t.Ris.At(i))
	}
	kernel.PermuteAccum(ldata, rdata, t.Ris.Dims(), dest, fac)
	return nil
}

// addScaled computes dst[i] += fac*src[i] for aligned buffers.
func addScaled[T Elt](dst, src []T, fac T) {
	switch d := any(dst).(type) {
	case []float64:
		floats.AddScaled(d, any(fac).(float64), any(src).([]float64))
	case []complex128:
		s := any(src).([]complex128)
		fz := any(fac).(complex128)
		for i := range d {
			d[i] += fz * s[i]
		}
	default:
		panic("unsupported dense element type")
	}
}
