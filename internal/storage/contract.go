package storage

import (
	"fmt"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/kernel"
)

func contractDenseRR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDense(m, t, l.(*Dense[float64]).data, r.(*Dense[float64]).data)
}

func contractDenseCC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDense(m, t, l.(*Dense[complex128]).data, r.(*Dense[complex128]).data)
}

func contractDenseRC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDense(m, t, promoteToCplx(l.(*Dense[float64]).data), r.(*Dense[complex128]).data)
}

func contractDenseCR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDense(m, t, l.(*Dense[complex128]).data, promoteToCplx(r.(*Dense[float64]).data))
}

// contractDense contracts two dense buffers over their matching indices.
// Matched indices are summed away; unmatched indices survive, left operand's
// first. With no match at all the result is the outer product. Each operand
// is permuted only when its matched axes are not already adjacent in the
// order GEMM needs, then a single GEMM produces the result buffer, installed
// through the mediator.
func contractDense[T Elt](m *ManageStore, t *Contract, ldata, rdata []T) error {
	if len(ldata) != t.Lis.NumElements() {
		return fmt.Errorf("left storage holds %d elements but %s spans %d", len(ldata), t.Lis, t.Lis.NumElements())
	}
	if len(rdata) != t.Ris.NumElements() {
		return fmt.Errorf("right storage holds %d elements but %s spans %d", len(rdata), t.Ris, t.Ris.NumElements())
	}

	common := t.Lis.Common(t.Ris)
	nis, err := contractedSet(t.Lis, t.Ris)
	if err != nil {
		return err
	}

	if len(common) == 0 {
		// Outer product: a GEMM with contraction length one.
		out := gemm(len(ldata), 1, len(rdata), ldata, rdata)
		t.Nis = nis
		m.MakeNewData(DenseOf(out))
		return nil
	}

	contracted := 1
	for _, c := range common {
		contracted *= c.Dim()
	}
	lRows := len(ldata) / contracted
	rCols := len(rdata) / contracted

	lp := alignForGemm(ldata, t.Lis, common, true)
	rp := alignForGemm(rdata, t.Ris, common, false)
	out := gemm(lRows, contracted, rCols, lp, rp)

	t.Nis = nis
	m.MakeNewData(DenseOf(out))
	return nil
}

// contractedSet builds the result index set: left's unmatched indices in
// order, then right's.
func contractedSet(lis, ris index.IndexSet) (index.IndexSet, error) {
	lUn := lis.Unique(ris)
	rUn := ris.Unique(lis)
	b := index.NewBuilder(len(lUn) + len(rUn))
	for i, ind := range lUn {
		b.Set(i, ind)
	}
	for i, ind := range rUn {
		b.Set(len(lUn)+i, ind)
	}
	nis, err := b.Build()
	if err != nil {
		return index.IndexSet{}, fmt.Errorf("failed to build contraction result indices: %w", err)
	}
	return nis, nil
}

// alignForGemm reorders a buffer so the matched axes sit together in the
// order of common: at the end when commonsLast, at the front otherwise.
// Unmatched axes keep their relative order. Returns the original buffer when
// no reordering is needed.
func alignForGemm[T Elt](data []T, is index.IndexSet, common []index.Index, commonsLast bool) []T {
	n := is.Len()
	dest := make([]int, n)
	nCommon := len(common)
	nOther := n - nCommon

	posInCommon := func(ind index.Index) int {
		for j, c := range common {
			if c.Equal(ind) {
				return j
			}
		}
		return -1
	}

	next := 0
	for i := 0; i < n; i++ {
		j := posInCommon(is.At(i))
		switch {
		case j >= 0 && commonsLast:
			dest[i] = nOther + j
		case j >= 0:
			dest[i] = j
		case commonsLast:
			dest[i] = next
			next++
		default:
			dest[i] = nCommon + next
			next++
		}
	}

	trivial := true
	for i, to := range dest {
		if i != to {
			trivial = false
			break
		}
	}
	if trivial {
		return data
	}
	return kernel.Permute(data, is.Dims(), dest)
}

// gemm runs the element-type-matched GEMM kernel.
func gemm[T Elt](rows, contracted, cols int, a, b []T) []T {
	switch av := any(a).(type) {
	case []float64:
		return any(kernel.GemmReal(rows, contracted, cols, av, any(b).([]float64))).([]T)
	case []complex128:
		return any(kernel.GemmCplx(rows, contracted, cols, av, any(b).([]complex128))).([]T)
	default:
		panic("unsupported dense element type")
	}
}
