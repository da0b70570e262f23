package storage

import (
	"fmt"
	"io"

	"github.com/tyler-bryson/ITensor/internal/index"
)

// Delta is the Kronecker kind: no payload, every hyperdiagonal element is
// one and everything else zero. Contracting against it either relabels an
// index (one matched index, no data movement) or traces the dense operand
// over the matched pair.
type Delta struct{}

// NewDelta creates delta storage.
func NewDelta() *Delta {
	return &Delta{}
}

// Kind returns the Delta tag.
func (d *Delta) Kind() Kind {
	return KindDelta
}

// Clone returns a fresh delta; there is no payload to copy.
func (d *Delta) Clone() Storage {
	return &Delta{}
}

// Size returns zero; delta stores no scalars.
func (d *Delta) Size() int {
	return 0
}

// IsCplx reports false; delta is purely symbolic.
func (d *Delta) IsCplx() bool {
	return false
}

// NormNoScale returns zero: symbolic kinds contribute nothing.
func (d *Delta) NormNoScale() float64 {
	return 0
}

// Conj is a no-op.
func (d *Delta) Conj() {}

// Elt returns the Kronecker value: one when every coordinate agrees,
// zero otherwise.
func (d *Delta) Elt(is index.IndexSet, coords []int) (complex128, error) {
	if _, err := offsetOf(is, coords); err != nil {
		return 0, err
	}
	if len(coords) == 0 {
		return 1, nil
	}
	for _, c := range coords[1:] {
		if c != coords[0] {
			return 0, nil
		}
	}
	return 1, nil
}

// Flux returns the neutral divergence.
func (d *Delta) Flux() QN {
	return QN{}
}

// Format writes nothing; the kind tag in the tensor header says it all.
func (d *Delta) Format(_ *Print) error {
	return nil
}

// WritePayload writes nothing; the IndexSet recorded by the caller is the
// whole state.
func (d *Delta) WritePayload(_ io.Writer) error {
	return nil
}

// contractDeltaDense contracts delta storage against a dense operand.
// Exactly one matched index on a two-index delta relabels that index to the
// delta's other index without touching data. More matches trace the dense
// operand over the matched group through the diagonal kernel with unit
// values.
func contractDeltaDense[T Elt](m *ManageStore, t *Contract, deltaIs, denseIs index.IndexSet, denseData []T, deltaOnLeft bool) error {
	dim := deltaIs.At(0).Dim()
	for i := 1; i < deltaIs.Len(); i++ {
		if deltaIs.At(i).Dim() != dim {
			return fmt.Errorf("delta indices must share one dimension: %s", deltaIs)
		}
	}

	common := deltaIs.Common(denseIs)
	if len(common) == 0 {
		return fmt.Errorf("no contracted indices in delta-tensor product: %s with %s", deltaIs, denseIs)
	}

	if len(common) == 1 && deltaIs.Len() == 2 {
		other := deltaIs.At(0)
		if other.Equal(common[0]) {
			other = deltaIs.At(1)
		}
		nis, err := denseIs.Replace(common[0], other)
		if err != nil {
			return fmt.Errorf("failed to relabel %s through delta: %w", common[0], err)
		}
		t.Nis = nis
		if deltaOnLeft {
			// The dense operand sits on the right; reuse its buffer.
			m.AssignPointerRtoL()
		}
		return nil
	}

	length := deltaIs.At(0).Dim()
	ones := make([]T, length)
	var one T
	switch any(one).(type) {
	case float64:
		one = any(float64(1)).(T)
	case complex128:
		one = any(complex128(1)).(T)
	}
	for i := range ones {
		ones[i] = one
	}
	if deltaOnLeft {
		return contractDiagDense(m, t, ones, t.Lis, denseData, t.Ris)
	}
	return contractDiagDense(m, t, ones, t.Ris, denseData, t.Lis)
}

func contractDeltaDenseR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDeltaDense(m, t, t.Lis, t.Ris, r.(*Dense[float64]).data, true)
}

func contractDenseDeltaR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDeltaDense(m, t, t.Ris, t.Lis, l.(*Dense[float64]).data, false)
}

func contractDeltaDenseC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDeltaDense(m, t, t.Lis, t.Ris, r.(*Dense[complex128]).data, true)
}

func contractDenseDeltaC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDeltaDense(m, t, t.Ris, t.Lis, l.(*Dense[complex128]).data, false)
}

func init() {
	registerPayload(KindDelta, func(io.Reader) (Storage, error) {
		return NewDelta(), nil
	})

	registerContract(KindDelta, KindDenseReal, contractDeltaDenseR)
	registerContract(KindDenseReal, KindDelta, contractDenseDeltaR)
	registerContract(KindDelta, KindDenseCplx, contractDeltaDenseC)
	registerContract(KindDenseCplx, KindDelta, contractDenseDeltaC)
}
