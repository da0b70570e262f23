package storage

import (
	"math/cmplx"
	"testing"

	"github.com/tyler-bryson/ITensor/internal/index"
)

// Shared test helpers

func mustSet(t *testing.T, inds ...index.Index) index.IndexSet {
	t.Helper()
	is, err := index.NewSet(inds...)
	if err != nil {
		t.Fatalf("failed to build index set: %v", err)
	}
	return is
}

// seqDense fills a dense payload with 0, 1, 2, ...
func seqDense(n int) *Dense[float64] {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return DenseOf(data)
}

func approxEq(a, b complex128) bool {
	return cmplx.Abs(a-b) < 1e-12
}

// runContract dispatches a contraction the way the tensor layer does: the
// left handle doubles as the result slot.
func runContract(t *testing.T, lis index.IndexSet, ls Storage, ris index.IndexSet, rs Storage) (index.IndexSet, Storage, error) {
	t.Helper()
	lp := NewPData(ls)
	rp := NewPData(rs)
	m := NewManageStore(&lp, &rp)
	task := &Contract{Lis: lis, Ris: ris}
	err := DoContract(m, task, ls, rs)
	return task.Nis, lp.Store(), err
}

// runPlus dispatches an accumulation with the left handle as result slot.
func runPlus(t *testing.T, lis index.IndexSet, ls Storage, ris index.IndexSet, rs Storage, fac complex128) (Storage, error) {
	t.Helper()
	lp := NewPData(ls)
	rp := NewPData(rs)
	m := NewManageStore(&lp, &rp)
	task := &Plus{Lis: lis, Ris: ris, Fac: fac}
	err := DoPlus(m, task, ls, rs)
	return lp.Store(), err
}

func eltAt(t *testing.T, s Storage, is index.IndexSet, coords ...int) complex128 {
	t.Helper()
	v, err := s.Elt(is, coords)
	if err != nil {
		t.Fatalf("Elt(%v) failed: %v", coords, err)
	}
	return v
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindDenseReal: "DenseReal",
		KindDenseCplx: "DenseCplx",
		KindDiagReal:  "DiagReal",
		KindDiagCplx:  "DiagCplx",
		KindDelta:     "Delta",
		KindCombiner:  "Combiner",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), k.String(), want)
		}
	}
}

// Every kind satisfies Storage; spot-check the symbolic answers required of
// them: zero norm, no-op conjugation, neutral flux.
func TestSymbolicKindAnswers(t *testing.T) {
	for _, s := range []Storage{NewDelta(), NewCombiner()} {
		if s.NormNoScale() != 0 {
			t.Errorf("%s NormNoScale = %v, want 0", s.Kind(), s.NormNoScale())
		}
		if s.Size() != 0 {
			t.Errorf("%s Size = %d, want 0", s.Kind(), s.Size())
		}
		if s.IsCplx() {
			t.Errorf("%s IsCplx = true, want false", s.Kind())
		}
		if !s.Flux().IsZero() {
			t.Errorf("%s Flux = %v, want neutral", s.Kind(), s.Flux())
		}
		s.Conj() // must not panic
	}
}
