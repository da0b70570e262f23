package storage

import (
	"fmt"
	"io"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/kernel"
)

// Combiner is the index-grouping kind: no numeric payload, purely a
// directive that the first index of its IndexSet is the composite standing
// for the remaining ones, in that order. Contracting it against dense
// storage merges those indices into the composite; contracting against a
// set that already holds the composite splits it back out.
type Combiner struct{}

// NewCombiner creates combiner storage.
func NewCombiner() *Combiner {
	return &Combiner{}
}

// Kind returns the Combiner tag.
func (c *Combiner) Kind() Kind {
	return KindCombiner
}

// Clone returns a fresh combiner; there is no payload to copy.
func (c *Combiner) Clone() Storage {
	return &Combiner{}
}

// Size returns zero; combiners store no scalars.
func (c *Combiner) Size() int {
	return 0
}

// IsCplx reports false; combiners are purely symbolic.
func (c *Combiner) IsCplx() bool {
	return false
}

// NormNoScale returns zero: symbolic kinds contribute nothing.
func (c *Combiner) NormNoScale() float64 {
	return 0
}

// Conj is a no-op.
func (c *Combiner) Conj() {}

// Elt answers one for a scalar request and fails otherwise: combiners carry
// no addressable elements.
func (c *Combiner) Elt(_ index.IndexSet, coords []int) (complex128, error) {
	if len(coords) == 0 {
		return 1, nil
	}
	return 0, fmt.Errorf("combiner storage has no addressable elements (requested rank %d)", len(coords))
}

// Flux returns the neutral divergence.
func (c *Combiner) Flux() QN {
	return QN{}
}

// Format writes nothing; the kind tag in the tensor header says it all.
func (c *Combiner) Format(_ *Print) error {
	return nil
}

// WritePayload writes nothing; the IndexSet recorded by the caller is the
// whole state.
func (c *Combiner) WritePayload(_ io.Writer) error {
	return nil
}

// combine merges or splits indices of a dense operand against a combiner.
// dis is the dense operand's index set; cis the combiner's, with cis[0] the
// composite index standing for cis[1:] in that order. On success the result
// index set lands in nis.
//
// Three cases:
//  1. dis holds the composite: uncombine. The composite's position is
//     replaced by the constituents; the buffer is untouched because
//     splitting one index into adjacent ones only reinterprets strides.
//  2. The constituents sit adjacent in dis, in combiner order: relabel only,
//     the run collapses into the composite in place.
//  3. Otherwise the constituents are gathered to the front, in combiner
//     order, everything else keeping relative order; the permuted buffer is
//     installed through the mediator and the composite leads the new set.
func combine[T Elt](m *ManageStore, d *Dense[T], dis, cis index.IndexSet, nis *index.IndexSet) error {
	if cis.Len() < 2 {
		return fmt.Errorf("combiner %s declares no constituent indices", cis)
	}
	composite := cis.At(0)

	if pos := dis.IndexOf(composite); pos >= 0 {
		// Uncombine: splice the constituents into the composite's slot.
		b := index.NewBuilder(dis.Len() - 1 + cis.Len() - 1)
		slot := 0
		for i := 0; i < dis.Len(); i++ {
			if i == pos {
				for k := 1; k < cis.Len(); k++ {
					b.Set(slot, cis.At(k))
					slot++
				}
				continue
			}
			b.Set(slot, dis.At(i))
			slot++
		}
		built, err := b.Build()
		if err != nil {
			return fmt.Errorf("failed to uncombine %s from %s: %w", composite, dis, err)
		}
		*nis = built
		return nil
	}

	first := dis.IndexOf(cis.At(1))
	if first < 0 {
		return fmt.Errorf("no contracted indices in combiner-tensor product: index %s of combiner %s missing from %s", cis.At(1), cis, dis)
	}

	nconst := cis.Len() - 1
	contig := first+nconst <= dis.Len()
	if contig {
		for k := 2; k < cis.Len(); k++ {
			if !dis.At(first+k-1).Equal(cis.At(k)) {
				contig = false
				break
			}
		}
	}

	if contig {
		// Relabel only: the adjacent run collapses into the composite.
		b := index.NewBuilder(dis.Len() - nconst + 1)
		slot := 0
		for i := 0; i < first; i++ {
			b.Set(slot, dis.At(i))
			slot++
		}
		b.Set(slot, composite)
		slot++
		for i := first + nconst; i < dis.Len(); i++ {
			b.Set(slot, dis.At(i))
			slot++
		}
		built, err := b.Build()
		if err != nil {
			return fmt.Errorf("failed to combine %s into %s: %w", cis, dis, err)
		}
		*nis = built
		return nil
	}

	// General case: gather the constituents to the front.
	perm := index.NewPermutation(dis.Len())
	next := 0
	for k := 1; k < cis.Len(); k++ {
		j := dis.IndexOf(cis.At(k))
		if j < 0 {
			return fmt.Errorf("combiner %s not contracted properly: index %s missing from %s", cis, cis.At(k), dis)
		}
		perm.SetFromTo(j, next)
		next++
	}
	for i := 0; i < dis.Len(); i++ {
		if perm.Dest(i) < 0 {
			perm.SetFromTo(i, next)
			next++
		}
	}

	b := index.NewBuilder(dis.Len() - nconst + 1)
	b.Set(0, composite)
	slot := 1
	for i := 0; i < dis.Len(); i++ {
		if perm.Dest(i) >= nconst {
			b.Set(slot, dis.At(i))
			slot++
		}
	}
	built, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to combine %s into %s: %w", cis, dis, err)
	}

	m.MakeNewData(DenseOf(kernel.Permute(d.data, dis.Dims(), perm.DestSlice())))
	*nis = built
	return nil
}

func contractDenseCombinerR(m *ManageStore, t *Contract, l, r Storage) error {
	return combine(m, l.(*Dense[float64]), t.Lis, t.Ris, &t.Nis)
}

func contractDenseCombinerC(m *ManageStore, t *Contract, l, r Storage) error {
	return combine(m, l.(*Dense[complex128]), t.Lis, t.Ris, &t.Nis)
}

func contractCombinerDenseR(m *ManageStore, t *Contract, l, r Storage) error {
	if err := combine(m, r.(*Dense[float64]), t.Ris, t.Lis, &t.Nis); err != nil {
		return err
	}
	if !m.NewData() {
		// Relabel path: the dense operand's buffer is the result.
		m.AssignPointerRtoL()
	}
	return nil
}

func contractCombinerDenseC(m *ManageStore, t *Contract, l, r Storage) error {
	if err := combine(m, r.(*Dense[complex128]), t.Ris, t.Lis, &t.Nis); err != nil {
		return err
	}
	if !m.NewData() {
		m.AssignPointerRtoL()
	}
	return nil
}

func init() {
	registerPayload(KindCombiner, func(io.Reader) (Storage, error) {
		return NewCombiner(), nil
	})

	registerContract(KindDenseReal, KindCombiner, contractDenseCombinerR)
	registerContract(KindCombiner, KindDenseReal, contractCombinerDenseR)
	registerContract(KindDenseCplx, KindCombiner, contractDenseCombinerC)
	registerContract(KindCombiner, KindDenseCplx, contractCombinerDenseC)
}
