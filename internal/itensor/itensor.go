// Package itensor provides the tensor type of the engine: an immutable
// ordered set of labeled indices, a scale factor kept in log space, and a
// copy-on-write handle on one storage variant. Every semantic operation
// routes through the storage package's task dispatch; this package applies
// the returned index sets and swaps in whatever storage the mediator
// produced.
package itensor

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/storage"
)

// ITensor is a tensor with labeled indices. The zero value is the null
// tensor: it has no indices and no storage, and Valid reports false.
// Tensors are cheap to copy; the storage payload is shared until a holder
// needs to mutate it.
type ITensor struct {
	is    index.IndexSet
	scale LogNum
	store storage.PData
}

// Wrap assembles a tensor from parts. Fails when dense storage does not
// cover the index set's element span.
func Wrap(is index.IndexSet, scale LogNum, store storage.PData) (*ITensor, error) {
	if s := store.Store(); s != nil && s.Size() > 0 {
		switch s.Kind() {
		case storage.KindDenseReal, storage.KindDenseCplx:
			if s.Size() != is.NumElements() {
				return nil, fmt.Errorf("storage holds %d elements but %s spans %d", s.Size(), is, is.NumElements())
			}
		}
	}
	return &ITensor{is: is, scale: scale, store: store}, nil
}

// New creates a zero-filled dense real tensor over inds.
func New(inds ...index.Index) (*ITensor, error) {
	is, err := index.NewSet(inds...)
	if err != nil {
		return nil, err
	}
	return &ITensor{
		is:    is,
		scale: LogOne(),
		store: storage.NewPData(storage.NewDense[float64](is.NumElements())),
	}, nil
}

// NewScalar creates a rank-0 tensor holding v. A real v yields dense real
// storage, a complex one dense complex.
func NewScalar(v complex128) *ITensor {
	var s storage.Storage
	if imag(v) == 0 {
		s = storage.DenseOf([]float64{real(v)})
	} else {
		s = storage.DenseOf([]complex128{v})
	}
	return &ITensor{scale: LogOne(), store: storage.NewPData(s)}
}

// FromData wraps a real buffer, laid out row-major over inds, as a tensor.
// The buffer is not copied.
func FromData(data []float64, inds ...index.Index) (*ITensor, error) {
	is, err := index.NewSet(inds...)
	if err != nil {
		return nil, err
	}
	if len(data) != is.NumElements() {
		return nil, fmt.Errorf("buffer holds %d elements but %s spans %d", len(data), is, is.NumElements())
	}
	return &ITensor{is: is, scale: LogOne(), store: storage.NewPData(storage.DenseOf(data))}, nil
}

// FromDataCplx wraps a complex buffer, laid out row-major over inds, as a
// tensor. The buffer is not copied.
func FromDataCplx(data []complex128, inds ...index.Index) (*ITensor, error) {
	is, err := index.NewSet(inds...)
	if err != nil {
		return nil, err
	}
	if len(data) != is.NumElements() {
		return nil, fmt.Errorf("buffer holds %d elements but %s spans %d", len(data), is, is.NumElements())
	}
	return &ITensor{is: is, scale: LogOne(), store: storage.NewPData(storage.DenseOf(data))}, nil
}

// Random creates a dense real tensor with standard normal entries.
func Random(inds ...index.Index) (*ITensor, error) {
	t, err := New(inds...)
	if err != nil {
		return nil, err
	}
	data := t.store.Store().(*storage.Dense[float64]).Data()
	for i := range data {
		data[i] = randNorm()
	}
	return t, nil
}

// RandomCplx creates a dense complex tensor with standard normal real and
// imaginary parts.
func RandomCplx(inds ...index.Index) (*ITensor, error) {
	is, err := index.NewSet(inds...)
	if err != nil {
		return nil, err
	}
	data := make([]complex128, is.NumElements())
	for i := range data {
		data[i] = complex(randNorm(), randNorm())
	}
	return &ITensor{is: is, scale: LogOne(), store: storage.NewPData(storage.DenseOf(data))}, nil
}

// randNorm draws from the standard normal via Box-Muller.
func randNorm() float64 {
	u1 := rand.Float64() //nolint:gosec // G404: statistical use, reproducibility matters more
	u2 := rand.Float64() //nolint:gosec // G404: statistical use, reproducibility matters more
	return math.Sqrt(-2*math.Log(u1+1e-300)) * math.Cos(2*math.Pi*u2)
}

// DiagTensor creates diagonal storage over inds holding values along the
// hyperdiagonal. Fails when values is longer than the smallest dimension.
func DiagTensor(values []float64, inds ...index.Index) (*ITensor, error) {
	is, err := index.NewSet(inds...)
	if err != nil {
		return nil, err
	}
	if is.Len() == 0 {
		return nil, fmt.Errorf("diagonal tensor requires at least one index")
	}
	minDim := is.At(0).Dim()
	for i := 1; i < is.Len(); i++ {
		if d := is.At(i).Dim(); d < minDim {
			minDim = d
		}
	}
	if len(values) > minDim {
		return nil, fmt.Errorf("diagonal holds %d values but the smallest index dimension is %d", len(values), minDim)
	}
	return &ITensor{is: is, scale: LogOne(), store: storage.NewPData(storage.NewDiag(values))}, nil
}

// DeltaTensor creates the Kronecker tensor over inds: one on the
// hyperdiagonal, zero elsewhere, with no stored payload. Contracting it
// against a dense tensor relabels or traces indices.
func DeltaTensor(inds ...index.Index) (*ITensor, error) {
	is, err := index.NewSet(inds...)
	if err != nil {
		return nil, err
	}
	if is.Len() < 2 {
		return nil, fmt.Errorf("delta tensor requires at least two indices")
	}
	dim := is.At(0).Dim()
	for i := 1; i < is.Len(); i++ {
		if is.At(i).Dim() != dim {
			return nil, fmt.Errorf("delta tensor indices must share one dimension, got %s", is)
		}
	}
	return &ITensor{is: is, scale: LogOne(), store: storage.NewPData(storage.NewDelta())}, nil
}

// CombinerTensor creates a combiner over inds: its first index is a fresh
// composite whose dimension is the product of the constituents, and
// contracting it against a tensor holding the constituents merges them into
// the composite. Contracting against a tensor holding the composite splits
// it back out.
func CombinerTensor(inds ...index.Index) (*ITensor, error) {
	if len(inds) == 0 {
		return nil, fmt.Errorf("combiner requires at least one index to group")
	}
	dim := 1
	for _, ind := range inds {
		dim *= ind.Dim()
	}
	composite := index.New("cmb", dim)
	b := index.NewBuilder(len(inds) + 1)
	b.Set(0, composite)
	for i, ind := range inds {
		b.Set(i+1, ind)
	}
	is, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build combiner indices: %w", err)
	}
	return &ITensor{is: is, scale: LogOne(), store: storage.NewPData(storage.NewCombiner())}, nil
}

// Valid reports whether the tensor owns storage. The zero ITensor does not.
func (t *ITensor) Valid() bool {
	return t != nil && t.store.Valid()
}

// Inds returns the tensor's index set.
func (t *ITensor) Inds() index.IndexSet {
	return t.is
}

// Rank returns the number of indices.
func (t *ITensor) Rank() int {
	return t.is.Len()
}

// Scale returns the tensor's scale factor.
func (t *ITensor) Scale() LogNum {
	return t.scale
}

// Kind returns the storage representation tag.
func (t *ITensor) Kind() storage.Kind {
	return t.store.Store().Kind()
}

// Storage returns the owned storage variant. Callers must not mutate it;
// the payload may be shared.
func (t *ITensor) Storage() storage.Storage {
	return t.store.Store()
}

// Copy returns a new tensor sharing this one's storage.
func (t *ITensor) Copy() *ITensor {
	return &ITensor{is: t.is, scale: t.scale, store: t.store.Share()}
}

// SharesStorageWith reports whether two tensors hold the same payload
// instance. Useful for verifying that relabel-only operations did not copy.
func (t *ITensor) SharesStorageWith(o *ITensor) bool {
	return t.store.Store() != nil && t.store.Store() == o.store.Store()
}
