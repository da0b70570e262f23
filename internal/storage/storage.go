// Package storage provides the interchangeable payload representations behind
// a tensor: dense real and complex buffers, diagonal storage, the symbolic
// delta (Kronecker) kind, and the combiner kind that stands for a group of
// indices. Operations on storage are dispatched per kind: tasks every kind
// answers are methods on the Storage interface, optional tasks are capability
// interfaces, and binary tasks resolve through registries keyed by the pair
// of operand kinds.
package storage

import (
	"io"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/kernel"
)

// Elt is the constraint for element types a numeric payload can carry.
type Elt = kernel.Scalar

// Kind identifies a storage representation.
type Kind int

// The closed set of storage kinds.
const (
	KindDenseReal Kind = iota
	KindDenseCplx
	KindDiagReal
	KindDiagCplx
	KindDelta
	KindCombiner
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindDenseReal:
		return "DenseReal"
	case KindDenseCplx:
		return "DenseCplx"
	case KindDiagReal:
		return "DiagReal"
	case KindDiagCplx:
		return "DiagCplx"
	case KindDelta:
		return "Delta"
	case KindCombiner:
		return "Combiner"
	default:
		return "Unknown"
	}
}

// Storage is one concrete payload representation. The methods are the tasks
// every kind answers; a kind that cannot answer a task does not belong here
// but in a capability interface, so that unsupported pairings are a missing
// method at compile time rather than a runtime case.
//
// Storage carries no index metadata of its own. Tasks that need the tensor's
// shape receive the IndexSet explicitly from the caller.
type Storage interface {
	// Kind returns the representation tag.
	Kind() Kind

	// Clone returns a deep copy of the payload.
	Clone() Storage

	// Size returns the number of stored scalars (0 for symbolic kinds).
	Size() int

	// IsCplx reports whether the payload holds complex values.
	IsCplx() bool

	// NormNoScale returns the Euclidean norm of the stored values, without
	// any tensor-level scale applied. Symbolic kinds contribute zero.
	NormNoScale() float64

	// Conj conjugates the payload in place. A no-op for real and symbolic
	// kinds. The caller must hold the only reference.
	Conj()

	// Elt returns the element at coords under the shape is. Symbolic kinds
	// answer their defining values where meaningful and fail otherwise.
	Elt(is index.IndexSet, coords []int) (complex128, error)

	// Flux returns the conserved-quantity divergence of the payload.
	// Every kind in this build is flux-neutral.
	Flux() QN

	// Format writes a human-readable element listing for the print task.
	Format(p *Print) error

	// WritePayload emits the kind-specific binary payload record.
	// Symbolic kinds emit nothing; their IndexSet is recorded by the caller.
	WritePayload(w io.Writer) error
}

// EltSetter is implemented by kinds whose elements can be assigned.
// A complex value landing in a real payload replaces the storage through m.
type EltSetter interface {
	SetElt(m *ManageStore, is index.IndexSet, coords []int, v complex128) error
}

// Filler is implemented by kinds whose payload can be set to one value.
// A complex fill of a real payload replaces the storage through m.
type Filler interface {
	Fill(m *ManageStore, v complex128)
}

// Scaler is implemented by kinds whose payload can be multiplied by a real
// factor in place.
type Scaler interface {
	ScaleReal(f float64)
}

// CplxScaler is implemented by kinds whose payload can be multiplied by a
// complex factor, replacing a real payload with its complex promotion
// through m when the factor has an imaginary part.
type CplxScaler interface {
	ScaleCplx(m *ManageStore, z complex128)
}

// Applier is implemented by kinds whose stored values can be mapped through
// a function. Real payloads whose mapped values stay real are updated in
// place; otherwise the storage is replaced through m with a complex payload.
type Applier interface {
	Apply(m *ManageStore, f func(complex128) complex128) error
}

// Visitor is implemented by kinds whose stored values can be walked
// read-only, in storage order.
type Visitor interface {
	Visit(f func(v complex128) error) error
}

// SumEler is implemented by kinds that can sum every tensor element.
type SumEler interface {
	SumEls() complex128
}
