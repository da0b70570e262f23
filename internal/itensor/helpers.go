package itensor

import (
	"fmt"

	"github.com/tyler-bryson/ITensor/internal/index"
)

// HasIndex reports whether ind is one of t's indices.
func HasIndex(t *ITensor, ind index.Index) bool {
	return t.Valid() && t.is.Contains(ind)
}

// CommonIndex returns the first index present in both tensors, in a's
// order. Fails when the tensors share no index.
func CommonIndex(a, b *ITensor) (index.Index, error) {
	common := a.is.Common(b.is)
	if len(common) == 0 {
		return index.Index{}, fmt.Errorf("tensors %s and %s share no index", a.is, b.is)
	}
	return common[0], nil
}

// UniqueIndex returns the first index of a absent from b. Fails when every
// index of a also belongs to b.
func UniqueIndex(a, b *ITensor) (index.Index, error) {
	unique := a.is.Unique(b.is)
	if len(unique) == 0 {
		return index.Index{}, fmt.Errorf("every index of %s also belongs to %s", a.is, b.is)
	}
	return unique[0], nil
}

// Norm returns the Euclidean norm of t, scale included.
func Norm(t *ITensor) float64 {
	return t.Norm()
}

// Conj returns the complex conjugate of t.
func Conj(t *ITensor) *ITensor {
	return t.Conj()
}

// IsComplex reports whether t holds complex values.
func IsComplex(t *ITensor) bool {
	return t.IsComplex()
}
