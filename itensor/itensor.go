// Copyright 2026 ITensor-Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package itensor provides the public API of the labeled-index tensor
// algebra engine.
//
// A tensor carries an ordered set of labeled indices, a scale factor kept
// in log space, and one of several interchangeable storage representations:
//   - dense real and dense complex buffers
//   - diagonal storage
//   - delta (Kronecker) storage with no payload
//   - combiner storage, a symbolic index-grouping directive
//
// Contracting two tensors sums over the indices they share. Contracting a
// tensor against a combiner merges the combiner's index group into one
// composite index, or splits the composite back out. Both happen by pure
// index bookkeeping when the layout allows, and by physically permuting
// the buffer when it does not.
//
// Example:
//
//	a := itensor.NewIndex("a", 2)
//	b := itensor.NewIndex("b", 3)
//	t, _ := itensor.Random(a, b)
//	c, _ := itensor.Combiner(a, b)
//	merged, _ := t.Mul(c) // rank-1 tensor over the composite index
package itensor

import (
	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/itensor"
	"github.com/tyler-bryson/ITensor/internal/storage"
)

// Type aliases for the public API

// Index is a labeled tensor axis with a unique identity, a dimension, and
// a prime level.
type Index = index.Index

// IndexVal pairs an Index with one of its coordinate values (0-based).
type IndexVal = index.IndexVal

// IndexSet is an immutable ordered collection of distinct indices.
type IndexSet = index.IndexSet

// Permutation maps source positions to destination positions.
type Permutation = index.Permutation

// ITensor is a tensor with labeled indices, a log-space scale factor, and
// copy-on-write storage.
type ITensor = itensor.ITensor

// LogNum is a real scale factor stored as sign plus log magnitude.
type LogNum = itensor.LogNum

// QN is an additive collection of conserved-quantity sectors.
type QN = storage.QN

// Sector is one named conserved quantity and its value.
type Sector = storage.Sector

// Kind identifies a storage representation.
type Kind = storage.Kind

// Storage kind tags.
const (
	KindDenseReal = storage.KindDenseReal
	KindDenseCplx = storage.KindDenseCplx
	KindDiagReal  = storage.KindDiagReal
	KindDiagCplx  = storage.KindDiagCplx
	KindDelta     = storage.KindDelta
	KindCombiner  = storage.KindCombiner
)

// NewIndex creates a fresh index with a unique identity tag.
func NewIndex(name string, dim int) Index {
	return index.New(name, dim)
}

// NewIndexSet builds an IndexSet, failing on duplicate indices.
func NewIndexSet(inds ...Index) (IndexSet, error) {
	return index.NewSet(inds...)
}

// New creates a zero-filled dense real tensor over inds.
func New(inds ...Index) (*ITensor, error) {
	return itensor.New(inds...)
}

// NewScalar creates a rank-0 tensor holding v.
func NewScalar(v complex128) *ITensor {
	return itensor.NewScalar(v)
}

// FromData wraps a real buffer, laid out row-major over inds, as a tensor.
func FromData(data []float64, inds ...Index) (*ITensor, error) {
	return itensor.FromData(data, inds...)
}

// FromDataCplx wraps a complex buffer as a tensor.
func FromDataCplx(data []complex128, inds ...Index) (*ITensor, error) {
	return itensor.FromDataCplx(data, inds...)
}

// Random creates a dense real tensor with standard normal entries.
func Random(inds ...Index) (*ITensor, error) {
	return itensor.Random(inds...)
}

// RandomCplx creates a dense complex tensor with standard normal entries.
func RandomCplx(inds ...Index) (*ITensor, error) {
	return itensor.RandomCplx(inds...)
}

// Diag creates diagonal storage over inds holding values on the
// hyperdiagonal.
func Diag(values []float64, inds ...Index) (*ITensor, error) {
	return itensor.DiagTensor(values, inds...)
}

// Delta creates the Kronecker tensor over inds.
func Delta(inds ...Index) (*ITensor, error) {
	return itensor.DeltaTensor(inds...)
}

// Combiner creates a combiner tensor grouping inds under a fresh composite
// index, which appears first in the result's index set.
func Combiner(inds ...Index) (*ITensor, error) {
	return itensor.CombinerTensor(inds...)
}

// HasIndex reports whether ind is one of t's indices.
func HasIndex(t *ITensor, ind Index) bool {
	return itensor.HasIndex(t, ind)
}

// CommonIndex returns the first index shared by both tensors.
func CommonIndex(a, b *ITensor) (Index, error) {
	return itensor.CommonIndex(a, b)
}

// UniqueIndex returns the first index of a absent from b.
func UniqueIndex(a, b *ITensor) (Index, error) {
	return itensor.UniqueIndex(a, b)
}

// Norm returns the Euclidean norm of t, scale included.
func Norm(t *ITensor) float64 {
	return itensor.Norm(t)
}

// Conj returns the complex conjugate of t.
func Conj(t *ITensor) *ITensor {
	return itensor.Conj(t)
}

// IsComplex reports whether t holds complex values.
func IsComplex(t *ITensor) bool {
	return itensor.IsComplex(t)
}

// NewQN builds a QN from sectors, merging repeated names.
func NewQN(sectors ...Sector) QN {
	return storage.NewQN(sectors...)
}
