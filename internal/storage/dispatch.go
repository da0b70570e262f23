package storage

import (
	"fmt"

	"github.com/tyler-bryson/ITensor/internal/index"
)

// Contract is the contracting-product task. A handler reads the operand
// index sets, deposits the result's index set in Nis, and installs or reuses
// result storage through the mediator.
type Contract struct {
	Lis index.IndexSet
	Ris index.IndexSet
	Nis index.IndexSet
}

// Plus is the accumulation task L += Fac*R. Operands must cover the same
// indices; Ris may order them differently than Lis.
type Plus struct {
	Lis index.IndexSet
	Ris index.IndexSet
	Fac complex128
}

type contractFunc func(m *ManageStore, t *Contract, l, r Storage) error

type plusFunc func(m *ManageStore, t *Plus, l, r Storage) error

var (
	contractFuncs = map[[2]Kind]contractFunc{}
	plusFuncs     = map[[2]Kind]plusFunc{}
)

// registerContract wires the contraction handler for an ordered kind pair.
// Each storage kind's file registers its own pairings at init time.
func registerContract(lk, rk Kind, f contractFunc) {
	key := [2]Kind{lk, rk}
	if _, dup := contractFuncs[key]; dup {
		panic(fmt.Sprintf("contract handler for (%s, %s) registered twice", lk, rk))
	}
	contractFuncs[key] = f
}

// registerPlus wires the accumulation handler for an ordered kind pair.
func registerPlus(lk, rk Kind, f plusFunc) {
	key := [2]Kind{lk, rk}
	if _, dup := plusFuncs[key]; dup {
		panic(fmt.Sprintf("plus handler for (%s, %s) registered twice", lk, rk))
	}
	plusFuncs[key] = f
}

// DoContract resolves and runs the contraction handler for the operands'
// kinds. Fails with a descriptive error when no handler accepts the pairing.
func DoContract(m *ManageStore, t *Contract, l, r Storage) error {
	f, ok := contractFuncs[[2]Kind{l.Kind(), r.Kind()}]
	if !ok {
		return fmt.Errorf("contraction of %s with %s storage is not supported", l.Kind(), r.Kind())
	}
	return f(m, t, l, r)
}

// DoPlus resolves and runs the accumulation handler for the operands' kinds.
func DoPlus(m *ManageStore, t *Plus, l, r Storage) error {
	f, ok := plusFuncs[[2]Kind{l.Kind(), r.Kind()}]
	if !ok {
		return fmt.Errorf("addition of %s with %s storage is not supported", l.Kind(), r.Kind())
	}
	return f(m, t, l, r)
}
