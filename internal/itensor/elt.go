package itensor

import (
	"fmt"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/storage"
)

// coords resolves a set of IndexVals to coordinates in the tensor's own
// index order. Every tensor index must be pinned exactly once.
func (t *ITensor) coords(ivs []index.IndexVal) ([]int, error) {
	if len(ivs) != t.is.Len() {
		return nil, fmt.Errorf("element request pins %d indices of the rank-%d tensor %s", len(ivs), t.is.Len(), t.is)
	}
	out := make([]int, t.is.Len())
	seen := make([]bool, t.is.Len())
	for _, iv := range ivs {
		if !iv.Valid() {
			return nil, fmt.Errorf("index value %s out of range", iv)
		}
		pos := t.is.IndexOf(iv.Index)
		if pos < 0 {
			return nil, fmt.Errorf("index %s does not belong to tensor %s", iv.Index, t.is)
		}
		if seen[pos] {
			return nil, fmt.Errorf("index %s pinned twice", iv.Index)
		}
		seen[pos] = true
		out[pos] = iv.Val
	}
	return out, nil
}

// Cplx returns the element pinned by ivs, scale included.
func (t *ITensor) Cplx(ivs ...index.IndexVal) (complex128, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("cannot read an element of a null tensor")
	}
	cs, err := t.coords(ivs)
	if err != nil {
		return 0, err
	}
	v, err := t.store.Store().Elt(t.is, cs)
	if err != nil {
		return 0, err
	}
	f, err := t.scale.Real0()
	if err != nil {
		return 0, err
	}
	return complex(f, 0) * v, nil
}

// Real returns the element pinned by ivs. Fails when the element has a
// nonzero imaginary part.
func (t *ITensor) Real(ivs ...index.IndexVal) (float64, error) {
	v, err := t.Cplx(ivs...)
	if err != nil {
		return 0, err
	}
	if imag(v) != 0 {
		return 0, fmt.Errorf("element %v is complex; use Cplx", v)
	}
	return real(v), nil
}

// Set assigns the element pinned by ivs on a private copy of the payload.
// A complex value landing in real storage promotes the whole payload. The
// scale is folded to one first so the stored value equals v exactly.
func (t *ITensor) Set(v complex128, ivs ...index.IndexVal) error {
	if !t.Valid() {
		return fmt.Errorf("cannot set an element of a null tensor")
	}
	setter, ok := t.store.Store().(storage.EltSetter)
	if !ok {
		return fmt.Errorf("%s storage has no assignable elements", t.Kind())
	}
	cs, err := t.coords(ivs)
	if err != nil {
		return err
	}
	if err := t.ScaleTo(LogOne()); err != nil {
		return err
	}
	t.store.MakeUnique()
	setter = t.store.Store().(storage.EltSetter)
	m := storage.NewUnaryManage(&t.store)
	return setter.SetElt(m, t.is, cs, v)
}

// Fill sets every stored value to v on a private copy, resetting the scale.
func (t *ITensor) Fill(v complex128) error {
	filler, ok := t.store.Store().(storage.Filler)
	if !ok {
		return fmt.Errorf("%s storage cannot be filled", t.Kind())
	}
	t.store.MakeUnique()
	filler = t.store.Store().(storage.Filler)
	m := storage.NewUnaryManage(&t.store)
	filler.Fill(m, v)
	t.scale = LogOne()
	return nil
}

// Generate fills the stored values from successive calls to f, resetting
// the scale.
func (t *ITensor) Generate(f func() complex128) error {
	return t.Apply(func(complex128) complex128 { return f() })
}

// Apply maps every stored value through f on a private copy. The scale is
// folded into the values first so f sees true element values.
func (t *ITensor) Apply(f func(complex128) complex128) error {
	applier, ok := t.store.Store().(storage.Applier)
	if !ok {
		return fmt.Errorf("%s storage has no values to map", t.Kind())
	}
	if err := t.ScaleTo(LogOne()); err != nil {
		return err
	}
	t.store.MakeUnique()
	applier = t.store.Store().(storage.Applier)
	m := storage.NewUnaryManage(&t.store)
	return applier.Apply(m, f)
}

// Visit walks the stored values read-only, in storage order, scale applied.
func (t *ITensor) Visit(f func(v complex128) error) error {
	visitor, ok := t.store.Store().(storage.Visitor)
	if !ok {
		return fmt.Errorf("%s storage has no values to visit", t.Kind())
	}
	fac, err := t.scale.Real0()
	if err != nil {
		return err
	}
	fz := complex(fac, 0)
	return visitor.Visit(func(v complex128) error {
		return f(fz * v)
	})
}
