package itensor

import (
	"fmt"
	"strings"

	"github.com/tyler-bryson/ITensor/internal/storage"
)

// Mul returns the contracting product of two tensors. Indices present in
// both operands (same identity, same prime level) are summed away; the
// rest survive. Contracting against a combiner merges or splits the
// combiner's index group; against a delta, relabels or traces. The result's
// scale is the product of the operand scales.
func (t *ITensor) Mul(o *ITensor) (*ITensor, error) {
	if !t.Valid() || !o.Valid() {
		return nil, fmt.Errorf("cannot multiply a null tensor")
	}

	lp := t.store.Share()
	rp := o.store.Share()
	defer rp.Release()

	task := &storage.Contract{Lis: t.is, Ris: o.is}
	m := storage.NewManageStore(&lp, &rp)
	if err := storage.DoContract(m, task, lp.Store(), rp.Store()); err != nil {
		lp.Release()
		return nil, err
	}
	return &ITensor{is: task.Nis, scale: t.scale.Mul(o.scale), store: lp}, nil
}

// Add returns t + o. The operands must cover the same indices; o's storage
// may order them differently. Scales are equalized on a private copy of t
// before the payloads are accumulated.
func (t *ITensor) Add(o *ITensor) (*ITensor, error) {
	return t.addScaled(o, 1)
}

// Sub returns t - o.
func (t *ITensor) Sub(o *ITensor) (*ITensor, error) {
	return t.addScaled(o, -1)
}

func (t *ITensor) addScaled(o *ITensor, fac complex128) (*ITensor, error) {
	if !t.Valid() || !o.Valid() {
		return nil, fmt.Errorf("cannot add a null tensor")
	}
	if !t.is.SameContent(o.is) {
		return nil, fmt.Errorf("addition operands cover different indices: %s vs %s", t.is, o.is)
	}

	// Equalize to the larger scale magnitude so the smaller operand's
	// values shrink rather than the larger one's blowing up.
	target := t.scale
	if target.IsZero() || (!o.scale.IsZero() && o.scale.Abs().LogMag() > target.Abs().LogMag()) {
		target = o.scale
	}
	if target.IsZero() {
		target = LogOne()
	}

	res := t.Copy()
	if err := res.ScaleTo(target); err != nil {
		return nil, err
	}
	res.store.MakeUnique()

	ratio, err := o.scale.Div(target)
	if err != nil {
		return nil, err
	}
	r, err := ratio.Real0()
	if err != nil {
		return nil, fmt.Errorf("scale mismatch too large for addition: %w", err)
	}

	rp := o.store.Share()
	defer rp.Release()
	task := &storage.Plus{Lis: res.is, Ris: o.is, Fac: fac * complex(r, 0)}
	m := storage.NewManageStore(&res.store, &rp)
	if err := storage.DoPlus(m, task, res.store.Store(), rp.Store()); err != nil {
		res.store.Release()
		return nil, err
	}
	return res, nil
}

// MulReal returns the tensor scaled by f. Only the scale factor changes;
// the storage payload is shared with the receiver.
func (t *ITensor) MulReal(f float64) *ITensor {
	res := t.Copy()
	res.scale = res.scale.Mul(LogOf(f))
	return res
}

// DivReal returns the tensor divided by f. Fails when f is zero.
func (t *ITensor) DivReal(f float64) (*ITensor, error) {
	if f == 0 {
		return nil, fmt.Errorf("division of tensor by zero")
	}
	return t.MulReal(1 / f), nil
}

// Neg returns the negated tensor without touching storage.
func (t *ITensor) Neg() *ITensor {
	res := t.Copy()
	res.scale = res.scale.Neg()
	return res
}

// MulCplx returns the tensor scaled by z. A real z reduces to MulReal; a
// genuinely complex z promotes real storage to complex on a private copy.
func (t *ITensor) MulCplx(z complex128) (*ITensor, error) {
	if imag(z) == 0 {
		return t.MulReal(real(z)), nil
	}
	sc, ok := t.store.Store().(storage.CplxScaler)
	if !ok {
		return nil, fmt.Errorf("cannot scale %s storage by a complex factor", t.Kind())
	}
	res := t.Copy()
	res.store.MakeUnique()
	sc = res.store.Store().(storage.CplxScaler)
	m := storage.NewUnaryManage(&res.store)
	sc.ScaleCplx(m, z)
	return res, nil
}

// Conj returns the complex conjugate. Real and symbolic storage pass
// through unchanged, sharing the payload.
func (t *ITensor) Conj() *ITensor {
	res := t.Copy()
	if !res.store.Store().IsCplx() {
		return res
	}
	res.store.MakeUnique()
	res.store.Store().Conj()
	return res
}

// IsComplex reports whether the storage holds complex values.
func (t *ITensor) IsComplex() bool {
	return t.store.Store().IsCplx()
}

// Norm returns the Euclidean norm of the tensor, scale included.
func (t *ITensor) Norm() float64 {
	return t.scale.Abs().Magnitude() * t.store.Store().NormNoScale()
}

// SumEls returns the sum over every tensor element, scale included.
// Fails for storage kinds that hold no elements.
func (t *ITensor) SumEls() (complex128, error) {
	se, ok := t.store.Store().(storage.SumEler)
	if !ok {
		return 0, fmt.Errorf("%s storage has no elements to sum", t.Kind())
	}
	f, err := t.scale.Real0()
	if err != nil {
		return 0, err
	}
	return complex(f, 0) * se.SumEls(), nil
}

// Flux returns the conserved-quantity divergence of the tensor.
func (t *ITensor) Flux() storage.QN {
	return t.store.Store().Flux()
}

// Prime returns the tensor with every index primed by inc (default 1).
// Storage is shared.
func (t *ITensor) Prime(inc ...int) *ITensor {
	res := t.Copy()
	res.is = res.is.Prime(inc...)
	return res
}

// NoPrime returns the tensor with every prime level reset to zero. Fails
// when unpriming collapses two indices onto the same identity.
func (t *ITensor) NoPrime() (*ITensor, error) {
	nis, err := t.is.NoPrime()
	if err != nil {
		return nil, err
	}
	res := t.Copy()
	res.is = nis
	return res, nil
}

// MapPrime returns the tensor with indices at prime level from moved to
// level to.
func (t *ITensor) MapPrime(from, to int) (*ITensor, error) {
	nis, err := t.is.MapPrime(from, to)
	if err != nil {
		return nil, err
	}
	res := t.Copy()
	res.is = nis
	return res, nil
}

// ScaleTo folds the difference between the current scale and newscale into
// the storage payload, leaving the tensor's value unchanged. The payload is
// made private first. A no-op when the scales already agree.
func (t *ITensor) ScaleTo(newscale LogNum) error {
	if newscale.IsZero() {
		return fmt.Errorf("cannot rescale tensor to zero scale")
	}
	if t.scale.ApproxEqual(newscale) {
		return nil
	}
	ratio, err := t.scale.Div(newscale)
	if err != nil {
		return err
	}
	f, err := ratio.Real0()
	if err != nil {
		return fmt.Errorf("scale adjustment too large: %w", err)
	}
	sc, ok := t.store.Store().(storage.Scaler)
	if !ok {
		// Symbolic storage carries no values; the scale moves freely.
		t.scale = newscale
		return nil
	}
	t.store.MakeUnique()
	sc = t.store.Store().(storage.Scaler)
	sc.ScaleReal(f)
	t.scale = newscale
	return nil
}

// String renders the tensor header and its nonzero elements.
func (t *ITensor) String() string {
	if !t.Valid() {
		return "ITensor (null)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ITensor rank=%d %s %s norm=%.5g\n", t.Rank(), t.is, t.Kind(), t.Norm())
	fac, err := t.scale.Real0()
	if err != nil {
		fmt.Fprintf(&b, "  (scale %s too large to print elements)\n", t.scale)
		return b.String()
	}
	p := storage.NewPrint(&b, t.is, fac)
	if err := t.store.Store().Format(p); err != nil {
		fmt.Fprintf(&b, "  (print failed: %v)\n", err)
	}
	return b.String()
}
