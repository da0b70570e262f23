package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/kernel"
)

// Diag stores only the hyperdiagonal of a tensor: the entries where every
// index takes the same value. Off-diagonal elements are implicitly zero.
// A nil data slice means every diagonal entry equals val (uniform diagonal).
type Diag[T Elt] struct {
	data   []T
	val    T
	length int
}

// NewDiag wraps explicit diagonal values without copying.
func NewDiag[T Elt](data []T) *Diag[T] {
	return &Diag[T]{data: data, length: len(data)}
}

// NewUniformDiag represents a diagonal whose length entries all equal val.
func NewUniformDiag[T Elt](val T, length int) *Diag[T] {
	if length < 0 {
		panic(fmt.Sprintf("diagonal length must be >= 0, got %d", length))
	}
	return &Diag[T]{val: val, length: length}
}

// Length returns the number of diagonal entries.
func (d *Diag[T]) Length() int {
	return d.length
}

// IsUniform reports whether the diagonal is a repeated single value.
func (d *Diag[T]) IsUniform() bool {
	return d.data == nil
}

// valueAt returns the diagonal entry at position i.
func (d *Diag[T]) valueAt(i int) T {
	if d.data == nil {
		return d.val
	}
	return d.data[i]
}

// materialize converts a uniform diagonal to explicit values in place.
func (d *Diag[T]) materialize() {
	if d.data != nil {
		return
	}
	d.data = make([]T, d.length)
	for i := range d.data {
		d.data[i] = d.val
	}
	var zero T
	d.val = zero
}

func diagKind[T Elt]() Kind {
	var zero T
	switch any(zero).(type) {
	case float64:
		return KindDiagReal
	case complex128:
		return KindDiagCplx
	default:
		panic("unsupported diagonal element type")
	}
}

// Kind returns DiagReal or DiagCplx depending on the element type.
func (d *Diag[T]) Kind() Kind {
	return diagKind[T]()
}

// Clone returns a deep copy of the payload.
func (d *Diag[T]) Clone() Storage {
	return &Diag[T]{
		data:   append([]T(nil), d.data...),
		val:    d.val,
		length: d.length,
	}
}

// Size returns the number of diagonal entries.
func (d *Diag[T]) Size() int {
	return d.length
}

// IsCplx reports whether the payload holds complex values.
func (d *Diag[T]) IsCplx() bool {
	return d.Kind() == KindDiagCplx
}

// NormNoScale returns the Euclidean norm over the diagonal entries.
func (d *Diag[T]) NormNoScale() float64 {
	if d.data == nil {
		var mag float64
		switch v := any(d.val).(type) {
		case float64:
			mag = math.Abs(v)
		case complex128:
			mag = cmplx.Abs(v)
		}
		return mag * math.Sqrt(float64(d.length))
	}
	switch data := any(d.data).(type) {
	case []float64:
		return floats.Norm(data, 2)
	case []complex128:
		return kernel.Norm2Cplx(data)
	default:
		panic("unsupported diagonal element type")
	}
}

// Conj conjugates the diagonal in place; a no-op for real payloads.
func (d *Diag[T]) Conj() {
	if d.Kind() != KindDiagCplx {
		return
	}
	if d.data == nil {
		v := any(d.val).(complex128)
		d.val = any(cmplx.Conj(v)).(T)
		return
	}
	data := any(d.data).([]complex128)
	for i := range data {
		data[i] = cmplx.Conj(data[i])
	}
}

// Elt returns the element at coords: the diagonal value when every
// coordinate agrees, zero otherwise.
func (d *Diag[T]) Elt(is index.IndexSet, coords []int) (complex128, error) {
	if _, err := offsetOf(is, coords); err != nil {
		return 0, err
	}
	if len(coords) == 0 {
		return 0, fmt.Errorf("diagonal storage is never rank 0")
	}
	pos := coords[0]
	for _, c := range coords[1:] {
		if c != pos {
			return 0, nil
		}
	}
	if pos >= d.length {
		return 0, nil
	}
	return toCplx(d.valueAt(pos)), nil
}

// Flux returns the neutral divergence.
func (d *Diag[T]) Flux() QN {
	return QN{}
}

// Format writes the nonzero diagonal entries with their coordinates.
func (d *Diag[T]) Format(p *Print) error {
	rank := p.Is.Len()
	coords := make([]int, rank)
	for i := 0; i < d.length; i++ {
		v := toCplx(d.valueAt(i))
		for k := range coords {
			coords[k] = i
		}
		if err := p.writeElement(coords, v); err != nil {
			return err
		}
	}
	return nil
}

// WritePayload emits the diagonal length, the uniform value, and the
// explicit values when present.
func (d *Diag[T]) WritePayload(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(d.length)); err != nil {
		return fmt.Errorf("failed to write diagonal length: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, d.val); err != nil {
		return fmt.Errorf("failed to write diagonal uniform value: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(d.data))); err != nil {
		return fmt.Errorf("failed to write diagonal element count: %w", err)
	}
	if len(d.data) > 0 {
		if err := binary.Write(w, binary.LittleEndian, d.data); err != nil {
			return fmt.Errorf("failed to write diagonal buffer: %w", err)
		}
	}
	return nil
}

// Fill sets every diagonal entry to v, switching to the uniform
// representation. A complex fill of a real diagonal promotes through m.
func (d *Diag[T]) Fill(m *ManageStore, v complex128) {
	switch any(d.val).(type) {
	case float64:
		if imag(v) != 0 {
			m.MakeNewData(NewUniformDiag(v, d.length))
			return
		}
		d.data = nil
		d.val = any(real(v)).(T)
	case complex128:
		d.data = nil
		d.val = any(v).(T)
	}
}

// ScaleReal multiplies the diagonal by f in place.
func (d *Diag[T]) ScaleReal(f float64) {
	if d.data == nil {
		switch v := any(d.val).(type) {
		case float64:
			d.val = any(v * f).(T)
		case complex128:
			d.val = any(v * complex(f, 0)).(T)
		}
		return
	}
	switch data := any(d.data).(type) {
	case []float64:
		floats.Scale(f, data)
	case []complex128:
		fz := complex(f, 0)
		for i := range data {
			data[i] *= fz
		}
	}
}

// ScaleCplx multiplies the diagonal by z, promoting a real payload when z
// has an imaginary part.
func (d *Diag[T]) ScaleCplx(m *ManageStore, z complex128) {
	if imag(z) == 0 {
		d.ScaleReal(real(z))
		return
	}
	switch any(d.val).(type) {
	case float64:
		m.MakeNewData(scaleDiagCplx(promoteDiag(any(d).(*Diag[float64])), z))
	case complex128:
		scaleDiagCplx(any(d).(*Diag[complex128]), z)
	}
}

func scaleDiagCplx(d *Diag[complex128], z complex128) *Diag[complex128] {
	if d.data == nil {
		d.val *= z
		return d
	}
	for i := range d.data {
		d.data[i] *= z
	}
	return d
}

// Apply maps every diagonal entry through f, promoting a real payload whose
// mapped values leave the real line.
func (d *Diag[T]) Apply(m *ManageStore, f func(complex128) complex128) error {
	out := make([]complex128, d.length)
	allReal := true
	for i := 0; i < d.length; i++ {
		out[i] = f(toCplx(d.valueAt(i)))
		if imag(out[i]) != 0 {
			allReal = false
		}
	}
	switch any(d.val).(type) {
	case float64:
		if !allReal {
			m.MakeNewData(NewDiag(out))
			return nil
		}
		d.materialize()
		data := any(d.data).([]float64)
		for i := range data {
			data[i] = real(out[i])
		}
	case complex128:
		d.materialize()
		data := any(d.data).([]complex128)
		copy(data, out)
	}
	return nil
}

// Visit walks the diagonal entries in order.
func (d *Diag[T]) Visit(f func(v complex128) error) error {
	for i := 0; i < d.length; i++ {
		if err := f(toCplx(d.valueAt(i))); err != nil {
			return err
		}
	}
	return nil
}

// SumEls returns the sum over every tensor element, which for diagonal
// storage is the sum of the diagonal.
func (d *Diag[T]) SumEls() complex128 {
	var sum complex128
	for i := 0; i < d.length; i++ {
		sum += toCplx(d.valueAt(i))
	}
	return sum
}

// promoteDiag copies a real diagonal into a complex one.
func promoteDiag(d *Diag[float64]) *Diag[complex128] {
	if d.data == nil {
		return NewUniformDiag(complex(d.val, 0), d.length)
	}
	return NewDiag(promoteToCplx(d.data))
}

// diagValues materializes the diagonal entries as a slice.
func diagValues[T Elt](d *Diag[T]) []T {
	out := make([]T, d.length)
	for i := range out {
		out[i] = d.valueAt(i)
	}
	return out
}

// contractDiagDense contracts diagonal values against a dense buffer. The
// diagonal's matched indices pin the dense slice at each diagonal position;
// its unmatched indices all ride the diagonal coordinate in the result. The
// result is dense, laid out as the dense operand's surviving indices
// followed by the diagonal's, whichever operand came first.
func contractDiagDense[T Elt](m *ManageStore, t *Contract, diag []T, diagIs index.IndexSet, dense []T, denseIs index.IndexSet) error {
	if len(dense) != denseIs.NumElements() {
		return fmt.Errorf("dense storage holds %d elements but %s spans %d", len(dense), denseIs, denseIs.NumElements())
	}

	common := diagIs.Common(denseIs)
	if len(common) == 0 {
		return fmt.Errorf("no contracted indices in diagonal-tensor product: %s with %s", diagIs, denseIs)
	}

	denseUn := denseIs.Unique(diagIs)
	diagUn := diagIs.Unique(denseIs)

	b := index.NewBuilder(len(denseUn) + len(diagUn))
	for i, ind := range denseUn {
		b.Set(i, ind)
	}
	for i, ind := range diagUn {
		b.Set(len(denseUn)+i, ind)
	}
	nis, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build contraction result indices: %w", err)
	}

	denseStrides := denseIs.Strides()
	commonStride := 0
	for _, c := range common {
		commonStride += denseStrides[denseIs.IndexOf(c)]
	}

	// Geometry of the dense operand's surviving axes.
	unDims := make([]int, len(denseUn))
	unStrides := make([]int, len(denseUn))
	for k, ind := range denseUn {
		pos := denseIs.IndexOf(ind)
		unDims[k] = ind.Dim()
		unStrides[k] = denseStrides[pos]
	}
	unRowStrides := rowStrides(unDims)
	unCount := 1
	for _, d := range unDims {
		unCount *= d
	}

	// Geometry of the diagonal's surviving axes in the result.
	outStrides := nis.Strides()
	diagOutStride := 0
	for _, ind := range diagUn {
		diagOutStride += outStrides[nis.IndexOf(ind)]
	}
	tailBlock := 1
	for _, ind := range diagUn {
		tailBlock *= ind.Dim()
	}

	out := make([]T, nis.NumElements())
	for pos, v := range diag {
		var zero T
		if v == zero {
			continue
		}
		base := pos * commonStride
		diagOff := pos * diagOutStride
		for u := 0; u < unCount; u++ {
			densePos := base
			rem := u
			for k := range unDims {
				c := rem / unRowStrides[k]
				rem %= unRowStrides[k]
				densePos += c * unStrides[k]
			}
			out[u*tailBlock+diagOff] += v * dense[densePos]
		}
	}

	t.Nis = nis
	m.MakeNewData(DenseOf(out))
	return nil
}

// rowStrides computes row-major strides over bare dims.
func rowStrides(dims []int) []int {
	strides := make([]int, len(dims))
	if len(dims) == 0 {
		return strides
	}
	strides[len(dims)-1] = 1
	for i := len(dims) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * dims[i+1]
	}
	return strides
}

// plusDiag accumulates fac times the right diagonal into the left. Diagonal
// entries align position by position regardless of index order.
func plusDiag[T Elt](t *Plus, l, r *Diag[T], fac T) error {
	if !t.Lis.SameContent(t.Ris) {
		return fmt.Errorf("addition operands cover different indices: %s vs %s", t.Lis, t.Ris)
	}
	if l.length != r.length {
		return fmt.Errorf("diagonal lengths differ: %d vs %d", l.length, r.length)
	}
	l.materialize()
	for i := range l.data {
		l.data[i] += fac * r.valueAt(i)
	}
	return nil
}

func plusDiagRR(m *ManageStore, t *Plus, l, r Storage) error {
	ld := l.(*Diag[float64])
	rd := r.(*Diag[float64])
	if imag(t.Fac) == 0 {
		return plusDiag(t, ld, rd, real(t.Fac))
	}
	nd := promoteDiag(ld)
	if err := plusDiag(t, nd, promoteDiag(rd), t.Fac); err != nil {
		return err
	}
	m.MakeNewData(nd)
	return nil
}

func plusDiagCC(_ *ManageStore, t *Plus, l, r Storage) error {
	return plusDiag(t, l.(*Diag[complex128]), r.(*Diag[complex128]), t.Fac)
}

func plusDiagRC(m *ManageStore, t *Plus, l, r Storage) error {
	nd := promoteDiag(l.(*Diag[float64]))
	if err := plusDiag(t, nd, r.(*Diag[complex128]), t.Fac); err != nil {
		return err
	}
	m.MakeNewData(nd)
	return nil
}

func plusDiagCR(_ *ManageStore, t *Plus, l, r Storage) error {
	return plusDiag(t, l.(*Diag[complex128]), promoteDiag(r.(*Diag[float64])), t.Fac)
}

func contractDiagDenseRR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(l.(*Diag[float64])), t.Lis, r.(*Dense[float64]).data, t.Ris)
}

func contractDenseDiagRR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(r.(*Diag[float64])), t.Ris, l.(*Dense[float64]).data, t.Lis)
}

func contractDiagDenseCC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(l.(*Diag[complex128])), t.Lis, r.(*Dense[complex128]).data, t.Ris)
}

func contractDenseDiagCC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(r.(*Diag[complex128])), t.Ris, l.(*Dense[complex128]).data, t.Lis)
}

func contractDiagDenseRC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(promoteDiag(l.(*Diag[float64]))), t.Lis, r.(*Dense[complex128]).data, t.Ris)
}

func contractDenseDiagCR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(promoteDiag(r.(*Diag[float64]))), t.Ris, l.(*Dense[complex128]).data, t.Lis)
}

func contractDiagDenseCR(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(l.(*Diag[complex128])), t.Lis, promoteToCplx(r.(*Dense[float64]).data), t.Ris)
}

func contractDenseDiagRC(m *ManageStore, t *Contract, l, r Storage) error {
	return contractDiagDense(m, t, diagValues(r.(*Diag[complex128])), t.Ris, promoteToCplx(l.(*Dense[float64]).data), t.Lis)
}

func readDiagReal(r io.Reader) (Storage, error) {
	return readDiag[float64](r)
}

func readDiagCplx(r io.Reader) (Storage, error) {
	return readDiag[complex128](r)
}

func readDiag[T Elt](r io.Reader) (Storage, error) {
	length, err := readPayloadCount(r, "diagonal")
	if err != nil {
		return nil, err
	}
	var val T
	if err := binary.Read(r, binary.LittleEndian, &val); err != nil {
		return nil, fmt.Errorf("failed to read diagonal uniform value: %w", err)
	}
	n, err := readPayloadCount(r, "diagonal")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return NewUniformDiag(val, length), nil
	}
	if n != length {
		return nil, fmt.Errorf("diagonal record holds %d values for length %d", n, length)
	}
	data := make([]T, n)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to read diagonal buffer: %w", err)
	}
	return NewDiag(data), nil
}

func init() {
	registerPayload(KindDiagReal, readDiagReal)
	registerPayload(KindDiagCplx, readDiagCplx)

	registerContract(KindDiagReal, KindDenseReal, contractDiagDenseRR)
	registerContract(KindDenseReal, KindDiagReal, contractDenseDiagRR)
	registerContract(KindDiagCplx, KindDenseCplx, contractDiagDenseCC)
	registerContract(KindDenseCplx, KindDiagCplx, contractDenseDiagCC)
	registerContract(KindDiagReal, KindDenseCplx, contractDiagDenseRC)
	registerContract(KindDenseCplx, KindDiagReal, contractDenseDiagCR)
	registerContract(KindDiagCplx, KindDenseReal, contractDiagDenseCR)
	registerContract(KindDenseReal, KindDiagCplx, contractDenseDiagRC)

	registerPlus(KindDiagReal, KindDiagReal, plusDiagRR)
	registerPlus(KindDiagCplx, KindDiagCplx, plusDiagCC)
	registerPlus(KindDiagReal, KindDiagCplx, plusDiagRC)
	registerPlus(KindDiagCplx, KindDiagReal, plusDiagCR)
}
