package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/kernel"
)

// Dense is a flat row-major buffer covering every element of the tensor's
// index range. The last index varies fastest.
type Dense[T Elt] struct {
	data []T
}

// NewDense allocates a zeroed dense payload of n elements.
func NewDense[T Elt](n int) *Dense[T] {
	if n < 0 {
		panic(fmt.Sprintf("dense storage size must be >= 0, got %d", n))
	}
	return &Dense[T]{data: make([]T, n)}
}

// DenseOf wraps data as dense storage without copying.
func DenseOf[T Elt](data []T) *Dense[T] {
	return &Dense[T]{data: data}
}

// Data returns the underlying buffer.
func (d *Dense[T]) Data() []T {
	return d.data
}

// denseKind maps the element type to its storage kind tag.
func denseKind[T Elt]() Kind {
	var zero T
	switch any(zero).(type) {
	case float64:
		return KindDenseReal
	case complex128:
		return KindDenseCplx
	default:
		panic("unsupported dense element type")
	}
}

// Kind returns DenseReal or DenseCplx depending on the element type.
func (d *Dense[T]) Kind() Kind {
	return denseKind[T]()
}

// Clone returns a deep copy of the payload.
func (d *Dense[T]) Clone() Storage {
	return &Dense[T]{data: append([]T(nil), d.data...)}
}

// Size returns the number of stored scalars.
func (d *Dense[T]) Size() int {
	return len(d.data)
}

// IsCplx reports whether the payload holds complex values.
func (d *Dense[T]) IsCplx() bool {
	return d.Kind() == KindDenseCplx
}

// NormNoScale returns the Euclidean norm of the buffer.
func (d *Dense[T]) NormNoScale() float64 {
	switch data := any(d.data).(type) {
	case []float64:
		return floats.Norm(data, 2)
	case []complex128:
		return kernel.Norm2Cplx(data)
	default:
		panic("unsupported dense element type")
	}
}

// Conj conjugates a complex payload in place; a no-op for real payloads.
func (d *Dense[T]) Conj() {
	if data, ok := any(d.data).([]complex128); ok {
		for i := range data {
			data[i] = cmplx.Conj(data[i])
		}
	}
}

// Elt returns the element at coords under the shape is.
func (d *Dense[T]) Elt(is index.IndexSet, coords []int) (complex128, error) {
	off, err := offsetOf(is, coords)
	if err != nil {
		return 0, err
	}
	if off >= len(d.data) {
		return 0, fmt.Errorf("dense storage holds %d elements but %s spans %d", len(d.data), is, is.NumElements())
	}
	return toCplx(d.data[off]), nil
}

// Flux returns the neutral divergence; dense storage carries no sectors.
func (d *Dense[T]) Flux() QN {
	return QN{}
}

// Format writes every nonzero element with its coordinates.
func (d *Dense[T]) Format(p *Print) error {
	return printElements(p, len(d.data), func(i int) complex128 {
		return toCplx(d.data[i])
	})
}

// WritePayload emits the element count followed by the raw buffer.
func (d *Dense[T]) WritePayload(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(d.data))); err != nil {
		return fmt.Errorf("failed to write dense element count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, d.data); err != nil {
		return fmt.Errorf("failed to write dense buffer: %w", err)
	}
	return nil
}

// SetElt assigns the element at coords. A complex value assigned into a real
// payload promotes the whole buffer through the mediator.
func (d *Dense[T]) SetElt(m *ManageStore, is index.IndexSet, coords []int, v complex128) error {
	off, err := offsetOf(is, coords)
	if err != nil {
		return err
	}
	if off >= len(d.data) {
		return fmt.Errorf("dense storage holds %d elements but %s spans %d", len(d.data), is, is.NumElements())
	}
	switch data := any(d.data).(type) {
	case []float64:
		if imag(v) != 0 {
			nd := promoteToCplx(data)
			nd[off] = v
			m.MakeNewData(DenseOf(nd))
			return nil
		}
		data[off] = real(v)
	case []complex128:
		data[off] = v
	}
	return nil
}

// Fill sets every element to v, promoting a real payload when v is complex.
func (d *Dense[T]) Fill(m *ManageStore, v complex128) {
	switch data := any(d.data).(type) {
	case []float64:
		if imag(v) != 0 {
			nd := make([]complex128, len(data))
			for i := range nd {
				nd[i] = v
			}
			m.MakeNewData(DenseOf(nd))
			return
		}
		for i := range data {
			data[i] = real(v)
		}
	case []complex128:
		for i := range data {
			data[i] = v
		}
	}
}

// ScaleReal multiplies every element by f in place.
func (d *Dense[T]) ScaleReal(f float64) {
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

// ScaleCplx multiplies every element by z, promoting a real payload when z
// has an imaginary part.
func (d *Dense[T]) ScaleCplx(m *ManageStore, z complex128) {
	if imag(z) == 0 {
		d.ScaleReal(real(z))
		return
	}
	switch data := any(d.data).(type) {
	case []float64:
		nd := make([]complex128, len(data))
		for i, x := range data {
			nd[i] = z * complex(x, 0)
		}
		m.MakeNewData(DenseOf(nd))
	case []complex128:
		for i := range data {
			data[i] *= z
		}
	}
}

// Apply maps every element through f. A real payload whose mapped values
// stay real is updated in place; otherwise the storage is promoted.
func (d *Dense[T]) Apply(m *ManageStore, f func(complex128) complex128) error {
	switch data := any(d.data).(type) {
	case []float64:
		out := make([]complex128, len(data))
		allReal := true
		for i, x := range data {
			out[i] = f(complex(x, 0))
			if imag(out[i]) != 0 {
				allReal = false
			}
		}
		if allReal {
			for i := range data {
				data[i] = real(out[i])
			}
			return nil
		}
		m.MakeNewData(DenseOf(out))
	case []complex128:
		for i := range data {
			data[i] = f(data[i])
		}
	}
	return nil
}

// Visit walks the stored values in buffer order.
func (d *Dense[T]) Visit(f func(v complex128) error) error {
	for _, x := range d.data {
		if err := f(toCplx(x)); err != nil {
			return err
		}
	}
	return nil
}

// SumEls returns the sum over every element.
func (d *Dense[T]) SumEls() complex128 {
	switch data := any(d.data).(type) {
	case []float64:
		return complex(floats.Sum(data), 0)
	case []complex128:
		var sum complex128
		for _, x := range data {
			sum += x
		}
		return sum
	default:
		panic("unsupported dense element type")
	}
}

// toCplx widens a stored scalar to complex128.
func toCplx[T Elt](v T) complex128 {
	switch x := any(v).(type) {
	case float64:
		return complex(x, 0)
	case complex128:
		return x
	default:
		panic("unsupported dense element type")
	}
}

// promoteToCplx copies a real buffer into a complex one.
func promoteToCplx(data []float64) []complex128 {
	out := make([]complex128, len(data))
	for i, x := range data {
		out[i] = complex(x, 0)
	}
	return out
}

// offsetOf resolves coords against is to a row-major flat offset.
func offsetOf(is index.IndexSet, coords []int) (int, error) {
	if len(coords) != is.Len() {
		return 0, fmt.Errorf("element request has %d coordinates for rank-%d index set %s", len(coords), is.Len(), is)
	}
	strides := is.Strides()
	off := 0
	for k, c := range coords {
		if c < 0 || c >= is.At(k).Dim() {
			return 0, fmt.Errorf("coordinate %d out of range [0,%d) for index %s", c, is.At(k).Dim(), is.At(k))
		}
		off += c * strides[k]
	}
	return off, nil
}

// maxPayloadElems bounds element counts read back from payload records, so a
// corrupted count cannot trigger a huge allocation.
const maxPayloadElems = 1 << 32

func readDenseReal(r io.Reader) (Storage, error) {
	n, err := readPayloadCount(r, "dense")
	if err != nil {
		return nil, err
	}
	data := make([]float64, n)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to read dense buffer: %w", err)
	}
	return DenseOf(data), nil
}

func readDenseCplx(r io.Reader) (Storage, error) {
	n, err := readPayloadCount(r, "dense")
	if err != nil {
		return nil, err
	}
	data := make([]complex128, n)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to read dense buffer: %w", err)
	}
	return DenseOf(data), nil
}

func init() {
	registerPayload(KindDenseReal, readDenseReal)
	registerPayload(KindDenseCplx, readDenseCplx)

	registerContract(KindDenseReal, KindDenseReal, contractDenseRR)
	registerContract(KindDenseCplx, KindDenseCplx, contractDenseCC)
	registerContract(KindDenseReal, KindDenseCplx, contractDenseRC)
	registerContract(KindDenseCplx, KindDenseReal, contractDenseCR)

	registerPlus(KindDenseReal, KindDenseReal, plusDenseRR)
	registerPlus(KindDenseCplx, KindDenseCplx, plusDenseCC)
	registerPlus(KindDenseReal, KindDenseCplx, plusDenseRC)
	registerPlus(KindDenseCplx, KindDenseReal, plusDenseCR)
}
