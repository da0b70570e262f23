// Package kernel provides the raw numeric routines behind tensor storage:
// axis permutation of flat row-major buffers and GEMM through gonum's BLAS.
package kernel

import "fmt"

// Scalar is a constraint for the element types storage payloads carry.
type Scalar interface {
	~float64 | ~complex128
}

// rowMajorStrides computes strides with the last axis varying fastest.
func rowMajorStrides(dims []int) []int {
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

// numElements returns the product of dims (1 for an empty slice).
func numElements(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// Permute scatters src, laid out row-major over dims, into a fresh buffer in
// which source axis i has become destination axis dest[i].
// Panics if the mapping does not cover the axes or src has the wrong length.
func Permute[T Scalar](src []T, dims []int, dest []int) []T {
	checkPermArgs(len(src), dims, dest)

	dst := make([]T, len(src))
	srcStrides := rowMajorStrides(dims)
	dstStrides := permutedStrides(dims, dest)

	For(len(src), func(i int) {
		dst[mapIndex(i, srcStrides, dstStrides)] = src[i]
	}, DefaultConfig())
	return dst
}

// PermuteAccum adds scale*src into dst through the same axis mapping as
// Permute. dst must already be laid out over the permuted dims.
func PermuteAccum[T Scalar](dst, src []T, dims []int, dest []int, scale T) {
	checkPermArgs(len(src), dims, dest)
	if len(dst) != len(src) {
		panic(fmt.Sprintf("permute: dst length %d != src length %d", len(dst), len(src)))
	}

	srcStrides := rowMajorStrides(dims)
	dstStrides := permutedStrides(dims, dest)

	for i := range src {
		dst[mapIndex(i, srcStrides, dstStrides)] += scale * src[i]
	}
}

// permutedStrides returns, per source axis, the destination stride of the
// axis it maps to.
func permutedStrides(dims []int, dest []int) []int {
	dstDims := make([]int, len(dims))
	for i, d := range dims {
		dstDims[dest[i]] = d
	}
	tmp := rowMajorStrides(dstDims)
	out := make([]int, len(dims))
	for i := range dims {
		out[i] = tmp[dest[i]]
	}
	return out
}

// mapIndex converts a flat source offset to the matching destination offset.
func mapIndex(i int, srcStrides, dstStrides []int) int {
	dstIdx := 0
	rem := i
	for d := 0; d < len(srcStrides); d++ {
		c := rem / srcStrides[d]
		rem %= srcStrides[d]
		dstIdx += c * dstStrides[d]
	}
	return dstIdx
}

func checkPermArgs(srcLen int, dims, dest []int) {
	if len(dims) != len(dest) {
		panic(fmt.Sprintf("permute: %d dims but %d destinations", len(dims), len(dest)))
	}
	if n := numElements(dims); n != srcLen {
		panic(fmt.Sprintf("permute: buffer length %d does not cover dims %v (%d elements)", srcLen, dims, n))
	}
	seen := make([]bool, len(dest))
	for _, to := range dest {
		if to < 0 || to >= len(dest) {
			panic(fmt.Sprintf("permute: destination %d out of range", to))
		}
		if seen[to] {
			panic(fmt.Sprintf("permute: destination %d assigned twice", to))
		}
		seen[to] = true
	}
}
