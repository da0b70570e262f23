package kernel

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/blas/cblas128"
)

// GemmReal computes C = A*B for row-major float64 matrices through gonum's
// BLAS: A is m-by-k, B is k-by-n, and the returned C is m-by-n.
func GemmReal(m, k, n int, a, b []float64) []float64 {
	checkGemmArgs(m, k, n, len(a), len(b))
	c := make([]float64, m*n)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas64.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: c})
	return c
}

// GemmCplx computes C = A*B for row-major complex128 matrices through
// gonum's BLAS.
func GemmCplx(m, k, n int, a, b []complex128) []complex128 {
	checkGemmArgs(m, k, n, len(a), len(b))
	c := make([]complex128, m*n)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1,
		cblas128.General{Rows: m, Cols: k, Stride: k, Data: a},
		cblas128.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		cblas128.General{Rows: m, Cols: n, Stride: n, Data: c})
	return c
}

// Norm2Cplx returns the Euclidean norm of a complex vector.
func Norm2Cplx(xs []complex128) float64 {
	if len(xs) == 0 {
		return 0
	}
	return cblas128.Nrm2(cblas128.Vector{N: len(xs), Inc: 1, Data: xs})
}

func checkGemmArgs(m, k, n, lenA, lenB int) {
	if m < 1 || k < 1 || n < 1 {
		panic(fmt.Sprintf("gemm: sizes must be >= 1, got m=%d k=%d n=%d", m, k, n))
	}
	if lenA != m*k {
		panic(fmt.Sprintf("gemm: A length %d != m*k = %d", lenA, m*k))
	}
	if lenB != k*n {
		panic(fmt.Sprintf("gemm: B length %d != k*n = %d", lenB, k*n))
	}
}
