package storage

import (
	"testing"

	"github.com/tyler-bryson/ITensor/internal/index"
)

func TestContractDenseMatmul(t *testing.T) {
	i := index.New("i", 2)
	j := index.New("j", 3)
	k := index.New("k", 2)

	// a[i,j] = i*3+j, b[j,k] = j*2+k.
	ais := mustSet(t, i, j)
	bis := mustSet(t, j, k)
	a := seqDense(6)
	b := seqDense(6)

	nis, got, err := runContract(t, ais, a, bis, b)
	if err != nil {
		t.Fatalf("contraction failed: %v", err)
	}
	if nis.Len() != 2 || !nis.At(0).Equal(i) || !nis.At(1).Equal(k) {
		t.Fatalf("result index set = %s, want (i,k)", nis)
	}
	for iv := 0; iv < 2; iv++ {
		for kv := 0; kv < 2; kv++ {
			var want float64
			for jv := 0; jv < 3; jv++ {
				want += float64(iv*3+jv) * float64(jv*2+kv)
			}
			if v := eltAt(t, got, nis, iv, kv); !approxEq(v, complex(want, 0)) {
				t.Fatalf("element [%d,%d] = %v, want %v", iv, kv, v, want)
			}
		}
	}
}

// Contracting over an index that is not adjacent in either operand must
// permute internally and still produce the sum over the shared index.
func TestContractDenseScatteredCommon(t *testing.T) {
	i := index.New("i", 2)
	j := index.New("j", 2)
	k := index.New("k", 2)
	l := index.New("l", 2)

	// a over (j,i), b over (k,j,l): contract over j.
	ais := mustSet(t, j, i)
	bis := mustSet(t, k, j, l)
	a := seqDense(4)
	b := seqDense(8)

	nis, got, err := runContract(t, ais, a, bis, b)
	if err != nil {
		t.Fatalf("contraction failed: %v", err)
	}
	if nis.Len() != 3 || !nis.At(0).Equal(i) || !nis.At(1).Equal(k) || !nis.At(2).Equal(l) {
		t.Fatalf("result index set = %s, want (i,k,l)", nis)
	}

	aAt := func(jv, iv int) float64 { return float64(jv*2 + iv) }
	bAt := func(kv, jv, lv int) float64 { return float64(kv*4 + jv*2 + lv) }
	for iv := 0; iv < 2; iv++ {
		for kv := 0; kv < 2; kv++ {
			for lv := 0; lv < 2; lv++ {
				var want float64
				for jv := 0; jv < 2; jv++ {
					want += aAt(jv, iv) * bAt(kv, jv, lv)
				}
				if v := eltAt(t, got, nis, iv, kv, lv); !approxEq(v, complex(want, 0)) {
					t.Fatalf("element [%d,%d,%d] = %v, want %v", iv, kv, lv, v, want)
				}
			}
		}
	}
}

func TestContractDenseOuterProduct(t *testing.T) {
	i := index.New("i", 2)
	j := index.New("j", 3)
	a := seqDense(2)
	b := seqDense(3)

	nis, got, err := runContract(t, mustSet(t, i), a, mustSet(t, j), b)
	if err != nil {
		t.Fatalf("outer product failed: %v", err)
	}
	if nis.Len() != 2 || !nis.At(0).Equal(i) || !nis.At(1).Equal(j) {
		t.Fatalf("result index set = %s, want (i,j)", nis)
	}
	for iv := 0; iv < 2; iv++ {
		for jv := 0; jv < 3; jv++ {
			want := complex(float64(iv)*float64(jv), 0)
			if v := eltAt(t, got, nis, iv, jv); !approxEq(v, want) {
				t.Fatalf("element [%d,%d] = %v, want %v", iv, jv, v, want)
			}
		}
	}
}

// Mixed real and complex operands promote to a complex result.
func TestContractDenseMixed(t *testing.T) {
	i := index.New("i", 2)
	j := index.New("j", 2)
	a := seqDense(4)
	zdata := []complex128{1i, 2i}
	b := DenseOf(zdata)

	nis, got, err := runContract(t, mustSet(t, i, j), a, mustSet(t, j), b)
	if err != nil {
		t.Fatalf("mixed contraction failed: %v", err)
	}
	if got.Kind() != KindDenseCplx {
		t.Fatalf("mixed contraction kind = %s, want DenseCplx", got.Kind())
	}
	// result[i] = sum_j a[i,j]*b[j].
	for iv := 0; iv < 2; iv++ {
		var want complex128
		for jv := 0; jv < 2; jv++ {
			want += complex(float64(iv*2+jv), 0) * zdata[jv]
		}
		if v := eltAt(t, got, nis, iv); !approxEq(v, want) {
			t.Fatalf("element [%d] = %v, want %v", iv, v, want)
		}
	}
}

func TestContractDiagDense(t *testing.T) {
	i := index.New("i", 2)
	i2 := index.New("i2", 2)
	j := index.New("j", 3)

	diag := NewDiag([]float64{2, 3})
	dis := mustSet(t, i, i2)
	dense := seqDense(6)
	denseIs := mustSet(t, i, j)

	nis, got, err := runContract(t, dis, diag, denseIs, dense)
	if err != nil {
		t.Fatalf("diag contraction failed: %v", err)
	}
	if nis.Len() != 2 || !nis.At(0).Equal(j) || !nis.At(1).Equal(i2) {
		t.Fatalf("result index set = %s, want (j,i2)", nis)
	}
	vals := []float64{2, 3}
	for jv := 0; jv < 3; jv++ {
		for dv := 0; dv < 2; dv++ {
			want := complex(vals[dv]*float64(dv*3+jv), 0)
			if v := eltAt(t, got, nis, jv, dv); !approxEq(v, want) {
				t.Fatalf("element [%d,%d] = %v, want %v", jv, dv, v, want)
			}
		}
	}
}

func TestContractDeltaRelabels(t *testing.T) {
	i := index.New("i", 2)
	i2 := index.New("i2", 2)
	j := index.New("j", 3)

	dense := seqDense(6)
	denseIs := mustSet(t, i, j)
	deltaIs := mustSet(t, i, i2)

	nis, got, err := runContract(t, deltaIs, NewDelta(), denseIs, dense)
	if err != nil {
		t.Fatalf("delta contraction failed: %v", err)
	}
	if nis.Len() != 2 || !nis.At(0).Equal(i2) || !nis.At(1).Equal(j) {
		t.Fatalf("result index set = %s, want (i2,j)", nis)
	}
	if got != Storage(dense) {
		t.Fatal("delta relabel must keep the dense storage instance")
	}

	// Dense on the left shares storage the same way.
	_, got2, err := runContract(t, denseIs, dense, deltaIs, NewDelta())
	if err != nil {
		t.Fatalf("dense*delta failed: %v", err)
	}
	if got2 != Storage(dense) {
		t.Fatal("dense*delta relabel must keep the dense storage instance")
	}
}

func TestContractDeltaTrace(t *testing.T) {
	i := index.New("i", 2)
	j := index.New("j", 2)

	// dense[i,j] = i*2+j; tracing over both gives dense[0,0]+dense[1,1] = 3.
	dense := seqDense(4)
	denseIs := mustSet(t, i, j)
	deltaIs := mustSet(t, i, j)

	nis, got, err := runContract(t, denseIs, dense, deltaIs, NewDelta())
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	if nis.Len() != 0 {
		t.Fatalf("trace result rank = %d, want 0", nis.Len())
	}
	if v := eltAt(t, got, nis); !approxEq(v, 3) {
		t.Fatalf("trace = %v, want 3", v)
	}
}

// A delta over indices of unequal dimensions has no consistent value; both
// the relabel and the trace path must reject it instead of corrupting the
// dense operand's shape.
func TestContractDeltaUnequalDimsFails(t *testing.T) {
	i := index.New("i", 3)
	j := index.New("j", 2)

	t.Run("trace path", func(t *testing.T) {
		dense := seqDense(6)
		denseIs := mustSet(t, i, j)
		_, got, err := runContract(t, denseIs, dense, mustSet(t, i, j), NewDelta())
		if err == nil {
			t.Fatal("expected an error for a delta over unequal dimensions")
		}
		if got != Storage(dense) {
			t.Error("failed delta contraction must not replace the operand's storage")
		}
	})

	t.Run("relabel path", func(t *testing.T) {
		dense := seqDense(3)
		denseIs := mustSet(t, i)
		delta := NewDelta()
		_, got, err := runContract(t, mustSet(t, i, j), delta, denseIs, dense)
		if err == nil {
			t.Fatal("expected an error for a delta relabel across dimensions")
		}
		if got != Storage(delta) {
			t.Error("failed delta contraction must not replace the operand's storage")
		}
	})
}

func TestContractUnsupportedPairing(t *testing.T) {
	cmb := index.New("cmb", 2)
	a := index.New("a", 2)
	cis := mustSet(t, cmb, a)

	_, _, err := runContract(t, cis, NewCombiner(), cis, NewCombiner())
	if err == nil {
		t.Fatal("expected an error for combiner*combiner")
	}
}

func TestPlusPermutedOperands(t *testing.T) {
	i := index.New("i", 2)
	j := index.New("j", 3)

	l := seqDense(6)
	lis := mustSet(t, i, j)

	// r over (j,i) with r[j,i] = 10*(i*3+j): aligned with l it adds
	// 10x the left values.
	ris := mustSet(t, j, i)
	r := NewDense[float64](6)
	for jv := 0; jv < 3; jv++ {
		for iv := 0; iv < 2; iv++ {
			r.Data()[jv*2+iv] = 10 * float64(iv*3+jv)
		}
	}

	got, err := runPlus(t, lis, l, ris, r, 1)
	if err != nil {
		t.Fatalf("plus failed: %v", err)
	}
	for iv := 0; iv < 2; iv++ {
		for jv := 0; jv < 3; jv++ {
			want := complex(11*float64(iv*3+jv), 0)
			if v := eltAt(t, got, lis, iv, jv); !approxEq(v, want) {
				t.Fatalf("element [%d,%d] = %v, want %v", iv, jv, v, want)
			}
		}
	}
}

func TestPlusMismatchedIndicesFails(t *testing.T) {
	i := index.New("i", 2)
	j := index.New("j", 2)
	k := index.New("k", 2)

	_, err := runPlus(t, mustSet(t, i, j), seqDense(4), mustSet(t, i, k), seqDense(4), 1)
	if err == nil {
		t.Fatal("expected an error for operands covering different indices")
	}
}

func TestPlusComplexFactorPromotes(t *testing.T) {
	i := index.New("i", 2)
	is := mustSet(t, i)

	got, err := runPlus(t, is, seqDense(2), is, seqDense(2), 1i)
	if err != nil {
		t.Fatalf("plus failed: %v", err)
	}
	if got.Kind() != KindDenseCplx {
		t.Fatalf("result kind = %s, want DenseCplx", got.Kind())
	}
	if v := eltAt(t, got, is, 1); !approxEq(v, 1+1i) {
		t.Fatalf("element [1] = %v, want 1+1i", v)
	}
}
