package itensor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/storage"
)

// The reference scenario: A(2), B(3), C(2) with a combiner over {A, B}.
// Element [a,b,c] of the original must land at [a*3+b, c].
func TestCombinerMergesIndices(t *testing.T) {
	a := index.New("A", 2)
	b := index.New("B", 3)
	c := index.New("C", 2)

	data := make([]float64, 12)
	for i := range data {
		data[i] = float64(i)
	}
	tn, err := FromData(data, a, b, c)
	require.NoError(t, err)

	cmb, err := CombinerTensor(a, b)
	require.NoError(t, err)
	composite := cmb.Inds().At(0)
	assert.Equal(t, 6, composite.Dim())
	assert.Equal(t, storage.KindCombiner, cmb.Kind())

	merged, err := tn.Mul(cmb)
	require.NoError(t, err)

	require.Equal(t, 2, merged.Rank())
	assert.True(t, merged.Inds().At(0).Equal(composite))
	assert.True(t, merged.Inds().At(1).Equal(c))
	assert.True(t, merged.SharesStorageWith(tn), "contiguous ordered combine must not copy")

	for av := 0; av < 2; av++ {
		for bv := 0; bv < 3; bv++ {
			for cv := 0; cv < 2; cv++ {
				want, err := tn.Real(a.Val(av), b.Val(bv), c.Val(cv))
				require.NoError(t, err)
				got, err := merged.Real(composite.Val(av*3+bv), c.Val(cv))
				require.NoError(t, err)
				assert.Equal(t, want, got, "[%d,%d,%d]", av, bv, cv)
			}
		}
	}
}

func TestCombinerRoundTrip(t *testing.T) {
	a := index.New("A", 2)
	b := index.New("B", 3)
	c := index.New("C", 2)

	tn, err := Random(a, b, c)
	require.NoError(t, err)
	cmb, err := CombinerTensor(a, b)
	require.NoError(t, err)

	merged, err := tn.Mul(cmb)
	require.NoError(t, err)
	back, err := merged.Mul(cmb)
	require.NoError(t, err)

	assert.True(t, back.Inds().Equal(tn.Inds()))
	assert.True(t, back.SharesStorageWith(tn), "relabel-only round trip must never copy")

	for av := 0; av < 2; av++ {
		for bv := 0; bv < 3; bv++ {
			for cv := 0; cv < 2; cv++ {
				want, err := tn.Real(a.Val(av), b.Val(bv), c.Val(cv))
				require.NoError(t, err)
				got, err := back.Real(a.Val(av), b.Val(bv), c.Val(cv))
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		}
	}
}

// Scrambled constituents force a physical permutation; canonical traversal
// of the composite must still match the contiguous-ordered result.
func TestCombinerScrambledLayout(t *testing.T) {
	a := index.New("A", 2)
	b := index.New("B", 3)
	c := index.New("C", 2)

	ref, err := Random(a, b, c)
	require.NoError(t, err)

	// Same values laid out over (B,C,A).
	scrData := make([]float64, 12)
	scr, err := FromData(scrData, b, c, a)
	require.NoError(t, err)
	for av := 0; av < 2; av++ {
		for bv := 0; bv < 3; bv++ {
			for cv := 0; cv < 2; cv++ {
				v, err := ref.Real(a.Val(av), b.Val(bv), c.Val(cv))
				require.NoError(t, err)
				scrData[bv*4+cv*2+av] = v
			}
		}
	}

	cmb, err := CombinerTensor(a, b)
	require.NoError(t, err)
	composite := cmb.Inds().At(0)

	fromRef, err := ref.Mul(cmb)
	require.NoError(t, err)
	fromScr, err := scr.Mul(cmb)
	require.NoError(t, err)

	assert.False(t, fromScr.SharesStorageWith(scr), "scattered combine must install permuted storage")
	require.True(t, fromScr.Inds().SameContent(fromRef.Inds()))

	for k := 0; k < 6; k++ {
		for cv := 0; cv < 2; cv++ {
			want, err := fromRef.Real(composite.Val(k), c.Val(cv))
			require.NoError(t, err)
			got, err := fromScr.Real(composite.Val(k), c.Val(cv))
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-14, "[%d,%d]", k, cv)
		}
	}
}

// Contraction against a combiner behaves identically in either operand
// order, sharing the dense storage on relabel paths both ways.
func TestCombinerSymmetry(t *testing.T) {
	a := index.New("A", 2)
	b := index.New("B", 3)
	c := index.New("C", 2)

	tn, err := Random(a, b, c)
	require.NoError(t, err)
	cmb, err := CombinerTensor(a, b)
	require.NoError(t, err)

	lr, err := tn.Mul(cmb)
	require.NoError(t, err)
	rl, err := cmb.Mul(tn)
	require.NoError(t, err)

	assert.True(t, lr.Inds().Equal(rl.Inds()))
	assert.True(t, lr.SharesStorageWith(tn))
	assert.True(t, rl.SharesStorageWith(tn))
}

func TestCombinerMissingIndexFails(t *testing.T) {
	a := index.New("A", 2)
	b := index.New("B", 3)
	c := index.New("C", 2)

	tn, err := FromData([]float64{0, 1, 2, 3}, a, c)
	require.NoError(t, err)
	cmb, err := CombinerTensor(a, b)
	require.NoError(t, err)

	_, err = tn.Mul(cmb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), b.String(), "error must name the missing index")

	// Neither input may have been disturbed.
	v, err := tn.Real(a.Val(1), c.Val(1))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, storage.KindCombiner, cmb.Kind())
}

func TestCombinerHasNoElements(t *testing.T) {
	a := index.New("A", 2)
	cmb, err := CombinerTensor(a)
	require.NoError(t, err)

	composite := cmb.Inds().At(0)
	_, err = cmb.Real(composite.Val(0), a.Val(0))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no addressable elements"))

	assert.Zero(t, cmb.Norm())
	assert.True(t, cmb.Flux().IsZero())
}
