package serialization

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/itensor"
	"github.com/tyler-bryson/ITensor/internal/storage"
)

// roundTrip writes t to a buffer and reads it back.
func roundTrip(t *testing.T, tn *itensor.ITensor) *itensor.ITensor {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tn))
	back, err := Read(&buf)
	require.NoError(t, err)
	return back
}

// requireSameTensor checks that two tensors are indistinguishable by task
// outputs: index set, kind, scale, norm, and every element.
func requireSameTensor(t *testing.T, want, got *itensor.ITensor) {
	t.Helper()
	require.True(t, got.Inds().Equal(want.Inds()), "index set %s, want %s", got.Inds(), want.Inds())
	require.Equal(t, want.Kind(), got.Kind())
	require.True(t, got.Scale().ApproxEqual(want.Scale()), "scale %s, want %s", got.Scale(), want.Scale())
	require.InDelta(t, want.Norm(), got.Norm(), 1e-12*(1+want.Norm()))
	require.True(t, got.Flux().Equal(want.Flux()))

	if want.Kind() == storage.KindCombiner {
		return
	}
	var wantEls, gotEls []float64
	coords := make([]index.IndexVal, want.Rank())
	var walk func(d int)
	walk = func(d int) {
		if d == want.Rank() {
			wv, err := want.Cplx(coords...)
			require.NoError(t, err)
			gv, err := got.Cplx(coords...)
			require.NoError(t, err)
			wantEls = append(wantEls, real(wv), imag(wv))
			gotEls = append(gotEls, real(gv), imag(gv))
			return
		}
		for v := 0; v < want.Inds().At(d).Dim(); v++ {
			coords[d] = want.Inds().At(d).Val(v)
			walk(d + 1)
		}
	}
	walk(0)
	if diff := cmp.Diff(wantEls, gotEls, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("elements differ (-want +got):\n%s", diff)
	}
}

func TestRoundTripDenseReal(t *testing.T) {
	i := index.New("site", 2)
	j := index.New("link", 3).Prime(2)
	tn, err := itensor.FromData([]float64{1, -2, 3.5, 0, 4, 5}, i, j)
	require.NoError(t, err)
	tn = tn.MulReal(-0.25)

	requireSameTensor(t, tn, roundTrip(t, tn))
}

func TestRoundTripDenseCplx(t *testing.T) {
	i := index.New("i", 2)
	tn, err := itensor.FromDataCplx([]complex128{1 + 2i, -3i}, i)
	require.NoError(t, err)

	requireSameTensor(t, tn, roundTrip(t, tn))
}

func TestRoundTripDiag(t *testing.T) {
	i := index.New("i", 3)
	j := index.New("j", 3)

	t.Run("explicit", func(t *testing.T) {
		tn, err := itensor.DiagTensor([]float64{1, 2, 3}, i, j)
		require.NoError(t, err)
		requireSameTensor(t, tn, roundTrip(t, tn))
	})

	t.Run("uniform", func(t *testing.T) {
		is, err := index.NewSet(i, j)
		require.NoError(t, err)
		tn, err := itensor.Wrap(is, itensor.LogOne(),
			storage.NewPData(storage.NewUniformDiag(2.5, 3)))
		require.NoError(t, err)
		requireSameTensor(t, tn, roundTrip(t, tn))
	})
}

func TestRoundTripDelta(t *testing.T) {
	i := index.New("i", 4)
	j := index.New("j", 4)
	tn, err := itensor.DeltaTensor(i, j)
	require.NoError(t, err)

	back := roundTrip(t, tn)
	requireSameTensor(t, tn, back)
	assert.Equal(t, storage.KindDelta, back.Kind())
}

func TestRoundTripCombiner(t *testing.T) {
	a := index.New("A", 2)
	b := index.New("B", 3)
	cmb, err := itensor.CombinerTensor(a, b)
	require.NoError(t, err)

	back := roundTrip(t, cmb)
	requireSameTensor(t, cmb, back)

	// The reconstructed combiner still combines: identity survived.
	tn, err := itensor.Random(a, b)
	require.NoError(t, err)
	merged, err := tn.Mul(back)
	require.NoError(t, err)
	assert.True(t, merged.Inds().At(0).Equal(cmb.Inds().At(0)))
}

func TestFileRoundTripAndChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.itgo")

	i := index.New("i", 2)
	tn, err := itensor.FromData([]float64{1, 2}, i)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, tn))

	back, err := ReadFile(path)
	require.NoError(t, err)
	requireSameTensor(t, tn, back)
}

func TestReadFileDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.itgo")

	i := index.New("i", 2)
	tn, err := itensor.FromData([]float64{1, 2}, i)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, tn))

	raw := readAndFlipByte(t, path, 30)
	writeRaw(t, path, raw)

	_, err = ReadFile(path)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestReadRejectsBadEnvelope(t *testing.T) {
	i := index.New("i", 2)
	tn, err := itensor.FromData([]float64{1, 2}, i)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tn))
	good := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[0] = 'X'
		_, err := Read(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[4] = 99
		_, err := Read(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Read(bytes.NewReader(good[:len(good)-4]))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Read(bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrTruncated)
	})
}

func TestWriteRejectsNullTensor(t *testing.T) {
	var null itensor.ITensor
	var buf bytes.Buffer
	err := Write(&buf, &null)
	assert.Error(t, err)
}

func readAndFlipByte(t *testing.T, path string, off int) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), off+ChecksumSize)
	raw[off] ^= 0xff
	return raw
}

func writeRaw(t *testing.T, path string, raw []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func TestChecksumReaderMatchesBytes(t *testing.T) {
	data := []byte("tensor payload bytes")
	sum, err := ComputeChecksumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ComputeChecksum(data), sum)
}

func TestRecordErrorUnwraps(t *testing.T) {
	err := fieldTooLarge("rank", 999999, MaxRank)
	assert.True(t, errors.Is(err, ErrFieldTooLarge))
	assert.Contains(t, err.Error(), "rank")
}
