package index

import (
	"strings"
	"testing"
)

// IndexSet construction tests

func TestNewSet(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)

	is, err := NewSet(i, j)
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	if is.Len() != 2 {
		t.Errorf("Len = %d, want 2", is.Len())
	}
	if !is.At(0).Equal(i) || !is.At(1).Equal(j) {
		t.Error("NewSet should preserve order")
	}
}

func TestNewSetDuplicateFails(t *testing.T) {
	i := New("i", 2)

	_, err := NewSet(i, i)
	if err == nil {
		t.Fatal("NewSet with a duplicate index should fail")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error %q should mention the duplicate", err)
	}
}

func TestNewSetPrimedCopiesAllowed(t *testing.T) {
	i := New("i", 2)

	is, err := NewSet(i, i.Prime())
	if err != nil {
		t.Fatalf("NewSet with primed copy failed: %v", err)
	}
	if is.Len() != 2 {
		t.Errorf("Len = %d, want 2", is.Len())
	}
}

func TestEmptySetIsScalar(t *testing.T) {
	is, err := NewSet()
	if err != nil {
		t.Fatalf("NewSet() failed: %v", err)
	}
	if is.Len() != 0 {
		t.Errorf("Len = %d, want 0", is.Len())
	}
	if is.NumElements() != 1 {
		t.Errorf("NumElements = %d, want 1", is.NumElements())
	}
}

// Geometry tests

func TestSetDimsAndStrides(t *testing.T) {
	a := New("a", 2)
	b := New("b", 3)
	c := New("c", 4)
	is, _ := NewSet(a, b, c)

	wantDims := []int{2, 3, 4}
	for i, d := range is.Dims() {
		if d != wantDims[i] {
			t.Errorf("Dims[%d] = %d, want %d", i, d, wantDims[i])
		}
	}
	if is.NumElements() != 24 {
		t.Errorf("NumElements = %d, want 24", is.NumElements())
	}

	wantStrides := []int{12, 4, 1}
	for i, s := range is.Strides() {
		if s != wantStrides[i] {
			t.Errorf("Strides[%d] = %d, want %d", i, s, wantStrides[i])
		}
	}
}

// Membership tests

func TestSetIndexOf(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)
	is, _ := NewSet(i, j)

	if pos := is.IndexOf(j); pos != 1 {
		t.Errorf("IndexOf(j) = %d, want 1", pos)
	}
	if pos := is.IndexOf(i.Prime()); pos != -1 {
		t.Errorf("IndexOf(i') = %d, want -1 (prime levels must match)", pos)
	}
	if !is.Contains(i) {
		t.Error("Contains(i) should be true")
	}
	if is.Contains(New("i", 2)) {
		t.Error("Contains should match by identity tag, not name")
	}
}

func TestSetCommonUnique(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)
	k := New("k", 4)
	left, _ := NewSet(i, j)
	right, _ := NewSet(j, k)

	common := left.Common(right)
	if len(common) != 1 || !common[0].Equal(j) {
		t.Errorf("Common = %v, want [j]", common)
	}

	unique := left.Unique(right)
	if len(unique) != 1 || !unique[0].Equal(i) {
		t.Errorf("Unique = %v, want [i]", unique)
	}
}

func TestSetEqualAndSameContent(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)
	ij, _ := NewSet(i, j)
	ji, _ := NewSet(j, i)

	if !ij.Equal(ij) {
		t.Error("set should equal itself")
	}
	if ij.Equal(ji) {
		t.Error("Equal should be order-sensitive")
	}
	if !ij.SameContent(ji) {
		t.Error("SameContent should ignore order")
	}
}

// Transformation tests

func TestSetPrimeTransforms(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)
	is, _ := NewSet(i, j)

	primed := is.Prime()
	if primed.At(0).PrimeLevel() != 1 || primed.At(1).PrimeLevel() != 1 {
		t.Error("Prime should raise every member's level")
	}
	if is.At(0).PrimeLevel() != 0 {
		t.Error("Prime should not mutate the receiver")
	}

	back, err := primed.NoPrime()
	if err != nil {
		t.Fatalf("NoPrime failed: %v", err)
	}
	if !back.Equal(is) {
		t.Error("NoPrime should restore the original set")
	}
}

func TestSetNoPrimeCollisionFails(t *testing.T) {
	i := New("i", 2)
	is, _ := NewSet(i, i.Prime())

	if _, err := is.NoPrime(); err == nil {
		t.Error("NoPrime collapsing i and i' should fail")
	}
}

func TestSetMapPrime(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)
	is, _ := NewSet(i.Prime(), j)

	mapped, err := is.MapPrime(1, 3)
	if err != nil {
		t.Fatalf("MapPrime failed: %v", err)
	}
	if mapped.At(0).PrimeLevel() != 3 {
		t.Errorf("mapped level = %d, want 3", mapped.At(0).PrimeLevel())
	}
	if mapped.At(1).PrimeLevel() != 0 {
		t.Error("MapPrime should leave other levels alone")
	}
}

func TestSetReplace(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)
	k := New("k", 3)
	is, _ := NewSet(i, j)

	swapped, err := is.Replace(j, k)
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if !swapped.At(1).Equal(k) {
		t.Error("Replace should install the new index in place")
	}

	if _, err := is.Replace(k, j); err == nil {
		t.Error("Replace of an absent index should fail")
	}
}

func TestSetPermute(t *testing.T) {
	a := New("a", 2)
	b := New("b", 3)
	c := New("c", 4)
	is, _ := NewSet(a, b, c)

	p := NewPermutation(3)
	p.SetFromTo(0, 2)
	p.SetFromTo(1, 0)
	p.SetFromTo(2, 1)

	got, err := is.Permute(p)
	if err != nil {
		t.Fatalf("Permute failed: %v", err)
	}
	want, _ := NewSet(b, c, a)
	if !got.Equal(want) {
		t.Errorf("Permute = %v, want %v", got, want)
	}
}

// Builder tests

func TestBuilderUnsetSlotFails(t *testing.T) {
	b := NewBuilder(2)
	b.Set(0, New("i", 2))

	if _, err := b.Build(); err == nil {
		t.Error("Build with an unfilled slot should fail")
	}
}

func TestBuilderAppend(t *testing.T) {
	b := NewBuilder(2)
	b.Append(New("i", 2))
	b.Append(New("j", 3))

	is, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if is.Len() != 2 {
		t.Errorf("Len = %d, want 2", is.Len())
	}
}

func TestBuilderOutOfRangePanics(t *testing.T) {
	b := NewBuilder(1)
	defer func() {
		if r := recover(); r == nil {
			t.Error("Set out of range should panic")
		}
	}()
	b.Set(1, New("i", 2))
}

func TestSetString(t *testing.T) {
	i := New("i", 2)
	j := New("j", 3)
	is, _ := NewSet(i, j.Prime())

	got := is.String()
	if got != "(i(2),j(3)')" {
		t.Errorf("String = %q, want %q", got, "(i(2),j(3)')")
	}
}
