package rng

import "testing"

func TestDeterministicSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Range(0, 1000) != b.Range(0, 1000) {
			t.Fatalf("sequences diverged at roll %d", i)
		}
	}
}

func TestRangeBounds(t *testing.T) {
	r := New(1)
	for i := 0; i < 1000; i++ {
		v := r.Range(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("Range out of bounds: %d", v)
		}
	}
}

func TestPercentBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		v := r.Percent()
		if v < 1 || v > 100 {
			t.Fatalf("Percent out of bounds: %d", v)
		}
	}
}

func TestOneInEdgeCases(t *testing.T) {
	r := New(3)
	if !r.OneIn(1) {
		t.Fatal("OneIn(1) must always be true")
	}
	if r.OneIn(0) {
		t.Fatal("OneIn(0) must always be false")
	}
}

func TestFractionEdgeCases(t *testing.T) {
	r := New(9)
	if !r.Fraction(5, 5) {
		t.Fatal("Fraction(5,5) must always succeed")
	}
	if r.Fraction(0, 5) {
		t.Fatal("Fraction(0,5) must never succeed")
	}
}

func TestDiceSum(t *testing.T) {
	r := New(5)
	for i := 0; i < 500; i++ {
		v := r.Dice(3, 6)
		if v < 3 || v > 18 {
			t.Fatalf("3d6 out of range: %d", v)
		}
	}
}
