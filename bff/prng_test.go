package bff

import "testing"

func TestPRNGDeterministic(t *testing.T) {
	a := newPRNG(42)
	b := newPRNG(42)
	for i := 0; i < 1000; i++ {
		va, vb := a.next(), b.next()
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
	}
}

func TestPRNGNextInUnitRange(t *testing.T) {
	p := newPRNG(7)
	for i := 0; i < 10000; i++ {
		v := p.next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}

func TestPRNGIntnInRange(t *testing.T) {
	p := newPRNG(123)
	for i := 0; i < 10000; i++ {
		v := p.intn(7)
		if v < 0 || v >= 7 {
			t.Fatalf("intn(7) out of range: %d", v)
		}
	}
}

func TestPRNGReseed(t *testing.T) {
	p := newPRNG(5)
	first := p.next()
	p.next()
	p.next()
	p.reseed(5)
	if got := p.next(); got != first {
		t.Fatalf("reseed(5) then next() = %v, want %v", got, first)
	}
}
