package utils

import (
	"math"
	"testing"
)

func TestPRNGDeterministic(t *testing.T) {
	a := NewPRNGService(42)
	b := NewPRNGService(42)
	for i := 0; i < 100; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatalf("sequences diverged at %d", i)
		}
	}
}

func TestChooseWeightedSkipsNonPositive(t *testing.T) {
	s := NewPRNGService(7)
	weights := []float64{0, 3, -1, 1}
	for i := 0; i < 500; i++ {
		idx := s.ChooseWeighted(weights)
		if idx != 1 && idx != 3 {
			t.Fatalf("picked index %d with non-positive weight", idx)
		}
	}
	if s.ChooseWeighted([]float64{0, -2}) != -1 {
		t.Fatal("all non-positive weights must yield -1")
	}
}

func TestIntRange(t *testing.T) {
	s := NewPRNGService(3)
	for i := 0; i < 200; i++ {
		v := s.IntRange(2, 5)
		if v < 2 || v > 5 {
			t.Fatalf("IntRange out of bounds: %d", v)
		}
	}
	if s.IntRange(5, 2) != 5 {
		t.Fatal("inverted range must return lo")
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := map[float64]float64{
		0:             0,
		3 * math.Pi:   math.Pi,
		-3 * math.Pi:  -math.Pi,
		2.5 * math.Pi: 0.5 * math.Pi,
		math.Inf(1):   0,
	}
	for in, want := range cases {
		if got := NormalizeAngle(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("NormalizeAngle(%v) = %v, want %v", in, got, want)
		}
	}
}
