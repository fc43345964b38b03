package utils

import (
	"math"
	"testing"
)

func TestSafeDiv(t *testing.T) {
	cases := []struct {
		name         string
		num, den, fb float64
		want         float64
	}{
		{"regular", 10, 4, -1, 2.5},
		{"zero denominator", 10, 0, -1, -1},
		{"negative denominator", 10, -2, 7, 7},
		{"nan denominator", 1, math.NaN(), 3, 3},
		{"inf denominator", 1, math.Inf(1), 3, 3},
	}
	for _, tc := range cases {
		if got := SafeDiv(tc.num, tc.den, tc.fb); got != tc.want {
			t.Fatalf("%s: SafeDiv(%v, %v) = %v, want %v", tc.name, tc.num, tc.den, got, tc.want)
		}
	}
}

func TestCeilIntToleratesFloatNoise(t *testing.T) {
	if got := CeilInt(3.0000000000001); got != 3 {
		t.Fatalf("CeilInt(3+eps) = %d, want 3", got)
	}
	if got := CeilInt(3.2); got != 4 {
		t.Fatalf("CeilInt(3.2) = %d, want 4", got)
	}
	if got := CeilInt(0); got != 0 {
		t.Fatalf("CeilInt(0) = %d, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Fatal("Clamp out of range")
	}
	if ClampInt(9, 0, 3) != 3 || ClampInt(-1, 0, 3) != 0 {
		t.Fatal("ClampInt out of range")
	}
}
