package noise

import (
	"math"
	"testing"
)

func TestValueNoise_LatticeExact(t *testing.T) {
	const seed = 1234
	for x := int64(-5); x <= 5; x++ {
		if got, want := ValueNoise1(seed, float64(x)), Hash1(seed, x); got != want {
			t.Fatalf("1D lattice x=%d: got %v want %v", x, got, want)
		}
		for y := int64(-5); y <= 5; y++ {
			if got, want := ValueNoise2(seed, float64(x), float64(y)), Hash2(seed, x, y); got != want {
				t.Fatalf("2D lattice (%d,%d): got %v want %v", x, y, got, want)
			}
			z := x - y
			if got, want := ValueNoise3(seed, float64(x), float64(y), float64(z)), Hash3(seed, x, y, z); got != want {
				t.Fatalf("3D lattice (%d,%d,%d): got %v want %v", x, y, z, got, want)
			}
		}
	}
}

func TestGradientNoise_ZeroAtLattice(t *testing.T) {
	for x := -6.0; x <= 6; x++ {
		if v := GradientNoise1(9, x); v != 0 {
			t.Fatalf("1D gradient at %v = %v", x, v)
		}
		for y := -6.0; y <= 6; y++ {
			if v := GradientNoise2(9, x, y); v != 0 {
				t.Fatalf("2D gradient at (%v,%v) = %v", x, y, v)
			}
			if v := GradientNoise3(9, x, y, x+y); v != 0 {
				t.Fatalf("3D gradient at (%v,%v,%v) = %v", x, y, x+y, v)
			}
		}
	}
}

func TestSingleOctave_Range(t *testing.T) {
	var maxGrad float64
	for i := 0; i < 120; i++ {
		for j := 0; j < 120; j++ {
			x := float64(i)*0.173 - 9.7
			y := float64(j)*0.191 + 3.3
			z := float64(i-j) * 0.057

			for _, v := range []float64{ValueNoise1(3, x), ValueNoise2(3, x, y), ValueNoise3(3, x, y, z)} {
				if v < -1 || v > 1 {
					t.Fatalf("value noise out of [-1,1] at (%v,%v,%v): %v", x, y, z, v)
				}
			}
			for _, v := range []float64{GradientNoise1(3, x), GradientNoise2(3, x, y), GradientNoise3(3, x, y, z)} {
				maxGrad = math.Max(maxGrad, math.Abs(v))
			}
		}
	}
	if maxGrad > 1.05 {
		t.Fatalf("gradient noise magnitude %v exceeds 1.05", maxGrad)
	}
	if maxGrad < 0.3 {
		t.Fatalf("gradient noise suspiciously flat: max=%v", maxGrad)
	}
}

func TestSingleOctave_Continuous(t *testing.T) {
	// Crossing a cell boundary must not jump.
	for _, x := range []float64{1, 2, -3} {
		a := GradientNoise2(11, x-1e-9, 0.4)
		b := GradientNoise2(11, x+1e-9, 0.4)
		if math.Abs(a-b) > 1e-6 {
			t.Fatalf("gradient noise jumps at x=%v: %v vs %v", x, a, b)
		}
		a = ValueNoise3(11, x-1e-9, 0.4, 0.8)
		b = ValueNoise3(11, x+1e-9, 0.4, 0.8)
		if math.Abs(a-b) > 1e-6 {
			t.Fatalf("value noise jumps at x=%v: %v vs %v", x, a, b)
		}
	}
}

func TestKind_String(t *testing.T) {
	if Value.String() != "value" || Gradient.String() != "gradient" {
		t.Fatalf("kind names: %s %s", Value, Gradient)
	}
}
