package noise

import "golang.org/x/exp/constraints"

// Fade is the cubic smoothstep t²(3−2t): C¹, Fade(0)=0, Fade(0.5)=0.5, Fade(1)=1.
func Fade[T constraints.Float](t T) T {
	return t * t * (3 - 2*t)
}

// Mix blends linearly from a (t=0) to b (t=1).
func Mix[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// reduceCorners collapses 2^dim corner samples, indexed by bit a of the corner
// number for axis a, one axis at a time (x, then y, then z) using faded weights.
func reduceCorners(v *[8]float64, dim int, w [3]float64) float64 {
	n := 1 << dim
	for a := 0; a < dim; a++ {
		n >>= 1
		for k := 0; k < n; k++ {
			v[k] = Mix(v[2*k], v[2*k+1], w[a])
		}
	}
	return v[0]
}
