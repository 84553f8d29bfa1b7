package noise

import (
	"math"
	"math/bits"
	"testing"
)

func TestHash3_Deterministic(t *testing.T) {
	for _, c := range [][3]int64{{0, 0, 0}, {1, -2, 3}, {-1000000, 999999, 42}} {
		a := Hash3(0xF00D, c[0], c[1], c[2])
		b := Hash3(0xF00D, c[0], c[1], c[2])
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Fatalf("hash not deterministic at %v: %v vs %v", c, a, b)
		}
		if a < -1 || a >= 1 {
			t.Fatalf("hash out of range at %v: %v", c, a)
		}
	}
}

func TestHashLattice_AxesDistinct(t *testing.T) {
	if Hash2(7, 3, 5) == Hash2(7, 5, 3) {
		t.Fatalf("swapped axes should hash differently")
	}
	if Hash3(7, 1, 0, 0) == Hash3(7, 0, 1, 0) || Hash3(7, 0, 1, 0) == Hash3(7, 0, 0, 1) {
		t.Fatalf("unit steps along different axes should hash differently")
	}
}

func TestHashLattice_Avalanche(t *testing.T) {
	total := 0
	n := 0
	for x := int64(-500); x < 500; x++ {
		for bit := 0; bit < 20; bit++ {
			c := [3]int64{x, 17, -3}
			d := c
			d[bit%3] ^= 1 << (bit / 3)
			total += bits.OnesCount64(hashLattice(99, 3, c) ^ hashLattice(99, 3, d))
			n++
		}
	}
	avg := float64(total) / float64(n)
	if avg < 30 || avg > 34 {
		t.Fatalf("average flipped bits=%.2f want about 32", avg)
	}
}

func TestHash1_NoAxisPeriodicity(t *testing.T) {
	// Buckets along a long axis run should be roughly uniform.
	var buckets [16]int
	const n = 160000
	for x := int64(-n / 2); x < n/2; x++ {
		v := Hash1(1, x*61)
		buckets[int((v+1)*8)]++
	}
	for i, c := range buckets {
		if c < n/16*9/10 || c > n/16*11/10 {
			t.Fatalf("bucket %d has %d samples; distribution skewed", i, c)
		}
	}
}

func TestSphere_UnitVectors(t *testing.T) {
	var mean [3]float64
	for i, p := range sphere {
		l := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
		if math.Abs(l-1) > 1e-12 {
			t.Fatalf("sphere[%d] has length %v", i, l)
		}
		for a := range mean {
			mean[a] += p[a] / sphereSize
		}
	}
	for a, m := range mean {
		if math.Abs(m) > 0.05 {
			t.Fatalf("sphere table biased along axis %d: mean=%v", a, m)
		}
	}
}

func TestGradient2_UnitLength(t *testing.T) {
	for x := int64(-20); x < 20; x++ {
		g := gradient(5, 2, [3]int64{x, x * 3})
		if l := math.Hypot(g[0], g[1]); math.Abs(l-1) > 1e-12 {
			t.Fatalf("gradient at x=%d has length %v", x, l)
		}
	}
}
