package noise

import "math"

// Kind selects how lattice corners contribute to a single octave.
type Kind uint8

const (
	// Value interpolates per-corner hash values.
	Value Kind = iota
	// Gradient interpolates dot products of per-corner unit gradients with the
	// offset from that corner (Perlin style).
	Gradient
)

func (k Kind) String() string {
	switch k {
	case Value:
		return "value"
	case Gradient:
		return "gradient"
	default:
		return "unknown"
	}
}

// Scales that bring the practical gradient noise range to about [-1,1].
// Index is the dimension count.
var gradientScale = [4]float64{
	0,
	2,
	math.Sqrt2,
	math.Sqrt(4.0 / 3.0),
}

// octave evaluates one octave of noise at unit frequency. p holds dim coordinates.
func octave(seed int64, kind Kind, dim int, p [3]float64) float64 {
	var (
		base [3]int64
		frac [3]float64
		w    [3]float64
	)
	for a := 0; a < dim; a++ {
		f := math.Floor(p[a])
		base[a] = int64(f)
		frac[a] = p[a] - f
		w[a] = Fade(frac[a])
	}

	var v [8]float64
	for corner := 0; corner < 1<<dim; corner++ {
		c := base
		var off [3]float64
		for a := 0; a < dim; a++ {
			bit := int64(corner>>a) & 1
			c[a] += bit
			off[a] = frac[a] - float64(bit)
		}
		if kind == Value {
			v[corner] = signedUnit(hashLattice(seed, dim, c))
			continue
		}
		g := gradient(seed, dim, c)
		d := 0.0
		for a := 0; a < dim; a++ {
			d += g[a] * off[a]
		}
		v[corner] = d
	}

	out := reduceCorners(&v, dim, w)
	if kind == Gradient {
		out *= gradientScale[dim]
	}
	return out
}

// ValueNoise1 is single-octave value noise in [-1,1].
func ValueNoise1(seed int64, x float64) float64 {
	return octave(seed, Value, 1, [3]float64{x})
}

func ValueNoise2(seed int64, x, y float64) float64 {
	return octave(seed, Value, 2, [3]float64{x, y})
}

func ValueNoise3(seed int64, x, y, z float64) float64 {
	return octave(seed, Value, 3, [3]float64{x, y, z})
}

// GradientNoise1 is single-octave gradient noise, approximately in [-1,1] and
// exactly 0 at integer coordinates.
func GradientNoise1(seed int64, x float64) float64 {
	return octave(seed, Gradient, 1, [3]float64{x})
}

func GradientNoise2(seed int64, x, y float64) float64 {
	return octave(seed, Gradient, 2, [3]float64{x, y})
}

func GradientNoise3(seed int64, x, y, z float64) float64 {
	return octave(seed, Gradient, 3, [3]float64{x, y, z})
}
