package noise

import "math"

// Per-axis odd multipliers. Distinct constants keep (a,b) and (b,a) apart.
var axisMul = [3]uint64{
	0x9e3779b97f4a7c15,
	0xc2b2ae3d27d4eb4f,
	0xbf58476d1ce4e5b9,
}

const unit53 = 1.0 / (1 << 53)

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// hashLattice folds dim lattice coordinates into a seeded state and mixes it.
func hashLattice(seed int64, dim int, c [3]int64) uint64 {
	v := uint64(seed)
	for a := 0; a < dim; a++ {
		v ^= uint64(c[a]) * axisMul[a]
	}
	return mix64(v)
}

// unitFloat maps the top 53 bits of h to [0,1).
func unitFloat(h uint64) float64 {
	return float64(h>>11) * unit53
}

func signedUnit(h uint64) float64 {
	return unitFloat(h)*2 - 1
}

// Hash1 returns the lattice value at x in [-1,1).
func Hash1(seed, x int64) float64 {
	return signedUnit(hashLattice(seed, 1, [3]int64{x}))
}

// Hash2 returns the lattice value at (x,y) in [-1,1).
func Hash2(seed, x, y int64) float64 {
	return signedUnit(hashLattice(seed, 2, [3]int64{x, y}))
}

// Hash3 returns the lattice value at (x,y,z) in [-1,1).
func Hash3(seed, x, y, z int64) float64 {
	return signedUnit(hashLattice(seed, 3, [3]int64{x, y, z}))
}

const sphereSize = 256

// sphere holds quasi-uniform unit vectors (Fibonacci lattice), shuffled once
// with a fixed stream so neighbouring table slots are not neighbours on the sphere.
var sphere = buildSphere()

func buildSphere() [sphereSize][3]float64 {
	var pts [sphereSize][3]float64
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range pts {
		y := 1 - (float64(i)+0.5)*2/sphereSize
		r := math.Sqrt(1 - y*y)
		s, c := math.Sincos(golden * float64(i))
		pts[i] = [3]float64{c * r, y, s * r}
	}
	state := uint64(0x5eed5eed5eed5eed)
	for i := sphereSize - 1; i > 0; i-- {
		state += 0x9e3779b97f4a7c15
		j := int(mix64(state) % uint64(i+1))
		pts[i], pts[j] = pts[j], pts[i]
	}
	return pts
}

// gradient returns the pseudo-random unit gradient for a lattice corner.
// Only the first dim components are meaningful.
func gradient(seed int64, dim int, c [3]int64) [3]float64 {
	h := hashLattice(seed, dim, c)
	switch dim {
	case 1:
		if h>>63 == 0 {
			return [3]float64{1}
		}
		return [3]float64{-1}
	case 2:
		s, co := math.Sincos(2 * math.Pi * unitFloat(h))
		return [3]float64{co, s}
	default:
		return sphere[h%sphereSize]
	}
}
