package noise

import (
	"math"
	"sync"
)

type boundKey struct {
	octaves int
	falloff uint64 // math.Float64bits, so NaN falloffs still key consistently
}

// boundingCache memoises 1/(1+Σ falloff^i) per (octaves, falloff).
type boundingCache struct {
	mu sync.Mutex
	m  map[boundKey]float64
}

func newBoundingCache() *boundingCache {
	return &boundingCache{m: make(map[boundKey]float64, 4)}
}

func (b *boundingCache) get(octaves int, falloff float64) float64 {
	k := boundKey{octaves: octaves, falloff: math.Float64bits(falloff)}
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.m[k]; ok {
		return v
	}
	v := fractalBounding(octaves, falloff)
	b.m[k] = v
	return v
}

func (b *boundingCache) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.m)
}

func fractalBounding(octaves int, falloff float64) float64 {
	amp := 1.0
	sum := 1.0
	for i := 1; i < octaves; i++ {
		amp *= falloff
		sum += amp
	}
	return 1 / sum
}

// settings is an immutable snapshot of a Config plus its bounding factor.
// Every evaluation runs against one of these, never against live state.
type settings struct {
	seed       int64
	kind       Kind
	octaves    int
	falloff    float64
	lacunarity float64
	bounding   float64
}

// fractal sums s.octaves octaves at p and returns the bounded result.
func (s *settings) fractal(dim int, p [3]float64) float64 {
	sum := 0.0
	amp := 1.0
	for i := 0; i < s.octaves; i++ {
		sum += amp * octave(s.seed, s.kind, dim, p)
		for a := 0; a < dim; a++ {
			p[a] = p[a]*s.lacunarity + octaveShift
		}
		amp *= s.falloff
	}
	return sum * s.bounding
}
