package noise

import "sync"

// Generator owns one noise configuration and its bounding-factor cache.
//
// Configuration changes and evaluations may run from different goroutines:
// each evaluation snapshots the configuration first, so a concurrent SetSeed or
// Detail only affects calls that start after it.
type Generator struct {
	mu     sync.RWMutex
	cfg    Config
	bounds *boundingCache
}

func New(cfg Config) *Generator {
	cfg.Normalize()
	return &Generator{cfg: cfg, bounds: newBoundingCache()}
}

// Config returns a copy of the current configuration.
func (g *Generator) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// Configure replaces the whole configuration (octaves clamped).
func (g *Generator) Configure(cfg Config) {
	cfg.Normalize()
	g.mu.Lock()
	g.cfg = cfg
	g.mu.Unlock()
}

func (g *Generator) SetSeed(seed int64) {
	g.mu.Lock()
	g.cfg.Seed = seed
	g.mu.Unlock()
}

// Detail sets the octave count (clamped to >= 1) and resets falloff,
// lacunarity and the gradient switch to their defaults unless overridden.
func (g *Generator) Detail(octaves int, opts ...DetailOption) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg.Octaves = octaves
	g.cfg.Falloff = DefaultFalloff
	g.cfg.Lacunarity = DefaultLacunarity
	g.cfg.Gradient = true
	for _, o := range opts {
		o(&g.cfg)
	}
	g.cfg.Normalize()
}

func (g *Generator) snapshot() settings {
	g.mu.RLock()
	cfg := g.cfg
	g.mu.RUnlock()
	return settings{
		seed:       cfg.Seed,
		kind:       cfg.Kind(),
		octaves:    cfg.Octaves,
		falloff:    cfg.Falloff,
		lacunarity: cfg.Lacunarity,
		bounding:   g.bounds.get(cfg.Octaves, cfg.Falloff),
	}
}

// Raw evaluates fractal noise in its internal [-1,1] range. Up to three
// coordinates are used; with none it samples x=0.
func (g *Generator) Raw(coords ...float64) float64 {
	s := g.snapshot()
	dim, p := pack(coords)
	return s.fractal(dim, p)
}

// Noise evaluates fractal noise remapped to [0,1]. Coordinates past the third
// are ignored.
func (g *Generator) Noise(x float64, more ...float64) float64 {
	s := g.snapshot()
	dim, p := pack(append([]float64{x}, more...))
	return remap(s.fractal(dim, p))
}

// NoiseSlice evaluates one point per index across up to three coordinate
// axes. Axes of length 1 are broadcast; any other length mismatch is a
// *ShapeError.
func (g *Generator) NoiseSlice(axes ...[]float64) ([]float64, error) {
	if len(axes) > 3 {
		axes = axes[:3]
	}
	n, err := broadcastLen("NoiseSlice", axes)
	if err != nil {
		return nil, err
	}
	s := g.snapshot()
	dim := max(1, len(axes))
	out := make([]float64, n)
	for i := range out {
		var p [3]float64
		for a, ax := range axes {
			if len(ax) == 1 {
				p[a] = ax[0]
			} else {
				p[a] = ax[i]
			}
		}
		out[i] = remap(s.fractal(dim, p))
	}
	return out, nil
}

func pack(coords []float64) (int, [3]float64) {
	var p [3]float64
	dim := min(len(coords), 3)
	copy(p[:], coords[:dim])
	return max(1, dim), p
}

func broadcastLen(op string, axes [][]float64) (int, error) {
	if len(axes) == 0 {
		return 0, nil
	}
	lens := make([]int, len(axes))
	for i, ax := range axes {
		lens[i] = len(ax)
	}
	n := 1
	for _, l := range lens {
		if l == 1 {
			continue
		}
		if n == 1 {
			n = l
		} else if l != n {
			return 0, &ShapeError{Op: op, Lengths: lens}
		}
	}
	return n, nil
}

func remap(v float64) float64 {
	return v*0.5 + 0.5
}
