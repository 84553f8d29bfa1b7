package noise

const (
	DefaultOctaves    = 4
	DefaultFalloff    = 0.5
	DefaultLacunarity = 2.0

	// octaveShift is added after each frequency step so successive octave
	// lattices do not line up.
	octaveShift = 131.2322
)

// Config is the full set of knobs a noise evaluation reads.
//
// Falloff and Lacunarity are not validated: negative or >1 falloff and
// lacunarity <= 1 are passed through and may produce degenerate fields.
type Config struct {
	Seed       int64   `json:"seed" yaml:"seed"`
	Octaves    int     `json:"octaves" yaml:"octaves"`
	Falloff    float64 `json:"falloff" yaml:"falloff"`
	Lacunarity float64 `json:"lacunarity" yaml:"lacunarity"`
	Gradient   bool    `json:"gradient" yaml:"gradient"`
}

func DefaultConfig() Config {
	return Config{
		Octaves:    DefaultOctaves,
		Falloff:    DefaultFalloff,
		Lacunarity: DefaultLacunarity,
		Gradient:   true,
	}
}

// Normalize clamps Octaves to at least 1. Nothing else is adjusted.
func (c *Config) Normalize() {
	c.Octaves = clampOctaves(c.Octaves)
}

func (c Config) Kind() Kind {
	if c.Gradient {
		return Gradient
	}
	return Value
}

func clampOctaves(n int) int {
	return max(1, n)
}

// DetailOption adjusts the optional parts of a Detail call.
type DetailOption func(*Config)

func WithFalloff(f float64) DetailOption {
	return func(c *Config) { c.Falloff = f }
}

func WithLacunarity(l float64) DetailOption {
	return func(c *Config) { c.Lacunarity = l }
}

func WithGradient(on bool) DetailOption {
	return func(c *Config) { c.Gradient = on }
}
