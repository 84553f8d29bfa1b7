package noise

// std backs the package-level sketch API. It is safe for concurrent use, but
// sketches normally drive it from one animation loop.
var std = New(DefaultConfig())

// Default returns the generator behind the package-level functions.
func Default() *Generator { return std }

// SetSeed reseeds the default generator.
func SetSeed(seed int64) { std.SetSeed(seed) }

// Detail sets octave count and optional falloff, lacunarity and gradient switch
// on the default generator. Octaves below 1 are clamped to 1.
func Detail(octaves int, opts ...DetailOption) { std.Detail(octaves, opts...) }

// Noise returns fractal noise in [0,1] at 1 to 3 coordinates.
func Noise(x float64, more ...float64) float64 { return std.Noise(x, more...) }

func NoiseSlice(axes ...[]float64) ([]float64, error) { return std.NoiseSlice(axes...) }

// NoiseGrid returns a len(ys)×len(xs) field of 2D noise in [0,1].
func NoiseGrid(xs, ys []float64) (Field, error) { return std.Grid(xs, ys) }

func NoiseGridSlice(xs, ys []float64, z float64) (Field, error) { return std.GridSlice(xs, ys, z) }

func NoiseGridVolume(xs, ys, zs []float64) (Field, error) { return std.GridVolume(xs, ys, zs) }
