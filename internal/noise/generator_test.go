package noise

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"
)

func TestDetail_ClampsOctaves(t *testing.T) {
	g := New(DefaultConfig())
	for _, n := range []int{0, -3} {
		g.Detail(n)
		if got := g.Config().Octaves; got != 1 {
			t.Fatalf("Detail(%d) octaves=%d want 1", n, got)
		}
	}
	if got := New(Config{}).Config().Octaves; got != 1 {
		t.Fatalf("New with zero octaves=%d want 1", got)
	}
}

func TestDetail_DefaultsAndOptions(t *testing.T) {
	g := New(Config{Seed: 4, Octaves: 2, Falloff: 0.9, Lacunarity: 3, Gradient: false})
	g.Detail(6)
	cfg := g.Config()
	if cfg.Seed != 4 || cfg.Octaves != 6 || cfg.Falloff != DefaultFalloff || cfg.Lacunarity != DefaultLacunarity || !cfg.Gradient {
		t.Fatalf("Detail defaults: %+v", cfg)
	}
	g.Detail(3, WithFalloff(-1.5), WithLacunarity(0.5), WithGradient(false))
	cfg = g.Config()
	if cfg.Falloff != -1.5 || cfg.Lacunarity != 0.5 || cfg.Gradient {
		t.Fatalf("Detail options not applied verbatim: %+v", cfg)
	}
	// Degenerate settings are not corrected, but must still evaluate.
	if v := g.Raw(0.25, 0.5); math.IsNaN(v) {
		t.Fatalf("degenerate settings produced NaN")
	}
}

func TestNoise_UnitRange(t *testing.T) {
	g := New(Config{Seed: 10, Octaves: 4, Falloff: 0.5, Lacunarity: 2, Gradient: true})
	for i := 0; i < 300; i++ {
		x := float64(i)*0.0917 - 12
		for _, v := range []float64{g.Noise(x), g.Noise(x, x*0.3), g.Noise(x, 1.1, -x)} {
			if v < 0 || v > 1 {
				t.Fatalf("Noise out of [0,1] at x=%v: %v", x, v)
			}
		}
	}
}

func TestNoise_ExtraCoordinatesIgnored(t *testing.T) {
	g := New(DefaultConfig())
	if g.Noise(0.2, 0.4, 0.6, 99) != g.Noise(0.2, 0.4, 0.6) {
		t.Fatalf("fourth coordinate changed the result")
	}
}

func TestSeedSensitivity(t *testing.T) {
	a := New(Config{Seed: 1, Octaves: 4, Falloff: 0.5, Lacunarity: 2, Gradient: true})
	b := New(Config{Seed: 2, Octaves: 4, Falloff: 0.5, Lacunarity: 2, Gradient: true})
	collisions := 0
	for i := 0; i < 1000; i++ {
		x := float64(i)*0.37 + 0.13
		y := float64(i%37)*0.71 + 0.29
		if a.Noise(x, y) == b.Noise(x, y) {
			collisions++
		}
	}
	if collisions > 1 {
		t.Fatalf("seeds 1 and 2 collide at %d of 1000 points", collisions)
	}
}

func TestNoiseSlice_BroadcastAndShape(t *testing.T) {
	g := New(DefaultConfig())
	xs := []float64{0.1, 0.7, 1.9, 2.4}
	out, err := g.NoiseSlice(xs, []float64{0.5})
	if err != nil {
		t.Fatalf("NoiseSlice: %v", err)
	}
	for i, x := range xs {
		if out[i] != g.Noise(x, 0.5) {
			t.Fatalf("slice[%d]=%v want %v", i, out[i], g.Noise(x, 0.5))
		}
	}

	_, err = g.NoiseSlice(xs, []float64{1, 2, 3})
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ShapeError, got %v", err)
	}
	if len(se.Lengths) != 2 || se.Lengths[0] != 4 || se.Lengths[1] != 3 {
		t.Fatalf("ShapeError lengths=%v", se.Lengths)
	}

	out, err = g.NoiseSlice()
	if err != nil || len(out) != 0 {
		t.Fatalf("no axes: out=%v err=%v", out, err)
	}
}

func TestPackageLevelAPI(t *testing.T) {
	prev := Default().Config()
	defer Default().Configure(prev)

	SetSeed(0xF00D)
	Detail(4, WithFalloff(0.5), WithGradient(true))
	xs := Linspace(0, 10, 12)
	ys := Linspace(0, 10, 9)
	f, err := NoiseGrid(xs, ys)
	if err != nil {
		t.Fatalf("NoiseGrid: %v", err)
	}
	if f.At(3, 4) != Noise(xs[3], ys[4]) {
		t.Fatalf("package grid/scalar mismatch")
	}
	s, err := NoiseGridSlice(xs, ys, 2)
	if err != nil {
		t.Fatalf("NoiseGridSlice: %v", err)
	}
	if s.At(5, 1) != Noise(xs[5], ys[1], 2) {
		t.Fatalf("package slice/scalar mismatch")
	}
	v, err := NoiseSlice([]float64{xs[2]}, []float64{ys[7]})
	if err != nil || v[0] != f.At(2, 7) {
		t.Fatalf("NoiseSlice=%v err=%v want %v", v, err, f.At(2, 7))
	}
	if _, err := NoiseGridVolume(xs, ys, make([]float64, 3)); err == nil {
		t.Fatalf("expected shape error from NoiseGridVolume")
	}
}

func fieldDigest(f Field) [32]byte {
	buf := make([]byte, 8*len(f.Values))
	for i, v := range f.Values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return sha256.Sum256(buf)
}

func TestScenario_F00DGridReproducible(t *testing.T) {
	render := func() Field {
		g := New(DefaultConfig())
		g.SetSeed(0xF00D)
		g.Detail(4, WithFalloff(0.5), WithGradient(true))
		f, err := g.Grid(Linspace(0, 10, 100), Linspace(0, 10, 100))
		if err != nil {
			t.Fatalf("Grid: %v", err)
		}
		return f
	}
	a, b := render(), render()
	if a.W != 100 || a.H != 100 {
		t.Fatalf("shape %dx%d", a.H, a.W)
	}
	if fieldDigest(a) != fieldDigest(b) {
		t.Fatalf("same seed and detail produced different fields")
	}
}

func TestGenerator_ConcurrentConfigureAndEvaluate(t *testing.T) {
	g := New(DefaultConfig())
	xs := Linspace(0, 4, 16)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			g.SetSeed(int64(i))
			g.Detail(1 + i%6)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			f, err := g.Grid(xs, xs)
			if err != nil {
				t.Errorf("Grid: %v", err)
				return
			}
			for _, v := range f.Values {
				if v < 0 || v > 1 {
					t.Errorf("value %v outside [0,1]", v)
					return
				}
			}
		}
	}()
	wg.Wait()
}
