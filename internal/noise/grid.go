package noise

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Field is a row-major H×W block of noise values: Values[j*W+i] belongs to
// (xs[i], ys[j]).
type Field struct {
	W, H   int
	Values []float64
}

func (f Field) At(i, j int) float64 { return f.Values[j*f.W+i] }

// Row returns row j without copying.
func (f Field) Row(j int) []float64 { return f.Values[j*f.W : (j+1)*f.W] }

// Linspace returns n evenly spaced samples over [start, stop], endpoint included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// zPlane describes the third coordinate of a grid evaluation.
type zPlane struct {
	dim   int       // 2 or 3
	z     float64   // broadcast value when nodes is nil
	nodes []float64 // per-node z, row-major like Field.Values
}

func (zp zPlane) at(idx int) float64 {
	if zp.nodes != nil {
		return zp.nodes[idx]
	}
	return zp.z
}

// Grid evaluates 2D fractal noise (remapped to [0,1]) over the mesh xs × ys.
func (g *Generator) Grid(xs, ys []float64) (Field, error) {
	return g.grid(xs, ys, zPlane{dim: 2})
}

// GridSlice evaluates 3D fractal noise over xs × ys at a single z.
func (g *Generator) GridSlice(xs, ys []float64, z float64) (Field, error) {
	return g.grid(xs, ys, zPlane{dim: 3, z: z})
}

// GridVolume evaluates 3D fractal noise over xs × ys with one z per node.
// zs must hold len(xs)*len(ys) values in row-major order.
func (g *Generator) GridVolume(xs, ys, zs []float64) (Field, error) {
	if len(zs) != len(xs)*len(ys) {
		return Field{}, &ShapeError{Op: "GridVolume", Lengths: []int{len(xs), len(ys), len(zs)}}
	}
	return g.grid(xs, ys, zPlane{dim: 3, nodes: zs})
}

// grid fans rows out over GOMAXPROCS workers. Each node goes through the same
// settings.fractal path as a scalar call, so results match Noise bit for bit.
func (g *Generator) grid(xs, ys []float64, zp zPlane) (Field, error) {
	s := g.snapshot()
	w, h := len(xs), len(ys)
	f := Field{W: w, H: h, Values: make([]float64, w*h)}
	if w == 0 || h == 0 {
		return f, nil
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for j := 0; j < h; j++ {
		j := j
		eg.Go(func() error {
			row := f.Values[j*w : (j+1)*w]
			for i := range row {
				p := [3]float64{xs[i], ys[j], zp.at(j*w + i)}
				row[i] = remap(s.fractal(zp.dim, p))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Field{}, err
	}
	return f, nil
}
