package frames

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"sketchnoise/internal/noise"
	"sketchnoise/internal/tuning"
)

// Frame is one rendered field of a job.
type Frame struct {
	Index  int
	Z      *float64 // nil for 2D jobs
	Field  noise.Field
	Digest string
	Stats  Stats

	// Elapsed covers evaluation, digest and stats.
	Elapsed time.Duration
}

type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// LogEntry is the per-frame record written to the frame log and index.
type LogEntry struct {
	Job        string   `json:"job"`
	Frame      int      `json:"frame"`
	Z          *float64 `json:"z,omitempty"`
	W          int      `json:"w"`
	H          int      `json:"h"`
	Seed       int64    `json:"seed"`
	Octaves    int      `json:"octaves"`
	Falloff    float64  `json:"falloff"`
	Lacunarity float64  `json:"lacunarity"`
	Gradient   bool     `json:"gradient"`
	Digest     string   `json:"digest"`
	Stats      Stats    `json:"stats"`
	ElapsedMs  int64    `json:"elapsed_ms"`
}

// Sink receives every frame in order. A sink error stops the run.
type Sink interface {
	WriteFrame(job tuning.Job, fr Frame) error
}

type SinkFunc func(job tuning.Job, fr Frame) error

func (f SinkFunc) WriteFrame(job tuning.Job, fr Frame) error { return f(job, fr) }

// Summary is what a finished run reports.
type Summary struct {
	Frames  int
	Digests []string
	Elapsed time.Duration
}

// Run configures a fresh generator from the job and renders every frame.
// ctx is checked between frames.
func Run(ctx context.Context, job tuning.Job, sinks ...Sink) (Summary, error) {
	start := time.Now()
	gen := noise.New(job.Noise)
	xs := job.Grid.X.Samples()
	ys := job.Grid.Y.Samples()

	sum := Summary{Digests: make([]string, 0, job.Animation.Frames)}
	for k := 0; k < job.Animation.Frames; k++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		fr, err := Render(gen, job, xs, ys, k)
		if err != nil {
			return sum, fmt.Errorf("frame %d: %w", k, err)
		}
		for _, s := range sinks {
			if err := s.WriteFrame(job, fr); err != nil {
				return sum, fmt.Errorf("frame %d: %w", k, err)
			}
		}
		sum.Frames++
		sum.Digests = append(sum.Digests, fr.Digest)
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}

// Render evaluates frame k of job on gen.
func Render(gen *noise.Generator, job tuning.Job, xs, ys []float64, k int) (Frame, error) {
	start := time.Now()
	fr := Frame{Index: k}
	var err error
	if job.Is3D() {
		z := job.FrameZ(k)
		fr.Z = &z
		fr.Field, err = gen.GridSlice(xs, ys, z)
	} else {
		fr.Field, err = gen.Grid(xs, ys)
	}
	if err != nil {
		return Frame{}, err
	}
	fr.Digest = Digest(fr.Field)
	fr.Stats = Summarize(fr.Field)
	fr.Elapsed = time.Since(start)
	return fr, nil
}

// Digest hashes the field's float64 bit patterns (little endian, row-major).
// Two fields share a digest only if they are bit-identical.
func Digest(f noise.Field) string {
	h := sha256.New()
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[0:], uint64(f.W))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(f.H))
	h.Write(hdr[:])
	buf := make([]byte, 8*1024)
	n := 0
	for _, v := range f.Values {
		binary.LittleEndian.PutUint64(buf[n:], math.Float64bits(v))
		n += 8
		if n == len(buf) {
			h.Write(buf)
			n = 0
		}
	}
	h.Write(buf[:n])
	return hex.EncodeToString(h.Sum(nil))
}

func Summarize(f noise.Field) Stats {
	if len(f.Values) == 0 {
		return Stats{}
	}
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	total := 0.0
	for _, v := range f.Values {
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
		total += v
	}
	st.Mean = total / float64(len(f.Values))
	return st
}

// Entry builds the log record for a rendered frame.
func Entry(job tuning.Job, fr Frame) LogEntry {
	return LogEntry{
		Job:        job.Name,
		Frame:      fr.Index,
		Z:          fr.Z,
		W:          fr.Field.W,
		H:          fr.Field.H,
		Seed:       job.Noise.Seed,
		Octaves:    job.Noise.Octaves,
		Falloff:    job.Noise.Falloff,
		Lacunarity: job.Noise.Lacunarity,
		Gradient:   job.Noise.Gradient,
		Digest:     fr.Digest,
		Stats:      fr.Stats,
		ElapsedMs:  fr.Elapsed.Milliseconds(),
	}
}
