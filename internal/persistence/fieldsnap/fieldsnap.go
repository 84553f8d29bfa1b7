package fieldsnap

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"sketchnoise/internal/frames"
	"sketchnoise/internal/noise"
	"sketchnoise/internal/tuning"
)

const Version = 1

// Header is written as a JSON line ahead of the gob body so tools can list
// snapshots without decoding the values.
type Header struct {
	Version int    `json:"version"`
	Job     string `json:"job"`
	Frame   int    `json:"frame"`
	W       int    `json:"w"`
	H       int    `json:"h"`
	Digest  string `json:"digest"`
}

// FieldV1 carries everything needed to re-render a frame and compare.
type FieldV1 struct {
	Header Header `json:"header"`

	Noise noise.Config `json:"noise"`
	X     tuning.Axis  `json:"x"`
	Y     tuning.Axis  `json:"y"`

	// Slice is stored apart from Z: gob drops zero values, so a *float64
	// pointing at 0 would decode as nil.
	Slice bool    `json:"slice"`
	Z     float64 `json:"z"`

	Stats  frames.Stats `json:"stats"`
	Values []float64    `json:"values"`
}

// FromFrame packages a rendered frame of job.
func FromFrame(job tuning.Job, fr frames.Frame) FieldV1 {
	snap := FieldV1{
		Header: Header{
			Version: Version,
			Job:     job.Name,
			Frame:   fr.Index,
			W:       fr.Field.W,
			H:       fr.Field.H,
			Digest:  fr.Digest,
		},
		Noise:  job.Noise,
		X:      job.Grid.X,
		Y:      job.Grid.Y,
		Stats:  fr.Stats,
		Values: fr.Field.Values,
	}
	if fr.Z != nil {
		snap.Slice = true
		snap.Z = *fr.Z
	}
	return snap
}

// ZPlane returns the frame's z plane, or nil for a 2D field.
func (s FieldV1) ZPlane() *float64 {
	if !s.Slice {
		return nil
	}
	z := s.Z
	return &z
}

// Field returns the stored values as a noise.Field.
func (s FieldV1) Field() noise.Field {
	return noise.Field{W: s.Header.W, H: s.Header.H, Values: s.Values}
}

// Path is the conventional file name for a frame under dir.
func Path(dir, prefix string, frame int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%05d.field.zst", prefix, frame))
}

func WriteSnapshot(path string, snap FieldV1) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSnapshot(path string) (FieldV1, error) {
	var snap FieldV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported field snapshot version %d", snap.Header.Version)
	}
	if len(snap.Values) != snap.Header.W*snap.Header.H {
		return snap, fmt.Errorf("field has %d values, header says %dx%d", len(snap.Values), snap.Header.H, snap.Header.W)
	}
	return snap, nil
}

// ReadHeader decodes only the leading JSON line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	return h, nil
}

// Writer is a frames.Sink that stores every frame under Dir.
type Writer struct {
	Dir string
	// OnWrite, if set, is called after each successful write.
	OnWrite func(path string, snap FieldV1)
}

func (w *Writer) WriteFrame(job tuning.Job, fr frames.Frame) error {
	snap := FromFrame(job, fr)
	path := Path(w.Dir, job.Output.Prefix, fr.Index)
	if err := WriteSnapshot(path, snap); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if w.OnWrite != nil {
		w.OnWrite(path, snap)
	}
	return nil
}
