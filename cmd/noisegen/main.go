package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"sketchnoise/internal/frames"
	"sketchnoise/internal/persistence/fieldsnap"
	persistlog "sketchnoise/internal/persistence/log"
	"sketchnoise/internal/tuning"
)

func main() {
	var (
		jobPath   = flag.String("job", "./configs/noise.yaml", "render job (yaml)")
		dataDir   = flag.String("data", "./data", "runtime data directory (frame log + index)")
		outDir    = flag.String("out", "", "snapshot directory (default: job output.dir)")
		seed      = flag.Int64("seed", 0, "override noise seed (0 keeps the job value)")
		octaves   = flag.Int("octaves", 0, "override octave count (0 keeps the job value)")
		frameN    = flag.Int("frames", 0, "override frame count (0 keeps the job value)")
		disableDB = flag.Bool("disable_db", false, "disable the sqlite render index")
		noLog     = flag.Bool("disable_log", false, "disable the compressed frame log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[noisegen] ", log.LstdFlags|log.Lmicroseconds)

	job, err := tuning.Load(*jobPath)
	if err != nil {
		logger.Fatalf("load job: %v", err)
	}
	if *seed != 0 {
		job.Noise.Seed = *seed
	}
	if *octaves != 0 {
		job.Noise.Octaves = *octaves
	}
	if *frameN != 0 {
		job.Animation.Frames = *frameN
	}
	if d := strings.TrimSpace(*outDir); d != "" {
		job.Output.Dir = d
	}
	job.Normalize()
	if err := job.Validate(); err != nil {
		logger.Fatalf("job: %v", err)
	}

	idx, err := openIndex(*dataDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertJob(job); err != nil {
			logger.Printf("index: upsert job: %v", err)
		}
	}

	snaps := &fieldsnap.Writer{Dir: job.Output.Dir}
	sinks := []frames.Sink{snaps}
	if idx != nil {
		snaps.OnWrite = idx.RecordSnapshot
		sinks = append(sinks, idx)
	}
	if !*noLog {
		fl := persistlog.NewFrameLogger(*dataDir)
		defer fl.Close()
		sinks = append(sinks, fl)
	}
	sinks = append(sinks, frames.SinkFunc(func(_ tuning.Job, fr frames.Frame) error {
		z := "-"
		if fr.Z != nil {
			z = formatFloat(*fr.Z)
		}
		logger.Printf("frame=%d z=%s %dx%d min=%.4f max=%.4f mean=%.4f digest=%s (%s)",
			fr.Index, z, fr.Field.W, fr.Field.H, fr.Stats.Min, fr.Stats.Max, fr.Stats.Mean, fr.Digest[:16], fr.Elapsed)
		return nil
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Printf("job=%s seed=%d octaves=%d falloff=%g lacunarity=%g kind=%s frames=%d out=%s",
		job.Name, job.Noise.Seed, job.Noise.Octaves, job.Noise.Falloff, job.Noise.Lacunarity,
		job.Noise.Kind(), job.Animation.Frames, filepath.Clean(job.Output.Dir))

	sum, err := frames.Run(ctx, job, sinks...)
	if err != nil {
		logger.Printf("render stopped after %d frames: %v", sum.Frames, err)
		return
	}
	logger.Printf("done: frames=%d elapsed=%s", sum.Frames, sum.Elapsed)
}
