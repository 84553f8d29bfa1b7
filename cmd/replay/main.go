package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sketchnoise/internal/frames"
	"sketchnoise/internal/noise"
	"sketchnoise/internal/persistence/fieldsnap"
	"sketchnoise/internal/persistence/indexdb"
)

func main() {
	var (
		snapPath  = flag.String("snapshot", "", "path to a .field.zst (or a directory of them)")
		indexPath = flag.String("index", "", "render index to cross-check digests against (optional)")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	files, err := listSnapshots(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list snapshots:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no field snapshots found in", *snapPath)
		os.Exit(1)
	}

	var idx *indexdb.SQLiteIndex
	if *indexPath != "" {
		idx, err = indexdb.OpenSQLite(*indexPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open index:", err)
			os.Exit(1)
		}
		defer idx.Close()
	}

	for _, path := range files {
		if err := verify(context.Background(), path, idx); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("replay ok: checked=%d fields\n", len(files))
}

func listSnapshots(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{path}, nil
	}
	ents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".field.zst") {
			out = append(out, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// verify re-renders the snapshot from its recorded settings and compares
// digests: stored values, recomputed values and (optionally) the index.
func verify(ctx context.Context, path string, idx *indexdb.SQLiteIndex) error {
	snap, err := fieldsnap.ReadSnapshot(path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	name := filepath.Base(path)

	if got := frames.Digest(snap.Field()); got != snap.Header.Digest {
		return fmt.Errorf("%s: stored values digest=%s header=%s", name, got, snap.Header.Digest)
	}

	gen := noise.New(snap.Noise)
	xs := snap.X.Samples()
	ys := snap.Y.Samples()
	var f noise.Field
	if z := snap.ZPlane(); z != nil {
		f, err = gen.GridSlice(xs, ys, *z)
	} else {
		f, err = gen.Grid(xs, ys)
	}
	if err != nil {
		return fmt.Errorf("%s: render: %w", name, err)
	}
	if got := frames.Digest(f); got != snap.Header.Digest {
		return fmt.Errorf("%s: digest mismatch: got=%s want=%s", name, got, snap.Header.Digest)
	}

	if idx != nil {
		row, ok, err := idx.LookupFrame(ctx, snap.Header.Job, snap.Header.Frame)
		if err != nil {
			return fmt.Errorf("%s: index: %w", name, err)
		}
		if ok && row.Digest != snap.Header.Digest {
			return fmt.Errorf("%s: index digest=%s snapshot=%s", name, row.Digest, snap.Header.Digest)
		}
	}

	fmt.Printf("%s job=%s frame=%d %dx%d seed=%d octaves=%d digest=%s ok\n",
		name, snap.Header.Job, snap.Header.Frame, snap.Header.W, snap.Header.H,
		snap.Noise.Seed, snap.Noise.Octaves, snap.Header.Digest[:16])
	return nil
}
