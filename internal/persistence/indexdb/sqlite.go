package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"sketchnoise/internal/frames"
	"sketchnoise/internal/persistence/fieldsnap"
	"sketchnoise/internal/tuning"
)

// SQLiteIndex is a secondary read model of rendered jobs and frames.
// Writes are queued to a single goroutine; field snapshots and the frame log
// stay the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
}

type reqKind int

const (
	reqFrame reqKind = iota + 1
	reqSnapshot
)

type req struct {
	kind reqKind

	frame    frames.LogEntry
	snapshot snapshotRow
}

type snapshotRow struct {
	Job    string
	Frame  int
	Path   string
	Digest string
}

// FrameRow is one indexed frame.
type FrameRow struct {
	Job          string
	Frame        int
	Digest       string
	SnapshotPath string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS jobs (
			name TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			octaves INTEGER NOT NULL,
			falloff REAL NOT NULL,
			lacunarity REAL NOT NULL,
			gradient INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			job_json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS frames (
			job TEXT NOT NULL,
			frame INTEGER NOT NULL,
			z REAL,
			digest TEXT NOT NULL,
			min REAL NOT NULL,
			max REAL NOT NULL,
			mean REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			snapshot_path TEXT,
			PRIMARY KEY (job, frame)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_frames_digest ON frames(digest);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Dropped reports rows skipped because the writer queue was full.
func (s *SQLiteIndex) Dropped() uint64 { return s.dropped.Load() }

func (s *SQLiteIndex) enqueue(r req) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

// WriteFrame queues the frame row. It never blocks the render loop.
func (s *SQLiteIndex) WriteFrame(job tuning.Job, fr frames.Frame) error {
	s.enqueue(req{kind: reqFrame, frame: frames.Entry(job, fr)})
	return nil
}

// RecordSnapshot attaches a snapshot path to an indexed frame.
func (s *SQLiteIndex) RecordSnapshot(path string, snap fieldsnap.FieldV1) {
	s.enqueue(req{kind: reqSnapshot, snapshot: snapshotRow{
		Job:    snap.Header.Job,
		Frame:  snap.Header.Frame,
		Path:   path,
		Digest: snap.Header.Digest,
	}})
}

// UpsertJob stores the job definition synchronously.
func (s *SQLiteIndex) UpsertJob(job tuning.Job) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO jobs(name,seed,octaves,falloff,lacunarity,gradient,width,height,frames,job_json,updated_at) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		job.Name, job.Noise.Seed, job.Noise.Octaves, job.Noise.Falloff, job.Noise.Lacunarity, boolInt(job.Noise.Gradient),
		job.Grid.X.Count, job.Grid.Y.Count, job.Animation.Frames, string(raw), now,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// LookupFrame returns the indexed row for (job, frame).
func (s *SQLiteIndex) LookupFrame(ctx context.Context, job string, frame int) (FrameRow, bool, error) {
	row := FrameRow{Job: job, Frame: frame}
	var path sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT digest, snapshot_path FROM frames WHERE job=? AND frame=?`, job, frame,
	).Scan(&row.Digest, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return row, false, nil
	}
	if err != nil {
		return row, false, err
	}
	row.SnapshotPath = path.String
	return row, true, nil
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertFrame, _ := s.db.Prepare(`INSERT OR REPLACE INTO frames(job,frame,z,digest,min,max,mean,elapsed_ms,snapshot_path)
		VALUES(?,?,?,?,?,?,?,?,(SELECT snapshot_path FROM frames WHERE job=? AND frame=?))`)
	upsertSnapshot, _ := s.db.Prepare(`INSERT INTO frames(job,frame,digest,min,max,mean,elapsed_ms,snapshot_path)
		VALUES(?,?,?,0,0,0,0,?)
		ON CONFLICT(job,frame) DO UPDATE SET snapshot_path=excluded.snapshot_path`)
	defer func() {
		if insertFrame != nil {
			_ = insertFrame.Close()
		}
		if upsertSnapshot != nil {
			_ = upsertSnapshot.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			s.dropped.Add(1)
			continue
		}
		switch r.kind {
		case reqFrame:
			if insertFrame == nil {
				continue
			}
			e := r.frame
			var z any
			if e.Z != nil {
				z = *e.Z
			}
			if _, err := tx.Stmt(insertFrame).Exec(
				e.Job, e.Frame, z, e.Digest, e.Stats.Min, e.Stats.Max, e.Stats.Mean, e.ElapsedMs,
				e.Job, e.Frame,
			); err != nil {
				s.dropped.Add(1)
				continue
			}
		case reqSnapshot:
			if upsertSnapshot == nil {
				continue
			}
			sr := r.snapshot
			if _, err := tx.Stmt(upsertSnapshot).Exec(sr.Job, sr.Frame, sr.Digest, sr.Path); err != nil {
				s.dropped.Add(1)
				continue
			}
		}
		opCount++
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}
	commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
