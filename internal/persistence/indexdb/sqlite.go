// Package indexdb keeps a queryable sqlite index of run and wave outcomes,
// used to compare balance across seeded batch runs.
package indexdb

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"go-lane-defense/internal/event"
)

type SQLiteIndex struct {
	db     *sql.DB
	logger *log.Logger

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqRun reqKind = iota + 1
	reqWave
	reqEnd
)

type req struct {
	kind reqKind
	run  RunRow
	wave WaveRow
}

// RunRow describes one seeded run.
type RunRow struct {
	RunID     string
	Seed      int64
	LaneCount int
	Fallback  bool
	StartedAt string
	EndWave   int
	GameOver  bool
}

// WaveRow is the outcome of one cleared wave.
type WaveRow struct {
	RunID          string
	Wave           int
	Spawned        int
	Killed         int
	Leaked         int
	Bonus          int
	ResearchPoints int
	Money          int
	Lives          int
}

func OpenSQLite(path string, logger *log.Logger) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
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

	s := &SQLiteIndex{db: db, logger: logger, ch: make(chan req, 4096)}
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
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			lane_count INTEGER NOT NULL,
			fallback INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			end_wave INTEGER,
			game_over INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS waves (
			run_id TEXT NOT NULL,
			wave INTEGER NOT NULL,
			spawned INTEGER NOT NULL,
			killed INTEGER NOT NULL,
			leaked INTEGER NOT NULL,
			bonus INTEGER NOT NULL,
			research_points INTEGER NOT NULL,
			money INTEGER NOT NULL,
			lives INTEGER NOT NULL,
			PRIMARY KEY (run_id, wave)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
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

func (s *SQLiteIndex) send(r req) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.logger.Printf("indexdb: queue full, dropping %d", r.kind)
	}
}

// RecordRun inserts the run row. StartedAt defaults to now.
func (s *SQLiteIndex) RecordRun(r RunRow) {
	if r.StartedAt == "" {
		r.StartedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	s.send(req{kind: reqRun, run: r})
}

// RecordWave stores one cleared wave.
func (s *SQLiteIndex) RecordWave(w WaveRow) {
	s.send(req{kind: reqWave, wave: w})
}

// RecordEnd marks the last wave reached by a run.
func (s *SQLiteIndex) RecordEnd(runID string, wave int, gameOver bool) {
	s.send(req{kind: reqEnd, run: RunRow{RunID: runID, EndWave: wave, GameOver: gameOver}})
}

// Observer returns a listener that indexes WaveCleared and GameOver events
// for runID.
func (s *SQLiteIndex) Observer(runID string) event.Listener {
	return event.ListenerFunc(func(e event.Event) {
		switch info := e.Data.(type) {
		case event.WaveClearInfo:
			s.RecordWave(WaveRow{
				RunID:          runID,
				Wave:           info.Wave,
				Spawned:        info.Spawned,
				Killed:         info.Killed,
				Leaked:         info.Leaked,
				Bonus:          info.Bonus,
				ResearchPoints: info.ResearchPoints,
				Money:          info.Money,
				Lives:          info.Lives,
			})
		case event.GameOverInfo:
			s.RecordEnd(runID, info.Wave, true)
		}
	})
}

// Attach subscribes the observer for runID to d.
func (s *SQLiteIndex) Attach(d *event.Dispatcher, runID string) {
	l := s.Observer(runID)
	d.Subscribe(event.WaveCleared, l)
	d.Subscribe(event.GameOver, l)
}

func (s *SQLiteIndex) loop() {
	insertRun, _ := s.db.Prepare(`INSERT OR REPLACE INTO runs(run_id,seed,lane_count,fallback,started_at) VALUES(?,?,?,?,?)`)
	insertWave, _ := s.db.Prepare(`INSERT OR REPLACE INTO waves(run_id,wave,spawned,killed,leaked,bonus,research_points,money,lives) VALUES(?,?,?,?,?,?,?,?,?)`)
	updateEnd, _ := s.db.Prepare(`UPDATE runs SET end_wave=?, game_over=? WHERE run_id=?`)
	defer func() {
		for _, st := range []*sql.Stmt{insertRun, insertWave, updateEnd} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var tx *sql.Tx
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.logger.Printf("indexdb: commit: %v", err)
		}
		tx = nil
	}

	for r := range s.ch {
		if tx == nil {
			txx, err := s.db.Begin()
			if err != nil {
				s.logger.Printf("indexdb: begin: %v", err)
				continue
			}
			tx = txx
		}
		var err error
		switch r.kind {
		case reqRun:
			if insertRun != nil {
				_, err = tx.Stmt(insertRun).Exec(r.run.RunID, r.run.Seed, r.run.LaneCount, r.run.Fallback, r.run.StartedAt)
			}
		case reqWave:
			w := r.wave
			if insertWave != nil {
				_, err = tx.Stmt(insertWave).Exec(w.RunID, w.Wave, w.Spawned, w.Killed, w.Leaked, w.Bonus, w.ResearchPoints, w.Money, w.Lives)
			}
		case reqEnd:
			if updateEnd != nil {
				_, err = tx.Stmt(updateEnd).Exec(r.run.EndWave, r.run.GameOver, r.run.RunID)
			}
		}
		if err != nil {
			s.logger.Printf("indexdb: write: %v", err)
			_ = tx.Rollback()
			tx = nil
			continue
		}
		// Commit whenever the queue drains so readers see whole waves.
		if len(s.ch) == 0 {
			commit()
		}
	}
	commit()
}

// Waves lists the indexed waves of runID in order.
func (s *SQLiteIndex) Waves(runID string) ([]WaveRow, error) {
	rows, err := s.db.Query(`SELECT wave,spawned,killed,leaked,bonus,research_points,money,lives FROM waves WHERE run_id=? ORDER BY wave`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WaveRow
	for rows.Next() {
		w := WaveRow{RunID: runID}
		if err := rows.Scan(&w.Wave, &w.Spawned, &w.Killed, &w.Leaked, &w.Bonus, &w.ResearchPoints, &w.Money, &w.Lives); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
