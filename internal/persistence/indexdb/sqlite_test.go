package indexdb

import (
	"database/sql"
	"io"
	"log"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"go-lane-defense/internal/event"
)

func TestObserverIndexesWavesAndGameOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	d := event.NewDispatcher()
	idx.RecordRun(RunRow{RunID: "run-1", Seed: 42, LaneCount: 3})
	idx.Attach(d, "run-1")

	em := event.NewEmitter(1, d)
	em.WaveCleared(event.WaveClearInfo{Wave: 1, Bonus: 60, ResearchPoints: 1, Spawned: 6, Killed: 5, Leaked: 1, Money: 300, Lives: 19})
	em.WaveCleared(event.WaveClearInfo{Wave: 2, Bonus: 70, ResearchPoints: 1, Spawned: 7, Killed: 7, Money: 410, Lives: 19})
	em.GameOver(event.GameOverInfo{Wave: 3})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var waves, killed int
	if err := db.QueryRow(`SELECT COUNT(*), SUM(killed) FROM waves WHERE run_id='run-1'`).Scan(&waves, &killed); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if waves != 2 || killed != 12 {
		t.Fatalf("waves=%d killed=%d", waves, killed)
	}

	var (
		seed     int64
		endWave  int
		gameOver bool
	)
	if err := db.QueryRow(`SELECT seed,end_wave,game_over FROM runs WHERE run_id='run-1'`).Scan(&seed, &endWave, &gameOver); err != nil {
		t.Fatalf("Scan run: %v", err)
	}
	if seed != 42 || endWave != 3 || !gameOver {
		t.Fatalf("run row seed=%d end=%d over=%v", seed, endWave, gameOver)
	}
}

func TestWavesQueryAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.db")
	idx, err := OpenSQLite(path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	idx.RecordWave(WaveRow{RunID: "r", Wave: 2, Killed: 3})
	idx.RecordWave(WaveRow{RunID: "r", Wave: 1, Killed: 1})
	idx.RecordWave(WaveRow{RunID: "other", Wave: 1})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	idx.RecordWave(WaveRow{RunID: "r", Wave: 9})

	again, err := OpenSQLite(path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	rows, err := again.Waves("r")
	if err != nil {
		t.Fatalf("Waves: %v", err)
	}
	if len(rows) != 2 || rows[0].Wave != 1 || rows[1].Killed != 3 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite("", nil); err == nil {
		t.Fatalf("empty path accepted")
	}
}
