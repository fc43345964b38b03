// cmd/headless runs seeded autopilot games without a window, optionally
// recording replays, indexing wave outcomes and exposing prometheus metrics.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-lane-defense/internal/autopilot"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/persistence/indexdb"
	"go-lane-defense/internal/replay"
	"go-lane-defense/internal/session"
	"go-lane-defense/internal/telemetry"
)

type runConfig struct {
	opts      session.Options
	maxTicks  int
	dt        float64
	replayDir string
	index     *indexdb.SQLiteIndex
	metrics   *telemetry.Metrics
	logger    *log.Logger
}

type runResult struct {
	seed     int64
	runID    string
	wave     int
	ticks    uint64
	gameOver bool
	digest   string
}

func main() {
	var (
		seed       = flag.Int64("seed", 1, "first seed")
		runs       = flag.Int("runs", 1, "number of consecutive seeds to play")
		workers    = flag.Int("workers", 1, "runs played in parallel")
		laneCount  = flag.Int("lanes", config.DefaultLaneCount, "number of lanes (1-4)")
		maxTicks   = flag.Int("ticks", 60*60*20, "tick limit per run")
		dt         = flag.Float64("dt", 1.0/60, "frame delta per tick in seconds")
		speed      = flag.Float64("speed", 4, "playback multiplier (1, 2 or 4)")
		tuningPath = flag.String("tuning", "", "optional YAML tuning overrides")
		replayDir  = flag.String("replay_dir", "", "write one replay log per run into this directory")
		dbPath     = flag.String("db", "", "sqlite index of wave outcomes")
		metrics    = flag.String("metrics_addr", "", "serve /metrics on this address")
		linger     = flag.Duration("linger", 0, "keep serving metrics this long after the last run")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "headless: ", log.LstdFlags)

	tuning := defs.DefaultTuning()
	if *tuningPath != "" {
		t, err := defs.LoadTuning(*tuningPath)
		if err != nil {
			logger.Fatal(err)
		}
		tuning = t
	}

	cfg := runConfig{
		opts:      session.Options{LaneCount: *laneCount, Tuning: tuning, Logger: logger},
		maxTicks:  *maxTicks,
		dt:        *dt,
		replayDir: *replayDir,
		logger:    logger,
	}

	if *dbPath != "" {
		idx, err := indexdb.OpenSQLite(*dbPath, logger)
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		cfg.index = idx
	}

	if *metrics != "" {
		cfg.metrics = telemetry.New()
		mux := http.NewServeMux()
		mux.Handle("/metrics", cfg.metrics.Handler())
		go func() {
			logger.Println(http.ListenAndServe(*metrics, mux))
		}()
	}

	seeds := make(chan int64)
	results := make(chan runResult)
	var wg sync.WaitGroup
	for w := 0; w < max(1, *workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range seeds {
				res, err := play(cfg, s, *speed)
				if err != nil {
					logger.Printf("seed %d: %v", s, err)
					continue
				}
				results <- res
			}
		}()
	}
	go func() {
		for i := 0; i < *runs; i++ {
			seeds <- *seed + int64(i)
		}
		close(seeds)
		wg.Wait()
		close(results)
	}()

	var best runResult
	for res := range results {
		state := "survived"
		if res.gameOver {
			state = "lost"
		}
		fmt.Printf("seed=%d run=%s wave=%d ticks=%d %s digest=%s\n", res.seed, res.runID, res.wave, res.ticks, state, res.digest)
		if res.wave > best.wave {
			best = res
		}
	}
	if best.runID != "" {
		logger.Printf("best: seed %d reached wave %d", best.seed, best.wave)
	}

	if cfg.metrics != nil && *linger > 0 {
		logger.Printf("serving metrics on %s for %s", *metrics, *linger)
		time.Sleep(*linger)
	}
}

// play runs one seed to game over or the tick limit.
func play(cfg runConfig, seed int64, speed float64) (runResult, error) {
	opts := cfg.opts
	opts.Seed = seed
	s, err := session.New(opts)
	if err != nil {
		return runResult{}, err
	}
	if err := s.SetSpeed(speed); err != nil {
		return runResult{}, err
	}
	header := replay.NewHeader(opts)
	res := runResult{seed: seed, runID: header.RunID}

	var rec *replay.Recorder
	if cfg.replayDir != "" {
		path := filepath.Join(cfg.replayDir, fmt.Sprintf("run-%d.jsonl.zst", seed))
		if rec, err = replay.Create(path, header); err != nil {
			return res, err
		}
		defer rec.Close()
	}
	if cfg.index != nil {
		cfg.index.RecordRun(indexdb.RunRow{RunID: header.RunID, Seed: seed, LaneCount: len(s.Lanes()), Fallback: s.LaneFallback()})
		cfg.index.Attach(s.EventDispatcher, header.RunID)
	}
	if cfg.metrics != nil {
		cfg.metrics.Attach(s.EventDispatcher)
	}

	// The speed is set up front, so replays must queue it as the first action.
	first := []session.Action{{Kind: session.ActionSpeed, Speed: speed}}
	pilot := autopilot.New()
	for i := 0; i < cfg.maxTicks && !s.GameOver(); i++ {
		actions := append(first, pilot.Plan(s)...)
		first = nil
		start := time.Now()
		if rec != nil {
			if _, _, err := rec.Tick(s, cfg.dt, actions); err != nil {
				return res, fmt.Errorf("record: %w", err)
			}
		} else {
			s.Tick(cfg.dt, actions)
		}
		if cfg.metrics != nil {
			cfg.metrics.ObserveTick(time.Since(start), len(s.ECS.Units))
		}
	}

	if cfg.index != nil && !s.GameOver() {
		cfg.index.RecordEnd(header.RunID, s.Wave(), false)
	}
	res.wave = s.Wave()
	res.ticks = s.TickCount()
	res.gameOver = s.GameOver()
	res.digest = s.Digest()
	return res, nil
}
