// cmd/viewer/main.go
package main

import (
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/replay"
	"go-lane-defense/internal/session"
	"go-lane-defense/internal/state"
)

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	var (
		seed       = flag.Int64("seed", time.Now().UnixNano(), "world seed")
		laneCount  = flag.Int("lanes", config.DefaultLaneCount, "number of lanes (1-4)")
		tuningPath = flag.String("tuning", "", "optional YAML tuning overrides")
		pilot      = flag.Bool("autopilot", false, "start with the scripted builder enabled")
		recordPath = flag.String("record", "", "write a replay log to this path")
		pprofAddr  = flag.String("pprof", "", "serve net/http/pprof on this address")
	)
	flag.Parse()

	if *pprofAddr != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	tuning := defs.DefaultTuning()
	if *tuningPath != "" {
		t, err := defs.LoadTuning(*tuningPath)
		if err != nil {
			log.Fatal(err)
		}
		tuning = t
	}
	opts := session.Options{Seed: *seed, LaneCount: *laneCount, Tuning: tuning}

	cfg := state.PlayConfig{Options: opts, Autopilot: *pilot}
	if *recordPath != "" {
		rec, err := replay.Create(*recordPath, replay.NewHeader(opts))
		if err != nil {
			log.Fatal(err)
		}
		defer rec.Close()
		cfg.Recorder = rec
	}

	sm := state.NewStateMachine()
	play, err := state.NewPlayState(sm, cfg)
	if err != nil {
		log.Fatal(err)
	}
	sm.SetState(play)

	app := &AppGame{stateMachine: sm, lastUpdateTime: time.Now()}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Lane Defense")
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
