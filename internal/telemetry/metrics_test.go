package telemetry

import (
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/session"
	"go-lane-defense/pkg/gridmap"
)

func TestEventsUpdateCollectors(t *testing.T) {
	m := New()
	d := event.NewDispatcher()
	m.Attach(d)
	em := event.NewEmitter(1, d)

	em.Spawned(event.SpawnInfo{Unit: 1, Kind: defs.Grunt})
	em.Spawned(event.SpawnInfo{Unit: 2, Kind: defs.Runner})
	em.Spawned(event.SpawnInfo{Unit: 3, Kind: defs.Grunt})
	em.Damaged(event.DamageInfo{Unit: 1, Amount: 12.5})
	em.Died(event.DeathInfo{Unit: 1, Kind: defs.Grunt, Cause: event.CauseWeapon})
	em.Leaked(event.LeakInfo{Unit: 2, Kind: defs.Runner, LivesCost: 2})
	em.Fired(event.FireInfo{Emplacement: 9, Kind: defs.Blaster, Targets: 1})
	em.Fired(event.FireInfo{Emplacement: 9, Kind: defs.Blaster, Targets: 1})
	em.WaveStarted(event.WaveInfo{Wave: 4})
	em.WaveCleared(event.WaveClearInfo{Wave: 4, Money: 310, Lives: 18})
	em.GameOver(event.GameOverInfo{Wave: 4})

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"alive", testutil.ToFloat64(m.unitsAlive), 1},
		{"grunt kills", testutil.ToFloat64(m.kills.WithLabelValues("grunt", "weapon")), 1},
		{"runner leaks", testutil.ToFloat64(m.leaks.WithLabelValues("runner")), 1},
		{"lives lost", testutil.ToFloat64(m.livesLost), 2},
		{"damage", testutil.ToFloat64(m.damage), 12.5},
		{"blaster shots", testutil.ToFloat64(m.shots.WithLabelValues("blaster")), 2},
		{"wave", testutil.ToFloat64(m.wave), 4},
		{"cleared", testutil.ToFloat64(m.wavesCleared), 1},
		{"money", testutil.ToFloat64(m.money), 310},
		{"lives", testutil.ToFloat64(m.lives), 18},
		{"game over", testutil.ToFloat64(m.gameOver), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestObserveTick(t *testing.T) {
	m := New()
	m.unitsAlive.Set(7)
	m.ObserveTick(2*time.Millisecond, 0)
	if got := testutil.ToFloat64(m.unitsAlive); got != 0 {
		t.Fatalf("alive = %v", got)
	}
	if n := testutil.CollectAndCount(m.tickDuration); n != 1 {
		t.Fatalf("histogram series = %d", n)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.OnEvent(event.Event{Type: event.UnitDied, Data: event.DeathInfo{Kind: defs.Brute, Cause: event.CauseDoT}})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `lanedefense_kills_total{archetype="brute",cause="dot"} 1`) {
		t.Fatalf("kill counter missing from exposition:\n%s", body)
	}
}

func TestSessionFeedsMetrics(t *testing.T) {
	s, err := session.New(session.Options{Seed: 5, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := New()
	m.Attach(s.EventDispatcher)

	var cell gridmap.Cell
	for y := 0; y < s.Grid.Height; y++ {
		for x := 0; x < s.Grid.Width; x++ {
			if c := (gridmap.Cell{X: x, Y: y}); s.Grid.Buildable(c) {
				cell = c
				y = s.Grid.Height
				break
			}
		}
	}
	if _, err := s.PlaceEmplacement(defs.Generator, cell); err != nil {
		t.Fatalf("place: %v", err)
	}
	if got := testutil.ToFloat64(m.money); got != float64(s.Economy.Money) {
		t.Fatalf("money gauge %v, session %d", got, s.Economy.Money)
	}
}
