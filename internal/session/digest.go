package session

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"go-lane-defense/internal/component"
	"go-lane-defense/pkg/geom"
)

// digestWriter feeds fixed-width little-endian values into a hash.
type digestWriter struct {
	h   hash.Hash
	buf [8]byte
}

func (w *digestWriter) putU64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:], v)
	w.h.Write(w.buf[:])
}

func (w *digestWriter) putInt(v int)       { w.putU64(uint64(int64(v))) }
func (w *digestWriter) putFloat(v float64) { w.putU64(math.Float64bits(v)) }
func (w *digestWriter) putVec(v geom.Vec2) { w.putFloat(v.X); w.putFloat(v.Y) }

func (w *digestWriter) putBool(v bool) {
	if v {
		w.putU64(1)
	} else {
		w.putU64(0)
	}
}

func (w *digestWriter) putString(s string) {
	w.putInt(len(s))
	w.h.Write([]byte(s))
}

func (w *digestWriter) putEffect(e component.TimedEffect) {
	w.putFloat(e.Value)
	w.putFloat(e.Remaining)
}

// Digest hashes the simulated state. Two sessions with the same seed, tuning
// and action stream produce the same digest after every tick.
func (s *Session) Digest() string {
	w := &digestWriter{h: sha256.New()}

	w.putU64(s.tick)
	w.putU64(uint64(s.ECS.NextID))
	w.putBool(s.over)
	w.putInt(s.Economy.Money)
	w.putInt(s.Economy.Lives)
	w.putInt(s.Research.Points)
	for _, id := range s.Research.Owned() {
		w.putString(id)
	}

	d := s.Director
	w.putInt(d.Wave)
	w.putBool(d.Active)
	w.putFloat(d.Countdown)
	w.putInt(d.Stats.Spawned)
	w.putInt(d.Stats.Killed)
	w.putInt(d.Stats.Leaked)
	w.putInt(len(d.Queue))
	for _, p := range d.Queue {
		w.putInt(int(p.Kind))
		w.putInt(p.Elite)
		w.putFloat(p.Delay)
	}

	w.putInt(len(s.ECS.Units))
	for _, u := range s.ECS.Units {
		w.putU64(uint64(u.ID))
		w.putInt(int(u.Kind))
		w.putInt(u.Elite)
		w.putFloat(u.Health)
		w.putFloat(u.MaxHealth)
		w.putInt(u.Lane)
		w.putInt(u.Segment)
		w.putFloat(u.Offset)
		w.putFloat(u.Traveled)
		w.putVec(u.Position)
		w.putEffect(u.Status.Slow)
		w.putEffect(u.Status.Vulnerability)
		w.putEffect(u.Status.DoT)
		b := u.Behavior
		w.putFloat(b.PhaseTimer)
		w.putBool(b.Phased)
		w.putFloat(b.BurstTimer)
		w.putBool(b.Bursting)
		w.putFloat(b.HealTimer)
		w.putFloat(b.SiegeTimer)
		w.putBool(u.Dead)
		w.putBool(u.Leaked)
	}

	w.putInt(len(s.ECS.Emplacements))
	for _, e := range s.ECS.Emplacements {
		w.putU64(uint64(e.ID))
		w.putInt(int(e.Kind))
		w.putInt(e.Cell.X)
		w.putInt(e.Cell.Y)
		if level, ok := e.Level(); ok {
			w.putInt(level)
		} else if b, ok := e.Progression.(component.Branch); ok {
			w.putInt(-int(b.Key))
		}
		w.putString(component.ConstructionName(e.Construction))
		if e.Construction != nil {
			w.putFloat(e.Construction.Elapsed)
			w.putFloat(e.Construction.Duration)
		}
		w.putFloat(e.HP)
		w.putFloat(e.MaxHP)
		if e.Shield != nil {
			w.putFloat(e.Shield.HP)
			w.putFloat(e.Shield.Max)
		}
		w.putInt(e.Invested)
		w.putFloat(e.BuffRemaining)
		w.putFloat(e.Cooldown)
		if a, ok := e.Aim(); ok {
			w.putFloat(a)
		}
		w.putBool(e.Power.Powered)
		w.putU64(uint64(e.Power.Source))
	}

	w.putInt(len(s.ECS.Projectiles))
	for _, p := range s.ECS.Projectiles {
		w.putU64(uint64(p.ID))
		w.putU64(uint64(p.Target))
		w.putVec(p.Position)
		w.putFloat(p.Damage)
		w.putBool(p.Arrived)
	}
	w.putInt(len(s.ECS.SiegeShots))
	for _, sh := range s.ECS.SiegeShots {
		w.putU64(uint64(sh.ID))
		w.putU64(uint64(sh.Target))
		w.putVec(sh.Position)
		w.putBool(sh.Miss)
		w.putBool(sh.Arrived)
	}

	return hex.EncodeToString(w.h.Sum(nil))
}
