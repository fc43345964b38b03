// Package telemetry turns the simulation event stream into prometheus
// metrics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-lane-defense/internal/event"
)

const namespace = "lanedefense"

// Metrics is an event.Listener backed by its own registry, so several
// sessions in one process never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	unitsAlive     prometheus.Gauge
	spawned        *prometheus.CounterVec
	kills          *prometheus.CounterVec
	leaks          *prometheus.CounterVec
	livesLost      prometheus.Counter
	damage         prometheus.Counter
	healing        prometheus.Counter
	shots          *prometheus.CounterVec
	structuresLost *prometheus.CounterVec
	constructions  *prometheus.CounterVec
	wave           prometheus.Gauge
	wavesStarted   prometheus.Counter
	wavesCleared   prometheus.Counter
	money          prometheus.Gauge
	lives          prometheus.Gauge
	researchBought prometheus.Counter
	gameOver       prometheus.Gauge
	tickDuration   prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		unitsAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "units_alive",
			Help: "Hostile units currently on the field.",
		}),
		spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "units_spawned_total",
			Help: "Hostile units released, by archetype.",
		}, []string{"archetype"}),
		kills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "kills_total",
			Help: "Hostile units killed, by archetype and cause.",
		}, []string{"archetype", "cause"}),
		leaks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "leaks_total",
			Help: "Hostile units that reached the goal, by archetype.",
		}, []string{"archetype"}),
		livesLost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "lives_lost_total",
			Help: "Lives deducted by leaks.",
		}),
		damage: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "damage_dealt_total",
			Help: "Damage applied to hostile units.",
		}),
		healing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "healing_total",
			Help: "Health restored to hostile units by menders.",
		}),
		shots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "shots_fired_total",
			Help: "Weapon activations, by emplacement archetype.",
		}, []string{"emplacement"}),
		structuresLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "emplacements_destroyed_total",
			Help: "Emplacements destroyed by siege fire.",
		}, []string{"emplacement"}),
		constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "constructions_completed_total",
			Help: "Finished construction jobs, by job.",
		}, []string{"job"}),
		wave: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "wave",
			Help: "Current wave number.",
		}),
		wavesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "waves_started_total",
			Help: "Waves started.",
		}),
		wavesCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "waves_cleared_total",
			Help: "Waves cleared.",
		}),
		money: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "money",
			Help: "Money balance.",
		}),
		lives: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "lives",
			Help: "Remaining lives.",
		}),
		researchBought: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "research_purchases_total",
			Help: "Research nodes bought.",
		}),
		gameOver: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "game_over",
			Help: "1 once the run has ended.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tick_duration_seconds",
			Help:    "Wall time spent in Session.Tick.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
	}
	m.registry.MustRegister(
		m.unitsAlive, m.spawned, m.kills, m.leaks, m.livesLost, m.damage,
		m.healing, m.shots, m.structuresLost, m.constructions, m.wave,
		m.wavesStarted, m.wavesCleared, m.money, m.lives, m.researchBought,
		m.gameOver, m.tickDuration,
	)
	return m
}

// Registry exposes the collectors for scraping or gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Attach subscribes m to every event type.
func (m *Metrics) Attach(d *event.Dispatcher) {
	d.SubscribeAll(m)
}

// ObserveTick records how long a tick took and resets the live unit gauge,
// which drifts when a game over clears the field without events.
func (m *Metrics) ObserveTick(elapsed time.Duration, unitsAlive int) {
	m.tickDuration.Observe(elapsed.Seconds())
	m.unitsAlive.Set(float64(unitsAlive))
}

func (m *Metrics) OnEvent(e event.Event) {
	switch info := e.Data.(type) {
	case event.SpawnInfo:
		m.unitsAlive.Inc()
		m.spawned.WithLabelValues(info.Kind.String()).Inc()
	case event.DamageInfo:
		m.damage.Add(info.Amount)
	case event.HealInfo:
		m.healing.Add(info.Amount)
	case event.DeathInfo:
		m.unitsAlive.Dec()
		m.kills.WithLabelValues(info.Kind.String(), string(info.Cause)).Inc()
	case event.LeakInfo:
		m.unitsAlive.Dec()
		m.leaks.WithLabelValues(info.Kind.String()).Inc()
		m.livesLost.Add(float64(info.LivesCost))
	case event.FireInfo:
		m.shots.WithLabelValues(info.Kind.String()).Inc()
	case event.StructureLossInfo:
		m.structuresLost.WithLabelValues(info.Kind.String()).Inc()
	case event.ConstructionInfo:
		m.constructions.WithLabelValues(info.State).Inc()
	case event.WaveInfo:
		m.wave.Set(float64(info.Wave))
		m.wavesStarted.Inc()
	case event.WaveClearInfo:
		m.wavesCleared.Inc()
		m.money.Set(float64(info.Money))
		m.lives.Set(float64(info.Lives))
	case event.EconomyInfo:
		m.money.Set(float64(info.Money))
		m.lives.Set(float64(info.Lives))
	case event.ResearchInfo:
		m.researchBought.Inc()
	case event.GameOverInfo:
		m.gameOver.Set(1)
	}
}
