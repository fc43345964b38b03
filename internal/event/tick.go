package event

// TickEvents is everything that happened during one tick, grouped by kind.
type TickEvents struct {
	Tick uint64

	Spawned               []SpawnInfo
	Damaged               []DamageInfo
	Healed                []HealInfo
	Died                  []DeathInfo
	Leaked                []LeakInfo
	Fired                 []FireInfo
	EmplacementDamaged    []StructureDamageInfo
	EmplacementDestroyed  []StructureLossInfo
	ConstructionCompleted []ConstructionInfo
	WaveStarted           []WaveInfo
	WaveCleared           []WaveClearInfo
	Economy               []EconomyInfo
	Research              []ResearchInfo
	GameOver              *GameOverInfo
}

// Emitter records events into the current TickEvents and forwards them to
// the dispatcher. Systems only ever see an Emitter.
type Emitter struct {
	Events     *TickEvents
	Dispatcher *Dispatcher
}

// NewEmitter starts a fresh tick record.
func NewEmitter(tick uint64, d *Dispatcher) *Emitter {
	return &Emitter{Events: &TickEvents{Tick: tick}, Dispatcher: d}
}

func (e *Emitter) send(t EventType, data interface{}) {
	e.Dispatcher.Dispatch(Event{Type: t, Data: data})
}

func (e *Emitter) Spawned(i SpawnInfo) {
	e.Events.Spawned = append(e.Events.Spawned, i)
	e.send(UnitSpawned, i)
}

func (e *Emitter) Damaged(i DamageInfo) {
	if i.Amount <= 0 {
		return
	}
	e.Events.Damaged = append(e.Events.Damaged, i)
	e.send(UnitDamaged, i)
}

func (e *Emitter) Healed(i HealInfo) {
	if i.Amount <= 0 {
		return
	}
	e.Events.Healed = append(e.Events.Healed, i)
	e.send(UnitHealed, i)
}

func (e *Emitter) Died(i DeathInfo) {
	e.Events.Died = append(e.Events.Died, i)
	e.send(UnitDied, i)
}

func (e *Emitter) Leaked(i LeakInfo) {
	e.Events.Leaked = append(e.Events.Leaked, i)
	e.send(UnitLeaked, i)
}

func (e *Emitter) Fired(i FireInfo) {
	e.Events.Fired = append(e.Events.Fired, i)
	e.send(EmplacementFired, i)
}

func (e *Emitter) StructureDamaged(i StructureDamageInfo) {
	e.Events.EmplacementDamaged = append(e.Events.EmplacementDamaged, i)
	e.send(EmplacementDamaged, i)
}

func (e *Emitter) StructureLost(i StructureLossInfo) {
	e.Events.EmplacementDestroyed = append(e.Events.EmplacementDestroyed, i)
	e.send(EmplacementDestroyed, i)
}

func (e *Emitter) Constructed(i ConstructionInfo) {
	e.Events.ConstructionCompleted = append(e.Events.ConstructionCompleted, i)
	e.send(ConstructionCompleted, i)
}

func (e *Emitter) WaveStarted(i WaveInfo) {
	e.Events.WaveStarted = append(e.Events.WaveStarted, i)
	e.send(WaveStarted, i)
}

func (e *Emitter) WaveCleared(i WaveClearInfo) {
	e.Events.WaveCleared = append(e.Events.WaveCleared, i)
	e.send(WaveCleared, i)
}

func (e *Emitter) Economy(i EconomyInfo) {
	e.Events.Economy = append(e.Events.Economy, i)
	e.send(EconomyChanged, i)
}

func (e *Emitter) Research(i ResearchInfo) {
	e.Events.Research = append(e.Events.Research, i)
	e.send(ResearchChanged, i)
}

func (e *Emitter) GameOver(i GameOverInfo) {
	e.Events.GameOver = &i
	e.send(GameOver, i)
}
