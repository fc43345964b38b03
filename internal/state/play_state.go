// internal/state/play_state.go
package state

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"go-lane-defense/internal/autopilot"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/replay"
	"go-lane-defense/internal/session"
	"go-lane-defense/internal/ui"
	"go-lane-defense/pkg/render"
)

// PlayConfig describes how a viewer run is set up.
type PlayConfig struct {
	Options   session.Options
	Autopilot bool
	// Recorder, when set, receives every tick.
	Recorder *replay.Recorder
	// OnTick is called after every tick with the elapsed wall time.
	OnTick func(s *session.Session, elapsed time.Duration)
}

var buildKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

// PlayState drives a session from the frame loop and draws its snapshot.
type PlayState struct {
	sm      *StateMachine
	cfg     PlayConfig
	session *session.Session
	pilot   *autopilot.Pilot
	logger  *log.Logger

	renderer  *render.LaneRenderer
	face      font.Face
	indicator *ui.StateIndicator
	speed     *ui.SpeedButton
	pause     *ui.PauseButton
	wave      *ui.WaveIndicator
	lives     *ui.LivesIndicator
	countdown *ui.CountdownIndicator
	infoPanel *ui.InfoPanel

	buildKind     defs.EmplacementKind
	pending       []session.Action
	snap          session.Snapshot
	maxLives      int
	lastClickTime time.Time
}

func NewPlayState(sm *StateMachine, cfg PlayConfig) (*PlayState, error) {
	s, err := session.New(cfg.Options)
	if err != nil {
		return nil, err
	}
	logger := cfg.Options.Logger
	if logger == nil {
		logger = log.Default()
	}

	mapColors := &render.MapColors{
		BackgroundColor: config.BackgroundColor,
		BuildableColor:  config.BuildableColor,
		LaneColor:       config.LaneColor,
		EntryColor:      config.EntryColor,
		GoalColor:       config.GoalColor,
		GridStrokeColor: config.GridStrokeColor,
		TextLightColor:  config.TextLightColor,
		StrokeWidth:     float32(config.StrokeWidth),
	}
	entityColors := &render.EntityColors{
		Emplacements: config.EmplacementColor,
		Unit:         config.UnitColor,
		Elite:        config.EliteColor,
		Shot:         config.ShotColor,
		SiegeShot:    config.SiegeShotColor,
		Selected:     config.SelectedColor,
		Unpowered:    config.UnpoweredColor,
		Range:        config.RangeColor,
		Shield:       config.ShieldColor,
	}
	face := basicfont.Face7x13
	renderer := render.NewLaneRenderer(s.Grid, s.Lanes(), config.CellPixels, config.MapOffsetX, config.MapOffsetY,
		config.ScreenWidth, config.ScreenHeight, face, mapColors, entityColors)

	ps := &PlayState{
		sm:        sm,
		cfg:       cfg,
		session:   s,
		logger:    logger,
		renderer:  renderer,
		face:      face,
		indicator: ui.NewStateIndicator(config.ScreenWidth-config.IndicatorOffsetX, config.IndicatorOffsetX, config.IndicatorRadius),
		speed:     ui.NewSpeedButton(config.ScreenWidth-80, config.IndicatorOffsetX, config.ButtonSize, config.SpeedButtonColors),
		pause:     ui.NewPauseButton(config.ScreenWidth-130, config.IndicatorOffsetX, config.ButtonSize, config.UIColorBlue, config.EntryColor),
		wave:      ui.NewWaveIndicator(config.ScreenWidth/2, 36),
		lives:     ui.NewLivesIndicator(config.MapOffsetX+180, 20),
		countdown: ui.NewCountdownIndicator(config.MapOffsetX+360, 12),
		infoPanel: ui.NewInfoPanel(face, s.Catalog),
		maxLives:  s.Economy.Lives,
		snap:      s.Snapshot(),
	}
	if cfg.Autopilot {
		ps.pilot = autopilot.New()
	}
	if s.LaneFallback() {
		logger.Printf("viewer: using fallback lanes for seed %d", s.Seed())
	}
	return ps, nil
}

// Session exposes the driven session.
func (g *PlayState) Session() *session.Session {
	return g.session
}

func (g *PlayState) Enter() {
	g.pause.SetPaused(false)
}

func (g *PlayState) Exit() {}

func (g *PlayState) Update(deltaTime float64) {
	g.pending = append(g.pending, g.infoPanel.Update()...)

	if inpututil.IsKeyJustPressed(ebiten.KeyF9) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.handlePauseClick()
		return
	}
	for i, k := range buildKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.buildKind = defs.EmplacementKind(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.pending = append(g.pending, session.Action{Kind: session.ActionSendEarly})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		if g.pilot == nil {
			g.pilot = autopilot.New()
		} else {
			g.pilot = nil
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if g.isClickOnUI(x, y) {
			g.handleUIClick(x, y)
		} else {
			g.handleMapClick(x, y)
		}
		g.lastClickTime = time.Now()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.pending = append(g.pending, session.Action{Kind: session.ActionSelect})
		g.infoPanel.Hide()
	}

	if g.pilot != nil {
		g.pending = append(g.pending, g.pilot.Plan(g.session)...)
	}
	g.tick(deltaTime)

	if g.snap.GameOver {
		g.sm.SetState(NewGameOverState(g.sm, g))
	}
}

func (g *PlayState) tick(deltaTime float64) {
	actions := g.pending
	g.pending = nil

	start := time.Now()
	var results []session.ActionResult
	if g.cfg.Recorder != nil {
		var err error
		if _, results, err = g.cfg.Recorder.Tick(g.session, deltaTime, actions); err != nil {
			g.logger.Printf("viewer: record tick: %v", err)
		}
	} else {
		_, results = g.session.Tick(deltaTime, actions)
	}
	if g.cfg.OnTick != nil {
		g.cfg.OnTick(g.session, time.Since(start))
	}

	for _, r := range results {
		if r.Err != nil && g.pilot == nil {
			g.logger.Printf("viewer: %v", r.Err)
		}
		if r.Action.Kind == session.ActionSelect {
			if r.Action.Emplacement == 0 {
				g.infoPanel.Hide()
			} else if r.Err == nil {
				g.infoPanel.SetTarget(r.Action.Emplacement)
			}
		}
		if r.Action.Kind == session.ActionSell && r.Err == nil {
			g.infoPanel.Hide()
		}
	}
	g.snap = g.session.Snapshot()
	for i, m := range config.SpeedMultipliers {
		if m == g.snap.Speed {
			g.speed.SetState(i)
		}
	}
}

func (g *PlayState) isClickOnUI(x, y int) bool {
	return g.speed.Contains(x, y) || g.pause.Contains(x, y) || g.indicator.Contains(x, y) || g.infoPanel.Contains(x, y)
}

func (g *PlayState) handleUIClick(x, y int) {
	cooldown := time.Duration(config.ClickCooldown) * time.Millisecond
	switch {
	case g.speed.Contains(x, y):
		if time.Since(g.speed.LastToggleTime) >= cooldown {
			g.speed.ToggleState()
			g.pending = append(g.pending, session.Action{Kind: session.ActionSpeed})
		}
	case g.pause.Contains(x, y):
		if time.Since(g.pause.LastToggleTime) >= cooldown {
			g.handlePauseClick()
		}
	case g.indicator.Contains(x, y):
		if time.Since(g.indicator.LastClickTime) >= cooldown {
			g.indicator.HandleClick()
			g.pending = append(g.pending, session.Action{Kind: session.ActionSendEarly})
		}
	}
}

// handleMapClick selects the emplacement under the cursor or places the
// current build archetype on an empty cell.
func (g *PlayState) handleMapClick(x, y int) {
	cell, ok := g.renderer.CellAt(x, y)
	if !ok {
		return
	}
	if e, ok := g.session.ECS.EmplacementAt(cell); ok {
		g.pending = append(g.pending, session.Action{Kind: session.ActionSelect, Emplacement: e.ID})
		return
	}
	g.pending = append(g.pending, session.Action{Kind: session.ActionPlace, Archetype: g.buildKind, Cell: cell})
}

func (g *PlayState) handlePauseClick() {
	g.pause.TogglePause()
	g.sm.SetState(NewPauseState(g.sm, g))
}

func (g *PlayState) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, &g.snap)

	stateColor := config.CountdownColor
	switch {
	case g.snap.GameOver:
		stateColor = config.GameOverColor
	case g.snap.Wave.Active:
		stateColor = config.WaveActiveColor
	}
	g.indicator.Draw(screen, stateColor)
	g.speed.Draw(screen)
	g.pause.Draw(screen)
	g.wave.Draw(screen, g.snap.Wave.Number, g.face)
	g.lives.Draw(screen, g.snap.Economy.Lives, g.maxLives, g.face)

	fill := 1.0
	if !g.snap.Wave.Active {
		total := config.CountdownRegular
		if g.snap.Wave.Number == 0 {
			total = config.CountdownFirst
		}
		fill = 1 - g.snap.Wave.Countdown/total
	}
	g.countdown.Draw(screen, fill, g.snap.ResearchPoints)
	g.infoPanel.Draw(screen, &g.snap)

	mode := "manual"
	if g.pilot != nil {
		mode = "autopilot"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Money: %d  Build: %s  x%.0f  %s  TPS: %.0f",
		g.snap.Economy.Money, g.buildKind, g.snap.Speed, mode, ebiten.ActualTPS()))
}
