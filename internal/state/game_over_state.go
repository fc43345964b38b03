package state

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"go-lane-defense/internal/config"
)

// GameOverState shows the final wave. Space starts a new run on the next
// seed.
type GameOverState struct {
	sm   *StateMachine
	play *PlayState
}

func NewGameOverState(sm *StateMachine, play *PlayState) *GameOverState {
	return &GameOverState{sm: sm, play: play}
}

func (m *GameOverState) Enter() {
	if rec := m.play.cfg.Recorder; rec != nil {
		if err := rec.Close(); err != nil {
			m.play.logger.Printf("viewer: close replay: %v", err)
		}
	}
}

func (m *GameOverState) Update(deltaTime float64) {
	if !inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return
	}
	cfg := m.play.cfg
	cfg.Options.Seed++
	cfg.Recorder = nil
	next, err := NewPlayState(m.sm, cfg)
	if err != nil {
		m.play.logger.Printf("viewer: restart: %v", err)
		return
	}
	m.sm.SetState(next)
}

func (m *GameOverState) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})
	snap := m.play.snap
	lines := []string{
		"GAME OVER",
		fmt.Sprintf("seed %d reached wave %d", m.play.session.Seed(), snap.Wave.Number),
		"press space for a new run",
	}
	for i, l := range lines {
		bounds := text.BoundString(basicfont.Face7x13, l)
		text.Draw(screen, l, basicfont.Face7x13, (config.ScreenWidth-bounds.Dx())/2, config.ScreenHeight/2-20+i*20, config.TextLightColor)
	}
}

func (m *GameOverState) Exit() {}
