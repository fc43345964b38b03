// internal/state/pause_state.go
package state

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"go-lane-defense/internal/config"
)

var _ State = (*PauseState)(nil)

// PauseState freezes the session and draws the play screen dimmed.
type PauseState struct {
	stateMachine *StateMachine
	play         *PlayState
}

func NewPauseState(sm *StateMachine, play *PlayState) *PauseState {
	return &PauseState{stateMachine: sm, play: play}
}

func (s *PauseState) Enter() {}

func (s *PauseState) Update(deltaTime float64) {
	unpause := inpututil.IsKeyJustPressed(ebiten.KeyP) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsKeyJustPressed(ebiten.KeyF9)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		unpause = unpause || s.play.pause.Contains(x, y)
	}
	if unpause {
		s.play.pause.TogglePause()
		s.stateMachine.SetState(s.play)
	}
}

func (s *PauseState) Draw(screen *ebiten.Image) {
	s.play.Draw(screen)
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 128}, false)
	label := "PAUSED"
	bounds := text.BoundString(basicfont.Face7x13, label)
	text.Draw(screen, label, basicfont.Face7x13, (config.ScreenWidth-bounds.Dx())/2, config.ScreenHeight/2, config.TextLightColor)
}

func (s *PauseState) Exit() {}
