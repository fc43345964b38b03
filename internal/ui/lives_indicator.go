package ui

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	livesCols          = 10
	livesCircleRadius  = 5.0
	livesCircleSpacing = 3.0
)

// LivesIndicator draws remaining lives as a grid of pips.
type LivesIndicator struct {
	X, Y float32
}

func NewLivesIndicator(x, y float32) *LivesIndicator {
	return &LivesIndicator{X: x, Y: y}
}

// Draw colours the pips above half in blue and the rest in red.
func (i *LivesIndicator) Draw(screen *ebiten.Image, lives, maxLives int, face font.Face) {
	half := maxLives / 2
	step := float32(livesCircleRadius*2 + livesCircleSpacing)
	for j := 0; j < maxLives; j++ {
		x := i.X + float32(j%livesCols)*step + livesCircleRadius
		y := i.Y + float32(j/livesCols)*step + livesCircleRadius

		var c color.Color = color.Black
		if j < lives {
			c = color.RGBA{220, 40, 40, 255}
			if lives > half && j < lives-half {
				c = color.RGBA{60, 90, 230, 255}
			}
		}
		vector.DrawFilledCircle(screen, x, y, livesCircleRadius, c, true)
		vector.StrokeCircle(screen, x, y, livesCircleRadius, 1, color.White, true)
	}
	label := strconv.Itoa(lives) + "/" + strconv.Itoa(maxLives)
	text.Draw(screen, label, face, int(i.X), int(i.Y)-4, color.White)
}
