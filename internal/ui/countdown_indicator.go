package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CountdownIndicator shows the time until the next wave as a filling bar and
// unspent research points as boxes beneath it.
type CountdownIndicator struct {
	X, Y float32
}

const (
	barWidth    = 118
	barHeight   = 12
	pointWidth  = 16
	pointHeight = 12
	pointGap    = 9
	maxPoints   = 5
	borderWidth = 1
)

var (
	barFillColor = color.RGBA{70, 100, 120, 220}
	borderColor  = color.White
)

func NewCountdownIndicator(x, y float32) *CountdownIndicator {
	return &CountdownIndicator{X: x, Y: y}
}

// Draw fills the bar by fill (0..1) and one box per research point.
func (i *CountdownIndicator) Draw(screen *ebiten.Image, fill float64, points int) {
	vector.StrokeRect(screen, i.X, i.Y, barWidth, barHeight, borderWidth, borderColor, true)
	fill = min(max(fill, 0), 1)
	if w := float32(float64(barWidth-borderWidth*2) * fill); w > 0 {
		vector.DrawFilledRect(screen, i.X+borderWidth, i.Y+borderWidth, w, barHeight-borderWidth*2, barFillColor, true)
	}

	y := i.Y + barHeight + 10
	for j := 0; j < maxPoints; j++ {
		x := i.X + float32(j)*(pointWidth+pointGap)
		vector.StrokeRect(screen, x, y, pointWidth, pointHeight, borderWidth, borderColor, true)
		if j < points {
			vector.DrawFilledRect(screen, x+borderWidth, y+borderWidth, pointWidth-borderWidth*2, pointHeight-borderWidth*2, barFillColor, true)
		}
	}
}
