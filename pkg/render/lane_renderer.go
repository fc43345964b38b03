package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/lanes"
	"go-lane-defense/internal/session"
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/gridmap"
)

// LaneRenderer draws the grid and lanes once into a cached image and the
// entities from a session snapshot every frame.
type LaneRenderer struct {
	grid     *gridmap.Grid
	lanes    []*lanes.Lane
	cellSize float64
	offsetX  float64
	offsetY  float64
	colors   *MapColors
	entities *EntityColors
	fontFace font.Face

	strokeImg *ebiten.Image
	strokeVs  []ebiten.Vertex
	strokeIs  []uint16
	mapImage  *ebiten.Image
}

func NewLaneRenderer(grid *gridmap.Grid, ls []*lanes.Lane, cellSize, offsetX, offsetY float64, screenWidth, screenHeight int, face font.Face, colors *MapColors, entities *EntityColors) *LaneRenderer {
	strokeImg := ebiten.NewImage(1, 1)
	strokeImg.Fill(color.White)

	r := &LaneRenderer{
		grid:      grid,
		lanes:     ls,
		cellSize:  cellSize,
		offsetX:   offsetX,
		offsetY:   offsetY,
		colors:    colors,
		entities:  entities,
		fontFace:  face,
		strokeImg: strokeImg,
		strokeVs:  make([]ebiten.Vertex, 0, 256),
		strokeIs:  make([]uint16, 0, 256),
		mapImage:  ebiten.NewImage(screenWidth, screenHeight),
	}
	r.RenderMapImage()
	return r
}

// ToScreen converts world units to screen pixels.
func (r *LaneRenderer) ToScreen(p geom.Vec2) (float32, float32) {
	return float32(r.offsetX + p.X*r.cellSize), float32(r.offsetY + p.Y*r.cellSize)
}

// CellAt converts a screen position back to a grid cell.
func (r *LaneRenderer) CellAt(x, y int) (gridmap.Cell, bool) {
	fx := (float64(x) - r.offsetX) / r.cellSize
	fy := (float64(y) - r.offsetY) / r.cellSize
	if fx < 0 || fy < 0 {
		return gridmap.Cell{}, false
	}
	c := gridmap.Cell{X: int(fx), Y: int(fy)}
	return c, r.grid.InBounds(c)
}

// RenderMapImage redraws the static background.
func (r *LaneRenderer) RenderMapImage() {
	r.mapImage.Clear()
	r.mapImage.Fill(r.colors.BackgroundColor)

	size := float32(r.cellSize)
	for y := 0; y < r.grid.Height; y++ {
		for x := 0; x < r.grid.Width; x++ {
			c := gridmap.Cell{X: x, Y: y}
			px, py := r.ToScreen(geom.V(float64(x), float64(y)))
			fill := r.colors.BuildableColor
			if !r.grid.Buildable(c) {
				fill = r.colors.LaneColor
			}
			vector.DrawFilledRect(r.mapImage, px+0.5, py+0.5, size-1, size-1, fill, false)
		}
	}

	for _, l := range r.lanes {
		r.strokeLane(r.mapImage, l)
		sx, sy := r.ToScreen(l.Start())
		ex, ey := r.ToScreen(l.End())
		vector.DrawFilledCircle(r.mapImage, sx, sy, size*0.35, r.colors.EntryColor, true)
		vector.DrawFilledCircle(r.mapImage, ex, ey, size*0.35, r.colors.GoalColor, true)
	}
}

func (r *LaneRenderer) strokeLane(target *ebiten.Image, l *lanes.Lane) {
	path := vector.Path{}
	for i, p := range l.Points() {
		x, y := r.ToScreen(p)
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	r.strokeVs, r.strokeIs = path.AppendVerticesAndIndicesForStroke(r.strokeVs[:0], r.strokeIs[:0], &vector.StrokeOptions{
		Width:    r.colors.StrokeWidth,
		LineJoin: vector.LineJoinRound,
	})
	c := r.colors.GridStrokeColor
	for i := range r.strokeVs {
		r.strokeVs[i].ColorR = float32(c.R) / 255
		r.strokeVs[i].ColorG = float32(c.G) / 255
		r.strokeVs[i].ColorB = float32(c.B) / 255
		r.strokeVs[i].ColorA = float32(c.A) / 255
	}
	target.DrawTriangles(r.strokeVs, r.strokeIs, r.strokeImg, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// Draw renders the cached map and then every entity in snap.
func (r *LaneRenderer) Draw(screen *ebiten.Image, snap *session.Snapshot) {
	screen.DrawImage(r.mapImage, nil)
	for i := range snap.Emplacements {
		r.drawEmplacement(screen, &snap.Emplacements[i])
	}
	for i := range snap.Units {
		r.drawUnit(screen, &snap.Units[i])
	}
	for _, s := range snap.Shots {
		x, y := r.ToScreen(s.Position)
		c := r.entities.Shot
		if s.Siege {
			c = r.entities.SiegeShot
		}
		vector.DrawFilledCircle(screen, x, y, 2.5, c, true)
	}
}

func (r *LaneRenderer) drawEmplacement(screen *ebiten.Image, e *session.EmplacementView) {
	size := float32(r.cellSize)
	x, y := r.ToScreen(geom.V(float64(e.Cell.X), float64(e.Cell.Y)))
	fill := r.entities.Emplacements[int(e.Kind)%len(r.entities.Emplacements)]
	if e.Construction == "building" {
		fill = DarkenColor(fill)
	}
	vector.DrawFilledRect(screen, x+3, y+3, size-6, size-6, fill, false)

	if e.Kind != defs.Generator && !e.Powered && e.Construction != "building" {
		vector.StrokeRect(screen, x+3, y+3, size-6, size-6, 2, r.entities.Unpowered, false)
	}
	if e.Shield > 0 {
		vector.StrokeRect(screen, x+1, y+1, size-2, size-2, 1.5, r.entities.Shield, false)
	}
	if e.Selected {
		cx, cy := r.ToScreen(e.Position)
		vector.StrokeCircle(screen, cx, cy, float32(e.Range*r.cellSize), 1, r.entities.Range, true)
		vector.StrokeRect(screen, x, y, size, size, 2, r.entities.Selected, false)
	}
	if e.Aim != nil {
		cx, cy := r.ToScreen(e.Position)
		tip := e.Position.Add(geom.FromAngle(*e.Aim).Scale(0.6))
		tx, ty := r.ToScreen(tip)
		vector.StrokeLine(screen, cx, cy, tx, ty, 2, r.entities.Selected, true)
	}

	if e.Construction != "idle" {
		vector.DrawFilledRect(screen, x+2, y+size-4, (size-4)*float32(e.Progress), 2, r.entities.Shield, false)
	} else if e.Health < 1 {
		vector.DrawFilledRect(screen, x+2, y+size-4, (size-4)*float32(e.Health), 2, HealthColor(e.Health), false)
	}
	if e.Level > 0 {
		label := string(rune('0' + e.Level))
		if e.Branch != 0 {
			label = e.Branch.String()
		}
		text.Draw(screen, label, r.fontFace, int(x)+4, int(y)+13, r.colors.BackgroundColor)
	}
}

func (r *LaneRenderer) drawUnit(screen *ebiten.Image, u *session.UnitView) {
	x, y := r.ToScreen(u.Position)
	radius := float32(r.cellSize) * 0.22
	switch u.Kind {
	case defs.Boss:
		radius *= 1.8
	case defs.UltraBoss:
		radius *= 2.4
	case defs.Spawnling, defs.Runner:
		radius *= 0.7
	}
	c := r.entities.Unit
	if u.Phased {
		c.A = 90
	}
	vector.DrawFilledCircle(screen, x, y, radius, c, true)
	if u.Elite > 0 {
		vector.StrokeCircle(screen, x, y, radius+1, float32(u.Elite), r.entities.Elite, true)
	}
	if u.Slowed {
		vector.StrokeCircle(screen, x, y, radius+3, 1, r.entities.Shield, true)
	}
	w := radius * 2
	vector.DrawFilledRect(screen, x-radius, y-radius-4, w*float32(u.Health), 2, HealthColor(u.Health), false)
}
