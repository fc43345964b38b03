// internal/ui/info_panel.go
package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/session"
	"go-lane-defense/internal/types"
)

const (
	panelHeight    = 150
	panelMargin    = 5
	animationSpeed = 10.0
	lineHeight     = 18
	columnSpacing  = 200
	buttonWidth    = 96
	buttonHeight   = 28
	buttonGap      = 8
)

// Button is a clickable panel button that queues one action.
type Button struct {
	Rect   image.Rectangle
	Text   string
	Action session.Action
}

// InfoPanel slides up from the bottom edge and shows the selected
// emplacement with its construction actions.
type InfoPanel struct {
	IsVisible    bool
	TargetEntity types.EntityID
	fontFace     font.Face
	catalog      *defs.Catalog
	currentY     float64
	targetY      float64
	buttons      []Button
}

func NewInfoPanel(face font.Face, catalog *defs.Catalog) *InfoPanel {
	return &InfoPanel{
		fontFace: face,
		catalog:  catalog,
		currentY: config.ScreenHeight,
		targetY:  config.ScreenHeight,
	}
}

func (p *InfoPanel) SetTarget(id types.EntityID) {
	p.TargetEntity = id
	p.IsVisible = true
	p.targetY = config.ScreenHeight - panelHeight
}

func (p *InfoPanel) Hide() {
	p.targetY = config.ScreenHeight
}

// Contains reports whether a click lands on the visible panel.
func (p *InfoPanel) Contains(x, y int) bool {
	return p.IsVisible && float64(y) >= p.currentY
}

// Update animates the panel and returns the actions of clicked buttons.
func (p *InfoPanel) Update() []session.Action {
	if p.currentY != p.targetY {
		diff := p.targetY - p.currentY
		if math.Abs(diff) < animationSpeed {
			p.currentY = p.targetY
		} else if diff > 0 {
			p.currentY += animationSpeed
		} else {
			p.currentY -= animationSpeed
		}
		if p.currentY >= config.ScreenHeight {
			p.IsVisible = false
			p.TargetEntity = 0
		}
	}

	if !p.IsVisible || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return nil
	}
	x, y := ebiten.CursorPosition()
	click := image.Point{X: x, Y: y}
	for _, b := range p.buttons {
		if click.In(b.Rect) {
			return []session.Action{b.Action}
		}
	}
	return nil
}

func (p *InfoPanel) Draw(screen *ebiten.Image, snap *session.Snapshot) {
	if !p.IsVisible && p.currentY >= config.ScreenHeight {
		return
	}
	panelRect := image.Rect(
		panelMargin,
		int(p.currentY)+panelMargin,
		config.ScreenWidth-panelMargin,
		int(p.currentY)+panelHeight-panelMargin,
	)
	bgColor := color.RGBA{R: 25, G: 35, B: 45, A: 230}
	vector.DrawFilledRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), bgColor, true)
	vector.StrokeRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), 2, config.UIColorBlue, true)

	p.buttons = p.buttons[:0]
	var target *session.EmplacementView
	for i := range snap.Emplacements {
		if snap.Emplacements[i].ID == p.TargetEntity {
			target = &snap.Emplacements[i]
		}
	}
	if target == nil {
		return
	}
	p.drawInfo(screen, target, panelRect.Min.X+15, panelRect.Min.Y+20)
	p.layoutButtons(target, panelRect)
	for _, b := range p.buttons {
		p.drawButton(screen, b)
	}
}

func (p *InfoPanel) drawInfo(screen *ebiten.Image, e *session.EmplacementView, x, y int) {
	title := e.Name
	if e.Branch != 0 {
		title += " (" + e.Branch.String() + ")"
	} else {
		title += fmt.Sprintf(" L%d", e.Level)
	}
	text.Draw(screen, title, p.fontFace, x, y, config.TextLightColor)
	y += lineHeight

	col2 := x + columnSpacing
	text.Draw(screen, fmt.Sprintf("Health: %.0f%%", e.Health*100), p.fontFace, x, y, config.TextLightColor)
	text.Draw(screen, fmt.Sprintf("Shield: %.0f%%", e.Shield*100), p.fontFace, col2, y, config.TextLightColor)
	y += lineHeight
	text.Draw(screen, fmt.Sprintf("Range: %.1f", e.Range), p.fontFace, x, y, config.TextLightColor)
	power := "unpowered"
	if e.Powered || e.Kind == defs.Generator {
		power = "powered"
	}
	text.Draw(screen, power, p.fontFace, col2, y, config.TextLightColor)
	y += lineHeight
	status := e.Construction
	if e.Construction != "idle" {
		status = fmt.Sprintf("%s %.0f%%", e.Construction, e.Progress*100)
	}
	text.Draw(screen, status, p.fontFace, x, y, config.TextLightColor)
	if e.Buffed {
		text.Draw(screen, "buffed", p.fontFace, col2, y, config.TextLightColor)
	}
}

// layoutButtons lays out the actions that make sense for e, right to left.
func (p *InfoPanel) layoutButtons(e *session.EmplacementView, panel image.Rectangle) {
	def := p.catalog.Emplacement(e.Kind)
	add := func(label string, a session.Action) {
		a.Emplacement = e.ID
		right := panel.Max.X - 15 - len(p.buttons)*(buttonWidth+buttonGap)
		p.buttons = append(p.buttons, Button{
			Rect:   image.Rect(right-buttonWidth, panel.Max.Y-buttonHeight-15, right, panel.Max.Y-15),
			Text:   label,
			Action: a,
		})
	}

	add("Sell", session.Action{Kind: session.ActionSell})
	if e.Construction != "idle" {
		return
	}
	if e.Shield < 1 {
		add("Shield", session.Action{Kind: session.ActionShield})
	}
	if e.Health < 1 {
		add("Repair", session.Action{Kind: session.ActionRepair})
	}
	if e.Kind != defs.Generator {
		add(fmt.Sprintf("Buff %d", config.BuffCost), session.Action{Kind: session.ActionBuff})
	}
	switch {
	case e.Branch != 0:
	case e.Level < defs.MaxLevel:
		add(fmt.Sprintf("Up %d", def.Levels[e.Level+1].Cost), session.Action{Kind: session.ActionUpgrade})
	case e.Kind != defs.Generator:
		add(fmt.Sprintf("B %d", def.Branch(defs.BranchB).Cost), session.Action{Kind: session.ActionBranch, Branch: defs.BranchB})
		add(fmt.Sprintf("A %d", def.Branch(defs.BranchA).Cost), session.Action{Kind: session.ActionBranch, Branch: defs.BranchA})
	}
}

func (p *InfoPanel) drawButton(screen *ebiten.Image, b Button) {
	btnColor := color.RGBA{R: 100, G: 60, B: 60, A: 255}
	if b.Action.Kind == session.ActionUpgrade || b.Action.Kind == session.ActionBranch {
		btnColor = color.RGBA{R: 180, G: 140, B: 20, A: 255}
	}
	r := b.Rect
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), btnColor, true)

	bounds := text.BoundString(p.fontFace, b.Text)
	tx := r.Min.X + (r.Dx()-bounds.Dx())/2
	ty := r.Min.Y + (r.Dy()-bounds.Dy())/2 - bounds.Min.Y
	text.Draw(screen, b.Text, p.fontFace, tx, ty, color.White)
}
