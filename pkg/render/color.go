// pkg/render/color.go
package render

import "image/color"

// MapColors holds the colors of the pre-rendered map background.
type MapColors struct {
	BackgroundColor color.RGBA
	BuildableColor  color.RGBA
	LaneColor       color.RGBA
	EntryColor      color.RGBA
	GoalColor       color.RGBA
	GridStrokeColor color.RGBA
	TextLightColor  color.RGBA
	StrokeWidth     float32
}

// EntityColors holds the colors of the dynamic layer.
type EntityColors struct {
	Emplacements []color.RGBA
	Unit         color.RGBA
	Elite        color.RGBA
	Shot         color.RGBA
	SiegeShot    color.RGBA
	Selected     color.RGBA
	Unpowered    color.RGBA
	Range        color.RGBA
	Shield       color.RGBA
}

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// HealthColor fades from green to red as fraction drops.
func HealthColor(fraction float64) color.RGBA {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	return color.RGBA{R: uint8(255 * (1 - fraction)), G: uint8(200 * fraction), B: 40, A: 255}
}
