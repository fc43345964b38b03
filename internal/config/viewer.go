package config

import "image/color"

// Debug viewer layout.
const (
	CellPixels    = 26
	MapOffsetX    = 20
	MapOffsetY    = 60
	ScreenWidth   = MapOffsetX*2 + WorldWidth*CellPixels
	ScreenHeight  = MapOffsetY + WorldHeight*CellPixels + 170
	ClickCooldown = 300 // ms

	IndicatorOffsetX = 30
	IndicatorRadius  = 10.0
	ButtonSize       = 12.0
	StrokeWidth      = 1.0
)

var (
	BackgroundColor  = color.RGBA{20, 20, 30, 255}
	BuildableColor   = color.RGBA{70, 100, 120, 220}
	LaneColor        = color.RGBA{150, 120, 70, 230}
	EntryColor       = color.RGBA{0, 255, 0, 255}
	GoalColor        = color.RGBA{255, 0, 0, 255}
	GridStrokeColor  = color.RGBA{90, 120, 140, 255}
	TextLightColor   = color.RGBA{240, 240, 240, 255}
	TextDarkColor    = color.RGBA{20, 20, 30, 255}
	CountdownColor   = color.RGBA{70, 130, 180, 220}
	WaveActiveColor  = color.RGBA{220, 60, 60, 220}
	GameOverColor    = color.RGBA{90, 90, 90, 220}
	UnitColor        = color.RGBA{230, 230, 230, 255}
	EliteColor       = color.RGBA{255, 200, 0, 255}
	ShotColor        = color.RGBA{255, 255, 0, 255}
	SiegeShotColor   = color.RGBA{255, 90, 40, 255}
	SelectedColor    = color.RGBA{255, 255, 255, 255}
	UnpoweredColor   = color.RGBA{255, 60, 60, 255}
	PowerLinkColor   = color.RGBA{255, 255, 0, 96}
	RangeColor       = color.RGBA{255, 255, 255, 60}
	ShieldColor      = color.RGBA{80, 180, 255, 255}
	UIColorBlue      = color.RGBA{70, 130, 180, 255}
	EmplacementColor = []color.RGBA{
		{200, 200, 200, 255}, // blaster
		{120, 200, 255, 255}, // lancer
		{180, 120, 255, 255}, // arc
		{140, 230, 230, 255}, // frost
		{200, 150, 90, 255},  // quake
		{250, 220, 60, 255},  // generator
	}
	SpeedButtonColors = []color.Color{
		color.RGBA{70, 130, 180, 255},
		color.RGBA{220, 160, 40, 255},
		color.RGBA{220, 60, 60, 255},
	}
)
