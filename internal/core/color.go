package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to a terminal style.
type Color uint8

// Base palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
)

// Roles used by the lander renderer.
const (
	ColorTerrain  = ColorGray
	ColorPad      = ColorBrightGreen
	ColorCraft    = ColorWhite
	ColorFlame    = ColorOrange
	ColorHUD      = ColorCyan
	ColorWarning  = ColorBrightYellow
	ColorDanger   = ColorBrightRed
	ColorSuccess  = ColorGreen
	ColorDebris   = ColorRed
)
