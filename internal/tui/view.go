package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"polychase/internal/sim"
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCash     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleAlert    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleFloor    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(60, 60, 70))
	styleBuilding = tcell.StyleDefault.Foreground(tcell.NewRGBColor(110, 110, 125))
	styleLit      = tcell.StyleDefault.Foreground(tcell.NewRGBColor(253, 224, 71))
	styleSirenRed = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleSirenBlu = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
)

// cosmeticStyle is the terminal colour for each vehicle finish.
func cosmeticStyle(c sim.Cosmetic) tcell.Style {
	switch c {
	case sim.CosmeticGold:
		return tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 215, 0)).Bold(true)
	case sim.CosmeticNeon:
		return tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 221)).Bold(true)
	case sim.CosmeticStealth:
		return tcell.StyleDefault.Foreground(tcell.NewRGBColor(51, 51, 51)).Bold(true)
	default:
		return tcell.StyleDefault.Foreground(tcell.NewRGBColor(59, 130, 246)).Bold(true)
	}
}

// sirenStyle shows red for the first half of every 0.5 s period, blue for
// the second.
func sirenStyle(elapsed float64) tcell.Style {
	if math.Mod(elapsed, 0.5) < 0.25 {
		return styleSirenRed
	}
	return styleSirenBlu
}

// viewport maps the arena onto a w×h cell rectangle at (x0, y0). Travel
// toward −Z points up the screen.
type viewport struct {
	x0, y0 int
	w, h   int
}

func (v viewport) project(x, z float64) (col, row int) {
	span := 2 * sim.ArenaBound
	col = v.x0 + int(math.Round((x+sim.ArenaBound)/span*float64(v.w-1)))
	row = v.y0 + int(math.Round((z+sim.ArenaBound)/span*float64(v.h-1)))
	return col, row
}

func (v viewport) contains(col, row int) bool {
	return col >= v.x0 && col < v.x0+v.w && row >= v.y0 && row < v.y0+v.h
}

// cellSize is the world extent of one cell along x and z.
func (v viewport) cellSize() (float64, float64) {
	span := 2 * sim.ArenaBound
	return span / float64(max(v.w-1, 1)), span / float64(max(v.h-1, 1))
}

var arrows = [8]rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// headingGlyph picks the arrow for forward travel at heading h.
func headingGlyph(h float64) rune {
	dx, dz := -math.Sin(h), -math.Cos(h)
	ang := math.Atan2(dx, -dz) // 0 is up the screen, π/2 is right
	oct := int(math.Round(ang/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return arrows[oct]
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func fill(s tcell.Screen, x0, y0, w, h int, r rune, style tcell.Style) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			s.SetContent(x, y, r, nil, style)
		}
	}
}

// drawArena renders one snapshot top-down into v.
func drawArena(s tcell.Screen, v viewport, snap sim.Snapshot, elapsed float64) {
	fill(s, v.x0, v.y0, v.w, v.h, '·', styleFloor)

	cw, ch := v.cellSize()
	for _, b := range snap.Buildings {
		c0, r0 := v.project(b.X-b.Width/2, b.Z-b.Depth/2)
		c1, r1 := v.project(b.X+b.Width/2, b.Z+b.Depth/2)
		st := styleBuilding
		if b.Lit {
			st = styleLit
		}
		glyph := '▓'
		if b.Width < cw && b.Depth < ch {
			glyph = '▪'
		}
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if v.contains(col, row) {
					s.SetContent(col, row, glyph, nil, st)
				}
			}
		}
	}

	for _, p := range snap.Pursuers {
		col, row := v.project(p.X, p.Z)
		if v.contains(col, row) {
			s.SetContent(col, row, 'P', nil, sirenStyle(elapsed))
		}
	}

	col, row := v.project(snap.Player.X, snap.Player.Z)
	if v.contains(col, row) {
		s.SetContent(col, row, headingGlyph(snap.Player.Heading), nil, cosmeticStyle(snap.Cosmetic))
	}
}
