//go:build !android

package game

import (
	"fmt"
	"strings"

	"polychase/internal/app"
	"polychase/internal/progress"
	"polychase/internal/scene"
	"polychase/internal/sim"
)

// RenderHUD draws the overlay for the current screen using the font atlas.
func RenderHUD(r *Renderer, f *app.Flow, snap sim.Snapshot, muted bool, now float64, fbW, fbH int) {
	pal := scene.Palette
	s := float32(HUDScale)
	line := int(float32(scene.FontCellH)*s) + 6

	switch f.Screen {
	case app.ScreenPlaying, app.ScreenBusted:
		renderRunHUD(r, f, snap, fbW, fbH)
		if f.Screen == app.ScreenBusted {
			renderBusted(r, f.App.Last, fbW, fbH)
		}
	default:
		st := f.App.Stats
		top := fbH / 8
		r.DrawCentered("POLY CHASE", fbW, top, TitleScale, pal.Title)
		r.DrawCentered("World Heist Simulator", fbW, top+int(scene.FontCellH*TitleScale)+4, s*0.7, pal.TextDim)

		y := top + int(scene.FontCellH*TitleScale) + 2*line
		stats := fmt.Sprintf("CASH $%d   HIGH SCORE %d", st.Money, st.HighScore)
		r.DrawCentered(stats, fbW, y, s, pal.Cash)
		y += line
		r.DrawCentered(fmt.Sprintf("Speed Lvl %d - %s Class", st.SpeedLevel, strings.ToUpper(string(st.Cosmetic))), fbW, y, s*0.8, pal.TextDim)
		y += 2 * line

		switch f.Screen {
		case app.ScreenMenu:
			r.DrawCentered("[Enter] START HEIST", fbW, y, s, pal.Text)
			r.DrawCentered("[B] BLACK MARKET", fbW, y+line, s, pal.Text)
			r.DrawCentered("[Esc] quit", fbW, y+2*line, s*0.8, pal.TextDim)
		case app.ScreenMissionSelect:
			r.DrawCentered("Select Target", fbW, y, s, pal.Title)
			r.DrawCentered("e.g. Bank in Tokyo, Museum in Paris...", fbW, y+line, s*0.7, pal.TextDim)
			cursor := " "
			if int(now*2)%2 == 0 {
				cursor = "_"
			}
			r.DrawCentered("> "+f.Query+cursor, fbW, y+5*line/2, s, pal.Text)
			r.DrawCentered("[Enter] Launch Mission  [Esc] Back", fbW, y+4*line, s*0.7, pal.TextDim)
		case app.ScreenScouting:
			spin := `|/-\`[int(now*8)%4]
			r.DrawCentered(fmt.Sprintf("%c Scouting %q...", spin, f.Query), fbW, y, s, pal.Title)
			r.DrawCentered("[Esc] Cancel", fbW, y+2*line, s*0.7, pal.TextDim)
		case app.ScreenShop:
			renderShop(r, f, st, y, fbW)
		}
		if f.Notice != "" {
			r.DrawCentered(f.Notice, fbW, fbH-2*line, s, pal.Alert)
		}
	}
	if muted {
		r.DrawString("MUTED [F2]", 8, fbH-line, s*0.6, pal.TextDim)
	}

	r.FlushText(fbW, fbH)
}

func renderRunHUD(r *Renderer, f *app.Flow, snap sim.Snapshot, fbW, fbH int) {
	pal := scene.Palette
	s := float32(HUDScale)
	loc := f.App.Mission.Location

	r.DrawRect(0, 0, fbW, int(scene.FontCellH*s*2)+16, pal.Panel, 0.7)
	r.DrawString("TARGET", 12, 8, s*0.6, pal.TextDim)
	r.DrawString(loc.Name, 12, 8+int(scene.FontCellH*s*0.6)+2, s, pal.Title)
	r.DrawString(loc.Address, 12, 8+int(scene.FontCellH*s*1.6)+4, s*0.6, pal.TextDim)

	score := fmt.Sprintf("%d", snap.Score)
	r.DrawString("SCORE", fbW-12-scene.TextWidth("SCORE", s*0.6), 8, s*0.6, pal.TextDim)
	r.DrawString(score, fbW-12-scene.TextWidth(score, s*1.5), 8+int(scene.FontCellH*s*0.6)+2, s*1.5, pal.Text)

	cops := fmt.Sprintf("COPS %d", len(snap.Pursuers))
	copCol := pal.Alert
	if scene.SirenPhase(f.App.Session.Elapsed) {
		copCol = copCol.Mul(160)
	}
	r.DrawCentered(cops, fbW, 12, s, copCol)

	hint := "WASD or Arrows to Drive"
	r.DrawCentered(hint, fbW, fbH-int(scene.FontCellH*s*0.7)-12, s*0.7, pal.TextDim)
}

func renderBusted(r *Renderer, res *app.Result, fbW, fbH int) {
	pal := scene.Palette
	s := float32(HUDScale)
	line := int(float32(scene.FontCellH)*s) + 8

	lines := []string{"The cops caught you."}
	if res != nil {
		lines = append(lines, fmt.Sprintf("You earned $%d.", res.Earned))
		if res.NewHigh {
			lines = append(lines, "New high score!")
		}
	}
	lines = append(lines, "[Enter] Continue")

	h := (len(lines)+3)*line + 24
	w := fbW * 2 / 3
	x0, y0 := (fbW-w)/2, (fbH-h)/2
	r.DrawRect(x0, y0, w, h, pal.Panel, 0.9)
	r.DrawCentered("BUSTED", fbW, y0+16, s*2, pal.Alert)
	y := y0 + 16 + 3*line
	for i, l := range lines {
		col := pal.Text
		if i == len(lines)-1 {
			col = pal.TextDim
		}
		r.DrawCentered(l, fbW, y, s, col)
		y += line
	}
}

func renderShop(r *Renderer, f *app.Flow, st progress.Stats, y, fbW int) {
	pal := scene.Palette
	s := float32(HUDScale)
	line := int(float32(scene.FontCellH)*s) + 6

	r.DrawCentered("GARAGE", fbW, y, s, pal.Title)
	y += line + line/2
	w := fbW * 2 / 3
	x := (fbW - w) / 2
	for i, it := range progress.Catalog {
		if i == f.ShopCursor {
			r.DrawRect(x-8, y-4, w+16, 2*line, pal.Selected, 0.35)
		}
		r.DrawString(it.Name, x, y, s, pal.Text)
		label := app.ItemLabel(st, it)
		labelCol := pal.Cash
		if st.CanBuy(it) != nil {
			labelCol = labelCol.Add(-90, -90, -40)
		}
		r.DrawString(label, x+w-scene.TextWidth(label, s), y, s, labelCol)
		desc := it.Description
		if it.ID == progress.ItemEngine {
			desc += fmt.Sprintf(" (Level %d / %d)", st.SpeedLevel, progress.MaxSpeedLevel)
		}
		r.DrawString(desc, x, y+line, s*0.6, pal.TextDim)
		y += 2*line + 4
	}
	r.DrawCentered("[Up/Down] Select  [Enter] Buy  [Esc] Back", fbW, y+line/2, s*0.7, pal.TextDim)
}
