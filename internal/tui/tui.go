// Package tui is the terminal frontend: the same run, drawn top-down with
// tcell.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"polychase/internal/app"
	"polychase/internal/progress"
	"polychase/internal/sim"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

type UI struct {
	screen tcell.Screen
	flow   *app.Flow
	logger *slog.Logger
	keys   heldKeys
	now    func() time.Time
	quit   bool
}

func New(screen tcell.Screen, flow *app.Flow, logger *slog.Logger) *UI {
	if logger == nil {
		logger = slog.Default()
	}
	return &UI{screen: screen, flow: flow, logger: logger, now: time.Now}
}

// Run opens the terminal and plays until the user quits or ctx ends.
func Run(ctx context.Context, flow *app.Flow, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	return New(screen, flow, logger).Loop(ctx)
}

// Loop pumps terminal events and frames until quit.
func (u *UI) Loop(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go u.pumpEvents(events, done)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := u.now()

	for !u.quit {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			u.handleEvent(ctx, ev)
		case <-ticker.C:
			now := u.now()
			u.frame(now, now.Sub(last).Seconds())
			last = now
		}
	}
	return nil
}

// pumpEvents forwards terminal events until the screen is finalized or done
// is closed.
func (u *UI) pumpEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (u *UI) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		u.handleKey(ctx, ev.Key(), ev.Rune())
	case *tcell.EventResize:
		u.screen.Sync()
	}
}

func (u *UI) handleKey(ctx context.Context, key tcell.Key, r rune) {
	if key == tcell.KeyCtrlC {
		u.quit = true
		return
	}
	f := u.flow
	switch f.Screen {
	case app.ScreenMenu:
		switch {
		case key == tcell.KeyEnter || r == 's' || r == 'S':
			f.OpenMissionSelect()
		case r == 'b' || r == 'B':
			f.OpenShop()
		case key == tcell.KeyEscape || r == 'q' || r == 'Q':
			u.quit = true
		}
	case app.ScreenMissionSelect:
		switch key {
		case tcell.KeyEscape:
			f.Back()
		case tcell.KeyEnter:
			f.SubmitQuery(ctx)
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			f.Backspace()
		case tcell.KeyRune:
			f.TypeRune(r)
		}
	case app.ScreenScouting:
		if key == tcell.KeyEscape {
			f.Back()
		}
	case app.ScreenPlaying:
		if c, ok := driveControl(key, r); ok {
			u.keys.press(c, u.now())
		}
	case app.ScreenBusted:
		if key == tcell.KeyEnter || key == tcell.KeyEscape || r == ' ' {
			f.Back()
		}
	case app.ScreenShop:
		switch {
		case key == tcell.KeyUp || r == 'k' || r == 'w':
			f.MoveCursor(-1)
		case key == tcell.KeyDown || r == 'j' || r == 's':
			f.MoveCursor(1)
		case key == tcell.KeyEnter:
			_ = f.BuySelected(ctx)
		case key == tcell.KeyEscape:
			f.Back()
		}
	}
}

// driveControl maps WASD and the arrow keys.
func driveControl(key tcell.Key, r rune) (control, bool) {
	switch key {
	case tcell.KeyUp:
		return ctlForward, true
	case tcell.KeyDown:
		return ctlBackward, true
	case tcell.KeyLeft:
		return ctlLeft, true
	case tcell.KeyRight:
		return ctlRight, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return ctlForward, true
		case 's', 'S':
			return ctlBackward, true
		case 'a', 'A':
			return ctlLeft, true
		case 'd', 'D':
			return ctlRight, true
		}
	}
	return 0, false
}

// frame advances one tick and redraws.
func (u *UI) frame(now time.Time, dt float64) {
	f := u.flow
	if f.Poll() {
		u.keys.reset()
	}
	snap := f.Step(u.keys.snapshot(now), dt)
	u.draw(snap)
}

func (u *UI) draw(snap sim.Snapshot) {
	s := u.screen
	s.Clear()
	w, h := s.Size()
	f := u.flow
	st := f.App.Stats

	switch f.Screen {
	case app.ScreenPlaying, app.ScreenBusted:
		u.drawRun(snap, w, h)
		if f.Screen == app.ScreenBusted {
			u.drawBusted(w, h)
		}
	default:
		drawText(s, 2, 1, styleTitle, "POLY CHASE")
		drawText(s, 2, 2, styleDim, "World Heist Simulator")
		x := drawText(s, 2, 4, styleDim, "CASH ")
		x = drawText(s, x, 4, styleCash, fmt.Sprintf("$%d", st.Money))
		x = drawText(s, x+3, 4, styleDim, "HIGH SCORE ")
		drawText(s, x, 4, styleTitle, fmt.Sprintf("%d", st.HighScore))
		drawText(s, 2, 5, styleDim, fmt.Sprintf("Speed Lvl %d • %s Class", st.SpeedLevel, strings.ToUpper(string(st.Cosmetic))))

		switch f.Screen {
		case app.ScreenMenu:
			drawText(s, 4, 7, styleDefault, "[Enter] START HEIST")
			drawText(s, 4, 8, styleDefault, "[B]     BLACK MARKET")
			drawText(s, 4, 9, styleDim, "[Q]     quit")
		case app.ScreenMissionSelect:
			drawText(s, 2, 7, styleTitle, "Select Target")
			drawText(s, 2, 8, styleDim, "e.g. Bank in Tokyo, Museum in Paris...")
			x := drawText(s, 2, 10, styleDefault, "> "+f.Query)
			s.SetContent(x, 10, '_', nil, styleSelected)
			drawText(s, 2, 12, styleDim, "[Enter] Launch Mission  [Esc] Back")
		case app.ScreenScouting:
			spin := `|/-\`[int(u.now().UnixMilli()/120)%4]
			drawText(s, 2, 7, styleTitle, fmt.Sprintf("%c Scouting %q...", spin, f.Query))
			drawText(s, 2, 9, styleDim, "[Esc] Cancel")
		case app.ScreenShop:
			u.drawShop(st)
		}
		if f.Notice != "" {
			drawText(s, 2, h-2, styleAlert, f.Notice)
		}
	}
	s.Show()
}

func (u *UI) drawRun(snap sim.Snapshot, w, h int) {
	s := u.screen
	f := u.flow
	loc := f.App.Mission.Location

	x := drawText(s, 0, 0, styleDim, "TARGET ")
	x = drawText(s, x, 0, styleTitle, loc.Name)
	x = drawText(s, x+1, 0, styleDim, loc.Address)
	x = drawText(s, x+3, 0, styleDim, "SCORE ")
	x = drawText(s, x, 0, styleTitle, fmt.Sprintf("%d", snap.Score))
	drawText(s, x+3, 0, styleAlert, fmt.Sprintf("COPS %d", len(snap.Pursuers)))

	// Cells are about twice as tall as wide.
	vh := max(h-2, 1)
	vw := min(w, 2*vh)
	v := viewport{x0: (w - vw) / 2, y0: 1, w: vw, h: vh}
	drawArena(s, v, snap, f.App.Session.Elapsed)

	drawText(s, 0, h-1, styleDim, "WASD or Arrows to Drive")
}

func (u *UI) drawBusted(w, h int) {
	s := u.screen
	res := u.flow.App.Last
	lines := []string{"BUSTED", "The cops caught you."}
	if res != nil {
		lines = append(lines, fmt.Sprintf("You earned $%d.", res.Earned))
		if res.NewHigh {
			lines = append(lines, "New high score!")
		}
	}
	lines = append(lines, "[Enter] Continue")

	bw := 28
	x0, y0 := (w-bw)/2, h/2-len(lines)/2-1
	fill(s, x0, y0, bw, len(lines)+2, ' ', styleDefault)
	for i, l := range lines {
		st := styleDefault
		if i == 0 {
			st = styleAlert
		}
		drawText(s, x0+2, y0+1+i, st, l)
	}
}

func (u *UI) drawShop(st progress.Stats) {
	s := u.screen
	drawText(s, 2, 7, styleTitle, "GARAGE")
	for i, it := range progress.Catalog {
		row := 9 + i*2
		style := styleDefault
		if i == u.flow.ShopCursor {
			style = styleSelected
		}
		x := drawText(s, 2, row, style, fmt.Sprintf(" %-16s", it.Name))
		drawText(s, x+1, row, styleCash, app.ItemLabel(st, it))
		desc := it.Description
		if it.ID == progress.ItemEngine {
			desc += fmt.Sprintf(" (Level %d / %d)", st.SpeedLevel, progress.MaxSpeedLevel)
		}
		drawText(s, 4, row+1, styleDim, desc)
	}
	drawText(s, 2, 10+2*len(progress.Catalog), styleDim, "[↑/↓] Select  [Enter] Buy  [Esc] Back")
}
