package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"polychase/internal/progress"
	"polychase/internal/sim"
)

type Screen int

const (
	ScreenMenu Screen = iota
	ScreenMissionSelect
	ScreenScouting // waiting on the mission lookup
	ScreenPlaying
	ScreenBusted
	ScreenShop
)

func (s Screen) String() string {
	switch s {
	case ScreenMissionSelect:
		return "mission-select"
	case ScreenScouting:
		return "scouting"
	case ScreenPlaying:
		return "playing"
	case ScreenBusted:
		return "busted"
	case ScreenShop:
		return "shop"
	default:
		return "menu"
	}
}

const maxQueryLen = 64

type launchResult struct {
	mission Mission
	err     error
}

// Flow is the screen state machine shared by the frontends. All methods run
// on the frame goroutine; only the mission lookup runs elsewhere.
type Flow struct {
	App        *App
	Screen     Screen
	Query      string
	ShopCursor int
	Notice     string // last user-facing message

	pending chan launchResult
	cancel  context.CancelFunc
}

func NewFlow(a *App) *Flow {
	return &Flow{App: a, Screen: ScreenMenu}
}

func (f *Flow) OpenMissionSelect() {
	if f.Screen == ScreenMenu {
		f.Screen = ScreenMissionSelect
		f.Notice = ""
	}
}

func (f *Flow) OpenShop() {
	if f.Screen == ScreenMenu {
		f.Screen = ScreenShop
		f.Notice = ""
	}
}

// Back returns to the menu from any screen that allows it.
func (f *Flow) Back() {
	switch f.Screen {
	case ScreenMissionSelect, ScreenShop, ScreenBusted:
		f.Screen = ScreenMenu
	case ScreenScouting:
		if f.cancel != nil {
			f.cancel()
		}
		f.pending, f.cancel = nil, nil
		f.Screen = ScreenMissionSelect
	}
}

func (f *Flow) TypeRune(r rune) {
	if f.Screen != ScreenMissionSelect || utf8.RuneCountInString(f.Query) >= maxQueryLen {
		return
	}
	f.Query += string(r)
}

func (f *Flow) Backspace() {
	if f.Screen != ScreenMissionSelect || f.Query == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(f.Query)
	f.Query = f.Query[:len(f.Query)-size]
}

// SubmitQuery starts scouting. A blank query is ignored.
func (f *Flow) SubmitQuery(ctx context.Context) bool {
	if f.Screen != ScreenMissionSelect {
		return false
	}
	q := strings.TrimSpace(f.Query)
	if q == "" {
		return false
	}
	lctx, cancel := context.WithCancel(ctx)
	ch := make(chan launchResult, 1)
	go func() {
		m, err := f.App.Launch(lctx, q)
		ch <- launchResult{mission: m, err: err}
	}()
	f.pending, f.cancel = ch, cancel
	f.Screen = ScreenScouting
	return true
}

// Poll checks the pending lookup without blocking and starts the run once it
// resolves. It reports whether a run started.
func (f *Flow) Poll() bool {
	if f.Screen != ScreenScouting || f.pending == nil {
		return false
	}
	select {
	case res := <-f.pending:
		f.cancel()
		f.pending, f.cancel = nil, nil
		if res.err != nil {
			f.App.logger.Error("mission launch failed", "error", res.err)
			f.Notice = "Launch failed. Try again."
			f.Screen = ScreenMissionSelect
			return false
		}
		f.App.StartRun(res.mission)
		f.Screen = ScreenPlaying
		return true
	default:
		return false
	}
}

// Step advances play and switches to the busted screen when the run ends.
func (f *Flow) Step(in sim.InputSnapshot, dt float64) sim.Snapshot {
	if f.Screen != ScreenPlaying {
		return f.App.Session.Snapshot()
	}
	snap := f.App.Step(in, dt)
	if snap.State == sim.StateTerminated {
		f.Screen = ScreenBusted
	}
	return snap
}

func (f *Flow) MoveCursor(delta int) {
	if f.Screen != ScreenShop {
		return
	}
	n := len(progress.Catalog)
	f.ShopCursor = ((f.ShopCursor+delta)%n + n) % n
}

// BuySelected attempts the purchase under the shop cursor.
func (f *Flow) BuySelected(ctx context.Context) error {
	if f.Screen != ScreenShop {
		return nil
	}
	it := progress.Catalog[f.ShopCursor]
	err := f.App.Buy(ctx, it.ID)
	switch {
	case err == nil:
		f.Notice = fmt.Sprintf("Bought %s.", it.Name)
	case errors.Is(err, progress.ErrInsufficientFunds):
		f.Notice = "Not enough cash."
	case errors.Is(err, progress.ErrMaxLevel):
		f.Notice = "Engine already maxed."
	case errors.Is(err, progress.ErrAlreadyEquipped):
		f.Notice = "Already owned."
	default:
		f.App.logger.Error("purchase failed", "item", it.ID, "error", err)
		f.Notice = "Purchase failed."
	}
	return err
}

// ItemLabel is the shop button text for it given the current stats.
func ItemLabel(st progress.Stats, it progress.Item) string {
	switch err := st.CanBuy(it); {
	case errors.Is(err, progress.ErrAlreadyEquipped):
		return "OWNED"
	case errors.Is(err, progress.ErrMaxLevel):
		return "MAXED"
	default:
		return fmt.Sprintf("$%d", it.Cost)
	}
}
