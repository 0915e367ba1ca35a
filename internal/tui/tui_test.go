package tui

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychase/internal/app"
	"polychase/internal/progress"
	"polychase/internal/scout"
	"polychase/internal/sim"
)

func TestHeldKeysWindow(t *testing.T) {
	var k heldKeys
	t0 := time.Unix(100, 0)
	k.press(ctlForward, t0)
	k.press(ctlLeft, t0)

	in := k.snapshot(t0.Add(100 * time.Millisecond))
	assert.Equal(t, sim.InputSnapshot{Forward: true, Left: true}, in)

	in = k.snapshot(t0.Add(holdWindow))
	assert.Equal(t, sim.InputSnapshot{}, in, "released once the window lapses")
}

func TestHeldKeysOppositeCancels(t *testing.T) {
	var k heldKeys
	t0 := time.Unix(100, 0)
	k.press(ctlForward, t0)
	k.press(ctlBackward, t0.Add(10*time.Millisecond))
	k.press(ctlRight, t0)
	k.press(ctlLeft, t0)

	in := k.snapshot(t0.Add(20 * time.Millisecond))
	assert.Equal(t, sim.InputSnapshot{Backward: true, Left: true}, in)

	k.reset()
	assert.Equal(t, sim.InputSnapshot{}, k.snapshot(t0))
}

func TestDriveControl(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want control
	}{
		{tcell.KeyUp, 0, ctlForward},
		{tcell.KeyRune, 'w', ctlForward},
		{tcell.KeyDown, 0, ctlBackward},
		{tcell.KeyRune, 'S', ctlBackward},
		{tcell.KeyLeft, 0, ctlLeft},
		{tcell.KeyRune, 'a', ctlLeft},
		{tcell.KeyRight, 0, ctlRight},
		{tcell.KeyRune, 'd', ctlRight},
	}
	for _, tt := range tests {
		got, ok := driveControl(tt.key, tt.r)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
	_, ok := driveControl(tcell.KeyRune, 'x')
	assert.False(t, ok)
}

func TestHeadingGlyph(t *testing.T) {
	assert.Equal(t, '↑', headingGlyph(0))
	assert.Equal(t, '←', headingGlyph(math.Pi/2))
	assert.Equal(t, '→', headingGlyph(-math.Pi/2))
	assert.Equal(t, '↓', headingGlyph(math.Pi))
	assert.Equal(t, '↖', headingGlyph(math.Pi/4))
	assert.Equal(t, '↑', headingGlyph(4*math.Pi))
}

func TestViewportProject(t *testing.T) {
	v := viewport{x0: 10, y0: 1, w: 81, h: 41}
	col, row := v.project(-sim.ArenaBound, -sim.ArenaBound)
	assert.Equal(t, 10, col)
	assert.Equal(t, 1, row)

	col, row = v.project(sim.ArenaBound, sim.ArenaBound)
	assert.Equal(t, 90, col)
	assert.Equal(t, 41, row)
	assert.True(t, v.contains(90, 41))
	assert.False(t, v.contains(91, 41))

	col, row = v.project(0, 0)
	assert.Equal(t, 50, col)
	assert.Equal(t, 21, row)
}

func TestSirenStyleFlashes(t *testing.T) {
	assert.Equal(t, styleSirenRed, sirenStyle(0.1))
	assert.Equal(t, styleSirenBlu, sirenStyle(0.3))
	assert.Equal(t, styleSirenRed, sirenStyle(0.6))
}

func newTestUI(t *testing.T) (*UI, tcell.SimulationScreen) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := progress.Open(context.Background(), filepath.Join(t.TempDir(), "p.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a := app.New(store, scout.New("http://127.0.0.1:1", "", "", time.Second, logger), app.Options{Seed: 3, Logger: logger})
	require.NoError(t, a.LoadStats(context.Background()))

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)
	return New(screen, app.NewFlow(a), logger), screen
}

func rowText(s tcell.Screen, row int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, row)
		b.WriteRune(r)
	}
	return b.String()
}

func TestUIMenuAndShop(t *testing.T) {
	u, screen := newTestUI(t)
	ctx := context.Background()
	now := time.Now()

	u.frame(now, 0)
	assert.Contains(t, rowText(screen, 1), "POLY CHASE")
	assert.Contains(t, rowText(screen, 4), "$1000")

	u.handleKey(ctx, tcell.KeyRune, 'b')
	require.Equal(t, app.ScreenShop, u.flow.Screen)
	u.handleKey(ctx, tcell.KeyEnter, 0)
	assert.Equal(t, 2, u.flow.App.Stats.SpeedLevel)

	u.frame(now, 0)
	assert.Contains(t, rowText(screen, 4), "$500")
	assert.Contains(t, rowText(screen, 10), "(Level 2 / 5)")

	u.handleKey(ctx, tcell.KeyEscape, 0)
	u.handleKey(ctx, tcell.KeyRune, 'q')
	assert.True(t, u.quit)
}

func TestUIPlaysARun(t *testing.T) {
	u, screen := newTestUI(t)
	ctx := context.Background()

	u.handleKey(ctx, tcell.KeyEnter, 0)
	require.Equal(t, app.ScreenMissionSelect, u.flow.Screen)
	for _, r := range "Bank" {
		u.handleKey(ctx, tcell.KeyRune, r)
	}
	u.handleKey(ctx, tcell.KeyEnter, 0)
	require.Equal(t, app.ScreenScouting, u.flow.Screen)

	now := time.Now()
	require.Eventually(t, func() bool {
		u.frame(now, 0)
		return u.flow.Screen == app.ScreenPlaying
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, scout.Fallback, u.flow.App.Mission.Location)

	u.now = func() time.Time { return now }
	u.handleKey(ctx, tcell.KeyUp, 0)
	u.frame(now, 1.0/60)
	assert.Less(t, u.flow.App.Session.Player.Z, 0.0)
	assert.Contains(t, rowText(screen, 0), "Local Bank")

	sess := u.flow.App.Session
	sess.Place(sess.Player.X, sess.Player.Z)
	u.frame(now, 1.0/60)
	require.Equal(t, app.ScreenBusted, u.flow.Screen)

	found := false
	_, h := screen.Size()
	for row := 0; row < h && !found; row++ {
		found = strings.Contains(rowText(screen, row), "BUSTED")
	}
	assert.True(t, found)

	u.handleKey(ctx, tcell.KeyEnter, 0)
	assert.Equal(t, app.ScreenMenu, u.flow.Screen)
}

func TestPumpEventsStopsAfterLoop(t *testing.T) {
	u, screen := newTestUI(t)

	done := make(chan struct{})
	close(done)
	events := make(chan tcell.Event) // nobody reads
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)

	stopped := make(chan struct{})
	go func() {
		u.pumpEvents(events, done)
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("event pump still blocked after the loop finished")
	}
}

func TestLoopReturnsOnCancel(t *testing.T) {
	u, _ := newTestUI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, u.Loop(ctx))
}
