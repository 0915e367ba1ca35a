package tui

import (
	"time"

	"polychase/internal/sim"
)

// Terminals report key presses and auto-repeat but never releases, so a
// control counts as held for holdWindow after its last press.
const holdWindow = 300 * time.Millisecond

type control int

const (
	ctlForward control = iota
	ctlBackward
	ctlLeft
	ctlRight
	numControls
)

type heldKeys struct {
	last [numControls]time.Time
}

func (k *heldKeys) press(c control, now time.Time) {
	k.last[c] = now
	// Opposite controls cancel the stale one so reversing feels immediate.
	switch c {
	case ctlForward:
		k.last[ctlBackward] = time.Time{}
	case ctlBackward:
		k.last[ctlForward] = time.Time{}
	case ctlLeft:
		k.last[ctlRight] = time.Time{}
	case ctlRight:
		k.last[ctlLeft] = time.Time{}
	}
}

func (k *heldKeys) held(c control, now time.Time) bool {
	t := k.last[c]
	return !t.IsZero() && now.Sub(t) < holdWindow
}

func (k *heldKeys) reset() {
	k.last = [numControls]time.Time{}
}

// snapshot freezes the held set for one tick.
func (k *heldKeys) snapshot(now time.Time) sim.InputSnapshot {
	return sim.InputSnapshot{
		Forward:  k.held(ctlForward, now),
		Backward: k.held(ctlBackward, now),
		Left:     k.held(ctlLeft, now),
		Right:    k.held(ctlRight, now),
	}
}
