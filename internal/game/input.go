//go:build !android

package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"polychase/internal/sim"
)

// inputEvent is either a key press (including auto-repeat) or a typed rune,
// kept in arrival order.
type inputEvent struct {
	key glfw.Key
	r   rune
}

type Input struct {
	prevKeys map[glfw.Key]bool
	queue    []inputEvent
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

// Attach installs the key and char callbacks on window.
func (in *Input) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			in.queue = append(in.queue, inputEvent{key: key})
		}
	})
	window.SetCharCallback(func(_ *glfw.Window, r rune) {
		in.queue = append(in.queue, inputEvent{r: r})
	})
}

// Drain returns and clears the queued events.
func (in *Input) Drain() []inputEvent {
	q := in.queue
	in.queue = nil
	return q
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// DriveSnapshot samples WASD and the arrow keys.
func DriveSnapshot(window *glfw.Window) sim.InputSnapshot {
	held := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	return sim.InputSnapshot{
		Forward:  held(glfw.KeyW, glfw.KeyUp),
		Backward: held(glfw.KeyS, glfw.KeyDown),
		Left:     held(glfw.KeyA, glfw.KeyLeft),
		Right:    held(glfw.KeyD, glfw.KeyRight),
	}
}
