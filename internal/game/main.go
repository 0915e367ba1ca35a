//go:build !android

package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"polychase/internal/app"
	"polychase/internal/scene"
	"polychase/internal/sim"
	"polychase/internal/synth"
)

type Options struct {
	Mute   bool
	Logger *slog.Logger
}

// backdropSeed fixes the city shown behind the menus.
const backdropSeed = 0xC17F

// RunDesktop opens the window and plays until it is closed or ctx ends.
// It must be called from the main goroutine.
func RunDesktop(ctx context.Context, flow *app.Flow, opts Options) error {
	runtime.LockOSThread()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	window, err := initWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	audio, err := NewAudio(logger)
	if err != nil {
		logger.Warn("audio init failed, continuing without sound", "error", err)
	}
	audio.SetMuted(opts.Mute)
	audio.StartMusic(synth.ModeMenu)

	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	sky := scene.Palette.Sky.Vec3()
	gl.ClearColor(sky[0], sky[1], sky[2], 1.0)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()
	if err := rend.InitFont(); err != nil {
		return fmt.Errorf("font: %w", err)
	}

	input := NewInput()
	input.Attach(window)

	a := flow.App
	a.Events.Subscribe(sim.EventPursuerSpawned, func(e sim.Event) {
		p := a.Session.Player
		dx, dz := e.X-p.X, e.Z-p.Z
		rx, rz := scene.ListenerRight(a.Session.Camera)
		audio.Siren(synth.SirenGain(math.Hypot(dx, dz), SirenMaxDist), synth.SirenPan(dx, dz, rx, rz, SirenFalloff))
	})
	a.Events.Subscribe(sim.EventRunOver, func(sim.Event) {
		audio.Play(synth.EffectBusted)
	})

	backdrop := sim.Snapshot{Buildings: sim.GenerateCity(sim.NewRand(backdropSeed))}

	start := glfw.GetTime()
	last := start
	for !window.ShouldClose() && ctx.Err() == nil {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > MaxFrameDT {
			dt = MaxFrameDT
		}

		glfw.PollEvents()
		for _, ev := range input.Drain() {
			if handleInput(ctx, flow, audio, ev) {
				window.SetShouldClose(true)
			}
		}
		if input.JustPressed(window, glfw.KeyF2) {
			audio.SetMuted(!audio.Muted())
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		if flow.Poll() {
			audio.Play(synth.EffectLaunch)
			audio.StartMusic(synth.ModeChase)
		}
		var drive sim.InputSnapshot
		if flow.Screen == app.ScreenPlaying {
			drive = DriveSnapshot(window)
		}
		snap := flow.Step(drive, dt)
		audio.SetHeat(len(snap.Pursuers))
		if flow.Screen != app.ScreenPlaying && flow.Screen != app.ScreenBusted {
			audio.StartMusic(synth.ModeMenu)
		}

		view, elapsed := snap, a.Session.Elapsed
		if flow.Screen != app.ScreenPlaying && flow.Screen != app.ScreenBusted {
			view = backdrop
			view.Camera = scene.OrbitCamera(now - start)
			elapsed = now - start
		}
		rend.BeginFrame(view.Camera, fbW, fbH)
		rend.DrawSky()
		rend.DrawScene(scene.Build(view, elapsed))
		RenderHUD(rend, flow, snap, audio.Muted(), now-start, fbW, fbH)

		window.SwapBuffers()
	}
	return nil
}

// handleInput applies one key or typed rune to the flow and reports whether
// the player asked to quit.
func handleInput(ctx context.Context, f *app.Flow, audio *Audio, ev inputEvent) bool {
	if ev.r != 0 {
		f.TypeRune(ev.r)
		return false
	}
	switch f.Screen {
	case app.ScreenMenu:
		switch ev.key {
		case glfw.KeyEnter, glfw.KeyKPEnter:
			audio.Play(synth.EffectMenuSelect)
			f.OpenMissionSelect()
		case glfw.KeyB:
			audio.Play(synth.EffectMenuSelect)
			f.OpenShop()
		case glfw.KeyEscape:
			return true
		}
	case app.ScreenMissionSelect:
		switch ev.key {
		case glfw.KeyEscape:
			f.Back()
		case glfw.KeyEnter, glfw.KeyKPEnter:
			if f.SubmitQuery(ctx) {
				audio.Play(synth.EffectMenuSelect)
			}
		case glfw.KeyBackspace:
			f.Backspace()
		}
	case app.ScreenScouting:
		if ev.key == glfw.KeyEscape {
			f.Back()
		}
	case app.ScreenBusted:
		switch ev.key {
		case glfw.KeyEnter, glfw.KeyKPEnter, glfw.KeySpace, glfw.KeyEscape:
			audio.Play(synth.EffectMenuSelect)
			f.Back()
		}
	case app.ScreenShop:
		switch ev.key {
		case glfw.KeyUp, glfw.KeyW:
			f.MoveCursor(-1)
		case glfw.KeyDown, glfw.KeyS:
			f.MoveCursor(1)
		case glfw.KeyEnter, glfw.KeyKPEnter:
			if err := f.BuySelected(ctx); err != nil {
				audio.Play(synth.EffectDenied)
			} else {
				audio.Play(synth.EffectPurchase)
			}
		case glfw.KeyEscape:
			f.Back()
		}
	}
	return false
}
