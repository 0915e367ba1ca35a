package game

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"polychase/internal/synth"
)

const (
	sfxVolume        = 0.58
	menuMusicVolume  = 0.22
	chaseMusicVolume = 0.14
)

// Audio plays procedural effects and music. A nil *Audio is silent, which
// is what the frame loop holds when the device could not be opened.
type Audio struct {
	ctx    *oto.Context
	ready  chan struct{}
	logger *slog.Logger

	muted atomic.Bool
	siren atomic.Uint64

	mu          sync.Mutex
	music       *synth.Music
	musicPlayer oto.Player
}

func NewAudio(logger *slog.Logger) (*Audio, error) {
	ctx, ready, err := oto.NewContext(synth.SampleRate, synth.ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, err
	}
	return &Audio{ctx: ctx, ready: ready, logger: logger}, nil
}

func (a *Audio) isReady() bool {
	if a == nil || a.muted.Load() {
		return false
	}
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

// SetMuted silences effects and pauses music.
func (a *Audio) SetMuted(m bool) {
	if a == nil {
		return
	}
	a.muted.Store(m)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.musicPlayer == nil {
		return
	}
	if m {
		a.musicPlayer.Pause()
	} else {
		a.musicPlayer.Play()
	}
}

func (a *Audio) Muted() bool { return a != nil && a.muted.Load() }

// Play fires a one-shot effect.
func (a *Audio) Play(e synth.Effect) {
	if !a.isReady() {
		return
	}
	a.playBuffer(synth.Render(e), 1)
}

// Siren plays one siren burst panned to pan in [-1,1].
func (a *Audio) Siren(gain, pan float64) {
	if !a.isReady() || gain <= 0 {
		return
	}
	v := a.siren.Add(1)
	a.playBuffer(synth.Siren(1, pan, int(v), uint64(time.Now().UnixNano())), gain)
}

func (a *Audio) playBuffer(samples []byte, gain float64) {
	if len(samples) == 0 {
		return
	}
	go func() {
		player := a.ctx.NewPlayer(synth.NewReader(samples))
		player.SetVolume(sfxVolume * min(max(gain, 0), 1))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			a.logger.Debug("close sfx player", "error", err)
		}
	}()
}

// StartMusic switches the music bed, leaving it alone if mode is already playing.
func (a *Audio) StartMusic(mode synth.Mode) {
	if a == nil {
		return
	}
	select {
	case <-a.ready:
	default:
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.music != nil && a.music.Mode() == mode {
		return
	}
	if a.musicPlayer != nil {
		if err := a.musicPlayer.Close(); err != nil {
			a.logger.Debug("close music player", "error", err)
		}
	}
	a.music = synth.NewMusic(mode, uint64(time.Now().UnixNano()))
	player := a.ctx.NewPlayer(a.music)
	vol := menuMusicVolume
	if mode == synth.ModeChase {
		vol = chaseMusicVolume
	}
	player.SetVolume(vol)
	a.musicPlayer = player
	if !a.muted.Load() {
		player.Play()
	}
}

// SetHeat forwards the pursuer count to the chase music.
func (a *Audio) SetHeat(n int) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.music != nil {
		a.music.SetHeat(n)
	}
}
