package synth

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peak(buf []byte) (l, r float64) {
	for i := range Frames(buf) {
		a, b := Sample(buf, i)
		l = math.Max(l, math.Abs(float64(a)))
		r = math.Max(r, math.Abs(float64(b)))
	}
	return l, r
}

func TestEffectsRenderBoundedAudio(t *testing.T) {
	cases := map[Effect]float64{
		EffectMenuSelect: 0.065,
		EffectLaunch:     0.70,
		EffectPurchase:   0.48,
		EffectDenied:     0.16,
		EffectBusted:     0.75,
	}
	for e, want := range cases {
		t.Run(e.String(), func(t *testing.T) {
			buf := Render(e)
			require.NotEmpty(t, buf)
			assert.Zero(t, len(buf)%FrameBytes)
			assert.InDelta(t, want, Duration(buf), 0.01)
			l, r := peak(buf)
			assert.Greater(t, l, 0.01)
			assert.LessOrEqual(t, l, 1.0)
			assert.InDelta(t, l, r, 1e-9)
		})
	}
	assert.Nil(t, Render(Effect(99)))
}

func TestSirenPansHard(t *testing.T) {
	left := Siren(1, -1, 0, 7)
	l, r := peak(left)
	assert.Greater(t, l, 0.05)
	assert.InDelta(t, 0, r, 1e-6)

	right := Siren(1, 1, 0, 7)
	l, r = peak(right)
	assert.InDelta(t, 0, l, 1e-6)
	assert.Greater(t, r, 0.05)
}

func TestSirenVariantsWrap(t *testing.T) {
	assert.InDelta(t, 0.92, Duration(Siren(1, 0, 0, 1)), 0.001)
	assert.InDelta(t, 0.86, Duration(Siren(1, 0, 1, 1)), 0.001)
	assert.InDelta(t, 1.00, Duration(Siren(1, 0, 2, 1)), 0.001)
	assert.Equal(t, Siren(1, 0, 3, 1), Siren(1, 0, 0, 1))
	assert.Equal(t, Siren(1, 0, -1, 1), Siren(1, 0, 2, 1))
}

func TestSirenPanAndGain(t *testing.T) {
	// Listener right vector along +X.
	assert.InDelta(t, 0.5, SirenPan(10, 0, 1, 0, 20), 1e-9)
	assert.InDelta(t, -1, SirenPan(-50, 0, 1, 0, 20), 1e-9)
	assert.InDelta(t, 0, SirenPan(0, 30, 1, 0, 20), 1e-9)
	assert.Zero(t, SirenPan(5, 5, 1, 0, 0))

	assert.InDelta(t, 1, SirenGain(0, 40), 1e-9)
	assert.InDelta(t, 0.25, SirenGain(20, 40), 1e-9)
	assert.Zero(t, SirenGain(60, 40))
}

func TestReaderPlaysOnce(t *testing.T) {
	data := Render(EffectMenuSelect)
	got, err := io.ReadAll(NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMusicStreamsForever(t *testing.T) {
	for _, mode := range []Mode{ModeMenu, ModeChase} {
		m := NewMusic(mode, 42)
		buf := make([]byte, FrameBytes*SampleRate/10)
		for range 5 {
			n, err := m.Read(buf)
			require.NoError(t, err)
			require.Equal(t, len(buf), n)
		}
		l, r := peak(buf)
		assert.Greater(t, l, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestMusicHeatClamped(t *testing.T) {
	m := NewMusic(ModeChase, 0)
	m.SetHeat(9)
	assert.Equal(t, MaxHeat, m.Heat())
	m.SetHeat(-2)
	assert.Zero(t, m.Heat())

	n, err := m.Read(make([]byte, 3))
	assert.NoError(t, err)
	assert.Zero(t, n)
}
