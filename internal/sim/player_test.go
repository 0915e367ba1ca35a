package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func TestPlayerForwardMovesTowardNegativeZ(t *testing.T) {
	var p Player
	for range 50 {
		p.Update(InputSnapshot{Forward: true}, 1, frame)
	}

	assert.Less(t, p.Z, 0.0)
	assert.InDelta(t, 0.0, p.X, 1e-9)
	assert.InDelta(t, 0.22, math.Abs(p.Velocity), 1e-9)
	assert.InDelta(t, -0.22*50, p.Z, 1e-9)
}

func TestPlayerBackwardMovesTowardPositiveZ(t *testing.T) {
	var p Player
	p.Update(InputSnapshot{Backward: true}, 1, frame)

	assert.InDelta(t, EffectiveSpeed(1), p.Velocity, 1e-12)
	assert.Greater(t, p.Z, 0.0)
}

func TestPlayerForwardWinsOverBackward(t *testing.T) {
	var p Player
	p.Update(InputSnapshot{Forward: true, Backward: true}, 2, frame)
	assert.InDelta(t, -EffectiveSpeed(2), p.Velocity, 1e-12)
}

func TestEffectiveSpeedScalesWithLevel(t *testing.T) {
	assert.InDelta(t, 0.22, EffectiveSpeed(1), 1e-12)
	assert.InDelta(t, 0.30, EffectiveSpeed(5), 1e-12)
}

func TestPlayerCoastDecaysGeometrically(t *testing.T) {
	p := Player{Velocity: -0.2}
	p.Update(InputSnapshot{}, 1, frame)
	assert.InDelta(t, -0.18, p.Velocity, 1e-12)
	p.Update(InputSnapshot{}, 1, frame)
	assert.InDelta(t, -0.162, p.Velocity, 1e-12)
}

func TestPlayerCannotSteerWhileStopped(t *testing.T) {
	var p Player
	p.Update(InputSnapshot{Left: true}, 1, frame)
	assert.Zero(t, p.Heading)

	p = Player{Velocity: 0.01}
	p.Update(InputSnapshot{Right: true}, 1, frame)
	assert.Zero(t, p.Heading, "coasting below the threshold must not steer")
}

func TestPlayerSteeringUsesWallClock(t *testing.T) {
	var p Player
	p.Update(InputSnapshot{Forward: true, Left: true}, 1, 0.1)
	assert.InDelta(t, 0.35, p.Heading, 1e-12)

	p.Update(InputSnapshot{Forward: true, Right: true}, 1, 0.2)
	assert.InDelta(t, -0.35, p.Heading, 1e-12)

	p.Update(InputSnapshot{Forward: true, Left: true, Right: true}, 1, 0.5)
	assert.InDelta(t, -0.35, p.Heading, 1e-12, "left and right cancel")
}

func TestPlayerLeftTurnBendsTowardNegativeX(t *testing.T) {
	var p Player
	for range 30 {
		p.Update(InputSnapshot{Forward: true, Left: true}, 1, frame)
	}
	assert.Less(t, p.X, 0.0)
	assert.Less(t, p.Z, 0.0)
}

func TestPlayerClampedToArena(t *testing.T) {
	inputs := []InputSnapshot{
		{Forward: true},
		{Backward: true},
		{Forward: true, Left: true},
		{Backward: true, Right: true},
	}
	for _, in := range inputs {
		p := Player{Heading: 0.7}
		for range 2000 {
			p.Update(in, 5, frame)
			require.LessOrEqual(t, math.Abs(p.X), ArenaBound)
			require.LessOrEqual(t, math.Abs(p.Z), ArenaBound)
		}
	}

	p := Player{X: 39.9, Z: -39.9, Velocity: 0.3, Heading: math.Pi / 2}
	p.Update(InputSnapshot{Backward: true}, 5, frame)
	assert.Equal(t, ArenaBound, p.X)
}

func TestPlayerDeterministic(t *testing.T) {
	seq := []InputSnapshot{
		{Forward: true}, {Forward: true, Left: true}, {}, {Backward: true, Right: true}, {Left: true},
	}
	dts := []float64{0.016, 0.02, 0.033, 0.011, 0.016}

	run := func() Player {
		var p Player
		for i := range 200 {
			p.Update(seq[i%len(seq)], 3, dts[i%len(dts)])
		}
		return p
	}
	assert.Equal(t, run(), run())
}

func TestTrackCamera(t *testing.T) {
	cam := TrackCamera(Player{X: 3, Z: -7, Heading: 1.2})
	assert.Equal(t, Vec3{X: 23, Y: 25, Z: 13}, cam.Position)
	assert.Equal(t, Vec3{X: 3, Y: 0, Z: -7}, cam.LookAt)
}
