package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPursuerCollisionThreshold(t *testing.T) {
	ps := NewPursuerSystem(7)
	ps.Place(1.4, 0)
	assert.True(t, ps.Update(0, 0), "1.4 units is inside the catch distance")

	ps = NewPursuerSystem(7)
	ps.Place(1.6, 0)
	assert.False(t, ps.Update(0, 0), "1.6 units is outside the catch distance")
}

func TestPursuerMultipleCatchesCollapse(t *testing.T) {
	ps := NewPursuerSystem(7)
	ps.Place(1.0, 0)
	ps.Place(0, -1.0)
	ps.Place(-0.5, 0.5)
	assert.True(t, ps.Update(0, 0))
}

func TestPursuerClosesDistance(t *testing.T) {
	ps := NewPursuerSystem(3)
	for range 12 {
		ps.Spawn(5, -8)
	}
	px, pz := 5.0, -8.0
	for tick := range 300 {
		before := make([]float64, len(ps.Pursuers))
		for i, p := range ps.Pursuers {
			before[i] = math.Hypot(px-p.X, pz-p.Z)
		}
		ps.Update(px, pz)
		for i, p := range ps.Pursuers {
			after := math.Hypot(px-p.X, pz-p.Z)
			if before[i] > 0 {
				require.Less(t, after, before[i], "tick %d pursuer %d", tick, p.ID)
			}
		}
	}
}

func TestPursuerStepAndHeading(t *testing.T) {
	ps := NewPursuerSystem(1)
	ps.Place(0, 10)
	ps.Update(0, 0)

	p := ps.Pursuers[0]
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 10-PursuerSpeed, p.Z, 1e-12)
	// Moving toward -Z faces π.
	assert.InDelta(t, math.Pi, math.Abs(p.Heading), 1e-12)

	ps = NewPursuerSystem(1)
	ps.Place(-10, 0)
	ps.Update(0, 0)
	assert.InDelta(t, math.Pi/2, ps.Pursuers[0].Heading, 1e-12)
}

func TestPursuerNeverOvershoots(t *testing.T) {
	ps := NewPursuerSystem(1)
	ps.Place(0.05, 0)
	ps.Update(0, 0)
	assert.InDelta(t, 0, ps.Pursuers[0].X, 1e-12)

	heading := ps.Pursuers[0].Heading
	ps.Update(0, 0)
	assert.Equal(t, heading, ps.Pursuers[0].Heading, "a pursuer on the player keeps its heading")
}

func TestPursuerSpawnRing(t *testing.T) {
	ps := NewPursuerSystem(99)
	for range 50 {
		p := ps.Spawn(3, 4)
		assert.InDelta(t, SpawnRadius, math.Hypot(p.X-3, p.Z-4), 1e-9)
		assert.Zero(t, p.Heading)
	}
}

func TestPursuerIDsStrictlyIncrease(t *testing.T) {
	ps := NewPursuerSystem(5)
	var last uint64
	for i := range 20 {
		p := ps.Spawn(0, 0)
		if i > 0 {
			require.Greater(t, p.ID, last)
		}
		last = p.ID
	}

	ps.Reset(6)
	p := ps.Spawn(0, 0)
	assert.Greater(t, p.ID, last, "ids are not reused after a reset")
	assert.Equal(t, 1, ps.Len())
}

func TestPursuerEvictionIsOptIn(t *testing.T) {
	ps := NewPursuerSystem(1)
	ps.Place(100, 0)
	ps.Place(10, 0)
	ps.Update(0, 0)
	assert.Equal(t, 2, ps.Len())

	ps.EvictDistance = 50
	ps.Update(0, 0)
	require.Equal(t, 1, ps.Len())
	assert.Equal(t, uint64(1), ps.Pursuers[0].ID)
}

func TestPursuerEvictionKeepsFreshSpawns(t *testing.T) {
	ps := NewPursuerSystem(7)
	ps.EvictDistance = 10
	p := ps.Spawn(0, 0)
	ps.Update(0, 0)
	require.Equal(t, 1, ps.Len())
	assert.Equal(t, p.ID, ps.Pursuers[0].ID)

	ps.Place(MinEvictDistance+1, 0)
	ps.Update(0, 0)
	assert.Equal(t, 1, ps.Len())
}
