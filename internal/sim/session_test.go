package sim

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunning(t *testing.T) (*Session, *EventBus) {
	t.Helper()
	bus := NewEventBus()
	s := NewSession(bus)
	s.Start(RunConfig{SpeedLevel: 1, Cosmetic: CosmeticClassic}, 1234)
	require.Equal(t, StateRunning, s.State)
	return s, bus
}

func TestSessionStartsIdle(t *testing.T) {
	s := NewSession(nil)
	assert.Equal(t, StateIdle, s.State)
	s.Tick(InputSnapshot{Forward: true}, frame)
	assert.Zero(t, s.Ticks)
	assert.Equal(t, "idle", s.State.String())
}

func TestSessionSpawnCadence(t *testing.T) {
	s, bus := newRunning(t)
	var spawnedAt []int
	bus.Subscribe(EventPursuerSpawned, func(e Event) { spawnedAt = append(spawnedAt, e.Tick) })

	for range SpawnEveryTicks - 1 {
		s.Tick(InputSnapshot{}, frame)
	}
	assert.Equal(t, 0, s.Pursuers.Len(), "no pursuer before tick 200")

	s.Tick(InputSnapshot{}, frame)
	assert.Equal(t, 1, s.Pursuers.Len())
	assert.Equal(t, []int{SpawnEveryTicks}, spawnedAt)
}

func TestSessionSpawnsRegardlessOfPursuerCount(t *testing.T) {
	s, _ := newRunning(t)
	for range 2 * SpawnEveryTicks {
		// Hold existing pursuers at bay so the run survives to the second spawn.
		for i := range s.Pursuers.Pursuers {
			s.Pursuers.Pursuers[i].X = s.Player.X + SpawnRadius
			s.Pursuers.Pursuers[i].Z = s.Player.Z
		}
		s.Tick(InputSnapshot{}, frame)
	}
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, 2, s.Pursuers.Len())
}

func TestSessionEndsWithTightEviction(t *testing.T) {
	s, _ := newRunning(t)
	s.Pursuers.EvictDistance = 10
	for range 5000 {
		if s.State != StateRunning {
			break
		}
		s.Tick(InputSnapshot{}, frame)
	}
	require.Equal(t, StateTerminated, s.State, "a parked player is caught by the first pursuer")
	assert.Less(t, s.Ticks, 2*SpawnEveryTicks)
}

func TestSessionScoreAccumulatesWallClock(t *testing.T) {
	s, _ := newRunning(t)
	s.Tick(InputSnapshot{}, 0.5)
	assert.InDelta(t, 5.0, s.Score, 1e-12)
	s.Tick(InputSnapshot{}, 0.05)
	assert.InDelta(t, 5.5, s.Score, 1e-12)
	assert.Equal(t, 5, s.ScoreInt())

	prev := s.Score
	s.Tick(InputSnapshot{}, -1)
	assert.Equal(t, prev, s.Score, "negative dt adds nothing")
	assert.Equal(t, 3, s.Ticks)
}

func TestSessionScoreMonotoneThenFrozen(t *testing.T) {
	s, _ := newRunning(t)
	prev := s.Score
	for s.State == StateRunning {
		s.Tick(InputSnapshot{}, frame)
		require.GreaterOrEqual(t, s.Score, prev)
		prev = s.Score
		require.Less(t, s.Ticks, 10_000, "a stationary player must be caught")
	}

	frozen, ticks := s.Score, s.Ticks
	for range 50 {
		s.Tick(InputSnapshot{Forward: true}, frame)
	}
	assert.Equal(t, frozen, s.Score)
	assert.Equal(t, ticks, s.Ticks)
}

func TestSessionImmediateCatch(t *testing.T) {
	s, bus := newRunning(t)
	var outcomes []RunOutcome
	bus.Subscribe(EventRunOver, func(e Event) { outcomes = append(outcomes, e.Outcome) })

	s.Score = 12.7
	s.Place(1.0, 0)
	s.Tick(InputSnapshot{}, 0.01)

	require.Equal(t, StateTerminated, s.State)
	require.Len(t, outcomes, 1)
	assert.Equal(t, int(math.Floor(12.7+0.1)), outcomes[0].Score)
	assert.Equal(t, s.RunID, outcomes[0].RunID)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.Equal(t, outcomes[0], out)

	s.Tick(InputSnapshot{}, 1)
	assert.InDelta(t, 12.8, s.Score, 1e-9, "no accumulation after termination")
	assert.Len(t, outcomes, 1)
}

func TestSessionSingleRunOverForSimultaneousCatches(t *testing.T) {
	s, bus := newRunning(t)
	count := 0
	bus.Subscribe(EventRunOver, func(Event) { count++ })

	s.Place(0.5, 0)
	s.Place(-0.5, 0)
	s.Place(0, 1.2)
	s.Tick(InputSnapshot{}, frame)
	s.Tick(InputSnapshot{}, frame)

	assert.Equal(t, 1, count)
	out, ok := s.Outcome()
	require.True(t, ok)
	assert.Equal(t, 3, out.Pursuers)
}

func TestSessionFarPursuerDoesNotEndRun(t *testing.T) {
	s, _ := newRunning(t)
	s.Place(1.6, 0)
	s.Tick(InputSnapshot{}, frame)
	assert.Equal(t, StateRunning, s.State)
	_, ok := s.Outcome()
	assert.False(t, ok)
}

func TestSessionScoreSamples(t *testing.T) {
	s, bus := newRunning(t)
	var ticks []int
	bus.Subscribe(EventScoreSample, func(e Event) { ticks = append(ticks, e.Tick) })

	for range 35 {
		s.Tick(InputSnapshot{}, frame)
	}
	assert.Equal(t, []int{10, 20, 30}, ticks)
}

func TestSessionStartResets(t *testing.T) {
	s, bus := newRunning(t)
	started := 0
	bus.Subscribe(EventRunStarted, func(Event) { started++ })

	firstID := s.RunID
	for range 250 {
		s.Tick(InputSnapshot{Forward: true, Left: true}, frame)
	}
	s.Place(s.Player.X, s.Player.Z)
	s.Tick(InputSnapshot{}, frame)
	require.Equal(t, StateTerminated, s.State)

	s.Start(RunConfig{SpeedLevel: 3, Cosmetic: CosmeticNeon}, 99)
	assert.Equal(t, StateRunning, s.State)
	assert.NotEqual(t, firstID, s.RunID)
	assert.NotEqual(t, uuid.Nil, s.RunID)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.Ticks)
	assert.Zero(t, s.Pursuers.Len())
	assert.Equal(t, Player{}, s.Player)
	assert.Equal(t, 3, s.Config.SpeedLevel)
	assert.Equal(t, 1, started)
	_, ok := s.Outcome()
	assert.False(t, ok)
}

func TestSessionNormalizesConfig(t *testing.T) {
	s := NewSession(nil)
	s.Start(RunConfig{SpeedLevel: 0, Cosmetic: "chrome"}, 1)
	assert.Equal(t, RunConfig{SpeedLevel: 1, Cosmetic: CosmeticClassic}, s.Config)
}

func TestSessionSameSeedSameCity(t *testing.T) {
	a := NewSession(nil)
	b := NewSession(nil)
	a.Start(RunConfig{}, 77)
	b.Start(RunConfig{}, 77)
	assert.Equal(t, a.Buildings, b.Buildings)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newRunning(t)
	s.Place(10, 10)
	snap := s.Snapshot()
	s.Tick(InputSnapshot{}, frame)

	require.Len(t, snap.Pursuers, 1)
	assert.Equal(t, 10.0, snap.Pursuers[0].X)
	assert.NotEqual(t, snap.Pursuers[0].X, s.Pursuers.Pursuers[0].X)
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, CosmeticClassic, snap.Cosmetic)
}

func TestParseCosmetic(t *testing.T) {
	assert.Equal(t, CosmeticGold, ParseCosmetic(" GOLD "))
	assert.Equal(t, CosmeticClassic, ParseCosmetic("rainbow"))
	assert.Equal(t, CosmeticClassic, ParseCosmetic(""))
}
