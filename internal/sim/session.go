package sim

import (
	"math"

	"github.com/google/uuid"
)

type RunState int

const (
	StateIdle       RunState = iota // no run started yet
	StateRunning                    // ticking
	StateTerminated                 // caught; frozen until the next Start
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "idle"
	}
}

// Session owns all state of one run. It is not safe for concurrent use; other
// goroutines read it through Snapshot.
type Session struct {
	State     RunState
	RunID     uuid.UUID
	Config    RunConfig
	Seed      uint64
	Player    Player
	Camera    Camera
	Pursuers  *PursuerSystem
	Buildings []Building

	Score   float64 // accumulated, never rounded
	Ticks   int
	Elapsed float64

	Events  *EventBus
	outcome *RunOutcome
}

func NewSession(events *EventBus) *Session {
	if events == nil {
		events = NewEventBus()
	}
	return &Session{
		Events:   events,
		Pursuers: NewPursuerSystem(1),
	}
}

// Start resets every piece of run state and begins a new run.
func (s *Session) Start(cfg RunConfig, seed uint64) {
	s.Config = cfg.Normalize()
	s.Seed = seed
	s.RunID = uuid.New()
	s.State = StateRunning
	s.Score = 0
	s.Ticks = 0
	s.Elapsed = 0
	s.outcome = nil
	s.Player = Player{}
	s.Camera = TrackCamera(s.Player)
	s.Pursuers.Reset(MixSeed(seed, 0xC095))
	s.Buildings = GenerateCity(NewRand(MixSeed(seed, 0xB1D6)))

	s.Events.Emit(Event{Type: EventRunStarted})
}

// Tick advances the run by one frame. dt is wall-clock seconds since the
// previous tick; negative values count as zero.
func (s *Session) Tick(in InputSnapshot, dt float64) {
	if s.State != StateRunning {
		return
	}
	if dt < 0 {
		dt = 0
	}

	s.Ticks++
	s.Elapsed += dt
	s.Score += dt * ScorePerSecond
	if s.Ticks%ScoreSampleTicks == 0 {
		s.Events.Emit(Event{Type: EventScoreSample, Tick: s.Ticks, Score: s.ScoreInt()})
	}

	s.Player.Update(in, s.Config.SpeedLevel, dt)
	s.Camera = TrackCamera(s.Player)

	if s.Ticks%SpawnEveryTicks == 0 {
		p := s.Pursuers.Spawn(s.Player.X, s.Player.Z)
		s.Events.Emit(Event{Type: EventPursuerSpawned, Tick: s.Ticks, X: p.X, Z: p.Z})
	}

	if s.Pursuers.Update(s.Player.X, s.Player.Z) {
		s.terminate()
	}
}

func (s *Session) terminate() {
	if s.State == StateTerminated {
		return
	}
	s.State = StateTerminated
	out := RunOutcome{
		RunID:    s.RunID,
		Score:    s.ScoreInt(),
		Ticks:    s.Ticks,
		Duration: s.Elapsed,
		Pursuers: s.Pursuers.Len(),
	}
	s.outcome = &out
	s.Events.Emit(Event{Type: EventRunOver, Tick: s.Ticks, Score: out.Score, Outcome: out})
}

// ScoreInt is the displayable score: the floor of the accumulated value.
func (s *Session) ScoreInt() int {
	return int(math.Floor(s.Score))
}

// Outcome returns the final result once the run has terminated.
func (s *Session) Outcome() (RunOutcome, bool) {
	if s.outcome == nil {
		return RunOutcome{}, false
	}
	return *s.outcome, true
}

// Place drops a pursuer at an exact position in the current run.
func (s *Session) Place(x, z float64) Pursuer {
	return s.Pursuers.Place(x, z)
}
