package sim

import "github.com/google/uuid"

// Snapshot is an immutable copy of what presentation needs for one tick.
// Buildings is shared with the session and must be treated as read-only.
type Snapshot struct {
	RunID     uuid.UUID
	Tick      int
	State     RunState
	Score     int
	Cosmetic  Cosmetic
	Player    Player
	Camera    Camera
	Pursuers  []Pursuer
	Buildings []Building
}

func (s *Session) Snapshot() Snapshot {
	ps := make([]Pursuer, len(s.Pursuers.Pursuers))
	copy(ps, s.Pursuers.Pursuers)
	return Snapshot{
		RunID:     s.RunID,
		Tick:      s.Ticks,
		State:     s.State,
		Score:     s.ScoreInt(),
		Cosmetic:  s.Config.Cosmetic,
		Player:    s.Player,
		Camera:    s.Camera,
		Pursuers:  ps,
		Buildings: s.Buildings,
	}
}
