package spectate

import (
	"encoding/json"

	"github.com/google/uuid"

	"polychase/internal/sim"
)

const (
	FrameWorld = "world" // city layout, sent once per run and to late joiners
	FrameTick  = "tick"
)

type Car struct {
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Heading  float64 `json:"heading"`
	Velocity float64 `json:"velocity"`
}

// Vehicle is a pursuer. Ids start at 0, so id is always sent.
type Vehicle struct {
	ID      uint64  `json:"id"`
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"`
}

type Block struct {
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Width  float64 `json:"w"`
	Depth  float64 `json:"d"`
	Height float64 `json:"h"`
	Lit    bool    `json:"lit,omitempty"`
}

// Frame is one message on the spectator feed.
type Frame struct {
	Type      string    `json:"type"`
	RunID     uuid.UUID `json:"runId"`
	Tick      int       `json:"tick"`
	State     string    `json:"state"`
	Score     int       `json:"score"`
	Cosmetic  string    `json:"cosmetic,omitempty"`
	Player    *Car      `json:"player,omitempty"`
	Pursuers  []Vehicle `json:"pursuers,omitempty"`
	Buildings []Block   `json:"buildings,omitempty"`
}

func tickFrame(s sim.Snapshot) Frame {
	f := Frame{
		Type:     FrameTick,
		RunID:    s.RunID,
		Tick:     s.Tick,
		State:    s.State.String(),
		Score:    s.Score,
		Cosmetic: string(s.Cosmetic),
		Player: &Car{
			X:        s.Player.X,
			Z:        s.Player.Z,
			Heading:  s.Player.Heading,
			Velocity: s.Player.Velocity,
		},
		Pursuers: make([]Vehicle, len(s.Pursuers)),
	}
	for i, p := range s.Pursuers {
		f.Pursuers[i] = Vehicle{ID: p.ID, X: p.X, Z: p.Z, Heading: p.Heading}
	}
	return f
}

func worldFrame(s sim.Snapshot) Frame {
	f := Frame{
		Type:      FrameWorld,
		RunID:     s.RunID,
		Tick:      s.Tick,
		State:     s.State.String(),
		Buildings: make([]Block, len(s.Buildings)),
	}
	for i, b := range s.Buildings {
		f.Buildings[i] = Block{X: b.X, Z: b.Z, Width: b.Width, Depth: b.Depth, Height: b.Height, Lit: b.Lit}
	}
	return f
}

func encode(f Frame) ([]byte, error) {
	return json.Marshal(f)
}
