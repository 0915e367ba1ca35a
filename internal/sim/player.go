package sim

import "math"

// InputSnapshot is the held-key state frozen for one tick. Anything not
// represented here is treated as not held.
type InputSnapshot struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

// Player is the driven vehicle on the ground plane (Y is always 0).
type Player struct {
	X, Z     float64
	Velocity float64 // signed; negative is forward
	Heading  float64 // radians, positive turns left
}

// EffectiveSpeed returns the top linear speed for a speed level.
func EffectiveSpeed(speedLevel int) float64 {
	return PlayerBaseSpeed * (1 + SpeedLevelBonus*float64(speedLevel))
}

// Update advances the player one tick.
//
// Position moves by (sin h, cos h)·Velocity. Forward sets a negative velocity,
// so at heading 0 forward travel is toward -Z, and a positive heading bends
// that path toward -X.
func (p *Player) Update(in InputSnapshot, speedLevel int, dt float64) {
	speed := EffectiveSpeed(speedLevel)

	switch {
	case in.Forward:
		p.Velocity = -speed
	case in.Backward:
		p.Velocity = speed
	default:
		// Friction is applied per tick, not per second.
		p.Velocity *= PlayerFriction
	}

	if math.Abs(p.Velocity) > SteerMinVelocity {
		turn := PlayerTurnRate * dt
		if in.Left {
			p.Heading += turn
		}
		if in.Right {
			p.Heading -= turn
		}
	}

	p.X += math.Sin(p.Heading) * p.Velocity
	p.Z += math.Cos(p.Heading) * p.Velocity

	p.X = clampF(p.X, -ArenaBound, ArenaBound)
	p.Z = clampF(p.Z, -ArenaBound, ArenaBound)
}
