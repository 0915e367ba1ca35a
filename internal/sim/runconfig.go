package sim

import (
	"strings"

	"github.com/google/uuid"
)

// Cosmetic identifies the player's vehicle finish. Only the id crosses into
// the core; colours are a frontend concern.
type Cosmetic string

const (
	CosmeticClassic Cosmetic = "classic"
	CosmeticGold    Cosmetic = "gold"
	CosmeticNeon    Cosmetic = "neon"
	CosmeticStealth Cosmetic = "stealth"
)

// Cosmetics lists every known finish in display order.
var Cosmetics = []Cosmetic{CosmeticClassic, CosmeticGold, CosmeticNeon, CosmeticStealth}

func (c Cosmetic) Valid() bool {
	for _, k := range Cosmetics {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCosmetic maps a stored id to a Cosmetic, falling back to classic.
func ParseCosmetic(s string) Cosmetic {
	c := Cosmetic(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return CosmeticClassic
	}
	return c
}

// RunConfig is the read-only input a run receives from the progression store.
type RunConfig struct {
	SpeedLevel int
	Cosmetic   Cosmetic
}

// Normalize returns a config the simulation can always use.
func (c RunConfig) Normalize() RunConfig {
	if c.SpeedLevel < MinSpeedLevel {
		c.SpeedLevel = MinSpeedLevel
	}
	if !c.Cosmetic.Valid() {
		c.Cosmetic = CosmeticClassic
	}
	return c
}

// RunOutcome is reported exactly once, when a pursuer catches the player.
type RunOutcome struct {
	RunID    uuid.UUID
	Score    int
	Ticks    int
	Duration float64 // seconds of simulated time
	Pursuers int     // pursuers alive at the catch
}
