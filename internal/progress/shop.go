package progress

import (
	"errors"

	"polychase/internal/sim"
)

const MaxSpeedLevel = 5

var (
	ErrUnknownItem       = errors.New("progress: unknown shop item")
	ErrInsufficientFunds = errors.New("progress: insufficient funds")
	ErrMaxLevel          = errors.New("progress: already at max level")
	ErrAlreadyEquipped   = errors.New("progress: cosmetic already equipped")
)

type ItemID string

const (
	ItemEngine  ItemID = "speed"
	ItemGold    ItemID = "skin_gold"
	ItemNeon    ItemID = "skin_neon"
	ItemStealth ItemID = "skin_stealth"
)

// Item is one garage offer. Cosmetic is empty for the engine upgrade.
type Item struct {
	ID          ItemID
	Name        string
	Description string
	Cost        int
	Cosmetic    sim.Cosmetic
}

// Catalog lists the shop in display order.
var Catalog = []Item{
	{ID: ItemEngine, Name: "Engine Upgrade", Description: "Increase top speed by 10%", Cost: 500},
	{ID: ItemGold, Name: "Gold Plating", Description: "Show off your wealth", Cost: 2000, Cosmetic: sim.CosmeticGold},
	{ID: ItemNeon, Name: "Cyber Neon", Description: "Glow in the dark", Cost: 1500, Cosmetic: sim.CosmeticNeon},
	{ID: ItemStealth, Name: "Matte Stealth", Description: "Tactical look", Cost: 1000, Cosmetic: sim.CosmeticStealth},
}

func LookupItem(id ItemID) (Item, bool) {
	for _, it := range Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Stats is the persisted player progression.
type Stats struct {
	Money      int
	SpeedLevel int
	Cosmetic   sim.Cosmetic
	HighScore  int
}

func DefaultStats() Stats {
	return Stats{Money: 1000, SpeedLevel: 1, Cosmetic: sim.CosmeticClassic}
}

// RunConfig is what a run is allowed to read from progression.
func (s Stats) RunConfig() sim.RunConfig {
	return sim.RunConfig{SpeedLevel: s.SpeedLevel, Cosmetic: s.Cosmetic}.Normalize()
}

// Earned converts a final score to money.
func Earned(score int) int {
	if score <= 0 {
		return 0
	}
	return score / 10
}

// CanBuy reports why an item cannot be bought right now, or nil.
func (s Stats) CanBuy(it Item) error {
	if it.Cosmetic == "" {
		if s.SpeedLevel >= MaxSpeedLevel {
			return ErrMaxLevel
		}
	} else if s.Cosmetic == it.Cosmetic {
		return ErrAlreadyEquipped
	}
	if s.Money < it.Cost {
		return ErrInsufficientFunds
	}
	return nil
}

// apply returns the stats after buying it. CanBuy must have passed.
func (s Stats) apply(it Item) Stats {
	s.Money -= it.Cost
	if it.Cosmetic == "" {
		s.SpeedLevel++
	} else {
		s.Cosmetic = it.Cosmetic
	}
	return s
}

// applyRun folds a finished run into the stats.
func (s Stats) applyRun(score int) Stats {
	s.Money += Earned(score)
	s.HighScore = max(s.HighScore, score)
	return s
}
