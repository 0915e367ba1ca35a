package sim

import "math"

// Building is a static, purely visual obstacle footprint.
type Building struct {
	X, Z   float64
	Width  float64
	Depth  float64
	Height float64
	Lit    bool // illuminated facade
}

// GenerateCity scatters buildings around the arena. Attempts landing in the
// clear square at the origin are dropped rather than retried, so fewer than
// CityAttempts buildings may come back.
func GenerateCity(r *Rand) []Building {
	out := make([]Building, 0, CityAttempts)
	for range CityAttempts {
		x := r.RangeF(-CityHalfExtent, CityHalfExtent)
		z := r.RangeF(-CityHalfExtent, CityHalfExtent)
		if inClearing(x, z) {
			continue
		}
		out = append(out, Building{
			X:      x,
			Z:      z,
			Height: r.RangeF(BuildingMinH, BuildingMaxH),
			Width:  r.RangeF(BuildingMinSide, BuildingMaxSide),
			Depth:  r.RangeF(BuildingMinSide, BuildingMaxSide),
			Lit:    r.Chance(LitFacadeChance),
		})
	}
	return out
}

func inClearing(x, z float64) bool {
	return math.Abs(x) < CityClearRadius && math.Abs(z) < CityClearRadius
}
