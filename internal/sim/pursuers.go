package sim

import "math"

// Pursuer is a patrol car that always steers straight at the player.
type Pursuer struct {
	ID      uint64
	X, Z    float64
	Heading float64
}

type PursuerSystem struct {
	Pursuers []Pursuer

	// EvictDistance removes pursuers farther than this from the player after
	// each update. Zero keeps every pursuer for the whole run; positive values
	// below MinEvictDistance are raised to it.
	EvictDistance float64

	r      *Rand
	nextID uint64
}

func NewPursuerSystem(seed uint64) *PursuerSystem {
	return &PursuerSystem{r: NewRand(seed)}
}

// Reset drops every pursuer. Ids keep counting so they are never reused.
func (ps *PursuerSystem) Reset(seed uint64) {
	ps.Pursuers = ps.Pursuers[:0]
	ps.r = NewRand(seed)
}

// Spawn adds one pursuer on the spawn ring around (px, pz).
func (ps *PursuerSystem) Spawn(px, pz float64) Pursuer {
	ang := ps.r.Angle()
	return ps.Place(px+math.Sin(ang)*SpawnRadius, pz+math.Cos(ang)*SpawnRadius)
}

// Place adds a pursuer at an exact position with the next free id.
func (ps *PursuerSystem) Place(x, z float64) Pursuer {
	p := Pursuer{ID: ps.nextID, X: x, Z: z}
	ps.nextID++
	ps.Pursuers = append(ps.Pursuers, p)
	return p
}

// Update moves every pursuer toward (px, pz) and reports whether any of them
// was within CollisionDistance before moving.
func (ps *PursuerSystem) Update(px, pz float64) (caught bool) {
	for i := range ps.Pursuers {
		p := &ps.Pursuers[i]
		dx := px - p.X
		dz := pz - p.Z
		dist := math.Hypot(dx, dz)

		if dist < CollisionDistance {
			caught = true
		}
		if dist == 0 {
			continue
		}

		ux, uz := dx/dist, dz/dist
		// Never step past the player.
		step := math.Min(PursuerSpeed, dist)
		p.X += ux * step
		p.Z += uz * step
		p.Heading = math.Atan2(ux, uz)
	}

	if ps.EvictDistance > 0 {
		ps.evictBeyond(px, pz, math.Max(ps.EvictDistance, MinEvictDistance))
	}
	return caught
}

func (ps *PursuerSystem) evictBeyond(px, pz, limit float64) {
	kept := ps.Pursuers[:0]
	for _, p := range ps.Pursuers {
		if math.Hypot(px-p.X, pz-p.Z) <= limit {
			kept = append(kept, p)
		}
	}
	ps.Pursuers = kept
}

// Len returns the number of live pursuers.
func (ps *PursuerSystem) Len() int { return len(ps.Pursuers) }
