package sim

// Arena (world units on the ground plane).
const (
	ArenaBound = 40.0 // player is clamped to [-ArenaBound, ArenaBound] on X and Z
	FloorSize  = 100.0
)

// Player kinematics.
const (
	PlayerBaseSpeed  = 0.2  // units per tick before the engine upgrade bonus
	SpeedLevelBonus  = 0.1  // +10% per speed level
	PlayerTurnRate   = 3.5  // rad/s, scaled by wall-clock dt
	PlayerFriction   = 0.9  // per-tick velocity decay when coasting
	SteerMinVelocity = 0.01 // steering needs at least this much |velocity|
	MinSpeedLevel    = 1
)

// Pursuers.
const (
	PursuerSpeed      = 0.16 // units per tick
	SpawnEveryTicks   = 200
	SpawnRadius       = 30.0
	CollisionDistance = 1.5

	// MinEvictDistance keeps a pursuer alive through the tick it spawns on.
	MinEvictDistance = SpawnRadius + PursuerSpeed
)

// Scoring.
const (
	ScorePerSecond   = 10.0
	ScoreSampleTicks = 10 // score sample cadence for HUDs
)

// Camera tracker offsets.
const (
	CameraOffsetX = 20.0
	CameraOffsetZ = 20.0
	CameraHeight  = 25.0
)

// City layout.
const (
	CityAttempts    = 40
	CityHalfExtent  = 40.0
	CityClearRadius = 5.0 // square around the origin left free for the start
	BuildingMinH    = 5.0
	BuildingMaxH    = 20.0
	BuildingMinSide = 2.0
	BuildingMaxSide = 7.0
	LitFacadeChance = 0.5
)
