package game

const (
	WindowWidth  = 1280
	WindowHeight = 720
	MSAASamples  = 4

	MaxFrameDT = 0.1 // seconds; longer stalls are clamped

	StarCount  = 1500
	StarRadius = 180
	StarSeed   = 0x57A125

	FogNear = 45.0
	FogFar  = 160.0

	HUDScale   = 3.0
	TitleScale = 7.0

	SirenFalloff = 20.0 // distance at which the siren pans fully to one side
	SirenMaxDist = 60.0
)
