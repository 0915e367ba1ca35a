package sim

// Vec3 is a point in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Camera is a trailing pose derived from the player every tick.
type Camera struct {
	Position Vec3
	LookAt   Vec3
}

// TrackCamera places the camera behind and above the player, looking at it.
func TrackCamera(p Player) Camera {
	return Camera{
		Position: Vec3{X: p.X + CameraOffsetX, Y: CameraHeight, Z: p.Z + CameraOffsetZ},
		LookAt:   Vec3{X: p.X, Y: 0, Z: p.Z},
	}
}
