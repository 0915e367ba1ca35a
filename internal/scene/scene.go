// Package scene turns a simulation snapshot into flat-shaded boxes, grid
// lines and camera matrices. It owns no GL state.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"polychase/internal/sim"
)

const (
	FOVDegrees = 50
	Near       = 0.1
	Far        = 400

	Ambient     = 0.5
	GridDivs    = 50
	FacadeAlpha = 0.3
	FacadeGlow  = 0.5
)

// LightDir points from the ground toward the sun.
var LightDir = mgl32.Vec3{50, 50, 20}.Normalize()

// Box is one axis-scaled cube, rotated about Y.
type Box struct {
	Center   mgl32.Vec3
	Size     mgl32.Vec3
	Yaw      float32
	Color    RGB
	Emissive RGB
	Glow     float32
	Alpha    float32 // 1 is opaque
	Unlit    bool
}

// Model maps the unit cube centred at the origin onto b.
func (b Box) Model() mgl32.Mat4 {
	return mgl32.Translate3D(b.Center.X(), b.Center.Y(), b.Center.Z()).
		Mul4(mgl32.HomogRotate3DY(b.Yaw)).
		Mul4(mgl32.Scale3D(b.Size.X(), b.Size.Y(), b.Size.Z()))
}

// Frame is everything drawn in one 3D pass. Translucent boxes go after the
// opaque ones with depth writes off.
type Frame struct {
	Opaque      []Box
	Translucent []Box
}

// part is a box in a vehicle's local frame.
type part struct {
	at, size mgl32.Vec3
	color    RGB
}

var playerParts = []part{
	{at: mgl32.Vec3{0, 0.8, -0.2}, size: mgl32.Vec3{0.8, 0.5, 1}, color: Palette.Cabin},
	{at: mgl32.Vec3{0.6, 0.3, 0.6}, size: mgl32.Vec3{0.2, 0.6, 0.6}, color: Palette.Wheel},
	{at: mgl32.Vec3{-0.6, 0.3, 0.6}, size: mgl32.Vec3{0.2, 0.6, 0.6}, color: Palette.Wheel},
	{at: mgl32.Vec3{0.6, 0.3, -0.6}, size: mgl32.Vec3{0.2, 0.6, 0.6}, color: Palette.Wheel},
	{at: mgl32.Vec3{-0.6, 0.3, -0.6}, size: mgl32.Vec3{0.2, 0.6, 0.6}, color: Palette.Wheel},
}

// Build lays out the floor, city, player and pursuers. elapsed drives the
// siren flash.
func Build(snap sim.Snapshot, elapsed float64) Frame {
	var f Frame
	f.Opaque = append(f.Opaque, Box{
		Center: mgl32.Vec3{0, -0.05, 0},
		Size:   mgl32.Vec3{sim.FloorSize, 0.1, sim.FloorSize},
		Color:  Palette.Floor,
		Alpha:  1,
	})

	for _, b := range snap.Buildings {
		w, h, d := float32(b.Width), float32(b.Height), float32(b.Depth)
		f.Opaque = append(f.Opaque, Box{
			Center: mgl32.Vec3{float32(b.X), h / 2, float32(b.Z)},
			Size:   mgl32.Vec3{w, h, d},
			Color:  Palette.Building,
			Alpha:  1,
		})
		if b.Lit {
			f.Translucent = append(f.Translucent, Box{
				Center:   mgl32.Vec3{float32(b.X), h / 2, float32(b.Z) + d/2 + 0.01},
				Size:     mgl32.Vec3{w * 0.8, h * 0.8, 0.01},
				Color:    Palette.Facade,
				Emissive: Palette.Facade,
				Glow:     FacadeGlow,
				Alpha:    FacadeAlpha,
			})
		}
	}

	if snap.State != sim.StateIdle {
		f.Opaque = appendPlayer(f.Opaque, snap.Player, snap.Cosmetic)
	}
	red := SirenPhase(elapsed)
	for _, p := range snap.Pursuers {
		f.Opaque = appendPursuer(f.Opaque, p, red)
	}
	return f
}

func appendPlayer(out []Box, p sim.Player, c sim.Cosmetic) []Box {
	paint := CosmeticPaint(c)
	yaw := float32(p.Heading)
	origin := mgl32.Vec3{float32(p.X), 0, float32(p.Z)}
	out = append(out, Box{
		Center:   origin.Add(mgl32.Vec3{0, 0.5, 0}),
		Size:     mgl32.Vec3{1, 0.6, 2},
		Yaw:      yaw,
		Color:    paint.Body,
		Emissive: paint.Emissive,
		Glow:     paint.Glow,
		Alpha:    1,
	})
	for _, pt := range playerParts {
		out = append(out, Box{
			Center: origin.Add(rotateY(pt.at, yaw)),
			Size:   pt.size,
			Yaw:    yaw,
			Color:  pt.color,
			Alpha:  1,
		})
	}
	return out
}

func appendPursuer(out []Box, p sim.Pursuer, redLit bool) []Box {
	yaw := float32(p.Heading)
	origin := mgl32.Vec3{float32(p.X), 0, float32(p.Z)}
	redC, blueC := Palette.SirenRed, Palette.SirenBlueD
	if !redLit {
		redC, blueC = Palette.SirenRedD, Palette.SirenBlue
	}
	return append(out,
		Box{Center: origin.Add(mgl32.Vec3{0, 0.5, 0}), Size: mgl32.Vec3{1.1, 0.7, 2.1}, Yaw: yaw, Color: Palette.CopBody, Alpha: 1},
		Box{Center: origin.Add(mgl32.Vec3{0, 1.0, 0}), Size: mgl32.Vec3{0.8, 0.1, 0.2}, Yaw: yaw, Color: Palette.SirenBar, Alpha: 1},
		Box{Center: origin.Add(rotateY(mgl32.Vec3{0.3, 1.05, 0}, yaw)), Size: mgl32.Vec3{0.3, 0.15, 0.15}, Yaw: yaw, Color: redC, Alpha: 1, Unlit: true},
		Box{Center: origin.Add(rotateY(mgl32.Vec3{-0.3, 1.05, 0}, yaw)), Size: mgl32.Vec3{0.3, 0.15, 0.15}, Yaw: yaw, Color: blueC, Alpha: 1, Unlit: true},
	)
}

func rotateY(v mgl32.Vec3, yaw float32) mgl32.Vec3 {
	return mgl32.HomogRotate3DY(yaw).Mul4x1(v.Vec4(1)).Vec3()
}

// ViewProj is the perspective camera matrix for a tracking pose.
func ViewProj(cam sim.Camera, aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	eye := mgl32.Vec3{float32(cam.Position.X), float32(cam.Position.Y), float32(cam.Position.Z)}
	at := mgl32.Vec3{float32(cam.LookAt.X), float32(cam.LookAt.Y), float32(cam.LookAt.Z)}
	proj := mgl32.Perspective(mgl32.DegToRad(FOVDegrees), aspect, Near, Far)
	return proj.Mul4(mgl32.LookAtV(eye, at, mgl32.Vec3{0, 1, 0}))
}

// ListenerRight is the camera's screen-right direction on the ground plane.
func ListenerRight(cam sim.Camera) (x, z float64) {
	fx := cam.LookAt.X - cam.Position.X
	fz := cam.LookAt.Z - cam.Position.Z
	// forward × up, flattened
	rx, rz := -fz, fx
	l := math.Hypot(rx, rz)
	if l == 0 {
		return 1, 0
	}
	return rx / l, rz / l
}

// GridLines returns line-list vertices (x, y, z, r, g, b) for a square grid
// of FloorSize split into GridDivs cells, centre lines in the major colour.
func GridLines() []float32 {
	const y = 0.01
	half := float32(sim.FloorSize / 2)
	step := float32(sim.FloorSize) / GridDivs
	out := make([]float32, 0, (GridDivs+1)*4*6)
	for i := 0; i <= GridDivs; i++ {
		k := -half + float32(i)*step
		c := Palette.GridMinor.Vec3()
		if i == GridDivs/2 {
			c = Palette.GridMajor.Vec3()
		}
		out = append(out,
			k, y, -half, c[0], c[1], c[2],
			k, y, half, c[0], c[1], c[2],
			-half, y, k, c[0], c[1], c[2],
			half, y, k, c[0], c[1], c[2],
		)
	}
	return out
}

// Stars scatters n points on the upper half of a sphere around the origin,
// in the same vertex layout as GridLines.
func Stars(n int, radius float32, seed uint64) []float32 {
	r := sim.NewRand(seed)
	out := make([]float32, 0, n*6)
	for range n {
		theta := r.Angle()
		y := r.RangeF(0.08, 1)
		rr := math.Sqrt(1 - y*y)
		b := float32(r.RangeF(0.35, 1))
		c := Palette.Star.Vec3().Mul(b)
		out = append(out,
			radius*float32(rr*math.Cos(theta)), radius*float32(y), radius*float32(rr*math.Sin(theta)),
			c[0], c[1], c[2],
		)
	}
	return out
}

// UnitCube returns 36 vertices (x, y, z, nx, ny, nz) of a cube spanning
// -0.5..0.5, wound counter-clockwise from outside.
func UnitCube() []float32 {
	faces := []struct {
		n    mgl32.Vec3
		u, v mgl32.Vec3
	}{
		{n: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
		{n: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
		{n: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
		{n: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
		{n: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
		{n: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	}
	out := make([]float32, 0, 36*6)
	for _, f := range faces {
		c := f.n.Mul(0.5)
		u, v := f.u.Mul(0.5), f.v.Mul(0.5)
		corners := [4]mgl32.Vec3{
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		}
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			p := corners[i]
			out = append(out, p[0], p[1], p[2], f.n[0], f.n[1], f.n[2])
		}
	}
	return out
}

// OrbitCamera circles the arena for screens without a run.
func OrbitCamera(t float64) sim.Camera {
	const radius, height, speed = 45.0, 28.0, 0.08
	a := t * speed
	return sim.Camera{
		Position: sim.Vec3{X: radius * math.Sin(a), Y: height, Z: radius * math.Cos(a)},
	}
}
