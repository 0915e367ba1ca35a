package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychase/internal/sim"
)

func runningSnap() sim.Snapshot {
	return sim.Snapshot{
		State:    sim.StateRunning,
		Cosmetic: sim.CosmeticNeon,
		Player:   sim.Player{X: 3, Z: -4},
		Camera:   sim.TrackCamera(sim.Player{X: 3, Z: -4}),
		Pursuers: []sim.Pursuer{{ID: 1, X: 10, Z: 10}},
		Buildings: []sim.Building{
			{X: 20, Z: 20, Width: 4, Depth: 6, Height: 10, Lit: true},
			{X: -20, Z: 15, Width: 3, Depth: 3, Height: 8},
		},
	}
}

func TestBuildCountsParts(t *testing.T) {
	f := Build(runningSnap(), 0)
	// floor + 2 buildings + player body, cabin, 4 wheels + cop body, bar, 2 lights
	assert.Len(t, f.Opaque, 1+2+6+4)
	require.Len(t, f.Translucent, 1)

	facade := f.Translucent[0]
	assert.InDelta(t, 20+3+0.01, facade.Center.Z(), 1e-5)
	assert.InDelta(t, 5, facade.Center.Y(), 1e-5)
	assert.InDelta(t, 3.2, facade.Size.X(), 1e-5)
	assert.InDelta(t, 8, facade.Size.Y(), 1e-5)
	assert.Equal(t, float32(FacadeAlpha), facade.Alpha)
	assert.Equal(t, Palette.Facade, facade.Emissive)
}

func TestBuildSkipsPlayerWhenIdle(t *testing.T) {
	snap := runningSnap()
	snap.State = sim.StateIdle
	snap.Pursuers = nil
	f := Build(snap, 0)
	assert.Len(t, f.Opaque, 3)
}

func TestBuildPaintsCosmetic(t *testing.T) {
	f := Build(runningSnap(), 0)
	body := f.Opaque[3]
	assert.Equal(t, Hex(0x00ffdd), body.Color)
	assert.Equal(t, Hex(0x00aa99), body.Emissive)
	assert.Equal(t, float32(2), body.Glow)
}

func TestCabinFollowsHeading(t *testing.T) {
	snap := runningSnap()
	snap.Player = sim.Player{Heading: math.Pi / 2}
	f := Build(snap, 0)
	cabin := f.Opaque[4]
	// Facing -X, the cabin sits toward the nose.
	assert.InDelta(t, -0.2, cabin.Center.X(), 1e-5)
	assert.InDelta(t, 0, cabin.Center.Z(), 1e-5)
	assert.InDelta(t, math.Pi/2, cabin.Yaw, 1e-6)
}

func TestSirenLightsAlternate(t *testing.T) {
	lights := func(elapsed float64) (Box, Box) {
		f := Build(runningSnap(), elapsed)
		n := len(f.Opaque)
		return f.Opaque[n-2], f.Opaque[n-1]
	}
	red, blue := lights(0.1)
	assert.Equal(t, Palette.SirenRed, red.Color)
	assert.Equal(t, Palette.SirenBlueD, blue.Color)
	assert.True(t, red.Unlit)

	red, blue = lights(0.3)
	assert.Equal(t, Palette.SirenRedD, red.Color)
	assert.Equal(t, Palette.SirenBlue, blue.Color)

	assert.True(t, SirenPhase(1.1))
	assert.False(t, SirenPhase(1.4))
	assert.True(t, SirenPhase(-0.4))
}

func TestBoxModel(t *testing.T) {
	b := Box{Center: mgl32.Vec3{1, 2, 3}, Size: mgl32.Vec3{2, 4, 6}}
	corner := b.Model().Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1})
	assert.InDelta(t, 2, corner.X(), 1e-5)
	assert.InDelta(t, 4, corner.Y(), 1e-5)
	assert.InDelta(t, 6, corner.Z(), 1e-5)
}

func ndc(vp mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	c := vp.Mul4x1(p.Vec4(1))
	return c.Vec3().Mul(1 / c.W())
}

func TestViewProjCentresPlayer(t *testing.T) {
	cam := sim.TrackCamera(sim.Player{X: 5, Z: 7})
	vp := ViewProj(cam, 16.0/9.0)
	c := ndc(vp, mgl32.Vec3{5, 0, 7})
	assert.InDelta(t, 0, c.X(), 1e-4)
	assert.InDelta(t, 0, c.Y(), 1e-4)
	assert.Less(t, c.Z(), float32(1))

	rx, rz := ListenerRight(cam)
	assert.InDelta(t, math.Sqrt2/2, rx, 1e-9)
	assert.InDelta(t, -math.Sqrt2/2, rz, 1e-9)
	right := ndc(vp, mgl32.Vec3{5 + 5*float32(rx), 0, 7 + 5*float32(rz)})
	assert.Greater(t, right.X(), float32(0.05))

	assert.Equal(t, ViewProj(cam, 1), ViewProj(cam, 0))
}

func TestGridLines(t *testing.T) {
	g := GridLines()
	require.Len(t, g, (GridDivs+1)*4*6)
	major := Palette.GridMajor.Vec3()
	centre := g[(GridDivs/2)*24:]
	assert.Equal(t, float32(0), centre[0])
	assert.Equal(t, major[0], centre[3])
	assert.Equal(t, float32(-50), g[0])
}

func TestStarsAboveHorizon(t *testing.T) {
	s := Stars(200, 100, 9)
	require.Len(t, s, 200*6)
	for i := 0; i < len(s); i += 6 {
		p := mgl32.Vec3{s[i], s[i+1], s[i+2]}
		assert.Greater(t, p.Y(), float32(0))
		assert.InDelta(t, 100, p.Len(), 0.01)
	}
	assert.Equal(t, s, Stars(200, 100, 9))
}

func TestRGBHelpers(t *testing.T) {
	c := Hex(0x3b82f6)
	assert.Equal(t, RGB{R: 0x3b, G: 0x82, B: 0xf6}, c)
	assert.Equal(t, RGB{R: 29, G: 65, B: 123}, c.Mul(128))
	assert.Equal(t, RGB{R: 0, G: 0x92, B: 255}, c.Add(-100, 16, 50))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, Hex(0xffffff).Vec3())
}

func TestCosmeticPaintDefaults(t *testing.T) {
	assert.Equal(t, Hex(0x3b82f6), CosmeticPaint(sim.CosmeticClassic).Body)
	assert.Equal(t, Hex(0xffd700), CosmeticPaint(sim.CosmeticGold).Body)
	assert.Equal(t, Hex(0x333333), CosmeticPaint(sim.CosmeticStealth).Body)
	assert.Equal(t, CosmeticPaint(sim.CosmeticClassic), CosmeticPaint("chrome"))
}

func TestFontAtlasLayout(t *testing.T) {
	img := FontAtlas()
	assert.Equal(t, FontAtlasW, img.Bounds().Dx())
	assert.Equal(t, FontAtlasH, img.Bounds().Dy())

	// '!' is a bar with a gap above the dot.
	col, row := GlyphCell('!')
	ox, oy := col*FontCellW, row*FontCellH
	for y, want := range []uint8{255, 255, 255, 255, 255, 0, 255} {
		assert.Equal(t, want, img.NRGBAAt(ox+2, oy+y).A, "row %d", y)
	}
	assert.Zero(t, img.NRGBAAt(ox+1, oy).A)

	col, row = GlyphCell(SolidGlyph)
	ox, oy = col*FontCellW, row*FontCellH
	for x := range GlyphW {
		for y := range GlyphH {
			assert.Equal(t, uint8(255), img.NRGBAAt(ox+x, oy+y).A)
		}
	}
	assert.Zero(t, img.NRGBAAt(ox+GlyphW, oy).A)
	assert.Zero(t, img.NRGBAAt(ox, oy+GlyphH).A)

	col, row = GlyphCell(' ')
	for x := range FontCellW {
		for y := range FontCellH {
			assert.Zero(t, img.NRGBAAt(col*FontCellW+x, row*FontCellH+y).A)
		}
	}
}

func TestGlyphLookup(t *testing.T) {
	c1, r1 := GlyphCell('é')
	c2, r2 := GlyphCell('?')
	assert.Equal(t, c2, c1)
	assert.Equal(t, r2, r1)

	u0, v0, u1, v1 := GlyphUV('A')
	assert.InDelta(t, float32(GlyphW)/FontAtlasW, u1-u0, 1e-6)
	assert.InDelta(t, float32(GlyphH)/FontAtlasH, v1-v0, 1e-6)
	assert.GreaterOrEqual(t, u0, float32(0))
	assert.LessOrEqual(t, v1, float32(1))

	assert.Equal(t, 3*FontCellW*2, TextWidth("AB\nCDE", 2))
	assert.Zero(t, TextWidth("", 3))
}

func TestUnitCubeFacesOutward(t *testing.T) {
	v := UnitCube()
	require.Len(t, v, 36*6)
	for tri := 0; tri < 12; tri++ {
		base := tri * 18
		p := func(i int) mgl32.Vec3 {
			o := base + i*6
			return mgl32.Vec3{v[o], v[o+1], v[o+2]}
		}
		n := mgl32.Vec3{v[base+3], v[base+4], v[base+5]}
		assert.InDelta(t, 1, n.Len(), 1e-6)
		face := p(1).Sub(p(0)).Cross(p(2).Sub(p(0)))
		assert.Greater(t, face.Dot(n), float32(0), "triangle %d", tri)
		for i := range 3 {
			assert.InDelta(t, 0.5, p(i).Dot(n), 1e-6)
		}
	}
}

func TestOrbitCameraLooksAtOrigin(t *testing.T) {
	c := OrbitCamera(0)
	assert.Equal(t, sim.Vec3{}, c.LookAt)
	assert.InDelta(t, 45, c.Position.Z, 1e-9)
	later := OrbitCamera(10)
	assert.InDelta(t, 45, math.Hypot(later.Position.X, later.Position.Z), 1e-9)
	assert.NotEqual(t, c.Position, later.Position)
}
