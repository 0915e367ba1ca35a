package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"polychase/internal/sim"
)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Hex builds a colour from 0xRRGGBB.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func (c RGB) Add(dr, dg, db int) RGB {
	clamp := func(v int) uint8 {
		return uint8(max(0, min(v, 255)))
	}
	return RGB{R: clamp(int(c.R) + dr), G: clamp(int(c.G) + dg), B: clamp(int(c.B) + db)}
}

// Vec3 is the colour as linear floats in [0,1].
func (c RGB) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

var Palette = struct {
	Sky        RGB
	Floor      RGB
	GridMajor  RGB
	GridMinor  RGB
	Building   RGB
	Facade     RGB
	Cabin      RGB
	Wheel      RGB
	CopBody    RGB
	SirenBar   RGB
	SirenRed   RGB
	SirenRedD  RGB
	SirenBlue  RGB
	SirenBlueD RGB
	Star       RGB

	Text     RGB
	TextDim  RGB
	Title    RGB
	Cash     RGB
	Alert    RGB
	Selected RGB
	Panel    RGB
}{
	Sky:        Hex(0x05060f),
	Floor:      Hex(0x1a1a2e),
	GridMajor:  Hex(0x444444),
	GridMinor:  Hex(0x222222),
	Building:   Hex(0x0f172a),
	Facade:     Hex(0xfde047),
	Cabin:      Hex(0x111111),
	Wheel:      Hex(0x000000),
	CopBody:    Hex(0x111111),
	SirenBar:   Hex(0x333333),
	SirenRed:   Hex(0xff0000),
	SirenRedD:  Hex(0x330000),
	SirenBlue:  Hex(0x0000ff),
	SirenBlueD: Hex(0x000033),
	Star:       Hex(0xffffff),

	Text:     Hex(0xe5e7eb),
	TextDim:  Hex(0x9ca3af),
	Title:    Hex(0xfacc15),
	Cash:     Hex(0x4ade80),
	Alert:    Hex(0xef4444),
	Selected: Hex(0x3b82f6),
	Panel:    Hex(0x0b1020),
}

// Paint is a cosmetic's body colour plus its emissive glow.
type Paint struct {
	Body     RGB
	Emissive RGB
	Glow     float32
}

func CosmeticPaint(c sim.Cosmetic) Paint {
	switch c {
	case sim.CosmeticGold:
		return Paint{Body: Hex(0xffd700), Emissive: Hex(0x553300), Glow: 0.5}
	case sim.CosmeticNeon:
		return Paint{Body: Hex(0x00ffdd), Emissive: Hex(0x00aa99), Glow: 2}
	case sim.CosmeticStealth:
		return Paint{Body: Hex(0x333333)}
	default:
		return Paint{Body: Hex(0x3b82f6)}
	}
}

// SirenPhase reports whether the red light is lit; blue is lit otherwise.
func SirenPhase(elapsed float64) (redLit bool) {
	const period = 0.5
	m := elapsed - period*float64(int(elapsed/period))
	if m < 0 {
		m += period
	}
	return m < period/2
}
