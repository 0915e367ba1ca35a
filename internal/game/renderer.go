//go:build !android

package game

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"polychase/internal/scene"
	"polychase/internal/sim"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	// Box program.
	meshProg uint32
	cubeVAO  uint32
	cubeVBO  uint32

	uViewProj int32
	uModel    int32
	uColor    int32
	uEmissive int32
	uGlow     int32
	uAlpha    int32
	uUnlit    int32
	uAmbient  int32
	uLightDir int32
	uEye      int32
	uFogColor int32
	uFog      int32

	// Grid lines and stars.
	lineProg      uint32
	lineUViewProj int32
	lineUPoint    int32
	gridVAO       uint32
	gridVBO       uint32
	gridCount     int32
	starVAO       uint32
	starVBO       uint32
	starCount     int32

	// Font/text rendering.
	fontTex      uint32
	textProg     uint32
	textVAO      uint32
	textVBO      uint32
	textURes     int32
	textUFontTex int32
	textBuf      []float32

	viewProj mgl32.Mat4
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{}

	prog, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r.meshProg = prog
	uni := func(name string) int32 { return gl.GetUniformLocation(prog, gl.Str(name+"\x00")) }
	r.uViewProj = uni("uViewProj")
	r.uModel = uni("uModel")
	r.uColor = uni("uColor")
	r.uEmissive = uni("uEmissive")
	r.uGlow = uni("uGlow")
	r.uAlpha = uni("uAlpha")
	r.uUnlit = uni("uUnlit")
	r.uAmbient = uni("uAmbient")
	r.uLightDir = uni("uLightDir")
	r.uEye = uni("uEye")
	r.uFogColor = uni("uFogColor")
	r.uFog = uni("uFog")

	gl.UseProgram(prog)
	gl.Uniform1f(r.uAmbient, scene.Ambient)
	gl.Uniform3fv(r.uLightDir, 1, &scene.LightDir[0])
	sky := scene.Palette.Sky.Vec3()
	gl.Uniform3fv(r.uFogColor, 1, &sky[0])
	gl.Uniform2f(r.uFog, FogNear, FogFar)

	// Cube VAO: pos(3) + normal(3).
	cube := scene.UnitCube()
	r.cubeVAO, r.cubeVBO = uploadInterleaved(cube)

	lp, err := linkProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	r.lineProg = lp
	r.lineUViewProj = gl.GetUniformLocation(lp, gl.Str("uViewProj\x00"))
	r.lineUPoint = gl.GetUniformLocation(lp, gl.Str("uPointSize\x00"))

	grid := scene.GridLines()
	r.gridVAO, r.gridVBO = uploadInterleaved(grid)
	r.gridCount = int32(len(grid) / 6)

	stars := scene.Stars(StarCount, StarRadius, StarSeed)
	r.starVAO, r.starVBO = uploadInterleaved(stars)
	r.starCount = int32(len(stars) / 6)

	gl.BindVertexArray(0)
	return r, nil
}

// uploadInterleaved creates a static VAO with two vec3 attributes per vertex.
func uploadInterleaved(data []float32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	return vao, vbo
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.cubeVBO, r.gridVBO, r.starVBO, r.textVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.cubeVAO, r.gridVAO, r.starVAO, r.textVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.meshProg, r.lineProg, r.textProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	if r.fontTex != 0 {
		gl.DeleteTextures(1, &r.fontTex)
	}
}

// BeginFrame clears the target and loads the camera for this frame.
func (r *Renderer) BeginFrame(cam sim.Camera, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.viewProj = scene.ViewProj(cam, float32(fbW)/float32(fbH))

	gl.UseProgram(r.meshProg)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, &r.viewProj[0])
	gl.Uniform3f(r.uEye, float32(cam.Position.X), float32(cam.Position.Y), float32(cam.Position.Z))

	gl.UseProgram(r.lineProg)
	gl.UniformMatrix4fv(r.lineUViewProj, 1, false, &r.viewProj[0])
}

// DrawSky draws the star field behind everything else.
func (r *Renderer) DrawSky() {
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(r.lineProg)
	gl.Uniform1f(r.lineUPoint, 2)
	gl.BindVertexArray(r.starVAO)
	gl.DrawArrays(gl.POINTS, 0, r.starCount)
}

// DrawScene draws opaque boxes, the floor grid, then translucent boxes.
func (r *Renderer) DrawScene(f scene.Frame) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.UseProgram(r.meshProg)
	gl.BindVertexArray(r.cubeVAO)
	for _, b := range f.Opaque {
		r.drawBox(b)
	}

	gl.UseProgram(r.lineProg)
	gl.Uniform1f(r.lineUPoint, 1)
	gl.BindVertexArray(r.gridVAO)
	gl.DrawArrays(gl.LINES, 0, r.gridCount)

	if len(f.Translucent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		gl.UseProgram(r.meshProg)
		gl.BindVertexArray(r.cubeVAO)
		for _, b := range f.Translucent {
			r.drawBox(b)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawBox(b scene.Box) {
	model := b.Model()
	gl.UniformMatrix4fv(r.uModel, 1, false, &model[0])
	c, e := b.Color.Vec3(), b.Emissive.Vec3()
	gl.Uniform3fv(r.uColor, 1, &c[0])
	gl.Uniform3fv(r.uEmissive, 1, &e[0])
	gl.Uniform1f(r.uGlow, b.Glow)
	gl.Uniform1f(r.uAlpha, b.Alpha)
	unlit := int32(0)
	if b.Unlit {
		unlit = 1
	}
	gl.Uniform1i(r.uUnlit, unlit)
	gl.DrawArrays(gl.TRIANGLES, 0, 36)
}
