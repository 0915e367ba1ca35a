//go:build !android

package game

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"polychase/internal/scene"
)

// InitFont uploads the bitmap font atlas and sets up the text pipeline.
func (r *Renderer) InitFont() error {
	img := scene.FontAtlas()
	b := img.Bounds()

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	r.fontTex = tex

	prog, err := linkProgram(textVertSrc, textFragSrc)
	if err != nil {
		return fmt.Errorf("text program: %w", err)
	}
	r.textProg = prog
	gl.UseProgram(prog)
	r.textURes = gl.GetUniformLocation(prog, gl.Str("uResolution\x00"))
	r.textUFontTex = gl.GetUniformLocation(prog, gl.Str("uFontTex\x00"))
	gl.Uniform1i(r.textUFontTex, 2) // texture unit 2

	// Text VAO/VBO: per-vertex pos(2) + uv(2) + color(4) = 8 floats.
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := int32(8 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, 512*6*int(stride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0) // aPos
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aUV
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, glOffset(2*4))
	gl.EnableVertexAttribArray(2) // aColor
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(4*4))

	r.textVAO = vao
	r.textVBO = vbo
	gl.BindVertexArray(0)
	return nil
}

func (r *Renderer) quad(x, y, w, h, u0, v0, u1, v1 float32, col scene.RGB, alpha float32) {
	cr := float32(col.R) / 255.0
	cg := float32(col.G) / 255.0
	cb := float32(col.B) / 255.0

	// Two triangles: TL, TR, BL then TR, BR, BL.
	r.textBuf = append(r.textBuf,
		x, y, u0, v0, cr, cg, cb, alpha,
		x+w, y, u1, v0, cr, cg, cb, alpha,
		x, y+h, u0, v1, cr, cg, cb, alpha,
		x+w, y, u1, v0, cr, cg, cb, alpha,
		x+w, y+h, u1, v1, cr, cg, cb, alpha,
		x, y+h, u0, v1, cr, cg, cb, alpha,
	)
}

// DrawChar queues a single glyph in screen pixel space.
func (r *Renderer) DrawChar(ch rune, sx, sy, scale float32, col scene.RGB) {
	if ch == ' ' {
		return
	}
	u0, v0, u1, v1 := scene.GlyphUV(ch)
	r.quad(sx, sy, scene.GlyphW*scale, scene.GlyphH*scale, u0, v0, u1, v1, col, 1)
}

// DrawString queues a string at screen pixel position (sx, sy) with given scale.
func (r *Renderer) DrawString(text string, sx, sy int, scale float32, col scene.RGB) {
	advance := float32(scene.FontCellW) * scale
	lineAdvance := float32(scene.FontCellH) * scale
	baseX := float32(sx)
	x := float32(sx)
	y := float32(sy)
	for _, ch := range text {
		if ch == '\n' {
			x = baseX
			y += lineAdvance
			continue
		}
		r.DrawChar(ch, x, y, scale, col)
		x += advance
	}
}

// DrawCentered queues text horizontally centred on the framebuffer.
func (r *Renderer) DrawCentered(text string, fbW, sy int, scale float32, col scene.RGB) {
	r.DrawString(text, fbW/2-scene.TextWidth(text, scale)/2, sy, scale, col)
}

// DrawRect queues a filled rectangle sampled from the atlas's solid glyph.
func (r *Renderer) DrawRect(x, y, w, h int, col scene.RGB, alpha float32) {
	u0, v0, u1, v1 := scene.GlyphUV(scene.SolidGlyph)
	u, v := (u0+u1)/2, (v0+v1)/2
	r.quad(float32(x), float32(y), float32(w), float32(h), u, v, u, v, col, alpha)
}

// FlushText draws all buffered quads and clears the buffer.
func (r *Renderer) FlushText(fbW, fbH int) {
	if len(r.textBuf) == 0 {
		return
	}

	gl.UseProgram(r.textProg)
	gl.BindVertexArray(r.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)

	gl.Uniform2f(r.textURes, float32(fbW), float32(fbH))

	gl.ActiveTexture(gl.TEXTURE2)
	gl.BindTexture(gl.TEXTURE_2D, r.fontTex)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	count := len(r.textBuf) / 8
	gl.BufferData(gl.ARRAY_BUFFER, len(r.textBuf)*4, gl.Ptr(r.textBuf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))

	gl.Disable(gl.BLEND)
	gl.ActiveTexture(gl.TEXTURE0)
	r.textBuf = r.textBuf[:0]
}
