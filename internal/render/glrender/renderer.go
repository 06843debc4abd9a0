// Package glrender draws pictographs into an OpenGL 4.1 window.
package glrender

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/fogleman/gg"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/animation"
	"github.com/Faultbox/tka-animator/internal/engine/shader"
	"github.com/Faultbox/tka-animator/internal/engine/texture"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/render"
	"github.com/Faultbox/tka-animator/internal/render/canvas"
	"github.com/Faultbox/tka-animator/pkg/grid"
	tmath "github.com/Faultbox/tka-animator/pkg/math"
)

const floatsPerVertex = 8 // pos2 + uv2 + color4

// gridTextureSize is the side of the generated point grid texture.
const gridTextureSize = 1024

// Renderer draws DrawCalls with textured quads. Every method must be called
// on the thread that owns the GL context.
type Renderer struct {
	screenWidth  int
	screenHeight int

	textured *shader.Program
	vao      uint32
	vbo      uint32
	vertices []float32

	// white is a 1x1 texture used for solid quads.
	white uint32

	textures map[image.Image]uint32
	grids    map[grid.Mode]uint32
	letters  map[string]uint32

	log *zap.Logger
}

var _ render.Surface = (*Renderer)(nil)

// New creates a renderer for a width x height window.
// It must be called after the OpenGL context is created.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:  width,
		screenHeight: height,
		vertices:     make([]float32, 0, 6*floatsPerVertex*4),
		textures:     make(map[image.Image]uint32),
		grids:        make(map[grid.Mode]uint32),
		letters:      make(map[string]uint32),
		log:          logger.Named("glrender"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	r.textured, err = shader.New(vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("create textured shader: %w", err)
	}
	r.createBuffers()

	whiteImg := image.NewRGBA(image.Rect(0, 0, 1, 1))
	whiteImg.Pix[0], whiteImg.Pix[1], whiteImg.Pix[2], whiteImg.Pix[3] = 255, 255, 255, 255
	r.white = texture.Upload(whiteImg)

	return r, nil
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// Draw clears the window and draws call. A missing prop image leaves the
// grid drawn and returns render.ErrAssetsPending.
func (r *Renderer) Draw(call render.DrawCall) error {
	gl.Viewport(0, 0, int32(r.screenWidth), int32(r.screenHeight))
	gl.ClearColor(1, 1, 1, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	view := Fit(r.screenWidth, r.screenHeight).View()

	if call.GridVisible {
		tex := r.gridTexture(call)
		m := view.Mul(tmath.Place(grid.CenterX, grid.CenterY, 0, grid.Size, grid.Size))
		r.drawQuad(tex, m, ColorWhite)
	}

	if !call.HasProps() {
		return render.ErrAssetsPending
	}
	r.drawProp(view, call.BlueImage, call.Blue, call.PropWidth, call.PropHeight)
	r.drawProp(view, call.RedImage, call.Red, call.PropWidth, call.PropHeight)

	if call.Letter != "" {
		m := view.Mul(tmath.Place(110, grid.Size-110, 0, 160, 160))
		r.drawQuad(r.letterTexture(call.Letter), m, ColorWhite)
	}
	return nil
}

func (r *Renderer) drawProp(view tmath.Mat4, img image.Image, s animation.PropState, w, h float64) {
	if w <= 0 || h <= 0 {
		b := img.Bounds()
		w, h = float64(b.Dx()), float64(b.Dy())
	}
	m := view.Mul(tmath.Place(float32(s.X), float32(s.Y),
		float32(tmath.Radians(s.StaffRotationAngle)), float32(w), float32(h)))
	r.drawQuad(r.imageTexture(img), m, ColorWhite)
}

// DrawProgress draws a bar along the bottom edge filled to frac.
func (r *Renderer) DrawProgress(frac float64) {
	frac = tmath.Clamp(frac, 0, 1)
	w, h := float32(r.screenWidth), float32(6)
	y := float32(r.screenHeight) - h/2
	r.drawQuad(r.white, tmath.Place(w/2, y, 0, w, h), ColorTrack)
	fw := w * float32(frac)
	if fw > 0 {
		r.drawQuad(r.white, tmath.Place(fw/2, y, 0, fw, h), ColorProgress)
	}
}

func (r *Renderer) drawQuad(tex uint32, m tmath.Mat4, c Color) {
	r.vertices = appendQuad(r.vertices[:0], m, c)

	proj := tmath.ScreenOrtho(float32(r.screenWidth), float32(r.screenHeight))
	r.textured.Use()
	gl.UniformMatrix4fv(r.textured.Uniform("uProjection"), 1, false, proj.Ptr())
	gl.Uniform1i(r.textured.Uniform("uTexture"), 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*4, unsafe.Pointer(&r.vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.vertices)/floatsPerVertex))

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (r *Renderer) imageTexture(img image.Image) uint32 {
	if tex, ok := r.textures[img]; ok {
		return tex
	}
	tex := texture.Upload(img)
	r.textures[img] = tex
	return tex
}

func (r *Renderer) gridTexture(call render.DrawCall) uint32 {
	if call.GridImage != nil {
		return r.imageTexture(call.GridImage)
	}
	if tex, ok := r.grids[call.GridMode]; ok {
		return tex
	}
	cv := canvas.New(gridTextureSize)
	// No props in the call: only the grid is drawn.
	_ = cv.Draw(render.DrawCall{GridVisible: true, GridMode: call.GridMode})
	tex := texture.Upload(cv.Image())
	r.grids[call.GridMode] = tex
	r.log.Debug("grid texture generated", zap.Stringer("mode", call.GridMode))
	return tex
}

func (r *Renderer) letterTexture(letter string) uint32 {
	if tex, ok := r.letters[letter]; ok {
		return tex
	}
	dc := gg.NewContext(64, 64)
	dc.SetRGB(0.12, 0.12, 0.12)
	dc.Scale(3, 3)
	dc.DrawStringAnchored(letter, 64.0/6, 64.0/6, 0.5, 0.5)
	tex := texture.Upload(dc.Image())
	r.letters[letter] = tex
	return tex
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	for img, tex := range r.textures {
		texture.Delete(tex)
		delete(r.textures, img)
	}
	for mode, tex := range r.grids {
		texture.Delete(tex)
		delete(r.grids, mode)
	}
	for l, tex := range r.letters {
		texture.Delete(tex)
		delete(r.letters, l)
	}
	texture.Delete(r.white)
	r.white = 0
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	r.textured.Delete()
}

func (r *Renderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)

	// Position attribute (location = 0): 2 floats
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// TexCoord attribute (location = 1): 2 floats
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	// Color attribute (location = 2): 4 floats
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 4*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

const vertexSource = `
	#version 410 core

	layout (location = 0) in vec2 aPos;
	layout (location = 1) in vec2 aTexCoord;
	layout (location = 2) in vec4 aColor;

	uniform mat4 uProjection;

	out vec2 vTexCoord;
	out vec4 vColor;

	void main() {
		gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
		vTexCoord = aTexCoord;
		vColor = aColor;
	}
`

const fragmentSource = `
	#version 410 core

	uniform sampler2D uTexture;

	in vec2 vTexCoord;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = texture(uTexture, vTexCoord) * vColor;
	}
`
