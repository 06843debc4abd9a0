// Package canvas renders pictographs into images with fogleman/gg.
package canvas

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/Faultbox/tka-animator/internal/animation"
	"github.com/Faultbox/tka-animator/internal/render"
	"github.com/Faultbox/tka-animator/pkg/grid"
	tmath "github.com/Faultbox/tka-animator/pkg/math"
)

var (
	background = color.White
	gridColor  = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
	outerColor = color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xFF}
)

// Canvas is an image Surface. It is not safe for concurrent use.
type Canvas struct {
	dc    *gg.Context
	size  int
	scale float64
}

var _ render.Surface = (*Canvas)(nil)

// New creates a square canvas size pixels wide.
func New(size int) *Canvas {
	if size <= 0 {
		size = int(grid.Size)
	}
	return &Canvas{
		dc:    gg.NewContext(size, size),
		size:  size,
		scale: float64(size) / grid.Size,
	}
}

// Size returns the side length in pixels.
func (c *Canvas) Size() int { return c.size }

// Draw clears the canvas and draws call. When a prop image is missing the
// grid is still drawn and render.ErrAssetsPending is returned.
func (c *Canvas) Draw(call render.DrawCall) error {
	dc := c.dc
	dc.SetColor(background)
	dc.Clear()

	if call.GridVisible {
		if call.GridImage != nil {
			c.drawGridImage(call.GridImage)
		} else {
			c.drawPointGrid(call.GridMode)
		}
	}

	if !call.HasProps() {
		return render.ErrAssetsPending
	}
	c.drawProp(call.BlueImage, call.Blue, call.PropWidth, call.PropHeight)
	c.drawProp(call.RedImage, call.Red, call.PropWidth, call.PropHeight)

	if call.Letter != "" {
		c.drawLetter(call.Letter)
	}
	return nil
}

func (c *Canvas) drawGridImage(img image.Image) {
	b := img.Bounds()
	dc := c.dc
	dc.Push()
	dc.Scale(float64(c.size)/float64(b.Dx()), float64(c.size)/float64(b.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

func (c *Canvas) drawPointGrid(mode grid.Mode) {
	dc := c.dc
	circle := grid.Default()
	outer := grid.Circle{Center: circle.Center, Radius: grid.OuterRadius}

	dc.SetColor(gridColor)
	dc.DrawCircle(grid.CenterX*c.scale, grid.CenterY*c.scale, 12*c.scale)
	dc.Fill()

	for _, loc := range grid.Locations(mode) {
		p := circle.Point(loc)
		dc.SetColor(gridColor)
		dc.DrawCircle(p.X*c.scale, p.Y*c.scale, 8*c.scale)
		dc.Fill()

		o := outer.Point(loc)
		dc.SetColor(outerColor)
		dc.DrawCircle(o.X*c.scale, o.Y*c.scale, 18*c.scale)
		dc.Fill()
	}
}

func (c *Canvas) drawProp(img image.Image, s animation.PropState, w, h float64) {
	b := img.Bounds()
	if w <= 0 || h <= 0 {
		w, h = float64(b.Dx()), float64(b.Dy())
	}
	dc := c.dc
	dc.Push()
	dc.Translate(s.X*c.scale, s.Y*c.scale)
	dc.Rotate(tmath.Radians(s.StaffRotationAngle))
	dc.Scale(w*c.scale/float64(b.Dx()), h*c.scale/float64(b.Dy()))
	dc.DrawImageAnchored(img, 0, 0, 0.5, 0.5)
	dc.Pop()
}

func (c *Canvas) drawLetter(letter string) {
	dc := c.dc
	dc.Push()
	dc.SetColor(gridColor)
	dc.Translate(40*c.scale, float64(c.size)-40*c.scale)
	dc.Scale(6*c.scale, 6*c.scale)
	dc.DrawStringAnchored(letter, 0, 0, 0, 0)
	dc.Pop()
}

// Image returns the canvas pixels.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// SavePNG writes the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}

// EncodePNG writes the canvas as PNG to w.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
