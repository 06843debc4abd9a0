package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
)

// Built-in prop image names. They are generated when no file of the same name
// exists in any asset directory.
const (
	BlueStaff = "staff_blue.png"
	RedStaff  = "staff_red.png"
)

// Staff image size in pixels at the 950px grid scale.
const (
	StaffWidth  = 252
	StaffHeight = 78
)

var (
	BlueColor = color.RGBA{R: 0x2E, G: 0x31, B: 0x92, A: 0xFF}
	RedColor  = color.RGBA{R: 0xED, G: 0x1C, B: 0x24, A: 0xFF}
)

var builtins = map[string]color.RGBA{
	BlueStaff: BlueColor,
	RedStaff:  RedColor,
}

// IsBuiltin reports whether name has a generated fallback.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// StaffImage draws a staff lying along the x axis: a rounded shaft with a
// hollow ring at the leading (right) end, so rotation is visible.
func StaffImage(c color.Color) image.Image {
	dc := gg.NewContext(StaffWidth, StaffHeight)
	w, h := float64(StaffWidth), float64(StaffHeight)
	shaft := h * 0.28

	dc.SetColor(c)
	dc.DrawRoundedRectangle(4, (h-shaft)/2, w-8, shaft, shaft/2)
	dc.Fill()

	r := h/2 - 6
	dc.DrawCircle(w-r-6, h/2, r)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(w-r-6, h/2, r*0.45)
	dc.Fill()

	dc.SetColor(c)
	dc.SetLineWidth(3)
	dc.DrawCircle(w-r-6, h/2, r)
	dc.Stroke()
	return dc.Image()
}

func builtinPNG(name string) ([]byte, bool) {
	c, ok := builtins[name]
	if !ok {
		return nil, false
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, StaffImage(c)); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
