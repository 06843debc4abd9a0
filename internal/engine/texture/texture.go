// Package texture converts images to RGBA and uploads them as OpenGL textures.
package texture

import (
	"image"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ImageToRGBA returns img as a tightly packed *image.RGBA with its origin at
// (0, 0), copying only when needed.
func ImageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == 4*bounds.Dx() {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Upload creates a linear-filtered, edge-clamped 2D texture from img.
// A GL context must be current.
func Upload(img image.Image) uint32 {
	rgba := ImageToRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var pix unsafe.Pointer
	if len(rgba.Pix) > 0 {
		pix = unsafe.Pointer(&rgba.Pix[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

// Delete releases a texture created by Upload.
func Delete(texID uint32) {
	if texID != 0 {
		gl.DeleteTextures(1, &texID)
	}
}
