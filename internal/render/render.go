// Package render defines the draw call shared by the image and window
// renderers.
package render

import (
	"errors"
	"image"

	"github.com/Faultbox/tka-animator/internal/animation"
	"github.com/Faultbox/tka-animator/internal/assets"
	"github.com/Faultbox/tka-animator/pkg/grid"
)

// ErrAssetsPending is returned by Draw when a prop image is not available
// yet. Callers skip the frame.
var ErrAssetsPending = errors.New("prop images not loaded")

// DrawCall is everything needed to draw one pictograph. Coordinates and
// prop sizes are in grid pixels (a 950px square); surfaces scale them.
type DrawCall struct {
	GridVisible bool
	GridMode    grid.Mode
	GridImage   image.Image // optional; a point grid is drawn when nil

	BlueImage, RedImage image.Image
	Blue, Red           animation.PropState

	PropWidth, PropHeight float64
	Letter                string
}

// Surface draws a call now.
type Surface interface {
	Draw(call DrawCall) error
}

// FromFrame builds a draw call for frame f with the built-in staff size.
func FromFrame(f animation.Frame, blue, red image.Image, gridVisible bool) DrawCall {
	mode := f.GridMode
	if mode == "" {
		mode = grid.Diamond
	}
	return DrawCall{
		GridVisible: gridVisible,
		GridMode:    mode,
		BlueImage:   blue,
		RedImage:    red,
		Blue:        f.Blue,
		Red:         f.Red,
		PropWidth:   assets.StaffWidth,
		PropHeight:  assets.StaffHeight,
		Letter:      f.Letter,
	}
}

// HasProps reports whether both prop images are present.
func (c DrawCall) HasProps() bool {
	return c.BlueImage != nil && c.RedImage != nil
}
