package viewer

import (
	"context"
	"image"

	"github.com/Faultbox/tka-animator/internal/assets"
)

// propImages holds the pending loads of the images a frame needs.
type propImages struct {
	blue, red *assets.Future
	grid      *assets.Future // nil when no grid image is configured
}

func loadProps(ctx context.Context, am *assets.Manager, blue, red, grid string) propImages {
	p := propImages{
		blue: am.LoadAsync(ctx, blue),
		red:  am.LoadAsync(ctx, red),
	}
	if grid != "" {
		p.grid = am.LoadAsync(ctx, grid)
	}
	return p
}

// resolve returns whatever has finished loading without blocking. Failed
// loads come back nil.
func (p propImages) resolve() (blue, red, grid image.Image) {
	return ready(p.blue), ready(p.red), ready(p.grid)
}

func ready(f *assets.Future) image.Image {
	if f == nil || !f.Ready() {
		return nil
	}
	img, err := f.Result()
	if err != nil {
		return nil
	}
	return img
}
