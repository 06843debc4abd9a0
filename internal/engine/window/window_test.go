package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestGLAttributes(t *testing.T) {
	tests := []struct {
		samples int
		want    int
	}{
		{0, 4},
		{-1, 4},
		{4, 6},
	}
	for _, tt := range tests {
		attrs := glAttributes(tt.samples)
		if len(attrs) != tt.want {
			t.Errorf("glAttributes(%d) has %d entries, want %d", tt.samples, len(attrs), tt.want)
		}
		if attrs[0].attr != sdl.GL_CONTEXT_MAJOR_VERSION || attrs[0].value != 4 {
			t.Errorf("first attribute = %+v, want GL 4 major version", attrs[0])
		}
	}

	attrs := glAttributes(8)
	last := attrs[len(attrs)-1]
	if last.attr != sdl.GL_MULTISAMPLESAMPLES || last.value != 8 {
		t.Errorf("sample attribute = %+v", last)
	}
}
