package viewer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/philipparndt/stlview/pkg/geometry"
)

func TestPixelSpan(t *testing.T) {
	cases := []struct {
		lo, hi     float64
		start, end int
		ok         bool
	}{
		{0, 10, 0, 9, true},
		{2.4, 5.6, 2, 5, true},
		{-1e300, 1e300, 0, 9, true},
		{20, 30, 0, -1, false},
		{math.NaN(), 5, 0, -1, false},
		{0, math.Inf(1), 0, 9, true},
	}

	for _, c := range cases {
		start, end, ok := pixelSpan(c.lo, c.hi, 10)
		if start != c.start || end != c.end || ok != c.ok {
			t.Errorf("pixelSpan(%v, %v): expected (%d, %d, %v), got (%d, %d, %v)",
				c.lo, c.hi, c.start, c.end, c.ok, start, end, ok)
		}
	}
}

func TestFillTriangleFarOffscreen(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	zbuf := make([]float64, 64)
	for i := range zbuf {
		zbuf[i] = math.Inf(1)
	}
	red := color.RGBA{R: 255, A: 255}

	fillTriangleWithDepth(img, zbuf,
		screenVertex{-1e300, -1e300, 0.5},
		screenVertex{1e300, -1e300, 0.5},
		screenVertex{0, 1e300, 0.5},
		red)

	if got := img.RGBAAt(4, 4); got != red {
		t.Errorf("expected the covering triangle to fill the center, got %v", got)
	}
}

func TestProjectRejectsNonFinite(t *testing.T) {
	camera := NewCamera(75, 1, 0.1, 100)
	viewProj := camera.Projection().Mul4(camera.View())

	if _, ok := project(viewProj, geometry.Vector3{}, 10, 10); !ok {
		t.Error("expected the target to project")
	}
	if _, ok := project(viewProj, geometry.NewVector3(math.NaN(), 0, 0), 10, 10); ok {
		t.Error("expected NaN vertex to be rejected")
	}

	// a camera sitting on its target has no view direction
	camera.Position = camera.Target
	viewProj = camera.Projection().Mul4(camera.View())
	if _, ok := project(viewProj, geometry.NewVector3(1, 0, 0), 10, 10); ok {
		t.Error("expected a degenerate view to reject every vertex")
	}
}
