package viewer

import (
	"image"
	"image/color"
	"math"
)

// screenVertex is a projected vertex: pixel coordinates plus window depth
type screenVertex struct {
	x, y, z float64
}

// fillTriangleWithDepth fills a triangle with depth testing. Depth is in
// [0,1]; a fragment is written when it is closer than what the buffer holds.
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, a, b, c screenVertex, col color.RGBA) {
	v := [3]screenVertex{a, b, c}

	// Sort vertices by Y coordinate (top to bottom)
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}

	bounds := img.Bounds()
	width := bounds.Dx()

	yStart, yEnd, ok := pixelSpan(v[0].y, v[2].y, bounds.Dy())
	if !ok {
		return
	}

	for y := yStart; y <= yEnd; y++ {
		// sample at the pixel center
		fy := float64(y) + 0.5

		// the long edge 0-2 always spans the scanline
		xl, zl := edgeAt(v[0], v[2], fy)
		var xr, zr float64
		if fy < v[1].y {
			xr, zr = edgeAt(v[0], v[1], fy)
		} else {
			xr, zr = edgeAt(v[1], v[2], fy)
		}
		if xl > xr {
			xl, xr = xr, xl
			zl, zr = zr, zl
		}

		xStart, xEnd, ok := pixelSpan(xl, xr, width)
		if !ok {
			continue
		}

		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if xr != xl {
				t = (float64(x) + 0.5 - xl) / (xr - xl)
			}
			z := zl + t*(zr-zl)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// pixelSpan returns the pixels whose centers lie in [lo, hi], clipped to
// [0, size). Clipping happens before the int conversion so far off-screen or
// NaN coordinates never become out-of-range indices.
func pixelSpan(lo, hi float64, size int) (start, end int, ok bool) {
	lo = math.Max(0, math.Ceil(lo-0.5))
	hi = math.Min(float64(size-1), math.Floor(hi-0.5))
	if !(lo <= hi) {
		return 0, -1, false
	}
	return int(lo), int(hi), true
}

// edgeAt interpolates x and depth along the edge a-b at height y
func edgeAt(a, b screenVertex, y float64) (x, z float64) {
	if b.y == a.y {
		return a.x, a.z
	}
	t := (y - a.y) / (b.y - a.y)
	return a.x + t*(b.x-a.x), a.z + t*(b.z-a.z)
}

// signedArea is twice the screen-space area of a triangle. Screen Y points
// down, so counter-clockwise (front facing) triangles come out negative.
func signedArea(a, b, c screenVertex) float64 {
	return (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
