package viewer

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"

	"github.com/philipparndt/stlview/pkg/geometry"
)

var wireColor = color.RGBA{R: 40, G: 40, B: 40, A: 255}

// SoftwareRenderer rasterizes the scene on the CPU into an RGBA image. It is
// used for snapshots and wherever no GPU window is available.
type SoftwareRenderer struct {
	Matcap *Matcap

	width  int
	height int
	ratio  float64

	img    *image.RGBA
	zbuf   []float64
	frames int
}

// NewSoftwareRenderer creates a renderer shading matcap materials with m.
// A nil m uses DefaultMatcap.
func NewSoftwareRenderer(m *Matcap) *SoftwareRenderer {
	if m == nil {
		m = DefaultMatcap()
	}
	return &SoftwareRenderer{Matcap: m, ratio: 1}
}

// SetSize sets the output size in logical pixels
func (r *SoftwareRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

// SetPixelRatio sets the device pixel ratio the output is scaled by
func (r *SoftwareRenderer) SetPixelRatio(ratio float64) {
	r.ratio = ratio
}

// PixelSize returns the render target size in device pixels
func (r *SoftwareRenderer) PixelSize() (int, int) {
	return int(math.Round(float64(r.width) * r.ratio)), int(math.Round(float64(r.height) * r.ratio))
}

// Render draws scene as seen by camera
func (r *SoftwareRenderer) Render(scene *Scene, camera *Camera) error {
	w, h := r.PixelSize()
	if w <= 0 || h <= 0 {
		return errors.New("render target has no size")
	}
	r.prepare(w, h, scene.Background)

	view := camera.View()
	viewProj := camera.Projection().Mul4(view)

	for _, obj := range scene.Objects() {
		r.drawObject(obj, view, viewProj, scene.Wireframe)
	}
	r.frames++
	return nil
}

func (r *SoftwareRenderer) prepare(w, h int, background color.RGBA) {
	if r.img == nil || r.img.Bounds().Dx() != w || r.img.Bounds().Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
		r.zbuf = make([]float64, w*h)
	}
	draw.Draw(r.img, r.img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	for i := range r.zbuf {
		r.zbuf[i] = math.Inf(1)
	}
}

func (r *SoftwareRenderer) drawObject(obj *Object, view, viewProj mgl64.Mat4, wireframe bool) {
	w, h := r.img.Bounds().Dx(), r.img.Bounds().Dy()

	for _, tri := range obj.Mesh.Triangles {
		var screen [3]screenVertex
		visible := true
		for i, v := range tri.Vertices() {
			sv, ok := project(viewProj, v, w, h)
			if !ok {
				visible = false
				break
			}
			screen[i] = sv
		}
		if !visible || signedArea(screen[0], screen[1], screen[2]) >= 0 {
			continue
		}

		normal := geometry.FromVec3(view.Mul4x1(tri.FaceNormal().Vec3().Vec4(0)).Vec3()).Normalize()
		depth := (screen[0].z + screen[1].z + screen[2].z) / 3
		col := obj.Material.Shade(Fragment{Normal: normal, Depth: depth}, r.Matcap)

		fillTriangleWithDepth(r.img, r.zbuf, screen[0], screen[1], screen[2], col)

		if wireframe {
			for i := 0; i < 3; i++ {
				a, b := screen[i], screen[(i+1)%3]
				if !nearCanvas(a, w, h) || !nearCanvas(b, w, h) {
					continue
				}
				drawLine(r.img, int(a.x), int(a.y), int(b.x), int(b.y), wireColor)
			}
		}
	}
}

// nearCanvas reports whether v lies within a few canvas sizes of the image,
// close enough to walk a line to it pixel by pixel
func nearCanvas(v screenVertex, w, h int) bool {
	const band = 4
	return v.x > -band*float64(w) && v.x < (band+1)*float64(w) &&
		v.y > -band*float64(h) && v.y < (band+1)*float64(h)
}

// project maps a world position to pixel coordinates and window depth. It
// reports false for vertices behind the camera or outside the clip range.
func project(viewProj mgl64.Mat4, v geometry.Vector3, w, h int) (screenVertex, bool) {
	clip := viewProj.Mul4x1(v.Vec3().Vec4(1))
	// NaN fails every comparison below, so it has to be caught first
	for _, c := range clip {
		if !finite(c) {
			return screenVertex{}, false
		}
	}
	if clip.W() <= 0 || clip.Z() < -clip.W() || clip.Z() > clip.W() {
		return screenVertex{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	sv := screenVertex{
		x: (ndc.X() + 1) / 2 * float64(w),
		y: (1 - ndc.Y()) / 2 * float64(h),
		z: (ndc.Z() + 1) / 2,
	}
	if !finite(sv.x) || !finite(sv.y) || !finite(sv.z) {
		return screenVertex{}, false
	}
	return sv, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Image returns the last rendered frame at device resolution
func (r *SoftwareRenderer) Image() *image.RGBA {
	return r.img
}

// Downsampled returns the last frame scaled to the logical size
func (r *SoftwareRenderer) Downsampled() *image.RGBA {
	if r.img == nil {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), r.img, r.img.Bounds(), draw.Src, nil)
	return dst
}

// Frames returns how many frames were rendered
func (r *SoftwareRenderer) Frames() int {
	return r.frames
}
