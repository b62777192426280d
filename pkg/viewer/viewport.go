package viewer

import "math"

// MaxPixelRatio caps the device pixel ratio used for the render target
const MaxPixelRatio = 2.0

// Renderer draws a scene through a camera into its output surface
type Renderer interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float64)
	Render(scene *Scene, camera *Camera) error
}

// Viewport keeps the camera projection and the render target in step with
// the window size
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float64

	camera   *Camera
	renderer Renderer
}

// NewViewport creates a viewport for camera and renderer
func NewViewport(camera *Camera, renderer Renderer) *Viewport {
	return &Viewport{camera: camera, renderer: renderer, PixelRatio: 1}
}

// OnResize applies a new window size in logical pixels and the display's
// device pixel ratio. Non-positive sizes (a minimized window) are ignored.
func (v *Viewport) OnResize(width, height int, deviceRatio float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if deviceRatio <= 0 {
		deviceRatio = 1
	}

	v.Width, v.Height = width, height
	v.PixelRatio = math.Min(deviceRatio, MaxPixelRatio)

	v.camera.Aspect = float64(width) / float64(height)
	v.camera.UpdateProjection()

	v.renderer.SetSize(width, height)
	v.renderer.SetPixelRatio(v.PixelRatio)
}
