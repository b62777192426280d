package viewer

import (
	"math"

	"github.com/philipparndt/stlview/pkg/geometry"
)

const polarEpsilon = 1e-6

// OrbitControls rotates a camera around a pivot. Input accumulates deltas
// which Update applies once per frame; with damping enabled only a fraction
// of the delta is applied each frame and the rest decays, giving inertia.
type OrbitControls struct {
	Target geometry.Vector3

	EnableDamping bool
	DampingFactor float64

	RotateSpeed float64
	ZoomSpeed   float64
	PanSpeed    float64

	MinDistance float64
	MaxDistance float64

	camera *Camera

	deltaTheta float64
	deltaPhi   float64
	scale      float64
	panOffset  geometry.Vector3
}

// NewOrbitControls creates controls for camera pivoting around the origin
func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		DampingFactor: 0.05,
		RotateSpeed:   1.0,
		ZoomSpeed:     1.0,
		PanSpeed:      1.0,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		camera:        camera,
		scale:         1,
	}
}

// Rotate queues a rotation for a pointer drag of (dx, dy) pixels on a
// viewport of the given height. A drag across the full height is one turn.
func (c *OrbitControls) Rotate(dx, dy, viewportHeight float64) {
	if viewportHeight <= 0 {
		return
	}
	c.deltaTheta -= 2 * math.Pi * dx / viewportHeight * c.RotateSpeed
	c.deltaPhi -= 2 * math.Pi * dy / viewportHeight * c.RotateSpeed
}

// Zoom queues a dolly. Positive steps (wheel up) move the camera closer.
func (c *OrbitControls) Zoom(steps float64) {
	c.scale *= math.Pow(0.95, c.ZoomSpeed*steps)
}

// Pan queues a move of the pivot so the model follows a drag of (dx, dy) pixels
func (c *OrbitControls) Pan(dx, dy, viewportHeight float64) {
	if viewportHeight <= 0 {
		return
	}
	offset := c.camera.Position.Sub(c.Target)
	visible := 2 * offset.Length() * math.Tan(c.camera.FOVRadians()/2)
	perPixel := visible / viewportHeight * c.PanSpeed

	forward := offset.Mul(-1).Normalize()
	right := forward.Cross(c.camera.Up).Normalize()
	up := right.Cross(forward).Normalize()

	c.panOffset = c.panOffset.Add(right.Mul(-dx * perPixel)).Add(up.Mul(dy * perPixel))
}

// Update applies pending input to the camera and reports whether it moved
func (c *OrbitControls) Update() bool {
	before := c.camera.Position

	offset := c.camera.Position.Sub(c.Target)
	radius := offset.Length()
	theta, phi := 0.0, math.Pi/2
	if radius > 0 {
		theta = math.Atan2(offset.X, offset.Z)
		phi = math.Acos(math.Max(-1, math.Min(1, offset.Y/radius)))
	}

	factor := 1.0
	if c.EnableDamping {
		factor = c.DampingFactor
	}

	theta += c.deltaTheta * factor
	phi += c.deltaPhi * factor
	phi = math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, phi))

	radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, radius*c.scale))

	c.Target = c.Target.Add(c.panOffset.Mul(factor))

	sinPhi := math.Sin(phi)
	offset = geometry.NewVector3(
		radius*sinPhi*math.Sin(theta),
		radius*math.Cos(phi),
		radius*sinPhi*math.Cos(theta),
	)
	c.camera.Position = c.Target.Add(offset)
	c.camera.Target = c.Target

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = geometry.Vector3{}
	}
	c.scale = 1

	return c.camera.Position.Distance(before) > 1e-9
}

// Reset drops any pending motion
func (c *OrbitControls) Reset() {
	c.deltaTheta, c.deltaPhi = 0, 0
	c.panOffset = geometry.Vector3{}
	c.scale = 1
}
