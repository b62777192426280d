package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/stlview/pkg/geometry"
)

// Camera is a perspective camera. Position and clip planes are written by
// Frame on model load; Aspect is written by the Viewport on resize.
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // vertical field of view in degrees
	Aspect   float64
	Near     float64
	Far      float64

	projection mgl64.Mat4
}

// NewCamera creates a camera one unit in front of the origin
func NewCamera(fov, aspect, near, far float64) *Camera {
	c := &Camera{
		Position: geometry.NewVector3(0, 0, 1),
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
	c.UpdateProjection()
	return c
}

// FOVRadians returns the vertical field of view in radians
func (c *Camera) FOVRadians() float64 {
	return c.FOV * math.Pi / 180
}

// UpdateProjection recomputes the projection matrix. Call it after changing
// FOV, Aspect, Near or Far.
func (c *Camera) UpdateProjection() {
	c.projection = mgl64.Perspective(c.FOVRadians(), c.Aspect, c.Near, c.Far)
}

// Projection returns the projection matrix from the last UpdateProjection
func (c *Camera) Projection() mgl64.Mat4 {
	return c.projection
}

// View returns the world-to-camera matrix
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position.Vec3(), c.Target.Vec3(), c.Up.Vec3())
}

// Distance returns the distance from the camera to its target
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}
