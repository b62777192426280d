package viewer

import (
	"math"

	"github.com/philipparndt/stlview/pkg/geometry"
)

// MinNear is the floor for the near clip plane
const MinNear = 0.1

// FitDistance returns how far from an object of diameter maxDim a camera with
// the given vertical field of view (degrees) must be for the object to span
// the view exactly.
func FitDistance(maxDim, fovDegrees float64) float64 {
	fov := fovDegrees * math.Pi / 180
	return math.Abs(maxDim / (2 * math.Tan(fov/2)))
}

// ClipPlanes pads the camera distance by twice the largest dimension on
// either side. near never drops below MinNear.
func ClipPlanes(distance, maxDim float64) (near, far float64) {
	return math.Max(MinNear, distance-2*maxDim), distance + 2*maxDim
}

// Frame moves the camera in front of bounds along +Z so the mesh fills the
// view, refits the clip planes and re-centers the orbit pivot. Every load
// re-fits fully; the previous viewing angle is not kept.
func Frame(camera *Camera, controls *OrbitControls, bounds geometry.Bounds) {
	maxDim := bounds.MaxDim()
	distance := FitDistance(maxDim, camera.FOV)

	center := bounds.Center
	camera.Position = geometry.NewVector3(center.X, center.Y, center.Z+distance)
	camera.Target = center
	camera.Near, camera.Far = ClipPlanes(distance, maxDim)
	camera.UpdateProjection()

	controls.Reset()
	controls.Target = center
	controls.Update()
}
