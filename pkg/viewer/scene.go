package viewer

import (
	"image/color"

	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

// Object pairs a mesh with the material it is drawn with
type Object struct {
	Mesh     *stl.Model
	Material Material
	Bounds   geometry.Bounds
	Origin   string // where the mesh was loaded from, empty for placeholders
}

// Scene is the set of renderable objects. The viewer keeps at most one.
type Scene struct {
	Background color.RGBA
	Wireframe  bool // draw triangle edges over the shaded surface
	objects    []*Object
}

// NewScene creates an empty scene
func NewScene(background color.RGBA) *Scene {
	return &Scene{Background: background}
}

// Add attaches an object
func (s *Scene) Add(obj *Object) {
	s.objects = append(s.objects, obj)
}

// Clear detaches every object
func (s *Scene) Clear() {
	s.objects = nil
}

// Objects returns the attached objects
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Len returns the number of attached objects
func (s *Scene) Len() int {
	return len(s.objects)
}

// Current returns the displayed object or nil
func (s *Scene) Current() *Object {
	if len(s.objects) == 0 {
		return nil
	}
	return s.objects[len(s.objects)-1]
}
