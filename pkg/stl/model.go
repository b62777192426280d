package stl

import (
	"math"

	"github.com/philipparndt/stlview/pkg/geometry"
)

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of (unshared) vertices
func (m *Model) VertexCount() int {
	return len(m.Triangles) * 3
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// Bounds returns the center and size of the model's bounding box
func (m *Model) Bounds() geometry.Bounds {
	return m.BoundingBox().Bounds()
}

// Translate moves every vertex by offset in place
func (m *Model) Translate(offset geometry.Vector3) {
	move := func(v geometry.Vector3) geometry.Vector3 { return v.Add(offset) }
	keep := func(n geometry.Vector3) geometry.Vector3 { return n }
	for i, t := range m.Triangles {
		m.Triangles[i] = t.Map(move, keep)
	}
}

// RotateX rotates the model about the X axis in place. Rotating by -90
// degrees converts a Z-up model into the Y-up convention of the viewer.
func (m *Model) RotateX(angle float64) {
	rotate := func(v geometry.Vector3) geometry.Vector3 { return v.RotateX(angle) }
	for i, t := range m.Triangles {
		m.Triangles[i] = t.Map(rotate, rotate)
	}
}

// Positions returns a flat xyz buffer with three vertices per triangle
func (m *Model) Positions() []float32 {
	buf := make([]float32, 0, m.VertexCount()*3)
	for _, t := range m.Triangles {
		for _, v := range t.Vertices() {
			buf = append(buf, float32(v.X), float32(v.Y), float32(v.Z))
		}
	}
	return buf
}

// Normals returns a flat xyz buffer aligned with Positions, repeating each
// face normal for its three vertices
func (m *Model) Normals() []float32 {
	buf := make([]float32, 0, m.VertexCount()*3)
	for _, t := range m.Triangles {
		n := t.FaceNormal()
		for i := 0; i < 3; i++ {
			buf = append(buf, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return buf
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// Volume calculates the enclosed volume with the signed tetrahedron method.
// Only meaningful for closed, consistently wound meshes.
func (m *Model) Volume() float64 {
	volume := 0.0
	for _, t := range m.Triangles {
		volume += t.V1.Dot(t.V2.Cross(t.V3))
	}
	return math.Abs(volume / 6.0)
}

// NewBox builds an axis-aligned box mesh centered at the origin. The viewer
// shows it when no model could be loaded.
func NewBox(name string, size geometry.Vector3) *Model {
	h := size.Mul(0.5)
	c := [8]geometry.Vector3{
		{X: -h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: -h.Y, Z: -h.Z},
		{X: h.X, Y: h.Y, Z: -h.Z}, {X: -h.X, Y: h.Y, Z: -h.Z},
		{X: -h.X, Y: -h.Y, Z: h.Z}, {X: h.X, Y: -h.Y, Z: h.Z},
		{X: h.X, Y: h.Y, Z: h.Z}, {X: -h.X, Y: h.Y, Z: h.Z},
	}
	// Counter-clockwise when seen from outside
	faces := [6][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}

	model := NewModel(name)
	for _, f := range faces {
		a, b, cc, d := c[f[0]], c[f[1]], c[f[2]], c[f[3]]
		n := b.Sub(a).Cross(cc.Sub(a)).Normalize()
		model.AddTriangle(geometry.NewTriangle(n, a, b, cc))
		model.AddTriangle(geometry.NewTriangle(n, a, cc, d))
	}
	return model
}
