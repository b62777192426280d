package geometry

import "math"

// BoundingBox is an axis-aligned box grown point by point
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an empty box; Extend it before use
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: Vector3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether no point has been added
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// Bounds returns the center/size form of the box
func (b BoundingBox) Bounds() Bounds {
	return Bounds{Center: b.Center(), Size: b.Size()}
}

// Bounds is the derived center and extent of a mesh. It is recomputed whenever
// the mesh changes and never mutated.
type Bounds struct {
	Center Vector3
	Size   Vector3
}

// MaxDim returns the largest extent along any axis
func (b Bounds) MaxDim() float64 {
	return b.Size.MaxComponent()
}

// ComputeBounds returns the bounds of a set of points. With no points the
// result is degenerate (NaN/Inf components); callers only pass loaded meshes.
func ComputeBounds(points []Vector3) Bounds {
	bbox := NewBoundingBox()
	for _, p := range points {
		bbox.Extend(p)
	}
	return bbox.Bounds()
}
