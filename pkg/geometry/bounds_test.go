package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.IsEmpty() {
		t.Error("new bounding box should be empty")
	}

	bbox.Extend(NewVector3(1, 1, 1))
	if bbox.IsEmpty() {
		t.Error("bounding box with one point should not be empty")
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(2, 3, 4))

	if math.Abs(bbox.Volume()-24.0) > 1e-10 {
		t.Errorf("Volume failed: expected 24, got %v", bbox.Volume())
	}
}

func TestComputeBounds(t *testing.T) {
	bounds := ComputeBounds([]Vector3{
		NewVector3(0, 0, 0),
		NewVector3(10, 20, 30),
		NewVector3(5, 5, 5),
	})

	if expected := NewVector3(5, 10, 15); bounds.Center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, bounds.Center)
	}
	if expected := NewVector3(10, 20, 30); bounds.Size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, bounds.Size)
	}
	if bounds.MaxDim() != 30 {
		t.Errorf("MaxDim failed: expected 30, got %v", bounds.MaxDim())
	}
}

func TestComputeBoundsDegenerate(t *testing.T) {
	bounds := ComputeBounds(nil)

	// No vertices: the box is undefined and nothing guards against it
	if bounds.Center.IsFinite() && bounds.Size.IsFinite() {
		t.Errorf("expected degenerate bounds for empty input, got %+v", bounds)
	}
}
