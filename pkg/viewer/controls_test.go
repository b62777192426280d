package viewer

import (
	"math"
	"testing"

	"github.com/philipparndt/stlview/pkg/geometry"
)

func newTestControls(damping bool) (*Camera, *OrbitControls) {
	camera := NewCamera(75, 1, MinNear, 100)
	camera.Position = geometry.NewVector3(0, 0, 5)
	controls := NewOrbitControls(camera)
	controls.EnableDamping = damping
	return camera, controls
}

func TestUpdateWithoutInputKeepsCamera(t *testing.T) {
	camera, controls := newTestControls(true)
	before := camera.Position

	if controls.Update() {
		t.Error("expected no movement without input")
	}
	if camera.Position.Distance(before) > 1e-9 {
		t.Errorf("camera moved from %v to %v", before, camera.Position)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	camera, controls := newTestControls(false)

	// a drag over a quarter of the viewport height turns by 90 degrees
	controls.Rotate(150, 0, 600)
	if !controls.Update() {
		t.Fatal("expected camera to move")
	}

	pos := camera.Position
	if math.Abs(pos.X+5) > 1e-9 || math.Abs(pos.Y) > 1e-9 || math.Abs(pos.Z) > 1e-9 {
		t.Errorf("expected camera at (-5, 0, 0), got %v", pos)
	}
	if math.Abs(camera.Distance()-5) > 1e-9 {
		t.Errorf("rotation changed distance to %v", camera.Distance())
	}
}

func TestRotateClampsPolarAngle(t *testing.T) {
	camera, controls := newTestControls(false)

	controls.Rotate(0, 10000, 600)
	controls.Update()

	if camera.Position.Y <= 0 || camera.Position.Y > 5 {
		t.Errorf("expected camera just below the pole, got %v", camera.Position)
	}
	if !camera.Position.IsFinite() {
		t.Errorf("camera position not finite: %v", camera.Position)
	}
}

func TestZoom(t *testing.T) {
	camera, controls := newTestControls(false)

	controls.Zoom(1)
	controls.Update()

	if math.Abs(camera.Distance()-4.75) > 1e-9 {
		t.Errorf("expected distance 4.75, got %v", camera.Distance())
	}

	controls.MinDistance = 4.5
	controls.Zoom(10)
	controls.Update()

	if math.Abs(camera.Distance()-4.5) > 1e-9 {
		t.Errorf("expected distance clamped to 4.5, got %v", camera.Distance())
	}
}

func TestDampingDecays(t *testing.T) {
	camera, controls := newTestControls(true)

	controls.Rotate(300, 0, 600)

	previous := camera.Position
	lastStep := math.Inf(1)
	for i := 0; i < 20; i++ {
		controls.Update()
		step := camera.Position.Distance(previous)
		if step <= 0 {
			t.Fatalf("frame %d: expected the camera to keep gliding", i)
		}
		if step >= lastStep {
			t.Fatalf("frame %d: step %v did not shrink from %v", i, step, lastStep)
		}
		lastStep = step
		previous = camera.Position
	}
}

func TestPanMovesTarget(t *testing.T) {
	camera, controls := newTestControls(false)

	controls.Pan(100, 0, 600)
	controls.Update()

	if controls.Target.X >= 0 {
		t.Errorf("expected the pivot to move left when dragging right, got %v", controls.Target)
	}
	if math.Abs(camera.Distance()-5) > 1e-9 {
		t.Errorf("pan changed distance to %v", camera.Distance())
	}
}

func TestResetDropsMotion(t *testing.T) {
	camera, controls := newTestControls(true)

	controls.Rotate(300, 0, 600)
	controls.Zoom(5)
	controls.Reset()
	before := camera.Position

	if controls.Update() {
		t.Errorf("camera moved after reset: %v -> %v", before, camera.Position)
	}
}
