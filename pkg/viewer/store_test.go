package viewer

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

type fakeRenderer struct {
	width, height int
	ratio         float64
	renders       int
	err           error
}

func (r *fakeRenderer) SetSize(width, height int) { r.width, r.height = width, height }
func (r *fakeRenderer) SetPixelRatio(ratio float64) { r.ratio = ratio }
func (r *fakeRenderer) Render(*Scene, *Camera) error {
	r.renders++
	return r.err
}

func newTestState() *State {
	camera := NewCamera(75, 4.0/3.0, MinNear, 100)
	return &State{
		Scene:    NewScene(color.RGBA{A: 255}),
		Camera:   camera,
		Controls: NewOrbitControls(camera),
	}
}

func newTestStore(t *testing.T, opts MeshOptions) (*ModelStore, *State) {
	t.Helper()
	state := newTestState()
	return NewModelStore(state, nil, opts, MaterialMatcap, zaptest.NewLogger(t)), state
}

func boxBytes(t *testing.T, size, offset geometry.Vector3) []byte {
	t.Helper()
	box := stl.NewBox("box", size)
	box.Translate(offset)
	var buf bytes.Buffer
	if err := stl.WriteBinary(&buf, box); err != nil {
		t.Fatalf("failed to encode box: %v", err)
	}
	return buf.Bytes()
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLoadFromBytesAddsOneObject(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{})

	raw := boxBytes(t, geometry.NewVector3(2, 2, 2), geometry.NewVector3(5, -3, 7))
	if err := store.LoadFromBytes(raw); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := store.LoadFromBytes(raw); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if state.Scene.Len() != 1 {
		t.Fatalf("expected exactly one object, got %d", state.Scene.Len())
	}

	obj := state.Scene.Current()
	if obj.Material != MaterialMatcap {
		t.Errorf("expected matcap material, got %v", obj.Material)
	}
	// the mesh is recentered on the origin and the pivot follows it
	if obj.Bounds.Center.Length() > 1e-9 {
		t.Errorf("expected centered mesh, got center %v", obj.Bounds.Center)
	}
	if state.Controls.Target != obj.Bounds.Center {
		t.Errorf("expected pivot %v, got %v", obj.Bounds.Center, state.Controls.Target)
	}
}

func TestFailedLoadKeepsScene(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{})

	if err := store.LoadFromBytes([]byte("this is not a mesh")); !errors.Is(err, stl.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if state.Scene.Len() != 0 {
		t.Fatalf("failed load on empty scene added %d objects", state.Scene.Len())
	}

	if err := store.LoadFromBytes(boxBytes(t, geometry.NewVector3(1, 1, 1), geometry.Vector3{})); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	before := state.Scene.Current()
	position := state.Camera.Position

	if err := store.LoadFromBytes([]byte("solid broken\nfacet normal 0 0 1\nendsolid")); err == nil {
		t.Fatal("expected error for malformed ASCII STL")
	}
	if state.Scene.Current() != before || state.Scene.Len() != 1 {
		t.Error("failed load replaced the displayed model")
	}
	if state.Camera.Position != position {
		t.Error("failed load moved the camera")
	}
}

func TestSetMaterialKeepsGeometryAndCamera(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{})
	if err := store.LoadFromBytes(boxBytes(t, geometry.NewVector3(1, 2, 3), geometry.Vector3{})); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	obj := state.Scene.Current()
	mesh := obj.Mesh
	position, near, far := state.Camera.Position, state.Camera.Near, state.Camera.Far

	store.SetMaterial(MaterialNormal)

	if state.Scene.Current() != obj || obj.Mesh != mesh {
		t.Error("material change replaced the mesh")
	}
	if obj.Material != MaterialNormal {
		t.Errorf("expected normal material, got %v", obj.Material)
	}
	if state.Camera.Position != position || state.Camera.Near != near || state.Camera.Far != far {
		t.Error("material change moved the camera")
	}
}

func TestSetMaterialWithoutModel(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{})

	store.SetMaterial(MaterialDepth)
	if state.Scene.Len() != 0 {
		t.Fatal("material change created an object")
	}

	if err := store.LoadFromBytes(boxBytes(t, geometry.NewVector3(1, 1, 1), geometry.Vector3{})); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := state.Scene.Current().Material; got != MaterialDepth {
		t.Errorf("expected remembered depth material, got %v", got)
	}
}

func TestStaleTicketIsDiscarded(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{})

	older := store.Issue()
	newer := store.Issue()

	if store.IsCurrent(older) {
		t.Error("older ticket reported current")
	}
	if !store.IsCurrent(newer) {
		t.Error("newest ticket not current")
	}

	err := store.ApplyMesh(older, "old.stl", stl.NewBox("old", geometry.NewVector3(1, 1, 1)))
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if state.Scene.Len() != 0 {
		t.Fatal("stale load changed the scene")
	}

	if err := store.ApplyMesh(newer, "new.stl", stl.NewBox("new", geometry.NewVector3(1, 1, 1))); err != nil {
		t.Fatalf("current load failed: %v", err)
	}
	if got := state.Scene.Current().Origin; got != "new.stl" {
		t.Errorf("expected new.stl, got %q", got)
	}
}

func TestApplyMeshRejectsEmptyMesh(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{})

	err := store.ApplyMesh(store.Issue(), "empty.stl", stl.NewModel("empty"))
	if !errors.Is(err, stl.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if state.Scene.Len() != 0 {
		t.Fatal("empty mesh was attached")
	}
}

func TestZUpRotatesModel(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{ZUp: true})
	if err := store.LoadFromBytes(boxBytes(t, geometry.NewVector3(1, 2, 3), geometry.Vector3{})); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	size := state.Scene.Current().Bounds.Size
	if !almostEqual(size.X, 1) || !almostEqual(size.Y, 3) || !almostEqual(size.Z, 2) {
		t.Errorf("expected size (1, 3, 2) after Z-up rotation, got %v", size)
	}
}

func gridMesh(n int) *stl.Model {
	model := stl.NewModel("grid")
	up := geometry.NewVector3(0, 0, 1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, y := float64(i), float64(j)
			a := geometry.NewVector3(x, y, 0)
			b := geometry.NewVector3(x+1, y, 0)
			c := geometry.NewVector3(x+1, y+1, 0)
			d := geometry.NewVector3(x, y+1, 0)
			model.AddTriangle(geometry.NewTriangle(up, a, b, c))
			model.AddTriangle(geometry.NewTriangle(up, a, c, d))
		}
	}
	return model
}

func TestDecimate(t *testing.T) {
	mesh := gridMesh(10)
	before := mesh.TriangleCount()

	reduced := decimate(mesh, 0.5)

	if reduced.TriangleCount() == 0 {
		t.Fatal("decimation removed every triangle")
	}
	if reduced.TriangleCount() > before {
		t.Errorf("decimation grew the mesh: %d -> %d", before, reduced.TriangleCount())
	}
	if reduced.Name != mesh.Name {
		t.Errorf("expected name %q, got %q", mesh.Name, reduced.Name)
	}
}

func TestLoadListenerRunsAfterAttach(t *testing.T) {
	store, state := newTestStore(t, MeshOptions{})

	var seen *Object
	store.OnLoaded(func(obj *Object) {
		if state.Scene.Current() != obj {
			t.Error("listener ran before the object was attached")
		}
		seen = obj
	})

	if err := store.LoadFromBytes(boxBytes(t, geometry.NewVector3(1, 1, 1), geometry.Vector3{})); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if seen == nil {
		t.Fatal("listener was not called")
	}
}
