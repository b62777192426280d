package app

import (
	"errors"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/philipparndt/stlview/pkg/stl"
	"github.com/philipparndt/stlview/pkg/viewer"
)

// gpuMesh is a model uploaded to the GPU. The Go slices back the mesh
// pointers and must stay reachable until the mesh is unloaded.
type gpuMesh struct {
	object    *viewer.Object
	mesh      rl.Mesh
	vertices  []float32
	normals   []float32
	texcoords []float32
}

// gpuRenderer draws the scene into the raylib window
type gpuRenderer struct {
	log *zap.Logger

	width  int
	height int
	ratio  float64

	// the 3D pass renders at width*ratio x height*ratio and is scaled onto
	// the window, so the viewport's pixel ratio cap holds on HiDPI screens
	target     rl.RenderTexture2D
	hasTarget  bool
	targetSize [2]int32

	matcap    rl.Texture2D
	materials map[viewer.Material]rl.Material
	wire      rl.Material
	current   *gpuMesh

	// overlay draws 2D UI on top of the scene inside the same frame
	overlay func()
}

// newGPURenderer compiles the material shaders. The window must be open.
func newGPURenderer(matcap *viewer.Matcap, log *zap.Logger) (*gpuRenderer, error) {
	r := &gpuRenderer{
		log:       log,
		ratio:     1,
		materials: make(map[viewer.Material]rl.Material, len(viewer.Materials)),
	}

	img := rl.NewImageFromImage(matcap.Image())
	r.matcap = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(r.matcap, rl.FilterBilinear)

	sources := map[viewer.Material]string{
		viewer.MaterialMatcap: matcapFragmentShader,
		viewer.MaterialNormal: normalFragmentShader,
		viewer.MaterialDepth:  depthFragmentShader,
	}
	for m, fs := range sources {
		shader := rl.LoadShaderFromMemory(vertexShader, fs)
		if !rl.IsShaderValid(shader) {
			r.Close()
			return nil, fmt.Errorf("failed to compile %s shader", m)
		}
		material := rl.LoadMaterialDefault()
		material.Shader = shader
		if m == viewer.MaterialMatcap {
			rl.SetMaterialTexture(&material, rl.MapDiffuse, r.matcap)
		}
		r.materials[m] = material
	}

	r.wire = rl.LoadMaterialDefault()
	r.wire.GetMap(rl.MapDiffuse).Color = rl.NewColor(40, 40, 40, 255)

	return r, nil
}

func (r *gpuRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

func (r *gpuRenderer) SetPixelRatio(ratio float64) {
	r.ratio = ratio
}

// Render draws one frame. The mesh is uploaded lazily the first time a new
// object shows up in the scene.
func (r *gpuRenderer) Render(scene *viewer.Scene, camera *viewer.Camera) error {
	obj := scene.Current()
	if obj == nil {
		r.release()
	} else if r.current == nil || r.current.object != obj {
		r.upload(obj)
	}

	if r.width <= 0 || r.height <= 0 {
		return errors.New("render target has no size")
	}
	r.ensureTarget()
	background := rl.NewColor(scene.Background.R, scene.Background.G, scene.Background.B, scene.Background.A)

	rl.BeginTextureMode(r.target)
	rl.ClearBackground(background)

	rl.BeginMode3D(toRaylibCamera(camera))
	// BeginMode3D applies raylib's fixed clip distances; use the fitted ones
	rl.SetMatrixProjection(rl.MatrixPerspective(
		float32(camera.FOVRadians()),
		float32(camera.Aspect),
		float32(camera.Near),
		float32(camera.Far),
	))

	if r.current != nil {
		rl.DrawMesh(r.current.mesh, r.materials[obj.Material], rl.MatrixIdentity())
		if scene.Wireframe {
			rl.EnableWireMode()
			rl.DrawMesh(r.current.mesh, r.wire, rl.MatrixIdentity())
			rl.DisableWireMode()
		}
	}
	rl.EndMode3D()
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(background)
	rl.DrawTexturePro(r.target.Texture, targetSource(r.targetSize), targetDest(r.width, r.height), rl.Vector2{}, 0, rl.White)
	if r.overlay != nil {
		r.overlay()
	}
	rl.EndDrawing()
	return nil
}

// targetDimensions returns the render texture size for a window of
// width x height logical pixels at the given pixel ratio
func targetDimensions(width, height int, ratio float64) [2]int32 {
	if ratio <= 0 {
		ratio = 1
	}
	return [2]int32{
		int32(math.Max(1, math.Round(float64(width)*ratio))),
		int32(math.Max(1, math.Round(float64(height)*ratio))),
	}
}

// targetSource covers the whole texture, flipped since render textures are
// stored bottom-up
func targetSource(size [2]int32) rl.Rectangle {
	return rl.Rectangle{Width: float32(size[0]), Height: -float32(size[1])}
}

func targetDest(width, height int) rl.Rectangle {
	return rl.Rectangle{Width: float32(width), Height: float32(height)}
}

// ensureTarget (re)allocates the render texture after a size or ratio change
func (r *gpuRenderer) ensureTarget() {
	size := targetDimensions(r.width, r.height, r.ratio)
	if r.hasTarget && size == r.targetSize {
		return
	}
	r.releaseTarget()
	r.target = rl.LoadRenderTexture(size[0], size[1])
	rl.SetTextureFilter(r.target.Texture, rl.FilterBilinear)
	r.targetSize = size
	r.hasTarget = true
	r.log.Debug("render target allocated", zap.Int32("width", size[0]), zap.Int32("height", size[1]))
}

func (r *gpuRenderer) releaseTarget() {
	if !r.hasTarget {
		return
	}
	rl.UnloadRenderTexture(r.target)
	r.hasTarget = false
}

func (r *gpuRenderer) upload(obj *viewer.Object) {
	r.release()
	r.current = stlToRaylibMesh(obj.Mesh)
	r.current.object = obj
	r.log.Debug("mesh uploaded", zap.Int32("triangles", r.current.mesh.TriangleCount))
}

func (r *gpuRenderer) release() {
	if r.current == nil {
		return
	}
	rl.UnloadMesh(&r.current.mesh)
	r.current = nil
}

// Close releases every GPU resource. UnloadMaterial frees the shader and the
// bound textures unless they are raylib's defaults, so the matcap texture goes
// with the matcap material.
func (r *gpuRenderer) Close() {
	r.release()
	r.releaseTarget()

	_, matcapBound := r.materials[viewer.MaterialMatcap]
	for _, m := range r.materials {
		rl.UnloadMaterial(m)
	}
	if !matcapBound {
		rl.UnloadTexture(r.matcap)
	}
	if r.wire.Maps != nil {
		rl.UnloadMaterial(r.wire)
	}
	r.materials = nil
}

func toRaylibCamera(c *viewer.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   toRaylibVector(c.Position.X, c.Position.Y, c.Position.Z),
		Target:     toRaylibVector(c.Target.X, c.Target.Y, c.Target.Z),
		Up:         toRaylibVector(c.Up.X, c.Up.Y, c.Up.Z),
		Fovy:       float32(c.FOV),
		Projection: rl.CameraPerspective,
	}
}

func toRaylibVector(x, y, z float64) rl.Vector3 {
	return rl.Vector3{X: float32(x), Y: float32(y), Z: float32(z)}
}

// stlToRaylibMesh converts an STL model to a Raylib mesh with flat normals
func stlToRaylibMesh(model *stl.Model) *gpuMesh {
	triangleCount := model.TriangleCount()
	vertexCount := model.VertexCount()

	m := &gpuMesh{
		vertices:  model.Positions(),
		normals:   model.Normals(),
		texcoords: make([]float32, vertexCount*2),
	}
	m.mesh = rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	if len(m.vertices) > 0 {
		m.mesh.Vertices = &m.vertices[0]
		m.mesh.Normals = &m.normals[0]
		m.mesh.Texcoords = &m.texcoords[0]
	}

	// Upload mesh data to GPU
	rl.UploadMesh(&m.mesh, false)

	return m
}
