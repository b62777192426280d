// Package viewer is the host-independent core of the STL viewer: camera
// framing, the model store, resize handling, the render loop and the input
// bridge. Hosts supply a Renderer and feed it window events.
package viewer

import (
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

// State is everything a frame is drawn from. It is owned by a single Viewer
// and only mutated on the render goroutine.
type State struct {
	Scene    *Scene
	Camera   *Camera
	Controls *OrbitControls
}

// Options configure a Viewer
type Options struct {
	Width      int
	Height     int
	PixelRatio float64
	FOV        float64

	Material   Material
	Background color.RGBA
	Mesh       MeshOptions

	// Damping is the orbit inertia factor; 0 disables damping
	Damping float64

	Source       Source
	Picker       FilePicker
	Decoder      Decoder
	FetchTimeout time.Duration

	Logger *zap.Logger
}

// DefaultOptions mirrors the stock viewer: 75 degree FOV, white background,
// matcap shading, damped controls
func DefaultOptions() Options {
	return Options{
		Width:        1280,
		Height:       720,
		PixelRatio:   1,
		FOV:          75,
		Material:     MaterialMatcap,
		Background:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Damping:      0.05,
		FetchTimeout: 15 * time.Second,
	}
}

// Viewer wires the components together around one State
type Viewer struct {
	State    *State
	Store    *ModelStore
	Viewport *Viewport
	Loop     *Loop
	Input    *InputBridge
}

// New creates a viewer drawing through renderer
func New(renderer Renderer, opts Options) *Viewer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	aspect := 1.0
	if opts.Width > 0 && opts.Height > 0 {
		aspect = float64(opts.Width) / float64(opts.Height)
	}
	camera := NewCamera(opts.FOV, aspect, MinNear, 100)
	controls := NewOrbitControls(camera)
	controls.EnableDamping = opts.Damping > 0
	if controls.EnableDamping {
		controls.DampingFactor = opts.Damping
	}

	state := &State{
		Scene:    NewScene(opts.Background),
		Camera:   camera,
		Controls: controls,
	}

	store := NewModelStore(state, opts.Decoder, opts.Mesh, opts.Material, log.Named("store"))
	input := NewInputBridge(store, opts.Source, InputOptions{
		Picker:       opts.Picker,
		Fallback:     Placeholder,
		FetchTimeout: opts.FetchTimeout,
		Logger:       log.Named("input"),
	})

	v := &Viewer{
		State:    state,
		Store:    store,
		Viewport: NewViewport(camera, renderer),
		Loop:     NewLoop(state, renderer, input, log.Named("loop")),
		Input:    input,
	}
	v.Viewport.OnResize(opts.Width, opts.Height, opts.PixelRatio)
	return v
}

// Reframe fits the camera to the displayed model again
func (v *Viewer) Reframe() {
	if obj := v.State.Scene.Current(); obj != nil {
		Frame(v.State.Camera, v.State.Controls, obj.Bounds)
	}
}

// Placeholder is the mesh shown when no model could be loaded
func Placeholder() *stl.Model {
	return stl.NewBox("placeholder", geometry.NewVector3(1, 1, 1))
}
