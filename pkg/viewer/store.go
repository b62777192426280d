package viewer

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/fogleman/simplify"
	"go.uber.org/zap"

	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

// ErrStale is returned when a load finishes after a newer one was requested
var ErrStale = errors.New("load superseded by a newer request")

// Ticket identifies a load request. Tickets increase monotonically and only
// the most recently issued one may change the scene.
type Ticket uint64

// Decoder turns raw file bytes into a mesh
type Decoder interface {
	Decode(raw []byte) (*stl.Model, error)
}

// DecoderFunc adapts a function to Decoder
type DecoderFunc func(raw []byte) (*stl.Model, error)

// Decode calls f(raw)
func (f DecoderFunc) Decode(raw []byte) (*stl.Model, error) {
	return f(raw)
}

// STLDecoder decodes ASCII and binary STL
var STLDecoder Decoder = DecoderFunc(stl.ParseBytes)

// LoadListener is notified on the render goroutine after a model is attached
type LoadListener func(obj *Object)

// MeshOptions control how a decoded mesh is prepared before display
type MeshOptions struct {
	ZUp      bool    // rotate -90 degrees about X so +Z becomes up
	Simplify float64 // target triangle ratio in (0,1); 0 or >= 1 keeps every triangle
}

// ModelStore owns the displayed mesh and the material selection. It swaps
// both as a unit: a load either fully replaces the scene or leaves it alone.
type ModelStore struct {
	state    *State
	decoder  Decoder
	opts     MeshOptions
	log      *zap.Logger
	material Material

	latest    atomic.Uint64
	listeners []LoadListener
}

// NewModelStore creates a store operating on state
func NewModelStore(state *State, decoder Decoder, opts MeshOptions, material Material, log *zap.Logger) *ModelStore {
	if decoder == nil {
		decoder = STLDecoder
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ModelStore{
		state:    state,
		decoder:  decoder,
		opts:     opts,
		log:      log,
		material: material,
	}
}

// OnLoaded registers a listener for successful loads
func (s *ModelStore) OnLoaded(fn LoadListener) {
	s.listeners = append(s.listeners, fn)
}

// Issue returns a new ticket, superseding every earlier one. Safe to call
// from any goroutine.
func (s *ModelStore) Issue() Ticket {
	return Ticket(s.latest.Add(1))
}

// IsCurrent reports whether no newer ticket than t has been issued
func (s *ModelStore) IsCurrent(t Ticket) bool {
	return uint64(t) >= s.latest.Load()
}

// Material returns the selected material
func (s *ModelStore) Material() Material {
	return s.material
}

// LoadFromBytes decodes raw and replaces the displayed model
func (s *ModelStore) LoadFromBytes(raw []byte) error {
	return s.Apply(s.Issue(), "", raw)
}

// Apply decodes raw for ticket t and replaces the displayed model. A stale
// ticket or a decode failure leaves the scene untouched.
func (s *ModelStore) Apply(t Ticket, origin string, raw []byte) error {
	if !s.IsCurrent(t) {
		return ErrStale
	}
	model, err := s.decoder.Decode(raw)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", describeOrigin(origin), err)
	}
	return s.ApplyMesh(t, origin, model)
}

// ApplyMesh displays an already decoded mesh for ticket t
func (s *ModelStore) ApplyMesh(t Ticket, origin string, model *stl.Model) error {
	if !s.IsCurrent(t) {
		return ErrStale
	}
	if model == nil || model.TriangleCount() == 0 {
		return fmt.Errorf("%s has no triangles: %w", describeOrigin(origin), stl.ErrMalformed)
	}

	if s.opts.ZUp {
		model.RotateX(-math.Pi / 2)
	}
	if s.opts.Simplify > 0 && s.opts.Simplify < 1 {
		before := model.TriangleCount()
		model = decimate(model, s.opts.Simplify)
		s.log.Debug("mesh simplified",
			zap.Int("before", before),
			zap.Int("after", model.TriangleCount()))
	}

	model.Translate(model.Bounds().Center.Mul(-1))
	bounds := model.Bounds()

	obj := &Object{
		Mesh:     model,
		Material: s.material,
		Bounds:   bounds,
		Origin:   origin,
	}

	s.state.Scene.Clear()
	Frame(s.state.Camera, s.state.Controls, bounds)
	s.state.Scene.Add(obj)

	s.log.Info("model loaded",
		zap.String("origin", describeOrigin(origin)),
		zap.String("name", model.Name),
		zap.Int("triangles", model.TriangleCount()),
		zap.Float64("max_dim", bounds.MaxDim()),
		zap.Float64("camera_distance", s.state.Camera.Distance()))

	for _, fn := range s.listeners {
		fn(obj)
	}
	return nil
}

// SetMaterial changes the material of the displayed object in place. The
// selection is remembered for the next load even when nothing is displayed.
func (s *ModelStore) SetMaterial(m Material) {
	s.material = m
	if obj := s.state.Scene.Current(); obj != nil {
		obj.Material = m
	}
}

func describeOrigin(origin string) string {
	if origin == "" {
		return "model data"
	}
	return origin
}

// decimate reduces the triangle count to about ratio of the original. The
// input is returned unchanged if decimation collapses the mesh.
func decimate(model *stl.Model, ratio float64) *stl.Model {
	toVector := func(v geometry.Vector3) simplify.Vector {
		return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
	}
	fromVector := func(v simplify.Vector) geometry.Vector3 {
		return geometry.NewVector3(v.X, v.Y, v.Z)
	}

	triangles := make([]*simplify.Triangle, 0, len(model.Triangles))
	for _, t := range model.Triangles {
		triangles = append(triangles, simplify.NewTriangle(toVector(t.V1), toVector(t.V2), toVector(t.V3)))
	}

	reduced := simplify.NewMesh(triangles).Simplify(ratio)
	if len(reduced.Triangles) == 0 {
		return model
	}

	out := stl.NewModel(model.Name)
	for _, t := range reduced.Triangles {
		tri := geometry.NewTriangle(geometry.Vector3{}, fromVector(t.V1), fromVector(t.V2), fromVector(t.V3))
		tri.Normal = tri.CalculateNormal()
		out.AddTriangle(tri)
	}
	return out
}
