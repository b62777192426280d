package viewer

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/philipparndt/stlview/pkg/geometry"
)

// Material selects how the mesh surface is shaded
type Material int

const (
	MaterialMatcap Material = iota
	MaterialNormal
	MaterialDepth
)

// Materials lists the selectable materials in control panel order
var Materials = []Material{MaterialMatcap, MaterialDepth, MaterialNormal}

func (m Material) String() string {
	switch m {
	case MaterialMatcap:
		return "Matcap"
	case MaterialNormal:
		return "Normal"
	case MaterialDepth:
		return "Depth"
	default:
		return fmt.Sprintf("Material(%d)", int(m))
	}
}

// ParseMaterial accepts a material label, case-insensitively
func ParseMaterial(name string) (Material, error) {
	for _, m := range Materials {
		if strings.EqualFold(strings.TrimSpace(name), m.String()) {
			return m, nil
		}
	}
	return MaterialMatcap, fmt.Errorf("unknown material %q (expected matcap, depth or normal)", name)
}

// Next returns the following material in panel order, wrapping around
func (m Material) Next() Material {
	for i, candidate := range Materials {
		if candidate == m {
			return Materials[(i+1)%len(Materials)]
		}
	}
	return Materials[0]
}

// Fragment is the per-pixel input to shading
type Fragment struct {
	Normal geometry.Vector3 // unit surface normal in view space
	Depth  float64          // window depth, 0 at the near plane and 1 at the far plane
}

// Shade returns the color of a fragment. matcap is only read by MaterialMatcap.
func (m Material) Shade(f Fragment, matcap *Matcap) color.RGBA {
	switch m {
	case MaterialNormal:
		n := f.Normal
		return color.RGBA{R: unit(n.X*0.5 + 0.5), G: unit(n.Y*0.5 + 0.5), B: unit(n.Z*0.5 + 0.5), A: 255}
	case MaterialDepth:
		v := unit(1 - f.Depth)
		return color.RGBA{R: v, G: v, B: v, A: 255}
	default:
		u := f.Normal.X*0.495 + 0.5
		v := f.Normal.Y*0.495 + 0.5
		return matcap.Sample(u, v)
	}
}

func unit(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
