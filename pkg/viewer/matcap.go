package viewer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // matcap textures are commonly JPEG
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/nfnt/resize"
	"github.com/philipparndt/stlview/pkg/geometry"
)

// MatcapSize is the edge length every matcap texture is normalized to
const MatcapSize = 256

// Matcap is a lit-sphere texture indexed by view-space normal
type Matcap struct {
	img *image.RGBA
}

// LoadMatcapFile loads a matcap texture from a PNG or JPEG file
func LoadMatcapFile(path string) (*Matcap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matcap: %w", err)
	}
	defer f.Close()
	return LoadMatcap(f)
}

// LoadMatcap decodes a matcap texture and resamples it to MatcapSize squared
func LoadMatcap(r io.Reader) (*Matcap, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode matcap: %w", err)
	}
	return newMatcap(resize.Resize(MatcapSize, MatcapSize, src, resize.Lanczos3)), nil
}

func newMatcap(src image.Image) *Matcap {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			img.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return &Matcap{img: img}
}

// DefaultMatcap renders a warm grey clay sphere
func DefaultMatcap() *Matcap {
	dark := geometry.NewVector3(0x31, 0x2D, 0x20)
	mid := geometry.NewVector3(0x80, 0x67, 0x5C)
	light := geometry.NewVector3(0x8B, 0x8C, 0x8B)
	lightDir := geometry.NewVector3(-0.4, 0.6, 0.7).Normalize()

	img := image.NewRGBA(image.Rect(0, 0, MatcapSize, MatcapSize))
	half := float64(MatcapSize) / 2
	for y := 0; y < MatcapSize; y++ {
		for x := 0; x < MatcapSize; x++ {
			nx := (float64(x)+0.5)/half - 1
			ny := 1 - (float64(y)+0.5)/half
			r2 := nx*nx + ny*ny
			if r2 > 1 {
				s := 1 / math.Sqrt(r2)
				nx, ny, r2 = nx*s, ny*s, 1
			}
			n := geometry.NewVector3(nx, ny, math.Sqrt(1-r2))

			diffuse := math.Max(0, n.Dot(lightDir))
			reflected := n.Mul(2 * n.Dot(lightDir)).Sub(lightDir)
			specular := math.Pow(math.Max(0, reflected.Z), 24)

			c := dark.Add(mid.Sub(dark).Mul(diffuse)).Add(light.Mul(0.8 * specular))
			img.SetRGBA(x, y, color.RGBA{R: clampByte(c.X), G: clampByte(c.Y), B: clampByte(c.Z), A: 255})
		}
	}
	return &Matcap{img: img}
}

func clampByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// Sample returns the texel at (u, v) in [0,1], with v pointing up
func (m *Matcap) Sample(u, v float64) color.RGBA {
	b := m.img.Bounds()
	x := int(math.Max(0, math.Min(1, u)) * float64(b.Dx()-1))
	y := int((1 - math.Max(0, math.Min(1, v))) * float64(b.Dy()-1))
	return m.img.RGBAAt(x, y)
}

// Image returns the texture for upload to a GPU
func (m *Matcap) Image() *image.RGBA {
	return m.img
}
