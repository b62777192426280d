package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

// Stats summarizes a loaded model for the info command and the viewer overlay
type Stats struct {
	Name          string
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// AnalyzeModel computes statistics for a model
func AnalyzeModel(model *stl.Model) *Stats {
	stats := &Stats{
		Name:          model.Name,
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		Volume:        model.Volume(),
		TriangleCount: model.TriangleCount(),
	}
	stats.Dimensions = stats.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range model.Triangles {
		for _, length := range triangle.EdgeLengths() {
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
			stats.EdgeCount++
		}
	}

	if stats.EdgeCount > 0 {
		stats.MinEdgeLength = minLength
		stats.MaxEdgeLength = maxLength
		stats.AvgEdgeLength = totalLength / float64(stats.EdgeCount)
	}

	return stats
}

// Lines renders the stats as short "Label: value" lines for on-screen display
func (s *Stats) Lines() []string {
	lines := []string{}
	if s.Name != "" {
		lines = append(lines, fmt.Sprintf("Model: %s", s.Name))
	}
	return append(lines,
		fmt.Sprintf("Triangles: %d", s.TriangleCount),
		fmt.Sprintf("Size: %.2f x %.2f x %.2f", s.Dimensions.X, s.Dimensions.Y, s.Dimensions.Z),
		fmt.Sprintf("Surface Area: %.2f", s.SurfaceArea),
		fmt.Sprintf("Volume: %.2f", s.Volume),
	)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
