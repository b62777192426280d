package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlview/internal/logger"
	"github.com/philipparndt/stlview/pkg/analysis"
	"github.com/philipparndt/stlview/pkg/source"
	"github.com/philipparndt/stlview/pkg/stl"
)

var infoCmd = &cobra.Command{
	Use:   "info [file|url]",
	Short: "Display general information about a model",
	Long:  "Show dimensions, triangle count, surface area, volume and edge statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	location := args[0]

	model, err := readModel(cmd.Context(), location)
	if err != nil {
		return err
	}
	result := analysis.AnalyzeModel(model)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	for _, line := range result.Lines() {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Source: %s\n\n", location)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n", analysis.FormatVector(result.BoundingBox.Center()))
	fmt.Fprintf(out, "  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
	return nil
}

// readSource returns the STL bytes behind location within the configured
// fetch timeout
func readSource(ctx context.Context, location string) ([]byte, error) {
	if cfg.Model.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Model.FetchTimeout)
		defer cancel()
	}
	return source.NewLoader(logger.Named("source")).Read(ctx, location)
}

func readModel(ctx context.Context, location string) (*stl.Model, error) {
	raw, err := readSource(ctx, location)
	if err != nil {
		return nil, err
	}
	model, err := stl.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return model, nil
}
