package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/stlview/internal/logger"
	"github.com/philipparndt/stlview/pkg/viewer"
)

var snapshotOpts struct {
	output     string
	pixelRatio float64
	downsample bool
	wireframe  bool
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [file|url]",
	Short: "Render a model to a PNG without opening a window",
	Long: `Render a model with the software rasterizer. The camera is framed the
same way the viewer frames it, so the image matches the first frame shown.
--width, --height and --material apply as they do for the window.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVarP(&snapshotOpts.output, "output", "o", "snapshot.png", "Output PNG file")
	f.Float64Var(&snapshotOpts.pixelRatio, "pixel-ratio", 1, "Device pixel ratio, capped at 2")
	f.BoolVar(&snapshotOpts.downsample, "downsample", false, "Scale the image back to logical size")
	f.BoolVar(&snapshotOpts.wireframe, "wireframe", false, "Draw triangle edges")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	location := args[0]
	log := logger.Named("snapshot")

	material, err := viewer.ParseMaterial(cfg.Render.Material)
	if err != nil {
		return err
	}

	matcap := viewer.DefaultMatcap()
	if cfg.Render.Matcap != "" {
		if matcap, err = viewer.LoadMatcapFile(cfg.Render.Matcap); err != nil {
			return err
		}
	}

	renderer := viewer.NewSoftwareRenderer(matcap)
	opts := viewer.DefaultOptions()
	opts.Width, opts.Height = cfg.Window.Width, cfg.Window.Height
	opts.PixelRatio = snapshotOpts.pixelRatio
	opts.FOV = cfg.Render.FOV
	opts.Material = material
	opts.Background = cfg.BackgroundColor()
	opts.Mesh = viewer.MeshOptions{ZUp: cfg.Model.ZUp, Simplify: cfg.Model.Simplify}
	opts.Logger = logger.Named("viewer")
	v := viewer.New(renderer, opts)
	v.State.Scene.Wireframe = cfg.Render.Wireframe || snapshotOpts.wireframe

	raw, err := readSource(cmd.Context(), location)
	if err != nil {
		return err
	}
	if err := v.Store.Apply(v.Store.Issue(), location, raw); err != nil {
		return err
	}
	v.Loop.Tick()

	if renderer.Image() == nil {
		return fmt.Errorf("nothing rendered for %s", location)
	}
	var img image.Image = renderer.Image()
	if snapshotOpts.downsample {
		img = renderer.Downsampled()
	}

	if err := writePNG(snapshotOpts.output, img); err != nil {
		return err
	}
	log.Debug("snapshot written",
		zap.String("source", location),
		zap.String("output", snapshotOpts.output),
		zap.Uint64("frames", v.Loop.Frames()))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", snapshotOpts.output, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
