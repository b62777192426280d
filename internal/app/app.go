// Package app hosts the viewer in a raylib window.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/philipparndt/stlview/internal/config"
	"github.com/philipparndt/stlview/internal/logger"
	"github.com/philipparndt/stlview/pkg/analysis"
	"github.com/philipparndt/stlview/pkg/source"
	"github.com/philipparndt/stlview/pkg/viewer"
	"github.com/philipparndt/stlview/pkg/watcher"
)

// App is the windowed viewer
type App struct {
	cfg *config.Config
	log *zap.Logger

	viewer   *viewer.Viewer
	renderer *gpuRenderer
	loader   *source.Loader
	watcher  *watcher.FileWatcher

	// render goroutine only
	stats        *analysis.Stats
	loadingSince time.Time
	dragging     bool
	width        int
	height       int
	ratio        float64
}

// Run opens the window, loads location (or the configured default model)
// and blocks until the window is closed or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, location string) error {
	log := logger.Named("app")

	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if cfg.Window.HighDPI {
		flags |= rl.FlagWindowHighdpi
	}
	if cfg.Window.VSync {
		flags |= rl.FlagVsyncHint
	}
	rl.SetConfigFlags(flags) // Must be before InitWindow
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "STL Viewer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	app, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	app.open(ctx, location)

	frames := viewer.FrameSourceFunc(func() bool {
		if rl.WindowShouldClose() {
			return false
		}
		ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if ctrlPressed && rl.IsKeyPressed(rl.KeyC) {
			return false
		}
		app.syncWindowSize()
		app.handleInput()
		return true
	})

	if err := app.viewer.Loop.Run(ctx, frames); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("viewer closed",
		zap.Uint64("frames", app.viewer.Loop.Frames()),
		zap.Duration("uptime", app.viewer.Loop.Elapsed()))
	return nil
}

func newApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	material, err := viewer.ParseMaterial(cfg.Render.Material)
	if err != nil {
		return nil, err
	}

	matcap := viewer.DefaultMatcap()
	if cfg.Render.Matcap != "" {
		if matcap, err = viewer.LoadMatcapFile(cfg.Render.Matcap); err != nil {
			return nil, err
		}
	}

	renderer, err := newGPURenderer(matcap, log.Named("gpu"))
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		log:      log,
		renderer: renderer,
		loader:   source.NewLoader(logger.Named("source")),
	}

	opts := viewer.DefaultOptions()
	opts.Width, opts.Height = rl.GetScreenWidth(), rl.GetScreenHeight()
	opts.PixelRatio = windowPixelRatio()
	opts.FOV = cfg.Render.FOV
	opts.Material = material
	opts.Background = cfg.BackgroundColor()
	opts.Mesh = viewer.MeshOptions{ZUp: cfg.Model.ZUp, Simplify: cfg.Model.Simplify}
	opts.Damping = cfg.Controls.Damping
	opts.Source = app.loader
	opts.Picker = dialogPicker{title: "Open Model"}
	opts.FetchTimeout = cfg.Model.FetchTimeout
	opts.Logger = logger.Named("viewer")

	app.viewer = viewer.New(renderer, opts)
	app.width, app.height, app.ratio = opts.Width, opts.Height, opts.PixelRatio

	controls := app.viewer.State.Controls
	controls.RotateSpeed = cfg.Controls.RotateSpeed
	controls.ZoomSpeed = cfg.Controls.ZoomSpeed
	controls.PanSpeed = cfg.Controls.PanSpeed
	app.viewer.State.Scene.Wireframe = cfg.Render.Wireframe

	app.viewer.Store.OnLoaded(app.modelLoaded)
	renderer.overlay = app.drawUI

	if cfg.Model.Watch {
		if err := app.startWatcher(); err != nil {
			log.Warn("failed to set up file watching, auto-reload will not be available", zap.Error(err))
		}
	}
	return app, nil
}

// open starts the initial load
func (app *App) open(ctx context.Context, location string) {
	if location == "" {
		location = app.cfg.Model.DefaultURL
	}
	if location == "" {
		if err := app.viewer.Store.ApplyMesh(app.viewer.Store.Issue(), "", viewer.Placeholder()); err != nil {
			app.log.Error("failed to show placeholder", zap.Error(err))
		}
		return
	}
	if source.IsRemote(location) {
		app.viewer.Input.OnURLRequested(ctx, location)
		return
	}
	app.viewer.Input.OnFileSelected(location)
}

// modelLoaded runs on the render goroutine after every successful load
func (app *App) modelLoaded(obj *viewer.Object) {
	app.stats = analysis.AnalyzeModel(obj.Mesh)
	if obj.Origin != "" {
		rl.SetWindowTitle(fmt.Sprintf("STL Viewer - %s", obj.Origin))
	}
	app.watchModel(obj)
}

// syncWindowSize forwards window size and DPI changes to the viewport
func (app *App) syncWindowSize() {
	width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
	ratio := windowPixelRatio()
	if width == app.width && height == app.height && ratio == app.ratio {
		return
	}
	app.width, app.height, app.ratio = width, height, ratio
	app.viewer.Viewport.OnResize(width, height, ratio)
	app.log.Debug("window resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("pixel_ratio", app.viewer.Viewport.PixelRatio))
}

func windowPixelRatio() float64 {
	return float64(rl.GetWindowScaleDPI().X)
}

func (app *App) close() {
	if app.watcher != nil {
		app.watcher.Close()
	}
	app.renderer.Close()
}
