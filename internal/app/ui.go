package app

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/stlview/pkg/viewer"
	"github.com/philipparndt/stlview/version"
)

const (
	panelWidth   = 170
	panelMargin  = 10
	panelPadding = 10
	buttonHeight = 26
	buttonGap    = 6
	labelHeight  = 20

	fontSize16 = 16
	fontSize14 = 14
	fontSize12 = 12
	lineHeight = 20
)

// rect is a screen rectangle in logical pixels
type rect struct {
	X, Y, W, H float32
}

func (r rect) contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r rect) raylib() rl.Rectangle {
	return rl.Rectangle{X: r.X, Y: r.Y, Width: r.W, Height: r.H}
}

// panelLayout places the control panel in the top-right corner
type panelLayout struct {
	Panel     rect
	Load      rect
	Materials []rect // same order as viewer.Materials
}

func layoutPanel(screenWidth float32) panelLayout {
	x := screenWidth - panelWidth - panelMargin
	inner := float32(panelWidth - 2*panelPadding)

	y := float32(panelMargin + panelPadding)
	l := panelLayout{}
	l.Load = rect{X: x + panelPadding, Y: y, W: inner, H: buttonHeight}
	y += buttonHeight + buttonGap + labelHeight

	for range viewer.Materials {
		l.Materials = append(l.Materials, rect{X: x + panelPadding, Y: y, W: inner, H: buttonHeight})
		y += buttonHeight + buttonGap
	}

	l.Panel = rect{X: x, Y: panelMargin, W: panelWidth, H: y - panelMargin - buttonGap + panelPadding}
	return l
}

// panelAction is what a click on the panel asks for
type panelAction struct {
	load     bool
	material viewer.Material
	selected bool
}

// hit maps a click position to a panel action
func (l panelLayout) hit(x, y float32) (panelAction, bool) {
	if l.Load.contains(x, y) {
		return panelAction{load: true}, true
	}
	for i, r := range l.Materials {
		if r.contains(x, y) {
			return panelAction{material: viewer.Materials[i], selected: true}, true
		}
	}
	return panelAction{}, false
}

// textColors picks readable text colors for the background
func textColors(bg color.RGBA) (primary, secondary rl.Color) {
	luminance := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luminance > 140 {
		return rl.NewColor(30, 30, 30, 255), rl.NewColor(90, 90, 90, 255)
	}
	return rl.White, rl.LightGray
}

// drawUI draws the overlay on top of the rendered scene
func (app *App) drawUI() {
	primary, secondary := textColors(app.viewer.State.Scene.Background)
	screenHeight := float32(rl.GetScreenHeight())

	y := float32(10)
	if app.cfg.Window.ShowStats && app.stats != nil {
		rl.DrawText("Model:", 10, int32(y), fontSize16, primary)
		y += lineHeight
		for _, line := range app.stats.Lines() {
			rl.DrawText("  "+line, 10, int32(y), fontSize14, secondary)
			y += lineHeight
		}
		rl.DrawText(fmt.Sprintf("  Material: %s", app.viewer.Store.Material()), 10, int32(y), fontSize14, secondary)
		y += lineHeight * 2
	}

	if app.viewer.Input.Loading() {
		app.drawLoading(primary)
	} else {
		app.loadingSince = time.Time{}
	}

	// key help sits above the version line
	help := []string{
		"O: Open | M: Material | W: Wireframe | Home: Re-frame",
		"Left Drag: Rotate | Right/Shift+Drag: Pan | Wheel: Zoom",
	}
	helpY := screenHeight - 30 - float32(len(help))*lineHeight
	for i, line := range help {
		rl.DrawText(line, 10, int32(helpY)+int32(i)*lineHeight, fontSize12, secondary)
	}

	// Version and FPS in bottom-left corner
	bottomY := int32(screenHeight) - 30
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawText(versionText, 10, bottomY, fontSize12, rl.Gray)
	versionWidth := rl.MeasureText(versionText, fontSize12)
	rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), 10+versionWidth+15, bottomY, fontSize12, rl.DarkGreen)

	app.drawPanel(primary)
}

func (app *App) drawLoading(col rl.Color) {
	if app.loadingSince.IsZero() {
		app.loadingSince = time.Now()
	}
	elapsed := time.Since(app.loadingSince).Seconds()
	spinner := []string{"|", "/", "-", "\\"}
	text := fmt.Sprintf("%s Loading... (%.1fs)", spinner[int(elapsed*8)%len(spinner)], elapsed)

	layout := layoutPanel(float32(rl.GetScreenWidth()))
	x := int32(layout.Panel.X)
	y := int32(layout.Panel.Y + layout.Panel.H + panelMargin)
	rl.DrawRectangle(x, y, panelWidth, 30, rl.NewColor(0, 0, 0, 40))
	rl.DrawText(text, x+panelPadding, y+8, fontSize14, col)
}

func (app *App) drawPanel(col rl.Color) {
	layout := layoutPanel(float32(rl.GetScreenWidth()))
	mouse := rl.GetMousePosition()

	rl.DrawRectangleRec(layout.Panel.raylib(), rl.NewColor(0, 0, 0, 30))
	rl.DrawRectangleLinesEx(layout.Panel.raylib(), 1, rl.NewColor(0, 0, 0, 80))

	drawButton(layout.Load, "Load Model", layout.Load.contains(mouse.X, mouse.Y), false, col)

	labelY := layout.Load.Y + buttonHeight + buttonGap
	rl.DrawText("Material", int32(layout.Load.X), int32(labelY)+3, fontSize14, col)

	current := app.viewer.Store.Material()
	for i, r := range layout.Materials {
		m := viewer.Materials[i]
		drawButton(r, m.String(), r.contains(mouse.X, mouse.Y), m == current, col)
	}
}

func drawButton(r rect, label string, hovered, active bool, col rl.Color) {
	fill := rl.NewColor(0, 0, 0, 20)
	switch {
	case active:
		fill = rl.NewColor(70, 130, 220, 160)
	case hovered:
		fill = rl.NewColor(0, 0, 0, 50)
	}
	rl.DrawRectangleRec(r.raylib(), fill)
	rl.DrawRectangleLinesEx(r.raylib(), 1, rl.NewColor(0, 0, 0, 90))

	width := rl.MeasureText(label, fontSize14)
	rl.DrawText(label, int32(r.X+(r.W-float32(width))/2), int32(r.Y+(r.H-fontSize14)/2), fontSize14, col)
}
