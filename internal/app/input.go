package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput turns raylib input into viewer calls. It runs on the render
// goroutine before the frame is ticked.
func (app *App) handleInput() {
	mouse := rl.GetMousePosition()
	layout := layoutPanel(float32(rl.GetScreenWidth()))
	overPanel := layout.Panel.contains(mouse.X, mouse.Y)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && overPanel {
		if action, ok := layout.hit(mouse.X, mouse.Y); ok {
			app.applyPanelAction(action)
		}
	}

	app.handleKeys()
	if overPanel && !app.dragging {
		return
	}
	app.handleMouse()
}

func (app *App) applyPanelAction(action panelAction) {
	switch {
	case action.load:
		app.viewer.Input.OnLoadRequested()
	case action.selected:
		app.viewer.Input.OnMaterialChanged(action.material.String())
	}
}

func (app *App) handleKeys() {
	if rl.IsKeyPressed(rl.KeyO) {
		app.viewer.Input.OnLoadRequested()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		app.viewer.Store.SetMaterial(app.viewer.Store.Material().Next())
	}
	if rl.IsKeyPressed(rl.KeyW) {
		scene := app.viewer.State.Scene
		scene.Wireframe = !scene.Wireframe
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		app.viewer.Reframe()
	}
}

func (app *App) handleMouse() {
	controls := app.viewer.State.Controls
	height := float64(app.viewer.Viewport.Height)

	shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	leftDown := rl.IsMouseButtonDown(rl.MouseLeftButton)
	panDown := rl.IsMouseButtonDown(rl.MouseRightButton) || rl.IsMouseButtonDown(rl.MouseMiddleButton)
	app.dragging = leftDown || panDown

	delta := rl.GetMouseDelta()
	if delta.X != 0 || delta.Y != 0 {
		dx, dy := float64(delta.X), float64(delta.Y)
		switch {
		case panDown || (leftDown && shiftPressed):
			controls.Pan(dx, dy, height)
		case leftDown:
			controls.Rotate(dx, dy, height)
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		controls.Zoom(float64(wheel))
	}
}
