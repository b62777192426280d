package app

import (
	"errors"

	"github.com/sqweek/dialog"
)

// dialogPicker opens the native file dialog
type dialogPicker struct {
	title string
}

// PickFile returns the chosen path, or "" when the dialog was cancelled
func (p dialogPicker) PickFile() (string, error) {
	path, err := dialog.File().
		Title(p.title).
		Filter("STL files", "stl").
		Filter("OpenSCAD files", "scad").
		Load()
	return pickResult(path, err)
}

func pickResult(path string, err error) (string, error) {
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	return path, err
}
