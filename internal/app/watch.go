package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/stlview/internal/logger"
	"github.com/philipparndt/stlview/pkg/viewer"
	"github.com/philipparndt/stlview/pkg/watcher"
)

const watchDebounce = 300 * time.Millisecond

func (app *App) startWatcher() error {
	fw, err := watcher.NewFileWatcher(watchDebounce, logger.Named("watcher"))
	if err != nil {
		return err
	}
	fw.Start()
	app.watcher = fw
	return nil
}

// watchModel points the watcher at the files behind obj. A change to any of
// them reloads the model from its origin.
func (app *App) watchModel(obj *viewer.Object) {
	if app.watcher == nil {
		return
	}

	files, err := app.loader.WatchList(obj.Origin)
	if err != nil {
		app.log.Warn("failed to resolve watched files", zap.String("origin", obj.Origin), zap.Error(err))
		files = []string{obj.Origin}
	}
	if len(files) == 0 {
		app.watcher.RemoveAll()
		return
	}

	origin := obj.Origin
	input := app.viewer.Input
	if err := app.watcher.Watch(files, func(changed string) {
		app.log.Info("reloading model", zap.String("origin", origin), zap.String("changed", changed))
		input.OnFileSelected(origin)
	}); err != nil {
		app.log.Warn("failed to watch model", zap.String("origin", origin), zap.Error(err))
	}
}
