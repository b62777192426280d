package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/stlview/pkg/stl"
)

// Source reads the raw bytes of a model from a path or URL
type Source interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

// FilePicker asks the user for a model file. An empty path with a nil error
// means the user cancelled.
type FilePicker interface {
	PickFile() (string, error)
}

// loadResult is a finished read waiting to be applied on the render goroutine
type loadResult struct {
	ticket Ticket
	origin string
	mesh   *stl.Model
	err    error
}

// InputBridge turns user actions into model and material changes. Reads and
// decoding run on background goroutines; their results queue up until the
// render loop drains them, so the scene is only ever touched from one goroutine.
type InputBridge struct {
	store    *ModelStore
	source   Source
	picker   FilePicker
	fallback func() *stl.Model
	timeout  time.Duration
	log      *zap.Logger

	mailbox  chan loadResult
	inflight sync.WaitGroup
	pending  atomic.Int32
}

// InputOptions configure an InputBridge
type InputOptions struct {
	Picker       FilePicker
	Fallback     func() *stl.Model // shown when a remote fetch fails
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// NewInputBridge creates a bridge feeding store from source
func NewInputBridge(store *ModelStore, source Source, opts InputOptions) *InputBridge {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &InputBridge{
		store:    store,
		source:   source,
		picker:   opts.Picker,
		fallback: opts.Fallback,
		timeout:  opts.FetchTimeout,
		log:      log,
		mailbox:  make(chan loadResult, 16),
	}
}

// OnLoadRequested opens the file picker without blocking the caller
func (b *InputBridge) OnLoadRequested() {
	if b.picker == nil {
		b.log.Warn("no file picker available")
		return
	}
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		path, err := b.picker.PickFile()
		if err != nil {
			b.log.Error("file dialog failed", zap.Error(err))
			return
		}
		if path == "" {
			b.log.Debug("file dialog cancelled")
			return
		}
		b.OnFileSelected(path)
	}()
}

// OnFileSelected starts loading a local file and returns its ticket. An empty
// path is a cancelled selection and returns 0 without doing anything.
func (b *InputBridge) OnFileSelected(path string) Ticket {
	if path == "" {
		return 0
	}
	ticket := b.store.Issue()
	b.log.Debug("loading file", zap.String("path", path), zap.Uint64("ticket", uint64(ticket)))

	b.pending.Add(1)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		mesh, err := b.read(context.Background(), path)
		b.mailbox <- loadResult{ticket: ticket, origin: path, mesh: mesh, err: err}
	}()
	return ticket
}

// OnURLRequested starts fetching a remote model. If the fetch fails or times
// out, the fallback mesh is shown instead so the viewer never stays blank.
func (b *InputBridge) OnURLRequested(ctx context.Context, url string) Ticket {
	ticket := b.store.Issue()
	b.log.Info("fetching model", zap.String("url", url), zap.Duration("timeout", b.timeout))

	b.pending.Add(1)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		fetchCtx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}

		mesh, err := b.read(fetchCtx, url)
		if err != nil && b.fallback != nil {
			b.log.Warn("remote model unavailable, showing placeholder", zap.String("url", url), zap.Error(err))
			b.mailbox <- loadResult{ticket: ticket, mesh: b.fallback()}
			return
		}
		b.mailbox <- loadResult{ticket: ticket, origin: url, mesh: mesh, err: err}
	}()
	return ticket
}

func (b *InputBridge) read(ctx context.Context, location string) (*stl.Model, error) {
	data, err := b.source.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	mesh, err := b.store.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return mesh, nil
}

// OnMaterialChanged applies a material chosen by label
func (b *InputBridge) OnMaterialChanged(name string) {
	m, err := ParseMaterial(name)
	if err != nil {
		b.log.Warn("ignoring material change", zap.Error(err))
		return
	}
	b.store.SetMaterial(m)
}

// Drain applies every finished load, in completion order. It must run on the
// render goroutine. Returns the number of loads that changed the scene.
func (b *InputBridge) Drain() int {
	applied := 0
	for {
		select {
		case res := <-b.mailbox:
			if b.apply(res) {
				applied++
			}
		default:
			return applied
		}
	}
}

func (b *InputBridge) apply(res loadResult) bool {
	b.pending.Add(-1)
	fields := []zap.Field{zap.String("origin", res.origin), zap.Uint64("ticket", uint64(res.ticket))}

	if !b.store.IsCurrent(res.ticket) {
		b.log.Debug("discarding superseded load", fields...)
		return false
	}
	if res.err != nil {
		b.log.Error("failed to load model, keeping current one", append(fields, zap.Error(res.err))...)
		return false
	}

	err := b.store.ApplyMesh(res.ticket, res.origin, res.mesh)
	switch {
	case errors.Is(err, ErrStale):
		b.log.Debug("discarding superseded load", fields...)
		return false
	case err != nil:
		b.log.Error("failed to load model, keeping current one", append(fields, zap.Error(err))...)
		return false
	}
	return true
}

// Loading reports whether a load was started and not yet drained
func (b *InputBridge) Loading() bool {
	return b.pending.Load() > 0
}

// Wait blocks until every started read has queued its result
func (b *InputBridge) Wait() {
	b.inflight.Wait()
}
