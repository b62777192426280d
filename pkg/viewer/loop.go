package viewer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FrameSource paces the render loop. Next blocks until the next frame is due
// and returns false when the host is shutting down.
type FrameSource interface {
	Next() bool
}

// FrameSourceFunc adapts a function to FrameSource
type FrameSourceFunc func() bool

// Next calls f()
func (f FrameSourceFunc) Next() bool {
	return f()
}

// Loop advances controls and renders once per frame
type Loop struct {
	state    *State
	renderer Renderer
	input    *InputBridge
	log      *zap.Logger

	start  time.Time
	frames uint64
}

// NewLoop creates a render loop. input may be nil when nothing loads
// asynchronously.
func NewLoop(state *State, renderer Renderer, input *InputBridge, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{state: state, renderer: renderer, input: input, log: log, start: time.Now()}
}

// Tick runs one frame: apply finished loads, step the controls, render.
// Errors are logged; a failing frame never stops the loop.
func (l *Loop) Tick() {
	if l.input != nil {
		l.input.Drain()
	}
	l.state.Controls.Update()

	if err := l.renderer.Render(l.state.Scene, l.state.Camera); err != nil {
		l.log.Error("render failed", zap.Uint64("frame", l.frames), zap.Error(err))
	}
	l.frames++
}

// Run ticks until frames reports shutdown or ctx is cancelled
func (l *Loop) Run(ctx context.Context, frames FrameSource) error {
	for frames.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Tick()
	}
	l.log.Debug("render loop stopped", zap.Uint64("frames", l.frames), zap.Duration("elapsed", l.Elapsed()))
	return nil
}

// Frames returns the number of completed ticks
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Elapsed returns the time since the loop was created
func (l *Loop) Elapsed() time.Duration {
	return time.Since(l.start)
}
