// Package render owns the scene on a single worker goroutine
// Producers send Commands; the worker applies them, ticks animations and presents a full
// frame to a Surface whenever anything changed
package render

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/layerterm/lifecycle"
	"github.com/lixenwraith/layerterm/scene"
	"github.com/lixenwraith/layerterm/status"
	"github.com/lixenwraith/layerterm/terminal"
)

// Metric names published to the status registry
const (
	MetricCommands      = "render.commands"
	MetricFrames        = "render.frames"
	MetricPruned        = "render.pruned"
	MetricUnresolved    = "render.unresolved"
	MetricPresentErrors = "render.present_errors"
	MetricEventsDropped = "render.events_dropped"
	MetricUnits         = "render.units"
	MetricFrameTime     = "render.frame_ms"
)

// Defaults applied when options are omitted
const (
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultQueueSize     = 1024
	DefaultLayerCapacity = 256
)

// Option configures a Worker
type Option func(*Worker)

func WithLogger(l *zap.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

func WithRegistry(r *status.Registry) Option {
	return func(w *Worker) {
		if r != nil {
			w.registry = r
		}
	}
}

func WithFrameInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithQueueSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

func WithLayerCapacity(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.layerCapacity = n
		}
	}
}

// WithEvents sets the outbound channel receiving resize notifications
func WithEvents(ch chan<- terminal.Event) Option {
	return func(w *Worker) {
		w.events = ch
	}
}

// WithCamera sets the initial viewport size
func WithCamera(width, height, depth int) Option {
	return func(w *Worker) {
		w.camera = scene.NewCamera(width, height, depth)
	}
}

// WithColors sets the initial fallback foreground and background
func WithColors(fg, bg terminal.Color) Option {
	return func(w *Worker) {
		w.fg = fg
		w.bg = bg
	}
}

// WithClock replaces time.Now for animation timing
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		if now != nil {
			w.now = now
		}
	}
}

type workerMetrics struct {
	commands      *atomic.Int64
	frames        *atomic.Int64
	pruned        *atomic.Int64
	unresolved    *atomic.Int64
	presentErrors *atomic.Int64
	eventsDropped *atomic.Int64
	units         *atomic.Int64
	frameTime     *status.Gauge
}

// Worker is the sole owner of the layers, animation list, camera and frame
type Worker struct {
	commands chan Command
	events   chan<- terminal.Event
	surface  Surface

	layers *scene.Layers
	camera *scene.Camera
	frame  *Frame
	fg, bg terminal.Color
	dirty  bool

	interval      time.Duration
	queueSize     int
	layerCapacity int
	now           func() time.Time

	logger   *zap.Logger
	registry *status.Registry
	metrics  workerMetrics
}

// NewWorker creates a worker presenting to surface
// The canvas starts at the surface size; the camera defaults to the same size
func NewWorker(surface Surface, opts ...Option) *Worker {
	w := &Worker{
		surface:       surface,
		interval:      DefaultFrameInterval,
		queueSize:     DefaultQueueSize,
		layerCapacity: DefaultLayerCapacity,
		now:           time.Now,
		logger:        zap.NewNop(),
		dirty:         true,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.registry == nil {
		w.registry = status.NewRegistry()
	}

	width, height := surface.Size()
	if w.camera == nil {
		w.camera = scene.NewCamera(width, height, 1)
	}
	w.frame = NewFrame(width, height)
	w.layers = scene.NewLayers(w.layerCapacity)
	w.commands = make(chan Command, w.queueSize)

	r := w.registry
	w.metrics = workerMetrics{
		commands:      r.Counters.Get(MetricCommands),
		frames:        r.Counters.Get(MetricFrames),
		pruned:        r.Counters.Get(MetricPruned),
		unresolved:    r.Counters.Get(MetricUnresolved),
		presentErrors: r.Counters.Get(MetricPresentErrors),
		eventsDropped: r.Counters.Get(MetricEventsDropped),
		units:         r.Counters.Get(MetricUnits),
		frameTime:     r.Gauges.Get(MetricFrameTime),
	}
	return w
}

// Sender returns a producer handle that stops delivering once ctx dies
func (w *Worker) Sender(ctx lifecycle.Context) *Sender {
	return &Sender{ch: w.commands, ctx: ctx, poll: w.interval}
}

// Registry returns the metrics registry the worker publishes to
func (w *Worker) Registry() *status.Registry {
	return w.registry
}

// Layers, Camera and Frame expose worker-owned state
// Only safe to use from the worker goroutine, or after Run returns
func (w *Worker) Layers() *scene.Layers { return w.layers }
func (w *Worker) Camera() *scene.Camera { return w.camera }
func (w *Worker) Frame() *Frame         { return w.frame }

// Run steps the worker once per frame interval until ctx dies
// Cancellation is observed within one interval; the return value is always nil
func (w *Worker) Run(ctx lifecycle.Context) error {
	w.logger.Info("render worker started",
		zap.Duration("interval", w.interval),
		zap.Int("queue", w.queueSize))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for ctx.IsAlive() {
		w.Step(w.now())
		<-ticker.C
	}

	w.logger.Info("render worker stopped",
		zap.Int64("frames", w.metrics.frames.Load()),
		zap.Int64("commands", w.metrics.commands.Load()))
	return nil
}

// Step runs one iteration: drain commands, prune and tick animations, repaint if dirty
// Returns true if a frame was presented
func (w *Worker) Step(now time.Time) bool {
	if w.drain() {
		w.dirty = true
	}

	anim := w.layers.Animations()
	if n := anim.Prune(); n > 0 {
		w.metrics.pruned.Add(int64(n))
		w.dirty = true
	}
	if anim.Tick(now) {
		w.dirty = true
	}

	if !w.dirty {
		return false
	}
	w.paint()
	w.dirty = false
	return true
}

// drain applies every queued command without blocking
func (w *Worker) drain() bool {
	processed := false
	for {
		select {
		case cmd := <-w.commands:
			w.dispatch(cmd)
			processed = true
		default:
			return processed
		}
	}
}

// Apply runs a command synchronously on the caller's goroutine
// For tests and single-threaded callers that own the worker
func (w *Worker) Apply(cmd Command) {
	w.dispatch(cmd)
	w.dirty = true
}

func (w *Worker) dispatch(cmd Command) {
	switch c := cmd.(type) {
	case Batch:
		// Alternate front and back; callers must not depend on order within a batch
		front, back := 0, len(c)-1
		for fromFront := true; front <= back; fromFront = !fromFront {
			if fromFront {
				w.dispatch(c[front])
				front++
			} else {
				w.dispatch(c[back])
				back--
			}
		}
		return
	case Sequence:
		for _, sub := range c {
			w.dispatch(sub)
		}
		return
	}

	w.metrics.commands.Add(1)

	switch c := cmd.(type) {
	case Insert:
		if _, err := w.layers.Insert(c.ID, c.Drawable); err != nil {
			w.skip("insert", c.ID, err)
		}
	case Remove:
		if _, err := w.layers.Remove(c.ID); err != nil {
			w.skip("remove", c.ID, err)
		}
	case Move:
		if err := w.layers.Move(c.ID, c.Delta); err != nil {
			w.skip("move", c.ID, err)
		}
	case MoveLayer:
		if err := w.layers.MoveLayer(c.ID, c.Layer); err != nil {
			w.skip("move_layer", c.ID, err)
		}
	case Update:
		if err := w.layers.Update(c.ID, c.Drawable); err != nil {
			w.skip("update", c.ID, err)
		}
	case SetForeground:
		w.fg = c.Color
	case SetBackground:
		w.bg = c.Color
	case Clear:
		w.layers.Clear()
	case Redraw:
	case CameraShift:
		w.camera.Shift(c.Delta)
	case CameraSet:
		w.camera.SetPos(c.Pos)
	case CameraResize:
		w.camera.Resize(c.Width, c.Height, c.Depth)
	case CameraGrow:
		w.camera.Grow(c.Width, c.Height, c.Depth)
	case CameraShrink:
		w.camera.Shrink(c.Width, c.Height, c.Depth)
	case TerminalResized:
		w.resize(c.Width, c.Height)
	case nil:
		w.logger.Warn("nil command")
	}
	w.metrics.units.Store(int64(w.layers.Total()))
}

func (w *Worker) skip(op string, id *scene.UnitID, err error) {
	w.metrics.unresolved.Add(1)
	w.logger.Warn("command skipped",
		zap.String("op", op),
		zap.Stringer("id", id),
		zap.Error(err))
}

// resize adopts new canvas dimensions and notifies the event channel without blocking
func (w *Worker) resize(width, height int) {
	w.frame.Resize(width, height)
	if r, ok := w.surface.(resizer); ok {
		if err := r.Resize(width, height); err != nil {
			w.logger.Warn("surface resize failed", zap.Error(err))
		}
	}

	if w.events == nil {
		return
	}
	select {
	case w.events <- terminal.NewResizeEvent(width, height):
	default:
		w.metrics.eventsDropped.Add(1)
		w.logger.Warn("event channel full, resize dropped",
			zap.Int("width", width),
			zap.Int("height", height))
	}
}

// paint composes all layers back to front and presents the frame
func (w *Worker) paint() {
	start := time.Now()
	w.frame.Clear(terminal.Cell{Rune: ' ', Fg: w.fg, Bg: w.bg})
	// Partially visible drawables are cut at the viewport edge, not the terminal edge
	w.frame.Clip(w.camera.Width, w.camera.Height)

	for _, layer := range scene.PaintOrder {
		w.layers.Each(layer, func(u *scene.Unit) bool {
			d := u.Drawable()
			if !w.camera.InView(d) {
				return true
			}
			fg, bg := d.Fg, d.Bg
			if fg.IsDefault() {
				fg = w.fg
			}
			if bg.IsDefault() {
				bg = w.bg
			}
			// Screen positions are 1-indexed, frame cells 0-indexed
			pos := w.camera.ScreenPos(d.Pos)
			for row, line := range d.Lines() {
				w.frame.SetString(pos.X-1, pos.Y-1+row, line, fg, bg, d.Attrs)
			}
			return true
		})
	}

	width, height := w.frame.Size()
	if err := w.surface.Present(w.frame.Cells(), width, height); err != nil {
		w.metrics.presentErrors.Add(1)
		w.logger.Error("present failed", zap.Error(err))
		return
	}
	w.metrics.frames.Add(1)
	w.metrics.frameTime.Set(float64(time.Since(start).Microseconds()) / 1000)
}
