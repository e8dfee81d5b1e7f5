package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/layerterm/lifecycle"
	"github.com/lixenwraith/layerterm/scene"
	"github.com/lixenwraith/layerterm/status"
	"github.com/lixenwraith/layerterm/terminal"
	"github.com/lixenwraith/layerterm/vmath"
)

// recordSurface keeps a copy of the last presented frame
type recordSurface struct {
	width, height int
	presents      int
	last          []terminal.Cell
	err           error
	resizes       int
}

func (s *recordSurface) Size() (int, int) { return s.width, s.height }

func (s *recordSurface) Present(cells []terminal.Cell, width, height int) error {
	if s.err != nil {
		return s.err
	}
	s.presents++
	s.last = append(s.last[:0], cells...)
	s.width, s.height = width, height
	return nil
}

func (s *recordSurface) Resize(width, height int) error {
	s.resizes++
	return nil
}

func (s *recordSurface) runeAt(x, y int) rune {
	return s.last[y*s.width+x].Rune
}

func newTestWorker(t *testing.T, opts ...Option) (*Worker, *recordSurface) {
	t.Helper()
	surf := &recordSurface{width: 10, height: 10}
	return NewWorker(surf, opts...), surf
}

func at(x, y int) vmath.Point3 {
	return vmath.Point3{X: x, Y: y}
}

func TestStaticGlyphPaintedAtScreenCell(t *testing.T) {
	w, surf := newTestWorker(t)
	id := scene.NewUnitID()

	w.Apply(Insert{ID: id, Drawable: scene.NewStatic(scene.Foreground, at(1, 1), "@")})
	if !w.Step(time.Now()) {
		t.Fatal("Expected a frame after insert")
	}
	// World (1,1) under a camera at the origin is terminal cell (2,2), frame index (1,1)
	if got := surf.runeAt(1, 1); got != '@' {
		t.Errorf("Expected @ at (1,1), got %q", got)
	}

	w.Apply(Remove{ID: id})
	w.Step(time.Now())
	if got := surf.runeAt(1, 1); got != ' ' {
		t.Errorf("Expected blank after remove, got %q", got)
	}
}

func TestStepIdleDoesNotPresent(t *testing.T) {
	w, surf := newTestWorker(t)
	w.Step(time.Now())
	before := surf.presents
	if w.Step(time.Now()) {
		t.Error("Expected no frame without changes")
	}
	if surf.presents != before {
		t.Errorf("Expected %d presents, got %d", before, surf.presents)
	}

	w.Apply(Redraw{})
	if !w.Step(time.Now()) {
		t.Error("Expected redraw to force a frame")
	}
}

func TestSenderDeliversToStep(t *testing.T) {
	w, surf := newTestWorker(t)
	ctx := lifecycle.New()
	s := w.Sender(ctx)
	id := scene.NewUnitID()

	if !s.Send(Insert{ID: id, Drawable: scene.NewStatic(scene.UI, at(0, 0), "hi")}) {
		t.Fatal("Expected send to succeed")
	}
	w.Step(time.Now())
	if surf.runeAt(0, 0) != 'h' || surf.runeAt(1, 0) != 'i' {
		t.Errorf("Expected hi at row 0, got %q%q", surf.runeAt(0, 0), surf.runeAt(1, 0))
	}
	if !id.Assigned() {
		t.Error("Expected worker to fill in the handle")
	}
}

func TestSenderGivesUpAfterCancel(t *testing.T) {
	w, _ := newTestWorker(t, WithQueueSize(1), WithFrameInterval(5*time.Millisecond))
	ctx := lifecycle.New()
	s := w.Sender(ctx)

	if !s.TrySend(Redraw{}) {
		t.Fatal("Expected first send to fit")
	}
	if s.TrySend(Redraw{}) {
		t.Error("Expected TrySend to fail on a full queue")
	}

	done := make(chan bool, 1)
	go func() { done <- s.Send(Redraw{}) }()
	time.Sleep(20 * time.Millisecond)
	ctx.Cancel()

	select {
	case ok := <-done:
		if ok {
			t.Error("Expected blocked send to report failure after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("Expected blocked send to return after cancel")
	}
	if s.Send(Redraw{}) {
		t.Error("Expected send on dead context to fail")
	}
}

func TestSequenceRemoveThenInsert(t *testing.T) {
	w, surf := newTestWorker(t)
	a := scene.NewUnitID()
	w.Apply(Insert{ID: a, Drawable: scene.NewStatic(scene.Foreground, at(0, 0), "o")})

	obj := scene.NewStatic(scene.Foreground, at(3, 3), "n")
	w.Apply(Sequence{Remove{ID: a}, Insert{ID: a, Drawable: obj}})
	w.Step(time.Now())

	u, err := w.Layers().Lookup(a)
	if err != nil {
		t.Fatalf("Expected A to resolve, got %v", err)
	}
	if u.Drawable() != obj {
		t.Error("Expected A to hold the newly inserted drawable")
	}
	if surf.runeAt(0, 0) != ' ' || surf.runeAt(3, 3) != 'n' {
		t.Error("Expected old glyph gone and new glyph painted")
	}
	if w.Layers().Total() != 1 {
		t.Errorf("Expected exactly one unit, got %d", w.Layers().Total())
	}
}

func TestBatchAppliesAll(t *testing.T) {
	w, _ := newTestWorker(t)
	a := scene.NewUnitID()
	w.Apply(Insert{ID: a, Drawable: scene.NewStatic(scene.Foreground, at(0, 0), "o")})

	// Either order is acceptable; neither may crash
	w.Apply(Batch{Remove{ID: a}, Insert{ID: a, Drawable: scene.NewStatic(scene.Foreground, at(1, 0), "n")}})
	w.Step(time.Now())

	ids := make([]*scene.UnitID, 5)
	var batch Batch
	for i := range ids {
		ids[i] = scene.NewUnitID()
		batch = append(batch, Insert{ID: ids[i], Drawable: scene.NewStatic(scene.Background, at(i, 2), "x")})
	}
	w.Apply(batch)
	for i, id := range ids {
		if !id.Assigned() {
			t.Errorf("Expected batch insert %d applied", i)
		}
	}
}

func TestUnknownIDLoggedAndSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := status.NewRegistry()
	w, _ := newTestWorker(t, WithLogger(zap.New(core)), WithRegistry(reg))

	ghost := scene.NewUnitID()
	w.Apply(Sequence{
		Remove{ID: ghost},
		Move{ID: ghost, Delta: at(1, 0)},
		Update{ID: ghost, Drawable: scene.NewStatic(scene.UI, at(0, 0), "u")},
		MoveLayer{ID: ghost, Layer: scene.UI},
	})

	skipped := logs.FilterMessage("command skipped")
	if skipped.Len() != 4 {
		t.Fatalf("Expected 4 skipped commands logged, got %d", skipped.Len())
	}
	err, _ := skipped.All()[0].ContextMap()["error"].(string)
	if !strings.Contains(err, scene.ErrUnknownUnit.Error()) {
		t.Errorf("Expected unknown unit error, got %q", err)
	}
	if got := reg.Counter(MetricUnresolved); got != 4 {
		t.Errorf("Expected 4 unresolved, got %d", got)
	}
	if got := reg.Counter(MetricCommands); got != 4 {
		t.Errorf("Expected 4 commands counted, got %d", got)
	}
}

func TestDynamicAnimatesAndPrunes(t *testing.T) {
	reg := status.NewRegistry()
	w, surf := newTestWorker(t, WithRegistry(reg))
	a := scene.NewUnitID()
	w.Apply(Insert{ID: a, Drawable: scene.NewDynamic(scene.Foreground, at(0, 0), []string{"1", "2", "3"}, 250*time.Millisecond)})

	t0 := time.Now()
	w.Step(t0)
	if surf.runeAt(0, 0) != '1' {
		t.Fatalf("Expected first frame 1, got %q", surf.runeAt(0, 0))
	}
	if !w.Step(t0.Add(300 * time.Millisecond)) {
		t.Fatal("Expected animation to trigger a frame")
	}
	if surf.runeAt(0, 0) != '2' {
		t.Errorf("Expected frame 2, got %q", surf.runeAt(0, 0))
	}
	if w.Step(t0.Add(350 * time.Millisecond)) {
		t.Error("Expected no frame inside the interval")
	}

	w.Apply(Remove{ID: a})
	w.Step(t0.Add(time.Second))
	if got := reg.Counter(MetricPruned); got != 1 {
		t.Errorf("Expected 1 pruned observer, got %d", got)
	}
	if w.Layers().Animations().Len() != 0 {
		t.Error("Expected animation list empty")
	}
}

func TestUpdateDoesNotAnimate(t *testing.T) {
	w, surf := newTestWorker(t)
	a := scene.NewUnitID()
	w.Apply(Insert{ID: a, Drawable: scene.NewStatic(scene.Foreground, at(0, 0), "s")})
	w.Apply(Update{ID: a, Drawable: scene.NewDynamic(scene.Foreground, at(0, 0), []string{"a", "b"}, time.Millisecond)})

	t0 := time.Now()
	w.Step(t0)
	if surf.runeAt(0, 0) != 'a' {
		t.Fatalf("Expected updated payload painted, got %q", surf.runeAt(0, 0))
	}
	if w.Step(t0.Add(time.Second)) {
		t.Error("Expected updated dynamic payload not to tick")
	}
}

func TestLayerPaintOrder(t *testing.T) {
	w, surf := newTestWorker(t)
	bg, fg := scene.NewUnitID(), scene.NewUnitID()
	w.Apply(Insert{ID: fg, Drawable: scene.NewStatic(scene.Foreground, at(2, 2), "F")})
	w.Apply(Insert{ID: bg, Drawable: scene.NewStatic(scene.Background, at(2, 2), "B")})
	w.Step(time.Now())
	if surf.runeAt(2, 2) != 'F' {
		t.Errorf("Expected foreground over background, got %q", surf.runeAt(2, 2))
	}

	w.Apply(MoveLayer{ID: bg, Layer: scene.UI})
	w.Step(time.Now())
	if surf.runeAt(2, 2) != 'B' {
		t.Errorf("Expected unit moved to ui on top, got %q", surf.runeAt(2, 2))
	}
	if layer, _, _ := bg.Get(); layer != scene.UI {
		t.Errorf("Expected handle rewritten to ui, got %s", layer)
	}
}

func TestColorsFallBackToDefaults(t *testing.T) {
	red := terminal.NewColor(terminal.RGB{R: 255})
	blue := terminal.NewColor(terminal.RGB{B: 255})
	w, surf := newTestWorker(t)

	w.Apply(SetForeground{Color: red})
	w.Apply(SetBackground{Color: blue})
	w.Apply(Insert{ID: scene.NewUnitID(), Drawable: scene.NewStatic(scene.UI, at(0, 0), "a")})
	own := terminal.NewColor(terminal.RGB{G: 255})
	w.Apply(Insert{ID: scene.NewUnitID(), Drawable: scene.NewStatic(scene.UI, at(1, 0), "b").WithColors(own, terminal.ColorDefault)})
	w.Step(time.Now())

	if c := surf.last[0]; c.Fg != red || c.Bg != blue {
		t.Errorf("Expected fallback colors, got fg=%s bg=%s", c.Fg, c.Bg)
	}
	if c := surf.last[1]; c.Fg != own || c.Bg != blue {
		t.Errorf("Expected own fg with fallback bg, got fg=%s bg=%s", c.Fg, c.Bg)
	}
	if c := surf.last[50]; c.Bg != blue {
		t.Errorf("Expected canvas filled with background, got %s", c.Bg)
	}
}

func TestCameraCommands(t *testing.T) {
	w, surf := newTestWorker(t)
	w.Apply(Insert{ID: scene.NewUnitID(), Drawable: scene.NewStatic(scene.Foreground, at(12, 3), "@")})
	w.Step(time.Now())
	for _, c := range surf.last {
		if c.Rune == '@' {
			t.Fatal("Expected glyph outside the viewport to be culled")
		}
	}

	w.Apply(CameraShift{Delta: at(5, 0)})
	w.Step(time.Now())
	if surf.runeAt(7, 3) != '@' {
		t.Errorf("Expected glyph at (7,3) after shift, got %q", surf.runeAt(7, 3))
	}

	w.Apply(CameraSet{Pos: at(0, 0)})
	w.Apply(CameraResize{Width: 20, Height: 10, Depth: 1})
	if w.Camera().Width != 20 {
		t.Errorf("Expected width 20, got %d", w.Camera().Width)
	}
	w.Apply(CameraShrink{Width: 25})
	w.Apply(CameraGrow{Height: 2})
	if w.Camera().Width != 0 || w.Camera().Height != 12 {
		t.Errorf("Expected 0x12, got %dx%d", w.Camera().Width, w.Camera().Height)
	}
}

func TestViewportClipsPartialDrawables(t *testing.T) {
	surf := &recordSurface{width: 20, height: 5}
	w := NewWorker(surf, WithCamera(10, 5, 1))
	w.Apply(Insert{ID: scene.NewUnitID(), Drawable: scene.NewStatic(scene.Foreground, at(8, 0), "abcdef")})
	w.Apply(Insert{ID: scene.NewUnitID(), Drawable: scene.NewStatic(scene.Foreground, at(12, 1), "Z")})
	w.Step(time.Now())

	if surf.runeAt(8, 0) != 'a' || surf.runeAt(9, 0) != 'b' {
		t.Errorf("Expected \"ab\" inside the viewport, got %q%q", surf.runeAt(8, 0), surf.runeAt(9, 0))
	}
	for x := 10; x < 20; x++ {
		if r := surf.runeAt(x, 0); r != ' ' {
			t.Errorf("Expected blank past the viewport at %d, got %q", x, r)
		}
	}
	if r := surf.runeAt(12, 1); r != ' ' {
		t.Errorf("Expected culled glyph absent, got %q", r)
	}
}

func TestClearCommand(t *testing.T) {
	w, surf := newTestWorker(t)
	ids := []*scene.UnitID{scene.NewUnitID(), scene.NewUnitID()}
	w.Apply(Insert{ID: ids[0], Drawable: scene.NewStatic(scene.Background, at(0, 0), "a")})
	w.Apply(Insert{ID: ids[1], Drawable: scene.NewDynamic(scene.UI, at(1, 0), []string{"b"}, time.Second)})
	w.Apply(Clear{})
	w.Step(time.Now())

	if w.Layers().Total() != 0 {
		t.Errorf("Expected empty layers, got %d", w.Layers().Total())
	}
	if surf.runeAt(0, 0) != ' ' || surf.runeAt(1, 0) != ' ' {
		t.Error("Expected blank frame after clear")
	}
}

func TestTerminalResizedForwardsEvent(t *testing.T) {
	events := make(chan terminal.Event, 1)
	reg := status.NewRegistry()
	w, surf := newTestWorker(t, WithEvents(events), WithRegistry(reg))

	w.Apply(TerminalResized{Width: 30, Height: 5})
	select {
	case ev := <-events:
		if ev.Type != terminal.EventResize || ev.Width != 30 || ev.Height != 5 {
			t.Errorf("Expected resize 30x5, got %+v", ev)
		}
	default:
		t.Fatal("Expected resize event forwarded")
	}
	if width, height := w.Frame().Size(); width != 30 || height != 5 {
		t.Errorf("Expected frame 30x5, got %dx%d", width, height)
	}
	if surf.resizes != 1 {
		t.Errorf("Expected surface resized once, got %d", surf.resizes)
	}

	// Full channel: dropped, not blocking
	w.Apply(TerminalResized{Width: 31, Height: 5})
	w.Apply(TerminalResized{Width: 32, Height: 5})
	if got := reg.Counter(MetricEventsDropped); got != 1 {
		t.Errorf("Expected 1 dropped event, got %d", got)
	}
}

func TestPresentErrorCounted(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	reg := status.NewRegistry()
	w, surf := newTestWorker(t, WithLogger(zap.New(core)), WithRegistry(reg))
	surf.err = errors.New("broken pipe")

	w.Step(time.Now())
	w.Apply(Redraw{})
	w.Step(time.Now())

	if got := reg.Counter(MetricPresentErrors); got != 2 {
		t.Errorf("Expected 2 present errors, got %d", got)
	}
	if logs.FilterMessage("present failed").Len() != 2 {
		t.Error("Expected present failures logged")
	}
	if reg.Counter(MetricFrames) != 0 {
		t.Error("Expected no frames counted on failure")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, surf := newTestWorker(t, WithFrameInterval(2*time.Millisecond))
	ctx := lifecycle.New()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	s := w.Sender(ctx)
	s.Send(Insert{ID: scene.NewUnitID(), Drawable: scene.NewStatic(scene.UI, at(0, 0), "r")})
	time.Sleep(30 * time.Millisecond)
	ctx.Cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil from Run, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected Run to return after cancel")
	}
	if surf.presents == 0 || surf.runeAt(0, 0) != 'r' {
		t.Error("Expected worker to have painted the inserted glyph")
	}
}

func TestEndToEndStreamSurface(t *testing.T) {
	var out bytes.Buffer
	surf := terminal.NewStreamSurface(&out, terminal.ColorModeTrueColor, 10, 10)
	w := NewWorker(surf)
	id := scene.NewUnitID()

	w.Apply(Insert{ID: id, Drawable: scene.NewStatic(scene.Foreground, at(1, 1), "@")})
	w.Step(time.Now())
	// Row 2 starts at column 1; the glyph is the second cell
	if !strings.Contains(out.String(), "\x1b[2;1H @") {
		t.Errorf("Expected @ at terminal cell (2,2), got %q", out.String())
	}

	out.Reset()
	w.Apply(Remove{ID: id})
	w.Step(time.Now())
	if strings.Contains(out.String(), "@") {
		t.Error("Expected repaint without the removed glyph")
	}
	if !strings.Contains(out.String(), "\x1b[2;1H          ") {
		t.Error("Expected row 2 repainted blank")
	}
}

func TestEndToEndScreenSurface(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(10, 10)

	surf := terminal.NewScreenSurface(screen)
	w := NewWorker(surf)
	id := scene.NewUnitID()

	w.Apply(Insert{ID: id, Drawable: scene.NewStatic(scene.Foreground, at(1, 1), "@")})
	w.Step(time.Now())
	if r, _, _, _ := screen.GetContent(1, 1); r != '@' {
		t.Errorf("Expected @ at (1,1), got %q", r)
	}

	w.Apply(Remove{ID: id})
	w.Step(time.Now())
	if r, _, _, _ := screen.GetContent(1, 1); r != ' ' {
		t.Errorf("Expected blank at (1,1), got %q", r)
	}
}
