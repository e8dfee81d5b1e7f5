package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lixenwraith/layerterm/audio"
	"github.com/lixenwraith/layerterm/render"
	"github.com/lixenwraith/layerterm/scene"
	"github.com/lixenwraith/layerterm/status"
	"github.com/lixenwraith/layerterm/terminal"
	"github.com/lixenwraith/layerterm/vmath"
)

// action is a user intent decoded from input
type action int

const (
	actNone action = iota
	actQuit
	actCameraLeft
	actCameraRight
	actCameraUp
	actCameraDown
	actZoomIn
	actZoomOut
	actMoveLeft
	actMoveRight
	actMoveUp
	actMoveDown
	actToggleLayer
	actClear
	actRepopulate
	actMute
)

const (
	starCount   = 40
	helpText    = "arrows camera  hjkl move  t layer  +/- zoom  c clear  r reset  m mute  q quit"
	statusEvery = 250 * time.Millisecond
)

var (
	colorStar   = terminal.NewColor(terminal.RGB{R: 90, G: 90, B: 120})
	colorSpin   = terminal.NewColor(terminal.RGB{R: 0, G: 200, B: 200})
	colorWave   = terminal.NewColor(terminal.RGB{R: 60, G: 120, B: 255})
	colorHero   = terminal.NewColor(terminal.RGB{R: 255, G: 215, B: 0})
	colorUIFg   = terminal.NewColor(terminal.RGB{R: 20, G: 20, B: 20})
	colorUIBg   = terminal.NewColor(terminal.RGB{R: 180, G: 180, B: 180})
	spinFrames  = []string{"|", "/", "-", "\\"}
	waveFrames  = []string{"~≈~≈~", "≈~≈~≈"}
	pulseFrames = []string{"( )", "(o)", "(O)", "(o)"}
)

// demo turns actions into render commands; all scene state lives in the worker
// It tracks only what it needs to aim relative commands: ids, camera origin and screen size
type demo struct {
	send     *render.Sender
	player   *audio.Player
	registry *status.Registry
	rng      *rand.Rand

	mu      sync.Mutex
	origin  vmath.Point3
	width   int
	height  int
	hero    *scene.UnitID
	heroUp  bool // hero currently on the UI layer
	heroSet bool
	help    *scene.UnitID
	status  *scene.UnitID
	statusY int
}

func newDemo(send *render.Sender, player *audio.Player, registry *status.Registry, width, height int) *demo {
	return &demo{
		send:     send,
		player:   player,
		registry: registry,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		width:    width,
		height:   height,
		statusY:  max(height-1, 0),
	}
}

func (d *demo) cue(c audio.Cue) {
	if d.player != nil {
		d.player.Play(c)
	}
}

// populate inserts the demo scene as one batch
func (d *demo) populate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	var batch render.Batch
	w, h := max(d.width, 1), max(d.height, 3)
	for i := 0; i < starCount; i++ {
		pos := vmath.Point3{X: d.origin.X + d.rng.Intn(w), Y: d.origin.Y + 1 + d.rng.Intn(h-2)}
		glyph := "."
		if d.rng.Intn(5) == 0 {
			glyph = "*"
		}
		batch = append(batch, render.Insert{
			ID:       scene.NewUnitID(),
			Drawable: scene.NewStatic(scene.Background, pos, glyph).WithColors(colorStar, terminal.ColorDefault),
		})
	}

	for i := 0; i < 3; i++ {
		pos := vmath.Point3{X: d.origin.X + (i+1)*w/4, Y: d.origin.Y + h/3}
		batch = append(batch, render.Insert{
			ID:       scene.NewUnitID(),
			Drawable: scene.NewDynamic(scene.Middleground, pos, spinFrames, time.Duration(100*(i+1))*time.Millisecond).WithColors(colorSpin, terminal.ColorDefault),
		})
	}
	batch = append(batch,
		render.Insert{
			ID:       scene.NewUnitID(),
			Drawable: scene.NewDynamic(scene.Middleground, vmath.Point3{X: d.origin.X + w/2 - 2, Y: d.origin.Y + 2*h/3}, waveFrames, 400*time.Millisecond).WithColors(colorWave, terminal.ColorDefault),
		},
		render.Insert{
			ID:       scene.NewUnitID(),
			Drawable: scene.NewDynamic(scene.Foreground, vmath.Point3{X: d.origin.X + w/4, Y: d.origin.Y + 2*h/3}, pulseFrames, 200*time.Millisecond),
		},
	)

	d.hero = scene.NewUnitID()
	d.heroUp = false
	d.heroSet = true
	batch = append(batch, render.Insert{
		ID:       d.hero,
		Drawable: scene.NewStatic(scene.Foreground, vmath.Point3{X: d.origin.X + w/2, Y: d.origin.Y + h/2}, "@").WithColors(colorHero, terminal.ColorDefault).WithAttrs(terminal.AttrBold),
	})

	d.send.Send(batch)
	d.cue(audio.CueInsert)
}

func (d *demo) helpDrawable() *scene.Drawable {
	return scene.NewStatic(scene.UI, d.origin, helpText).WithColors(colorUIFg, colorUIBg)
}

func (d *demo) statusDrawable(text string) *scene.Drawable {
	pos := vmath.Point3{X: d.origin.X, Y: d.origin.Y + d.statusY, Z: d.origin.Z}
	return scene.NewStatic(scene.UI, pos, text).WithColors(colorUIFg, colorUIBg)
}

// shiftCamera pans the camera and drags the UI overlay along so it stays on screen
// Sent as a Sequence so the overlay never lags the camera by a frame
func (d *demo) shiftCamera(delta vmath.Point3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.origin = vmath.P3Add(d.origin, delta)
	d.send.Send(render.Sequence{
		render.CameraShift{Delta: delta},
		render.Move{ID: d.help, Delta: delta},
		render.Move{ID: d.status, Delta: delta},
	})
	d.cue(audio.CueCamera)
}

func (d *demo) moveHero(delta vmath.Point3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.heroSet {
		return
	}
	d.send.Send(render.Move{ID: d.hero, Delta: delta})
}

func (d *demo) toggleHeroLayer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.heroSet {
		return
	}
	dst := scene.UI
	if d.heroUp {
		dst = scene.Foreground
	}
	d.heroUp = !d.heroUp
	d.send.Send(render.MoveLayer{ID: d.hero, Layer: dst})
	d.cue(audio.CueLayer)
}

// apply performs an action; returns false for actQuit
func (d *demo) apply(a action) bool {
	switch a {
	case actQuit:
		return false
	case actCameraLeft:
		d.shiftCamera(vmath.Point3{X: -1})
	case actCameraRight:
		d.shiftCamera(vmath.Point3{X: 1})
	case actCameraUp:
		d.shiftCamera(vmath.Point3{Y: -1})
	case actCameraDown:
		d.shiftCamera(vmath.Point3{Y: 1})
	case actZoomIn:
		d.send.Send(render.CameraShrink{Width: 2, Height: 1})
		d.cue(audio.CueCamera)
	case actZoomOut:
		d.send.Send(render.CameraGrow{Width: 2, Height: 1})
		d.cue(audio.CueCamera)
	case actMoveLeft:
		d.moveHero(vmath.Point3{X: -1})
	case actMoveRight:
		d.moveHero(vmath.Point3{X: 1})
	case actMoveUp:
		d.moveHero(vmath.Point3{Y: -1})
	case actMoveDown:
		d.moveHero(vmath.Point3{Y: 1})
	case actToggleLayer:
		d.toggleHeroLayer()
	case actClear:
		d.clear()
		d.cue(audio.CueRemove)
	case actRepopulate:
		d.reset()
	case actMute:
		if d.player != nil {
			d.player.ToggleMute()
		}
	}
	return true
}

// reset replaces whatever is on screen with a fresh scene and overlay
func (d *demo) reset() {
	d.clear()
	d.populate()
}

// clear empties the scene, keeping the UI overlay
func (d *demo) clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.heroSet = false
	d.help = scene.NewUnitID()
	d.status = scene.NewUnitID()
	d.send.Send(render.Sequence{
		render.Clear{},
		render.Insert{ID: d.help, Drawable: d.helpDrawable()},
		render.Insert{ID: d.status, Drawable: d.statusDrawable(d.summary())},
	})
}

// resized adopts a new terminal size: camera follows and the status line moves to the bottom row
func (d *demo) resized(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
	d.statusY = max(height-1, 0)
	d.send.Send(render.Sequence{
		render.CameraResize{Width: width, Height: height, Depth: 1},
		render.Update{ID: d.status, Drawable: d.statusDrawable(d.summary())},
	})
}

func (d *demo) summary() string {
	s := d.registry.Summary(
		render.MetricFrames,
		render.MetricCommands,
		render.MetricUnits,
		render.MetricPruned,
		render.MetricUnresolved,
		render.MetricFrameTime,
		audio.MetricPlayed,
	)
	if d.player != nil && d.player.Muted() {
		s += " muted"
	}
	return s
}

// refreshStatus rewrites the status line from current metrics
func (d *demo) refreshStatus() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == nil {
		return
	}
	d.send.TrySend(render.Update{ID: d.status, Drawable: d.statusDrawable(d.summary())})
}
