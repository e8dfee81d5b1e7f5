package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/layerterm/lifecycle"
	"github.com/lixenwraith/layerterm/render"
	"github.com/lixenwraith/layerterm/terminal"
)

const pollInterval = 20 * time.Millisecond

// keyAction maps a key event to a demo action
func keyAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return actQuit
	case tcell.KeyLeft:
		return actCameraLeft
	case tcell.KeyRight:
		return actCameraRight
	case tcell.KeyUp:
		return actCameraUp
	case tcell.KeyDown:
		return actCameraDown
	case tcell.KeyRune:
	default:
		return actNone
	}

	switch ev.Rune() {
	case 'q':
		return actQuit
	case 'h':
		return actMoveLeft
	case 'l':
		return actMoveRight
	case 't':
		return actToggleLayer
	case 'j':
		return actMoveDown
	case 'k':
		return actMoveUp
	case '+', '=':
		return actZoomIn
	case '-', '_':
		return actZoomOut
	case 'c':
		return actClear
	case 'r':
		return actRepopulate
	case 'm':
		return actMute
	}
	return actNone
}

// pumpInput feeds tcell events into the demo until ctx dies or the user quits
// Quitting cancels ctx so every other subsystem winds down
func pumpInput(ctx lifecycle.Context, screen tcell.Screen, d *demo, logger *zap.Logger) error {
	events := make(chan tcell.Event, 16)
	quit := ctx.Done(pollInterval)
	go screen.ChannelEvents(events, quit)

	for {
		select {
		case <-quit:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !d.apply(keyAction(ev)) {
					logger.Info("quit requested")
					ctx.Cancel()
					return nil
				}
			case *tcell.EventResize:
				w, h := ev.Size()
				d.send.Send(render.TerminalResized{Width: w, Height: h})
			}
		}
	}
}

// watchResize forwards SIGWINCH sizes when no tcell screen owns the terminal
func watchResize(ctx lifecycle.Context, fd int, d *demo) error {
	for ev := range terminal.WatchResize(fd, ctx.Done(pollInterval)) {
		d.send.Send(render.TerminalResized{Width: ev.Width, Height: ev.Height})
	}
	return nil
}

// followWorker reacts to worker events and keeps the status line current
func followWorker(ctx lifecycle.Context, events <-chan terminal.Event, d *demo, logger *zap.Logger) error {
	ticker := time.NewTicker(statusEvery)
	defer ticker.Stop()

	done := ctx.Done(pollInterval)
	for {
		select {
		case <-done:
			return nil
		case ev := <-events:
			if ev.Type == terminal.EventResize {
				logger.Debug("viewport resized", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
				d.resized(ev.Width, ev.Height)
			}
		case <-ticker.C:
			d.refreshStatus()
		}
	}
}
