package render

import (
	"github.com/lixenwraith/layerterm/scene"
	"github.com/lixenwraith/layerterm/terminal"
	"github.com/lixenwraith/layerterm/vmath"
)

// Command is a scene mutation consumed once by the worker
// The set is closed: only types in this package implement it
type Command interface {
	command()
}

// Insert stores Drawable in its layer and fills in ID
type Insert struct {
	ID       *scene.UnitID
	Drawable *scene.Drawable
}

// Remove deletes the unit named by ID
type Remove struct {
	ID *scene.UnitID
}

// Move translates a unit's world position
type Move struct {
	ID    *scene.UnitID
	Delta vmath.Point3
}

// MoveLayer transfers a unit to another layer, rewriting ID
type MoveLayer struct {
	ID    *scene.UnitID
	Layer scene.Layer
}

// Update swaps a unit's payload in place
type Update struct {
	ID       *scene.UnitID
	Drawable *scene.Drawable
}

// SetForeground sets the fallback foreground for drawables without one
type SetForeground struct {
	Color terminal.Color
}

// SetBackground sets the canvas color and the fallback background
type SetBackground struct {
	Color terminal.Color
}

// Clear empties every layer
type Clear struct{}

// Redraw forces a repaint
type Redraw struct{}

type CameraShift struct {
	Delta vmath.Point3
}

type CameraSet struct {
	Pos vmath.Point3
}

type CameraResize struct {
	Width, Height, Depth int
}

type CameraGrow struct {
	Width, Height, Depth int
}

type CameraShrink struct {
	Width, Height, Depth int
}

// TerminalResized resizes the canvas and is forwarded as an EventResize
type TerminalResized struct {
	Width, Height int
}

// Batch applies its commands in no particular order
type Batch []Command

// Sequence applies its commands strictly in order
type Sequence []Command

func (Insert) command()          {}
func (Remove) command()          {}
func (Move) command()            {}
func (MoveLayer) command()       {}
func (Update) command()          {}
func (SetForeground) command()   {}
func (SetBackground) command()   {}
func (Clear) command()           {}
func (Redraw) command()          {}
func (CameraShift) command()     {}
func (CameraSet) command()       {}
func (CameraResize) command()    {}
func (CameraGrow) command()      {}
func (CameraShrink) command()    {}
func (TerminalResized) command() {}
func (Batch) command()           {}
func (Sequence) command()        {}
