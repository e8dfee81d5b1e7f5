// Package scene holds the render worker's world state: four z-ordered layers of units,
// their id allocators, the animation observer list and the camera
// Nothing here is safe for concurrent use; the render worker is the sole mutator
package scene

import (
	"fmt"

	"github.com/lixenwraith/layerterm/sparse"
	"github.com/lixenwraith/layerterm/vmath"
)

type layerStore struct {
	pool  Pool
	units *sparse.Set[*Unit]
}

// Layers is the four-layer unit store with per-layer id pools
type Layers struct {
	layers [LayerCount]layerStore
	anim   AnimationList
}

// NewLayers creates a store with capacity slots preallocated per layer
func NewLayers(capacity int) *Layers {
	l := &Layers{}
	for i := range l.layers {
		l.layers[i].units = sparse.New[*Unit](capacity)
	}
	return l
}

// Animations returns the observer list of dynamic units
func (l *Layers) Animations() *AnimationList {
	return &l.anim
}

// Insert mints an index in the drawable's layer, stores a new unit there and fills in id
// An id that still names a live unit is removed first, so its old slot is not leaked
// Dynamic drawables are registered with the animation list
func (l *Layers) Insert(id *UnitID, d *Drawable) (*Unit, error) {
	if id == nil {
		return nil, ErrNilID
	}
	if d == nil {
		return nil, ErrNilDrawable
	}
	if !d.Layer.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLayer, d.Layer)
	}

	if _, _, _, err := l.resolve(id); err == nil {
		l.Remove(id)
	}

	ls := &l.layers[d.Layer]
	idx := ls.pool.Allocate()
	u := &Unit{id: id, drawable: d}
	if err := ls.units.Insert(idx, u); err != nil {
		ls.pool.Release(idx)
		return nil, err
	}
	id.set(d.Layer, idx)

	if d.IsDynamic() {
		l.anim.Register(u)
	}
	return u, nil
}

// Remove deletes the unit named by id and returns its index to the layer pool
// The handle is cleared and the unit marked detached; its animation observer is left
// for the next prune
func (l *Layers) Remove(id *UnitID) (*Unit, error) {
	u, layer, idx, err := l.resolve(id)
	if err != nil {
		return nil, err
	}
	ls := &l.layers[layer]
	ls.units.Remove(idx)
	ls.pool.Release(idx)
	u.detached = true
	id.clear()
	return u, nil
}

// Lookup returns the unit named by id
func (l *Layers) Lookup(id *UnitID) (*Unit, error) {
	u, _, _, err := l.resolve(id)
	return u, err
}

// Update swaps the unit's payload, keeping its slot and layer
// The new payload is not registered for animation
func (l *Layers) Update(id *UnitID, d *Drawable) error {
	if d == nil {
		return ErrNilDrawable
	}
	u, layer, _, err := l.resolve(id)
	if err != nil {
		return err
	}
	d.Layer = layer
	u.drawable = d
	return nil
}

// Move translates the unit's world position by delta
func (l *Layers) Move(id *UnitID, delta vmath.Point3) error {
	u, _, _, err := l.resolve(id)
	if err != nil {
		return err
	}
	u.drawable.Pos = vmath.P3Add(u.drawable.Pos, delta)
	return nil
}

// MoveLayer transfers the unit to dst under an index minted from dst's own pool
// The source index is released and the shared handle rewritten in place
func (l *Layers) MoveLayer(id *UnitID, dst Layer) error {
	if !dst.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidLayer, dst)
	}
	u, src, idx, err := l.resolve(id)
	if err != nil {
		return err
	}
	if src == dst {
		return nil
	}

	from := &l.layers[src]
	from.units.Remove(idx)
	from.pool.Release(idx)

	to := &l.layers[dst]
	next := to.pool.Allocate()
	if err := to.units.Insert(next, u); err != nil {
		to.pool.Release(next)
		return err
	}
	u.drawable.Layer = dst
	id.set(dst, next)
	return nil
}

// Clear empties every layer, resets the pools and drops all animation observers
func (l *Layers) Clear() {
	for i := range l.layers {
		ls := &l.layers[i]
		ls.units.Each(func(_ int, u *Unit) bool {
			u.detached = true
			u.id.clear()
			return true
		})
		ls.units.Clear()
		ls.pool.Reset()
	}
	l.anim.Clear()
}

// Each visits the units of one layer until fn returns false
func (l *Layers) Each(layer Layer, fn func(u *Unit) bool) {
	if !layer.Valid() {
		return
	}
	l.layers[layer].units.Each(func(_ int, u *Unit) bool {
		return fn(u)
	})
}

// Len returns the number of units in a layer
func (l *Layers) Len(layer Layer) int {
	if !layer.Valid() {
		return 0
	}
	return l.layers[layer].units.Len()
}

// Total returns the number of units across all layers
func (l *Layers) Total() int {
	n := 0
	for i := range l.layers {
		n += l.layers[i].units.Len()
	}
	return n
}

// Pool exposes a layer's allocator for inspection; nil for an invalid layer
func (l *Layers) Pool(layer Layer) *Pool {
	if !layer.Valid() {
		return nil
	}
	return &l.layers[layer].pool
}

// resolve maps a handle to its unit, rejecting stale or foreign handles
func (l *Layers) resolve(id *UnitID) (*Unit, Layer, int, error) {
	if id == nil {
		return nil, 0, 0, ErrNilID
	}
	layer, idx, ok := id.Get()
	if !ok || !layer.Valid() {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	u, ok := l.layers[layer].units.Get(idx)
	if !ok || u.id != id {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	return u, layer, idx, nil
}
