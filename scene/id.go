package scene

import (
	"fmt"
	"sync/atomic"
)

const (
	idAssigned  = uint64(1) << 63
	idLayerBits = 40
	idIndexMask = uint64(1)<<idLayerBits - 1
)

// UnitID is a shared identity handle: the producer keeps it for later commands while
// the worker fills it in on Insert and rewrites it on MoveLayer
// Only the render worker writes it; other goroutines may read it at any time
type UnitID struct {
	v atomic.Uint64
}

// NewUnitID returns an unassigned handle to pass with an Insert command
func NewUnitID() *UnitID {
	return &UnitID{}
}

// Get returns the current layer and slot index; ok is false while unassigned
func (id *UnitID) Get() (layer Layer, index int, ok bool) {
	if id == nil {
		return 0, 0, false
	}
	v := id.v.Load()
	if v&idAssigned == 0 {
		return 0, 0, false
	}
	return Layer((v &^ idAssigned) >> idLayerBits), int(v & idIndexMask), true
}

// Assigned reports whether the handle currently names a slot
func (id *UnitID) Assigned() bool {
	_, _, ok := id.Get()
	return ok
}

func (id *UnitID) set(layer Layer, index int) {
	id.v.Store(idAssigned | uint64(layer)<<idLayerBits | uint64(index)&idIndexMask)
}

func (id *UnitID) clear() {
	id.v.Store(0)
}

func (id *UnitID) String() string {
	layer, index, ok := id.Get()
	if !ok {
		return "unassigned"
	}
	return fmt.Sprintf("%s/%d", layer, index)
}
