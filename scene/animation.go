package scene

import (
	"time"
	"weak"
)

// AnimationList observes dynamic units without owning them
// An observer is stale once its unit is detached or collected; Prune drops stale ones
type AnimationList struct {
	refs []weak.Pointer[Unit]
}

// Register adds an observer for u
func (a *AnimationList) Register(u *Unit) {
	a.refs = append(a.refs, weak.Make(u))
}

// Prune drops stale observers in place and returns how many were removed
func (a *AnimationList) Prune() int {
	kept := a.refs[:0]
	for _, ref := range a.refs {
		if u := ref.Value(); u != nil && !u.detached {
			kept = append(kept, ref)
		}
	}
	pruned := len(a.refs) - len(kept)
	clear(a.refs[len(kept):])
	a.refs = kept
	return pruned
}

// Tick advances every live observed drawable; returns true if any visible text changed
func (a *AnimationList) Tick(now time.Time) bool {
	changed := false
	for _, ref := range a.refs {
		u := ref.Value()
		if u == nil || u.detached {
			continue
		}
		if u.drawable.Update(now) {
			changed = true
		}
	}
	return changed
}

// Len returns the number of observers, stale ones included
func (a *AnimationList) Len() int {
	return len(a.refs)
}

// Clear drops every observer
func (a *AnimationList) Clear() {
	clear(a.refs)
	a.refs = a.refs[:0]
}
