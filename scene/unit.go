package scene

// Unit is one slot's content: the shared identity handle plus the current payload
// Layer sets own units strongly; the animation list only observes them
type Unit struct {
	id       *UnitID
	drawable *Drawable
	detached bool
}

func (u *Unit) ID() *UnitID {
	return u.id
}

func (u *Unit) Drawable() *Drawable {
	return u.drawable
}

// Detached reports whether the unit has been removed from its layer
func (u *Unit) Detached() bool {
	return u.detached
}
