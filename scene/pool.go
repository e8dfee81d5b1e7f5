package scene

// Pool allocates slot indices for one layer: a monotonic counter plus a LIFO free-list
type Pool struct {
	next int
	free []int
}

// Allocate pops a recycled index if one is available, else takes the counter
func (p *Pool) Allocate() int {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return idx
	}
	idx := p.next
	p.next++
	return idx
}

// Release returns an index to the free-list
func (p *Pool) Release(idx int) {
	p.free = append(p.free, idx)
}

// Reset forgets every allocation
func (p *Pool) Reset() {
	p.next = 0
	p.free = p.free[:0]
}

// Issued returns the number of indices ever minted from the counter
func (p *Pool) Issued() int {
	return p.next
}

// Free returns the number of recycled indices waiting for reuse
func (p *Pool) Free() int {
	return len(p.free)
}
