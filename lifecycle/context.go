// Package lifecycle provides a hierarchical, cooperative cancellation token shared
// across the render worker, input pump and audio goroutines.
//
// A Context is a handle to a node. Handles may be copied freely; every copy aliases the
// same node. A child references its parent weakly, so a child never keeps its parent
// alive: once the last handle to a parent is dropped and collected, every descendant
// reports dead on its next poll.
//
// Cancellation is advisory. Nothing is interrupted; goroutines observe it by calling
// IsAlive inside their own loops.
package lifecycle

import (
	"context"
	"sync/atomic"
	"time"
	"weak"
)

// epoch anchors node timestamps to the monotonic clock
var epoch = time.Now()

func monoNow() int64 {
	return int64(time.Since(epoch))
}

// node is the shared state behind one logical Context
type node struct {
	alive  atomic.Bool
	start  atomic.Int64 // monotonic ns since epoch, restarted by Reset
	ttl    time.Duration
	parent weak.Pointer[node]
	rooted bool // true if the node was created without a parent
}

// Context is a copyable handle to a cancellation node. The zero value is dead
type Context struct {
	n *node
}

func newNode(ttl time.Duration, parent *node) *node {
	n := &node{ttl: ttl}
	n.alive.Store(true)
	n.start.Store(monoNow())
	if parent == nil {
		n.rooted = true
	} else {
		n.parent = weak.Make(parent)
	}
	return n
}

// New creates a root context without expiry
func New() Context {
	return Context{n: newNode(0, nil)}
}

// NewWithTTL creates a root context that dies once ttl has elapsed
// A non-positive ttl means no expiry
func NewWithTTL(ttl time.Duration) Context {
	if ttl < 0 {
		ttl = 0
	}
	return Context{n: newNode(ttl, nil)}
}

// Child creates a descendant without its own expiry
func (c Context) Child() Context {
	return c.derive(0)
}

// WithDuration creates a descendant that additionally dies once d has elapsed
func (c Context) WithDuration(d time.Duration) Context {
	if d < 0 {
		d = 0
	}
	return c.derive(d)
}

// derive links a new node under c; children of a zero handle are born dead
func (c Context) derive(ttl time.Duration) Context {
	if c.n == nil {
		n := newNode(ttl, nil)
		n.alive.Store(false)
		return Context{n: n}
	}
	return Context{n: newNode(ttl, c.n)}
}

// expired reports whether the node's own TTL window has closed
func (n *node) expired(now int64) bool {
	if n.ttl == 0 {
		return false
	}
	return time.Duration(now-n.start.Load()) >= n.ttl
}

// IsAlive walks up the chain: dead if any node is cancelled, expired or unreachable
func (c Context) IsAlive() bool {
	if c.n == nil {
		return false
	}
	now := monoNow()
	for n := c.n; n != nil; {
		if !n.alive.Load() || n.expired(now) {
			return false
		}
		if n.rooted {
			return true
		}
		p := n.parent.Value()
		if p == nil {
			return false
		}
		n = p
	}
	return false
}

// Cancel marks this node dead. Descendants notice on their next IsAlive
func (c Context) Cancel() {
	if c.n == nil {
		return
	}
	c.n.alive.Store(false)
}

// Reset restarts the TTL window. A cancelled node stays cancelled
// Fails if the parent chain is already dead
func (c Context) Reset() error {
	if c.n == nil {
		return &ContextError{Op: "reset", Err: ErrNilContext}
	}
	if !c.n.rooted {
		p := c.n.parent.Value()
		if p == nil || !(Context{n: p}).IsAlive() {
			return &ContextError{Op: "reset", Err: ErrParentDead}
		}
	}
	c.n.start.Store(monoNow())
	return nil
}

// Remaining returns the TTL budget left on this node; ok is false for nodes without TTL
func (c Context) Remaining() (left time.Duration, ok bool) {
	if c.n == nil || c.n.ttl == 0 {
		return 0, false
	}
	left = c.n.ttl - time.Duration(monoNow()-c.n.start.Load())
	if left < 0 {
		left = 0
	}
	return left, true
}

// Done returns a channel closed once a poller observes the context dead
// The poller holds the node weakly: a node whose handles are all dropped counts as dead
func (c Context) Done(poll time.Duration) <-chan struct{} {
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	ref := weak.Make(c.n)
	alive := func() bool {
		n := ref.Value()
		return n != nil && (Context{n: n}).IsAlive()
	}

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		for alive() {
			<-ticker.C
		}
	}()
	return ch
}

// Std adapts the context to a context.Context cancelled when Done fires
func (c Context) Std(poll time.Duration) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	done := c.Done(poll)
	go func() {
		<-done
		cancel()
	}()
	return ctx
}
