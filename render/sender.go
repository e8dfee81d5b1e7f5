package render

import (
	"time"

	"github.com/lixenwraith/layerterm/lifecycle"
)

// Sender delivers commands to a worker from any goroutine
// Sends block while the queue is full and give up once the context dies
type Sender struct {
	ch   chan<- Command
	ctx  lifecycle.Context
	poll time.Duration
}

// Send queues cmd, reporting false if the context died before it was accepted
func (s *Sender) Send(cmd Command) bool {
	if !s.ctx.IsAlive() {
		return false
	}
	select {
	case s.ch <- cmd:
		return true
	default:
	}

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case s.ch <- cmd:
			return true
		case <-ticker.C:
			if !s.ctx.IsAlive() {
				return false
			}
		}
	}
}

// TrySend queues cmd only if there is room right now
func (s *Sender) TrySend(cmd Command) bool {
	if !s.ctx.IsAlive() {
		return false
	}
	select {
	case s.ch <- cmd:
		return true
	default:
		return false
	}
}
