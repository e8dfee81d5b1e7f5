//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// WatchResize reports the size of the terminal on fd after each SIGWINCH until stop closes
// Only the latest size is buffered; the channel is closed when watching ends
func WatchResize(fd int, stop <-chan struct{}) <-chan Event {
	out := make(chan Event, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)

	go func() {
		defer close(out)
		defer signal.Stop(sig)
		for {
			select {
			case <-stop:
				return
			case <-sig:
				w, h, ok := WindowSize(fd)
				if !ok {
					continue
				}
				offerLatest(out, NewResizeEvent(w, h))
			}
		}
	}()
	return out
}

// WindowSize queries fd with TIOCGWINSZ; ok is false when fd is not a terminal
func WindowSize(fd int) (width, height int, ok bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 0, 0, false
	}
	return int(ws.Col), int(ws.Row), true
}

// offerLatest sends ev, evicting a pending stale event if the buffer is full
func offerLatest(ch chan Event, ev Event) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
