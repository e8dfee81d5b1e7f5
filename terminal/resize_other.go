//go:build !unix

package terminal

// WatchResize never reports on platforms without SIGWINCH; the channel closes with stop
func WatchResize(fd int, stop <-chan struct{}) <-chan Event {
	out := make(chan Event)
	go func() {
		<-stop
		close(out)
	}()
	return out
}

func WindowSize(fd int) (width, height int, ok bool) {
	return 0, 0, false
}
