package audio

import (
	"sync"

	"github.com/gopxl/beep"
)

// cueCache renders each cue once, on first request
type cueCache struct {
	rate    beep.SampleRate
	entries [cueCount]struct {
		once sync.Once
		buf  []float64
	}
}

func newCueCache(rate beep.SampleRate) *cueCache {
	return &cueCache{rate: rate}
}

func (c *cueCache) get(cue Cue) []float64 {
	if cue < 0 || cue >= cueCount {
		return nil
	}
	e := &c.entries[cue]
	e.once.Do(func() { e.buf = renderCue(cue, c.rate) })
	return e.buf
}
