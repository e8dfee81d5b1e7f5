package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// waveform maps a phase in [0, 1) to a sample in [-1, 1]
type waveform func(phase float64) float64

var (
	waveSine waveform = func(p float64) float64 { return math.Sin(2 * math.Pi * p) }
	waveSaw  waveform = func(p float64) float64 { return 2*p - 1 }

	waveSquare waveform = func(p float64) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	}

	waveNoise waveform = func(float64) float64 { return rand.Float64()*2 - 1 }
)

// partial is one enveloped tone inside a cue
// A nil wave selects the stock sine generator
type partial struct {
	freq    float64
	length  time.Duration
	attack  time.Duration
	release time.Duration
	wave    waveform
	gain    float64 // 0 is unity
}

// recipe lists a cue's partials, played back to back or layered
type recipe struct {
	parts   []partial
	layered bool
}

const attackTime = 5 * time.Millisecond

var recipes = [cueCount]recipe{
	// Rising two-note blip
	CueInsert: {parts: []partial{
		{freq: 660, length: 40 * time.Millisecond, attack: attackTime, release: 20 * time.Millisecond, wave: waveSquare},
		{freq: 990, length: 60 * time.Millisecond, attack: attackTime, release: 40 * time.Millisecond, wave: waveSquare},
	}},
	// Falling two-note blip
	CueRemove: {parts: []partial{
		{freq: 990, length: 40 * time.Millisecond, attack: attackTime, release: 20 * time.Millisecond, wave: waveSquare},
		{freq: 495, length: 60 * time.Millisecond, attack: attackTime, release: 40 * time.Millisecond, wave: waveSaw},
	}},
	// Bell: fundamental plus octave
	CueLayer: {layered: true, parts: []partial{
		{freq: 880, length: 180 * time.Millisecond, attack: attackTime, release: 150 * time.Millisecond, wave: waveSine, gain: 0.7},
		{freq: 1760, length: 180 * time.Millisecond, attack: attackTime, release: 80 * time.Millisecond, wave: waveSine, gain: 0.3},
	}},
	// Short noise whoosh
	CueCamera: {parts: []partial{
		{length: 90 * time.Millisecond, attack: 30 * time.Millisecond, release: 50 * time.Millisecond, wave: waveNoise},
	}},
	CueAlert: {parts: []partial{
		{freq: 440, length: 150 * time.Millisecond, attack: attackTime, release: 30 * time.Millisecond},
	}},
}

// oscillate emits n samples of wave at freq
func oscillate(freq float64, n int, wave waveform, rate beep.SampleRate) beep.Streamer {
	var phase float64
	step := freq / float64(rate)
	return beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := wave(phase)
			samples[i] = [2]float64{v, v}
			phase += step
			phase -= math.Floor(phase)
		}
		return len(samples), true
	}))
}

// ramp applies a linear attack and release over exactly n samples
type ramp struct {
	s       beep.Streamer
	pos     int
	n       int
	attack  int
	release int
}

func newRamp(s beep.Streamer, n, attack, release int) *ramp {
	return &ramp{s: s, n: n, attack: attack, release: release}
}

func (r *ramp) gain(pos int) float64 {
	g := 1.0
	if r.attack > 0 && pos < r.attack {
		g = float64(pos) / float64(r.attack)
	}
	if tail := r.n - pos; r.release > 0 && tail <= r.release {
		g = math.Min(g, float64(tail)/float64(r.release))
	}
	return g
}

func (r *ramp) Stream(samples [][2]float64) (int, bool) {
	if r.pos >= r.n {
		return 0, false
	}
	if left := r.n - r.pos; len(samples) > left {
		samples = samples[:left]
	}
	n, ok := r.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := r.gain(r.pos)
		samples[i][0] *= g
		samples[i][1] *= g
		r.pos++
	}
	return n, ok
}

func (r *ramp) Err() error { return r.s.Err() }

// newVolume wraps s with a linear gain; zero or less is silent
// math.Log2(0) is -Inf, so silence is explicit
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func (p partial) streamer(rate beep.SampleRate) beep.Streamer {
	n := rate.N(p.length)

	var src beep.Streamer
	if p.wave == nil {
		if sine, err := generators.SineTone(rate, p.freq); err == nil {
			src = beep.Take(n, sine)
		}
	}
	if src == nil {
		wave := p.wave
		if wave == nil {
			wave = waveSine
		}
		src = oscillate(p.freq, n, wave, rate)
	}

	s := beep.Streamer(newRamp(src, n, rate.N(p.attack), rate.N(p.release)))
	if p.gain > 0 {
		s = newVolume(s, p.gain)
	}
	return s
}

// cueStreamer builds the unity-gain streamer for a cue; nil for unknown cues
func cueStreamer(cue Cue, rate beep.SampleRate) beep.Streamer {
	if cue < 0 || cue >= cueCount {
		return nil
	}
	rec := recipes[cue]
	parts := make([]beep.Streamer, len(rec.parts))
	for i, p := range rec.parts {
		parts[i] = p.streamer(rate)
	}
	if rec.layered {
		return beep.Mix(parts...)
	}
	return beep.Seq(parts...)
}

// renderCue drains a cue's streamer into a mono buffer
func renderCue(cue Cue, rate beep.SampleRate) []float64 {
	s := cueStreamer(cue, rate)
	if s == nil {
		return nil
	}

	var out []float64
	var chunk [512][2]float64
	for {
		n, ok := s.Stream(chunk[:])
		for _, frame := range chunk[:n] {
			out = append(out, (frame[0]+frame[1])/2)
		}
		if !ok || n == 0 {
			return out
		}
	}
}
