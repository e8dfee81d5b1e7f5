package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestOscillateLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	want := rate.N(10 * time.Millisecond)
	osc := oscillate(440, want, waveSine, rate)

	total := 0
	samples := make([][2]float64, 128)
	for {
		n, ok := osc.Stream(samples)
		for i := 0; i < n; i++ {
			if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
				t.Fatalf("Sample %d out of range: %f", total+i, samples[i][0])
			}
		}
		total += n
		if !ok || n == 0 {
			break
		}
	}
	if total != want {
		t.Errorf("Expected %d samples, got %d", want, total)
	}
}

func TestWaveforms(t *testing.T) {
	tests := []struct {
		name  string
		wave  waveform
		phase float64
		want  float64
	}{
		{"sine quarter", waveSine, 0.25, 1},
		{"square low half", waveSquare, 0.1, 1},
		{"square high half", waveSquare, 0.6, -1},
		{"saw start", waveSaw, 0, -1},
		{"saw middle", waveSaw, 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wave(tt.phase); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
	for i := 0; i < 100; i++ {
		if v := waveNoise(0); v < -1 || v > 1 {
			t.Fatalf("Expected noise in [-1, 1], got %f", v)
		}
	}
}

// TestRampShape verifies attack starts silent and release ends near silent
func TestRampShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	n := rate.N(100 * time.Millisecond)
	env := newRamp(oscillate(0, n, waveSquare, rate), n, rate.N(10*time.Millisecond), rate.N(10*time.Millisecond))

	samples := make([][2]float64, 200)
	got, _ := env.Stream(samples)
	if got != 100 {
		t.Fatalf("Expected 100 samples, got %d", got)
	}
	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0][0])
	}
	if samples[50][0] != 1.0 {
		t.Errorf("Expected full gain mid-sustain, got %f", samples[50][0])
	}
	if math.Abs(samples[99][0]) > 0.11 {
		t.Errorf("Expected release near silence, got %f", samples[99][0])
	}
	if n, ok := env.Stream(samples); n != 0 || ok {
		t.Errorf("Expected drained ramp, got (%d, %v)", n, ok)
	}
}

// TestNewVolumeSilent verifies zero volume mutes
func TestNewVolumeSilent(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := newVolume(oscillate(0, 10, waveSquare, rate), 0)
	samples := make([][2]float64, 10)
	n, _ := s.Stream(samples)
	for i := 0; i < n; i++ {
		if samples[i][0] != 0 {
			t.Fatalf("Expected silence at %d, got %f", i, samples[i][0])
		}
	}
}

// TestRenderCues verifies every cue renders a bounded, non-silent buffer
func TestRenderCues(t *testing.T) {
	rate := beep.SampleRate(44100)
	for cue := Cue(0); cue < cueCount; cue++ {
		t.Run(cue.String(), func(t *testing.T) {
			buf := renderCue(cue, rate)
			if len(buf) == 0 {
				t.Fatal("Expected samples")
			}
			if len(buf) > rate.N(time.Second) {
				t.Errorf("Expected a short cue, got %d samples", len(buf))
			}
			peak := 0.0
			for _, v := range buf {
				peak = math.Max(peak, math.Abs(v))
			}
			if peak == 0 || peak > 1.0 {
				t.Errorf("Expected peak in (0, 1], got %f", peak)
			}
		})
	}
	if renderCue(cueCount, rate) != nil {
		t.Error("Expected nil for unknown cue")
	}
}

// TestCueCacheReuses verifies the cache returns the same buffer
func TestCueCacheReuses(t *testing.T) {
	c := newCueCache(beep.SampleRate(8000))
	a := c.get(CueInsert)
	b := c.get(CueInsert)
	if len(a) == 0 || &a[0] != &b[0] {
		t.Error("Expected cached buffer reused")
	}
	if c.get(Cue(-1)) != nil {
		t.Error("Expected nil for invalid cue")
	}
}
