// Package audio synthesizes short cues for scene events and streams them as raw PCM
// to a system playback tool over a pipe
package audio

import (
	"errors"
	"time"
)

// Cue names a short sound tied to a scene event
type Cue int

const (
	CueInsert Cue = iota // Unit appeared
	CueRemove            // Unit removed
	CueLayer             // Unit changed layer
	CueCamera            // Camera moved or resized
	CueAlert             // Something went wrong
	cueCount
)

var cueNames = [cueCount]string{"insert", "remove", "layer", "camera", "alert"}

func (c Cue) String() string {
	if c >= 0 && c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}

// PCM output format
const (
	Channels      = 2
	BitDepth      = 16
	BytesPerFrame = Channels * (BitDepth / 8)

	// ChunkDuration is the mixer tick and write granularity
	ChunkDuration = 50 * time.Millisecond
)

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
)
