package audio

// Config holds player settings
type Config struct {
	SampleRate   int
	MasterVolume float64 // 0.0-1.0
	CueVolumes   map[Cue]float64
}

// DefaultConfig returns stock levels at 44.1kHz
func DefaultConfig() Config {
	return Config{
		SampleRate:   44100,
		MasterVolume: 0.5,
		CueVolumes: map[Cue]float64{
			CueInsert: 0.6,
			CueRemove: 0.5,
			CueLayer:  0.5,
			CueCamera: 0.3,
			CueAlert:  0.8,
		},
	}
}

// volume returns the effective gain for a cue
func (c Config) volume(cue Cue) float64 {
	v := c.MasterVolume
	if cv, ok := c.CueVolumes[cue]; ok {
		v *= cv
	}
	return min(max(v, 0), 1)
}
