package audio

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"github.com/lixenwraith/layerterm/lifecycle"
	"github.com/lixenwraith/layerterm/status"
)

// Metric names published to the status registry
const (
	MetricPlayed  = "audio.played"
	MetricDropped = "audio.dropped"
)

const queueSize = 32

// voice is one cue instance being mixed
type voice struct {
	buf    []float64
	pos    int
	volume float64
}

type Option func(*Player)

func WithLogger(l *zap.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithRegistry(r *status.Registry) Option {
	return func(p *Player) {
		if r != nil {
			p.registry = r
		}
	}
}

// Player mixes queued cues and writes a PCM chunk to out every ChunkDuration
// Silence is written while idle to keep the pipe fed
type Player struct {
	out   io.Writer
	cfg   Config
	cache *cueCache
	queue chan Cue
	muted atomic.Bool

	// Owned by the Run goroutine
	active []voice
	mix    []float64
	pcm    []byte

	logger   *zap.Logger
	registry *status.Registry
	played   *atomic.Int64
	dropped  *atomic.Int64
}

func NewPlayer(out io.Writer, cfg Config, opts ...Option) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	rate := beep.SampleRate(cfg.SampleRate)
	samples := rate.N(ChunkDuration)

	p := &Player{
		out:    out,
		cfg:    cfg,
		cache:  newCueCache(rate),
		queue:  make(chan Cue, queueSize),
		active: make([]voice, 0, 8),
		mix:    make([]float64, samples),
		pcm:    make([]byte, samples*BytesPerFrame),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = status.NewRegistry()
	}
	p.played = p.registry.Counters.Get(MetricPlayed)
	p.dropped = p.registry.Counters.Get(MetricDropped)
	return p
}

// Play queues a cue without blocking; false if muted or the queue is full
func (p *Player) Play(cue Cue) bool {
	if p.muted.Load() {
		return false
	}
	select {
	case p.queue <- cue:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// ToggleMute flips mute and returns true if sound is now enabled
func (p *Player) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return old
		}
	}
}

func (p *Player) SetMuted(muted bool) {
	p.muted.Store(muted)
}

func (p *Player) Muted() bool {
	return p.muted.Load()
}

// Run mixes and writes until ctx dies or the output fails
func (p *Player) Run(ctx lifecycle.Context) error {
	p.logger.Info("audio player started", zap.Int("sample_rate", p.cfg.SampleRate))
	ticker := time.NewTicker(ChunkDuration)
	defer ticker.Stop()

	// A backend that stops reading would otherwise pin Run inside Write after ctx dies
	if c, ok := p.out.(io.Closer); ok {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done(ChunkDuration):
				c.Close()
			case <-stop:
			}
		}()
	}

	for ctx.IsAlive() {
		<-ticker.C
		if _, err := p.out.Write(p.step()); err != nil {
			if !ctx.IsAlive() {
				break
			}
			p.logger.Warn("audio output failed", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrPipeClosed, err)
		}
	}
	p.logger.Info("audio player stopped", zap.Int64("played", p.played.Load()))
	return nil
}

// step accepts queued cues and renders the next chunk
func (p *Player) step() []byte {
	p.accept()

	clear(p.mix)
	remaining := p.active[:0]
	for i := range p.active {
		v := &p.active[i]
		for j := 0; j < len(p.mix) && v.pos < len(v.buf); j++ {
			p.mix[j] += v.buf[v.pos] * v.volume
			v.pos++
		}
		if v.pos < len(v.buf) {
			remaining = append(remaining, *v)
		}
	}
	p.active = remaining

	floatToBytes(p.mix, p.pcm)
	return p.pcm
}

func (p *Player) accept() {
	for {
		select {
		case cue := <-p.queue:
			buf := p.cache.get(cue)
			if len(buf) == 0 {
				continue
			}
			p.active = append(p.active, voice{buf: buf, volume: p.cfg.volume(cue)})
			p.played.Add(1)
		default:
			return
		}
	}
}
