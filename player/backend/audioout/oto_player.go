// Package audioout drives live audio output through oto, pulling
// rendered sample blocks from a clock.SampleBlockGenerator on demand.
package audioout

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/fbdsound/fbdplayer/player/clock"
)

// Player streams a SampleBlockGenerator's output to the host's default
// audio device. Read is called from oto's own audio callback goroutine,
// so the generator pointer is swapped atomically rather than guarded by
// a mutex shared with the control methods.
type Player struct {
	ctx       *oto.Context
	player    *oto.Player
	source    atomic.Pointer[clock.SampleBlockGenerator]
	finished  atomic.Bool
	sampleBuf []float32

	mu      sync.Mutex
	started bool
}

// NewPlayer opens an oto context at sampleRate, mono, 32-bit float
// little-endian - the format clock.SampleBlockGenerator already
// produces, so Read needs no resampling or channel duplication.
func NewPlayer(sampleRate int) (*Player, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4096,
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("audioout: failed to open audio context: %w", err)
	}
	<-ready

	return &Player{ctx: ctx}, nil
}

// SetSource swaps in the generator Read pulls from. Calling it again
// mid-playback (e.g. to loop a different score) takes effect on the
// next Read without pausing playback.
func (p *Player) SetSource(gen *clock.SampleBlockGenerator) {
	p.finished.Store(false)
	p.source.Store(gen)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		p.player = p.ctx.NewPlayer(p)
	}
}

// Read implements io.Reader for oto's player, filling buf with
// little-endian float32 samples pulled from the current source. Once
// the source reports end-of-stream, Read fills silence and Finished
// reports true.
func (p *Player) Read(buf []byte) (int, error) {
	gen := p.source.Load()
	if gen == nil {
		clear(buf)
		return len(buf), nil
	}

	numSamples := len(buf) / 4
	if cap(p.sampleBuf) < numSamples {
		p.sampleBuf = make([]float32, numSamples)
	}

	block, err := gen.Next(numSamples)
	if err != nil {
		return 0, fmt.Errorf("audioout: render failed: %w", err)
	}
	if block == nil {
		p.finished.Store(true)
		clear(buf)
		return len(buf), nil
	}

	for i, sample := range block {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(sample))
	}
	return len(block) * 4, nil
}

// Finished reports whether the current source has reached the end of
// its sequence.
func (p *Player) Finished() bool {
	return p.finished.Load()
}

// Start begins playback. Safe to call before a source has been set;
// Read supplies silence until SetSource runs.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		p.player = p.ctx.NewPlayer(p)
	}
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

// Stop pauses playback without releasing the underlying oto player.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started && p.player != nil {
		p.player.Pause()
		p.started = false
	}
}

// Close releases the oto player. The Player must not be used afterward.
func (p *Player) Close() error {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
