// Package sequencer implements the FBD score interpreter: header
// parsing, per-part opcode dispatch, envelope/LFO/repeat machinery, and
// the top-level Sequencer that drives a psg.SampleGenerator one tick at
// a time.
package sequencer

import (
	"github.com/fbdsound/fbdplayer/player/data"
	"github.com/fbdsound/fbdplayer/player/psg"
)

// channelCount is the number of PSG tone channels a score can address.
const channelCount = 3

// Sequencer owns one Part per channel present in the score and the
// shared Context they read from. It is the unit a clock.SampleBlockGenerator
// drives tick by tick.
type Sequencer struct {
	title    string
	parts    []*part // only channels present in the score; nil once finished
	channels [channelCount]*psg.ToneChannel
}

// New parses the header out of d and constructs one Part per non-absent
// channel offset, wired to sg. Returns a *FormatError if the header is
// malformed.
func New(sg *psg.SampleGenerator, d data.SequenceData) (*Sequencer, error) {
	h, err := parseHeader(d)
	if err != nil {
		return nil, err
	}

	ctx := newContext(sg, d, h.envelopeTableOffset)

	s := &Sequencer{title: h.title}
	for i, offset := range h.channelOffsets {
		if offset == nil {
			continue
		}
		s.parts = append(s.parts, newPart(ctx, i, *offset))
		s.channels[i] = ctx.getChannel(i)
	}
	return s, nil
}

// Channel returns the PSG tone channel backing score channel i, or nil
// if the score never addressed that channel. Intended for monitoring
// backends; the sequencer itself only drives channels through parts.
func (s *Sequencer) Channel(i int) *psg.ToneChannel {
	if i < 0 || i >= channelCount {
		return nil
	}
	return s.channels[i]
}

// Tick advances every still-active part by one sequencer tick, dropping
// any that reach their end-of-part opcode this tick.
func (s *Sequencer) Tick() {
	for i, p := range s.parts {
		if p == nil {
			continue
		}
		if !p.tick() {
			s.parts[i] = nil
		}
	}
}

// Title is the score's display title.
func (s *Sequencer) Title() string {
	return s.title
}

// IsPlaying is true iff every part present in the score is still
// active. A part slot that finishes makes this false immediately, even
// if the score originally had fewer than three channels - this is the
// termination criterion the clock bridge relies on.
func (s *Sequencer) IsPlaying() bool {
	for _, p := range s.parts {
		if p == nil {
			return false
		}
	}
	return true
}

// LoopCount is the minimum infinite-loop wrap count across all parts
// while every part is still active, else 0.
func (s *Sequencer) LoopCount() uint32 {
	if !s.IsPlaying() {
		return 0
	}
	var min uint32
	for i, p := range s.parts {
		if i == 0 || p.loopCount() < min {
			min = p.loopCount()
		}
	}
	return min
}
