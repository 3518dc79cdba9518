package sequencer

import "github.com/fbdsound/fbdplayer/player/psg"

// Opcode bytes recognized by the interpreter's top-level dispatch.
// 0x00-0x7F and 0x80-0xDF are ranges, handled separately below.
const (
	opPatchSelect     = 0xE0
	opSetVolume       = 0xE1
	opRepeatStart     = 0xE2
	opRepeatBreakLast = 0xE3
	opRepeatEnd       = 0xE4
	opSetNoiseFreq    = 0xE5
	opVolumeUp        = 0xE6
	opVolumeDown      = 0xE7
	opTieMarker       = 0xE8
	opSetDetune       = 0xE9
	opLFOReconfigure  = 0xEA
	opLFOEnable       = 0xEB
	opSetMode         = 0xEC
	opEndOfPart       = 0xFF
)

// part is the opcode interpreter and per-tick update for a single
// sequencer channel.
type part struct {
	context *sequencerContext
	channel *psg.ToneChannel

	nextOffset  uint32
	lengthCount uint16
	isTie       bool
	octave      uint8
	volume      uint8
	tune        uint16
	detune      int16

	envelope *envelopeGenerator
	repeat   *repeatStack
	lfo      *lfo

	infiniteLoopCount uint32
}

func newPart(ctx *sequencerContext, channelIndex int, offset uint32) *part {
	ch := ctx.getChannel(channelIndex)
	ch.SetToneOn(true)
	ch.SetNoiseOn(false)
	return &part{
		context:     ctx,
		channel:     ch,
		nextOffset:  offset,
		lengthCount: 1,
		envelope:    newEnvelopeGenerator(),
		repeat:      newRepeatStack(),
		lfo:         newLFO(false, 0, 0, 0, 0),
	}
}

func (p *part) nextByte() uint8 {
	b := p.context.getByte(p.nextOffset)
	p.nextOffset++
	return b
}

func (p *part) peekByte() uint8 {
	return p.context.getByte(p.nextOffset)
}

func (p *part) nextSignedShort() int16 {
	v := p.context.getSignedShort(p.nextOffset)
	p.nextOffset += 2
	return v
}

func (p *part) updateTune() {
	if p.lfo.update() {
		p.applyTune()
	}
}

func (p *part) applyTune() {
	effective := (int32(p.tune) + int32(p.lfo.current) + int32(p.detune)) >> p.octave
	if effective < 0 {
		effective = 0
	} else if effective > 4095 {
		effective = 4095
	}
	_ = p.channel.SetTune(uint16(effective))
}

func (p *part) updateVolume() {
	p.envelope.update()
	p.applyVolume()
}

// applyVolume scales the envelope's 0..255 current value by the raw
// volume set via opcode 0xE1 and rescales down to a 4-bit channel
// volume. volume may exceed 15 on a malformed score; the arithmetic is
// preserved exactly as specified rather than clamped at load time.
func (p *part) applyVolume() {
	scaled := (int32(p.envelope.current) * int32(p.volume)) >> 8
	_ = p.channel.SetVolume(uint8(scaled))
}

// tick advances this part by one sequencer tick. It returns true while
// the part is still alive, and false once it has reached an end-of-part
// opcode (0xFF), at which point the caller must drop this part from its
// active set.
func (p *part) tick() bool {
	p.updateTune()

	p.lengthCount--
	if p.lengthCount != 0 {
		p.updateVolume()
		return true
	}

	if !p.isTie {
		p.envelope.release()
	}
	p.updateVolume()

	for {
		opcode := p.nextByte()
		switch {
		case opcode < 0x80:
			p.lengthCount = uint16(opcode) + 1
			return true
		case opcode < 0xE0:
			note := opcode - 0x80
			tune, octave := p.context.getTuneAndOctave(note)
			p.tune, p.octave = tune, octave
			if !p.isTie {
				p.envelope.attack()
				p.lfo.reset()
			}
			length := p.nextByte()
			if length == 0 {
				p.lengthCount = 256
			} else {
				p.lengthCount = uint16(length)
			}
			if p.peekByte() == opTieMarker {
				p.isTie = true
				p.nextOffset++
			} else {
				p.isTie = false
			}
			p.applyTune()
			p.applyVolume()
			return true
		default:
			switch opcode {
			case opPatchSelect:
				id := p.nextByte()
				if pt, ok := p.context.findPatch(id); ok {
					p.envelope.setParameter(pt)
				}
			case opSetVolume:
				p.volume = p.nextByte()
			case opRepeatStart:
				count := p.nextByte()
				p.repeat.start(count, p.nextOffset)
			case opRepeatBreakLast:
				p.nextOffset = p.repeat.breakIfLast(p.nextOffset)
			case opRepeatEnd:
				offset, isInfinite := p.repeat.end(p.nextOffset)
				p.nextOffset = offset
				if isInfinite {
					p.infiniteLoopCount++
				}
			case opSetNoiseFreq:
				p.context.setNoiseFrequency(p.nextByte())
			case opVolumeUp:
				if p.volume != 15 {
					p.volume++
				}
			case opVolumeDown:
				if p.volume != 0 {
					p.volume--
				}
			case opTieMarker:
				// An in-stream 0xE8 not consumed by a preceding note's
				// tie peek: no-op, byte already consumed by nextByte above.
			case opSetDetune:
				p.detune = p.nextSignedShort()
			case opLFOReconfigure:
				delay := p.nextByte()
				speed := p.nextByte()
				depth := p.nextByte()
				value := p.nextSignedShort()
				effectiveDelay := uint16(delay)
				if delay == 0 {
					effectiveDelay = 256
				}
				p.lfo = newLFO(true, effectiveDelay, speed, depth, value)
			case opLFOEnable:
				p.lfo.setEnable(p.nextByte() != 0)
			case opSetMode:
				mode := p.nextByte()
				p.channel.SetToneOn(mode&0x1 != 0)
				p.channel.SetNoiseOn(mode&0x2 != 0)
			case opEndOfPart:
				_ = p.channel.SetVolume(0)
				return false
			}
		}
	}
}

func (p *part) loopCount() uint32 {
	return p.infiniteLoopCount
}
