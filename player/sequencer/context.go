package sequencer

import (
	"github.com/fbdsound/fbdplayer/player/data"
	"github.com/fbdsound/fbdplayer/player/psg"
)

// tuneTable maps a note (0-11, within an octave) to its raw 12-bit
// tune value.
var tuneTable = [12]uint16{
	3816, 3602, 3400, 3209, 3029, 2859, 2698, 2547, 2404, 2269, 2142, 2022,
}

// sequencerContext is the thin façade every Part shares: byte/short
// reads off the score, patch lookup, the note-to-tune/octave map, and
// access to the PSG the sequencer is driving.
type sequencerContext struct {
	sampleGenerator     *psg.SampleGenerator
	data                data.SequenceData
	envelopeTableOffset uint32
}

func newContext(sg *psg.SampleGenerator, d data.SequenceData, envelopeTableOffset uint32) *sequencerContext {
	return &sequencerContext{sampleGenerator: sg, data: d, envelopeTableOffset: envelopeTableOffset}
}

func (c *sequencerContext) getByte(offset uint32) uint8 {
	return c.data.GetByte(offset)
}

// getSignedShort reads a little-endian u16 and sign-extends it.
func (c *sequencerContext) getSignedShort(offset uint32) int16 {
	raw := c.data.GetShort(offset)
	return int16(raw)
}

// findPatch linearly scans 7-byte records starting at the envelope
// table offset, matching on patch id. A record with id 0xFF terminates
// the table. Returns (patch, true) on a match, else (zero, false).
func (c *sequencerContext) findPatch(target uint8) (patch, bool) {
	offset := c.envelopeTableOffset
	for {
		id := c.getByte(offset)
		if id == 0xFF {
			return patch{}, false
		}
		if id == target {
			return patch{
				al: c.getByte(offset + 1),
				ar: c.getByte(offset + 2),
				dr: c.getByte(offset + 3),
				sl: c.getByte(offset + 4),
				sr: c.getByte(offset + 5),
				rr: c.getByte(offset + 6),
			}, true
		}
		offset += 7
	}
}

// getTuneAndOctave maps an absolute note number to its tune value and
// octave.
func (c *sequencerContext) getTuneAndOctave(note uint8) (uint16, uint8) {
	return tuneTable[note%12], note / 12
}

func (c *sequencerContext) getChannel(i int) *psg.ToneChannel {
	return c.sampleGenerator.Channel(i)
}

func (c *sequencerContext) setNoiseFrequency(f uint8) {
	// f is the raw operand byte from the score, not masked into range.
	// A value outside [0,31] means a malformed score: the PSG rejects
	// it, the error is dropped here, and the noise period stays as it was.
	_ = c.sampleGenerator.SetNoiseFrequency(f)
}
