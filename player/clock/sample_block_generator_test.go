package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbdsound/fbdplayer/player/data"
	"github.com/fbdsound/fbdplayer/player/psg"
	"github.com/fbdsound/fbdplayer/player/sequencer"
)

// buildScore assembles a minimal single-channel FBD stream: a one-patch
// envelope table and a channel-0 opcode stream, with every header offset
// computed from the actual section lengths rather than hard-coded.
func buildScore(channel0 []byte) []byte {
	title := []byte{'T', 0}
	envelope := []byte{1, 255, 255, 0, 0, 0, 255, 0xFF}

	buf := append([]byte{}, title...)
	buf = append(buf, 0) // one reserved byte

	const headerLen = 1 + 2 + 2*3 + 1 // see sequencer's scoreBuilder for derivation
	envelopeRel := uint16(headerLen)
	buf = append(buf, byte(envelopeRel), byte(envelopeRel>>8))

	channel0Rel := uint16(headerLen + len(envelope))
	buf = append(buf, byte(channel0Rel), byte(channel0Rel>>8))
	buf = append(buf, 0, 0) // channel 1 absent
	buf = append(buf, 0, 0) // channel 2 absent

	buf = append(buf, envelope...)
	buf = append(buf, channel0...)
	return buf
}

func newTestSequencer(t *testing.T, channel0 []byte) (*sequencer.Sequencer, *psg.SampleGenerator) {
	t.Helper()
	sg := psg.NewDefault()
	seq, err := sequencer.New(sg, data.NewByteData(buildScore(channel0)))
	require.NoError(t, err)
	return seq, sg
}

func TestSampleBlockGeneratorStopsWhenSequencerEnds(t *testing.T) {
	seq, sg := newTestSequencer(t, []byte{0x80, 0x01, 0xFF}) // note 0, length 1, end
	g := New(seq, sg, 0)

	block, err := g.Next(100)
	require.NoError(t, err)
	assert.Len(t, block, 100)

	block, err = g.Next(100)
	require.NoError(t, err)
	assert.Nil(t, block, "Next must report end-of-stream as (nil, nil), not an error")
}

func TestSampleBlockGeneratorRejectsNegativeBlockSize(t *testing.T) {
	seq, sg := newTestSequencer(t, []byte{0xE2, 0, 0x80, 0x01, 0xE4})
	g := New(seq, sg, 0)

	_, err := g.Next(-1)
	assert.Error(t, err)
}

func TestSampleBlockGeneratorProducesExactSampleCountOverFullPeriod(t *testing.T) {
	// The accumulator may carry a few samples of remainder between
	// blocks, but every sample it owes eventually gets produced: total
	// output always matches the requested block sizes exactly, and
	// elapsed time tracks it exactly too.
	seq, sg := newTestSequencer(t, []byte{0xE2, 0, 0x80, 0x01, 0xE4})
	g := New(seq, sg, 0)

	const blockSize = 4096
	const numBlocks = 200
	total := 0
	for i := 0; i < numBlocks; i++ {
		block, err := g.Next(blockSize)
		require.NoError(t, err)
		require.NotNil(t, block)
		total += len(block)
	}
	assert.Equal(t, blockSize*numBlocks, total)

	elapsedWant := float64(blockSize*numBlocks) / float64(sg.SamplingFrequencyHz())
	assert.InDelta(t, elapsedWant, g.ElapseTime(), 1e-9)
}

func TestSampleBlockGeneratorCustomIntervalRatio(t *testing.T) {
	seq, sg := newTestSequencer(t, []byte{0xE2, 0, 0x80, 0x01, 0xE4})
	g := New(seq, sg, 100) // 100 ticks per second: 480 samples per tick at 48 kHz

	block, err := g.Next(256)
	require.NoError(t, err)
	assert.Len(t, block, 256)
}
