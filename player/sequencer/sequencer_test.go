package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbdsound/fbdplayer/player/data"
	"github.com/fbdsound/fbdplayer/player/psg"
)

func TestGetTuneAndOctave(t *testing.T) {
	ctx := &sequencerContext{}

	tune, octave := ctx.getTuneAndOctave(0)
	assert.Equal(t, uint16(3816), tune)
	assert.Equal(t, uint8(0), octave)

	tune, octave = ctx.getTuneAndOctave(12)
	assert.Equal(t, uint16(3816), tune)
	assert.Equal(t, uint8(1), octave)

	tune, octave = ctx.getTuneAndOctave(25)
	assert.Equal(t, uint16(3602), tune)
	assert.Equal(t, uint8(2), octave)
}

// scoreBuilder assembles a complete FBD byte stream: title, envelope
// table, and up to three channel streams, computing every header
// offset (which is relative to the position of the title's null
// terminator, not to absolute position 0) from the actual layout.
type scoreBuilder struct {
	title      string
	envelope   []byte
	channels   [3][]byte
	hasChannel [3]bool
}

func (b *scoreBuilder) setEnvelope(records ...byte) *scoreBuilder {
	b.envelope = append(append([]byte{}, records...), 0xFF)
	return b
}

func (b *scoreBuilder) setChannel(i int, stream ...byte) *scoreBuilder {
	b.channels[i] = stream
	b.hasChannel[i] = true
	return b
}

func (b *scoreBuilder) build() []byte {
	buf := []byte(b.title)
	buf = append(buf, 0) // null terminator
	buf = append(buf, 0) // one reserved/unused byte (dataOffset+1)

	// headerLen is the distance, relative to dataOffset (the null
	// terminator's own position), to the first byte past the header:
	// 1 reserved byte + a 2-byte envelope-offset field + three 2-byte
	// channel-offset fields = 9 bytes, plus the null terminator itself
	// that dataOffset already points at = 10.
	headerLen := uint16(1 + 2 + 2*3 + 1)

	envelopeRel := headerLen
	buf = append(buf, byte(envelopeRel), byte(envelopeRel>>8))

	cursor := headerLen + uint16(len(b.envelope))
	var channelRel [3]uint16
	for i := 0; i < 3; i++ {
		if !b.hasChannel[i] {
			continue
		}
		channelRel[i] = cursor
		cursor += uint16(len(b.channels[i]))
	}
	for i := 0; i < 3; i++ {
		buf = append(buf, byte(channelRel[i]), byte(channelRel[i]>>8))
	}

	buf = append(buf, b.envelope...)
	for i := 0; i < 3; i++ {
		if b.hasChannel[i] {
			buf = append(buf, b.channels[i]...)
		}
	}
	return buf
}

func TestParseHeaderRejectsOutOfRangeEnvelopeOffset(t *testing.T) {
	b := &scoreBuilder{title: "T"}
	buf := b.build() // no envelope bytes appended -> offset points past EOF
	buf[3] = 0xFF
	buf[4] = 0xFF

	_, err := parseHeader(data.NewByteData(buf))
	assert.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestParseHeaderRoundTrip(t *testing.T) {
	b := &scoreBuilder{title: "My Song"}
	b.setEnvelope(1, 255, 255, 0, 0, 0, 255)
	b.setChannel(1, opEndOfPart)
	buf := b.build()

	h, err := parseHeader(data.NewByteData(buf))
	require.NoError(t, err)
	assert.Equal(t, "My Song", h.title)
	assert.Nil(t, h.channelOffsets[0])
	assert.NotNil(t, h.channelOffsets[1])
	assert.Nil(t, h.channelOffsets[2])

	// Re-querying is referentially transparent.
	assert.Equal(t, "My Song", h.title)
}

func TestParseHeaderNormalizesNewlines(t *testing.T) {
	b := &scoreBuilder{title: "line1\nline2"}
	b.setEnvelope()
	buf := b.build()

	h, err := parseHeader(data.NewByteData(buf))
	require.NoError(t, err)
	assert.Equal(t, "line1 line2", h.title)
}

// buildMinimalScore builds the S6 scenario score: title "T", one patch
// record (id=1, al=255, ar=255, dr=0, sl=0, sr=0, rr=255), and a single
// channel stream selecting that patch, playing note 0 for one tick,
// then ending.
func buildMinimalScore() []byte {
	b := &scoreBuilder{title: "T"}
	b.setEnvelope(1, 255, 255, 0, 0, 0, 255)
	b.setChannel(0, opPatchSelect, 1, 0x80, 0x01, opEndOfPart)
	return b.build()
}

func TestMinimalScoreEndToEnd(t *testing.T) {
	sg := psg.NewDefault()
	seq, err := New(sg, data.NewByteData(buildMinimalScore()))
	require.NoError(t, err)
	assert.Equal(t, "T", seq.Title())
	assert.True(t, seq.IsPlaying())

	seq.Tick()
	assert.False(t, seq.IsPlaying(), "single-channel score must stop being playable as soon as its one part ends")
}

func TestFindPatchUnknownIDReportsNotFound(t *testing.T) {
	buf := []byte{1, 10, 20, 30, 40, 50, 60, 0xFF}
	ctx := newContext(psg.NewDefault(), data.NewByteData(buf), 0)

	_, ok := ctx.findPatch(9)
	assert.False(t, ok)
}

func TestRepeatOpcodeCountZeroIsInfinite(t *testing.T) {
	b := &scoreBuilder{title: "T"}
	b.setEnvelope(1, 255, 255, 0, 0, 0, 255)
	b.setChannel(0,
		opRepeatStart, 0, // start infinite loop here
		0x80, 0x01, 0x01, // note 0, length 1
		opRepeatEnd, // loop back forever
	)
	buf := b.build()

	sg := psg.NewDefault()
	seq, err := New(sg, data.NewByteData(buf))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		seq.Tick()
	}
	assert.True(t, seq.IsPlaying())
	assert.Greater(t, seq.LoopCount(), uint32(0))
}
